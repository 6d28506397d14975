package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all engine configuration
type Config struct {
	// Prompt completion provider: openai, anthropic or gemini
	Provider string
	Model    string

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Durable storage backend: none, postgres or mongodb
	StorageBackend string
	PostgresDSN    string
	MongoURI       string
	MongoDatabase  string

	// Layout grid parameters
	FrameWidth        float64
	FrameHeight       float64
	VerticalSpacing   float64
	ColumnGap         float64
	HorizontalSpacing float64
}

// LoadConfig loads configuration from files and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("FRAMEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"Provider":        "PROVIDER",
		"Model":           "MODEL",
		"OpenAIAPIKey":    "OPENAI_API_KEY",
		"AnthropicAPIKey": "ANTHROPIC_API_KEY",
		"GeminiAPIKey":    "GEMINI_API_KEY",
		"StorageBackend":  "STORAGE_BACKEND",
		"PostgresDSN":     "POSTGRES_DSN",
		"MongoURI":        "MONGO_URI",
		"MongoDatabase":   "MONGO_DATABASE",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, "FRAMEFLOW_"+envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("frameflow_config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.frameflow")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Provider", "openai")
	v.SetDefault("Model", "gpt-4o-mini")
	v.SetDefault("StorageBackend", "none")
	v.SetDefault("MongoDatabase", "frameflow")

	v.SetDefault("FrameWidth", 600)
	v.SetDefault("FrameHeight", 400)
	v.SetDefault("VerticalSpacing", 500)
	v.SetDefault("ColumnGap", 800)
	v.SetDefault("HorizontalSpacing", 700)
}
