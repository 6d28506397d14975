package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frameflow-ai/frameflow/internal/config"
	"github.com/frameflow-ai/frameflow/internal/domain"
	"github.com/frameflow-ai/frameflow/internal/engine"
)

func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <plan.json>",
		Short: "Execute an instruction plan against the canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), args[0])
		},
	}

	return cmd
}

func runPlan(ctx context.Context, path string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan domain.InstructionPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return err
	}

	store, err := newCanvasStore(ctx, cfg)
	if err != nil {
		return err
	}

	eng := engine.New(store, engine.WithLayoutParams(layoutParams(cfg)))

	if err := eng.ExecutePlan(ctx, &plan); err != nil {
		return err
	}

	fmt.Printf("Plan executed: %d image, %d video, %d music, %d text, %d plugin nodes, %d connections\n",
		len(store.ImageNodes()),
		len(store.VideoNodes()),
		len(store.MusicNodes()),
		len(store.TextNodes()),
		len(store.PluginNodes()),
		len(store.Connections()),
	)

	return nil
}
