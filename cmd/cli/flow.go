package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frameflow-ai/frameflow/internal/config"
	"github.com/frameflow-ai/frameflow/internal/engine"
	"github.com/frameflow-ai/frameflow/internal/flow"
)

func NewFlowCommand() *cobra.Command {
	var (
		duration   int
		topic      string
		style      string
		model      string
		strategy   string
		userScript string
		execute    bool
	)

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Generate a duration-driven video flow",
		Long: `Turn a natural-language video request into a segmented script, per-segment
visual prompts and an instruction plan, optionally executing the plan against
the canvas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlow(cmd.Context(), flowOptions{
				duration:   duration,
				topic:      topic,
				style:      style,
				model:      model,
				strategy:   strategy,
				userScript: userScript,
				execute:    execute,
			})
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 30, "Total video duration in seconds")
	cmd.Flags().StringVar(&topic, "topic", "", "What the video is about")
	cmd.Flags().StringVar(&style, "style", "", "Visual style suffix for prompts")
	cmd.Flags().StringVar(&model, "model", "", "Video generation model")
	cmd.Flags().StringVar(&strategy, "strategy", string(flow.StrategySequential), "Flow strategy: sequential or first-last-frame")
	cmd.Flags().StringVar(&userScript, "script", "", "User-supplied script (skips script generation)")
	cmd.Flags().BoolVar(&execute, "execute", false, "Execute the generated plan against the canvas")

	return cmd
}

type flowOptions struct {
	duration   int
	topic      string
	style      string
	model      string
	strategy   string
	userScript string
	execute    bool
}

func runFlow(ctx context.Context, opts flowOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return err
	}

	generator := flow.NewGenerator(completer)

	result, err := generator.Generate(ctx, flow.VideoFlowConfig{
		TotalDuration: opts.duration,
		Topic:         opts.topic,
		Style:         opts.style,
		Model:         opts.model,
		UserScript:    opts.userScript,
	}, flow.Strategy(opts.strategy))
	if err != nil {
		return err
	}

	fmt.Printf("Flow %s: %d scenes, %d plan steps\n", result.RunID, len(result.Scenes), len(result.Plan.Steps))

	for _, scene := range result.Scenes {
		fmt.Printf("  scene %d [%ds-%ds]: %s\n", scene.SceneNumber, scene.TimeStart, scene.TimeEnd, scene.Description)
	}

	if !opts.execute {
		return nil
	}

	store, err := newCanvasStore(ctx, cfg)
	if err != nil {
		return err
	}

	eng := engine.New(store, engine.WithLayoutParams(layoutParams(cfg)))

	if err := eng.ExecutePlan(ctx, result.Plan); err != nil {
		return err
	}

	fmt.Printf("Executed: %d image nodes, %d video nodes, %d connections\n",
		len(store.ImageNodes()), len(store.VideoNodes()), len(store.Connections()))

	return nil
}
