package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frameflow-ai/frameflow/internal/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Printf("frameflow %s (%s, %s)\n", version.GetShortVersion(), info.GoVersion, info.Platform)
		},
	}
}
