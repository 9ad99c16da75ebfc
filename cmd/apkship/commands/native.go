package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/apkship/internal/app"
)

func (c *CLI) newBuildNativeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-native",
		Short: "Compile the native engine for every architecture and stage the libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			jobs, _ := cmd.Flags().GetInt("jobs")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")

			if ci {
				outputMode = "linear"
			}

			return c.app.BuildNative(cmd.Context(), app.BuildOptions{
				NoCache:    noCache,
				Jobs:       jobs,
				OutputMode: outputMode,
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Rebuild every architecture even if its staged library is current")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum concurrent compiler invocations (default: configured value or CPU count)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}

func (c *CLI) newCleanNativeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean-native",
		Short: "Remove staged native libraries and their build records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.CleanNative(cmd.Context(), app.CleanOptions{All: all})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Also remove the intermediate build directory")
	return cmd
}
