package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/apkship/internal/app"
)

func (c *CLI) newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [track]",
		Short: "Upload the signed release package with its store listings",
		Long:  "Upload the signed release package with its store listings. A track argument takes precedence over --track.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			track, _ := cmd.Flags().GetString("track")
			if len(args) == 1 {
				track = args[0]
			}
			pkg, _ := cmd.Flags().GetString("package")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := c.app.Publish(cmd.Context(), app.PublishOptions{
				Track:   track,
				Package: pkg,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				_, _ = fmt.Fprintf(out, "dry run: %d listings validated for track %s\n", result.Listings, result.Track)
				return nil
			}
			_, _ = fmt.Fprintf(out, "published version %d to %s (%d listings)\n",
				result.VersionCode, result.Track, result.Listings)
			return nil
		},
	}
	cmd.Flags().StringP("track", "t", "", "Release track (default: configured track)")
	cmd.Flags().StringP("package", "p", "", "Package to upload (default: the signed release output)")
	cmd.Flags().Bool("dry-run", false, "Validate inputs without contacting the platform")
	return cmd
}

func (c *CLI) newCurateLocalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curate-locales",
		Short: "Remove store listing locales the platform does not accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := c.app.CurateLocales(cmd.Context())
			if err != nil {
				return err
			}
			for _, code := range removed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", code)
			}
			return nil
		},
	}
}
