// Package commands implements the CLI commands for apkship.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/apkship/internal/app"
	"go.trai.ch/apkship/internal/build"
	"go.trai.ch/apkship/internal/core/domain"
)

// CLI represents the command line interface for apkship.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	UseConfig(path string)
	BuildNative(ctx context.Context, opts app.BuildOptions) error
	CleanNative(ctx context.Context, opts app.CleanOptions) error
	Package(ctx context.Context, variant string) (*domain.PackageArtifact, error)
	Publish(ctx context.Context, opts app.PublishOptions) (*domain.PublishResult, error)
	CurateLocales(ctx context.Context) ([]string, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "apkship",
		Short:         "Build, package, sign and publish the syncthing Android app",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config, _ := cmd.Flags().GetString("config")
			a.UseConfig(config)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "",
		"Path to "+domain.ConfigFileName+" (default: searched upwards from the working directory)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildNativeCmd())
	rootCmd.AddCommand(c.newCleanNativeCmd())
	rootCmd.AddCommand(c.newPackageCmd())
	rootCmd.AddCommand(c.newPublishCmd())
	rootCmd.AddCommand(c.newCurateLocalesCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
