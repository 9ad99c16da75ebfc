// Package app implements the application layer for apkship.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/apkship/internal/adapters/detector"
	"go.trai.ch/apkship/internal/adapters/telemetry/progrock"
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/apkship/internal/engine/curation"
	"go.trai.ch/apkship/internal/engine/orchestrator"
	"go.trai.ch/apkship/internal/engine/publisher"
	"go.trai.ch/apkship/internal/engine/staging"
	"go.trai.ch/apkship/internal/engine/toolchain"
	"go.trai.ch/apkship/internal/engine/variant"
	"go.trai.ch/apkship/internal/tui"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	env          ports.Environment
	toolchains   *toolchain.Resolver
	orchestrator *orchestrator.Orchestrator
	stager       *staging.Stager
	variants     *variant.Builder
	publisher    *publisher.Publisher
	curator      *curation.Curator
	recorder     *progrock.Recorder
	logger       ports.Logger

	configPath string
	stderr     io.Writer
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	env ports.Environment,
	toolchains *toolchain.Resolver,
	orch *orchestrator.Orchestrator,
	stager *staging.Stager,
	variants *variant.Builder,
	pub *publisher.Publisher,
	curator *curation.Curator,
	recorder *progrock.Recorder,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		env:          env,
		toolchains:   toolchains,
		orchestrator: orch,
		stager:       stager,
		variants:     variants,
		publisher:    pub,
		curator:      curator,
		recorder:     recorder,
		logger:       log,
		configPath:   ".",
		stderr:       os.Stderr,
	}
}

// UseConfig sets the configuration file, or the directory it is searched from.
func (a *App) UseConfig(path string) {
	if path != "" {
		a.configPath = path
	}
}

// WithStderr redirects progress output.
func (a *App) WithStderr(w io.Writer) *App {
	a.stderr = w
	return a
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

func (a *App) load() (*domain.Pipeline, error) {
	pipeline, err := a.configLoader.Load(a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return pipeline, nil
}

// BuildOptions configures BuildNative.
type BuildOptions struct {
	NoCache bool
	// Jobs overrides the configured parallelism when positive.
	Jobs       int
	OutputMode string
}

// BuildNative compiles the engine for every architecture and stages the libraries.
// Nothing is staged unless every architecture succeeded.
func (a *App) BuildNative(ctx context.Context, opts BuildOptions) error {
	pipeline, err := a.load()
	if err != nil {
		return err
	}

	tc, err := a.toolchains.Resolve(pipeline)
	if err != nil {
		return err
	}

	parallelism := pipeline.Native.Parallelism
	if opts.Jobs > 0 {
		parallelism = opts.Jobs
	}

	var g errgroup.Group
	if sub := a.recorder.Subscribe(); sub != nil {
		mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
		g.Go(func() error {
			return a.render(ctx, sub, mode)
		})
	}

	var buildErr error
	g.Go(func() error {
		defer func() {
			_ = a.recorder.Close()
		}()

		report, err := a.orchestrator.Build(ctx, pipeline, tc, a.stager.Targets(), orchestrator.Options{
			NoCache:     opts.NoCache,
			Parallelism: parallelism,
		})
		if err != nil {
			buildErr = err
			return nil
		}

		layout, err := a.stager.Stage(pipeline, tc.Spec, report)
		if err != nil {
			buildErr = err
			return nil
		}
		a.logger.Info(fmt.Sprintf("staged %d architectures in %s", len(layout.Entries), layout.Root))
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Warn(fmt.Sprintf("progress view failed: %v", err))
	}
	return buildErr
}

func (a *App) render(ctx context.Context, sub tui.TapeSource, mode detector.OutputMode) error {
	if mode != detector.ModeTUI {
		tui.NewLinear(a.stderr).Run(sub)
		return nil
	}

	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
	_, err := tea.NewProgram(tui.NewModel(sub), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// CleanOptions configures CleanNative.
type CleanOptions struct {
	// All also removes the intermediate build directory.
	All bool
}

// CleanNative removes staged libraries and their build records.
func (a *App) CleanNative(_ context.Context, opts CleanOptions) error {
	pipeline, err := a.load()
	if err != nil {
		return err
	}
	return a.stager.Clean(pipeline, staging.CleanOptions{All: opts.All})
}

// Package assembles the named variant from the staged libraries.
func (a *App) Package(ctx context.Context, name string) (*domain.PackageArtifact, error) {
	kind, err := domain.ParseVariantKind(name)
	if err != nil {
		return nil, err
	}

	pipeline, err := a.load()
	if err != nil {
		return nil, err
	}

	artifact, err := a.variants.Build(ctx, pipeline, kind)
	if err != nil {
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("wrote %s", artifact.Path))
	return artifact, nil
}

// PublishOptions configures Publish.
type PublishOptions struct {
	// Track overrides the configured track.
	Track string
	// Package overrides the signed release package path.
	Package string
	DryRun  bool
}

// Publish uploads the release package with the curated store listings.
func (a *App) Publish(ctx context.Context, opts PublishOptions) (*domain.PublishResult, error) {
	pipeline, err := a.load()
	if err != nil {
		return nil, err
	}

	listings, err := curation.Load(pipeline.Publish.ListingsDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		a.logger.Warn(fmt.Sprintf("no store listings at %s", pipeline.Publish.ListingsDir))
	case err != nil:
		return nil, err
	}

	req := &domain.PublishRequest{
		PackagePath:     a.packagePath(pipeline, opts.Package),
		PackageName:     pipeline.Publish.PackageName,
		Track:           orDefault(opts.Track, pipeline.Publish.Track),
		CredentialsPath: a.credentialsPath(pipeline),
		Listings:        a.curator.Curate(listings),
		DryRun:          opts.DryRun,
	}
	return a.publisher.Publish(ctx, req)
}

func (a *App) packagePath(pipeline *domain.Pipeline, override string) string {
	if override == "" {
		return variant.OutputPath(pipeline, domain.VariantRelease, false)
	}
	return absolute(pipeline.Root, override)
}

func (a *App) credentialsPath(pipeline *domain.Pipeline) string {
	if path, ok := a.env.Lookup(ports.EnvCredentialsFile); ok {
		return absolute(pipeline.Root, path)
	}
	return pipeline.Publish.CredentialsFile
}

// CurateLocales removes the listing directories the platform does not accept
// and returns their codes.
func (a *App) CurateLocales(_ context.Context) ([]string, error) {
	pipeline, err := a.load()
	if err != nil {
		return nil, err
	}

	removed, err := a.curator.Prune(pipeline.Publish.ListingsDir)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		a.logger.Info("no unsupported locales found")
	}
	return removed, nil
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
