// Package orchestrator compiles the native engine for every target architecture.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// diagnosticLimit bounds the compiler output kept for a failed architecture.
const diagnosticLimit = 4096

// Options tunes a single build run.
type Options struct {
	// NoCache rebuilds every architecture regardless of stored build info.
	NoCache bool
	// Parallelism caps concurrent compiler invocations. Zero means one per CPU.
	Parallelism int
}

// Orchestrator runs the per-architecture native builds.
type Orchestrator struct {
	executor  ports.Executor
	digester  ports.SourceDigester
	store     ports.BuildInfoStore
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new Orchestrator.
func New(
	executor ports.Executor,
	digester ports.SourceDigester,
	store ports.BuildInfoStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		executor:  executor,
		digester:  digester,
		store:     store,
		telemetry: telemetry,
		logger:    logger,
	}
}

// commandData is the value the native command template is rendered with.
type commandData struct {
	Arch      string
	ABI       string
	GoArch    string
	Compiler  string
	Output    string
	PkgDir    string
	SourceDir string
}

// Build runs the preparation commands once and then compiles every target.
//
// Architectures are built independently: a failing architecture never cancels the
// others. The returned report always holds one artifact per target, and the error
// joins the failures of every failed architecture.
func (o *Orchestrator) Build(
	ctx context.Context,
	pipeline *domain.Pipeline,
	toolchain domain.Toolchain,
	targets []domain.Target,
	opts Options,
) (*domain.BuildReport, error) {
	if err := o.prepare(ctx, pipeline, toolchain); err != nil {
		return nil, err
	}

	digest, err := o.digester.DigestTree(pipeline.Native.SourceDir, pipeline.Native.Ignore)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to digest native sources"), "source_dir", pipeline.Native.SourceDir)
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	artifacts := make([]*domain.BuildArtifact, len(targets))
	for i, target := range targets {
		artifacts[i] = domain.NewBuildArtifact(target, digest, outputPath(pipeline, target))
	}

	var g errgroup.Group
	g.SetLimit(parallelism)
	for _, artifact := range artifacts {
		g.Go(func() error {
			o.buildTarget(ctx, pipeline, toolchain, artifact, opts)
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.BuildReport{Artifacts: artifacts}
	return report, report.Err()
}

func (o *Orchestrator) prepare(ctx context.Context, pipeline *domain.Pipeline, toolchain domain.Toolchain) error {
	if len(pipeline.Native.Prepare) == 0 {
		return nil
	}

	ctx, vertex := o.telemetry.Record(ctx, "prepare native sources")
	for _, argv := range pipeline.Native.Prepare {
		cmd := &domain.Command{
			Name: argv[0],
			Args: argv[1:],
			Env:  map[string]string{"NDK_VERSION": toolchain.Spec.Version},
			Dir:  pipeline.Native.SourceDir,
		}
		tail := newTailBuffer(diagnosticLimit)
		stdout, stderr := teeVertex(vertex, tail)
		if err := o.executor.Execute(ctx, cmd, stdout, stderr); err != nil {
			failure := zerr.With(zerr.Wrap(domain.ErrPrepareFailed, strings.Join(argv, " ")), "command", argv[0])
			if out := tail.String(); out != "" {
				failure = zerr.With(failure, "diagnostic", out)
			}
			failure = errors.Join(failure, err)
			vertex.Complete(failure)
			return failure
		}
	}
	vertex.Complete(nil)
	return nil
}

func (o *Orchestrator) buildTarget(
	ctx context.Context,
	pipeline *domain.Pipeline,
	toolchain domain.Toolchain,
	artifact *domain.BuildArtifact,
	opts Options,
) {
	arch := artifact.Target.Arch.String()
	ctx, vertex := o.telemetry.Record(ctx, "build "+arch)

	if !opts.NoCache {
		if staged, ok := o.cacheHit(pipeline, toolchain, artifact); ok {
			if err := artifact.Reuse(staged); err == nil {
				o.logger.Info(fmt.Sprintf("%s is up to date", arch))
				vertex.Log(domain.LogLevelInfo, "reusing "+staged)
				vertex.Cached()
				return
			}
		}
	}

	if err := artifact.Start(); err != nil {
		vertex.Complete(err)
		return
	}
	o.logger.Info(fmt.Sprintf("building %s", arch))

	tail := newTailBuffer(diagnosticLimit)
	if err := o.compile(ctx, pipeline, toolchain, artifact, vertex, tail); err != nil {
		_ = artifact.Fail(err, tail.String())
		vertex.Log(domain.LogLevelError, err.Error())
		vertex.Complete(artifact.Err)
		return
	}

	_ = artifact.Succeed(artifact.OutputPath)
	vertex.Complete(nil)
}

func (o *Orchestrator) cacheHit(
	pipeline *domain.Pipeline,
	toolchain domain.Toolchain,
	artifact *domain.BuildArtifact,
) (string, bool) {
	info, err := o.store.Get(pipeline.Root, artifact.Target.Arch)
	if err != nil || !info.Matches(artifact.SourceDigest, toolchain.Spec) || info.StagedPath == "" {
		return "", false
	}
	hash, err := o.digester.HashFile(info.StagedPath)
	if err != nil || hash != info.OutputHash {
		return "", false
	}
	return info.StagedPath, true
}

func (o *Orchestrator) compile(
	ctx context.Context,
	pipeline *domain.Pipeline,
	toolchain domain.Toolchain,
	artifact *domain.BuildArtifact,
	vertex ports.Vertex,
	tail *tailBuffer,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := artifact.Target
	output := artifact.OutputPath
	pkgDir := filepath.Join(pipeline.Native.WorkDir, "go-packages", target.Arch.String())
	for _, dir := range []string{filepath.Dir(output), pkgDir} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create build directory"), "path", dir)
		}
	}
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to remove stale output"), "path", output)
	}

	compiler := toolchain.CompilerFor(target, pipeline.App.MinSDK)
	args, err := renderCommand(pipeline.Native.Command, commandData{
		Arch:      target.Arch.String(),
		ABI:       target.ABI,
		GoArch:    target.GoArch,
		Compiler:  compiler,
		Output:    output,
		PkgDir:    pkgDir,
		SourceDir: pipeline.Native.SourceDir,
	})
	if err != nil {
		return err
	}

	cmd := &domain.Command{
		Name: args[0],
		Args: args[1:],
		Env:  compileEnv(toolchain, target, compiler),
		Dir:  pipeline.Native.SourceDir,
	}
	stdout, stderr := teeVertex(vertex, tail)
	if err := o.executor.Execute(ctx, cmd, stdout, stderr); err != nil {
		return err
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return zerr.With(zerr.Wrap(domain.ErrNoOutput, target.Arch.String()), "path", output)
	}
	return nil
}

func compileEnv(toolchain domain.Toolchain, target domain.Target, compiler string) map[string]string {
	env := map[string]string{
		"GOOS":        "android",
		"GOARCH":      target.GoArch,
		"CC":          compiler,
		"CGO_ENABLED": "1",
		"GO111MODULE": "on",
		"NDK_VERSION": toolchain.Spec.Version,
	}
	if target.GoARM != "" {
		env["GOARM"] = target.GoARM
	}
	return env
}

func renderCommand(argv []string, data commandData) ([]string, error) {
	out := make([]string, 0, len(argv))
	for i, arg := range argv {
		tmpl, err := template.New("native.cmd").Option("missingkey=error").Parse(arg)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid native command"), "index", i)
		}
		var b strings.Builder
		if err := tmpl.Execute(&b, data); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to render native command"), "index", i)
		}
		out = append(out, b.String())
	}
	if len(out) == 0 || out[0] == "" {
		return nil, zerr.Wrap(domain.ErrConfigInvalid, "native command is empty")
	}
	return out, nil
}

func outputPath(pipeline *domain.Pipeline, target domain.Target) string {
	return filepath.Join(pipeline.Native.WorkDir, target.Arch.String(), pipeline.Native.Library)
}
