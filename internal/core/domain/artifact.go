package domain

import (
	"errors"
	"slices"

	"go.trai.ch/zerr"
)

// ArtifactStatus is the lifecycle state of a native build artifact.
type ArtifactStatus string

const (
	// ArtifactPending indicates the build has not started.
	ArtifactPending ArtifactStatus = "pending"
	// ArtifactBuilding indicates the compiler is running.
	ArtifactBuilding ArtifactStatus = "building"
	// ArtifactSucceeded indicates a library exists at the output path.
	ArtifactSucceeded ArtifactStatus = "succeeded"
	// ArtifactFailed indicates the compiler failed.
	ArtifactFailed ArtifactStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed.
func (s ArtifactStatus) IsTerminal() bool {
	return s == ArtifactSucceeded || s == ArtifactFailed
}

// BuildArtifact is the result of compiling the native engine for one architecture.
type BuildArtifact struct {
	Target       Target
	SourceDigest string
	OutputPath   string
	Status       ArtifactStatus
	// Cached is set when the artifact was reused from a previous run.
	Cached bool
	// Diagnostic holds the tail of the compiler output of a failed build.
	Diagnostic string
	Err        error
}

// NewBuildArtifact creates a pending artifact.
func NewBuildArtifact(target Target, digest, outputPath string) *BuildArtifact {
	return &BuildArtifact{
		Target:       target,
		SourceDigest: digest,
		OutputPath:   outputPath,
		Status:       ArtifactPending,
	}
}

// Start moves a pending artifact to building.
func (a *BuildArtifact) Start() error {
	return a.transition(ArtifactPending, ArtifactBuilding)
}

// Succeed records a finished library at path.
func (a *BuildArtifact) Succeed(path string) error {
	if err := a.transition(ArtifactBuilding, ArtifactSucceeded); err != nil {
		return err
	}
	a.OutputPath = path
	return nil
}

// Reuse records a cache hit, skipping the building state.
func (a *BuildArtifact) Reuse(path string) error {
	if err := a.transition(ArtifactPending, ArtifactSucceeded); err != nil {
		return err
	}
	a.OutputPath = path
	a.Cached = true
	return nil
}

// Fail records a compiler failure together with its diagnostic output.
func (a *BuildArtifact) Fail(cause error, diagnostic string) error {
	if a.Status.IsTerminal() {
		return a.invalid(ArtifactFailed)
	}
	a.Status = ArtifactFailed
	a.Diagnostic = diagnostic
	failure := zerr.With(zerr.Wrap(ErrBuildFailure, a.Target.Arch.String()), "architecture", a.Target.Arch.String())
	if diagnostic != "" {
		failure = zerr.With(failure, "diagnostic", diagnostic)
	}
	a.Err = errors.Join(failure, cause)
	return nil
}

func (a *BuildArtifact) transition(from, to ArtifactStatus) error {
	if a.Status != from {
		return a.invalid(to)
	}
	a.Status = to
	return nil
}

func (a *BuildArtifact) invalid(to ArtifactStatus) error {
	err := zerr.Wrap(ErrInvalidTransition, string(a.Status)+" -> "+string(to))
	return zerr.With(err, "architecture", a.Target.Arch.String())
}

// BuildReport collects the artifacts of one native build run.
type BuildReport struct {
	Artifacts []*BuildArtifact
}

// Succeeded returns the successful artifacts in target order.
func (r *BuildReport) Succeeded() []*BuildArtifact {
	return r.filter(ArtifactSucceeded)
}

// Failed returns the failed artifacts in target order.
func (r *BuildReport) Failed() []*BuildArtifact {
	return r.filter(ArtifactFailed)
}

// FailedArchitectures returns the sorted architectures of the failed artifacts.
func (r *BuildReport) FailedArchitectures() []Architecture {
	failed := r.Failed()
	archs := make([]Architecture, 0, len(failed))
	for _, a := range failed {
		archs = append(archs, a.Target.Arch)
	}
	slices.Sort(archs)
	return archs
}

// Err joins the failure of every failed artifact, or returns nil when all succeeded.
func (r *BuildReport) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed)+1)
	errs = append(errs, ErrNativeBuildFailed)
	for _, a := range failed {
		errs = append(errs, a.Err)
	}
	return errors.Join(errs...)
}

func (r *BuildReport) filter(status ArtifactStatus) []*BuildArtifact {
	var out []*BuildArtifact
	for _, a := range r.Artifacts {
		if a != nil && a.Status == status {
			out = append(out, a)
		}
	}
	return out
}
