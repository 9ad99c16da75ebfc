// Package staging places compiled native libraries into the per-ABI layout the packager consumes.
package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// CleanOptions selects what Clean removes.
type CleanOptions struct {
	// All also removes the native work directory and the build records.
	All bool
}

// Stager owns the staged layout directory.
type Stager struct {
	targets  []domain.Target
	digester ports.SourceDigester
	store    ports.BuildInfoStore
	logger   ports.Logger
}

// New creates a Stager requiring every architecture in targets.
func New(
	targets []domain.Target,
	digester ports.SourceDigester,
	store ports.BuildInfoStore,
	logger ports.Logger,
) *Stager {
	return &Stager{
		targets:  targets,
		digester: digester,
		store:    store,
		logger:   logger,
	}
}

// Targets returns the required architectures.
func (s *Stager) Targets() []domain.Target {
	return s.targets
}

// Stage moves the succeeded artifacts of report into the staging directory.
//
// The report is validated before anything is written: every required architecture
// must have exactly one succeeded artifact.
func (s *Stager) Stage(pipeline *domain.Pipeline, toolchain domain.ToolchainSpec, report *domain.BuildReport) (*domain.StagedLayout, error) {
	selected, err := s.selectArtifacts(report)
	if err != nil {
		return nil, err
	}

	layout := domain.NewStagedLayout(pipeline.Native.StagingDir, pipeline.Native.Library)
	for _, target := range s.targets {
		artifact := selected[target.Arch]
		entry, err := s.place(pipeline, target, artifact.OutputPath)
		if err != nil {
			return nil, zerr.With(err, "architecture", target.Arch.String())
		}

		if err := s.store.Put(pipeline.Root, domain.BuildInfo{
			Architecture: target.Arch,
			SourceDigest: artifact.SourceDigest,
			Toolchain:    toolchain.Version,
			OutputHash:   entry.OutputHash,
			StagedPath:   entry.Path,
			Timestamp:    time.Now(),
		}); err != nil {
			return nil, err
		}
		layout.Entries[target.Arch] = entry
	}

	s.logger.Info(fmt.Sprintf("staged %d architectures in %s", len(layout.Entries), layout.Root))
	return layout, nil
}

func (s *Stager) selectArtifacts(report *domain.BuildReport) (map[domain.Architecture]*domain.BuildArtifact, error) {
	selected := make(map[domain.Architecture]*domain.BuildArtifact, len(s.targets))
	if report != nil {
		for _, artifact := range report.Succeeded() {
			arch := artifact.Target.Arch
			if _, dup := selected[arch]; dup {
				return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateArtifact, arch.String()),
					"architecture", arch.String())
			}
			selected[arch] = artifact
		}
	}

	var missing []string
	for _, target := range s.targets {
		if _, ok := selected[target.Arch]; !ok {
			missing = append(missing, target.Arch.String())
		}
	}
	if len(missing) > 0 {
		return nil, missingError(missing)
	}
	return selected, nil
}

func missingError(missing []string) error {
	names := strings.Join(missing, ", ")
	return zerr.With(zerr.Wrap(domain.ErrMissingArchitecture, names), "architectures", names)
}

func (s *Stager) place(pipeline *domain.Pipeline, target domain.Target, src string) (domain.StagedEntry, error) {
	dir := filepath.Join(pipeline.Native.StagingDir, target.ABI)
	dst := filepath.Join(dir, pipeline.Native.Library)

	if filepath.Clean(src) == dst {
		if err := removeOthers(dir, pipeline.Native.Library); err != nil {
			return domain.StagedEntry{}, err
		}
	} else {
		if err := os.RemoveAll(dir); err != nil {
			return domain.StagedEntry{}, zerr.With(zerr.Wrap(err, "failed to clear staging directory"), "path", dir)
		}
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return domain.StagedEntry{}, zerr.With(zerr.Wrap(err, "failed to create staging directory"), "path", dir)
		}
		if err := move(src, dst); err != nil {
			return domain.StagedEntry{}, zerr.With(zerr.With(err, "from", src), "to", dst)
		}
	}

	if err := os.Chmod(dst, domain.LibraryPerm); err != nil {
		return domain.StagedEntry{}, zerr.With(zerr.Wrap(err, "failed to mark library executable"), "path", dst)
	}

	hash, err := s.digester.HashFile(dst)
	if err != nil {
		return domain.StagedEntry{}, err
	}
	return domain.StagedEntry{Target: target, Path: dst, OutputHash: hash}, nil
}

func removeOthers(dir, library string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read staging directory"), "path", dir)
	}
	for _, e := range entries {
		if e.Name() == library {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove stale staged file"), "path", e.Name())
		}
	}
	return nil
}

// move renames src to dst, copying when they live on different devices.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src) // #nosec G304 -- src is an orchestrator output path
	if err != nil {
		return zerr.Wrap(err, "failed to open build output")
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.LibraryPerm) // #nosec G304
	if err != nil {
		return zerr.Wrap(err, "failed to create staged library")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.Wrap(err, "failed to copy build output")
	}
	if err := out.Close(); err != nil {
		return zerr.Wrap(err, "failed to close staged library")
	}
	return os.Remove(src)
}

// Layout inspects the staging directory and returns the layout found on disk.
func (s *Stager) Layout(pipeline *domain.Pipeline) (*domain.StagedLayout, error) {
	layout := domain.NewStagedLayout(pipeline.Native.StagingDir, pipeline.Native.Library)

	var missing []string
	for _, target := range s.targets {
		dir := filepath.Join(pipeline.Native.StagingDir, target.ABI)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			missing = append(missing, target.Arch.String())
			continue
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read staging directory"), "path", dir)
		}

		var found bool
		for _, e := range entries {
			if e.Name() != pipeline.Native.Library || !e.Type().IsRegular() {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnexpectedStagedFile, e.Name()),
					"architecture", target.Arch.String()), "path", filepath.Join(dir, e.Name()))
			}
			found = true
		}
		if !found {
			missing = append(missing, target.Arch.String())
			continue
		}

		path := filepath.Join(dir, pipeline.Native.Library)
		hash, err := s.digester.HashFile(path)
		if err != nil {
			return nil, err
		}
		layout.Entries[target.Arch] = domain.StagedEntry{Target: target, Path: path, OutputHash: hash}
	}

	if len(missing) > 0 {
		return nil, missingError(missing)
	}
	return layout, nil
}

// Clean removes the staged libraries and leaves the build records in place. A record
// whose staged library is gone never counts as a cache hit. With All the native
// work dir and the build records are removed as well. It is a no-op when nothing is
// staged.
func (s *Stager) Clean(pipeline *domain.Pipeline, opts CleanOptions) error {
	dirs := []string{pipeline.Native.StagingDir}
	if opts.All {
		dirs = append(dirs, pipeline.Native.WorkDir)
	}

	var errs error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove directory"), "path", dir))
			continue
		}
		s.logger.Info(fmt.Sprintf("removed %s", dir))
	}

	if !opts.All {
		return errs
	}
	for _, target := range s.targets {
		if err := s.store.Delete(pipeline.Root, target.Arch); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
