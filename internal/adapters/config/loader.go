// Package config provides the pipeline configuration loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only configuration schema version understood by the loader.
const SupportedVersion = "1"

// Defaults applied to keys the configuration file leaves empty.
const (
	DefaultApplicationID     = "com.nutomic.syncthingandroid"
	DefaultVersionName       = "1.27.2-rc.2"
	DefaultVersionCode       = 4372
	DefaultMinSDK            = 21
	DefaultTargetSDK         = 33
	DefaultCompileSDK        = 33
	DefaultBuildToolsVersion = "33.0.2"
	DefaultSourceDir         = "syncthing/src/github.com/syncthing/syncthing"
	DefaultWorkDir           = "syncthing/gobuild"
	DefaultStagingDir        = "app/src/main/jniLibs"
	DefaultLibrary           = "libsyncthing.so"
	DefaultOutputDir         = "app/build/outputs/apk"
	DefaultPackageName       = "app"
	DefaultListingsDir       = "app/src/main/play/listings"
	DefaultCredentialsFile   = "keys.json"
)

// DefaultNativeCommand compiles the engine as a position independent executable.
func DefaultNativeCommand() []string {
	return []string{
		"go", "build", "-trimpath", "-buildmode=pie", "-ldflags=-s -w",
		"-pkgdir", "{{.PkgDir}}", "-o", "{{.Output}}", "./cmd/syncthing",
	}
}

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the pipeline configuration. path is either the configuration file itself
// or a directory from which the file is searched upwards.
func (l *Loader) Load(path string) (*domain.Pipeline, error) {
	configPath, err := l.findConfiguration(path)
	if err != nil {
		return nil, err
	}

	var file Pipelinefile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unsupported version"), "version", file.Version)
	}
	if file.Version == "" {
		l.Logger.Warn(fmt.Sprintf("%s has no version, assuming %s", configPath, SupportedVersion))
	}

	return l.toPipeline(&file, resolveRoot(configPath, file.Root))
}

func (l *Loader) findConfiguration(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve path")
	}

	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return abs, nil
	}

	currentDir := abs
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "config discovery"), "cwd", abs)
}

func (l *Loader) toPipeline(file *Pipelinefile, root string) (*domain.Pipeline, error) {
	command := file.Native.Cmd
	if len(command) == 0 {
		command = DefaultNativeCommand()
	}
	if err := validateTemplates("native.cmd", command); err != nil {
		return nil, err
	}
	for i, prepare := range file.Native.Prepare {
		if len(prepare) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "empty prepare command"), "index", i)
		}
	}
	if file.Native.Parallelism < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "parallelism must not be negative"),
			"parallelism", file.Native.Parallelism)
	}

	library := orDefault(file.Native.Library, DefaultLibrary)
	if strings.ContainsRune(library, '/') || !strings.HasSuffix(library, ".so") {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "library must be a shared object file name"),
			"library", library)
	}

	appID := orDefault(file.App.ID, DefaultApplicationID)
	versionCode := file.App.VersionCode
	if versionCode == 0 {
		versionCode = DefaultVersionCode
	}
	minSDK := orDefaultInt(file.App.MinSDK, DefaultMinSDK)

	pipeline := &domain.Pipeline{
		Root: root,
		App: domain.AppSettings{
			ID:          appID,
			DebugSuffix: orDefault(file.App.DebugSuffix, domain.DefaultDebugSuffix),
			VersionName: orDefault(file.App.VersionName, DefaultVersionName),
			VersionCode: versionCode,
			MinSDK:      minSDK,
			TargetSDK:   orDefaultInt(file.App.TargetSDK, DefaultTargetSDK),
			ShellDir:    optionalPath(root, file.App.ShellDir),
		},
		Toolchain: domain.ToolchainSpec{
			Version: orDefault(file.Toolchain.NDKVersion, domain.DefaultNDKVersion),
		},
		Native: domain.NativeSettings{
			SourceDir:   resolvePath(root, file.Native.SourceDir, DefaultSourceDir),
			WorkDir:     resolvePath(root, file.Native.WorkDir, DefaultWorkDir),
			StagingDir:  resolvePath(root, file.Native.StagingDir, DefaultStagingDir),
			Library:     library,
			Prepare:     file.Native.Prepare,
			Command:     command,
			Ignore:      file.Native.Ignore,
			Parallelism: file.Native.Parallelism,
		},
		Package: domain.PackageSettings{
			OutputDir:         resolvePath(root, file.Package.OutputDir, DefaultOutputDir),
			Name:              orDefault(file.Package.Name, DefaultPackageName),
			OptimizeSize:      file.Package.OptimizeSize,
			CompileSDK:        orDefaultInt(file.Package.CompileSDK, DefaultCompileSDK),
			BuildToolsVersion: orDefault(file.Toolchain.BuildToolsVersion, DefaultBuildToolsVersion),
		},
		Publish: domain.PublishSettings{
			PackageName:     orDefault(file.Publish.PackageName, appID),
			Track:           orDefault(file.Publish.Track, domain.DefaultTrack),
			ListingsDir:     resolvePath(root, file.Publish.ListingsDir, DefaultListingsDir),
			CredentialsFile: resolvePath(root, file.Publish.CredentialsFile, DefaultCredentialsFile),
		},
	}

	if pipeline.Native.StagingDir == root || pipeline.Native.WorkDir == root {
		return nil, zerr.Wrap(domain.ErrConfigInvalid, "staging and work directories must not be the project root")
	}

	return pipeline, nil
}

func validateTemplates(key string, args []string) error {
	for i, arg := range args {
		if _, err := template.New(key).Option("missingkey=error").Parse(arg); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigInvalid, err.Error()), "key", key), "index", i)
		}
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

func resolvePath(root, configured, fallback string) string {
	return optionalPath(root, orDefault(configured, fallback))
}

func optionalPath(root, configured string) string {
	if configured == "" {
		return ""
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Join(root, configured)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

func orDefaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
