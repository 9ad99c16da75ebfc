package domain

// AppSettings identifies the packaged application.
type AppSettings struct {
	ID          string
	DebugSuffix string
	VersionName string
	VersionCode int64
	MinSDK      int
	TargetSDK   int
	ShellDir    string
}

// NativeSettings configures the native engine build.
type NativeSettings struct {
	SourceDir  string
	WorkDir    string
	StagingDir string
	Library    string
	// Prepare commands run once before any architecture is dispatched.
	Prepare [][]string
	// Command is the compiler invocation template run once per architecture.
	Command     []string
	Ignore      []string
	Parallelism int
}

// PackageSettings configures package assembly.
type PackageSettings struct {
	OutputDir         string
	Name              string
	OptimizeSize      bool
	BuildToolsVersion string
	// CompileSDK selects the platform the manifest is linked against.
	CompileSDK int
}

// PublishSettings configures the release publisher.
type PublishSettings struct {
	PackageName     string
	Track           string
	ListingsDir     string
	CredentialsFile string
}

// Pipeline is the resolved configuration of a project. All paths are absolute.
type Pipeline struct {
	Root      string
	App       AppSettings
	Toolchain ToolchainSpec
	Native    NativeSettings
	Package   PackageSettings
	Publish   PublishSettings
}
