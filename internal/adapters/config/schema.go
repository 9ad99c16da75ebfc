package config

// Pipelinefile represents the structure of the apkship.yaml configuration file.
type Pipelinefile struct {
	Version   string       `yaml:"version"`
	Root      string       `yaml:"root"`
	App       AppDTO       `yaml:"app"`
	Toolchain ToolchainDTO `yaml:"toolchain"`
	Native    NativeDTO    `yaml:"native"`
	Package   PackageDTO   `yaml:"package"`
	Publish   PublishDTO   `yaml:"publish"`
}

// AppDTO identifies the packaged application.
type AppDTO struct {
	ID          string `yaml:"id"`
	DebugSuffix string `yaml:"debugSuffix"`
	VersionName string `yaml:"versionName"`
	VersionCode int64  `yaml:"versionCode"`
	MinSDK      int    `yaml:"minSdk"`
	TargetSDK   int    `yaml:"targetSdk"`
	ShellDir    string `yaml:"shellDir"`
}

// ToolchainDTO pins the native toolchain.
type ToolchainDTO struct {
	NDKVersion        string `yaml:"ndkVersion"`
	BuildToolsVersion string `yaml:"buildToolsVersion"`
}

// NativeDTO configures the native engine build.
type NativeDTO struct {
	SourceDir   string     `yaml:"sourceDir"`
	WorkDir     string     `yaml:"workDir"`
	StagingDir  string     `yaml:"stagingDir"`
	Library     string     `yaml:"library"`
	Prepare     [][]string `yaml:"prepare"`
	Cmd         []string   `yaml:"cmd"`
	Ignore      []string   `yaml:"ignore"`
	Parallelism int        `yaml:"parallelism"`
}

// PackageDTO configures package assembly.
type PackageDTO struct {
	OutputDir    string `yaml:"outputDir"`
	Name         string `yaml:"name"`
	OptimizeSize bool   `yaml:"optimizeSize"`
	CompileSDK   int    `yaml:"compileSdk"`
}

// PublishDTO configures the release publisher.
type PublishDTO struct {
	PackageName     string `yaml:"packageName"`
	Track           string `yaml:"track"`
	ListingsDir     string `yaml:"listingsDir"`
	CredentialsFile string `yaml:"credentialsFile"`
}
