package app_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apkship/internal/adapters/apk"
	"go.trai.ch/apkship/internal/adapters/cas"
	"go.trai.ch/apkship/internal/adapters/fs"
	"go.trai.ch/apkship/internal/adapters/telemetry/progrock"
	"go.trai.ch/apkship/internal/app"
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/apkship/internal/core/ports/mocks"
	"go.trai.ch/apkship/internal/engine/curation"
	"go.trai.ch/apkship/internal/engine/orchestrator"
	"go.trai.ch/apkship/internal/engine/publisher"
	"go.trai.ch/apkship/internal/engine/signing"
	"go.trai.ch/apkship/internal/engine/staging"
	"go.trai.ch/apkship/internal/engine/toolchain"
	"go.trai.ch/apkship/internal/engine/variant"
	"go.uber.org/mock/gomock"
)

type fakeEnv map[string]string

func (e fakeEnv) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok && v != ""
}

type harness struct {
	ctrl     *gomock.Controller
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	factory  *mocks.MockDistributionClientFactory
	signer   *mocks.MockSigner
	logger   *mocks.MockLogger
	env      fakeEnv
	pipeline *domain.Pipeline
	progress *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	source := filepath.Join(root, "syncthing")
	require.NoError(t, os.MkdirAll(source, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(source, "main.go"), []byte("package main\n"), 0o600))
	ndk := filepath.Join(root, "ndk")
	require.NoError(t, os.MkdirAll(ndk, 0o750))
	sdk := filepath.Join(root, "sdk")
	jar := filepath.Join(sdk, "platforms", "android-33", "android.jar")
	require.NoError(t, os.MkdirAll(filepath.Dir(jar), 0o750))
	require.NoError(t, os.WriteFile(jar, []byte("PK"), 0o600))

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	return &harness{
		ctrl:     ctrl,
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		factory:  mocks.NewMockDistributionClientFactory(ctrl),
		signer:   mocks.NewMockSigner(ctrl),
		logger:   logger,
		env: fakeEnv{
			ports.EnvNDKHome:     ndk,
			ports.EnvAndroidHome: sdk,
			ports.EnvHome:        filepath.Join(root, "home"),
		},
		progress: new(bytes.Buffer),
		pipeline: &domain.Pipeline{
			Root: root,
			App: domain.AppSettings{
				ID:          "com.nutomic.syncthingandroid",
				DebugSuffix: domain.DefaultDebugSuffix,
				VersionName: "1.27.2",
				VersionCode: 4372,
				MinSDK:      21,
				TargetSDK:   33,
			},
			Toolchain: domain.ToolchainSpec{Version: domain.DefaultNDKVersion},
			Native: domain.NativeSettings{
				SourceDir:  source,
				WorkDir:    filepath.Join(root, "gobuild"),
				StagingDir: filepath.Join(root, "jniLibs"),
				Library:    "libsyncthing.so",
				Command:    []string{"go", "build", "-o", "{{.Output}}", "./cmd/syncthing"},
			},
			Package: domain.PackageSettings{
				OutputDir:         filepath.Join(root, "outputs"),
				Name:              "app",
				CompileSDK:        33,
				BuildToolsVersion: "33.0.2",
			},
			Publish: domain.PublishSettings{
				PackageName:     "com.nutomic.syncthingandroid",
				Track:           domain.DefaultTrack,
				ListingsDir:     filepath.Join(root, "listings"),
				CredentialsFile: filepath.Join(root, "keys.json"),
			},
		},
	}
}

func (h *harness) app() *app.App {
	digester := fs.NewHasher(fs.NewWalker())
	store := cas.NewStore()
	recorder := progrock.New()

	stager := staging.New(domain.DefaultTargets(), digester, store, h.logger)
	signer := signing.New(h.env, h.signer, h.logger)

	a := app.New(
		h.loader,
		h.env,
		toolchain.NewResolver(h.env),
		orchestrator.New(h.executor, digester, store, recorder, h.logger),
		stager,
		variant.New(stager, apk.NewPackager(h.executor, h.env, h.logger), signer, h.logger),
		publisher.New(domain.DefaultTracks(), h.factory, h.logger),
		curation.New(domain.DefaultExcludedLocales(), h.logger),
		recorder,
		h.logger,
	).WithStderr(h.progress)
	a.UseConfig("apkship.yaml")
	return a
}

// compile simulates the compiler, failing for the architectures in failing.
func compile(failing ...string) func(context.Context, *domain.Command, io.Writer, io.Writer) error {
	return func(_ context.Context, cmd *domain.Command, stdout, stderr io.Writer) error {
		for _, arch := range failing {
			if cmd.Env["GOARCH"] == arch {
				_, _ = io.WriteString(stderr, "ld: undefined reference to `android_log'\n")
				return errors.New("exit status 1")
			}
		}
		_, _ = io.WriteString(stdout, "ok\n")
		for i, arg := range cmd.Args {
			if arg == "-o" {
				return os.WriteFile(cmd.Args[i+1], []byte("ELF "+cmd.Env["GOARCH"]), 0o600)
			}
		}
		return errors.New("no -o flag")
	}
}

// link simulates the resource linker by writing a base package with a manifest.
func link(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
	if cmd.Name != apk.LinkTool || cmd.Args[0] != "link" {
		return errors.New("unexpected command " + cmd.Name)
	}
	i := slices.Index(cmd.Args, "-o")
	if i < 0 {
		return errors.New("no -o flag")
	}
	f, err := os.Create(cmd.Args[i+1])
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create(apk.ManifestEntry)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\x03\x00\x08\x00"); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

func stageLibraries(t *testing.T, h *harness) {
	t.Helper()
	for _, target := range domain.DefaultTargets() {
		path := filepath.Join(h.pipeline.Native.StagingDir, target.ABI, "libsyncthing.so")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("ELF "+target.GoArch), 0o600))
	}
}

func TestApp_BuildNative_StagesEveryArchitecture(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load("apkship.yaml").Return(h.pipeline, nil).Times(2)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile()).Times(4)

	err := h.app().BuildNative(context.Background(), app.BuildOptions{OutputMode: "linear"})
	require.NoError(t, err)

	for _, target := range domain.DefaultTargets() {
		path := filepath.Join(h.pipeline.Native.StagingDir, target.ABI, "libsyncthing.so")
		info, err := os.Stat(path)
		require.NoError(t, err, target.ABI)
		assert.Equal(t, os.FileMode(domain.LibraryPerm), info.Mode().Perm())
	}
	assert.Contains(t, h.progress.String(), "[build arm64]")

	// Unchanged sources reuse every staged library.
	require.NoError(t, h.app().BuildNative(context.Background(), app.BuildOptions{OutputMode: "linear"}))
}

func TestApp_BuildNative_FailureLeavesStagingUntouched(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile("arm")).Times(4)

	previous := filepath.Join(h.pipeline.Native.StagingDir, "armeabi-v7a", "libsyncthing.so")
	require.NoError(t, os.MkdirAll(filepath.Dir(previous), 0o750))
	require.NoError(t, os.WriteFile(previous, []byte("previous"), 0o600))

	err := h.app().BuildNative(context.Background(), app.BuildOptions{OutputMode: "linear", Jobs: 2})
	require.ErrorIs(t, err, domain.ErrNativeBuildFailed)
	require.ErrorIs(t, err, domain.ErrBuildFailure)
	assert.Contains(t, err.Error(), "armv7")

	data, err := os.ReadFile(previous)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
	for _, abi := range []string{"arm64-v8a", "x86", "x86_64"} {
		assert.NoDirExists(t, filepath.Join(h.pipeline.Native.StagingDir, abi))
	}
	assert.Contains(t, h.progress.String(), "undefined reference")
}

func TestApp_BuildNative_ToolchainUnavailable(t *testing.T) {
	h := newHarness(t)
	delete(h.env, ports.EnvNDKHome)
	h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)

	err := h.app().BuildNative(context.Background(), app.BuildOptions{OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrToolchainUnavailable)
}

func TestApp_LoadFailure(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigNotFound)

	err := h.app().CleanNative(context.Background(), app.CleanOptions{})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_CleanNative(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil).Times(2)

	staged := filepath.Join(h.pipeline.Native.StagingDir, "x86", "libsyncthing.so")
	require.NoError(t, os.MkdirAll(filepath.Dir(staged), 0o750))
	require.NoError(t, os.WriteFile(staged, []byte("ELF"), 0o600))
	require.NoError(t, os.MkdirAll(h.pipeline.Native.WorkDir, 0o750))

	a := h.app()
	require.NoError(t, a.CleanNative(context.Background(), app.CleanOptions{}))
	assert.NoDirExists(t, h.pipeline.Native.StagingDir)
	assert.DirExists(t, h.pipeline.Native.WorkDir)

	require.NoError(t, a.CleanNative(context.Background(), app.CleanOptions{All: true}))
	assert.NoDirExists(t, h.pipeline.Native.WorkDir)
}

func TestApp_CleanNative_KeepsBuildRecords(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil).Times(3)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile()).Times(8)

	require.NoError(t, h.app().BuildNative(context.Background(), app.BuildOptions{OutputMode: "linear"}))
	require.NoError(t, h.app().CleanNative(context.Background(), app.CleanOptions{}))

	store := cas.NewStore()
	for _, target := range domain.DefaultTargets() {
		info, err := store.Get(h.pipeline.Root, target.Arch)
		require.NoError(t, err)
		require.NotNil(t, info, target.ABI)
		assert.NoFileExists(t, info.StagedPath)
	}

	// Records of removed libraries are not cache hits.
	require.NoError(t, h.app().BuildNative(context.Background(), app.BuildOptions{OutputMode: "linear"}))
	for _, target := range domain.DefaultTargets() {
		assert.FileExists(t, filepath.Join(h.pipeline.Native.StagingDir, target.ABI, "libsyncthing.so"))
	}
}

func TestApp_Package(t *testing.T) {
	t.Run("unknown variant", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.app().Package(context.Background(), "beta")
		require.ErrorIs(t, err, domain.ErrUnknownVariant)
	})

	t.Run("development from staged libraries", func(t *testing.T) {
		h := newHarness(t)
		h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)
		h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(link)
		stageLibraries(t, h)

		artifact, err := h.app().Package(context.Background(), "debug")
		require.NoError(t, err)
		assert.False(t, artifact.Signed())
		assert.FileExists(t, artifact.Path)
		assert.Equal(t, "app-development-unsigned.apk", filepath.Base(artifact.Path))

		r, err := zip.OpenReader(artifact.Path)
		require.NoError(t, err)
		defer func() { _ = r.Close() }()
		assert.Equal(t, apk.ManifestEntry, r.File[0].Name)
	})

	t.Run("development signed with debug keystore", func(t *testing.T) {
		h := newHarness(t)
		h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)
		h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(link)
		stageLibraries(t, h)

		keystore := filepath.Join(h.env[ports.EnvHome], ".android", "debug.keystore")
		require.NoError(t, os.MkdirAll(filepath.Dir(keystore), 0o750))
		require.NoError(t, os.WriteFile(keystore, []byte("JKS"), 0o600))

		h.signer.EXPECT().Sign(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req domain.SignRequest) (*domain.SignatureInfo, error) {
				assert.Equal(t, keystore, req.Identity.KeystorePath)
				assert.Equal(t, "androiddebugkey", req.Identity.KeyAlias)
				return &domain.SignatureInfo{Channel: "unknown"}, os.WriteFile(req.Output, []byte("PK"), 0o600)
			})

		artifact, err := h.app().Package(context.Background(), "development")
		require.NoError(t, err)
		assert.True(t, artifact.Signed())
		assert.Equal(t, variant.OutputPath(h.pipeline, domain.VariantDevelopment, false), artifact.Path)
		assert.FileExists(t, artifact.Path)
		assert.NoFileExists(t, variant.OutputPath(h.pipeline, domain.VariantDevelopment, true))
	})

	t.Run("missing architecture", func(t *testing.T) {
		h := newHarness(t)
		h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)

		_, err := h.app().Package(context.Background(), "release")
		require.ErrorIs(t, err, domain.ErrMissingArchitecture)
	})
}

func writeListing(t *testing.T, root, code, title string) {
	t.Helper()
	dir := filepath.Join(root, code)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, curation.TitleFile), []byte(title+"\n"), 0o600))
}

func TestApp_Publish_DryRun(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)

	credentials := filepath.Join(t.TempDir(), "play.json")
	require.NoError(t, os.WriteFile(credentials,
		[]byte(`{"type":"service_account","client_email":"ci@example.iam.gserviceaccount.com","private_key":"k"}`),
		0o600))
	h.env[ports.EnvCredentialsFile] = credentials

	release := variant.OutputPath(h.pipeline, domain.VariantRelease, false)
	require.NoError(t, os.MkdirAll(filepath.Dir(release), 0o750))
	require.NoError(t, os.WriteFile(release, []byte("PK"), 0o600))

	listings := h.pipeline.Publish.ListingsDir
	writeListing(t, listings, "en-US", "Syncthing")
	writeListing(t, listings, "de", "Syncthing")
	writeListing(t, listings, "eo", "Syncthing")

	result, err := h.app().Publish(context.Background(), app.PublishOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, "beta", result.Track)
	assert.Equal(t, 2, result.Listings)
}

func TestApp_Publish_Commits(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)

	require.NoError(t, os.WriteFile(h.pipeline.Publish.CredentialsFile,
		[]byte(`{"type":"service_account","client_email":"ci@example.iam.gserviceaccount.com","private_key":"k"}`),
		0o600))
	pkg := filepath.Join(h.pipeline.Root, "custom.apk")
	require.NoError(t, os.WriteFile(pkg, []byte("PK"), 0o600))

	client := mocks.NewMockDistributionClient(h.ctrl)
	h.factory.EXPECT().New(gomock.Any(), gomock.Any()).Return(client, nil)
	client.EXPECT().OpenEdit(gomock.Any(), "com.nutomic.syncthingandroid").Return("edit", nil)
	client.EXPECT().UploadPackage(gomock.Any(), gomock.Any(), "edit", pkg).Return(int64(4372), nil)
	client.EXPECT().AssignTrack(gomock.Any(), gomock.Any(), "edit", "alpha", int64(4372)).Return(nil)
	client.EXPECT().Commit(gomock.Any(), gomock.Any(), "edit").Return(nil)

	result, err := h.app().Publish(context.Background(), app.PublishOptions{Track: "alpha", Package: "custom.apk"})
	require.NoError(t, err)
	assert.Equal(t, int64(4372), result.VersionCode)
	assert.Equal(t, 0, result.Listings)
}

func TestApp_CurateLocales(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(h.pipeline, nil)

	listings := h.pipeline.Publish.ListingsDir
	for _, code := range []string{"de", "eo", "en-US"} {
		writeListing(t, listings, code, "Syncthing")
	}

	removed, err := h.app().CurateLocales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eo"}, removed)
	assert.DirExists(t, filepath.Join(listings, "de"))
	assert.NoDirExists(t, filepath.Join(listings, "eo"))
}
