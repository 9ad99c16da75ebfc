package apksigner_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apkship/internal/adapters/apksigner"
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/apkship/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// testdata/release.p12 holds a self-signed certificate under the alias "syncthing",
// protected with the password "store-secret".
const keystoreFingerprint = "fNggaZVcnyVirJM5cLS4aZBtiZk="

type fixture struct {
	executor *mocks.MockExecutor
	env      *mocks.MockEnvironment
	signer   *apksigner.Signer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	f := &fixture{
		executor: mocks.NewMockExecutor(ctrl),
		env:      mocks.NewMockEnvironment(ctrl),
	}
	f.signer = apksigner.NewSigner(f.executor, f.env, logger)
	return f
}

func request(t *testing.T) domain.SignRequest {
	t.Helper()
	ks, err := filepath.Abs(filepath.Join("testdata", "release.p12"))
	require.NoError(t, err)
	dir := t.TempDir()
	return domain.SignRequest{
		Input:  filepath.Join(dir, "app-release-unsigned.apk"),
		Output: filepath.Join(dir, "app-release.apk"),
		Identity: domain.SigningIdentity{
			KeystorePath:  ks,
			StorePassword: "store-secret",
			KeyAlias:      "syncthing",
			KeyPassword:   "store-secret",
		},
		BuildToolsVersion: "33.0.2",
	}
}

func field(t *testing.T, err error) any {
	t.Helper()
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	return zErr.Metadata()["field"]
}

func TestSign_PKCS12(t *testing.T) {
	f := newFixture(t)
	req := request(t)

	f.env.EXPECT().Lookup(ports.EnvAndroidHome).Return("", false)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Nil()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			assert.Equal(t, apksigner.ToolName, cmd.Name)
			assert.Equal(t, "sign", cmd.Args[0])
			assert.Contains(t, cmd.Args, "--ks-key-alias")
			assert.Equal(t, req.Input, cmd.Args[len(cmd.Args)-1])
			argv := strings.Join(cmd.Args, " ")
			assert.NotContains(t, argv, "store-secret")
			assert.Contains(t, argv, "--ks-pass env:")
			assert.Contains(t, cmd.Env, "APKSHIP_KS_PASS")
			assert.Equal(t, "store-secret", cmd.Env["APKSHIP_KEY_PASS"])
			return nil
		})

	info, err := f.signer.Sign(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, keystoreFingerprint, info.CertificateSHA1)
	assert.Equal(t, "unknown", info.Channel)
}

func TestSign_RejectsWrongStorePassword(t *testing.T) {
	f := newFixture(t)
	req := request(t)
	req.Identity.StorePassword = "wrong"

	_, err := f.signer.Sign(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, domain.FieldStorePassword, field(t, err))
}

func TestSign_RejectsUnknownAlias(t *testing.T) {
	f := newFixture(t)
	req := request(t)
	req.Identity.KeyAlias = "someone-else"

	_, err := f.signer.Sign(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, domain.FieldKeyAlias, field(t, err))
}

func TestSign_MissingKeystore(t *testing.T) {
	f := newFixture(t)
	req := request(t)
	req.Identity.KeystorePath = filepath.Join(t.TempDir(), "absent.jks")

	_, err := f.signer.Sign(context.Background(), req)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, domain.FieldKeystorePath, field(t, err))
}

func TestSign_JavaKeystoreUsesPrintedCertificate(t *testing.T) {
	f := newFixture(t)
	req := request(t)
	jks := filepath.Join(t.TempDir(), "release.jks")
	require.NoError(t, os.WriteFile(jks, []byte("jks"), 0o600))
	req.Identity.KeystorePath = jks

	sdk := t.TempDir()
	tool := filepath.Join(sdk, "build-tools", "33.0.2", "apksigner")
	require.NoError(t, os.MkdirAll(filepath.Dir(tool), 0o750))
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o600))
	f.env.EXPECT().Lookup(ports.EnvAndroidHome).Return(sdk, true)

	gomock.InOrder(
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
				assert.Equal(t, tool, cmd.Name)
				assert.Equal(t, "sign", cmd.Args[0])
				return nil
			}),
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd *domain.Command, stdout, _ io.Writer) error {
				assert.Equal(t, []string{"verify", "--print-certs", req.Output}, cmd.Args)
				_, _ = io.WriteString(stdout,
					"Signer #1 certificate DN: CN=Syncthing\n"+
						"Signer #1 certificate SHA-256 digest: 00\n"+
						"Signer #1 certificate SHA-1 digest: 9f2ba9abd694d31eb22bc44768fadae466d3a906\n")
				return nil
			}),
	)

	info, err := f.signer.Sign(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "nyupq9aU0x6yK8RHaPra5GbTqQY=", info.CertificateSHA1)
	assert.Equal(t, "F-Droid", info.Channel)
}

func TestSign_ToolFailure(t *testing.T) {
	f := newFixture(t)
	req := request(t)
	f.env.EXPECT().Lookup(ports.EnvAndroidHome).Return("", false)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("exit status 1"))

	_, err := f.signer.Sign(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apksigner sign failed")
}

func TestParseCertificateDigest(t *testing.T) {
	_, err := apksigner.ParseCertificateDigest("Verifies\n")
	require.Error(t, err)

	_, err = apksigner.ParseCertificateDigest("Signer #1 certificate SHA-1 digest: zz\n")
	require.Error(t, err)
}
