package toolchain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/apkship/internal/core/ports/mocks"
	"go.trai.ch/apkship/internal/engine/toolchain"
	"go.uber.org/mock/gomock"
)

func pipeline() *domain.Pipeline {
	return &domain.Pipeline{Toolchain: domain.ToolchainSpec{Version: domain.DefaultNDKVersion}}
}

func existsIn(paths ...string) func(string) bool {
	return func(p string) bool {
		for _, candidate := range paths {
			if candidate == p {
				return true
			}
		}
		return false
	}
}

func TestResolver_NDKHome(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().Lookup(ports.EnvNDKHome).Return("/opt/ndk", true)

	tc, err := toolchain.NewResolverFor(env, "linux", existsIn("/opt/ndk")).Resolve(pipeline())
	require.NoError(t, err)
	assert.Equal(t, "/opt/ndk", tc.NDKHome)
	assert.Equal(t, "linux-x86_64", tc.HostTag)
	assert.Equal(t, domain.DefaultNDKVersion, tc.Spec.Version)
}

func TestResolver_AndroidHome(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().Lookup(ports.EnvNDKHome).Return("", false)
	env.EXPECT().Lookup(ports.EnvAndroidHome).Return("/sdk", true)

	want := filepath.Join("/sdk", "ndk", domain.DefaultNDKVersion)
	tc, err := toolchain.NewResolverFor(env, "darwin", existsIn(want)).Resolve(pipeline())
	require.NoError(t, err)
	assert.Equal(t, want, tc.NDKHome)
	assert.Equal(t, "darwin-x86_64", tc.HostTag)
}

func TestResolver_Errors(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		env := mocks.NewMockEnvironment(ctrl)
		env.EXPECT().Lookup(ports.EnvNDKHome).Return("", false)
		env.EXPECT().Lookup(ports.EnvAndroidHome).Return("", false)

		_, err := toolchain.NewResolverFor(env, "linux", existsIn()).Resolve(pipeline())
		require.ErrorIs(t, err, domain.ErrToolchainUnavailable)
		assert.Contains(t, err.Error(), "ANDROID_NDK_HOME")
	})

	t.Run("version not installed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		env := mocks.NewMockEnvironment(ctrl)
		env.EXPECT().Lookup(ports.EnvNDKHome).Return("", false)
		env.EXPECT().Lookup(ports.EnvAndroidHome).Return("/sdk", true)

		_, err := toolchain.NewResolverFor(env, "linux", existsIn()).Resolve(pipeline())
		require.ErrorIs(t, err, domain.ErrToolchainUnavailable)
	})

	t.Run("unsupported host", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		env := mocks.NewMockEnvironment(ctrl)

		_, err := toolchain.NewResolverFor(env, "plan9", existsIn()).Resolve(pipeline())
		require.ErrorIs(t, err, domain.ErrUnsupportedHost)
	})
}
