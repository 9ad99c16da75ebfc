package ports

// Environment keys resolved from the process environment.
const (
	EnvStoreFile     = "release.store_file"
	EnvStorePassword = "release.store_password"
	EnvKeyAlias      = "release.key_alias"
	EnvKeyPassword   = "release.key_password"

	// The debug identity signs development packages and falls back to the SDK debug keystore.
	EnvDebugStoreFile     = "debug.store_file"
	EnvDebugStorePassword = "debug.store_password"
	EnvDebugKeyAlias      = "debug.key_alias"
	EnvDebugKeyPassword   = "debug.key_password"

	EnvCredentialsFile = "publish.credentials_file"
	EnvNDKHome         = "android.ndk_home"
	EnvAndroidHome     = "android.home"
	EnvHome            = "user.home"
)

// Environment resolves externally supplied values such as secrets and SDK locations.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type Environment interface {
	// Lookup returns the value for key and whether a non-empty value was found.
	Lookup(key string) (string, bool)
}
