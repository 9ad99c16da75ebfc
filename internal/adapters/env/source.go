// Package env resolves secrets and SDK locations from the process environment using viper.
package env

import (
	"github.com/spf13/viper"
	"go.trai.ch/apkship/internal/core/ports"
)

// Prefix is the prefix of the tool specific environment variable aliases.
const Prefix = "APKSHIP"

// Bindings maps each environment key to the variable names that supply it, in order of precedence.
// The unprefixed names are the ones existing release setups already export.
func Bindings() map[string][]string {
	return map[string][]string{
		ports.EnvStoreFile:          {"SYNCTHING_RELEASE_STORE_FILE", Prefix + "_RELEASE_STORE_FILE"},
		ports.EnvStorePassword:      {Prefix + "_RELEASE_STORE_PASSWORD", "SIGNING_PASSWORD"},
		ports.EnvKeyAlias:           {"SYNCTHING_RELEASE_KEY_ALIAS", Prefix + "_RELEASE_KEY_ALIAS"},
		ports.EnvKeyPassword:        {Prefix + "_RELEASE_KEY_PASSWORD", "SIGNING_PASSWORD"},
		ports.EnvDebugStoreFile:     {Prefix + "_DEBUG_STORE_FILE"},
		ports.EnvDebugStorePassword: {Prefix + "_DEBUG_STORE_PASSWORD"},
		ports.EnvDebugKeyAlias:      {Prefix + "_DEBUG_KEY_ALIAS"},
		ports.EnvDebugKeyPassword:   {Prefix + "_DEBUG_KEY_PASSWORD"},
		ports.EnvCredentialsFile:    {"SYNCTHING_RELEASE_PLAY_ACCOUNT_CONFIG_FILE", Prefix + "_PLAY_ACCOUNT_CONFIG_FILE"},
		ports.EnvNDKHome:            {"ANDROID_NDK_HOME"},
		ports.EnvAndroidHome:        {"ANDROID_HOME", "ANDROID_SDK_ROOT"},
		ports.EnvHome:               {"HOME"},
	}
}

// Source implements ports.Environment.
type Source struct {
	v *viper.Viper
}

var _ ports.Environment = (*Source)(nil)

// NewSource creates a Source bound to the variables in Bindings.
func NewSource() (*Source, error) {
	v := viper.New()
	for key, names := range Bindings() {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}
	return &Source{v: v}, nil
}

// Lookup returns the first non-empty variable bound to key.
// Values are read at call time, so changes to the environment are observed.
func (s *Source) Lookup(key string) (string, bool) {
	value := s.v.GetString(key)
	return value, value != ""
}
