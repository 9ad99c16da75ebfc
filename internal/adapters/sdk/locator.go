// Package sdk locates tools and platforms of the installed Android SDK.
package sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// Locator resolves paths below ANDROID_HOME.
type Locator struct {
	env    ports.Environment
	logger ports.Logger
}

// NewLocator creates a new Locator.
func NewLocator(env ports.Environment, logger ports.Logger) *Locator {
	return &Locator{env: env, logger: logger}
}

// BuildTool returns the tool of the requested build-tools release, or the bare
// tool name for a PATH lookup when the SDK or that release is not installed.
func (l *Locator) BuildTool(version, name string) string {
	home, ok := l.env.Lookup(ports.EnvAndroidHome)
	if !ok || version == "" {
		return name
	}
	candidate := filepath.Join(home, "build-tools", version, name)
	if _, err := os.Stat(candidate); err != nil {
		l.logger.Warn(fmt.Sprintf("%s not found, using %s from PATH", candidate, name))
		return name
	}
	return candidate
}

// Platform returns the android.jar of the given API level.
func (l *Locator) Platform(api int) (string, error) {
	home, ok := l.env.Lookup(ports.EnvAndroidHome)
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrSDKUnavailable, "set ANDROID_HOME"), "api", api)
	}
	jar := filepath.Join(home, "platforms", "android-"+strconv.Itoa(api), "android.jar")
	if _, err := os.Stat(jar); err != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrSDKUnavailable, "platform not installed"),
			"api", api), "path", jar)
	}
	return jar, nil
}
