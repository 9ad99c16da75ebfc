// Package detector selects how build progress is rendered.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is the rendering mode for build progress.
type OutputMode int

const (
	// ModeAuto picks a mode from the environment.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive view.
	ModeTUI
	// ModeLinear forces prefixed line output.
	ModeLinear
)

// DetectEnvironment returns ModeTUI when stderr is a terminal outside CI, ModeLinear otherwise.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // file descriptors fit in int

	ci := os.Getenv("CI")
	if !isTTY || ci == "true" || ci == "1" {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies a user override to the detected mode.
// flag is one of "auto", "tui", "linear" or "ci"; anything else keeps the detected mode.
func ResolveMode(detected OutputMode, flag string) OutputMode {
	switch flag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return detected
	}
}
