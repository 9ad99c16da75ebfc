package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/apkship/internal/adapters/detector"
)

func TestDetectEnvironment_CI(t *testing.T) {
	for _, value := range []string{"true", "1"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("CI", value)
			assert.Equal(t, detector.ModeLinear, detector.DetectEnvironment())
		})
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name     string
		detected detector.OutputMode
		flag     string
		expected detector.OutputMode
	}{
		{"auto keeps tui", detector.ModeTUI, "auto", detector.ModeTUI},
		{"auto keeps linear", detector.ModeLinear, "auto", detector.ModeLinear},
		{"empty keeps detection", detector.ModeTUI, "", detector.ModeTUI},
		{"tui overrides", detector.ModeLinear, "tui", detector.ModeTUI},
		{"linear overrides", detector.ModeTUI, "linear", detector.ModeLinear},
		{"ci is linear", detector.ModeTUI, "ci", detector.ModeLinear},
		{"unknown keeps detection", detector.ModeLinear, "fancy", detector.ModeLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveMode(tt.detected, tt.flag))
		})
	}
}
