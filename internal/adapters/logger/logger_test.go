package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apkship/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	buf := new(bytes.Buffer)
	lg := logger.New()
	lg.SetOutput(buf)

	lg.Info("some message")
	lg.Warn("some warning")
	lg.Error(os.ErrPermission)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "some message")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "some warning")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "permission denied")
}

func TestLogger_ErrorNil(t *testing.T) {
	buf := new(bytes.Buffer)
	lg := logger.New()
	lg.SetOutput(buf)

	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	lg := logger.New()
	lg.SetOutput(buf)
	lg.SetJSON(true)

	lg.Info("json message")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "json message", record["msg"])
	assert.Equal(t, "INFO", record["level"])
}

func TestFormatError_Chain(t *testing.T) {
	base := errors.New("exit status 2")
	err := zerr.With(zerr.Wrap(base, "compile armv7"), "architecture", "armv7")

	out := logger.FormatError(err)
	assert.Equal(t, "Error: compile armv7\n       architecture=armv7\n\n  Caused by:\n    -> exit status 2", out)
}

func TestFormatError_Joined(t *testing.T) {
	sentinel := zerr.New("native build failed")
	failure := zerr.With(zerr.Wrap(zerr.New("native build failed for architecture"), "x86"), "architecture", "x86")

	out := logger.FormatError(errors.Join(sentinel, failure))
	assert.Contains(t, out, "Error: native build failed")
	assert.Contains(t, out, "-> x86")
	assert.Contains(t, out, "architecture=x86")
	assert.Contains(t, out, "-> native build failed for architecture")
}
