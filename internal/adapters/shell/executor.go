// Package shell provides the process executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command with cmd.Env merged over the process environment.
// Output goes to stdout and stderr; a nil writer sends that stream to the logger line by line.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error {
	if cmd == nil || cmd.Name == "" {
		return nil
	}

	env := resolveEnvironment(os.Environ(), cmd.Env)

	executable := cmd.Name
	if !filepath.IsAbs(cmd.Name) && !strings.ContainsRune(cmd.Name, os.PathSeparator) {
		if lp, err := lookPath(cmd.Name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // configured command
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Name
	}
	c.Dir = cmd.Dir
	c.Env = env

	var flushers []*logWriter
	if stdout == nil {
		w := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
		flushers = append(flushers, w)
		stdout = w
	}
	if stderr == nil {
		w := &logWriter{logger: e.logger, level: domain.LogLevelError}
		flushers = append(flushers, w)
		stderr = w
	}
	c.Stdout = stdout
	c.Stderr = stderr

	err := c.Run()
	for _, w := range flushers {
		w.Flush()
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode), "command", cmd.Name)
	}
	return nil
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel
	mu     sync.Mutex
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.level >= domain.LogLevelError {
		w.logger.Error(zerr.New(line))
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment merges the command environment over the system environment.
func resolveEnvironment(sysEnv []string, cmdEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(cmdEnv))
	order := make([]string, 0, len(sysEnv)+len(cmdEnv))
	set := func(k, v string) {
		if _, ok := envMap[k]; !ok {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			set(k, v)
		}
	}
	for k, v := range cmdEnv {
		set(k, v)
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
