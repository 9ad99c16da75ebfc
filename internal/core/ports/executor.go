// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/apkship/internal/core/domain"
)

// Executor defines the interface for running external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and streams its output to stdout and stderr.
	//
	// cmd.Env is merged on top of the process environment.
	// A non-zero exit status is returned as an error carrying the exit code.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error
}
