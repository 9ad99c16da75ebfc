package ports

import (
	"context"

	"go.trai.ch/apkship/internal/core/domain"
)

// Signer signs an assembled package.
//
//go:generate go run go.uber.org/mock/mockgen -source=signer.go -destination=mocks/mock_signer.go -package=mocks
type Signer interface {
	// Sign writes a signed copy of req.Input to req.Output.
	// A rejected identity or a failing signing tool is returned as an error.
	Sign(ctx context.Context, req domain.SignRequest) (*domain.SignatureInfo, error)
}
