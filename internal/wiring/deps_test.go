package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apkship/internal/app"
	_ "go.trai.ch/apkship/internal/wiring"
)

// TestGraftGraph_ResolvesComponents builds the full dependency graph the CLI uses.
func TestGraftGraph_ResolvesComponents(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
