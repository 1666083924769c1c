package watchdog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewExecController_EmptyCommand(t *testing.T) {
	_, err := NewExecController("   ", time.Second, zap.NewNop())
	assert.Error(t, err)
}

func TestExecController_Recreate(t *testing.T) {
	c, err := NewExecController("echo recreate", 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, c.Recreate(context.Background(), "app"))
}

func TestExecController_RecreateFailure(t *testing.T) {
	c, err := NewExecController("false", 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	recreateErr := c.Recreate(context.Background(), "app")
	assert.Error(t, recreateErr)
}

func TestExecController_RecreateTimeout(t *testing.T) {
	c, err := NewExecController("sleep", 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	// "sleep app" fails immediately; use a numeric service name so the
	// command genuinely outlives the timeout.
	recreateErr := c.Recreate(context.Background(), "5")
	assert.Error(t, recreateErr)
}
