package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_DebugLevel(t *testing.T) {
	logger := New(Config{Debug: true})
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger = New(Config{})
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cacilda.log")

	logger := New(Config{File: path})
	logger.Info("chat request received", zap.String("request_id", "req-1"))
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "chat request received")
	assert.Contains(t, string(content), `"request_id":"req-1"`)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
