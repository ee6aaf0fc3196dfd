package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "debug", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Info("Recipe composed", zap.Int64("recipe_id", 12))
	require.NoError(t, log.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"Recipe composed"`)
	assert.Contains(t, string(content), `"recipe_id":12`)
}

func TestNew_FallsBackToInfoOnUnknownLevel(t *testing.T) {
	log, err := New(Config{Level: "verbose", Format: "console"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_RejectsUnopenableOutput(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "dir", "app.log")}})

	assert.Error(t, err)
}
