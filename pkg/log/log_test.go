package log_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/appuio/symbiont-demo/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_NewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.log")

	logger, err := log.NewLogger(path, false)
	require.NoError(t, err)
	logger.Info("script selected", zap.String("to", "debug"))
	logger.Debug("step revealed")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"script selected"`)
	assert.Contains(t, string(raw), `"to":"debug"`)
	assert.NotContains(t, string(raw), "step revealed")
}

func Test_NewLogger_verbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.log")

	logger, err := log.NewLogger(path, true)
	require.NoError(t, err)
	logger.Debug("step revealed")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "step revealed")
}

func Test_NewLogger_noFile(t *testing.T) {
	logger, err := log.NewLogger("", true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func Test_NewLogger_badPath(t *testing.T) {
	_, err := log.NewLogger(filepath.Join(t.TempDir(), "missing", "demo.log"), false)
	assert.Error(t, err)
}
