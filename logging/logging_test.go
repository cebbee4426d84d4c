package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
		l, err := New(level)
		require.NoError(t, err, level)
		assert.NotNil(t, l)
	}

	_, err := New("loud")
	assert.ErrorContains(t, err, "logging:")
}

func TestConfig(t *testing.T) {
	dev := Config(zapcore.DebugLevel)
	assert.Equal(t, "console", dev.Encoding)
	assert.True(t, dev.Level.Enabled(zapcore.DebugLevel))

	prod := Config(zapcore.WarnLevel)
	assert.Equal(t, "json", prod.Encoding)
	assert.False(t, prod.Level.Enabled(zapcore.InfoLevel))
	assert.True(t, prod.DisableCaller)
}
