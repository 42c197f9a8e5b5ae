package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mikey/mail-sentry/internal/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   string
		expected zapcore.Level
	}{
		{"debug json", "debug", "json", zapcore.DebugLevel},
		{"warn console", "warn", "console", zapcore.WarnLevel},
		{"unknown level falls back to info", "loud", "json", zapcore.InfoLevel},
		{"empty level falls back to info", "", "json", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := config.NewEmptyViper()
			v.Set("logging.level", tt.level)
			v.Set("logging.format", tt.format)

			logger, err := InitLogger(config.NewFromViper(v))

			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.expected))
			if tt.expected > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}

func TestInitConsoleLogger(t *testing.T) {
	logger, err := InitConsoleLogger(false, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = InitConsoleLogger(true, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
