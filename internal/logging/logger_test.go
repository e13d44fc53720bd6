package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/classlens/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"DEBUG", log.DebugLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.New(tt.level).GetLevel())
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")

	logger.Debug("reloaded", logging.FieldVersion, 3)

	assert.Contains(t, buf.String(), "reloaded")
	assert.Contains(t, buf.String(), "version=3")
}

func TestContext(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")
	ctx := logging.WithLogger(context.Background(), logger)

	require.Same(t, logger, logging.FromContext(ctx))
	logging.FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "hello")
}
