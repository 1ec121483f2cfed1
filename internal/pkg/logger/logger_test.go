package logger_test

import (
	"testing"

	"parcellocker/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("defaults to info", func(t *testing.T) {
		l, err := logger.New("")

		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("accepts debug", func(t *testing.T) {
		l, err := logger.New("debug")

		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		l, err := logger.New("loud")

		require.Error(t, err)
		assert.Nil(t, l)
	})
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	logger.Component(zap.New(core), "pass-cleanup").Info("tick")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "pass-cleanup", logs.All()[0].ContextMap()["component"])
}
