package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, 3, Coalesce(3, 4))
}

func TestDigitIndex(t *testing.T) {
	i, ok := DigitIndex(Key1)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = DigitIndex(Key9)
	assert.True(t, ok)
	assert.Equal(t, 8, i)

	_, ok = DigitIndex(48)
	assert.False(t, ok, "0 is not a model slot")
	_, ok = DigitIndex(KeyM)
	assert.False(t, ok)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
