package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersWriteThroughSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())

	Info("signal %s %d%%", "call", 65)
	Warn("short history: %d", 12)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "signal call 65%", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "signals-pro", entries[0].ContextMap()["service"])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud", false))
}

func TestSetServiceName(t *testing.T) {
	old := SetServiceName("bot")
	defer SetServiceName(old)
	assert.Equal(t, "signals-pro", old)
}

func TestServiceNameOnEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())
	old := SetServiceName("signals-eu")
	defer SetServiceName(old)

	Info("started")
	require.Len(t, logs.All(), 1)
	assert.Equal(t, "signals-eu", logs.All()[0].ContextMap()["service"])
}
