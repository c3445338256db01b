package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/specmodel/internal/logging"
)

// TestNew_Levels builds loggers for every supported level.
func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error", ""} {
		for _, dev := range []bool{false, true} {
			log, sync, err := logging.New(lvl, dev)
			require.NoError(t, err, lvl)
			require.NotNil(t, sync)
			assert.NotNil(t, log.GetSink())
		}
	}

	_, _, err := logging.New("loud", false)
	assert.Error(t, err)
}

// TestFromZap_Verbosity maps V levels onto zap levels.
func TestFromZap_Verbosity(t *testing.T) {
	core, logs := observer.New(zapcore.Level(-1))
	log := logging.FromZap(zap.New(core))

	log.Info("info", "k", 1)
	log.V(1).Info("debug")
	log.V(2).Info("trace")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "info", entries[0].Message)
	assert.Equal(t, int64(1), entries[0].ContextMap()["k"])
	assert.Equal(t, "debug", entries[1].Message)
}
