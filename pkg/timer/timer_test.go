package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTrack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Track(zap.New(core), "op")()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "op", logs.All()[0].ContextMap()["op"])
}

func TestStopwatch(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sw := NewStopwatch(zap.New(core))

	time.Sleep(time.Millisecond)
	lap := sw.Lap("first")
	assert.GreaterOrEqual(t, lap, time.Millisecond)
	assert.GreaterOrEqual(t, sw.Total(), lap)
	assert.Equal(t, 1, logs.Len())
}
