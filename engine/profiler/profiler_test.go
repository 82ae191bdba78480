package profiler

import (
	"testing"
	"time"

	"github.com/Duckpedia/Yakuza-Tower/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	p := NewProfiler(time.Second)
	start := time.Unix(100, 0)
	clock := start
	p.now = func() time.Time { return clock }
	p.lastTime = start

	for i := 0; i < 29; i++ {
		clock = clock.Add(time.Second / 60)
		_, reported := p.Tick()
		assert.False(t, reported)
	}

	clock = start.Add(time.Second)
	s, reported := p.Tick(zap.Int("draws", 7))
	require.True(t, reported)
	assert.InDelta(t, 30.0, s.FPS, 1e-9)
	assert.Positive(t, s.HeapMB)

	entries := logs.FilterMessage("frame stats").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(7), fields["draws"])
	assert.Contains(t, fields, "fps")

	_, reported = p.Tick()
	assert.False(t, reported, "a new window starts after each report")
}

func TestNewProfilerDefaultsInterval(t *testing.T) {
	assert.Equal(t, time.Second, NewProfiler(0).updateInterval)
	assert.Equal(t, 2*time.Second, NewProfiler(2*time.Second).updateInterval)
}
