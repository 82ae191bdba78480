package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerTrackerIgnoresMotionWhileUnlocked(t *testing.T) {
	var p pointerTracker
	_, _, ok := p.move(10, 10)
	assert.False(t, ok)
}

func TestPointerTrackerPrimesAfterLock(t *testing.T) {
	var p pointerTracker
	p.setLocked(true)

	_, _, ok := p.move(100, 50)
	assert.False(t, ok, "first position after locking only primes")

	dx, dy, ok := p.move(103, 46)
	assert.True(t, ok)
	assert.Equal(t, 3.0, dx)
	assert.Equal(t, -4.0, dy)

	p.setLocked(false)
	p.setLocked(true)
	_, _, ok = p.move(500, 500)
	assert.False(t, ok, "relocking primes again")
}

func TestHandleCursorForwardsDeltas(t *testing.T) {
	w := &engineWindow{}
	var got [][2]float64
	w.SetPointerMoveCallback(func(dx, dy float64) { got = append(got, [2]float64{dx, dy}) })

	// no platform window, so locking only updates the tracker
	w.SetPointerLocked(true)
	assert.True(t, w.PointerLocked())
	w.handleCursor(1, 1)
	w.handleCursor(2, 4)
	assert.Equal(t, [][2]float64{{1, 3}}, got)
}

func TestHandleResizeDropsEmptySizes(t *testing.T) {
	w := &engineWindow{width: 800, height: 600}
	calls := 0
	w.SetResizeCallback(func(int, int) { calls++ })

	w.handleResize(0, 0)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 800, w.Width())

	w.handleResize(1024, 768)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}
