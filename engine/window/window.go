package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window, its render surface and input events.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the callback for key presses and releases. Repeats are
	// reported as presses.
	//
	// Parameters:
	//   - callback: function receiving the key code and whether it is held
	SetKeyCallback(callback func(key int, pressed bool))

	// SetPointerMoveCallback sets the callback for pointer motion while the pointer is locked.
	//
	// Parameters:
	//   - callback: function receiving the motion since the last event in pixels
	SetPointerMoveCallback(callback func(dx, dy float64))

	// SetPointerLocked hides and captures the cursor, or releases it.
	// A left click locks the pointer and Escape releases it.
	//
	// Parameters:
	//   - locked: true to capture the cursor
	SetPointerLocked(locked bool)

	// PointerLocked reports whether the cursor is captured.
	//
	// Returns:
	//   - bool: true if the pointer is locked
	PointerLocked() bool

	// SurfaceDescriptor returns the platform surface descriptor for WebGPU surface creation.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: true while the window is open
	IsRunning() bool

	// Close destroys the window.
	//
	// Returns:
	//   - error: an error if the window was never initialized
	Close() error

	// ProcessMessages runs the message loop until the window closes, calling the
	// update callback once per iteration.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// engineWindow holds the platform independent window state.
type engineWindow struct {
	title     string
	minWidth  int
	minHeight int
	width     int
	height    int

	// internalWindow holds the platform window, *glfwWindow on every supported platform.
	internalWindow any

	pointer pointerTracker

	onUpdate      func()
	onResize      func(width, height int)
	onKey         func(key int, pressed bool)
	onPointerMove func(dx, dy float64)
}

var _ Window = &engineWindow{}

// NewWindow creates and opens a platform window.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "Yakuza Tower",
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyCallback(callback func(key int, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(dx, dy float64)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SetPointerLocked(locked bool) {
	w.pointer.setLocked(locked)
	platformSetCursorCaptured(w, locked)
}

func (w *engineWindow) PointerLocked() bool {
	return w.pointer.locked
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleCursor forwards cursor positions as motion deltas while the pointer is locked.
func (w *engineWindow) handleCursor(x, y float64) {
	dx, dy, ok := w.pointer.move(x, y)
	if ok && w.onPointerMove != nil {
		w.onPointerMove(dx, dy)
	}
}

// handleResize records a new framebuffer size. A minimized window reports 0x0, which is
// dropped so the surface is never configured with an empty size.
func (w *engineWindow) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// pointerTracker turns absolute cursor positions into deltas. The first position after
// locking only primes the tracker, so the capture jump is not reported as motion.
type pointerTracker struct {
	locked bool
	primed bool
	lastX  float64
	lastY  float64
}

func (p *pointerTracker) setLocked(locked bool) {
	p.locked = locked
	p.primed = false
}

func (p *pointerTracker) move(x, y float64) (dx, dy float64, ok bool) {
	if !p.locked {
		return 0, 0, false
	}
	if !p.primed {
		p.lastX, p.lastY, p.primed = x, y, true
		return 0, 0, false
	}
	dx, dy = x-p.lastX, y-p.lastY
	p.lastX, p.lastY = x, y
	return dx, dy, true
}
