package engine

import (
	"time"

	"github.com/Duckpedia/Yakuza-Tower/engine/profiler"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer"
	"github.com/Duckpedia/Yakuza-Tower/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the once-per-second frame statistics log.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfileInterval enables profiling with a custom reporting interval.
//
// Parameters:
//   - interval: the reporting period
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfileInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = true
		e.profiler = profiler.NewProfiler(interval)
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer each frame is drawn with. An engine without a renderer
// still updates and propagates.
//
// Parameters:
//   - r: an initialized Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithMaxDeltaTime caps the per-step delta in seconds. Values <= 0 keep the default of 0.25.
//
// Parameters:
//   - seconds: the largest delta a single step may advance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxDeltaTime(seconds float64) EngineBuilderOption {
	return func(e *engine) {
		if seconds > 0 {
			e.maxDeltaTime = seconds
		}
	}
}

// WithWorldTimeScale sets the initial world time scale.
//
// Parameters:
//   - scale: the multiplier applied to dt for scaled updaters
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorldTimeScale(scale float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetWorldTimeScale(scale)
	}
}
