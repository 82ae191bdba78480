// Package engine runs the frame loop: it polls the window, advances every updatable
// component, resolves world transforms and hands the scene to the renderer.
package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Duckpedia/Yakuza-Tower/engine/camera"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/profiler"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/Duckpedia/Yakuza-Tower/engine/window"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"go.uber.org/zap"
)

const (
	defaultMaxDeltaTime = 0.25
	defaultTimeScale    = 1.0
)

// engine is the implementation of the Engine interface.
type engine struct {
	window   window.Window
	renderer renderer.Renderer

	entities []entity.Entity
	members  map[uint64]struct{}
	camera   entity.Entity

	worldTimeScale float64
	maxDeltaTime   float64
	worldTime      float64
	realTime       float64
	lastTick       time.Time
	now            func() time.Time

	profiler         *profiler.Profiler
	profilingEnabled bool

	quitOnce sync.Once
}

// Engine defines the interface for the frame loop.
//
// The loop is single threaded. Each iteration clamps the time since the previous one to the
// maximum delta, calls Update on every entity.Updater component in entity order, runs
// transform.Propagate over the whole scene and renders from the camera entity. Components
// implementing entity.Unscaled receive real time; every other updater receives time
// multiplied by the world time scale.
type Engine interface {
	// Window returns the window the engine polls, or nil when headless.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// Renderer returns the renderer frames are drawn with, or nil when headless.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// AddEntities appends entities and all of their descendants to the scene in pre-order.
	// Entities already in the scene are skipped.
	//
	// Parameters:
	//   - entities: the entities to add
	AddEntities(entities ...entity.Entity)

	// RemoveEntities removes entities and all of their descendants from the scene. The
	// hierarchy itself is left untouched.
	//
	// Parameters:
	//   - entities: the entities to remove
	RemoveEntities(entities ...entity.Entity)

	// Entities returns a copy of the scene's entities in update order.
	//
	// Returns:
	//   - []entity.Entity: the entities
	Entities() []entity.Entity

	// SetCamera selects the entity carrying the camera.Camera component to render from.
	//
	// Parameters:
	//   - e: the camera entity
	SetCamera(e entity.Entity)

	// Camera returns the current camera entity.
	//
	// Returns:
	//   - entity.Entity: the camera entity, or nil
	Camera() entity.Entity

	// SetWorldTimeScale sets the multiplier applied to dt for scaled updaters. Negative
	// values are treated as 0.
	//
	// Parameters:
	//   - scale: the time scale
	SetWorldTimeScale(scale float64)

	// WorldTimeScale returns the multiplier applied to dt for scaled updaters.
	//
	// Returns:
	//   - float64: the time scale
	WorldTimeScale() float64

	// Step runs one iteration of the loop with an explicit real delta in seconds.
	//
	// Parameters:
	//   - dt: the real time since the previous step
	Step(dt float64)

	// Run drives Step from the window's message loop and blocks until the window closes.
	//
	// Returns:
	//   - error: an error if the engine has no window
	Run() error

	// Quit closes the window, ending Run. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		members:        make(map[uint64]struct{}),
		worldTimeScale: defaultTimeScale,
		maxDeltaTime:   defaultMaxDeltaTime,
		now:            time.Now,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profilingEnabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler(time.Second)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) AddEntities(entities ...entity.Entity) {
	for _, root := range entities {
		if root == nil {
			continue
		}
		root.Walk(func(n entity.Entity) bool {
			if _, ok := e.members[n.ID()]; !ok {
				e.members[n.ID()] = struct{}{}
				e.entities = append(e.entities, n)
			}
			return true
		})
	}
}

func (e *engine) RemoveEntities(entities ...entity.Entity) {
	removed := make(map[uint64]struct{})
	for _, root := range entities {
		if root == nil {
			continue
		}
		root.Walk(func(n entity.Entity) bool {
			removed[n.ID()] = struct{}{}
			return true
		})
	}
	if len(removed) == 0 {
		return
	}

	kept := e.entities[:0]
	for _, n := range e.entities {
		if _, ok := removed[n.ID()]; ok {
			delete(e.members, n.ID())
			continue
		}
		kept = append(kept, n)
	}
	clear(e.entities[len(kept):])
	e.entities = kept
}

func (e *engine) Entities() []entity.Entity {
	out := make([]entity.Entity, len(e.entities))
	copy(out, e.entities)
	return out
}

func (e *engine) SetCamera(c entity.Entity) {
	e.camera = c
	if e.window != nil {
		e.updateAspect(e.window.Width(), e.window.Height())
	}
}

func (e *engine) Camera() entity.Entity {
	return e.camera
}

func (e *engine) SetWorldTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	e.worldTimeScale = scale
}

func (e *engine) WorldTimeScale() float64 {
	return e.worldTimeScale
}

func (e *engine) Run() error {
	if e.window == nil {
		return fmt.Errorf("engine: run without a window")
	}
	e.lastTick = e.now()
	e.window.SetUpdateCallback(e.frame)
	logger.Info("engine started", zap.Int("entities", len(e.entities)))
	e.window.ProcessMessages()
	logger.Info("engine stopped")
	return nil
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				logger.Warn("close window", zap.Error(err))
			}
		}
	})
}

// frame is the window's per-iteration callback.
func (e *engine) frame() {
	now := e.now()
	dt := now.Sub(e.lastTick).Seconds()
	e.lastTick = now
	e.Step(dt)
}

func (e *engine) Step(dt float64) {
	dt = e.clampDelta(dt)
	e.update(dt)
	transform.Propagate(e.entities)
	e.render()

	if e.profilingEnabled && e.profiler != nil {
		var extra []zap.Field
		if e.renderer != nil {
			s := e.renderer.Stats()
			extra = []zap.Field{
				zap.Int("draws", s.Draws),
				zap.Int("instances", s.Instances),
				zap.Int("lights", s.Lights),
				zap.Int("joints", s.Joints),
			}
		}
		e.profiler.Tick(extra...)
	}
}

// clampDelta bounds dt to [0, maxDeltaTime] so a stall does not launch the simulation forward.
func (e *engine) clampDelta(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if dt > e.maxDeltaTime {
		return e.maxDeltaTime
	}
	return dt
}

// update advances both clocks and calls every updater with the clock it runs on.
func (e *engine) update(dt float64) {
	scaled := dt * e.worldTimeScale
	e.realTime += dt
	e.worldTime += scaled

	for _, n := range e.entities {
		for _, c := range n.Components() {
			u, ok := c.(entity.Updater)
			if !ok {
				continue
			}
			if un, ok := c.(entity.Unscaled); ok && un.Unscaled() {
				u.Update(e.realTime, dt)
				continue
			}
			u.Update(e.worldTime, scaled)
		}
	}
}

// render draws the frame. A panic inside the renderer is logged and the loop carries on.
func (e *engine) render() {
	if e.renderer == nil || e.camera == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("render recovered from panic", zap.Any("panic", r))
		}
	}()
	e.renderer.Render(e.entities, e.camera)
}

// resize follows a framebuffer size change with the renderer and the camera aspect.
func (e *engine) resize(width, height int) {
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	e.updateAspect(width, height)
}

func (e *engine) updateAspect(width, height int) {
	if e.camera == nil || width <= 0 || height <= 0 {
		return
	}
	if c, ok := entity.ComponentOf[camera.Camera](e.camera); ok {
		c.SetAspect(float32(width) / float32(height))
	}
}
