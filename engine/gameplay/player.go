// Package gameplay holds the scene's behaviour components: the first-person player
// controller and the bobbing enemy.
package gameplay

import (
	"sync"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

const (
	gravity       = 22
	jumpVelocity  = 5
	crouchHeight  = 0.8
	slowPlayer    = 0.5
	slowWorld     = 0.2
	normalScale   = 1.0
	halfPi        = math32.Pi / 2
	twoPi         = math32.Pi * 2
	defaultGround = 1.5
)

// TimeScaler receives world time scale changes from the player's slow-motion key.
type TimeScaler interface {
	SetWorldTimeScale(scale float64)
}

// Player is a first-person controller for the entity it is attached to.
//
// Key and pointer events are fed in by the window; Update integrates them into the entity's
// Transform. The player runs on unscaled time and applies its own time scale, so the
// slow-motion key can slow the world further than the player.
type Player interface {
	entity.Updater
	entity.Unscaled

	// HandleKey records a key press or release.
	//
	// Parameters:
	//   - key: the key code, see common.Key*
	//   - pressed: true on press, false on release
	HandleKey(key int, pressed bool)

	// HandlePointerMove turns the view by a pointer delta in pixels.
	//
	// Parameters:
	//   - dx: horizontal movement, positive to the right
	//   - dy: vertical movement, positive downward
	HandlePointerMove(dx, dy float64)

	// Yaw returns the heading in radians, in [0, 2π).
	//
	// Returns:
	//   - float32: the yaw angle
	Yaw() float32

	// Pitch returns the look elevation in radians, in [-π/2, π/2].
	//
	// Returns:
	//   - float32: the pitch angle
	Pitch() float32

	// Velocity returns the current velocity in world units per second.
	//
	// Returns:
	//   - [3]float32: the velocity
	Velocity() [3]float32

	// Grounded reports whether the player is standing on the ground plane.
	//
	// Returns:
	//   - bool: true when grounded
	Grounded() bool

	// SetTimeScaler sets the receiver of slow-motion world time scale changes.
	//
	// Parameters:
	//   - ts: the time scaler, usually the engine
	SetTimeScaler(ts TimeScaler)
}

// playerImpl is the implementation of the Player interface.
type playerImpl struct {
	mu     sync.Mutex
	entity entity.Entity
	clock  TimeScaler

	keys map[int]bool

	pitch, yaw         float32
	velocity           [3]float32
	acceleration       float32
	maxSpeed           float32
	decay              float32
	pointerSensitivity float32
	groundY            float32
	timeScale          float32
	crouching          bool
	grounded           bool
}

var _ Player = &playerImpl{}

// NewPlayer creates a Player driving e's Transform.
//
// Parameters:
//   - e: the entity to move, usually the one carrying the camera
//   - opts: functional options to configure the player
//
// Returns:
//   - Player: the new player
func NewPlayer(e entity.Entity, opts ...PlayerBuilderOption) Player {
	p := &playerImpl{
		entity:             e,
		keys:               make(map[int]bool),
		acceleration:       50,
		maxSpeed:           5,
		decay:              0.99999,
		pointerSensitivity: 0.002,
		groundY:            defaultGround,
		timeScale:          normalScale,
		grounded:           true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *playerImpl) Unscaled() bool {
	return true
}

func (p *playerImpl) SetTimeScaler(ts TimeScaler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = ts
}

func (p *playerImpl) HandleKey(key int, pressed bool) {
	p.mu.Lock()
	p.keys[key] = pressed

	var worldScale float64
	switch key {
	case common.KeyF:
		if pressed {
			p.timeScale, worldScale = slowPlayer, slowWorld
		} else {
			p.timeScale, worldScale = normalScale, normalScale
		}
	case common.KeyC:
		p.crouching = pressed
	}
	clock := p.clock
	p.mu.Unlock()

	if worldScale != 0 && clock != nil {
		logger.Debug("world time scale changed", zap.Float64("scale", worldScale))
		clock.SetWorldTimeScale(worldScale)
	}
}

func (p *playerImpl) HandlePointerMove(dx, dy float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pitch -= float32(dy) * p.pointerSensitivity
	p.yaw -= float32(dx) * p.pointerSensitivity

	p.pitch = min(max(p.pitch, -halfPi), halfPi)
	p.yaw = math32.Mod(math32.Mod(p.yaw, twoPi)+twoPi, twoPi)
}

func (p *playerImpl) Yaw() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.yaw
}

func (p *playerImpl) Pitch() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pitch
}

func (p *playerImpl) Velocity() [3]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.velocity
}

func (p *playerImpl) Grounded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grounded
}

// Update integrates input, gravity and velocity into the entity's Transform.
func (p *playerImpl) Update(_ float64, dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	edt := float32(dt) * p.timeScale

	sin, cos := math32.Sincos(p.yaw)
	forward := [3]float32{-sin, 0, -cos}
	right := [3]float32{cos, 0, -sin}

	var acc [3]float32
	moving := false
	for _, k := range []struct {
		key  int
		dir  [3]float32
		sign float32
	}{
		{common.KeyW, forward, 1},
		{common.KeyS, forward, -1},
		{common.KeyD, right, 1},
		{common.KeyA, right, -1},
	} {
		if !p.keys[k.key] {
			continue
		}
		moving = true
		for i := range acc {
			acc[i] += k.dir[i] * k.sign
		}
	}

	if p.keys[common.KeySpace] && p.grounded {
		p.velocity[1] = jumpVelocity
		p.grounded = false
	}
	p.velocity[1] -= gravity * edt

	for i := range p.velocity {
		p.velocity[i] += acc[i] * edt * p.acceleration
	}

	if !moving {
		d := math32.Exp(edt * math32.Log(1-p.decay))
		for i := range p.velocity {
			p.velocity[i] *= d
		}
	}

	speed := math32.Sqrt(p.velocity[0]*p.velocity[0] + p.velocity[2]*p.velocity[2])
	if speed > p.maxSpeed {
		s := p.maxSpeed / speed
		p.velocity[0] *= s
		p.velocity[2] *= s
	}

	t, ok := entity.ComponentOf[*transform.Transform](p.entity)
	if !ok {
		return
	}
	for i := range t.Translation {
		t.Translation[i] += p.velocity[i] * edt
	}
	if t.Translation[1] <= p.groundY {
		t.Translation[1] = p.groundY
		p.velocity[1] = 0
		p.grounded = true
	}

	t.Rotation = common.QuatRotateX(common.QuatRotateY(common.QuatIdentity(), p.yaw), p.pitch)

	if p.crouching && p.grounded {
		t.Translation[1] = crouchHeight
	}
}
