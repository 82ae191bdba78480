package gameplay

// PlayerBuilderOption is a functional option for configuring a Player during construction.
type PlayerBuilderOption func(*playerImpl)

// WithMovement sets the acceleration, horizontal speed cap and idle velocity decay.
//
// Parameters:
//   - acceleration: units per second squared while a movement key is held
//   - maxSpeed: horizontal speed cap in units per second
//   - decay: fraction of velocity lost per second with no input, in [0, 1)
//
// Returns:
//   - PlayerBuilderOption: a function that applies the movement settings to a player
func WithMovement(acceleration, maxSpeed, decay float32) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.acceleration = acceleration
		p.maxSpeed = maxSpeed
		p.decay = decay
	}
}

// WithPointerSensitivity sets the radians turned per pixel of pointer movement.
//
// Parameters:
//   - s: the sensitivity
//
// Returns:
//   - PlayerBuilderOption: a function that applies the sensitivity to a player
func WithPointerSensitivity(s float32) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.pointerSensitivity = s
	}
}

// WithGroundY sets the eye height the player stands at.
//
// Parameters:
//   - y: the ground clamp height
//
// Returns:
//   - PlayerBuilderOption: a function that applies the ground height to a player
func WithGroundY(y float32) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.groundY = y
	}
}

// WithTimeScaler sets the receiver of slow-motion world time scale changes.
//
// Parameters:
//   - ts: the time scaler
//
// Returns:
//   - PlayerBuilderOption: a function that applies the time scaler to a player
func WithTimeScaler(ts TimeScaler) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.clock = ts
	}
}

// WithLook sets the initial yaw and pitch in radians.
//
// Parameters:
//   - yaw: the heading
//   - pitch: the elevation
//
// Returns:
//   - PlayerBuilderOption: a function that applies the look angles to a player
func WithLook(yaw, pitch float32) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.yaw = yaw
		p.pitch = pitch
	}
}
