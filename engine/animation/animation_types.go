// Package animation defines keyframe clips and samples them onto joint transforms.
package animation

import (
	"errors"
	"fmt"
)

// ErrMalformedChannel is wrapped by Validate for channels whose keyframes cannot be sampled.
var ErrMalformedChannel = errors.New("animation: malformed channel")

// Path identifies the Transform field a Channel animates.
type Path int

const (
	// PathTranslation animates Transform.Translation with 3-vector values.
	PathTranslation Path = iota

	// PathRotation animates Transform.Rotation with quaternion values.
	PathRotation

	// PathScale animates Transform.Scale with 3-vector values.
	PathScale
)

// String returns the glTF name of the path.
func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return fmt.Sprintf("Path(%d)", int(p))
	}
}

// Interpolation selects how values between keyframes are produced.
type Interpolation int

const (
	// InterpolationLinear blends neighbouring keyframes: slerp for rotations, lerp otherwise.
	InterpolationLinear Interpolation = iota

	// InterpolationStep holds each keyframe's value until the next keyframe.
	InterpolationStep
)

// Channel animates one Transform field of one joint.
type Channel struct {
	// Joint is the index into the owning skeleton's joint list.
	Joint int

	// Path is the animated Transform field.
	Path Path

	// Interpolation is the blend mode between keyframes.
	Interpolation Interpolation

	// Times are strictly increasing keyframe timestamps in seconds.
	Times []float32

	// Values parallels Times. Translation and scale values use the first three components;
	// rotation values are quaternions in (x, y, z, w) order.
	Values [][4]float32
}

// EndTime returns the timestamp of the last keyframe, or 0 for an empty channel.
func (c *Channel) EndTime() float32 {
	if len(c.Times) == 0 {
		return 0
	}
	return c.Times[len(c.Times)-1]
}

// Validate checks that Times and Values are parallel and Times is strictly increasing.
// An empty channel is valid; it is skipped at sampling time.
//
// Returns:
//   - error: an error wrapping ErrMalformedChannel, or nil
func (c *Channel) Validate() error {
	if len(c.Times) != len(c.Values) {
		return fmt.Errorf("%w: %d times but %d values", ErrMalformedChannel, len(c.Times), len(c.Values))
	}
	for i := 1; i < len(c.Times); i++ {
		if !(c.Times[i] > c.Times[i-1]) {
			return fmt.Errorf("%w: time %d (%v) does not follow %v", ErrMalformedChannel, i, c.Times[i], c.Times[i-1])
		}
	}
	if c.Joint < 0 {
		return fmt.Errorf("%w: negative joint index %d", ErrMalformedChannel, c.Joint)
	}
	return nil
}

// Clip is a named set of channels played together.
type Clip struct {
	// Name identifies the clip for PlayAnimationByName.
	Name string

	// Duration is the largest channel end time.
	Duration float32

	// Channels are sampled in order.
	Channels []Channel
}

// NewClip creates a Clip whose Duration is the maximum channel end time.
//
// Parameters:
//   - name: the clip name
//   - channels: the clip's channels
//
// Returns:
//   - *Clip: the clip
func NewClip(name string, channels ...Channel) *Clip {
	c := &Clip{Name: name, Channels: channels}
	for i := range channels {
		c.Duration = max(c.Duration, channels[i].EndTime())
	}
	return c
}

// Validate checks every channel and reports all failures together.
func (c *Clip) Validate() error {
	var errs []error
	for i := range c.Channels {
		if err := c.Channels[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("clip %q channel %d: %w", c.Name, i, err))
		}
	}
	return errors.Join(errs...)
}
