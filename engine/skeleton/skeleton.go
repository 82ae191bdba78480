// Package skeleton holds the skinned-mesh component: joint references, inverse bind
// matrices, animation clips and the playback state that drives them.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/animation"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrJointMismatch is returned by NewSkeleton when the joint and inverse bind matrix counts differ.
var ErrJointMismatch = errors.New("skeleton: joint and inverse bind matrix counts differ")

// skeleton is the implementation of the Skeleton interface.
type skeleton struct {
	id          uuid.UUID
	name        string
	joints      []entity.Entity
	jointIDs    map[uint64]struct{}
	inverseBind [][16]float32

	clips   []*animation.Clip
	current *animation.Clip
	time    float32
	speed   float32
	loop    bool
}

// Skeleton is the component attached to a skinned model's entity, or to one of its ancestors.
//
// Joints are ordinary scene entities whose Transforms are written by the current clip and
// resolved by transform.Propagate. The skeleton does not own them; destroying a joint entity
// leaves a reference that contributes identity to the skin.
//
// Playback is a two-state machine. With no current clip the skeleton is idle and Update does
// nothing. While playing, Update advances time by dt × speed; past the clip's end a looping
// skeleton wraps time modulo the duration and a non-looping one returns to idle without
// evaluating that frame. A zero-length clip holds its first frame until time moves off 0.
type Skeleton interface {
	entity.Updater

	// ID returns the identity used to key GPU resources derived from this skeleton.
	//
	// Returns:
	//   - uuid.UUID: the skeleton identity
	ID() uuid.UUID

	// Name returns the skeleton's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Joints returns the joint entities in skin order.
	//
	// Returns:
	//   - []entity.Entity: the joints
	Joints() []entity.Entity

	// JointCount returns the number of joints, which is also the number of skin matrices.
	//
	// Returns:
	//   - int: the joint count
	JointCount() int

	// InverseBindMatrices returns the column-major inverse bind matrix of every joint.
	//
	// Returns:
	//   - [][16]float32: one matrix per joint
	InverseBindMatrices() [][16]float32

	// AddClip registers a clip for playback. A nil clip or one that fails animation.Clip.Validate
	// is logged and not registered.
	//
	// Parameters:
	//   - clip: the clip to add
	//
	// Returns:
	//   - int: the clip's index, or -1 when the clip was rejected
	AddClip(clip *animation.Clip) int

	// Clips returns the registered clips in index order.
	//
	// Returns:
	//   - []*animation.Clip: the clips
	Clips() []*animation.Clip

	// Current returns the playing clip, or nil when idle.
	//
	// Returns:
	//   - *animation.Clip: the current clip
	Current() *animation.Clip

	// PlayAnimationByIndex makes the clip at index current and rewinds time to 0.
	//
	// Parameters:
	//   - index: the clip index
	//
	// Returns:
	//   - bool: false, with the current clip unchanged, when index is out of range
	PlayAnimationByIndex(index int) bool

	// PlayAnimationByName makes the first clip named name current and rewinds time to 0.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - bool: false, with the current clip unchanged, when no clip has that name
	PlayAnimationByName(name string) bool

	// Stop returns the skeleton to idle. Joint transforms keep their last sampled values.
	Stop()

	// Playing reports whether a clip is current.
	//
	// Returns:
	//   - bool: true while playing
	Playing() bool

	// Time returns the playback position in seconds.
	//
	// Returns:
	//   - float32: the playback time
	Time() float32

	// SetTime moves the playback position without evaluating the clip.
	//
	// Parameters:
	//   - t: the playback time in seconds
	SetTime(t float32)

	// Speed returns the playback rate multiplier.
	//
	// Returns:
	//   - float32: the speed
	Speed() float32

	// SetSpeed sets the playback rate multiplier.
	//
	// Parameters:
	//   - speed: the multiplier, 1 for normal rate
	SetSpeed(speed float32)

	// Loop reports whether playback wraps at the end of the clip.
	//
	// Returns:
	//   - bool: the loop flag
	Loop() bool

	// SetLoop sets whether playback wraps at the end of the clip.
	//
	// Parameters:
	//   - loop: the loop flag
	SetLoop(loop bool)

	// Sample evaluates the current clip at the current time into the joints' Transforms
	// without advancing time, then resolves the world matrices of the joint subtrees against
	// their parents' current Final. Calling it repeatedly yields identical joint state.
	Sample()

	// SkinMatrices writes jointFinal × inverseBind for each joint into dst.
	// A joint that is nil or has no Transform contributes its inverse bind matrix alone.
	//
	// Parameters:
	//   - dst: destination matrices; at most len(dst) joints are written
	//
	// Returns:
	//   - int: the number of matrices written
	SkinMatrices(dst [][16]float32) int
}

var _ Skeleton = &skeleton{}

// NewSkeleton creates a Skeleton over joints with one inverse bind matrix per joint.
//
// Parameters:
//   - joints: the joint entities in skin order
//   - inverseBind: the inverse bind matrices, parallel to joints
//   - opts: functional options to configure the skeleton
//
// Returns:
//   - Skeleton: the new skeleton
//   - error: ErrJointMismatch when the slices differ in length
func NewSkeleton(joints []entity.Entity, inverseBind [][16]float32, opts ...SkeletonBuilderOption) (Skeleton, error) {
	if len(joints) != len(inverseBind) {
		return nil, fmt.Errorf("%w: %d joints, %d matrices", ErrJointMismatch, len(joints), len(inverseBind))
	}
	s := &skeleton{
		id:          uuid.New(),
		joints:      joints,
		jointIDs:    make(map[uint64]struct{}, len(joints)),
		inverseBind: inverseBind,
		speed:       1,
		loop:        true,
	}
	for _, j := range joints {
		if j != nil {
			s.jointIDs[j.ID()] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewIdentity creates the default skeleton: one joint whose skin matrix is identity.
// Instances without a skeleton bind against it so the skin buffer range is always valid.
//
// Returns:
//   - Skeleton: the identity skeleton
func NewIdentity() Skeleton {
	return &skeleton{
		id:          uuid.New(),
		name:        "identity",
		joints:      []entity.Entity{nil},
		inverseBind: [][16]float32{common.IdentityMatrix()},
		speed:       1,
	}
}

func (s *skeleton) ID() uuid.UUID {
	return s.id
}

func (s *skeleton) Name() string {
	return s.name
}

func (s *skeleton) Joints() []entity.Entity {
	return s.joints
}

func (s *skeleton) JointCount() int {
	return len(s.joints)
}

func (s *skeleton) InverseBindMatrices() [][16]float32 {
	return s.inverseBind
}

func (s *skeleton) AddClip(clip *animation.Clip) int {
	if clip == nil {
		logger.Warn("skeleton: nil clip skipped", zap.String("skeleton", s.name))
		return -1
	}
	if err := clip.Validate(); err != nil {
		logger.Warn("skeleton: malformed clip skipped",
			zap.String("skeleton", s.name), zap.String("clip", clip.Name), zap.Error(err))
		return -1
	}
	s.clips = append(s.clips, clip)
	return len(s.clips) - 1
}

func (s *skeleton) Clips() []*animation.Clip {
	return s.clips
}

func (s *skeleton) Current() *animation.Clip {
	return s.current
}

func (s *skeleton) PlayAnimationByIndex(index int) bool {
	if index < 0 || index >= len(s.clips) || s.clips[index] == nil {
		return false
	}
	s.current = s.clips[index]
	s.time = 0
	return true
}

func (s *skeleton) PlayAnimationByName(name string) bool {
	for i, c := range s.clips {
		if c != nil && c.Name == name {
			return s.PlayAnimationByIndex(i)
		}
	}
	return false
}

func (s *skeleton) Stop() {
	s.current = nil
	s.time = 0
}

func (s *skeleton) Playing() bool {
	return s.current != nil
}

func (s *skeleton) Time() float32 {
	return s.time
}

func (s *skeleton) SetTime(t float32) {
	s.time = t
}

func (s *skeleton) Speed() float32 {
	return s.speed
}

func (s *skeleton) SetSpeed(speed float32) {
	s.speed = speed
}

func (s *skeleton) Loop() bool {
	return s.loop
}

func (s *skeleton) SetLoop(loop bool) {
	s.loop = loop
}

// Update advances playback by dt and samples the current clip into the joints.
func (s *skeleton) Update(_ float64, dt float64) {
	clip := s.current
	if clip == nil {
		return
	}

	s.time += float32(dt) * s.speed
	if s.time > clip.Duration || s.time < 0 {
		if !s.loop {
			s.Stop()
			return
		}
		// zero-length clips hold their first frame
		if clip.Duration <= 0 {
			s.time = 0
		} else {
			s.time = math32.Mod(s.time, clip.Duration)
			if s.time < 0 {
				s.time += clip.Duration
			}
		}
	}
	s.Sample()
}

func (s *skeleton) Sample() {
	if s.current == nil {
		return
	}
	animation.Apply(s.current, s.time, s.joints)
	s.resolveJoints()
}

// resolveJoints recomputes world matrices below every joint whose parent is not itself a joint,
// so skin matrices taken right after sampling see this frame's pose.
func (s *skeleton) resolveJoints() {
	for _, j := range s.joints {
		if j == nil {
			continue
		}
		if p := j.Parent(); p != nil {
			if _, ok := s.jointIDs[p.ID()]; ok {
				continue
			}
		}
		transform.PropagateFrom(j, transform.ParentFinal(j))
	}
}

func (s *skeleton) SkinMatrices(dst [][16]float32) int {
	n := min(len(dst), len(s.joints))
	for i := 0; i < n; i++ {
		var world *[16]float32
		if j := s.joints[i]; j != nil {
			if t, ok := entity.ComponentOf[*transform.Transform](j); ok {
				world = &t.Final
			}
		}
		if world == nil {
			dst[i] = s.inverseBind[i]
			continue
		}
		common.Mul4(dst[i][:], world[:], s.inverseBind[i][:])
	}
	return n
}
