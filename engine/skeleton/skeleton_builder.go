package skeleton

import (
	"github.com/Duckpedia/Yakuza-Tower/engine/animation"
	"github.com/google/uuid"
)

// SkeletonBuilderOption is a functional option for configuring a Skeleton during construction.
type SkeletonBuilderOption func(*skeleton)

// WithName is an option builder that sets the skeleton's name.
//
// Parameters:
//   - name: the skeleton name
//
// Returns:
//   - SkeletonBuilderOption: a function that applies the name option to a skeleton
func WithName(name string) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.name = name
	}
}

// WithID is an option builder that replaces the generated identity, for skeletons restored from
// an asset that already carries one.
//
// Parameters:
//   - id: the identity
//
// Returns:
//   - SkeletonBuilderOption: a function that applies the id option to a skeleton
func WithID(id uuid.UUID) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.id = id
	}
}

// WithClips is an option builder that registers clips in the given order. Clips rejected by
// AddClip are skipped, so later clips shift down.
//
// Parameters:
//   - clips: the clips to add
//
// Returns:
//   - SkeletonBuilderOption: a function that applies the clips option to a skeleton
func WithClips(clips ...*animation.Clip) SkeletonBuilderOption {
	return func(s *skeleton) {
		for _, c := range clips {
			s.AddClip(c)
		}
	}
}

// WithLoop is an option builder that sets whether playback wraps. Skeletons loop by default.
//
// Parameters:
//   - loop: the loop flag
//
// Returns:
//   - SkeletonBuilderOption: a function that applies the loop option to a skeleton
func WithLoop(loop bool) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.loop = loop
	}
}

// WithSpeed is an option builder that sets the playback rate multiplier.
//
// Parameters:
//   - speed: the multiplier
//
// Returns:
//   - SkeletonBuilderOption: a function that applies the speed option to a skeleton
func WithSpeed(speed float32) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.speed = speed
	}
}

// WithAutoPlay is an option builder that starts the clip at index once all clips are registered.
// Options apply in order, so it must follow WithClips.
//
// Parameters:
//   - index: the clip index to play
//
// Returns:
//   - SkeletonBuilderOption: a function that applies the autoplay option to a skeleton
func WithAutoPlay(index int) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.PlayAnimationByIndex(index)
	}
}
