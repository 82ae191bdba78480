package animation

import (
	"sort"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
)

// SampleChannel evaluates c at time.
//
// The keyframe interval [i, i+1] with Times[i] <= time < Times[i+1] is located by
// binary search. Before the first keyframe the first value is held; at or past the
// last keyframe the last value is held. STEP channels, and times landing exactly on
// a keyframe, return Values[i] unblended. Otherwise rotations are slerped and
// translations and scales are lerped.
//
// Parameters:
//   - c: the channel to sample
//   - time: the playback time in seconds
//
// Returns:
//   - [4]float32: the sampled value
//   - bool: false if the channel has no keyframes
func SampleChannel(c *Channel, time float32) ([4]float32, bool) {
	n := min(len(c.Times), len(c.Values))
	if n == 0 {
		return [4]float32{}, false
	}

	// first keyframe strictly after time
	next := sort.Search(n, func(k int) bool { return c.Times[k] > time })
	i := next - 1
	if i < 0 {
		return c.Values[0], true
	}
	if i >= n-1 || c.Interpolation == InterpolationStep {
		return c.Values[i], true
	}

	t := (time - c.Times[i]) / (c.Times[i+1] - c.Times[i])
	if t <= 0 {
		return c.Values[i], true
	}

	a, b := c.Values[i], c.Values[i+1]
	if c.Path == PathRotation {
		return common.Slerp(a, b, t), true
	}
	v := common.Lerp3([3]float32{a[0], a[1], a[2]}, [3]float32{b[0], b[1], b[2]}, t)
	return [4]float32{v[0], v[1], v[2], 0}, true
}

// Apply samples every channel of clip at time and writes the values into the joints'
// Transforms. Channels without keyframes, channels whose joint index has no entity,
// and joints without a Transform are skipped; the remaining channels still apply.
//
// Parameters:
//   - clip: the clip to evaluate
//   - time: the playback time in seconds
//   - joints: the skeleton's joint entities, indexed by Channel.Joint
//
// Returns:
//   - int: the number of channels written
func Apply(clip *Clip, time float32, joints []entity.Entity) int {
	if clip == nil {
		return 0
	}
	written := 0
	for ci := range clip.Channels {
		ch := &clip.Channels[ci]
		if ch.Joint < 0 || ch.Joint >= len(joints) || joints[ch.Joint] == nil {
			continue
		}
		tr, ok := entity.ComponentOf[*transform.Transform](joints[ch.Joint])
		if !ok {
			continue
		}
		v, ok := SampleChannel(ch, time)
		if !ok {
			continue
		}

		switch ch.Path {
		case PathTranslation:
			tr.Translation = [3]float32{v[0], v[1], v[2]}
		case PathRotation:
			tr.Rotation = v
		case PathScale:
			tr.Scale = [3]float32{v[0], v[1], v[2]}
		default:
			continue
		}
		written++
	}
	return written
}
