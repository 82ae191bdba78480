package animation

import (
	"testing"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translationChannel(interp Interpolation) Channel {
	return Channel{
		Joint:         0,
		Path:          PathTranslation,
		Interpolation: interp,
		Times:         []float32{0, 1, 2},
		Values:        [][4]float32{{0, 0, 0}, {2, 4, 6}, {4, 0, 0}},
	}
}

func TestNewClipDuration(t *testing.T) {
	a := translationChannel(InterpolationLinear)
	b := Channel{Path: PathScale, Times: []float32{0, 3.5}, Values: [][4]float32{{1, 1, 1}, {2, 2, 2}}}
	clip := NewClip("walk", a, b)
	assert.Equal(t, float32(3.5), clip.Duration)
	assert.Equal(t, "walk", clip.Name)

	assert.Equal(t, float32(0), NewClip("empty").Duration)
}

func TestValidate(t *testing.T) {
	good := translationChannel(InterpolationLinear)
	assert.NoError(t, good.Validate())

	mismatched := Channel{Times: []float32{0, 1}, Values: [][4]float32{{}}}
	assert.ErrorIs(t, mismatched.Validate(), ErrMalformedChannel)

	unordered := Channel{Times: []float32{0, 1, 1}, Values: make([][4]float32, 3)}
	assert.ErrorIs(t, unordered.Validate(), ErrMalformedChannel)

	clip := NewClip("bad", good, unordered, mismatched)
	err := clip.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel 1")
	assert.Contains(t, err.Error(), "channel 2")
}

func TestSampleChannelLinear(t *testing.T) {
	ch := translationChannel(InterpolationLinear)

	v, ok := SampleChannel(&ch, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 1, v[0], 1e-6)
	assert.InDelta(t, 2, v[1], 1e-6)
	assert.InDelta(t, 3, v[2], 1e-6)

	v, _ = SampleChannel(&ch, 1.5)
	assert.InDelta(t, 3, v[0], 1e-6)
	assert.InDelta(t, 2, v[1], 1e-6)
}

func TestSampleChannelExactAtKeyframes(t *testing.T) {
	ch := translationChannel(InterpolationLinear)
	for i, tm := range ch.Times {
		v, ok := SampleChannel(&ch, tm)
		require.True(t, ok)
		assert.Equal(t, ch.Values[i], v, "keyframe %d", i)
	}
}

func TestSampleChannelHoldsOutsideRange(t *testing.T) {
	ch := Channel{Path: PathTranslation, Times: []float32{1, 2}, Values: [][4]float32{{5, 0, 0}, {7, 0, 0}}}

	v, _ := SampleChannel(&ch, 0.25)
	assert.Equal(t, ch.Values[0], v)

	v, _ = SampleChannel(&ch, 10)
	assert.Equal(t, ch.Values[1], v)
}

func TestSampleChannelStep(t *testing.T) {
	ch := translationChannel(InterpolationStep)

	v, _ := SampleChannel(&ch, 0.99)
	assert.Equal(t, ch.Values[0], v)
	v, _ = SampleChannel(&ch, 1)
	assert.Equal(t, ch.Values[1], v)
	v, _ = SampleChannel(&ch, 1.7)
	assert.Equal(t, ch.Values[1], v)
}

func TestSampleChannelSingleKey(t *testing.T) {
	ch := Channel{Path: PathScale, Times: []float32{0.4}, Values: [][4]float32{{3, 3, 3}}}
	for _, tm := range []float32{0, 0.4, 9} {
		v, ok := SampleChannel(&ch, tm)
		require.True(t, ok)
		assert.Equal(t, ch.Values[0], v)
	}
}

func TestSampleChannelEmpty(t *testing.T) {
	ch := Channel{Path: PathRotation}
	_, ok := SampleChannel(&ch, 0)
	assert.False(t, ok)
}

func TestSampleChannelRotationSlerps(t *testing.T) {
	a := common.QuatIdentity()
	b := common.QuatFromAxisAngle([3]float32{0, 1, 0}, math32.Pi/2)
	ch := Channel{Path: PathRotation, Times: []float32{0, 1}, Values: [][4]float32{a, b}}

	v, _ := SampleChannel(&ch, 0.5)
	want := common.QuatFromAxisAngle([3]float32{0, 1, 0}, math32.Pi/4)
	for i := range want {
		assert.InDelta(t, want[i], v[i], 1e-5)
	}
	// slerp keeps unit length where a lerp would not
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2] + v[3]*v[3])
	assert.InDelta(t, 1, length, 1e-5)
}

func TestApplyWritesJointTransforms(t *testing.T) {
	root := entity.NewEntity(entity.WithComponents(transform.NewTransform()))
	bare := entity.NewEntity()
	child := entity.NewEntity(entity.WithComponents(transform.NewTransform()))
	joints := []entity.Entity{root, bare, child}

	q := common.QuatFromAxisAngle([3]float32{1, 0, 0}, 0.3)
	clip := NewClip("mixed",
		Channel{Joint: 0, Path: PathTranslation, Times: []float32{0}, Values: [][4]float32{{1, 2, 3}}},
		Channel{Joint: 1, Path: PathScale, Times: []float32{0}, Values: [][4]float32{{9, 9, 9}}},
		Channel{Joint: 2, Path: PathRotation, Times: []float32{0}, Values: [][4]float32{q}},
		Channel{Joint: 2, Path: PathScale, Times: []float32{0}, Values: [][4]float32{{2, 2, 2}}},
		Channel{Joint: 7, Path: PathScale, Times: []float32{0}, Values: [][4]float32{{5, 5, 5}}},
		Channel{Joint: 0, Path: PathScale},
	)

	n := Apply(clip, 0, joints)
	assert.Equal(t, 3, n)

	rt, _ := entity.ComponentOf[*transform.Transform](root)
	assert.Equal(t, [3]float32{1, 2, 3}, rt.Translation)
	assert.Equal(t, [3]float32{1, 1, 1}, rt.Scale)

	ct, _ := entity.ComponentOf[*transform.Transform](child)
	assert.Equal(t, q, ct.Rotation)
	assert.Equal(t, [3]float32{2, 2, 2}, ct.Scale)
}

func TestApplyNilClip(t *testing.T) {
	assert.Equal(t, 0, Apply(nil, 0, nil))
}
