// Package transform holds the spatial component of an entity and the per-frame
// pass that resolves local transforms into world matrices.
package transform

import (
	"github.com/Duckpedia/Yakuza-Tower/common"
)

// Transform is the spatial state of an entity. Translation, Rotation and Scale are
// written by animation and gameplay; Local and Final are derived by Propagate and
// recomputed every frame.
type Transform struct {
	// Translation is the local offset from the parent.
	Translation [3]float32
	// Rotation is a unit quaternion in (x, y, z, w) order.
	Rotation [4]float32
	// Scale is the per-axis local scale.
	Scale [3]float32

	// Local is the column-major matrix composed from Translation, Rotation and Scale.
	Local [16]float32
	// Final is the column-major local-to-world matrix, parent.Final × Local.
	Final [16]float32
}

// NewTransform creates an identity Transform and applies the given options.
// Local and Final are populated immediately so the transform is usable before the first propagation.
//
// Parameters:
//   - opts: functional options to configure the transform
//
// Returns:
//   - *Transform: the new transform
func NewTransform(opts ...TransformBuilderOption) *Transform {
	t := &Transform{
		Rotation: common.QuatIdentity(),
		Scale:    [3]float32{1, 1, 1},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.UpdateLocal()
	t.Final = t.Local
	return t
}

// UpdateLocal recomposes Local from Translation, Rotation and Scale.
func (t *Transform) UpdateLocal() {
	common.ComposeTRS(t.Local[:], t.Translation, t.Rotation, t.Scale)
}

// WorldTranslation returns the translation column of Final.
func (t *Transform) WorldTranslation() [3]float32 {
	return common.Translation(t.Final[:])
}
