package batch

import (
	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/light"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/skeleton"
	"github.com/google/uuid"
)

// Key groups instances that share a model and a skeleton.
// Skeleton is uuid.Nil for instances drawn without one.
type Key struct {
	Model    uuid.UUID
	Skeleton uuid.UUID
}

// Batch is a run of instances drawn together: every primitive of Model is drawn once with
// InstanceCount instances starting at FirstInstance in the instance buffer.
type Batch struct {
	Key           Key
	Model         model.Model
	Skeleton      skeleton.Skeleton
	FirstInstance uint32
	InstanceCount uint32
}

// Frame is everything the renderer uploads and draws for one frame.
type Frame struct {
	// Batches are in first-encounter order.
	Batches []Batch

	// Instances are grouped by batch, so Batches[i] covers
	// Instances[FirstInstance : FirstInstance+InstanceCount].
	Instances []GPUInstance

	// Skeletons lists every skeleton packed into SkinMatrices in offset order. Index 0 is
	// always the identity skeleton.
	Skeletons []skeleton.Skeleton

	// SkinOffsets parallels Skeletons with each skeleton's first joint in SkinMatrices.
	SkinOffsets []uint32

	// SkinMatrices holds jointWorld × inverseBind for all skeletons back to back.
	SkinMatrices [][16]float32

	// Lights are the enabled lights in scene order.
	Lights []light.GPULight
}

// InstanceBytes returns Instances as the instance storage buffer contents. The slice views
// the frame's memory and is only valid until the frame is modified.
func (f *Frame) InstanceBytes() []byte {
	return common.SliceToBytes(f.Instances)
}

// SkinBytes returns SkinMatrices as the skin storage buffer contents. The slice views the
// frame's memory and is only valid until the frame is modified.
func (f *Frame) SkinBytes() []byte {
	return common.SliceToBytes(f.SkinMatrices)
}

// LightBytes serializes the light header and Lights for the light storage buffer.
//
// Parameters:
//   - ambient: the scene ambient RGB written into the header
//
// Returns:
//   - []byte: the buffer contents
func (f *Frame) LightBytes(ambient [3]float32) []byte {
	return light.MarshalLightBuffer(ambient, f.Lights)
}

// DrawCount returns the number of indexed draws the frame issues: one per batch primitive.
func (f *Frame) DrawCount() int {
	n := 0
	for _, b := range f.Batches {
		n += len(b.Model.Primitives())
	}
	return n
}
