package model

import (
	"github.com/google/uuid"
)

// Material describes the surface of a primitive. AlbedoTexture may be nil, in which case the
// renderer samples its default white texture so AlbedoFactor alone sets the colour.
type Material struct {
	ID              uuid.UUID
	Name            string
	AlbedoTexture   *Texture
	AlbedoFactor    [4]float32
	AOFactor        float32
	RoughnessFactor float32
	MetalnessFactor float32
}

// NewMaterial creates a white, fully rough, non-metallic Material and applies the given options.
//
// Parameters:
//   - opts: functional options to configure the material
//
// Returns:
//   - *Material: the new material
func NewMaterial(opts ...MaterialBuilderOption) *Material {
	m := &Material{
		ID:              uuid.New(),
		AlbedoFactor:    [4]float32{1, 1, 1, 1},
		AOFactor:        1,
		RoughnessFactor: 1,
		MetalnessFactor: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Uniform packs the material factors for the geometry pass.
func (m *Material) Uniform() GPUMaterial {
	return GPUMaterial{
		AlbedoFactor:    m.AlbedoFactor,
		AOFactor:        m.AOFactor,
		RoughnessFactor: m.RoughnessFactor,
		MetalnessFactor: m.MetalnessFactor,
	}
}
