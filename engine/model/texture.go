package model

import (
	"image"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// Sampler describes how a texture is filtered and addressed.
type Sampler struct {
	ID           uuid.UUID
	MinFilter    wgpu.FilterMode
	MagFilter    wgpu.FilterMode
	AddressModeU wgpu.AddressMode
	AddressModeV wgpu.AddressMode
}

// NewSampler creates a Sampler with linear filtering and repeat addressing.
func NewSampler() *Sampler {
	return &Sampler{
		ID:           uuid.New(),
		MinFilter:    wgpu.FilterModeLinear,
		MagFilter:    wgpu.FilterModeLinear,
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
	}
}

// StagingData converts the sampler to the descriptor the bind group provider creates samplers from.
func (s *Sampler) StagingData() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: s.AddressModeU,
		AddressModeV: s.AddressModeV,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    s.MagFilter,
		MinFilter:    s.MinFilter,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMinClamp:  0,
		LodMaxClamp:  32,
	}
}

// Texture is a decoded image and the sampler it is read with. A nil Sampler uses the
// renderer's default sampler.
type Texture struct {
	ID      uuid.UUID
	Name    string
	Image   image.Image
	Sampler *Sampler
}

// NewTexture wraps a decoded image.
//
// Parameters:
//   - name: the texture name, used in GPU resource labels
//   - img: the decoded image
//   - sampler: the sampler, or nil for the default
//
// Returns:
//   - *Texture: the texture
func NewTexture(name string, img image.Image, sampler *Sampler) *Texture {
	return &Texture{
		ID:      uuid.New(),
		Name:    name,
		Image:   img,
		Sampler: sampler,
	}
}
