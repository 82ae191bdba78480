package renderer

import (
	"fmt"
	"image"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/camera"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/bind_group_provider"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/cache"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Binding indices shared with the embedded shaders. definePipelines checks them against
// the parsed WGSL so the two cannot drift apart silently.
const (
	bindCamera    = 0
	bindInstances = 1
	bindSkins     = 2
	bindLights    = 1

	bindMaterial      = 0
	bindAlbedoTexture = 1
	bindAlbedoSampler = 2
)

// Element sizes of the per-frame storage buffers.
const (
	instanceElementSize = 144 // batch.GPUInstance
	skinElementSize     = 64  // one mat4x4f
	lightElementSize    = 32  // light.GPULight

	// minLightBufferSize covers the header plus one light, the smallest binding a runtime
	// array of lights accepts.
	minLightBufferSize = 16 + lightElementSize
)

// bufferAllocator allocates GrowableBuffer storage through the backend.
type bufferAllocator struct {
	backend RendererBackend
	usage   wgpu.BufferUsage
}

var _ cache.Allocator[*wgpu.Buffer] = bufferAllocator{}

func (a bufferAllocator) Allocate(label string, size uint64) (*wgpu.Buffer, error) {
	return a.backend.CreateBuffer(label, size, a.usage)
}

func (a bufferAllocator) Write(b *wgpu.Buffer, offset uint64, data []byte) error {
	return a.backend.WriteBuffer(b, offset, data)
}

func (a bufferAllocator) Release(b *wgpu.Buffer) {
	if b != nil {
		b.Release()
	}
}

// cameraResources holds one camera's uniform buffer and the group 0 bind group of each pass.
// uniform owns the buffer; the other providers only own their bind groups.
type cameraResources struct {
	uniform  bind_group_provider.BindGroupProvider // geometry group 0
	lighting bind_group_provider.BindGroupProvider
	skybox   bind_group_provider.BindGroupProvider

	// generation is the storage buffer generation the bind groups were built against.
	generation uint64
}

func (c *cameraResources) release() {
	c.skybox.Release()
	c.lighting.Release()
	c.uniform.Release()
}

// padTo returns data extended with zeroes to at least n bytes.
func padTo(data []byte, n int) []byte {
	if len(data) >= n {
		return data
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}

func (r *renderer) mesh(m *model.Mesh) (bind_group_provider.BindGroupProvider, error) {
	return r.meshes.GetOrCreate(m.ID, func() (bind_group_provider.BindGroupProvider, error) {
		p := bind_group_provider.NewBindGroupProvider("Mesh " + m.Name)
		if err := r.backend.InitMeshBuffers(p, m.MarshalVertices(), m.MarshalIndices(), m.IndexCount()); err != nil {
			p.Release()
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		logger.Debug("mesh uploaded", zap.String("mesh", m.Name), zap.Int("vertices", len(m.Vertices)))
		return p, nil
	})
}

// texture returns the provider holding t's view at binding 0. A nil texture, or one whose
// image cannot be staged, resolves to the default texture.
func (r *renderer) texture(t *model.Texture) (bind_group_provider.BindGroupProvider, error) {
	if t == nil {
		return r.textureFromImage(r.defaultTextureID, "Default", r.defaultImage)
	}
	p, err := r.textureFromImage(t.ID, t.Name, t.Image)
	if err != nil {
		logger.Warn("texture falls back to default", zap.String("texture", t.Name), zap.Error(err))
		return r.texture(nil)
	}
	return p, nil
}

func (r *renderer) textureFromImage(id uuid.UUID, name string, img image.Image) (bind_group_provider.BindGroupProvider, error) {
	return r.textures.GetOrCreate(id, func() (bind_group_provider.BindGroupProvider, error) {
		staging, err := common.NewTextureStagingData(img, r.maxTextureSize)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", name, err)
		}
		p := bind_group_provider.NewBindGroupProvider("Texture " + name)
		if err := r.backend.InitTexture(p, 0, staging); err != nil {
			p.Release()
			return nil, fmt.Errorf("texture %q: %w", name, err)
		}
		logger.Debug("texture uploaded", zap.String("texture", name),
			zap.Uint32("width", staging.Width), zap.Uint32("height", staging.Height))
		return p, nil
	})
}

// sampler returns the provider holding s at binding 0, or the default sampler for nil.
func (r *renderer) sampler(s *model.Sampler) (bind_group_provider.BindGroupProvider, error) {
	id := r.defaultSamplerID
	staging := model.NewSampler().StagingData()
	if s != nil {
		id = s.ID
		staging = s.StagingData()
	}
	return r.samplers.GetOrCreate(id, func() (bind_group_provider.BindGroupProvider, error) {
		p := bind_group_provider.NewBindGroupProvider("Sampler " + id.String())
		if err := r.backend.InitSampler(p, 0, staging); err != nil {
			p.Release()
			return nil, fmt.Errorf("sampler %s: %w", id, err)
		}
		return p, nil
	})
}

// material returns the provider owning m's uniform buffer and its geometry group 1 bind group.
// A nil material resolves to the default material.
func (r *renderer) material(m *model.Material) (bind_group_provider.BindGroupProvider, *model.Material, error) {
	if m == nil {
		m = r.defaultMaterial
	}
	p, err := r.materials.GetOrCreate(m.ID, func() (bind_group_provider.BindGroupProvider, error) {
		tex, err := r.texture(m.AlbedoTexture)
		if err != nil {
			return nil, err
		}
		var s *model.Sampler
		if m.AlbedoTexture != nil {
			s = m.AlbedoTexture.Sampler
		}
		samp, err := r.sampler(s)
		if err != nil {
			return nil, err
		}

		var uniform model.GPUMaterial
		p := bind_group_provider.NewBindGroupProvider("Material " + m.Name)
		buf, err := r.backend.CreateBuffer(p.Label()+" Uniform", uint64(uniform.Size()), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		p.SetBuffer(bindMaterial, buf)

		bg, err := r.backend.CreateBindGroup(p.Label(), r.geometry.BindGroupLayout(1), []wgpu.BindGroupEntry{
			{Binding: bindMaterial, Buffer: buf, Size: wgpu.WholeSize},
			{Binding: bindAlbedoTexture, TextureView: tex.TextureView(0)},
			{Binding: bindAlbedoSampler, Sampler: samp.Sampler(0)},
		})
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		p.SetBindGroup(bg)
		return p, nil
	})
	return p, m, err
}

// camera returns the resources for cam, creating its uniform buffer on first use.
func (r *renderer) camera(cam camera.Camera) (*cameraResources, error) {
	return r.cameras.GetOrCreate(cam.ID(), func() (*cameraResources, error) {
		var uniform camera.GPUCameraUniform
		label := "Camera " + cam.ID().String()
		res := &cameraResources{
			uniform:  bind_group_provider.NewBindGroupProvider(label),
			lighting: bind_group_provider.NewBindGroupProvider(label + " Lighting"),
			skybox:   bind_group_provider.NewBindGroupProvider(label + " Skybox"),
		}
		buf, err := r.backend.CreateBuffer(label+" Uniform", uint64(uniform.Size()), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return nil, fmt.Errorf("camera uniform: %w", err)
		}
		res.uniform.SetBuffer(bindCamera, buf)
		return res, nil
	})
}

// bindCamera rebuilds the camera's bind groups when the storage buffers they reference have
// been reallocated since they were built.
func (r *renderer) bindCamera(res *cameraResources) error {
	if res.generation == r.generation {
		return nil
	}
	instances, ok1 := r.instances.Buffer()
	skins, ok2 := r.skins.Buffer()
	lights, ok3 := r.lights.Buffer()
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("storage buffers not allocated")
	}
	cameraBuf := res.uniform.Buffer(bindCamera)

	geometry, err := r.backend.CreateBindGroup(res.uniform.Label(), r.geometry.BindGroupLayout(0), []wgpu.BindGroupEntry{
		{Binding: bindCamera, Buffer: cameraBuf, Size: wgpu.WholeSize},
		{Binding: bindInstances, Buffer: instances, Size: wgpu.WholeSize},
		{Binding: bindSkins, Buffer: skins, Size: wgpu.WholeSize},
	})
	if err != nil {
		return fmt.Errorf("camera geometry bind group: %w", err)
	}
	res.uniform.SetBindGroup(geometry)

	lighting, err := r.backend.CreateBindGroup(res.lighting.Label(), r.lighting.BindGroupLayout(0), []wgpu.BindGroupEntry{
		{Binding: bindCamera, Buffer: cameraBuf, Size: wgpu.WholeSize},
		{Binding: bindLights, Buffer: lights, Size: wgpu.WholeSize},
	})
	if err != nil {
		return fmt.Errorf("camera lighting bind group: %w", err)
	}
	res.lighting.SetBindGroup(lighting)

	skybox, err := r.backend.CreateBindGroup(res.skybox.Label(), r.skybox.BindGroupLayout(0), []wgpu.BindGroupEntry{
		{Binding: bindCamera, Buffer: cameraBuf, Size: wgpu.WholeSize},
	})
	if err != nil {
		return fmt.Errorf("camera skybox bind group: %w", err)
	}
	res.skybox.SetBindGroup(skybox)

	res.generation = r.generation
	return nil
}

func (r *renderer) releaseResources() {
	releaseProvider := func(_ uuid.UUID, p bind_group_provider.BindGroupProvider) { p.Release() }
	r.cameras.Release(func(_ uuid.UUID, c *cameraResources) { c.release() })
	r.materials.Release(releaseProvider)
	r.textures.Release(releaseProvider)
	r.samplers.Release(releaseProvider)
	r.meshes.Release(releaseProvider)
}
