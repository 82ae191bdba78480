package renderer

import (
	"testing"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/bind_group_provider"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRendererDefaults(t *testing.T) {
	r := newRenderer()

	assert.Equal(t, PresentModeVSync, r.presentMode)
	assert.Equal(t, uint32(4096), r.maxTextureSize)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, r.clearColor)
	assert.Equal(t, uint64(1), r.generation)
	assert.False(t, r.initialized)
	assert.Zero(t, r.Stats())
}

func TestRendererOptions(t *testing.T) {
	r := newRenderer(
		WithPresentMode(PresentModeUncapped),
		WithForceSoftwareRenderer(true),
		WithClearColor([4]float64{0.2, 0.3, 0.4, 1}),
		WithAmbient([3]float32{0.5, 0.5, 0.5}),
		WithMaxTextureSize(512),
		WithSkinWorkers(3),
	)

	assert.Equal(t, PresentModeUncapped, r.presentMode)
	assert.True(t, r.forceFallbackAdapter)
	assert.Equal(t, [4]float64{0.2, 0.3, 0.4, 1}, r.clearColor)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, r.ambient)
	assert.Equal(t, uint32(512), r.maxTextureSize)
	assert.Equal(t, 3, r.skinWorkers)
}

// uploadCounter stands in for the GPU backend, counting texture and sampler uploads.
type uploadCounter struct {
	RendererBackend
	textures int
	samplers int
}

func (u *uploadCounter) InitTexture(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	u.textures++
	return nil
}

func (u *uploadCounter) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	u.samplers++
	return nil
}

func TestDefaultsDoNotAliasZeroIDs(t *testing.T) {
	backend := &uploadCounter{}
	r := newRenderer()
	r.backend = backend
	r.defaultImage = common.WhiteImage()

	require.NotEqual(t, uuid.Nil, r.defaultTextureID)
	require.NotEqual(t, uuid.Nil, r.defaultSamplerID)
	assert.NotEqual(t, r.defaultTextureID, r.defaultSamplerID)

	def, err := r.texture(nil)
	require.NoError(t, err)
	bare, err := r.texture(&model.Texture{Name: "Bare", Image: common.WhiteImage()})
	require.NoError(t, err)
	assert.NotSame(t, def, bare)
	assert.Equal(t, 2, backend.textures)
	assert.Equal(t, 2, r.textures.Len())

	defSampler, err := r.sampler(nil)
	require.NoError(t, err)
	bareSampler, err := r.sampler(&model.Sampler{})
	require.NoError(t, err)
	assert.NotSame(t, defSampler, bareSampler)
	assert.Equal(t, 2, backend.samplers)

	again, err := r.texture(nil)
	require.NoError(t, err)
	assert.Same(t, def, again)
}

func TestRenderBeforeInitialize(t *testing.T) {
	r := newRenderer()

	assert.ErrorIs(t, r.renderFrame(nil, nil), ErrNotInitialized)
	assert.NotPanics(t, func() { r.Render(nil, nil) })
}

func TestDefinePipelines(t *testing.T) {
	passes, err := definePipelines(wgpu.TextureFormatBGRA8UnormSrgb)
	require.NoError(t, err)

	assert.Equal(t, shader.KeyGeometry, passes.geometry.Key())
	assert.Equal(t, gBufferColorFormats, passes.geometry.ColorFormats())
	assert.True(t, passes.geometry.DepthEnabled())
	geometry := passes.geometry.Descriptor(nil, nil)
	require.NotNil(t, geometry.DepthStencil)
	assert.Equal(t, wgpu.CompareFunctionLess, geometry.DepthStencil.DepthCompare)
	assert.True(t, geometry.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, []wgpu.VertexBufferLayout{model.VertexLayout()}, geometry.Vertex.Buffers)

	assert.Equal(t, []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb}, passes.lighting.ColorFormats())
	assert.False(t, passes.lighting.DepthEnabled())
	lighting := passes.lighting.Descriptor(nil, nil)
	assert.Nil(t, lighting.DepthStencil)
	assert.Empty(t, lighting.Vertex.Buffers)
	assert.Equal(t, wgpu.CullModeNone, lighting.Primitive.CullMode)

	skybox := passes.skybox.Descriptor(nil, nil)
	require.NotNil(t, skybox.DepthStencil)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, skybox.DepthStencil.DepthCompare)
	assert.False(t, skybox.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.CullModeNone, skybox.Primitive.CullMode)
	require.Len(t, skybox.Vertex.Buffers, 1)
	assert.Equal(t, uint64(48), skybox.Vertex.Buffers[0].ArrayStride)
	require.Len(t, skybox.Vertex.Buffers[0].Attributes, 1)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, skybox.Vertex.Buffers[0].Attributes[0].Format)
}

func TestGBufferStale(t *testing.T) {
	var g gBuffer
	assert.True(t, g.stale(800, 600), "unallocated targets are always stale")

	g.width, g.height = 800, 600
	assert.True(t, g.stale(800, 600), "no provider yet")
}

func TestPadTo(t *testing.T) {
	short := []byte{1, 2, 3}
	padded := padTo(short, minLightBufferSize)
	assert.Len(t, padded, 48)
	assert.Equal(t, []byte{1, 2, 3}, padded[:3])
	assert.Equal(t, make([]byte, 45), padded[3:])

	long := make([]byte, 80)
	assert.Len(t, padTo(long, minLightBufferSize), 80)
}

func TestPresentModeString(t *testing.T) {
	assert.Equal(t, "vsync", PresentModeVSync.String())
	assert.Equal(t, "uncapped", PresentModeUncapped.String())
	assert.Equal(t, "unknown", PresentMode(7).String())
}
