package shader

import (
	"strings"
	"testing"

	"github.com/Duckpedia/Yakuza-Tower/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExpandsIncludes(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("#include camera\n  #include camera\nfn f() {}")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct CameraUniform"))
	assert.Contains(t, out, strings.TrimRight(camera.GPUCameraUniformSource, "\n"))
	assert.True(t, strings.HasSuffix(out, "fn f() {}"))
	assert.NotContains(t, out, "#include")
	assert.Equal(t, []string{IncludeCamera}, pp.Includes())
}

func TestProcessNestedIncludes(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("a", "#include b\nstruct A { b: B, }")
	pp.Register("b", "struct B { x: f32, }")
	pp.Register("loop", "#include loop\nconst L = 1;")

	out, err := pp.Process("#include a\n#include b")
	require.NoError(t, err)
	assert.Equal(t, "struct B { x: f32, }\nstruct A { b: B, }", out)
	assert.Equal(t, []string{"a", "b"}, pp.Includes())

	out, err = pp.Process("#include loop")
	require.NoError(t, err)
	assert.Equal(t, "const L = 1;", out)
	assert.Equal(t, []string{"loop"}, pp.Includes())
}

func TestProcessErrors(t *testing.T) {
	pp := NewPreProcessor()

	_, err := pp.Process("fn f() {}\n#include nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), `"nope"`)

	_, err = pp.Process("#include")
	assert.ErrorContains(t, err, "malformed")

	_, err = pp.Process("#include a b")
	assert.ErrorContains(t, err, "malformed")

	_, err = pp.Process("#includecamera")
	assert.ErrorContains(t, err, "malformed")

	pp.Register("bad", "#include missing")
	_, err = pp.Process("#include bad")
	assert.ErrorContains(t, err, `include "bad": line 1`)
}

func TestProcessLeavesCommentsAlone(t *testing.T) {
	out, err := NewPreProcessor().Process("// #include camera")
	require.NoError(t, err)
	assert.Equal(t, "// #include camera", out)
}

func TestParseBindGroupLayouts(t *testing.T) {
	src := `
@group(1) @binding(2) var albedoSampler: sampler;
@group(1) @binding(1) var albedoTexture: texture_2d<f32>;
@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(0) @binding(1) var<storage, read> instances: array<Instance>;
@group(0) @binding(2) var<storage, read_write> scratch: array<u32>;
@group(2) @binding(0) var depth: texture_depth_2d;
@group(2) @binding(1) var sky: texture_cube<f32>;
// @group(3) @binding(0) var<uniform> commented: CameraUniform;
/* @group(3) @binding(1) var<uniform> blocked: CameraUniform; */
`
	vis := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	layouts, names := parseBindGroupLayouts(src, vis)
	require.Len(t, layouts, 3)

	g0 := layouts[0].Entries
	require.Len(t, g0, 3)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, g0[0].Buffer.Type)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, g0[1].Buffer.Type)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, g0[2].Buffer.Type)
	assert.Equal(t, vis, g0[0].Visibility)

	g1 := layouts[1].Entries
	require.Len(t, g1, 2)
	assert.Equal(t, uint32(1), g1[0].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, g1[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, g1[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, g1[1].Sampler.Type)

	g2 := layouts[2].Entries
	assert.Equal(t, wgpu.TextureSampleTypeDepth, g2[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimensionCube, g2[1].Texture.ViewDimension)

	assert.Equal(t, "instances", names[0][1])
	assert.Equal(t, "albedoSampler", names[1][2])
}

func TestLoadEmbeddedShaders(t *testing.T) {
	geometry, err := Load(KeyGeometry)
	require.NoError(t, err)
	assert.Equal(t, "vs_main", geometry.VertexEntryPoint())
	assert.Equal(t, "fs_main", geometry.FragmentEntryPoint())
	assert.Equal(t, []string{IncludeCamera, IncludeVertex, IncludeInstance, IncludeMaterial}, geometry.Includes())
	assert.Len(t, geometry.BindGroupLayoutDescriptor(0).Entries, 3)
	assert.Len(t, geometry.BindGroupLayoutDescriptor(1).Entries, 3)
	binding, ok := geometry.BindingOf(0, "skins")
	assert.True(t, ok)
	assert.Equal(t, 2, binding)
	assert.Equal(t, KeyGeometry, geometry.Module().Label)

	lighting, err := Load(KeyLighting)
	require.NoError(t, err)
	assert.Len(t, lighting.BindGroupLayoutDescriptor(0).Entries, 2)
	assert.Len(t, lighting.BindGroupLayoutDescriptor(1).Entries, 3)
	assert.Equal(t, "gNormal", lighting.BindGroupVarName(1, 2))

	skybox, err := Load(KeySkybox)
	require.NoError(t, err)
	assert.Len(t, skybox.BindGroupLayoutDescriptors(), 1)

	_, err = Load("missing")
	assert.Error(t, err)
}

func TestNewShaderRequiresVertexEntry(t *testing.T) {
	_, err := NewShader("frag-only", "@fragment fn main() -> @location(0) vec4f { return vec4f(1.0); }")
	assert.ErrorIs(t, err, ErrNoVertexEntryPoint)

	_, err = NewShader("bad-include", "#include nope\n@vertex fn main() {}")
	assert.Error(t, err)
}
