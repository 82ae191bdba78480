package pipeline

import (
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// key is the unique identifier for this pipeline, used for caching and labels
	key    string
	shader shader.Shader

	// renderPipeline and bindGroupLayouts are GPU objects set by the renderer after creation
	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts []*wgpu.BindGroupLayout

	colorFormats  []wgpu.TextureFormat
	vertexLayouts []wgpu.VertexBufferLayout

	depthEnabled      bool
	depthFormat       wgpu.TextureFormat
	depthCompare      wgpu.CompareFunction
	depthWriteEnabled bool

	cullMode   wgpu.CullMode
	topology   wgpu.PrimitiveTopology
	frontFace  wgpu.FrontFace
	writeMask  wgpu.ColorWriteMask
	blendState *wgpu.BlendState
}

// Pipeline holds the configuration of one render pass pipeline: a shader module with vertex
// and fragment entry points, its color targets, the optional depth stage and the vertex
// buffer layouts. The renderer creates the GPU objects from Descriptor and stores them back.
type Pipeline interface {
	// Key returns the unique key of the pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// Shader returns the shader holding both entry points.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// ColorFormats returns the formats of the color targets, in location order.
	//
	// Returns:
	//   - []wgpu.TextureFormat: the color target formats
	ColorFormats() []wgpu.TextureFormat

	// DepthEnabled reports whether the pipeline has a depth stage.
	//
	// Returns:
	//   - bool: true if a depth attachment is used
	DepthEnabled() bool

	// Descriptor builds the render pipeline descriptor for this configuration.
	//
	// Parameters:
	//   - layout: the pipeline layout created from the shader's bind group layouts
	//   - module: the shader module created from Shader().Module()
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor

	// RenderPipeline returns the created render pipeline, or nil.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created render pipeline and its bind group layouts.
	//
	// Parameters:
	//   - p: the render pipeline
	//   - layouts: the bind group layouts indexed by group
	SetRenderPipeline(p *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout)

	// BindGroupLayout returns the created layout of group, or nil.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// Release frees the render pipeline and its bind group layouts.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline configuration for s. The defaults are one color target of
// the given format, depth Depth24Plus with Less and writes, back-face culling of CCW
// triangles and no blending.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - s: the shader holding the vertex and fragment entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the pipeline configuration
func NewPipeline(key string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:               key,
		shader:            s,
		colorFormats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm},
		depthEnabled:      true,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		depthCompare:      wgpu.CompareFunctionLess,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) ColorFormats() []wgpu.TextureFormat {
	return p.colorFormats
}

func (p *pipeline) DepthEnabled() bool {
	return p.depthEnabled
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	targets := make([]wgpu.ColorTargetState, len(p.colorFormats))
	for i, format := range p.colorFormats {
		targets[i] = wgpu.ColorTargetState{
			Format:    format,
			Blend:     p.blendState,
			WriteMask: p.writeMask,
		}
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.key + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.shader.VertexEntryPoint(),
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.shader.FragmentEntryPoint(),
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.depthEnabled {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      p.depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}
	return desc
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout) {
	p.renderPipeline = rp
	p.bindGroupLayouts = layouts
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	for _, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
	}
	p.bindGroupLayouts = nil
}
