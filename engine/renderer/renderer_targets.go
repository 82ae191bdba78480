package renderer

import (
	"fmt"

	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// G-buffer bindings, matching group 1 of the lighting shader. The depth target is held
// by the same provider but is never bound.
const (
	gBufferAlbedo = iota
	gBufferPosition
	gBufferNormal
	gBufferDepth
)

// gBufferColorFormats lists the colour target formats in binding order.
var gBufferColorFormats = []wgpu.TextureFormat{
	gBufferAlbedo:   wgpu.TextureFormatRGBA8Unorm,
	gBufferPosition: wgpu.TextureFormatRGBA16Float,
	gBufferNormal:   wgpu.TextureFormatRGBA16Float,
}

const gBufferDepthFormat = wgpu.TextureFormatDepth24Plus

// gBuffer holds the geometry pass targets and the lighting bind group that reads them.
type gBuffer struct {
	width, height int
	provider      bind_group_provider.BindGroupProvider
}

// stale reports whether the targets must be reallocated for a surface of width × height.
func (g *gBuffer) stale(width, height int) bool {
	return g.provider == nil || g.width != width || g.height != height
}

func (g *gBuffer) release() {
	if g.provider != nil {
		g.provider.Release()
		g.provider = nil
	}
	g.width, g.height = 0, 0
}

// colorAttachments returns the geometry pass attachments, cleared so untouched pixels read
// as background (position.w == 0) in the lighting pass.
func (g *gBuffer) colorAttachments() []wgpu.RenderPassColorAttachment {
	attachments := make([]wgpu.RenderPassColorAttachment, len(gBufferColorFormats))
	for i := range attachments {
		attachments[i] = wgpu.RenderPassColorAttachment{
			View:       g.provider.TextureView(i),
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{},
		}
	}
	return attachments
}

// depthAttachment returns the G-buffer depth attachment. The geometry pass clears it; the
// skybox pass loads it to test against the scene.
func (g *gBuffer) depthAttachment(load wgpu.LoadOp) *wgpu.RenderPassDepthStencilAttachment {
	return &wgpu.RenderPassDepthStencilAttachment{
		View:            g.provider.TextureView(gBufferDepth),
		DepthLoadOp:     load,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1.0,
	}
}

// resizeTargets reallocates the G-buffer at width × height and rebuilds the lighting
// bind group over it.
func (r *renderer) resizeTargets(width, height int) error {
	r.targets.release()

	targets := bind_group_provider.NewBindGroupProvider("G-Buffer")
	for binding, format := range gBufferColorFormats {
		if err := r.backend.InitRenderTarget(targets, binding, width, height, format); err != nil {
			targets.Release()
			return fmt.Errorf("g-buffer target %d: %w", binding, err)
		}
	}
	if err := r.backend.InitRenderTarget(targets, gBufferDepth, width, height, gBufferDepthFormat); err != nil {
		targets.Release()
		return fmt.Errorf("g-buffer depth: %w", err)
	}

	entries := make([]wgpu.BindGroupEntry, len(gBufferColorFormats))
	for i := range entries {
		entries[i] = wgpu.BindGroupEntry{
			Binding:     uint32(i),
			TextureView: targets.TextureView(i),
		}
	}
	bg, err := r.backend.CreateBindGroup("G-Buffer", r.lighting.BindGroupLayout(1), entries)
	if err != nil {
		targets.Release()
		return fmt.Errorf("g-buffer bind group: %w", err)
	}
	targets.SetBindGroup(bg)

	r.targets = gBuffer{width: width, height: height, provider: targets}
	return nil
}
