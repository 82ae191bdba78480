package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the colour the lighting pass clears the swapchain to before the skybox.
//
// Parameters:
//   - rgba: the clear colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear colour to a renderer
func WithClearColor(rgba [4]float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = rgba
	}
}

// WithAmbient sets the ambient light added to every lit pixel.
//
// Parameters:
//   - rgb: the ambient colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the ambient option to a renderer
func WithAmbient(rgb [3]float32) RendererBuilderOption {
	return func(r *renderer) {
		r.ambient = rgb
	}
}

// WithMaxTextureSize caps the largest texture side; bigger images are scaled down on upload.
// Zero disables scaling.
//
// Parameters:
//   - size: the largest texture side in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the texture size cap to a renderer
func WithMaxTextureSize(size uint32) RendererBuilderOption {
	return func(r *renderer) {
		r.maxTextureSize = size
	}
}

// WithSkinWorkers sets how many workers compute skin matrices each frame. Values below 2
// compute them on the render thread.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count to a renderer
func WithSkinWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.skinWorkers = n
	}
}
