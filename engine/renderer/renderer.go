// Package renderer draws the scene with a three-pass deferred pipeline: a geometry pass fills
// the G-buffer, a lighting pass shades it into the swapchain, and a skybox pass fills the
// background behind the scene.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/camera"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/batch"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/bind_group_provider"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/cache"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/pipeline"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/shader"
	"github.com/Duckpedia/Yakuza-Tower/engine/window"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotInitialized is returned when rendering before Initialize succeeded.
	ErrNotInitialized = errors.New("renderer not initialized")

	// ErrNoCamera is returned when the camera entity carries no Camera component.
	ErrNoCamera = errors.New("camera entity has no camera")
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	geometry pipeline.Pipeline
	lighting pipeline.Pipeline
	skybox   pipeline.Pipeline

	batcher batch.Batcher
	targets gBuffer

	// Per-frame storage shared by every camera. generation counts reallocations so camera
	// bind groups are rebuilt only after one of them grows.
	instances  *cache.GrowableBuffer[*wgpu.Buffer]
	skins      *cache.GrowableBuffer[*wgpu.Buffer]
	lights     *cache.GrowableBuffer[*wgpu.Buffer]
	generation uint64

	meshes    *cache.Cache[uuid.UUID, bind_group_provider.BindGroupProvider]
	textures  *cache.Cache[uuid.UUID, bind_group_provider.BindGroupProvider]
	samplers  *cache.Cache[uuid.UUID, bind_group_provider.BindGroupProvider]
	materials *cache.Cache[uuid.UUID, bind_group_provider.BindGroupProvider]
	cameras   *cache.Cache[uuid.UUID, *cameraResources]

	defaultImage    image.Image
	defaultMaterial *model.Material
	skyboxMesh      *model.Mesh

	// Cache keys of the fallback texture and sampler, distinct from any resource ID.
	defaultTextureID uuid.UUID
	defaultSamplerID uuid.UUID

	initialized bool
	stats       Stats

	// Config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           [4]float64
	ambient              [3]float32
	maxTextureSize       uint32
	skinWorkers          int
}

// Stats summarizes the last rendered frame and the resource caches.
type Stats struct {
	Batches   int
	Draws     int
	Instances int
	Lights    int
	Joints    int

	Meshes    int
	Materials int
	Textures  int
	Cameras   int
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device, the three pass pipelines and every GPU resource derived
// from the scene. Meshes, materials, textures, samplers and cameras are uploaded lazily the
// first time they are drawn and cached by identity until Release.
type Renderer interface {
	// Initialize registers the pass pipelines and creates the default texture, default
	// sampler, default material, skybox cube and G-buffer. Calling it again is a no-op.
	//
	// Parameters:
	//   - defaultTexture: the image sampled by materials without an albedo texture; nil uses 1x1 white
	//
	// Returns:
	//   - error: an error if a pipeline or default resource could not be created
	Initialize(defaultTexture image.Image) error

	// Render draws one frame of entities as seen from cameraEntity. Transforms must already be
	// propagated. Errors are logged and drop the frame; Render never panics on GPU errors.
	//
	// Parameters:
	//   - entities: the scene's entities
	//   - cameraEntity: the entity carrying the Camera component to view from
	Render(entities []entity.Entity, cameraEntity entity.Entity)

	// Resize configures the surface for a new size. The G-buffer follows on the next Render.
	// A zero-area size pauses rendering until a usable size arrives.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Stats returns counters for the last rendered frame.
	//
	// Returns:
	//   - Stats: the frame and cache counters
	Stats() Stats

	// Release frees every GPU resource and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the window's surface with the specified backend type.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface and its initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer; call Initialize before Render
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(options...)

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, fmt.Errorf("create renderer backend: %w", err)
	}
	r.backendType = backendType

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	r.attachBuffers()
	return r, nil
}

// newRenderer applies options over the defaults without touching the GPU.
func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:             &sync.Mutex{},
		meshes:         cache.New[uuid.UUID, bind_group_provider.BindGroupProvider](),
		textures:       cache.New[uuid.UUID, bind_group_provider.BindGroupProvider](),
		samplers:       cache.New[uuid.UUID, bind_group_provider.BindGroupProvider](),
		materials:      cache.New[uuid.UUID, bind_group_provider.BindGroupProvider](),
		cameras:        cache.New[uuid.UUID, *cameraResources](),
		generation:     1,
		presentMode:    PresentModeVSync,
		clearColor:     [4]float64{0, 0, 0, 1},
		ambient:        [3]float32{0.1, 0.1, 0.1},
		maxTextureSize: 4096,

		defaultTextureID: uuid.New(),
		defaultSamplerID: uuid.New(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// attachBuffers creates the growable storage buffers over the backend. Nothing is allocated
// until the first frame writes them.
func (r *renderer) attachBuffers() {
	storage := bufferAllocator{backend: r.backend, usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst}
	r.instances = cache.NewGrowableBuffer[*wgpu.Buffer]("Instance Buffer", instanceElementSize, storage)
	r.skins = cache.NewGrowableBuffer[*wgpu.Buffer]("Skin Buffer", skinElementSize, storage)
	r.lights = cache.NewGrowableBuffer[*wgpu.Buffer]("Light Buffer", lightElementSize, storage)
}

func (r *renderer) Initialize(defaultTexture image.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}

	passes, err := definePipelines(r.backend.SurfaceFormat())
	if err != nil {
		return err
	}
	for _, p := range passes.all() {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			passes.release()
			return fmt.Errorf("register %s pipeline: %w", p.Key(), err)
		}
	}
	r.geometry, r.lighting, r.skybox = passes.geometry, passes.lighting, passes.skybox

	r.defaultImage = defaultTexture
	if r.defaultImage == nil {
		r.defaultImage = common.WhiteImage()
	}
	r.defaultMaterial = model.NewMaterial(model.WithMaterialName("Default"))
	r.skyboxMesh = model.NewCubeMesh(2)
	r.skyboxMesh.Name = "Skybox"

	if _, _, err := r.material(nil); err != nil {
		return fmt.Errorf("default material: %w", err)
	}
	if _, err := r.mesh(r.skyboxMesh); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}

	var opts []batch.BatcherBuilderOption
	if r.skinWorkers > 0 {
		opts = append(opts, batch.WithWorkers(r.skinWorkers))
	}
	r.batcher = batch.NewBatcher(opts...)

	if w, h := r.backend.SurfaceSize(); w > 0 && h > 0 {
		if err := r.resizeTargets(w, h); err != nil {
			return err
		}
	}

	r.initialized = true
	logger.Info("renderer initialized",
		zap.Any("surface_format", r.backend.SurfaceFormat()),
		zap.Stringer("present_mode", r.presentMode))
	return nil
}

func (r *renderer) Render(entities []entity.Entity, cameraEntity entity.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.renderFrame(entities, cameraEntity); err != nil {
		logger.Error("frame dropped", zap.Error(err))
	}
}

// drawCommand is one indexed draw of the geometry pass.
type drawCommand struct {
	mesh          bind_group_provider.BindGroupProvider
	material      *wgpu.BindGroup
	firstInstance uint32
	instanceCount uint32
}

func (r *renderer) renderFrame(entities []entity.Entity, cameraEntity entity.Entity) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	cam, ok := entity.ComponentOf[camera.Camera](cameraEntity)
	if !ok {
		return ErrNoCamera
	}

	width, height := r.backend.SurfaceSize()
	if width <= 0 || height <= 0 {
		return nil
	}
	if r.targets.stale(width, height) {
		if err := r.resizeTargets(width, height); err != nil {
			return err
		}
		logger.Debug("g-buffer resized", zap.Int("width", width), zap.Int("height", height))
	}

	frame := r.batcher.Build(entities)

	camRes, err := r.camera(cam)
	if err != nil {
		return err
	}
	uniform := cam.Uniform(cameraEntity)
	writes := []bind_group_provider.BufferWrite{{Provider: camRes.uniform, Binding: bindCamera, Data: uniform.Marshal()}}

	if err := r.writeStorage(frame); err != nil {
		return err
	}
	draws, writes, err := r.prepareDraws(frame, writes)
	if err != nil {
		return err
	}
	if err := r.backend.WriteBuffers(writes); err != nil {
		return err
	}
	if err := r.bindCamera(camRes); err != nil {
		return err
	}

	view, err := r.backend.BeginFrame()
	if err != nil {
		return fmt.Errorf("acquire surface: %w", err)
	}
	if err := r.encodePasses(view, camRes, draws); err != nil {
		r.backend.AbortFrame()
		return err
	}
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	r.backend.Present()

	r.stats.Batches = len(frame.Batches)
	r.stats.Draws = len(draws)
	r.stats.Instances = len(frame.Instances)
	r.stats.Lights = len(frame.Lights)
	r.stats.Joints = len(frame.SkinMatrices)
	return nil
}

// writeStorage uploads the frame's instance, skin and light data, bumping the generation
// when any buffer was reallocated.
func (r *renderer) writeStorage(frame *batch.Frame) error {
	uploads := []struct {
		buffer *cache.GrowableBuffer[*wgpu.Buffer]
		data   []byte
	}{
		{r.instances, frame.InstanceBytes()},
		{r.skins, frame.SkinBytes()},
		{r.lights, padTo(frame.LightBytes(r.ambient), minLightBufferSize)},
	}
	for _, u := range uploads {
		grown, err := u.buffer.Write(u.data)
		if err != nil {
			return err
		}
		if grown {
			r.generation++
			logger.Debug("storage buffer grown", zap.Uint64("bytes", u.buffer.Size()))
		}
	}
	return nil
}

// prepareDraws materializes the mesh and material of every batch primitive and appends one
// uniform write per distinct material.
func (r *renderer) prepareDraws(frame *batch.Frame, writes []bind_group_provider.BufferWrite) ([]drawCommand, []bind_group_provider.BufferWrite, error) {
	draws := make([]drawCommand, 0, frame.DrawCount())
	written := make(map[uuid.UUID]struct{})
	for _, b := range frame.Batches {
		for _, prim := range b.Model.Primitives() {
			if prim.Mesh == nil {
				continue
			}
			mesh, err := r.mesh(prim.Mesh)
			if err != nil {
				return nil, nil, err
			}
			mat, m, err := r.material(prim.Material)
			if err != nil {
				return nil, nil, err
			}
			if _, ok := written[m.ID]; !ok {
				written[m.ID] = struct{}{}
				u := m.Uniform()
				writes = append(writes, bind_group_provider.BufferWrite{Provider: mat, Binding: bindMaterial, Data: u.Marshal()})
			}
			draws = append(draws, drawCommand{
				mesh:          mesh,
				material:      mat.BindGroup(),
				firstInstance: b.FirstInstance,
				instanceCount: b.InstanceCount,
			})
		}
	}
	return draws, writes, nil
}

// encodePasses records the geometry, lighting and skybox passes into the frame encoder.
func (r *renderer) encodePasses(view *wgpu.TextureView, camRes *cameraResources, draws []drawCommand) error {
	geometry, err := r.backend.BeginPass(&wgpu.RenderPassDescriptor{
		ColorAttachments:       r.targets.colorAttachments(),
		DepthStencilAttachment: r.targets.depthAttachment(wgpu.LoadOpClear),
	})
	if err != nil {
		return err
	}
	for _, d := range draws {
		r.backend.DrawCall(geometry, r.geometry, d.mesh, []*wgpu.BindGroup{camRes.uniform.BindGroup(), d.material}, d.firstInstance, d.instanceCount)
	}
	if err := r.backend.EndPass(geometry); err != nil {
		return fmt.Errorf("geometry pass: %w", err)
	}

	lighting, err := r.backend.BeginPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: r.clearColor[0], G: r.clearColor[1], B: r.clearColor[2], A: r.clearColor[3],
			},
		}},
	})
	if err != nil {
		return err
	}
	r.backend.DrawFullscreen(lighting, r.lighting, []*wgpu.BindGroup{camRes.lighting.BindGroup(), r.targets.provider.BindGroup()})
	if err := r.backend.EndPass(lighting); err != nil {
		return fmt.Errorf("lighting pass: %w", err)
	}

	skyboxMesh, err := r.mesh(r.skyboxMesh)
	if err != nil {
		return err
	}
	skybox, err := r.backend.BeginPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
		DepthStencilAttachment: r.targets.depthAttachment(wgpu.LoadOpLoad),
	})
	if err != nil {
		return err
	}
	r.backend.DrawCall(skybox, r.skybox, skyboxMesh, []*wgpu.BindGroup{camRes.skybox.BindGroup()}, 0, 1)
	if err := r.backend.EndPass(skybox); err != nil {
		return fmt.Errorf("skybox pass: %w", err)
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.ConfigureSurface(width, height); err != nil {
		logger.Error("resize failed", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	w, h := r.backend.SurfaceSize()
	if err := r.backend.ConfigureSurface(w, h); err != nil {
		logger.Error("present mode change failed", zap.Stringer("mode", mode), zap.Error(err))
	}
}

func (r *renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats
	s.Meshes = r.meshes.Len()
	s.Materials = r.materials.Len()
	s.Textures = r.textures.Len()
	s.Cameras = r.cameras.Len()
	return s
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseResources()
	r.targets.release()
	for _, b := range []*cache.GrowableBuffer[*wgpu.Buffer]{r.instances, r.skins, r.lights} {
		if b != nil {
			b.Release()
		}
	}
	for _, p := range []pipeline.Pipeline{r.geometry, r.lighting, r.skybox} {
		if p != nil {
			p.Release()
		}
	}
	if r.batcher != nil {
		r.batcher.Release()
	}
	if r.backend != nil {
		r.backend.Release()
	}
	r.initialized = false
}

// passPipelines holds the configuration of the three render passes.
type passPipelines struct {
	geometry pipeline.Pipeline
	lighting pipeline.Pipeline
	skybox   pipeline.Pipeline
}

func (p passPipelines) all() []pipeline.Pipeline {
	return []pipeline.Pipeline{p.geometry, p.lighting, p.skybox}
}

func (p passPipelines) release() {
	for _, pl := range p.all() {
		pl.Release()
	}
}

// expectedBindings lists, per shader, the group and binding each variable must occupy.
var expectedBindings = map[string][]struct {
	group, binding int
	name           string
}{
	shader.KeyGeometry: {
		{0, bindCamera, "camera"}, {0, bindInstances, "instances"}, {0, bindSkins, "skins"},
		{1, bindMaterial, "material"}, {1, bindAlbedoTexture, "albedoTexture"}, {1, bindAlbedoSampler, "albedoSampler"},
	},
	shader.KeyLighting: {
		{0, bindCamera, "camera"}, {0, bindLights, "lightBuffer"},
		{1, gBufferAlbedo, "gAlbedo"}, {1, gBufferPosition, "gPosition"}, {1, gBufferNormal, "gNormal"},
	},
	shader.KeySkybox: {
		{0, bindCamera, "camera"},
	},
}

// definePipelines loads the embedded shaders and configures the pass pipelines for a
// swapchain of surfaceFormat. No GPU objects are created.
func definePipelines(surfaceFormat wgpu.TextureFormat) (passPipelines, error) {
	shaders := make(map[string]shader.Shader, len(expectedBindings))
	for key, bindings := range expectedBindings {
		s, err := shader.Load(key)
		if err != nil {
			return passPipelines{}, err
		}
		for _, b := range bindings {
			if got, ok := s.BindingOf(b.group, b.name); !ok || got != b.binding {
				return passPipelines{}, fmt.Errorf("shader %s: %q is not at group %d binding %d", key, b.name, b.group, b.binding)
			}
		}
		shaders[key] = s
	}

	return passPipelines{
		geometry: pipeline.NewPipeline(shader.KeyGeometry, shaders[shader.KeyGeometry],
			pipeline.WithColorTargets(gBufferColorFormats...),
			pipeline.WithVertexLayouts(model.VertexLayout()),
			pipeline.WithDepth(gBufferDepthFormat, wgpu.CompareFunctionLess, true),
		),
		lighting: pipeline.NewPipeline(shader.KeyLighting, shaders[shader.KeyLighting],
			pipeline.WithColorTargets(surfaceFormat),
			pipeline.WithoutDepth(),
			pipeline.WithCullMode(wgpu.CullModeNone),
		),
		skybox: pipeline.NewPipeline(shader.KeySkybox, shaders[shader.KeySkybox],
			pipeline.WithColorTargets(surfaceFormat),
			pipeline.WithVertexLayouts(skyboxVertexLayout()),
			pipeline.WithDepth(gBufferDepthFormat, wgpu.CompareFunctionLessEqual, false),
			pipeline.WithCullMode(wgpu.CullModeNone),
		),
	}, nil
}

// skyboxVertexLayout reads only the position of the shared vertex format.
func skyboxVertexLayout() wgpu.VertexBufferLayout {
	layout := model.VertexLayout()
	layout.Attributes = layout.Attributes[:1]
	return layout
}
