// Package camera holds the perspective camera component. The camera's pose is the world
// matrix of the entity it is attached to, so anything that moves the entity moves the view.
package camera

import (
	"sync"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/google/uuid"
)

type cameraImpl struct {
	mu *sync.Mutex

	id     uuid.UUID
	fov    float32
	aspect float32
	near   float32
	far    float32

	projectionMatrix [16]float32
}

// Camera defines the interface for a perspective camera component.
// Projection settings live on the camera; view matrices are derived from the owning
// entity's Transform each frame.
type Camera interface {
	// ID returns the identity keying the camera's uniform buffer.
	//
	// Returns:
	//   - uuid.UUID: the camera identity
	ID() uuid.UUID

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetFov sets the vertical field of view in radians and recomputes the projection.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio and recomputes the projection.
	// Non-positive values are ignored so a minimized window leaves the last aspect in place.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes the projection.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes the projection.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// ProjectionMatrix returns the perspective matrix in WebGPU clip space (depth 0..1), column-major.
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// Uniform builds the camera uniform for the entity carrying this camera.
	// The view matrix is the inverse of the entity's world matrix; an entity without a
	// Transform views from the origin down -Z.
	//
	// Parameters:
	//   - e: the camera entity
	//
	// Returns:
	//   - GPUCameraUniform: view, projection and world position
	Uniform(e entity.Entity) GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		id:     uuid.New(),
		fov:    1,
		aspect: 1,
		near:   0.01,
		far:    1000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	return c
}

func (c *cameraImpl) ID() uuid.UUID {
	return c.id
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateProjection()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateProjection()
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Uniform(e entity.Entity) GPUCameraUniform {
	u := GPUCameraUniform{
		View:       common.IdentityMatrix(),
		Projection: c.ProjectionMatrix(),
	}
	if e == nil {
		return u
	}
	if t, ok := entity.ComponentOf[*transform.Transform](e); ok {
		if !common.Invert4(u.View[:], t.Final[:]) {
			u.View = common.IdentityMatrix()
		}
		u.Position = t.WorldTranslation()
	}
	return u
}

// updateProjection recomputes the projection matrix. Callers hold mu or own c exclusively.
func (c *cameraImpl) updateProjection() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
}
