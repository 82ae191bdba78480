// Package model holds renderable geometry and surface data: meshes, materials, textures and
// samplers, grouped into the Model component that the batcher draws.
package model

import (
	"github.com/google/uuid"
)

// Primitive pairs one mesh with the material it is drawn with.
type Primitive struct {
	Mesh     *Mesh
	Material *Material
}

// model is the implementation of the Model interface.
type model struct {
	id         uuid.UUID
	name       string
	primitives []Primitive
}

// Model is the renderable component of an entity: an ordered list of primitives drawn with the
// entity's world matrix. Models are shared freely between entities; every entity that carries
// the same Model is drawn as another instance of its meshes.
type Model interface {
	// ID returns the model's identity.
	//
	// Returns:
	//   - uuid.UUID: the model identity
	ID() uuid.UUID

	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Primitives returns the primitives in draw order.
	//
	// Returns:
	//   - []Primitive: the primitives
	Primitives() []Primitive

	// AddPrimitive appends a mesh and its material. A nil material draws with the default material.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - material: the surface to draw it with
	AddPrimitive(mesh *Mesh, material *Material)

	// Skinned reports whether any primitive's mesh carries joint weights.
	//
	// Returns:
	//   - bool: true if the model is skinned
	Skinned() bool
}

var _ Model = &model{}

// NewModel creates a Model and applies the given options.
//
// Parameters:
//   - opts: functional options to configure the model
//
// Returns:
//   - Model: the new model
func NewModel(opts ...ModelBuilderOption) Model {
	m := &model{id: uuid.New()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *model) ID() uuid.UUID {
	return m.id
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Primitives() []Primitive {
	return m.primitives
}

func (m *model) AddPrimitive(mesh *Mesh, material *Material) {
	if mesh == nil {
		return
	}
	m.primitives = append(m.primitives, Primitive{Mesh: mesh, Material: material})
}

func (m *model) Skinned() bool {
	for _, p := range m.primitives {
		if p.Mesh.Skinned() {
			return true
		}
	}
	return false
}
