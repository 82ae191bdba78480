package model

// ModelBuilderOption is a functional option for configuring a Model during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the model name.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPrimitive is an option builder that appends a mesh and material pair.
//
// Parameters:
//   - mesh: the mesh to draw
//   - material: the surface to draw it with, or nil for the default material
//
// Returns:
//   - ModelBuilderOption: a function that applies the primitive option to a model
func WithPrimitive(mesh *Mesh, material *Material) ModelBuilderOption {
	return func(m *model) {
		m.AddPrimitive(mesh, material)
	}
}
