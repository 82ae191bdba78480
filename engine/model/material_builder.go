package model

// MaterialBuilderOption is a functional option for configuring a Material during construction.
type MaterialBuilderOption func(*Material)

// WithMaterialName is an option builder that sets the material name.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithMaterialName(name string) MaterialBuilderOption {
	return func(m *Material) {
		m.Name = name
	}
}

// WithAlbedoTexture is an option builder that sets the albedo texture.
//
// Parameters:
//   - t: the texture, or nil for the renderer default
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo texture option to a material
func WithAlbedoTexture(t *Texture) MaterialBuilderOption {
	return func(m *Material) {
		m.AlbedoTexture = t
	}
}

// WithAlbedoFactor is an option builder that sets the RGBA colour multiplied into the albedo texture.
//
// Parameters:
//   - rgba: the albedo factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo factor option to a material
func WithAlbedoFactor(rgba [4]float32) MaterialBuilderOption {
	return func(m *Material) {
		m.AlbedoFactor = rgba
	}
}

// WithSurfaceFactors is an option builder that sets the ambient occlusion, roughness and metalness factors.
//
// Parameters:
//   - ao: the ambient occlusion factor
//   - roughness: the roughness factor
//   - metalness: the metalness factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the surface factors to a material
func WithSurfaceFactors(ao, roughness, metalness float32) MaterialBuilderOption {
	return func(m *Material) {
		m.AOFactor = ao
		m.RoughnessFactor = roughness
		m.MetalnessFactor = metalness
	}
}
