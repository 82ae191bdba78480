package shader

import (
	"embed"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Keys of the embedded shaders, one per render pass.
const (
	KeyGeometry = "geometry"
	KeyLighting = "lighting"
	KeySkybox   = "skybox"
)

//go:embed assets/*.wgsl
var assets embed.FS

// ErrNoVertexEntryPoint is returned for a source without an @vertex function.
var ErrNoVertexEntryPoint = errors.New("shader has no @vertex entry point")

// shader is the implementation of the Shader interface.
type shader struct {
	key              string
	source           string
	includes         []string
	vertexEntry      string
	fragmentEntry    string
	bindGroupLayouts map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames  map[int]map[int]string
	module           *wgpu.ShaderModuleDescriptor
}

// Shader is a pre-processed WGSL module holding a vertex and optionally a fragment entry
// point, with the bind group layouts its declarations imply.
type Shader interface {
	// Key returns the shader's unique key, used as the module label and for caching.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Source returns the pre-processed WGSL source.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// Includes returns the include names expanded into the source.
	//
	// Returns:
	//   - []string: the include names in expansion order
	Includes() []string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function, or "" when the
	// shader has none.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptor returns the layout parsed for group, or an empty
	// descriptor when the shader declares nothing in that group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every parsed layout keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the layout descriptors
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the variable declared at group and binding, or "".
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index
	//
	// Returns:
	//   - string: the variable name
	BindGroupVarName(group, binding int) string

	// BindingOf returns the binding index of varName in group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the declared variable name
	//
	// Returns:
	//   - int: the binding index, or -1
	//   - bool: true if the variable was found
	BindingOf(group int, varName string) (int, bool)

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes source and parses its entry points and bind group layouts.
// Every binding is made visible to the vertex and fragment stages.
//
// Parameters:
//   - key: the shader's unique key
//   - source: the raw WGSL source, which may contain #include directives
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if pre-processing failed or there is no vertex entry point
func NewShader(key, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:           key,
		source:        processed,
		includes:      pp.Includes(),
		vertexEntry:   parseEntryPoint(processed, vertexEntryRegex),
		fragmentEntry: parseEntryPoint(processed, fragmentEntryRegex),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("shader %s: %w", key, ErrNoVertexEntryPoint)
	}

	visibility := wgpu.ShaderStageVertex
	if s.fragmentEntry != "" {
		visibility |= wgpu.ShaderStageFragment
	}
	s.bindGroupLayouts, s.bindingVarNames = parseBindGroupLayouts(processed, visibility)
	return s, nil
}

// Load creates the embedded shader stored under key.
//
// Parameters:
//   - key: one of KeyGeometry, KeyLighting or KeySkybox
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if key is unknown or the source does not parse
func Load(key string) (Shader, error) {
	data, err := assets.ReadFile("assets/" + key + ".wgsl")
	if err != nil {
		return nil, fmt.Errorf("load shader %s: %w", key, err)
	}
	return NewShader(key, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Includes() []string {
	return s.includes
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindingOf(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
