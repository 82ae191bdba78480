// pre_processor.go implements the WGSL include pre-processor. A line of the form
//
//	#include <name>
//
// is replaced with the WGSL struct source registered under name. The built-in
// registry holds the GPU types of the engine packages so the Go layout and the
// WGSL declaration live side by side in one package each. A name is expanded at
// most once per Process call; repeated includes expand to nothing.
package shader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Duckpedia/Yakuza-Tower/engine/camera"
	"github.com/Duckpedia/Yakuza-Tower/engine/light"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer/batch"
)

// includeDirective is the line prefix that marks an include.
const includeDirective = "#include"

// Include names of the built-in registry.
const (
	IncludeCamera      = "camera"
	IncludeVertex      = "vertex"
	IncludeMaterial    = "material"
	IncludeInstance    = "instance"
	IncludeLight       = "light"
	IncludeLightHeader = "light_header"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	registry map[string]string
	included []string
}

// PreProcessor expands #include directives in WGSL source.
type PreProcessor interface {
	// Register adds or replaces the source expanded for name.
	//
	// Parameters:
	//   - name: the include name, a single token
	//   - source: the WGSL text to insert
	Register(name, source string)

	// Process expands every #include in source, recursively.
	// The list returned by Includes is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error naming the line of a malformed or unknown include
	Process(source string) (string, error)

	// Includes returns the names expanded by the last Process call, in expansion order.
	//
	// Returns:
	//   - []string: the expanded include names
	Includes() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU types registered.
//
// Returns:
//   - PreProcessor: the pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]string{
			IncludeCamera:      camera.GPUCameraUniformSource,
			IncludeVertex:      model.GPUVertexSource,
			IncludeMaterial:    model.GPUMaterialSource,
			IncludeInstance:    batch.GPUInstanceSource,
			IncludeLight:       light.GPULightSource,
			IncludeLightHeader: light.GPULightHeaderSource,
		},
	}
}

func (p *preProcessor) Register(name, source string) {
	p.registry[name] = source
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]
	out, err := p.expand(source, "")
	if err != nil {
		return "", err
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []string {
	return p.included
}

// expand returns the lines of source with includes replaced. from names the
// include being expanded, empty for the top-level source.
func (p *preProcessor) expand(source, from string) ([]string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			out = append(out, line)
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) != 1 || rest == "" || !strings.ContainsAny(rest[:1], " \t") {
			return nil, fmt.Errorf("%sline %d: malformed include %q", where(from), i+1, strings.TrimSpace(line))
		}
		name := fields[0]
		src, known := p.registry[name]
		if !known {
			return nil, fmt.Errorf("%sline %d: unknown include %q", where(from), i+1, name)
		}
		if slices.Contains(p.included, name) {
			continue
		}
		p.included = append(p.included, name)

		nested, err := p.expand(strings.TrimRight(src, "\n"), name)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

func where(include string) string {
	if include == "" {
		return ""
	}
	return fmt.Sprintf("include %q: ", include)
}
