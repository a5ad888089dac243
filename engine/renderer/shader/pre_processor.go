package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
)

// registryEntry pairs an embedded WGSL struct source with its type name and host-side size.
type registryEntry struct {
	Source string
	Type   string
	Size   uint64
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	declarations         []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source and records the generated binding declarations.
type PreProcessor interface {
	// Process replaces @oxy:include annotations with struct source and @oxy:group annotations
	// with generated @group/@binding declarations. The declarations list is reset on every call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if an annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group annotations collected by the last Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation

	// StructSizes maps every registered WGSL type name to the byte size of its host-side mirror.
	//
	// Returns:
	//   - map[string]uint64: sizes keyed by WGSL type name
	StructSizes() map[string]uint64
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the camera and scene uniforms registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera: {
				Source: camera.GPUCameraUniformSource,
				Type:   "CameraUniform",
				Size:   uint64((&camera.GPUCameraUniform{}).Size()),
			},
			AnnotationArgScene: {
				Source: encoder.GPUSceneUniformSource,
				Type:   "SceneUniform",
				Size:   uint64((&encoder.GPUSceneUniform{}).Size()),
			},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgUniform: "var<uniform>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	taken := make(map[[2]int]string)

	var out strings.Builder
	for i, line := range strings.Split(source, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out.WriteString(line)
			continue
		}

		if a.Type == annotationTypeInclude {
			out.WriteString(p.structRegistry[a.Args[0]].Source)
			continue
		}

		slot := [2]int{*a.Group, *a.Binding}
		if prev, ok := taken[slot]; ok {
			return "", fmt.Errorf("line %d: @group(%d) @binding(%d) already holds %s", a.Line, slot[0], slot[1], prev)
		}
		taken[slot] = string(a.Args[1])

		fmt.Fprintf(&out, "@group(%d) @binding(%d) %s %s: %s;",
			slot[0], slot[1], p.addressSpaceRegistry[a.Args[0]], a.Args[1], p.structRegistry[a.Args[2]].Type)
		p.declarations = append(p.declarations, *a)
	}
	return out.String(), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) StructSizes() map[string]uint64 {
	sizes := make(map[string]uint64, len(p.structRegistry))
	for _, entry := range p.structRegistry {
		sizes[entry.Type] = entry.Size
	}
	return sizes
}
