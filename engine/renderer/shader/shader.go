// Package shader loads WGSL sources, expands @oxy: annotations and derives the bind group
// layouts and entry points a render pipeline needs.
package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// String returns the stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// ErrNoEntryPoint is returned when the source has no entry point for the requested stage.
var ErrNoEntryPoint = errors.New("shader has no entry point for stage")

type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation
}

// Shader is a pre-processed WGSL shader stage together with the metadata needed to build a pipeline for it.
type Shader interface {
	// Key returns the shader's unique identifier.
	Key() string

	// Source returns the pre-processed WGSL source.
	Source() string

	// EntryPoint returns the entry point function name for this stage.
	EntryPoint() string

	// ShaderType returns the stage this shader was built for.
	ShaderType() ShaderType

	// BindGroupLayoutDescriptors returns the layout descriptors parsed from the source, keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the variable bound at group/binding, or "" if none.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the WGSL variable name
	BindGroupVarName(group, binding int) string

	// Module returns the shader module descriptor used to compile this stage.
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the @oxy:group annotations found in the source.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes the given WGSL source and parses the metadata for one stage.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to build
//   - source: the raw WGSL source, usually embedded from an asset file
//
// Returns:
//   - Shader: the parsed shader
//   - error: a pre-processing error, or ErrNoEntryPoint
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %q: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		entryPoint:   parseEntryPoint(processed, shaderType),
		declarations: append([]Annotation(nil), pp.Declarations()...),
	}
	if s.entryPoint == "" {
		return nil, fmt.Errorf("%w %s in %q", ErrNoEntryPoint, shaderType, key)
	}

	var visibility wgpu.ShaderStage
	switch shaderType {
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed, visibility, pp.StructSizes())
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: processed,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
