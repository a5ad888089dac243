package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix starts a directive inside a single-line WGSL comment. A
// directive either pastes a uniform struct owned by another package or declares
// the variable bound to it, so the Go byte layouts and the WGSL structs share
// one definition.
const annotationPrefix = "@oxy:"

// AnnotationType names the directive that follows the @oxy: prefix.
type AnnotationType string

const (
	// annotationTypeInclude pastes a registered struct definition in place.
	//   //@oxy:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup declares a variable bound to a registered struct.
	//   //@oxy:group <group> <binding> <address_space> <var_name> <struct_type>
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// Annotation is one parsed directive.
type Annotation struct {
	Type AnnotationType

	// Args is [struct] for include and [address space, var name, struct] for group.
	Args []AnnotationArg

	// Line is 1-based.
	Line int

	// Group and Binding are only set for group directives.
	Group   *int
	Binding *int
}

// AnnotationArg is a typed directive argument.
type AnnotationArg string

const (
	// AnnotationArgCamera is the pinhole camera block from engine/camera/assets.
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgScene is the packed primitive block from engine/encoder/assets.
	AnnotationArgScene AnnotationArg = "scene"
)

// annotationArgUniform is the only address space the trace passes bind.
const annotationArgUniform AnnotationArg = "uniform"

var validStructTypes = []AnnotationArg{AnnotationArgCamera, AnnotationArgScene}

var validAddressSpaces = []AnnotationArg{annotationArgUniform}

func annotationError(lineNum int, format string, args ...any) error {
	return fmt.Errorf("line %d: "+format, append([]any{lineNum}, args...)...)
}

// parseAnnotation reads one source line. A line without the prefix yields
// (nil, nil); a malformed directive yields an error carrying the line number.
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	_, rest, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, annotationError(lineNum, "@oxy: with no directive")
	}

	switch AnnotationType(fields[0]) {
	case annotationTypeInclude:
		return parseInclude(fields[1:], lineNum)
	case AnnotationTypeBindingGroup:
		return parseGroup(fields[1:], lineNum)
	}
	return nil, annotationError(lineNum, "unknown @oxy directive %q", fields[0])
}

func parseInclude(args []string, lineNum int) (*Annotation, error) {
	if len(args) != 1 {
		return nil, annotationError(lineNum, "include takes one struct name, got %d arguments", len(args))
	}
	structType := AnnotationArg(args[0])
	if !slices.Contains(validStructTypes, structType) {
		return nil, annotationError(lineNum, "include of unregistered struct %q", args[0])
	}
	return &Annotation{Type: annotationTypeInclude, Args: []AnnotationArg{structType}, Line: lineNum}, nil
}

func parseGroup(args []string, lineNum int) (*Annotation, error) {
	if len(args) != 5 {
		return nil, annotationError(lineNum, "group wants <group> <binding> <address_space> <var_name> <struct_type>, got %d arguments", len(args))
	}

	slots := make([]int, 2)
	for i, name := range []string{"group", "binding"} {
		n, err := strconv.Atoi(args[i])
		if err != nil || n < 0 {
			return nil, annotationError(lineNum, "%s index %q is not a non-negative integer", name, args[i])
		}
		slots[i] = n
	}

	space, varName, structType := AnnotationArg(args[2]), AnnotationArg(args[3]), AnnotationArg(args[4])
	if !slices.Contains(validAddressSpaces, space) {
		return nil, annotationError(lineNum, "address space %q is not supported", args[2])
	}
	if !slices.Contains(validStructTypes, structType) {
		return nil, annotationError(lineNum, "group binds unregistered struct %q", args[4])
	}

	return &Annotation{
		Type:    AnnotationTypeBindingGroup,
		Args:    []AnnotationArg{space, varName, structType},
		Line:    lineNum,
		Group:   &slots[0],
		Binding: &slots[1],
	}, nil
}
