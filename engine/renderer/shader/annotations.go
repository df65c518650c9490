// annotations.go defines the annotation types and parser for the Oxy GLSL shader pre-processor. Annotations are
// single-line GLSL comments prefixed with @oxy: that pull shared source chunks into a shader before it is handed
// to the driver.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a GLSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a GLSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the GLSL source of a registered chunk into the shader at the annotation
	// site. The annotation is consumed entirely during pre-processing.
	//
	// Syntax: //@oxy:include <chunk>
	//
	// Example: //@oxy:include sh_old_town_square
	annotationTypeInclude AnnotationType = "include"
)

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

const (
	// AnnotationArgSHOldTownSquare identifies the spherical harmonics irradiance chunk.
	// Source: engine/renderer/shader/chunks/sh_old_town_square.glsl
	AnnotationArgSHOldTownSquare AnnotationArg = "sh_old_town_square"
)

// Annotation represents a single parsed @oxy: annotation from a GLSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. For include, [0] is the chunk key.
	Args []AnnotationArg

	// Line is the 1-based line number in the unprocessed source where this annotation was found.
	Line int
}

// parseAnnotation attempts to parse a single line of GLSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw GLSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	comment, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
