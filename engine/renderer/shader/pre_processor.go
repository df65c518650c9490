// pre_processor.go implements the Oxy GLSL shader pre-processor. It scans shader source code for @oxy:
// annotations, replaces include annotations with registered chunk source, and makes sure the result starts with
// a #version directive.
package shader

import (
	_ "embed"
	"fmt"
	"strings"
)

// DefaultVersion is the GLSL version injected into sources that do not declare one.
const DefaultVersion = "410 core"

//go:embed chunks/sh_old_town_square.glsl
var shOldTownSquareSource string

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// version is the text following #version in the injected directive. Empty disables injection.
	version string

	// chunkRegistry maps include argument keys to GLSL source text.
	chunkRegistry map[AnnotationArg]string

	// includes accumulates the chunk keys expanded during the last Process call.
	includes []AnnotationArg
}

// PreProcessor processes raw GLSL shader source containing @oxy: annotations.
type PreProcessor interface {
	// Process expands include annotations and injects the configured #version directive when the source does
	// not start with one.
	//
	// Parameters:
	//   - source: the raw GLSL shader source
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error if an annotation is malformed or names an unknown chunk
	Process(source string) (string, error)

	// RegisterChunk adds or replaces an include chunk.
	//
	// Parameters:
	//   - key: the include argument that selects the chunk
	//   - source: the GLSL text injected in place of the annotation
	RegisterChunk(key AnnotationArg, source string)

	// Includes returns the chunk keys expanded by the most recent Process call, in source order.
	Includes() []AnnotationArg
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the built-in chunks registered.
//
// Parameters:
//   - version: the #version text to inject, e.g. "410 core" or "300 es"; empty disables injection
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(version string) PreProcessor {
	return &preProcessor{
		version: version,
		chunkRegistry: map[AnnotationArg]string{
			AnnotationArgSHOldTownSquare: shOldTownSquareSource,
		},
	}
}

func (p *preProcessor) RegisterChunk(key AnnotationArg, source string) {
	p.chunkRegistry[key] = source
}

func (p *preProcessor) Includes() []AnnotationArg {
	return p.includes
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines)+1)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			chunk, ok := p.chunkRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, a.Args[0])
			}
			out = append(out, strings.TrimRight(chunk, "\n"))
			p.includes = append(p.includes, a.Args[0])
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}

	if p.version != "" && !hasVersionDirective(lines) {
		out = append([]string{"#version " + p.version}, out...)
	}
	return strings.Join(out, "\n"), nil
}

// hasVersionDirective reports whether the first non-blank line is a #version directive.
func hasVersionDirective(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return strings.HasPrefix(trimmed, "#version")
	}
	return false
}
