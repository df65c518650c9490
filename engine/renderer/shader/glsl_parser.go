package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Qualifier is the storage qualifier of a global GLSL declaration.
type Qualifier string

const (
	QualifierIn      Qualifier = "in"
	QualifierOut     Qualifier = "out"
	QualifierUniform Qualifier = "uniform"
)

var (
	// ErrUndeclared reports a required variable missing from a unit's source.
	ErrUndeclared = errors.New("shader: variable not declared")

	// ErrTypeMismatch reports a required variable declared with a different qualifier or GLSL type.
	ErrTypeMismatch = errors.New("shader: variable declared with a different type")
)

// Declaration is one global in, out or uniform variable parsed from GLSL source.
type Declaration struct {
	Qualifier Qualifier
	// Type is the GLSL type name, e.g. "vec4" or "sampler2D".
	Type string
	Name string
	// Line is the 1-based source line.
	Line int
}

// Requirement is a variable that a compiled unit is expected to declare. Shading-side variable descriptors
// implement it so a shader's Go-side bundle can be checked against its source.
type Requirement interface {
	Name() string
	Qualifier() Qualifier
	GLSLType() string
}

// declarationPattern matches a global declaration with optional layout and precision/interpolation qualifiers.
// Group 1 is the storage qualifier, group 2 the type and group 3 the declarator list.
var declarationPattern = regexp.MustCompile(
	`^\s*(?:layout\s*\([^)]*\)\s*)?(?:(?:flat|smooth|noperspective|centroid)\s+)*(in|out|uniform)\s+(?:(?:highp|mediump|lowp)\s+)?(\w+)\s+([^;{]+);`,
)

var arraySuffix = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)

// ParseDeclarations extracts the global in, out and uniform declarations of a GLSL source, in source order.
// Comments are ignored. Interface blocks are not reported.
//
// Parameters:
//   - source: GLSL source text
//
// Returns:
//   - []Declaration: one entry per declared name
func ParseDeclarations(source string) []Declaration {
	var decls []Declaration
	inBlockComment := false
	for i, line := range strings.Split(source, "\n") {
		line, inBlockComment = stripComments(line, inBlockComment)
		m := declarationPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, declarator := range strings.Split(m[3], ",") {
			name := strings.TrimSpace(arraySuffix.ReplaceAllString(declarator, ""))
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name = strings.TrimSpace(name[:eq])
			}
			if name == "" {
				continue
			}
			decls = append(decls, Declaration{
				Qualifier: Qualifier(m[1]),
				Type:      m[2],
				Name:      name,
				Line:      i + 1,
			})
		}
	}
	return decls
}

// stripComments removes // and /* */ comments from a line, tracking block comments across lines.
func stripComments(line string, inBlock bool) (string, bool) {
	var b strings.Builder
	for len(line) > 0 {
		if inBlock {
			end := strings.Index(line, "*/")
			if end < 0 {
				return b.String(), true
			}
			line = line[end+2:]
			inBlock = false
			continue
		}
		lineComment := strings.Index(line, "//")
		blockComment := strings.Index(line, "/*")
		switch {
		case lineComment >= 0 && (blockComment < 0 || lineComment < blockComment):
			b.WriteString(line[:lineComment])
			return b.String(), false
		case blockComment >= 0:
			b.WriteString(line[:blockComment])
			line = line[blockComment+2:]
			inBlock = true
		default:
			b.WriteString(line)
			line = ""
		}
	}
	return b.String(), inBlock
}

// CheckDeclared verifies that a unit declares every requirement with the expected qualifier and GLSL type.
// All problems are reported, joined.
//
// Parameters:
//   - u: the compiled unit
//   - reqs: the variables the unit must declare
//
// Returns:
//   - error: nil, or ErrUndeclared / ErrTypeMismatch wrapped with the variable name
func CheckDeclared(u Unit, reqs ...Requirement) error {
	var errs []error
	for _, r := range reqs {
		d, ok := u.Declaration(r.Name())
		if !ok {
			errs = append(errs, fmt.Errorf("%s %s %s: %w", r.Qualifier(), r.GLSLType(), r.Name(), ErrUndeclared))
			continue
		}
		if d.Qualifier != r.Qualifier() || d.Type != r.GLSLType() {
			errs = append(errs, fmt.Errorf("%s: expected %s %s, found %s %s on line %d: %w",
				r.Name(), r.Qualifier(), r.GLSLType(), d.Qualifier, d.Type, d.Line, ErrTypeMismatch))
		}
	}
	return errors.Join(errs...)
}
