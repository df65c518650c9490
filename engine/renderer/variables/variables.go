// Package variables implements the typed bridge between a shader's declared inputs and the data a drawable
// supplies for them. A variable exists in one of two roles: the shading role names a GLSL variable, the layout
// role describes where the data lives. Connecting one of each proves they agree in shape and resolves the
// GPU location that ties them together.
package variables

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// Kind distinguishes per-vertex attributes from per-draw uniforms.
type Kind int

const (
	KindAttribute Kind = iota
	KindUniform
)

func (k Kind) String() string {
	if k == KindUniform {
		return "uniform"
	}
	return "attribute"
}

// Shape is the structural type of a variable: how many scalar components it has and of which type.
type Shape struct {
	// Components is the number of scalars per element (16 for a 4x4 matrix).
	Components int32
	// Scalar is the GPU scalar type of each component.
	Scalar gpu.Enum
	// Normalized maps integer components onto [0, 1] when read by a shader.
	Normalized bool
	// GLSLType is the type the shader declares for a variable of this shape.
	GLSLType string
}

var (
	ShapeVec4f      = Shape{Components: 4, Scalar: gpu.FLOAT, GLSLType: "vec4"}
	ShapeVec3f      = Shape{Components: 3, Scalar: gpu.FLOAT, GLSLType: "vec3"}
	ShapeVec2usNorm = Shape{Components: 2, Scalar: gpu.UNSIGNED_SHORT, Normalized: true, GLSLType: "vec2"}
	ShapeMat4f      = Shape{Components: 16, Scalar: gpu.FLOAT, GLSLType: "mat4"}
	ShapeMat3f      = Shape{Components: 9, Scalar: gpu.FLOAT, GLSLType: "mat3"}
	ShapeFloat      = Shape{Components: 1, Scalar: gpu.FLOAT, GLSLType: "float"}
)

var (
	// ErrBothShading reports a connect between two variables that both name a shader variable.
	ErrBothShading = errors.New("variables: both sides are shading variables")

	// ErrBothLayout reports a connect between two variables that both describe data layout.
	ErrBothLayout = errors.New("variables: both sides are layout variables")

	// ErrComponentMismatch reports sides with different component counts.
	ErrComponentMismatch = errors.New("variables: component counts differ")

	// ErrScalarMismatch reports sides with different scalar types.
	ErrScalarMismatch = errors.New("variables: scalar types differ")

	// ErrLocationNotFound reports a name the linked program does not expose. Usually a typo.
	ErrLocationNotFound = errors.New("variables: name not found in linked program")

	// ErrSetMismatch reports a connect between sets of different concrete types.
	ErrSetMismatch = errors.New("variables: variable sets are of different types")
)

// BindingError describes a failed connect of one variable pair.
type BindingError struct {
	Kind Kind
	// Name is the shading-side variable name, or empty if neither side had one.
	Name string
	Err  error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("variables: %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// bindingFailure logs and builds a BindingError. Every binding failure goes through here so it always leaves a
// diagnostic.
func bindingFailure(kind Kind, name string, err error, attrs ...any) error {
	args := append([]any{"kind", kind.String(), "name", name, "err", err}, attrs...)
	common.Logger().Error("variable binding failed", args...)
	return &BindingError{Kind: kind, Name: name, Err: err}
}

// Descriptor is the read-only view of a variable used for declaration checks.
type Descriptor interface {
	shader.Requirement
	Shape() Shape
	Kind() Kind
}

// Set is a closed bundle of variables describing everything one shader needs per draw. A set is built either
// for shading (names) or for a drawable (layout). Sets are only compatible with sets of the same concrete type.
type Set interface {
	// Connect pairs each member of this set with the corresponding member of other, in declaration order,
	// stopping at the first failure. Connecting sets of different concrete types fails with ErrSetMismatch
	// before any member is touched.
	//
	// Parameters:
	//   - ctx: the GPU context, with the target vertex array and vertex buffer bound
	//   - other: the counterpart set
	//   - program: the linked program handle used to resolve locations
	//
	// Returns:
	//   - error: nil, or the first *BindingError encountered
	Connect(ctx gpu.Context, other Set, program uint32) error

	// Draw uploads the current values of the set's uniforms. Attributes need no per-draw work.
	//
	// Parameters:
	//   - ctx: the GPU context, with the program in use
	Draw(ctx gpu.Context)

	// Descriptors lists the set's members in declaration order.
	Descriptors() []Descriptor
}

// SetMismatch logs and builds the error for a connect between incompatible sets. Set implementations outside
// this package return it from Connect so every mismatch is reported the same way.
//
// Parameters:
//   - a: the set Connect was called on
//   - b: the set it was asked to connect to
//
// Returns:
//   - error: an error wrapping ErrSetMismatch
func SetMismatch(a, b Set) error {
	err := fmt.Errorf("%w: %T and %T", ErrSetMismatch, a, b)
	common.Logger().Error("variable set binding failed", "err", err)
	return err
}

// CheckDeclared verifies that a compiled unit declares every named member of a shading set with the matching
// GLSL type. Members without a name (layout role) are skipped.
//
// Parameters:
//   - u: the compiled shader unit
//   - set: a set built for shading
//
// Returns:
//   - error: nil, or shader.ErrUndeclared / shader.ErrTypeMismatch for each offending member
func CheckDeclared(u shader.Unit, set Set) error {
	var reqs []shader.Requirement
	for _, d := range set.Descriptors() {
		if d.Name() != "" {
			reqs = append(reqs, d)
		}
	}
	return shader.CheckDeclared(u, reqs...)
}
