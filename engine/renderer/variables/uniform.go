package variables

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformValue lists the value types a uniform can carry.
type UniformValue interface {
	float32 | mgl32.Vec3 | mgl32.Mat3 | mgl32.Mat4
}

// Uniform is a per-draw shader input holding a value of type T. In the shading role it carries the GLSL uniform
// name; in the layout role it holds the value a drawable uploads and, once connected, the resolved location.
// A shading uniform may also be connected to itself, which makes it its own holder.
type Uniform[T UniformValue] struct {
	// Value is uploaded by Draw.
	Value T

	name     string
	location int32
}

// NewUniform creates a uniform. An empty name creates the layout (value holder) role.
//
// Parameters:
//   - name: the uniform name as declared in the shader, or "" for a value holder
//
// Returns:
//   - *Uniform[T]: the uniform, with Location -1 until connected
func NewUniform[T UniformValue](name string) *Uniform[T] {
	return &Uniform[T]{name: name, location: -1}
}

func (u *Uniform[T]) Name() string                { return u.name }
func (u *Uniform[T]) Kind() Kind                  { return KindUniform }
func (u *Uniform[T]) Qualifier() shader.Qualifier { return shader.QualifierUniform }
func (u *Uniform[T]) GLSLType() string            { return u.Shape().GLSLType }

// Shape returns the structural type implied by T.
func (u *Uniform[T]) Shape() Shape {
	switch any(u.Value).(type) {
	case mgl32.Vec3:
		return ShapeVec3f
	case mgl32.Mat3:
		return ShapeMat3f
	case mgl32.Mat4:
		return ShapeMat4f
	}
	return ShapeFloat
}

// Location returns the resolved uniform location, or -1 if the uniform has not been connected.
func (u *Uniform[T]) Location() int32 {
	return u.location
}

// IsShading reports whether the uniform is in the shading role.
func (u *Uniform[T]) IsShading() bool {
	return u.name != ""
}

// Connect resolves the shading side's name in the linked program and records the location on the layout side.
// Exactly one side must be named, unless the uniform is connected to itself. Shapes always agree because both
// sides share T. No value is uploaded.
//
// Parameters:
//   - ctx: the GPU context
//   - other: the counterpart uniform, or u itself
//   - program: the linked program handle
//
// Returns:
//   - error: nil, or a *BindingError wrapping one of the binding sentinels
func (u *Uniform[T]) Connect(ctx gpu.Context, other *Uniform[T], program uint32) error {
	var shading, holder *Uniform[T]
	switch {
	case u == other && u.IsShading():
		shading, holder = u, u
	case u.IsShading() && other.IsShading():
		return bindingFailure(KindUniform, u.name, fmt.Errorf("%w (other is %q)", ErrBothShading, other.name))
	case !u.IsShading() && !other.IsShading():
		return bindingFailure(KindUniform, "", ErrBothLayout)
	case u.IsShading():
		shading, holder = u, other
	default:
		shading, holder = other, u
	}

	location := ctx.UniformLocation(program, shading.name)
	if location < 0 {
		return bindingFailure(KindUniform, shading.name, ErrLocationNotFound, "program", program)
	}
	holder.location = location
	return nil
}

// Draw uploads Value to the connected location of the program in use. An unconnected uniform logs a warning
// and uploads nothing.
//
// Parameters:
//   - ctx: the GPU context, with the program in use
func (u *Uniform[T]) Draw(ctx gpu.Context) {
	if u.location < 0 {
		common.Logger().Warn("skipping upload of unconnected uniform", "name", u.name, "type", u.GLSLType())
		return
	}
	switch v := any(u.Value).(type) {
	case float32:
		ctx.Uniform1f(u.location, v)
	case mgl32.Vec3:
		ctx.Uniform3f(u.location, v)
	case mgl32.Mat3:
		ctx.UniformMatrix3fv(u.location, v)
	case mgl32.Mat4:
		ctx.UniformMatrix4fv(u.location, v)
	}
}
