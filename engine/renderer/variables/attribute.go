package variables

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// Attribute is a per-vertex input. In the shading role it carries the GLSL input name; in the layout role it
// carries the stride and byte offset of the data in an interleaved vertex buffer and, once connected, the
// resolved input location.
type Attribute struct {
	shape  Shape
	name   string
	stride int32
	offset uintptr
	index  int32
}

var _ Descriptor = &Attribute{}

// NewShadingAttribute creates the shader-side half of an attribute pair.
// Panics if name is empty, since a shading attribute without a name can never be resolved.
//
// Parameters:
//   - shape: the attribute's structural type
//   - name: the vertex input name as declared in the shader
//
// Returns:
//   - *Attribute: the shading attribute
func NewShadingAttribute(shape Shape, name string) *Attribute {
	if name == "" {
		panic("variables: shading attribute requires a name")
	}
	return &Attribute{shape: shape, name: name, index: -1}
}

// NewLayoutAttribute creates the drawable-side half of an attribute pair.
//
// Parameters:
//   - shape: the attribute's structural type
//   - stride: byte distance between consecutive vertices
//   - offset: byte offset of the attribute inside a vertex
//
// Returns:
//   - *Attribute: the layout attribute, with Index -1 until connected
func NewLayoutAttribute(shape Shape, stride int32, offset uintptr) *Attribute {
	return &Attribute{shape: shape, stride: stride, offset: offset, index: -1}
}

// Attribute4f creates a shading vec4 float attribute.
func Attribute4f(name string) *Attribute { return NewShadingAttribute(ShapeVec4f, name) }

// Attribute4fAt creates a layout vec4 float attribute.
func Attribute4fAt(stride int32, offset uintptr) *Attribute {
	return NewLayoutAttribute(ShapeVec4f, stride, offset)
}

// Attribute3f creates a shading vec3 float attribute.
func Attribute3f(name string) *Attribute { return NewShadingAttribute(ShapeVec3f, name) }

// Attribute3fAt creates a layout vec3 float attribute.
func Attribute3fAt(stride int32, offset uintptr) *Attribute {
	return NewLayoutAttribute(ShapeVec3f, stride, offset)
}

// Attribute2us creates a shading attribute fed by two normalized unsigned shorts (read as vec2).
func Attribute2us(name string) *Attribute { return NewShadingAttribute(ShapeVec2usNorm, name) }

// Attribute2usAt creates a layout attribute of two normalized unsigned shorts.
func Attribute2usAt(stride int32, offset uintptr) *Attribute {
	return NewLayoutAttribute(ShapeVec2usNorm, stride, offset)
}

func (a *Attribute) Name() string                { return a.name }
func (a *Attribute) Shape() Shape                { return a.shape }
func (a *Attribute) Kind() Kind                  { return KindAttribute }
func (a *Attribute) Qualifier() shader.Qualifier { return shader.QualifierIn }
func (a *Attribute) GLSLType() string            { return a.shape.GLSLType }
func (a *Attribute) Stride() int32               { return a.stride }
func (a *Attribute) Offset() uintptr             { return a.offset }

// Index returns the resolved input location, or -1 if the attribute has not been connected.
func (a *Attribute) Index() int32 {
	return a.index
}

// IsShading reports whether the attribute is in the shading role.
func (a *Attribute) IsShading() bool {
	return a.name != ""
}

// Connect pairs this attribute with its counterpart. Exactly one of the two must be in the shading role and
// both must have the same shape. The name is resolved in the linked program and the layout is recorded in the
// currently bound vertex array, reading from the currently bound vertex buffer. An unresolvable name is a hard
// failure.
//
// Parameters:
//   - ctx: the GPU context, with the target vertex array and vertex buffer bound
//   - other: the counterpart attribute
//   - program: the linked program handle
//
// Returns:
//   - error: nil, or a *BindingError wrapping one of the binding sentinels
func (a *Attribute) Connect(ctx gpu.Context, other *Attribute, program uint32) error {
	var shading, layout *Attribute
	switch {
	case a.IsShading() && other.IsShading():
		return bindingFailure(KindAttribute, a.name, fmt.Errorf("%w (other is %q)", ErrBothShading, other.name))
	case !a.IsShading() && !other.IsShading():
		return bindingFailure(KindAttribute, "", ErrBothLayout)
	case a.IsShading():
		shading, layout = a, other
	default:
		shading, layout = other, a
	}

	if shading.shape.Components != layout.shape.Components {
		return bindingFailure(KindAttribute, shading.name, ErrComponentMismatch,
			"shading", shading.shape.Components, "layout", layout.shape.Components)
	}
	if shading.shape.Scalar != layout.shape.Scalar {
		return bindingFailure(KindAttribute, shading.name, ErrScalarMismatch,
			"shading", shading.shape.GLSLType, "layout", layout.shape.GLSLType)
	}

	location := ctx.AttribLocation(program, shading.name)
	if location < 0 {
		return bindingFailure(KindAttribute, shading.name, ErrLocationNotFound, "program", program)
	}

	index := uint32(location)
	ctx.EnableVertexAttribArray(index)
	ctx.VertexAttribPointer(index, layout.shape.Components, layout.shape.Scalar, layout.shape.Normalized, layout.stride, layout.offset)
	layout.index = location
	return nil
}
