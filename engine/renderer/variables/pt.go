package variables

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PTVertex is the interleaved vertex layout fed to PT sets: a homogeneous position followed by texture
// coordinates stored as normalized unsigned shorts. 20 bytes, no padding.
type PTVertex struct {
	Position [4]float32
	Texture  [2]uint16
}

// PT bundles the variables of shaders consuming positions ("P") and texture coordinates ("T").
type PT struct {
	Position         *Attribute
	Texture          *Attribute
	ModelViewProjMat *Uniform[mgl32.Mat4]
}

var _ Set = &PT{}

// PTForShading builds the shader-side PT set.
//
// Parameters:
//   - positionName: name of the vec4 position input
//   - textureName: name of the vec2 texture coordinate input
//   - modelViewProjMatName: name of the mat4 model-view-projection uniform
//
// Returns:
//   - *PT: the shading set
func PTForShading(positionName, textureName, modelViewProjMatName string) *PT {
	return &PT{
		Position:         Attribute4f(positionName),
		Texture:          Attribute2us(textureName),
		ModelViewProjMat: NewUniform[mgl32.Mat4](modelViewProjMatName),
	}
}

// PTForDrawable builds the drawable-side PT set matching the PTVertex layout. The matrix starts as identity.
//
// Returns:
//   - *PT: the layout set
func PTForDrawable() *PT {
	var v PTVertex
	stride := int32(unsafe.Sizeof(v))
	pt := &PT{
		Position:         Attribute4fAt(stride, unsafe.Offsetof(v.Position)),
		Texture:          Attribute2usAt(stride, unsafe.Offsetof(v.Texture)),
		ModelViewProjMat: NewUniform[mgl32.Mat4](""),
	}
	pt.ModelViewProjMat.Value = mgl32.Ident4()
	return pt
}

func (v *PT) Connect(ctx gpu.Context, other Set, program uint32) error {
	o, ok := other.(*PT)
	if !ok {
		return SetMismatch(v, other)
	}
	if err := v.Position.Connect(ctx, o.Position, program); err != nil {
		return err
	}
	if err := v.Texture.Connect(ctx, o.Texture, program); err != nil {
		return err
	}
	return v.ModelViewProjMat.Connect(ctx, o.ModelViewProjMat, program)
}

func (v *PT) Draw(ctx gpu.Context) {
	v.ModelViewProjMat.Draw(ctx)
}

func (v *PT) Descriptors() []Descriptor {
	return []Descriptor{v.Position, v.Texture, v.ModelViewProjMat}
}
