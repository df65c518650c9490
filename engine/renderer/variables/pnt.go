package variables

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PNTVertex is the interleaved vertex layout fed to PNT sets. 32 bytes, no padding.
type PNTVertex struct {
	Position [4]float32
	Normal   [3]float32
	Texture  [2]uint16
}

// PNT bundles the variables of shaders consuming positions ("P"), normals ("N") and texture coordinates ("T").
type PNT struct {
	Position         *Attribute
	Normal           *Attribute
	Texture          *Attribute
	ModelViewProjMat *Uniform[mgl32.Mat4]
	NormalMat        *Uniform[mgl32.Mat3]
}

var _ Set = &PNT{}

// PNTForShading builds the shader-side PNT set.
//
// Parameters:
//   - positionName: name of the vec4 position input
//   - normalName: name of the vec3 normal input
//   - textureName: name of the vec2 texture coordinate input
//   - modelViewProjMatName: name of the mat4 model-view-projection uniform
//   - normalMatName: name of the mat3 normal matrix uniform
//
// Returns:
//   - *PNT: the shading set
func PNTForShading(positionName, normalName, textureName, modelViewProjMatName, normalMatName string) *PNT {
	return &PNT{
		Position:         Attribute4f(positionName),
		Normal:           Attribute3f(normalName),
		Texture:          Attribute2us(textureName),
		ModelViewProjMat: NewUniform[mgl32.Mat4](modelViewProjMatName),
		NormalMat:        NewUniform[mgl32.Mat3](normalMatName),
	}
}

// PNTForDrawable builds the drawable-side PNT set matching the PNTVertex layout. Both matrices start as identity.
//
// Returns:
//   - *PNT: the layout set
func PNTForDrawable() *PNT {
	var v PNTVertex
	stride := int32(unsafe.Sizeof(v))
	pnt := &PNT{
		Position:         Attribute4fAt(stride, unsafe.Offsetof(v.Position)),
		Normal:           Attribute3fAt(stride, unsafe.Offsetof(v.Normal)),
		Texture:          Attribute2usAt(stride, unsafe.Offsetof(v.Texture)),
		ModelViewProjMat: NewUniform[mgl32.Mat4](""),
		NormalMat:        NewUniform[mgl32.Mat3](""),
	}
	pnt.ModelViewProjMat.Value = mgl32.Ident4()
	pnt.NormalMat.Value = mgl32.Ident3()
	return pnt
}

func (v *PNT) Connect(ctx gpu.Context, other Set, program uint32) error {
	o, ok := other.(*PNT)
	if !ok {
		return SetMismatch(v, other)
	}
	if err := v.Position.Connect(ctx, o.Position, program); err != nil {
		return err
	}
	if err := v.Normal.Connect(ctx, o.Normal, program); err != nil {
		return err
	}
	if err := v.Texture.Connect(ctx, o.Texture, program); err != nil {
		return err
	}
	if err := v.ModelViewProjMat.Connect(ctx, o.ModelViewProjMat, program); err != nil {
		return err
	}
	return v.NormalMat.Connect(ctx, o.NormalMat, program)
}

func (v *PNT) Draw(ctx gpu.Context) {
	v.ModelViewProjMat.Draw(ctx)
	v.NormalMat.Draw(ctx)
}

func (v *PNT) Descriptors() []Descriptor {
	return []Descriptor{v.Position, v.Normal, v.Texture, v.ModelViewProjMat, v.NormalMat}
}
