package variables_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ptVertexSource = `uniform mat4 modelViewProjMatrix;
in vec4 in_position;
in vec2 in_texCoord;
out vec2 vs_texCoord;
void main()
{
    gl_Position = modelViewProjMatrix * in_position;
    vs_texCoord = in_texCoord;
}
`

const pntVertexSource = `uniform mat4 modelViewProjMatrix;
uniform mat3 normalMatrix;
in vec4 in_position;
in vec3 in_normal;
in vec2 in_texCoord;
out vec3 vs_normal;
out vec2 vs_texCoord;
void main()
{
    gl_Position = modelViewProjMatrix * in_position;
    vs_normal = normalize(normalMatrix * in_normal);
    vs_texCoord = in_texCoord;
}
`

const fragmentSource = `uniform sampler2D tex;
uniform float strength;
in highp vec2 vs_texCoord;
out highp vec4 fs_color;
void main()
{
    fs_color = texture(tex, vs_texCoord) * strength;
}
`

// linkedProgram compiles and links a program in the fake context and leaves a vertex array bound.
func linkedProgram(t *testing.T, ctx *gputest.Context, vertexSource string) (shader.Unit, uint32) {
	t.Helper()
	vs, err := shader.Compile(ctx, shader.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)
	fs, err := shader.Compile(ctx, shader.ShaderTypeFragment, fragmentSource)
	require.NoError(t, err)

	program := ctx.CreateProgram()
	ctx.AttachShader(program, vs.ID())
	ctx.AttachShader(program, fs.ID())
	ctx.LinkProgram(program)
	require.True(t, ctx.ProgramLinked(program))

	ctx.BindVertexArray(ctx.GenVertexArray())
	ctx.BindBuffer(gpu.ARRAY_BUFFER, ctx.GenBuffer())
	return vs, program
}

func TestAttributeConnect(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	shading := variables.Attribute2us("in_texCoord")
	layout := variables.Attribute2usAt(20, 16)
	require.NoError(t, shading.Connect(ctx, layout, program))

	assert.Equal(t, int32(1), layout.Index())
	assert.Equal(t, int32(-1), shading.Index())

	va := ctx.VertexArrays[ctx.BoundVertexArray]
	assert.True(t, va.Enabled[1])
	assert.Equal(t, gputest.AttribPointer{
		Buffer:     ctx.BoundArrayBuffer,
		Size:       2,
		Type:       gpu.UNSIGNED_SHORT,
		Normalized: true,
		Stride:     20,
		Offset:     16,
	}, va.Pointers[1])
}

func TestAttributeConnectEitherOrder(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	layout := variables.Attribute4fAt(20, 0)
	require.NoError(t, layout.Connect(ctx, variables.Attribute4f("in_position"), program))
	assert.Equal(t, int32(0), layout.Index())
}

func TestAttributeConnectFailures(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	tests := []struct {
		name      string
		a, b      *variables.Attribute
		want      error
		checkName string
	}{
		{"both shading", variables.Attribute4f("in_position"), variables.Attribute4f("in_position"), variables.ErrBothShading, "in_position"},
		{"both layout", variables.Attribute4fAt(20, 0), variables.Attribute4fAt(20, 0), variables.ErrBothLayout, ""},
		{"component mismatch", variables.Attribute3f("in_position"), variables.Attribute4fAt(20, 0), variables.ErrComponentMismatch, "in_position"},
		{
			"scalar mismatch",
			variables.Attribute2us("in_texCoord"),
			variables.NewLayoutAttribute(variables.Shape{Components: 2, Scalar: gpu.FLOAT, GLSLType: "vec2"}, 24, 16),
			variables.ErrScalarMismatch,
			"in_texCoord",
		},
		{"typo", variables.Attribute4f("in_positon"), variables.Attribute4fAt(20, 0), variables.ErrLocationNotFound, "in_positon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ctx.Count("VertexAttribPointer")
			err := tt.a.Connect(ctx, tt.b, program)
			require.ErrorIs(t, err, tt.want)

			var bindingErr *variables.BindingError
			require.ErrorAs(t, err, &bindingErr)
			assert.Equal(t, variables.KindAttribute, bindingErr.Kind)
			assert.Equal(t, tt.checkName, bindingErr.Name)

			assert.Equal(t, int32(-1), tt.a.Index())
			assert.Equal(t, int32(-1), tt.b.Index())
			assert.Equal(t, before, ctx.Count("VertexAttribPointer"))
		})
	}
}

func TestShadingAttributeRequiresName(t *testing.T) {
	assert.Panics(t, func() { variables.Attribute4f("") })
}

func TestUniformConnect(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	shading := variables.NewUniform[mgl32.Mat4]("modelViewProjMatrix")
	holder := variables.NewUniform[mgl32.Mat4]("")
	require.NoError(t, holder.Connect(ctx, shading, program))

	assert.GreaterOrEqual(t, holder.Location(), int32(0))
	assert.Equal(t, int32(-1), shading.Location())
	assert.Zero(t, ctx.Count("UniformMatrix4fv"))
}

func TestUniformSelfConnect(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	strength := variables.NewUniform[float32]("strength")
	require.NoError(t, strength.Connect(ctx, strength, program))
	assert.GreaterOrEqual(t, strength.Location(), int32(0))
}

func TestUniformConnectFailures(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	a, b := variables.NewUniform[float32]("strength"), variables.NewUniform[float32]("strength")
	assert.ErrorIs(t, a.Connect(ctx, b, program), variables.ErrBothShading)

	c, d := variables.NewUniform[float32](""), variables.NewUniform[float32]("")
	assert.ErrorIs(t, c.Connect(ctx, d, program), variables.ErrBothLayout)

	e := variables.NewUniform[float32]("")
	assert.ErrorIs(t, e.Connect(ctx, variables.NewUniform[float32]("strenght"), program), variables.ErrLocationNotFound)
	assert.Equal(t, int32(-1), e.Location())
}

func TestUniformDraw(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)
	ctx.UseProgram(program)

	holder := variables.NewUniform[float32]("")
	holder.Value = 0.25
	holder.Draw(ctx)
	assert.Zero(t, ctx.Count("Uniform1f"), "unconnected uniform must not upload")

	require.NoError(t, holder.Connect(ctx, variables.NewUniform[float32]("strength"), program))
	holder.Draw(ctx)
	assert.Equal(t, float32(0.25), ctx.UniformValue(program, holder.Location()))

	vec := variables.NewUniform[mgl32.Vec3]("")
	vec.Value = mgl32.Vec3{1, 2, 3}
	require.NoError(t, vec.Connect(ctx, variables.NewUniform[mgl32.Vec3]("modelViewProjMatrix"), program))
	vec.Draw(ctx)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, ctx.UniformValue(program, vec.Location()))
}

func TestUniformShape(t *testing.T) {
	assert.Equal(t, variables.ShapeFloat, variables.NewUniform[float32]("").Shape())
	assert.Equal(t, variables.ShapeVec3f, variables.NewUniform[mgl32.Vec3]("").Shape())
	assert.Equal(t, "mat3", variables.NewUniform[mgl32.Mat3]("").GLSLType())
	assert.Equal(t, "mat4", variables.NewUniform[mgl32.Mat4]("").GLSLType())
}

func TestLayouts(t *testing.T) {
	pt := variables.PTForDrawable()
	assert.Equal(t, int32(20), pt.Position.Stride())
	assert.Equal(t, uintptr(0), pt.Position.Offset())
	assert.Equal(t, uintptr(16), pt.Texture.Offset())
	assert.Equal(t, mgl32.Ident4(), pt.ModelViewProjMat.Value)

	pnt := variables.PNTForDrawable()
	assert.Equal(t, int32(32), pnt.Normal.Stride())
	assert.Equal(t, uintptr(16), pnt.Normal.Offset())
	assert.Equal(t, uintptr(28), pnt.Texture.Offset())
	assert.Equal(t, mgl32.Ident3(), pnt.NormalMat.Value)
}

func TestSetConnect(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, pntVertexSource)

	shading := variables.PNTForShading("in_position", "in_normal", "in_texCoord", "modelViewProjMatrix", "normalMatrix")
	drawable := variables.PNTForDrawable()
	require.NoError(t, drawable.Connect(ctx, shading, program))

	assert.Equal(t, int32(0), drawable.Position.Index())
	assert.Equal(t, int32(1), drawable.Normal.Index())
	assert.Equal(t, int32(2), drawable.Texture.Index())
	assert.GreaterOrEqual(t, drawable.ModelViewProjMat.Location(), int32(0))
	assert.GreaterOrEqual(t, drawable.NormalMat.Location(), int32(0))

	ctx.UseProgram(program)
	drawable.Draw(ctx)
	assert.Equal(t, 1, ctx.Count("UniformMatrix4fv"))
	assert.Equal(t, 1, ctx.Count("UniformMatrix3fv"))
}

func TestSetConnectStopsAtFirstFailure(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	shading := variables.PTForShading("in_position", "in_texcoord", "modelViewProjMatrix")
	drawable := variables.PTForDrawable()
	err := drawable.Connect(ctx, shading, program)
	require.ErrorIs(t, err, variables.ErrLocationNotFound)

	assert.Equal(t, int32(0), drawable.Position.Index())
	assert.Equal(t, int32(-1), drawable.Texture.Index())
	assert.Equal(t, int32(-1), drawable.ModelViewProjMat.Location())
}

func TestSetConnectMismatch(t *testing.T) {
	ctx := gputest.New()
	_, program := linkedProgram(t, ctx, ptVertexSource)

	err := variables.PTForDrawable().Connect(ctx, variables.PNTForShading("a", "b", "c", "d", "e"), program)
	assert.ErrorIs(t, err, variables.ErrSetMismatch)
	assert.Zero(t, ctx.Count("AttribLocation"))
	assert.Zero(t, ctx.Count("UniformLocation"))
}

func TestCheckDeclared(t *testing.T) {
	ctx := gputest.New()
	vs, _ := linkedProgram(t, ctx, ptVertexSource)

	assert.NoError(t, variables.CheckDeclared(vs, variables.PTForShading("in_position", "in_texCoord", "modelViewProjMatrix")))
	assert.NoError(t, variables.CheckDeclared(vs, variables.PTForDrawable()))

	err := variables.CheckDeclared(vs, variables.PTForShading("in_position", "in_tex", "modelViewProjMatrix"))
	assert.ErrorIs(t, err, shader.ErrUndeclared)
}
