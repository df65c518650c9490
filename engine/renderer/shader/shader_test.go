package shader_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSource = `uniform mat4 modelViewProjMatrix;
in vec4 in_position;
in vec2 in_texCoord;
out vec2 vs_texCoord;
void main()
{
    gl_Position = modelViewProjMatrix * in_position;
    vs_texCoord = in_texCoord;
}
`

type requirement struct {
	name      string
	qualifier shader.Qualifier
	glslType  string
}

func (r requirement) Name() string                { return r.name }
func (r requirement) Qualifier() shader.Qualifier { return r.qualifier }
func (r requirement) GLSLType() string            { return r.glslType }

func TestCompile(t *testing.T) {
	ctx := gputest.New()

	u, err := shader.Compile(ctx, shader.ShaderTypeVertex, vertexSource, shader.WithLabel("basic"))
	require.NoError(t, err)
	assert.NotZero(t, u.ID())
	assert.Equal(t, shader.ShaderTypeVertex, u.ShaderType())
	assert.Equal(t, "basic", u.Label())
	assert.True(t, strings.HasPrefix(u.Source(), "#version 410 core\n"))
	assert.Len(t, u.Declarations(), 4)

	d, ok := u.Declaration("in_texCoord")
	require.True(t, ok)
	assert.Equal(t, "vec2", d.Type)

	_, ok = u.Declaration("missing")
	assert.False(t, ok)

	id := u.ID()
	u.Delete(ctx)
	assert.Zero(t, u.ID())
	assert.True(t, ctx.IsDeleted(gputest.ObjectShader, id))
}

func TestCompileWithVersion(t *testing.T) {
	ctx := gputest.New()
	u, err := shader.Compile(ctx, shader.ShaderTypeFragment, "void main() {}", shader.WithVersion("300 es"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Source(), "#version 300 es\n"))
}

func TestCompileFailure(t *testing.T) {
	ctx := gputest.New()

	u, err := shader.Compile(ctx, shader.ShaderTypeFragment, "#error broken on purpose\nvoid main() {}")
	assert.Nil(t, u)
	require.ErrorIs(t, err, shader.ErrCompile)

	var compileErr *shader.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, shader.ShaderTypeFragment, compileErr.ShaderType)
	assert.Contains(t, compileErr.Log, "broken on purpose")
	assert.True(t, ctx.IsDeleted(gputest.ObjectShader, 1))
}

func TestCompileAllocationFailure(t *testing.T) {
	ctx := gputest.New()
	ctx.FailAllocation(gputest.ObjectShader, 0)

	u, err := shader.Compile(ctx, shader.ShaderTypeVertex, vertexSource)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, gpu.ErrAllocation)
	assert.Zero(t, ctx.Count("CompileShader"))
}

func TestCompilePreProcessError(t *testing.T) {
	ctx := gputest.New()
	_, err := shader.Compile(ctx, shader.ShaderTypeVertex, "//@oxy:include unknown\n"+vertexSource)
	assert.Error(t, err)
	assert.Zero(t, ctx.Count("CreateShader"))
}

func TestCompileWithChunk(t *testing.T) {
	ctx := gputest.New()
	u, err := shader.Compile(ctx, shader.ShaderTypeFragment,
		"//@oxy:include tint\nvoid main() {}",
		shader.WithChunk("tint", "uniform vec3 tint;"))
	require.NoError(t, err)

	d, ok := u.Declaration("tint")
	require.True(t, ok)
	assert.Equal(t, shader.QualifierUniform, d.Qualifier)
}

func TestCheckDeclared(t *testing.T) {
	ctx := gputest.New()
	u, err := shader.Compile(ctx, shader.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)

	assert.NoError(t, shader.CheckDeclared(u,
		requirement{"in_position", shader.QualifierIn, "vec4"},
		requirement{"modelViewProjMatrix", shader.QualifierUniform, "mat4"},
	))

	err = shader.CheckDeclared(u,
		requirement{"in_normal", shader.QualifierIn, "vec3"},
		requirement{"in_texCoord", shader.QualifierIn, "vec3"},
	)
	assert.ErrorIs(t, err, shader.ErrUndeclared)
	assert.ErrorIs(t, err, shader.ErrTypeMismatch)
}
