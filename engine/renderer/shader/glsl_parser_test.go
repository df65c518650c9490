package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclarations(t *testing.T) {
	src := strings.Join([]string{
		"#version 410 core",
		"uniform mat4 modelViewProjMatrix;",
		"uniform highp vec3 ambient, lightColor;",
		"layout(location = 0) in vec4 in_position;",
		"// in vec3 commented_out;",
		"/* uniform float hidden;",
		"   still hidden */ uniform float shininess;",
		"flat out highp vec2 vs_texCoord;",
		"const highp float C1 = 0.429043;",
		"uniform float weights[4];",
		"void main() {}",
	}, "\n")

	decls := ParseDeclarations(src)
	require.Len(t, decls, 7)

	assert.Equal(t, Declaration{Qualifier: QualifierUniform, Type: "mat4", Name: "modelViewProjMatrix", Line: 2}, decls[0])
	assert.Equal(t, "ambient", decls[1].Name)
	assert.Equal(t, "lightColor", decls[2].Name)
	assert.Equal(t, "vec3", decls[2].Type)
	assert.Equal(t, Declaration{Qualifier: QualifierIn, Type: "vec4", Name: "in_position", Line: 4}, decls[3])
	assert.Equal(t, Declaration{Qualifier: QualifierUniform, Type: "float", Name: "shininess", Line: 7}, decls[4])
	assert.Equal(t, Declaration{Qualifier: QualifierOut, Type: "vec2", Name: "vs_texCoord", Line: 8}, decls[5])
	assert.Equal(t, "weights", decls[6].Name)
}

func TestPreProcessorInjectsVersion(t *testing.T) {
	pp := NewPreProcessor("410 core")
	out, err := pp.Process("\nvoid main() {}")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#version 410 core\n"))

	out, err = pp.Process("  #version 300 es\nvoid main() {}")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "#version"))

	out, err = NewPreProcessor("").Process("void main() {}")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", out)
}

func TestPreProcessorIncludes(t *testing.T) {
	pp := NewPreProcessor("410 core")
	out, err := pp.Process("//@oxy:include sh_old_town_square\nvoid main() {}")
	require.NoError(t, err)
	assert.Contains(t, out, "highp vec3 shIrradiance(highp vec3 n)")
	assert.NotContains(t, out, "@oxy:")
	assert.Equal(t, []AnnotationArg{AnnotationArgSHOldTownSquare}, pp.Includes())

	pp.RegisterChunk("tint", "const vec3 tint = vec3(1.0);")
	out, err = pp.Process("// @oxy:include tint\n")
	require.NoError(t, err)
	assert.Contains(t, out, "const vec3 tint")
}

func TestPreProcessorErrors(t *testing.T) {
	pp := NewPreProcessor("410 core")

	_, err := pp.Process("//@oxy:include nope")
	assert.ErrorContains(t, err, "unknown @oxy:include argument")

	_, err = pp.Process("//@oxy:include")
	assert.ErrorContains(t, err, "exactly one argument")

	_, err = pp.Process("//@oxy:group 0 0")
	assert.ErrorContains(t, err, "unknown @oxy annotation type")

	_, err = pp.Process("//@oxy:")
	assert.ErrorContains(t, err, "empty @oxy annotation")
}
