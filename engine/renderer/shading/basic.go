package shading

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
)

// GLSL names shared by the basic vertex stages.
const (
	PositionName         = "in_position"
	NormalName           = "in_normal"
	TexCoordName         = "in_texCoord"
	ModelViewProjMatName = "modelViewProjMatrix"
	NormalMatName        = "normalMatrix"
)

// NewBasicVertexShaderPT compiles a vertex stage that transforms positions by the model-view-projection matrix
// and passes texture coordinates through.
//
// Parameters:
//   - ctx: the GPU context, current on the calling goroutine
//   - options: extra compile options, e.g. shader.WithVersion
//
// Returns:
//   - VertexShader[*variables.PT]: the vertex stage
//   - error: a compile error, or a declaration mismatch between the source and the PT variables
func NewBasicVertexShaderPT(ctx gpu.Context, options ...shader.ShaderBuilderOption) (VertexShader[*variables.PT], error) {
	vars := variables.PTForShading(PositionName, TexCoordName, ModelViewProjMatName)
	return newVertexShader(ctx, "basic_vertex_pt", mustSource("basic_vertex_pt.glsl"), vars, options)
}

// NewBasicFragmentShaderPT compiles a fragment stage that outputs the texel sampled from the texture on unit 0.
func NewBasicFragmentShaderPT(ctx gpu.Context, options ...shader.ShaderBuilderOption) (FragmentShader, error) {
	return newFragmentShader(ctx, "basic_fragment_pt", mustSource("basic_fragment_pt.glsl"), options)
}

// NewBasicVertexShaderPNT compiles a vertex stage like NewBasicVertexShaderPT that also transforms normals by the
// normal matrix for the fragment stage.
//
// Parameters:
//   - ctx: the GPU context, current on the calling goroutine
//   - options: extra compile options
//
// Returns:
//   - VertexShader[*variables.PNT]: the vertex stage
//   - error: a compile error, or a declaration mismatch between the source and the PNT variables
func NewBasicVertexShaderPNT(ctx gpu.Context, options ...shader.ShaderBuilderOption) (VertexShader[*variables.PNT], error) {
	vars := variables.PNTForShading(PositionName, NormalName, TexCoordName, ModelViewProjMatName, NormalMatName)
	return newVertexShader(ctx, "basic_vertex_pnt", mustSource("basic_vertex_pnt.glsl"), vars, options)
}

// NewSphericalHarmonicsFragmentShaderPNT compiles a fragment stage lighting the texture with a fixed
// spherical-harmonics irradiance environment, scaled by 0.8 and clamped to 1.
func NewSphericalHarmonicsFragmentShaderPNT(ctx gpu.Context, options ...shader.ShaderBuilderOption) (FragmentShader, error) {
	return newFragmentShader(ctx, "spherical_harmonics_fragment_pnt", mustSource("spherical_harmonics_fragment_pnt.glsl"), options)
}
