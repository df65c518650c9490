package shading

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
	"github.com/go-gl/mathgl/mgl32"
)

// PhongVariables holds the lighting uniforms of the one-directional-light Phong fragment stage.
type PhongVariables struct {
	AmbientColor   *variables.Uniform[mgl32.Vec3]
	LightColor     *variables.Uniform[mgl32.Vec3]
	LightDirection *variables.Uniform[mgl32.Vec3]
	HalfVector     *variables.Uniform[mgl32.Vec3]
	Shininess      *variables.Uniform[float32]
	Strength       *variables.Uniform[float32]
}

var _ variables.Set = &PhongVariables{}

// NewPhongVariables returns the lighting uniforms in the shading role, holding the stage's default values.
func NewPhongVariables() *PhongVariables {
	v := &PhongVariables{
		AmbientColor:   variables.NewUniform[mgl32.Vec3]("ambient"),
		LightColor:     variables.NewUniform[mgl32.Vec3]("lightColor"),
		LightDirection: variables.NewUniform[mgl32.Vec3]("lightDirection"),
		HalfVector:     variables.NewUniform[mgl32.Vec3]("halfVector"),
		Shininess:      variables.NewUniform[float32]("shininess"),
		Strength:       variables.NewUniform[float32]("strength"),
	}
	v.AmbientColor.Value = mgl32.Vec3{0.3, 0.3, 0.3}
	v.LightColor.Value = mgl32.Vec3{0.6, 0.6, 0.6}
	v.LightDirection.Value = mgl32.Vec3{1, 2, 2}.Normalize()
	v.Shininess.Value = 5
	v.Strength.Value = 1
	return v
}

func (v *PhongVariables) Connect(ctx gpu.Context, other variables.Set, program uint32) error {
	o, ok := other.(*PhongVariables)
	if !ok {
		return variables.SetMismatch(v, other)
	}
	if err := v.AmbientColor.Connect(ctx, o.AmbientColor, program); err != nil {
		return err
	}
	if err := v.LightColor.Connect(ctx, o.LightColor, program); err != nil {
		return err
	}
	if err := v.LightDirection.Connect(ctx, o.LightDirection, program); err != nil {
		return err
	}
	if err := v.HalfVector.Connect(ctx, o.HalfVector, program); err != nil {
		return err
	}
	if err := v.Shininess.Connect(ctx, o.Shininess, program); err != nil {
		return err
	}
	return v.Strength.Connect(ctx, o.Strength, program)
}

func (v *PhongVariables) Draw(ctx gpu.Context) {
	v.AmbientColor.Draw(ctx)
	v.LightColor.Draw(ctx)
	v.LightDirection.Draw(ctx)
	v.HalfVector.Draw(ctx)
	v.Shininess.Draw(ctx)
	v.Strength.Draw(ctx)
}

func (v *PhongVariables) Descriptors() []variables.Descriptor {
	return []variables.Descriptor{v.AmbientColor, v.LightColor, v.LightDirection, v.HalfVector, v.Shininess, v.Strength}
}

// PhongFragmentShader is a fragment stage lit by one directional light, with adjustable lighting uniforms.
type PhongFragmentShader interface {
	FragmentShader

	// Variables returns the lighting uniforms. Values may be changed between draws; the half vector is derived
	// from LightDirection on every draw and need not be set.
	Variables() *PhongVariables
}

// phongFragmentShader is the implementation of the PhongFragmentShader interface.
type phongFragmentShader struct {
	stage
	vars *PhongVariables
}

var _ PhongFragmentShader = &phongFragmentShader{}

// NewPhongOneDirectionalFragmentShaderPNT compiles a Blinn-Phong fragment stage with one directional light. The
// lighting uniforms start at usable defaults: 0.3 grey ambient, 0.6 grey light from normalize(1, 2, 2),
// shininess 5 and strength 1.
//
// Parameters:
//   - ctx: the GPU context, current on the calling goroutine
//   - options: extra compile options
//
// Returns:
//   - PhongFragmentShader: the fragment stage
//   - error: a compile error, or a declaration mismatch with the lighting uniforms
func NewPhongOneDirectionalFragmentShaderPNT(ctx gpu.Context, options ...shader.ShaderBuilderOption) (PhongFragmentShader, error) {
	const label = "phong_one_directional_fragment_pnt"
	u, err := compile(ctx, shader.ShaderTypeFragment, label, mustSource(label+".glsl"), options)
	if err != nil {
		return nil, err
	}
	vars := NewPhongVariables()
	if err := variables.CheckDeclared(u, vars); err != nil {
		u.Delete(ctx)
		return nil, fmt.Errorf("shading: %s: %w", label, err)
	}
	return &phongFragmentShader{stage: stage{unit: u}, vars: vars}, nil
}

func (s *phongFragmentShader) Variables() *PhongVariables { return s.vars }

// PostLink connects the lighting uniforms to themselves, resolving their locations in the linked program.
func (s *phongFragmentShader) PostLink(ctx gpu.Context, program uint32) error {
	return s.vars.Connect(ctx, s.vars, program)
}

// PreDraw derives the half vector from the light direction and uploads every lighting uniform.
func (s *phongFragmentShader) PreDraw(ctx gpu.Context) {
	s.vars.HalfVector.Value = mgl32.Vec3{0, 0, 1}.Add(s.vars.LightDirection.Value).Normalize()
	s.vars.Draw(ctx)
}
