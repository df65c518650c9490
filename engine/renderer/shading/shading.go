// Package shading provides ready-made vertex and fragment stages for the PT and PNT variable sets: plain
// texturing, one-light Blinn-Phong, and spherical-harmonics diffuse lighting.
package shading

import (
	"embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
)

//go:embed shaders/*.glsl
var sources embed.FS

func mustSource(name string) string {
	b, err := sources.ReadFile("shaders/" + name)
	if err != nil {
		panic(fmt.Sprintf("shading: missing embedded source %s: %v", name, err))
	}
	return string(b)
}

// VertexShader is a compiled vertex stage bundled with the shading-side variables drawables connect to.
type VertexShader[V variables.Set] interface {
	program.VertexShading[V]

	// Unit returns the compiled shader unit.
	Unit() shader.Unit

	// Delete releases the shader object. Programs already linked against it keep working.
	Delete(ctx gpu.Context)
}

// FragmentShader is a compiled fragment stage.
type FragmentShader interface {
	program.FragmentShading

	// Unit returns the compiled shader unit.
	Unit() shader.Unit

	// Delete releases the shader object. Programs already linked against it keep working.
	Delete(ctx gpu.Context)
}

// stage is the part every shading shares: a compiled unit and no-op hooks.
type stage struct {
	program.BaseShading
	unit shader.Unit
}

func (s *stage) ID() uint32 {
	if s.unit == nil {
		return 0
	}
	return s.unit.ID()
}

func (s *stage) Unit() shader.Unit { return s.unit }

func (s *stage) Delete(ctx gpu.Context) {
	if s.unit != nil {
		s.unit.Delete(ctx)
	}
}

// vertexShader is the implementation of the VertexShader interface.
type vertexShader[V variables.Set] struct {
	stage
	vars V
}

var _ VertexShader[*variables.PT] = &vertexShader[*variables.PT]{}

func (s *vertexShader[V]) Variables() V { return s.vars }

// newVertexShader compiles source and verifies that it declares every named member of vars.
func newVertexShader[V variables.Set](ctx gpu.Context, label, source string, vars V, options []shader.ShaderBuilderOption) (VertexShader[V], error) {
	u, err := compile(ctx, shader.ShaderTypeVertex, label, source, options)
	if err != nil {
		return nil, err
	}
	if err := variables.CheckDeclared(u, vars); err != nil {
		u.Delete(ctx)
		return nil, fmt.Errorf("shading: %s: %w", label, err)
	}
	return &vertexShader[V]{stage: stage{unit: u}, vars: vars}, nil
}

// fragmentShader is the implementation of the FragmentShader interface.
type fragmentShader struct {
	stage
}

var _ FragmentShader = &fragmentShader{}

func newFragmentShader(ctx gpu.Context, label, source string, options []shader.ShaderBuilderOption) (FragmentShader, error) {
	u, err := compile(ctx, shader.ShaderTypeFragment, label, source, options)
	if err != nil {
		return nil, err
	}
	return &fragmentShader{stage: stage{unit: u}}, nil
}

func compile(ctx gpu.Context, shaderType shader.ShaderType, label, source string, options []shader.ShaderBuilderOption) (shader.Unit, error) {
	opts := append([]shader.ShaderBuilderOption{shader.WithLabel(label)}, options...)
	u, err := shader.Compile(ctx, shaderType, source, opts...)
	if err != nil {
		return nil, fmt.Errorf("shading: %s: %w", label, err)
	}
	return u, nil
}
