package shader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
)

// ShaderType identifies the pipeline stage a shader unit is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used in pair with a vertex shader.
	ShaderTypeFragment
)

// Enum returns the GPU constant for the stage.
func (t ShaderType) Enum() gpu.Enum {
	if t == ShaderTypeFragment {
		return gpu.FRAGMENT_SHADER
	}
	return gpu.VERTEX_SHADER
}

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	}
	return fmt.Sprintf("ShaderType(%d)", int(t))
}

// ErrCompile is wrapped by every CompileError.
var ErrCompile = errors.New("shader: compilation failed")

// CompileError carries the driver's full compile log for a rejected unit.
type CompileError struct {
	Label      string
	ShaderType ShaderType
	Log        string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: %s %s shader failed to compile:\n%s", e.Label, e.ShaderType, e.Log)
}

func (e *CompileError) Unwrap() error {
	return ErrCompile
}

// unit is the implementation of the Unit interface.
type unit struct {
	label        string
	id           uint32
	shaderType   ShaderType
	source       string
	declarations []Declaration

	version string
	chunks  map[AnnotationArg]string
	pp      PreProcessor
}

// Unit is one compiled shader stage. A Unit only exists if compilation succeeded, so ID is always non-zero
// until Delete is called.
type Unit interface {
	// ID returns the GPU handle of the compiled shader object.
	//
	// Returns:
	//   - uint32: the non-zero shader handle, or 0 after Delete
	ID() uint32

	// ShaderType returns the stage the unit was compiled for.
	ShaderType() ShaderType

	// Label returns the name used for the unit in log output.
	Label() string

	// Source returns the pre-processed source that was handed to the driver.
	Source() string

	// Declarations returns the global in, out and uniform declarations of the source.
	//
	// Returns:
	//   - []Declaration: declarations in source order
	Declarations() []Declaration

	// Declaration looks a declaration up by variable name.
	//
	// Parameters:
	//   - name: the GLSL variable name
	//
	// Returns:
	//   - Declaration: the declaration, if found
	//   - bool: true if the source declares the name
	Declaration(name string) (Declaration, bool)

	// Delete releases the shader object. Programs that already linked it are unaffected.
	//
	// Parameters:
	//   - ctx: the GPU context that compiled the unit
	Delete(ctx gpu.Context)
}

var _ Unit = &unit{}

// Compile pre-processes and compiles a shader source for one stage. On failure nothing is returned: the
// shader object is released, the full compile log is written to the engine logger and returned in a
// *CompileError. Compilation is not retried.
//
// Parameters:
//   - ctx: the GPU context, current on the calling goroutine
//   - shaderType: the stage to compile for
//   - source: GLSL source, with or without a #version directive
//   - options: functional options (version, extra include chunks, label)
//
// Returns:
//   - Unit: the compiled unit
//   - error: a pre-processing error, gpu.ErrAllocation, or a *CompileError
func Compile(ctx gpu.Context, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Unit, error) {
	u := &unit{
		label:      shaderType.String(),
		shaderType: shaderType,
		version:    DefaultVersion,
		chunks:     make(map[AnnotationArg]string),
	}
	for _, opt := range options {
		opt(u)
	}
	u.pp = NewPreProcessor(u.version)
	for key, chunk := range u.chunks {
		u.pp.RegisterChunk(key, chunk)
	}

	processed, err := u.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to pre-process %s source: %w", u.label, err)
	}
	u.source = processed

	id := ctx.CreateShader(shaderType.Enum())
	if id == 0 {
		common.Logger().Error("shader object allocation failed", "label", u.label, "stage", shaderType.String())
		return nil, fmt.Errorf("shader: %s %s shader: %w", u.label, shaderType, gpu.ErrAllocation)
	}

	ctx.ShaderSource(id, u.source)
	ctx.CompileShader(id)
	if !ctx.ShaderCompiled(id) {
		log := ctx.ShaderInfoLog(id)
		ctx.DeleteShader(id)
		common.Logger().Error("shader compilation failed", "label", u.label, "stage", shaderType.String(), "log", log)
		return nil, &CompileError{Label: u.label, ShaderType: shaderType, Log: log}
	}

	u.id = id
	u.declarations = ParseDeclarations(u.source)
	return u, nil
}

func (u *unit) ID() uint32 {
	return u.id
}

func (u *unit) ShaderType() ShaderType {
	return u.shaderType
}

func (u *unit) Label() string {
	return u.label
}

func (u *unit) Source() string {
	return u.source
}

func (u *unit) Declarations() []Declaration {
	return u.declarations
}

func (u *unit) Declaration(name string) (Declaration, bool) {
	for _, d := range u.declarations {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

func (u *unit) Delete(ctx gpu.Context) {
	if u.id == 0 {
		return
	}
	ctx.DeleteShader(u.id)
	u.id = 0
}
