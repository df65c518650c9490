// Package gpu defines the narrow slice of the OpenGL API the engine draws through. Every other engine package
// talks to the GPU via the Context interface so that the binding, link and build logic can run against a real
// GL context or against the recording fake in gputest.
package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Enum mirrors a GLenum value. The constants below carry the OpenGL numeric values so a Context implementation
// can pass them straight through.
type Enum uint32

const (
	// Scalar types.
	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406

	// Primitive topologies.
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006

	// Shader stages.
	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31

	// Buffer targets and usage.
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8

	// Textures.
	TEXTURE_2D         Enum = 0x0DE1
	TEXTURE0           Enum = 0x84C0
	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	TEXTURE_BASE_LEVEL Enum = 0x813C
	TEXTURE_MAX_LEVEL  Enum = 0x813D
	NEAREST            Enum = 0x2600
	LINEAR             Enum = 0x2601
	CLAMP_TO_EDGE      Enum = 0x812F
	REPEAT             Enum = 0x2901

	// Pixel formats.
	RGB  Enum = 0x1907
	RGBA Enum = 0x1908

	// Capabilities and clear masks.
	DEPTH_TEST       Enum = 0x0B71
	DEPTH_BUFFER_BIT Enum = 0x00000100
	COLOR_BUFFER_BIT Enum = 0x00004000
)

// RestartIndex is the element value that ends one strip and starts the next when primitive restart is enabled.
const RestartIndex uint32 = 0xFFFFFFFF

// ErrAllocation is returned (wrapped with the object kind) whenever the GPU hands back a zero handle.
var ErrAllocation = errors.New("gpu: object allocation failed")

// BytesPerPixel returns the size of one pixel for an unsigned-byte pixel format, or 0 for an unknown format.
func BytesPerPixel(format Enum) int {
	switch format {
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// Context is the GPU API surface used by the engine. All methods must be called from the goroutine that owns
// the underlying context; implementations are not required to be safe for concurrent use.
type Context interface {
	// CreateShader allocates a shader object of the given stage.
	//
	// Parameters:
	//   - shaderType: VERTEX_SHADER or FRAGMENT_SHADER
	//
	// Returns:
	//   - uint32: the shader handle, or 0 on failure
	CreateShader(shaderType Enum) uint32

	// ShaderSource replaces the source text of a shader object.
	ShaderSource(shader uint32, source string)

	// CompileShader compiles the shader object's current source.
	CompileShader(shader uint32)

	// ShaderCompiled reports whether the last compile of the shader succeeded.
	ShaderCompiled(shader uint32) bool

	// ShaderInfoLog returns the full compile log of the shader.
	ShaderInfoLog(shader uint32) string

	// DeleteShader releases a shader object. Deleting 0 is a no-op.
	DeleteShader(shader uint32)

	// CreateProgram allocates a program object.
	//
	// Returns:
	//   - uint32: the program handle, or 0 on failure
	CreateProgram() uint32

	AttachShader(program, shader uint32)
	LinkProgram(program uint32)

	// ProgramLinked reports whether the last link of the program succeeded.
	ProgramLinked(program uint32) bool

	// ProgramInfoLog returns the full link log of the program.
	ProgramInfoLog(program uint32) string

	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// AttribLocation resolves an active vertex input of a linked program.
	//
	// Parameters:
	//   - program: the linked program handle
	//   - name: the vertex input name as written in the shader source
	//
	// Returns:
	//   - int32: the location, or -1 if the program has no active input with that name
	AttribLocation(program uint32, name string) int32

	// UniformLocation resolves an active uniform of a linked program.
	//
	// Parameters:
	//   - program: the linked program handle
	//   - name: the uniform name as written in the shader source
	//
	// Returns:
	//   - int32: the location, or -1 if the program has no active uniform with that name
	UniformLocation(program uint32, name string) int32

	// GenBuffer allocates a buffer object, returning 0 on failure.
	GenBuffer() uint32
	BindBuffer(target Enum, buffer uint32)

	// BufferData uploads data into the buffer bound to target.
	//
	// Parameters:
	//   - target: ARRAY_BUFFER or ELEMENT_ARRAY_BUFFER
	//   - data: the raw bytes to upload
	//   - usage: STATIC_DRAW or DYNAMIC_DRAW
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(buffer uint32)

	// GenVertexArray allocates a vertex array object, returning 0 on failure.
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	EnableVertexAttribArray(index uint32)

	// VertexAttribPointer describes where a vertex input reads from in the buffer bound to ARRAY_BUFFER.
	// The description is recorded in the currently bound vertex array.
	//
	// Parameters:
	//   - index: the vertex input location
	//   - size: number of components per vertex (1 to 4)
	//   - xtype: scalar type of each component
	//   - normalized: map integer components to [0, 1]
	//   - stride: byte distance between consecutive vertices
	//   - offset: byte offset of the first component
	VertexAttribPointer(index uint32, size int32, xtype Enum, normalized bool, stride int32, offset uintptr)

	// DrawElements draws count indices from the buffer bound to ELEMENT_ARRAY_BUFFER.
	DrawElements(mode Enum, count int32, xtype Enum, offset uintptr)

	// EnablePrimitiveRestart turns on primitive restart with the given sentinel index.
	EnablePrimitiveRestart(index uint32)

	// PrimitiveRestartEnabled reports whether primitive restart is on for this context.
	PrimitiveRestartEnabled() bool

	// GenTexture allocates a texture object, returning 0 on failure.
	GenTexture() uint32
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexParameteri(target, pname Enum, param int32)

	// TexImage2D uploads unsigned-byte pixels into level 0 of the texture bound to target.
	//
	// Parameters:
	//   - target: TEXTURE_2D
	//   - width: width in pixels
	//   - height: height in pixels
	//   - format: RGB or RGBA, used for both the internal and the client format
	//   - pixels: tightly packed rows, bottom row first
	TexImage2D(target Enum, width, height int32, format Enum, pixels []byte)
	DeleteTexture(texture uint32)

	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)
	UniformMatrix3fv(location int32, m mgl32.Mat3)
	UniformMatrix4fv(location int32, m mgl32.Mat4)

	Enable(capability Enum)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	// ReadPixels reads back a rectangle of the default framebuffer as RGBA bytes, bottom row first.
	ReadPixels(x, y, width, height int32) []byte
}
