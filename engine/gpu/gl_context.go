package gpu

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glContext implements Context on top of go-gl's OpenGL 4.1 core bindings.
// Reference: https://pkg.go.dev/github.com/go-gl/gl/v4.1-core/gl
type glContext struct {
	version string
}

var _ Context = &glContext{}

// NewGLContext loads the OpenGL function pointers for the context current on the calling thread.
// The caller must already have made a context current (see window.Window.MakeContextCurrent).
//
// Returns:
//   - Context: a Context issuing real GL calls
//   - string: the GL_VERSION string reported by the driver
//   - error: error if the GL entry points could not be loaded
func NewGLContext() (Context, string, error) {
	if err := gl.Init(); err != nil {
		return nil, "", fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	c := &glContext{version: gl.GoStr(gl.GetString(gl.VERSION))}
	return c, c.version, nil
}

func (c *glContext) CreateShader(shaderType Enum) uint32 {
	return gl.CreateShader(uint32(shaderType))
}

func (c *glContext) ShaderSource(shader uint32, source string) {
	csource, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csource, nil)
}

func (c *glContext) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (c *glContext) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (c *glContext) ShaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen)
	gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (c *glContext) DeleteShader(shader uint32) {
	if shader != 0 {
		gl.DeleteShader(shader)
	}
}

func (c *glContext) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (c *glContext) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (c *glContext) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (c *glContext) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (c *glContext) ProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen)
	gl.GetProgramInfoLog(program, logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (c *glContext) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (c *glContext) DeleteProgram(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

func (c *glContext) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (c *glContext) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *glContext) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (c *glContext) BindBuffer(target Enum, buffer uint32) {
	gl.BindBuffer(uint32(target), buffer)
}

func (c *glContext) BufferData(target Enum, data []byte, usage Enum) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(uint32(target), len(data), ptr, uint32(usage))
}

func (c *glContext) DeleteBuffer(buffer uint32) {
	if buffer != 0 {
		gl.DeleteBuffers(1, &buffer)
	}
}

func (c *glContext) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (c *glContext) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (c *glContext) DeleteVertexArray(vao uint32) {
	if vao != 0 {
		gl.DeleteVertexArrays(1, &vao)
	}
}

func (c *glContext) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (c *glContext) VertexAttribPointer(index uint32, size int32, xtype Enum, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, uint32(xtype), normalized, stride, offset)
}

func (c *glContext) DrawElements(mode Enum, count int32, xtype Enum, offset uintptr) {
	gl.DrawElementsWithOffset(uint32(mode), count, uint32(xtype), offset)
}

// EnablePrimitiveRestart uses the index-configurable form because the fixed-index capability is not exposed
// by the 4.1 core bindings.
func (c *glContext) EnablePrimitiveRestart(index uint32) {
	gl.Enable(gl.PRIMITIVE_RESTART)
	gl.PrimitiveRestartIndex(index)
}

func (c *glContext) PrimitiveRestartEnabled() bool {
	return gl.IsEnabled(gl.PRIMITIVE_RESTART)
}

func (c *glContext) GenTexture() uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	return texture
}

func (c *glContext) ActiveTexture(unit Enum) {
	gl.ActiveTexture(uint32(unit))
}

func (c *glContext) BindTexture(target Enum, texture uint32) {
	gl.BindTexture(uint32(target), texture)
}

func (c *glContext) TexParameteri(target, pname Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (c *glContext) TexImage2D(target Enum, width, height int32, format Enum, pixels []byte) {
	// RGB rows are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(uint32(target), 0, int32(format), width, height, 0, uint32(format), gl.UNSIGNED_BYTE, ptr)
}

func (c *glContext) DeleteTexture(texture uint32) {
	if texture != 0 {
		gl.DeleteTextures(1, &texture)
	}
}

func (c *glContext) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (c *glContext) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (c *glContext) UniformMatrix3fv(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (c *glContext) UniformMatrix4fv(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (c *glContext) Enable(capability Enum) {
	gl.Enable(uint32(capability))
}

func (c *glContext) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (c *glContext) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *glContext) Clear(mask Enum) {
	gl.Clear(uint32(mask))
}

func (c *glContext) ReadPixels(x, y, width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
