// Package gputest provides a recording gpu.Context for tests. It allocates handles, remembers every piece of
// state the engine sets, and resolves attribute and uniform locations from the GLSL declarations of the
// attached shaders, so binding failures behave the way a real driver reports them.
package gputest

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Object identifies a kind of GPU object for allocation failure injection.
type Object int

const (
	ObjectShader Object = iota
	ObjectProgram
	ObjectBuffer
	ObjectVertexArray
	ObjectTexture
)

// AttribPointer is a recorded VertexAttribPointer call.
type AttribPointer struct {
	Buffer     uint32
	Size       int32
	Type       gpu.Enum
	Normalized bool
	Stride     int32
	Offset     uintptr
}

// VertexArray is the recorded state of one vertex array object.
type VertexArray struct {
	Enabled  map[uint32]bool
	Pointers map[uint32]AttribPointer
}

// Texture is the recorded state of one texture object.
type Texture struct {
	Width, Height int32
	Format        gpu.Enum
	Pixels        []byte
	Params        map[gpu.Enum]int32
}

// DrawCall is a recorded DrawElements call together with the state it was issued under.
type DrawCall struct {
	Program       uint32
	VertexArray   uint32
	ElementBuffer uint32
	Mode          gpu.Enum
	Count         int32
	Type          gpu.Enum
	Offset        uintptr
	// Textures is the unit to texture binding at the time of the draw.
	Textures map[gpu.Enum]uint32
}

// UniformUpload is a recorded Uniform* call.
type UniformUpload struct {
	Program  uint32
	Location int32
	Value    any
}

type fakeShader struct {
	stage    gpu.Enum
	source   string
	compiled bool
	log      string
}

type fakeProgram struct {
	shaders  []uint32
	linked   bool
	log      string
	attribs  map[string]int32
	uniforms map[string]int32
}

// Context is the recording fake. The zero value is not usable; create one with New.
// Exported fields may be read by tests once the code under test has returned.
type Context struct {
	mu sync.Mutex

	nextHandle map[Object]uint32
	failAfter  map[Object]int
	allocated  map[Object]int

	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram

	// Buffers holds the last upload per buffer handle.
	Buffers map[uint32][]byte
	// VertexArrays holds recorded attribute state per vertex array handle.
	VertexArrays map[uint32]*VertexArray
	// Textures holds recorded texture state per texture handle.
	Textures map[uint32]*Texture

	// Deleted lists released handles per object kind, in release order.
	Deleted map[Object][]uint32

	CurrentProgram     uint32
	BoundVertexArray   uint32
	BoundArrayBuffer   uint32
	BoundElementBuffer uint32
	ActiveUnit         gpu.Enum
	// BoundTextures maps a texture unit to the texture bound on it.
	BoundTextures map[gpu.Enum]uint32

	PrimitiveRestart bool
	RestartIndex     uint32
	Enabled          map[gpu.Enum]bool

	Draws    []DrawCall
	Uniforms []UniformUpload

	ViewportRect [4]int32
	clearColor   [4]float32
	framebuffer  [4]byte

	// Calls counts invocations per method name.
	Calls map[string]int
}

var _ gpu.Context = &Context{}

// New creates an empty fake context.
//
// Returns:
//   - *Context: the fake, with every handle counter starting at 1
func New() *Context {
	return &Context{
		nextHandle:    map[Object]uint32{},
		failAfter:     map[Object]int{},
		allocated:     map[Object]int{},
		shaders:       map[uint32]*fakeShader{},
		programs:      map[uint32]*fakeProgram{},
		Buffers:       map[uint32][]byte{},
		VertexArrays:  map[uint32]*VertexArray{},
		Textures:      map[uint32]*Texture{},
		Deleted:       map[Object][]uint32{},
		BoundTextures: map[gpu.Enum]uint32{},
		Enabled:       map[gpu.Enum]bool{},
		ActiveUnit:    gpu.TEXTURE0,
		Calls:         map[string]int{},
	}
}

// FailAllocation makes allocations of the given kind return 0 once n more have succeeded.
//
// Parameters:
//   - kind: the object kind to fail
//   - n: how many further allocations of that kind succeed first
func (c *Context) FailAllocation(kind Object, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAfter[kind] = c.allocated[kind] + n
}

// Count returns how often a method was called.
func (c *Context) Count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Calls[method]
}

// UniformValue returns the last value uploaded to a location of a program, or nil.
func (c *Context) UniformValue(program uint32, location int32) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.Uniforms) - 1; i >= 0; i-- {
		u := c.Uniforms[i]
		if u.Program == program && u.Location == location {
			return u.Value
		}
	}
	return nil
}

// IsDeleted reports whether a handle of the given kind has been released.
func (c *Context) IsDeleted(kind Object, handle uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.Deleted[kind], handle)
}

func (c *Context) called(method string) {
	c.Calls[method]++
}

func (c *Context) alloc(kind Object) uint32 {
	if limit, ok := c.failAfter[kind]; ok && c.allocated[kind] >= limit {
		return 0
	}
	c.allocated[kind]++
	c.nextHandle[kind]++
	return c.nextHandle[kind]
}

func (c *Context) release(kind Object, handle uint32) {
	if handle != 0 {
		c.Deleted[kind] = append(c.Deleted[kind], handle)
	}
}

func (c *Context) CreateShader(shaderType gpu.Enum) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("CreateShader")
	h := c.alloc(ObjectShader)
	if h != 0 {
		c.shaders[h] = &fakeShader{stage: shaderType}
	}
	return h
}

func (c *Context) ShaderSource(sh uint32, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("ShaderSource")
	if s, ok := c.shaders[sh]; ok {
		s.source = source
	}
}

// CompileShader fails any source containing an #error directive, mirroring the preprocessor behaviour of
// real GLSL compilers.
func (c *Context) CompileShader(sh uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("CompileShader")
	s, ok := c.shaders[sh]
	if !ok {
		return
	}
	for i, line := range strings.Split(s.source, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#error") {
			s.compiled = false
			s.log = fmt.Sprintf("ERROR: 0:%d: '#error' : %s", i+1, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#error")))
			return
		}
	}
	s.compiled = true
	s.log = ""
}

func (c *Context) ShaderCompiled(sh uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.shaders[sh]
	return ok && s.compiled
}

func (c *Context) ShaderInfoLog(sh uint32) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.shaders[sh]; ok {
		return s.log
	}
	return ""
}

func (c *Context) DeleteShader(sh uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("DeleteShader")
	c.release(ObjectShader, sh)
}

func (c *Context) CreateProgram() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("CreateProgram")
	h := c.alloc(ObjectProgram)
	if h != 0 {
		c.programs[h] = &fakeProgram{}
	}
	return h
}

func (c *Context) AttachShader(program, sh uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("AttachShader")
	if p, ok := c.programs[program]; ok {
		p.shaders = append(p.shaders, sh)
	}
}

// LinkProgram requires one compiled vertex and one compiled fragment shader, each defining main. Locations are
// assigned in declaration order: vertex inputs from 0, uniforms from 0 across both stages.
func (c *Context) LinkProgram(program uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("LinkProgram")
	p, ok := c.programs[program]
	if !ok {
		return
	}
	p.linked = false
	p.attribs = map[string]int32{}
	p.uniforms = map[string]int32{}

	stages := map[gpu.Enum]*fakeShader{}
	for _, h := range p.shaders {
		s, ok := c.shaders[h]
		if !ok || !s.compiled {
			p.log = fmt.Sprintf("error: shader %d is not compiled", h)
			return
		}
		if !strings.Contains(s.source, "void main(") {
			p.log = "error: missing definition of main()"
			return
		}
		stages[s.stage] = s
	}
	if stages[gpu.VERTEX_SHADER] == nil || stages[gpu.FRAGMENT_SHADER] == nil {
		p.log = "error: program requires a vertex and a fragment shader"
		return
	}

	for _, stage := range []gpu.Enum{gpu.VERTEX_SHADER, gpu.FRAGMENT_SHADER} {
		for _, d := range shader.ParseDeclarations(stages[stage].source) {
			switch {
			case d.Qualifier == shader.QualifierUniform:
				if _, seen := p.uniforms[d.Name]; !seen {
					p.uniforms[d.Name] = int32(len(p.uniforms))
				}
			case d.Qualifier == shader.QualifierIn && stage == gpu.VERTEX_SHADER:
				p.attribs[d.Name] = int32(len(p.attribs))
			}
		}
	}
	p.linked = true
	p.log = ""
}

func (c *Context) ProgramLinked(program uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.programs[program]
	return ok && p.linked
}

func (c *Context) ProgramInfoLog(program uint32) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.programs[program]; ok {
		return p.log
	}
	return ""
}

func (c *Context) UseProgram(program uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("UseProgram")
	c.CurrentProgram = program
}

func (c *Context) DeleteProgram(program uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("DeleteProgram")
	c.release(ObjectProgram, program)
}

func (c *Context) AttribLocation(program uint32, name string) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("AttribLocation")
	p, ok := c.programs[program]
	if !ok || !p.linked {
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

func (c *Context) UniformLocation(program uint32, name string) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("UniformLocation")
	p, ok := c.programs[program]
	if !ok || !p.linked {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (c *Context) GenBuffer() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("GenBuffer")
	return c.alloc(ObjectBuffer)
}

func (c *Context) BindBuffer(target gpu.Enum, buffer uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("BindBuffer")
	switch target {
	case gpu.ARRAY_BUFFER:
		c.BoundArrayBuffer = buffer
	case gpu.ELEMENT_ARRAY_BUFFER:
		c.BoundElementBuffer = buffer
	}
}

func (c *Context) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("BufferData")
	var buffer uint32
	switch target {
	case gpu.ARRAY_BUFFER:
		buffer = c.BoundArrayBuffer
	case gpu.ELEMENT_ARRAY_BUFFER:
		buffer = c.BoundElementBuffer
	}
	if buffer != 0 {
		c.Buffers[buffer] = slices.Clone(data)
	}
}

func (c *Context) DeleteBuffer(buffer uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("DeleteBuffer")
	c.release(ObjectBuffer, buffer)
}

func (c *Context) GenVertexArray() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("GenVertexArray")
	h := c.alloc(ObjectVertexArray)
	if h != 0 {
		c.VertexArrays[h] = &VertexArray{Enabled: map[uint32]bool{}, Pointers: map[uint32]AttribPointer{}}
	}
	return h
}

func (c *Context) BindVertexArray(vao uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("BindVertexArray")
	c.BoundVertexArray = vao
}

func (c *Context) DeleteVertexArray(vao uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("DeleteVertexArray")
	c.release(ObjectVertexArray, vao)
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("EnableVertexAttribArray")
	if va, ok := c.VertexArrays[c.BoundVertexArray]; ok {
		va.Enabled[index] = true
	}
}

func (c *Context) VertexAttribPointer(index uint32, size int32, xtype gpu.Enum, normalized bool, stride int32, offset uintptr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("VertexAttribPointer")
	if va, ok := c.VertexArrays[c.BoundVertexArray]; ok {
		va.Pointers[index] = AttribPointer{
			Buffer:     c.BoundArrayBuffer,
			Size:       size,
			Type:       xtype,
			Normalized: normalized,
			Stride:     stride,
			Offset:     offset,
		}
	}
}

func (c *Context) DrawElements(mode gpu.Enum, count int32, xtype gpu.Enum, offset uintptr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("DrawElements")
	c.Draws = append(c.Draws, DrawCall{
		Program:       c.CurrentProgram,
		VertexArray:   c.BoundVertexArray,
		ElementBuffer: c.BoundElementBuffer,
		Mode:          mode,
		Count:         count,
		Type:          xtype,
		Offset:        offset,
		Textures:      maps.Clone(c.BoundTextures),
	})
}

func (c *Context) EnablePrimitiveRestart(index uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("EnablePrimitiveRestart")
	c.PrimitiveRestart = true
	c.RestartIndex = index
}

func (c *Context) PrimitiveRestartEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("PrimitiveRestartEnabled")
	return c.PrimitiveRestart
}

func (c *Context) GenTexture() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("GenTexture")
	h := c.alloc(ObjectTexture)
	if h != 0 {
		c.Textures[h] = &Texture{Params: map[gpu.Enum]int32{}}
	}
	return h
}

func (c *Context) ActiveTexture(unit gpu.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("ActiveTexture")
	c.ActiveUnit = unit
}

func (c *Context) BindTexture(target gpu.Enum, texture uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("BindTexture")
	c.BoundTextures[c.ActiveUnit] = texture
}

func (c *Context) TexParameteri(target, pname gpu.Enum, param int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("TexParameteri")
	if t, ok := c.Textures[c.BoundTextures[c.ActiveUnit]]; ok {
		t.Params[pname] = param
	}
}

func (c *Context) TexImage2D(target gpu.Enum, width, height int32, format gpu.Enum, pixels []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("TexImage2D")
	if t, ok := c.Textures[c.BoundTextures[c.ActiveUnit]]; ok {
		t.Width, t.Height, t.Format = width, height, format
		t.Pixels = slices.Clone(pixels)
	}
}

func (c *Context) DeleteTexture(texture uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("DeleteTexture")
	c.release(ObjectTexture, texture)
}

func (c *Context) uniform(location int32, v any) {
	c.Uniforms = append(c.Uniforms, UniformUpload{Program: c.CurrentProgram, Location: location, Value: v})
}

func (c *Context) Uniform1f(location int32, v float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("Uniform1f")
	c.uniform(location, v)
}

func (c *Context) Uniform3f(location int32, v mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("Uniform3f")
	c.uniform(location, v)
}

func (c *Context) UniformMatrix3fv(location int32, m mgl32.Mat3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("UniformMatrix3fv")
	c.uniform(location, m)
}

func (c *Context) UniformMatrix4fv(location int32, m mgl32.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("UniformMatrix4fv")
	c.uniform(location, m)
}

func (c *Context) Enable(capability gpu.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("Enable")
	c.Enabled[capability] = true
}

func (c *Context) Viewport(x, y, width, height int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("Viewport")
	c.ViewportRect = [4]int32{x, y, width, height}
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("ClearColor")
	c.clearColor = [4]float32{r, g, b, a}
}

// Clear fills the simulated framebuffer with the clear colour. Draw calls do not rasterize.
func (c *Context) Clear(mask gpu.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("Clear")
	if mask&gpu.COLOR_BUFFER_BIT != 0 {
		for i, v := range c.clearColor {
			c.framebuffer[i] = byte(mgl32.Clamp(v, 0, 1)*255 + 0.5)
		}
	}
}

func (c *Context) ReadPixels(x, y, width, height int32) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.called("ReadPixels")
	out := make([]byte, 0, int(width)*int(height)*4)
	for range int(width) * int(height) {
		out = append(out, c.framebuffer[:]...)
	}
	return out
}
