// Package model holds drawables: interleaved vertex data plus element lists uploaded into a vertex array,
// together with the variable set and texture each drawable feeds its program.
package model

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
)

// ErrAlreadyBuilt is returned when Build is called on a geometry buffer that already owns GPU objects.
var ErrAlreadyBuilt = errors.New("geometry buffer already built")

// GeometryBuffer owns the vertex buffer, vertex array and element buffer behind one drawable.
// V is the variable set type describing the interleaved vertex layout.
type GeometryBuffer[V variables.Set] struct {
	vertices []byte
	elements []uint32
	topology gpu.Enum

	vertexBuffer  uint32
	vertexArray   uint32
	elementBuffer uint32
	built         bool
}

// NewGeometryBuffer creates an unbuilt geometry buffer. Nothing touches the GPU until Build.
//
// Parameters:
//   - vertices: the interleaved vertex bytes, laid out as the drawable-side variables describe
//   - elements: vertex indices; gpu.RestartIndex separates strips when primitive restart is enabled
//   - topology: the primitive mode, e.g. gpu.TRIANGLE_STRIP
//
// Returns:
//   - *GeometryBuffer[V]: the geometry buffer
func NewGeometryBuffer[V variables.Set](vertices []byte, elements []uint32, topology gpu.Enum) *GeometryBuffer[V] {
	return &GeometryBuffer[V]{
		vertices: vertices,
		elements: elements,
		topology: topology,
	}
}

// Built reports whether Build succeeded and Delete has not been called since.
func (g *GeometryBuffer[V]) Built() bool { return g.built }

// Topology returns the primitive mode used by Draw.
func (g *GeometryBuffer[V]) Topology() gpu.Enum { return g.topology }

// ElementCount returns the number of indices drawn, restart markers included.
func (g *GeometryBuffer[V]) ElementCount() int { return len(g.elements) }

// VertexArray returns the vertex array handle, or 0 when unbuilt.
func (g *GeometryBuffer[V]) VertexArray() uint32 { return g.vertexArray }

// Build uploads the vertices, records the attribute layout in a fresh vertex array by connecting drawableVars
// to shaderVars, and uploads the elements. Every allocation is checked; on failure whatever was allocated is
// released and the buffer stays unbuilt.
//
// Parameters:
//   - ctx: the GPU context, current on the calling goroutine
//   - shaderVars: the vertex shading's variables
//   - drawableVars: the drawable's variables describing the vertex layout
//   - program: the linked program handle
//
// Returns:
//   - error: ErrAlreadyBuilt, gpu.ErrAllocation, or a binding error from the variables
func (g *GeometryBuffer[V]) Build(ctx gpu.Context, shaderVars, drawableVars V, program uint32) error {
	if g.built {
		return ErrAlreadyBuilt
	}

	g.vertexBuffer = ctx.GenBuffer()
	if g.vertexBuffer == 0 {
		common.Logger().Error("vertex buffer allocation failed")
		return fmt.Errorf("vertex buffer: %w", gpu.ErrAllocation)
	}
	ctx.BindBuffer(gpu.ARRAY_BUFFER, g.vertexBuffer)
	ctx.BufferData(gpu.ARRAY_BUFFER, g.vertices, gpu.STATIC_DRAW)

	g.vertexArray = ctx.GenVertexArray()
	if g.vertexArray == 0 {
		ctx.BindBuffer(gpu.ARRAY_BUFFER, 0)
		g.release(ctx)
		common.Logger().Error("vertex array allocation failed")
		return fmt.Errorf("vertex array: %w", gpu.ErrAllocation)
	}
	ctx.BindVertexArray(g.vertexArray)

	if err := drawableVars.Connect(ctx, shaderVars, program); err != nil {
		ctx.BindBuffer(gpu.ARRAY_BUFFER, 0)
		ctx.BindVertexArray(0)
		g.release(ctx)
		return err
	}

	ctx.BindBuffer(gpu.ARRAY_BUFFER, 0)
	ctx.BindVertexArray(0)

	g.elementBuffer = ctx.GenBuffer()
	if g.elementBuffer == 0 {
		g.release(ctx)
		common.Logger().Error("element buffer allocation failed")
		return fmt.Errorf("element buffer: %w", gpu.ErrAllocation)
	}
	ctx.BindBuffer(gpu.ELEMENT_ARRAY_BUFFER, g.elementBuffer)
	ctx.BufferData(gpu.ELEMENT_ARRAY_BUFFER, common.SliceToBytes(g.elements), gpu.STATIC_DRAW)
	ctx.BindBuffer(gpu.ELEMENT_ARRAY_BUFFER, 0)

	g.built = true
	return nil
}

// Draw binds the vertex array and element buffer and draws every element with the configured topology.
// An unbuilt buffer logs a warning and draws nothing.
//
// Parameters:
//   - ctx: the GPU context with the program already in use
func (g *GeometryBuffer[V]) Draw(ctx gpu.Context) {
	if !g.built {
		common.Logger().Warn("draw skipped, geometry buffer is not built")
		return
	}
	ctx.BindVertexArray(g.vertexArray)
	ctx.BindBuffer(gpu.ELEMENT_ARRAY_BUFFER, g.elementBuffer)
	ctx.DrawElements(g.topology, int32(len(g.elements)), gpu.UNSIGNED_INT, 0)
}

// Delete releases the buffer's GPU objects. The buffer may be built again afterwards.
//
// Parameters:
//   - ctx: the GPU context the buffer was built on
func (g *GeometryBuffer[V]) Delete(ctx gpu.Context) {
	g.release(ctx)
	g.built = false
}

func (g *GeometryBuffer[V]) release(ctx gpu.Context) {
	if g.elementBuffer != 0 {
		ctx.DeleteBuffer(g.elementBuffer)
		g.elementBuffer = 0
	}
	if g.vertexArray != 0 {
		ctx.DeleteVertexArray(g.vertexArray)
		g.vertexArray = 0
	}
	if g.vertexBuffer != 0 {
		ctx.DeleteBuffer(g.vertexBuffer)
		g.vertexBuffer = 0
	}
}
