package model

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
)

// Model is a program.Drawable backed by a GeometryBuffer, a drawable-side variable set and a texture.
type Model[V variables.Set] interface {
	program.Drawable[V]

	// Geometry returns the geometry buffer holding the model's vertices and elements.
	Geometry() *GeometryBuffer[V]

	// Texture returns the texture bound before drawing, or nil.
	Texture() texture.Texture

	// SetTexture replaces the texture bound before drawing.
	//
	// Parameters:
	//   - tex: the new texture, or nil
	SetTexture(tex texture.Texture)

	// Transform returns the current model-view and projection matrices.
	Transform() Transform

	// SetTransform replaces the matrices written into the model's uniforms on the next draw.
	//
	// Parameters:
	//   - transform: the new transform
	SetTransform(transform Transform)

	// Delete releases the geometry buffer's GPU objects. The texture is not owned and stays alive.
	//
	// Parameters:
	//   - ctx: the GPU context the model was built on
	Delete(ctx gpu.Context)
}

// model holds the state shared by every drawable kind.
type model[V variables.Set] struct {
	vars      V
	geometry  *GeometryBuffer[V]
	texture   texture.Texture
	transform Transform
}

func (m *model[V]) Variables() V                     { return m.vars }
func (m *model[V]) Geometry() *GeometryBuffer[V]     { return m.geometry }
func (m *model[V]) Texture() texture.Texture         { return m.texture }
func (m *model[V]) SetTexture(tex texture.Texture)   { m.texture = tex }
func (m *model[V]) Transform() Transform             { return m.transform }
func (m *model[V]) SetTransform(transform Transform) { m.transform = transform }
func (m *model[V]) Delete(ctx gpu.Context)           { m.geometry.Delete(ctx) }

func (m *model[V]) Build(ctx gpu.Context, vs program.VertexShading[V], _ program.FragmentShading, prog uint32) error {
	return m.geometry.Build(ctx, vs.Variables(), m.vars, prog)
}

// draw uploads the drawable's uniforms, binds its texture and issues the draw call.
func (m *model[V]) draw(ctx gpu.Context) {
	m.vars.Draw(ctx)
	if m.texture != nil {
		m.texture.Bind()
	}
	m.geometry.Draw(ctx)
}

// flatSquarePT is the implementation of the FlatSquarePT drawable.
type flatSquarePT struct {
	model[*variables.PT]
}

var _ Model[*variables.PT] = &flatSquarePT{}

// NewFlatSquarePT creates an unbuilt unit square drawable for programs whose vertex shading uses PT
// variables. Add it to a program to build it.
//
// Parameters:
//   - options: functional options; WithTexture and WithTransform apply
//
// Returns:
//   - Model[*variables.PT]: the drawable
func NewFlatSquarePT(options ...ModelBuilderOption) Model[*variables.PT] {
	cfg := defaultModelConfig()
	for _, opt := range options {
		opt(cfg)
	}

	vertices, elements := FlatSquarePTGeometry()
	return &flatSquarePT{model: model[*variables.PT]{
		vars:      variables.PTForDrawable(),
		geometry:  NewGeometryBuffer[*variables.PT](common.SliceToBytes(vertices), elements, gpu.TRIANGLE_STRIP),
		texture:   cfg.texture,
		transform: cfg.transform,
	}}
}

func (m *flatSquarePT) Draw(ctx gpu.Context, _ program.VertexShading[*variables.PT], _ program.FragmentShading) {
	m.vars.ModelViewProjMat.Value = m.transform.ModelViewProj()
	m.draw(ctx)
}

// pntModel is the implementation of the PNT drawables: the flattish square and imported meshes.
type pntModel struct {
	model[*variables.PNT]
}

var _ Model[*variables.PNT] = &pntModel{}

// NewFlattishSquarePNT creates an unbuilt tessellated square drawable for programs whose vertex shading
// uses PNT variables. See FlattishSquarePNTGeometry for the surface.
//
// Parameters:
//   - options: functional options; WithTexture, WithTransform, WithGridSize and WithMaxZ apply
//
// Returns:
//   - Model[*variables.PNT]: the drawable
func NewFlattishSquarePNT(options ...ModelBuilderOption) Model[*variables.PNT] {
	cfg := defaultModelConfig()
	for _, opt := range options {
		opt(cfg)
	}

	vertices, elements := FlattishSquarePNTGeometry(cfg.numVerticesX, cfg.numVerticesY, cfg.maxZ)
	return newPNTModel(cfg, vertices, elements, gpu.TRIANGLE_STRIP)
}

// NewMeshPNT creates an unbuilt drawable from indexed triangles, e.g. a mesh imported by the loader package.
// The vertices are copied on construction.
//
// Parameters:
//   - vertices: the interleaved vertex data
//   - elements: triangle list indices into vertices
//   - options: functional options; WithTexture and WithTransform apply
//
// Returns:
//   - Model[*variables.PNT]: the drawable
func NewMeshPNT(vertices []variables.PNTVertex, elements []uint32, options ...ModelBuilderOption) Model[*variables.PNT] {
	cfg := defaultModelConfig()
	for _, opt := range options {
		opt(cfg)
	}
	return newPNTModel(cfg, slices.Clone(vertices), slices.Clone(elements), gpu.TRIANGLES)
}

func newPNTModel(cfg *modelConfig, vertices []variables.PNTVertex, elements []uint32, topology gpu.Enum) *pntModel {
	return &pntModel{model: model[*variables.PNT]{
		vars:      variables.PNTForDrawable(),
		geometry:  NewGeometryBuffer[*variables.PNT](common.SliceToBytes(vertices), elements, topology),
		texture:   cfg.texture,
		transform: cfg.transform,
	}}
}

func (m *pntModel) Draw(ctx gpu.Context, _ program.VertexShading[*variables.PNT], _ program.FragmentShading) {
	m.vars.ModelViewProjMat.Value = m.transform.ModelViewProj()
	m.vars.NormalMat.Value = common.NormalMatrix(m.transform.ModelView)
	m.draw(ctx)
}
