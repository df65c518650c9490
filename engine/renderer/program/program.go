// Package program links a vertex and a fragment shading into a GPU program and drives the drawables attached
// to it. The vertex shading and every drawable share one variable set type, so pairing a drawable with a
// shader whose inputs it cannot satisfy is a compile error.
package program

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
)

// State is the lifecycle state of a Program.
type State int

const (
	StateUnlinked State = iota
	StateLinking
	StateLinked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnlinked:
		return "unlinked"
	case StateLinking:
		return "linking"
	case StateLinked:
		return "linked"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrNotCompiled reports a shading without a compiled shader object.
	ErrNotCompiled = errors.New("program: shading is not compiled")

	// ErrLink is wrapped by every LinkError.
	ErrLink = errors.New("program: link failed")

	// ErrPostLink reports a failed post-link hook.
	ErrPostLink = errors.New("program: post-link hook failed")

	// ErrNotLinked reports an operation that needs a linked program.
	ErrNotLinked = errors.New("program: program is not linked")
)

// LinkError carries the driver's full link log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program: link failed:\n%s", e.Log)
}

func (e *LinkError) Unwrap() error {
	return ErrLink
}

// Shading is one compiled stage taking part in a program, with hooks around linking and drawing.
type Shading interface {
	// ID returns the compiled shader handle; 0 means the shading is unusable.
	ID() uint32

	// PostLink runs once after a successful link, typically to resolve the shading's own uniforms.
	//
	// Parameters:
	//   - ctx: the GPU context
	//   - program: the linked program handle
	//
	// Returns:
	//   - error: a non-nil error fails program construction
	PostLink(ctx gpu.Context, program uint32) error

	// PreDraw runs after the program is put in use and before any drawable draws.
	PreDraw(ctx gpu.Context)

	// PostDraw runs after every drawable has drawn.
	PostDraw(ctx gpu.Context)
}

// VertexShading is a vertex stage exposing the shading-side variable set drawables connect against.
type VertexShading[V variables.Set] interface {
	Shading
	Variables() V
}

// FragmentShading is a fragment stage.
type FragmentShading interface {
	Shading
}

// Drawable is an object that can be built against and drawn with a program whose vertex shading uses V.
type Drawable[V variables.Set] interface {
	// Variables returns the drawable-side variable set.
	Variables() V

	// Build allocates the drawable's GPU objects and connects its variables to the vertex shading's.
	//
	// Parameters:
	//   - ctx: the GPU context
	//   - vs: the program's vertex shading
	//   - fs: the program's fragment shading
	//   - program: the linked program handle
	//
	// Returns:
	//   - error: non-nil if allocation or binding failed
	Build(ctx gpu.Context, vs VertexShading[V], fs FragmentShading, program uint32) error

	// Draw issues the drawable's draw calls. The program is already in use.
	Draw(ctx gpu.Context, vs VertexShading[V], fs FragmentShading)
}

// BaseShading provides no-op hooks for shadings that need none. Embed it and implement ID.
type BaseShading struct{}

func (BaseShading) PostLink(gpu.Context, uint32) error { return nil }
func (BaseShading) PreDraw(gpu.Context)                {}
func (BaseShading) PostDraw(gpu.Context)               {}

// program is the implementation of the Program interface.
type program[V variables.Set] struct {
	ctx       gpu.Context
	id        uint32
	state     State
	vs        VertexShading[V]
	fs        FragmentShading
	drawables []Drawable[V]

	primitiveRestart bool
}

// Program is a linked vertex/fragment pair with an ordered list of drawables.
type Program[V variables.Set] interface {
	// ID returns the linked program handle, or 0 after Delete.
	ID() uint32

	// State returns the lifecycle state. A Program returned by NewProgram is always StateLinked until deleted.
	State() State

	// VertexShading returns the program's vertex stage.
	VertexShading() VertexShading[V]

	// FragmentShading returns the program's fragment stage.
	FragmentShading() FragmentShading

	// AddDrawable builds the drawable against this program and appends it to the draw list. A drawable whose
	// build fails is not retained.
	//
	// Parameters:
	//   - d: the drawable to add
	//
	// Returns:
	//   - error: ErrNotLinked, or the drawable's build error
	AddDrawable(d Drawable[V]) error

	// Draw puts the program in use, runs the pre-draw hooks (vertex, then fragment), draws every drawable in
	// insertion order and runs the post-draw hooks.
	Draw()

	// RemoveDrawable forgets one drawable, keeping the order of the rest. Its GPU objects are left untouched.
	//
	// Parameters:
	//   - d: the drawable to remove, compared by identity
	//
	// Returns:
	//   - bool: true if the drawable was attached
	RemoveDrawable(d Drawable[V]) bool

	// RemoveAllDrawables forgets every drawable. Their GPU objects are left untouched.
	RemoveAllDrawables()

	// Drawables returns how many drawables are attached.
	Drawables() int

	// Delete releases the program object together with its vertex and fragment shader objects, which the
	// program owns from NewProgram on, and forgets its drawables. Drawables keep their GPU objects. Calling
	// Delete again is a no-op.
	Delete()
}

var _ Program[variables.Set] = &program[variables.Set]{}

// NewProgram links a vertex and a fragment shading into a program. On any failure nothing is returned and the
// program object, if allocated, is released. On success the program owns both shadings and Delete releases them.
//
// Parameters:
//   - ctx: the GPU context, current on the calling goroutine
//   - vs: the vertex shading
//   - fs: the fragment shading
//   - options: functional options
//
// Returns:
//   - Program[V]: the linked program
//   - error: ErrNotCompiled, gpu.ErrAllocation, a *LinkError, or ErrPostLink
func NewProgram[V variables.Set](ctx gpu.Context, vs VertexShading[V], fs FragmentShading, options ...ProgramBuilderOption) (Program[V], error) {
	cfg := &programConfig{primitiveRestart: true}
	for _, opt := range options {
		opt(cfg)
	}

	p := &program[V]{
		ctx:              ctx,
		state:            StateUnlinked,
		vs:               vs,
		fs:               fs,
		primitiveRestart: cfg.primitiveRestart,
	}
	if err := p.link(); err != nil {
		p.state = StateFailed
		return nil, err
	}
	return p, nil
}

// link runs the unlinked -> linking -> linked transition.
func (p *program[V]) link() error {
	if p.vs == nil || p.vs.ID() == 0 {
		common.Logger().Error("program vertex shading is not compiled")
		return fmt.Errorf("vertex: %w", ErrNotCompiled)
	}
	if p.fs == nil || p.fs.ID() == 0 {
		common.Logger().Error("program fragment shading is not compiled")
		return fmt.Errorf("fragment: %w", ErrNotCompiled)
	}

	p.state = StateLinking
	if p.primitiveRestart {
		enablePrimitiveRestart(p.ctx)
	}

	id := p.ctx.CreateProgram()
	if id == 0 {
		common.Logger().Error("program object allocation failed")
		return fmt.Errorf("program: %w", gpu.ErrAllocation)
	}

	p.ctx.AttachShader(id, p.vs.ID())
	p.ctx.AttachShader(id, p.fs.ID())
	p.ctx.LinkProgram(id)
	if !p.ctx.ProgramLinked(id) {
		log := p.ctx.ProgramInfoLog(id)
		p.ctx.DeleteProgram(id)
		common.Logger().Error("program link failed", "log", log)
		return &LinkError{Log: log}
	}

	if err := p.vs.PostLink(p.ctx, id); err != nil {
		p.ctx.DeleteProgram(id)
		common.Logger().Error("vertex shading post-link failed", "err", err)
		return fmt.Errorf("%w: vertex: %w", ErrPostLink, err)
	}
	if err := p.fs.PostLink(p.ctx, id); err != nil {
		p.ctx.DeleteProgram(id)
		common.Logger().Error("fragment shading post-link failed", "err", err)
		return fmt.Errorf("%w: fragment: %w", ErrPostLink, err)
	}

	p.id = id
	p.state = StateLinked
	return nil
}

func (p *program[V]) ID() uint32 {
	return p.id
}

func (p *program[V]) State() State {
	return p.state
}

func (p *program[V]) VertexShading() VertexShading[V] {
	return p.vs
}

func (p *program[V]) FragmentShading() FragmentShading {
	return p.fs
}

func (p *program[V]) AddDrawable(d Drawable[V]) error {
	if p.state != StateLinked {
		return fmt.Errorf("add drawable in state %s: %w", p.state, ErrNotLinked)
	}
	if err := d.Build(p.ctx, p.vs, p.fs, p.id); err != nil {
		common.Logger().Error("drawable build failed", "program", p.id, "err", err)
		return err
	}
	p.drawables = append(p.drawables, d)
	return nil
}

func (p *program[V]) Draw() {
	if p.state != StateLinked {
		common.Logger().Warn("skipping draw of unlinked program", "state", p.state.String())
		return
	}
	p.ctx.UseProgram(p.id)
	p.vs.PreDraw(p.ctx)
	p.fs.PreDraw(p.ctx)
	for _, d := range p.drawables {
		d.Draw(p.ctx, p.vs, p.fs)
	}
	p.vs.PostDraw(p.ctx)
	p.fs.PostDraw(p.ctx)
}

func (p *program[V]) RemoveDrawable(d Drawable[V]) bool {
	for i, existing := range p.drawables {
		if existing == d {
			p.drawables = append(p.drawables[:i], p.drawables[i+1:]...)
			return true
		}
	}
	return false
}

func (p *program[V]) RemoveAllDrawables() {
	p.drawables = nil
}

func (p *program[V]) Drawables() int {
	return len(p.drawables)
}

func (p *program[V]) Delete() {
	if p.id == 0 {
		return
	}
	p.ctx.DeleteProgram(p.id)
	releaseShading(p.ctx, p.vs)
	releaseShading(p.ctx, p.fs)
	p.id = 0
	p.drawables = nil
	p.state = StateUnlinked
}

// releaseShading deletes a stage's shader object. Stages with their own Delete go through it so their handle is
// cleared as well.
func releaseShading(ctx gpu.Context, s Shading) {
	if d, ok := s.(interface{ Delete(gpu.Context) }); ok {
		d.Delete(ctx)
		return
	}
	if id := s.ID(); id != 0 {
		ctx.DeleteShader(id)
	}
}
