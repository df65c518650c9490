// Package scene groups game objects drawn by one program under a camera and an optional directional light.
package scene

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
)

// Scene owns a registry of game objects and draws them through its program. A Scene satisfies the engine's
// drawer contract, so it can be registered on an Engine directly.
//
// Add, Remove and Clear touch the program's drawable list and therefore must run on the render thread, e.g. in
// the tick callback. Name, Active and Update are safe from any goroutine.
type Scene[V variables.Set] interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is drawn.
	Active() bool

	// SetActive sets whether this scene is drawn.
	SetActive(active bool)

	// Program returns the program every object is drawn with.
	Program() program.Program[V]

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Light returns the scene's light, or nil.
	Light() light.Light

	// SetLight replaces the scene's light. The light is applied on draw only when the program's fragment
	// shading exposes Phong lighting uniforms.
	//
	// Parameters:
	//   - l: the new light, or nil
	SetLight(l light.Light)

	// Count returns the number of objects in the registry.
	Count() int

	// Add builds the object's model against the program and registers the object. An object without an ID is
	// assigned the next free one.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	//   - error: the model's build error; the object is not registered
	Add(obj game_object.GameObject[V]) (uint64, error)

	// Get returns the object with the given ID, or nil.
	Get(id uint64) game_object.GameObject[V]

	// Objects returns the registered objects in ID order.
	Objects() []game_object.GameObject[V]

	// Remove unregisters an object and detaches it from the program. Its model keeps its GPU objects; call
	// Model().Delete to release them.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject[V]: the removed object, or nil if the ID is unknown
	Remove(id uint64) game_object.GameObject[V]

	// Clear removes every object.
	Clear()

	// Update advances every enabled object by dt seconds.
	Update(dt float32)

	// Draw hands every object its transform through the camera, applies the light and draws the program.
	// Nothing happens while the scene is inactive.
	Draw()
}

type scene[V variables.Set] struct {
	mu *sync.RWMutex

	name   string
	active atomic.Bool

	prog  program.Program[V]
	cam   camera.Camera
	light light.Light

	registry map[uint64]*objectDrawable[V]
	nextID   uint64
}

var _ Scene[*variables.PT] = &scene[*variables.PT]{}

// objectDrawable adapts a game object to the program's drawable list, skipping disabled objects at draw time.
type objectDrawable[V variables.Set] struct {
	obj game_object.GameObject[V]
}

func (d *objectDrawable[V]) Variables() V {
	return d.obj.Model().Variables()
}

func (d *objectDrawable[V]) Build(ctx gpu.Context, vs program.VertexShading[V], fs program.FragmentShading, id uint32) error {
	return d.obj.Model().Build(ctx, vs, fs, id)
}

func (d *objectDrawable[V]) Draw(ctx gpu.Context, vs program.VertexShading[V], fs program.FragmentShading) {
	if !d.obj.Enabled() {
		return
	}
	d.obj.Model().Draw(ctx, vs, fs)
}

// NewScene creates an inactive, empty scene. The program and camera are required; NewScene panics if either is
// nil.
//
// Parameters:
//   - name: the name of the scene
//   - prog: the linked program objects are drawn with
//   - cam: the viewing camera
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene[V]: the newly created scene
func NewScene[V variables.Set](name string, prog program.Program[V], cam camera.Camera, options ...SceneBuilderOption) Scene[V] {
	if prog == nil {
		panic("scene: NewScene requires a non-nil Program")
	}
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	cfg := &sceneConfig{}
	for _, option := range options {
		option(cfg)
	}

	s := &scene[V]{
		mu:       &sync.RWMutex{},
		name:     name,
		prog:     prog,
		cam:      cam,
		light:    cfg.light,
		registry: make(map[uint64]*objectDrawable[V]),
		nextID:   1,
	}
	s.active.Store(cfg.active)
	return s
}

func (s *scene[V]) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene[V]) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene[V]) Active() bool          { return s.active.Load() }
func (s *scene[V]) SetActive(active bool) { s.active.Store(active) }

func (s *scene[V]) Program() program.Program[V] { return s.prog }

func (s *scene[V]) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene[V]) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene[V]) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.light
}

func (s *scene[V]) SetLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.light = l
}

func (s *scene[V]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene[V]) Add(obj game_object.GameObject[V]) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := obj.ID()
	if id == 0 {
		id = s.nextID
	}
	if _, taken := s.registry[id]; taken {
		id = s.nextID
		for s.registry[id] != nil {
			id++
		}
	}

	d := &objectDrawable[V]{obj: obj}
	if err := s.prog.AddDrawable(d); err != nil {
		return 0, err
	}
	obj.SetID(id)
	s.registry[id] = d
	if id >= s.nextID {
		s.nextID = id + 1
	}
	common.Logger().Debug("scene object added", "scene", s.name, "id", id)
	return id, nil
}

func (s *scene[V]) Get(id uint64) game_object.GameObject[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.registry[id]; ok {
		return d.obj
	}
	return nil
}

func (s *scene[V]) Objects() []game_object.GameObject[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// sortedLocked returns the registered objects in ID order. The caller holds s.mu.
func (s *scene[V]) sortedLocked() []game_object.GameObject[V] {
	ids := make([]uint64, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]game_object.GameObject[V], len(ids))
	for i, id := range ids {
		out[i] = s.registry[id].obj
	}
	return out
}

func (s *scene[V]) Remove(id uint64) game_object.GameObject[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.registry[id]
	if !ok {
		return nil
	}
	delete(s.registry, id)
	s.prog.RemoveDrawable(d)
	return d.obj
}

func (s *scene[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.registry {
		s.prog.RemoveDrawable(d)
		delete(s.registry, id)
	}
}

func (s *scene[V]) Update(dt float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.registry {
		if d.obj.Enabled() {
			d.obj.Update(dt)
		}
	}
}

func (s *scene[V]) Draw() {
	if !s.active.Load() {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.cam.Update()
	for _, d := range s.registry {
		d.obj.Apply(s.cam)
	}
	if s.light != nil {
		if lit, ok := s.prog.FragmentShading().(interface {
			Variables() *shading.PhongVariables
		}); ok {
			s.light.Apply(lit.Variables(), s.cam.ViewMatrix())
		}
	}
	s.prog.Draw()
}
