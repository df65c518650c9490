// Package game_object places a model in the world: position, rotation and scale produce the model matrix the
// camera turns into the model's transform.
package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
	"github.com/go-gl/mathgl/mgl32"
)

// transformState is the non-generic part of a game object, configured by GameObjectBuilderOption.
type transformState struct {
	id            uint64
	enabled       atomic.Bool
	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3
	scale         mgl32.Vec3
}

type gameObject[V variables.Set] struct {
	transformState
	mdl model.Model[V]
}

// GameObject is a scene entity owning one model. Rotation is a set of Euler angles in radians applied X, then Y,
// then Z; RotationSpeed advances them in radians per second on Update.
type GameObject[V variables.Set] interface {
	// ID returns the object's identifier. Zero until a scene assigns one.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's identifier.
	SetID(id uint64)

	// Enabled reports whether the object is drawn.
	Enabled() bool

	// SetEnabled sets whether the object is drawn. Safe to call from any goroutine.
	SetEnabled(enabled bool)

	// Model returns the model this object places.
	Model() model.Model[V]

	Position() mgl32.Vec3
	SetPosition(position mgl32.Vec3)
	Rotation() mgl32.Vec3
	SetRotation(rotation mgl32.Vec3)
	RotationSpeed() mgl32.Vec3
	SetRotationSpeed(speed mgl32.Vec3)
	Scale() mgl32.Vec3
	SetScale(scale mgl32.Vec3)

	// ModelMatrix returns Translate * RotateZ * RotateY * RotateX * Scale.
	//
	// Returns:
	//   - mgl32.Mat4: the model-to-world matrix
	ModelMatrix() mgl32.Mat4

	// Update advances the rotation by RotationSpeed over dt.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Apply hands the model its transform as seen through the camera.
	//
	// Parameters:
	//   - cam: the viewing camera
	Apply(cam camera.Camera)
}

var _ GameObject[*variables.PT] = &gameObject[*variables.PT]{}

// NewGameObject creates an enabled game object at the origin with unit scale.
//
// Parameters:
//   - m: the model to place
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject[V]: the newly created object
func NewGameObject[V variables.Set](m model.Model[V], options ...GameObjectBuilderOption) GameObject[V] {
	obj := &gameObject[V]{mdl: m}
	obj.scale = mgl32.Vec3{1, 1, 1}
	obj.enabled.Store(true)
	for _, opt := range options {
		opt(&obj.transformState)
	}
	return obj
}

func (g *gameObject[V]) ID() uint64                { return g.id }
func (g *gameObject[V]) SetID(id uint64)           { g.id = id }
func (g *gameObject[V]) Enabled() bool             { return g.enabled.Load() }
func (g *gameObject[V]) SetEnabled(enabled bool)   { g.enabled.Store(enabled) }
func (g *gameObject[V]) Model() model.Model[V]     { return g.mdl }
func (g *gameObject[V]) Position() mgl32.Vec3      { return g.position }
func (g *gameObject[V]) Rotation() mgl32.Vec3      { return g.rotation }
func (g *gameObject[V]) RotationSpeed() mgl32.Vec3 { return g.rotationSpeed }
func (g *gameObject[V]) Scale() mgl32.Vec3         { return g.scale }

func (g *gameObject[V]) SetPosition(position mgl32.Vec3)   { g.position = position }
func (g *gameObject[V]) SetRotation(rotation mgl32.Vec3)   { g.rotation = rotation }
func (g *gameObject[V]) SetRotationSpeed(speed mgl32.Vec3) { g.rotationSpeed = speed }
func (g *gameObject[V]) SetScale(scale mgl32.Vec3)         { g.scale = scale }

func (g *gameObject[V]) ModelMatrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DZ(g.rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(g.rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(g.rotation.X()))
	return mgl32.Translate3D(g.position.Elem()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(g.scale.Elem()))
}

func (g *gameObject[V]) Update(dt float32) {
	g.rotation = g.rotation.Add(g.rotationSpeed.Mul(dt))
}

func (g *gameObject[V]) Apply(cam camera.Camera) {
	g.mdl.SetTransform(cam.Transform(g.ModelMatrix()))
}
