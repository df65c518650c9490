package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject(model.NewFlatSquarePT())

	assert.True(t, obj.Enabled())
	assert.Zero(t, obj.ID())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Equal(t, mgl32.Ident4(), obj.ModelMatrix())
}

func TestModelMatrixOrder(t *testing.T) {
	obj := NewGameObject(model.NewFlatSquarePT(),
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithRotation(mgl32.Vec3{0, 0, math.Pi / 2}),
		WithScale(mgl32.Vec3{2, 2, 2}),
	)

	// Scale, then a quarter turn about Z, then translate.
	p := obj.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDeltaSlice(t, []float32{1, 4, 3, 1}, p[:], 1e-5)
}

func TestUpdateAdvancesRotation(t *testing.T) {
	obj := NewGameObject(model.NewFlatSquarePT(), WithRotationSpeed(mgl32.Vec3{0, 1, 0}))

	obj.Update(0.5)
	obj.Update(0.25)
	assert.InDelta(t, 0.75, obj.Rotation().Y(), 1e-6)
}

func TestApplySetsModelTransform(t *testing.T) {
	m := model.NewFlattishSquarePNT()
	obj := NewGameObject(m, WithPosition(mgl32.Vec3{0, 0, -2}), WithID(7), WithEnabled(false))
	cam := camera.NewCamera(camera.WithAspect(1.5))

	obj.Apply(cam)
	assert.Equal(t, cam.Transform(obj.ModelMatrix()), m.Transform())
	assert.Equal(t, uint64(7), obj.ID())
	assert.False(t, obj.Enabled())
}
