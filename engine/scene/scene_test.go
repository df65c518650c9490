package scene_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phongProgram(t *testing.T, ctx *gputest.Context) (program.Program[*variables.PNT], shading.PhongFragmentShader) {
	t.Helper()
	vs, err := shading.NewBasicVertexShaderPNT(ctx)
	require.NoError(t, err)
	fs, err := shading.NewPhongOneDirectionalFragmentShaderPNT(ctx)
	require.NoError(t, err)
	p, err := program.NewProgram[*variables.PNT](ctx, vs, fs)
	require.NoError(t, err)
	return p, fs
}

func TestNewScenePanicsWithoutProgram(t *testing.T) {
	assert.Panics(t, func() {
		scene.NewScene[*variables.PT]("empty", nil, camera.NewCamera())
	})
}

func TestAddAssignsIDs(t *testing.T) {
	ctx := gputest.New()
	p, _ := phongProgram(t, ctx)
	s := scene.NewScene("ids", p, camera.NewCamera())

	first, err := s.Add(game_object.NewGameObject(model.NewFlattishSquarePNT()))
	require.NoError(t, err)
	second, err := s.Add(game_object.NewGameObject(model.NewFlattishSquarePNT(), game_object.WithID(first)))
	require.NoError(t, err)
	explicit, err := s.Add(game_object.NewGameObject(model.NewFlattishSquarePNT(), game_object.WithID(10)))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second, "a taken ID is replaced")
	assert.Equal(t, uint64(10), explicit)
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 3, p.Drawables())

	objs := s.Objects()
	require.Len(t, objs, 3)
	assert.Equal(t, []uint64{1, 2, 10}, []uint64{objs[0].ID(), objs[1].ID(), objs[2].ID()})
}

func TestAddBuildFailure(t *testing.T) {
	ctx := gputest.New()
	p, _ := phongProgram(t, ctx)
	s := scene.NewScene("fail", p, camera.NewCamera())

	ctx.FailAllocation(gputest.ObjectBuffer, 0)
	_, err := s.Add(game_object.NewGameObject(model.NewFlattishSquarePNT()))
	assert.ErrorIs(t, err, gpu.ErrAllocation)
	assert.Zero(t, s.Count())
	assert.Zero(t, p.Drawables())
}

func TestDrawAppliesCameraAndLight(t *testing.T) {
	ctx := gputest.New()
	p, fs := phongProgram(t, ctx)
	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController(camera.WithRadius(4))))
	l := light.NewLight(light.WithDirection(mgl32.Vec3{0, 1, 0}), light.WithColor(mgl32.Vec3{1, 1, 1}))
	s := scene.NewScene("lit", p, cam, scene.WithLight(l))

	obj := game_object.NewGameObject(model.NewFlattishSquarePNT(), game_object.WithPosition(mgl32.Vec3{0, 1, 0}))
	_, err := s.Add(obj)
	require.NoError(t, err)

	s.Draw()
	assert.Empty(t, ctx.Draws, "inactive scenes do not draw")

	s.SetActive(true)
	s.Draw()
	require.Len(t, ctx.Draws, 1)
	assert.Equal(t, p.ID(), ctx.Draws[0].Program)
	assert.Equal(t, cam.Transform(obj.ModelMatrix()), obj.Model().Transform())

	vars := fs.Variables()
	want := cam.ViewMatrix().Mat3().Mul3x1(mgl32.Vec3{0, 1, 0}).Normalize()
	assert.InDeltaSlice(t, want[:], vars.LightDirection.Value[:], 1e-6)
	assert.Equal(t, vars.LightDirection.Value, ctx.UniformValue(p.ID(), vars.LightDirection.Location()))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, ctx.UniformValue(p.ID(), vars.LightColor.Location()))
}

func TestDisabledAndRemovedObjectsAreSkipped(t *testing.T) {
	ctx := gputest.New()
	p, _ := phongProgram(t, ctx)
	s := scene.NewScene("skip", p, camera.NewCamera(), scene.WithActive(true))

	a := game_object.NewGameObject(model.NewFlattishSquarePNT())
	b := game_object.NewGameObject(model.NewFlattishSquarePNT())
	idA, err := s.Add(a)
	require.NoError(t, err)
	_, err = s.Add(b)
	require.NoError(t, err)

	s.Draw()
	assert.Len(t, ctx.Draws, 2)

	a.SetEnabled(false)
	s.Draw()
	assert.Len(t, ctx.Draws, 3)

	assert.Same(t, a, s.Remove(idA))
	assert.Nil(t, s.Remove(idA))
	assert.Nil(t, s.Get(idA))
	assert.Equal(t, 1, p.Drawables())

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Zero(t, p.Drawables())
	s.Draw()
	assert.Len(t, ctx.Draws, 3)
}

func TestUpdateSkipsDisabledObjects(t *testing.T) {
	ctx := gputest.New()
	p, _ := phongProgram(t, ctx)
	s := scene.NewScene("spin", p, camera.NewCamera())

	spinning := game_object.NewGameObject(model.NewFlattishSquarePNT(), game_object.WithRotationSpeed(mgl32.Vec3{1, 0, 0}))
	frozen := game_object.NewGameObject(model.NewFlattishSquarePNT(),
		game_object.WithRotationSpeed(mgl32.Vec3{1, 0, 0}),
		game_object.WithEnabled(false),
	)
	_, err := s.Add(spinning)
	require.NoError(t, err)
	_, err = s.Add(frozen)
	require.NoError(t, err)

	s.Update(0.5)
	assert.InDelta(t, 0.5, spinning.Rotation().X(), 1e-6)
	assert.Zero(t, frozen.Rotation().X())
}
