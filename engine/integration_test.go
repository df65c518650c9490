//go:build integration

package engine_test

import (
	"runtime"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTexturedSquareReadback clears a 2x2 viewport to red, draws a solid green unit square moved right by half
// a unit through modelViewProjMatrix, and reads back the left and right pixel columns.
func TestTexturedSquareReadback(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfg := engine.DefaultConfig()
	cfg.Window.Width = 64
	cfg.Window.Height = 64
	cfg.Window.Hidden = true
	cfg.Window.VSync = false
	cfg.Render.DepthTest = false
	cfg.Render.ClearColor = [4]float32{1, 0, 0, 1}

	eng, err := engine.NewEngine(engine.WithConfig(cfg))
	if err != nil {
		t.Skipf("no OpenGL 4.1 window available: %v", err)
	}
	defer eng.Close()
	gl := eng.GL()
	t.Logf("GL %s", eng.Window().GLVersion())

	vs, err := shading.NewBasicVertexShaderPT(gl)
	require.NoError(t, err)
	fs, err := shading.NewBasicFragmentShaderPT(gl)
	require.NoError(t, err)
	prog, err := program.NewProgram[*variables.PT](gl, vs, fs)
	require.NoError(t, err)
	defer prog.Delete()

	tex := eng.NewTexture()
	require.NoError(t, tex.Set([]byte{0, 255, 0, 255}, 1, 1, gpu.RGBA))

	// x spans [0, 1] after the translation, the right half of clip space. The square is stretched vertically so
	// both pixel rows sample its interior rather than its edges.
	square := model.NewFlatSquarePT(
		model.WithTexture(tex),
		model.WithTransform(model.Transform{
			ModelView:  mgl32.Translate3D(0.5, 0, 0).Mul4(mgl32.Scale3D(1, 2, 1)),
			Projection: mgl32.Ident4(),
		}),
	)
	require.NoError(t, prog.AddDrawable(square))
	defer square.Delete(gl)

	eng.AddDrawer(0, prog)
	gl.Viewport(0, 0, 2, 2)

	// Read inside the render callback, before the frame's buffer swap.
	var pixels [2][2][]byte
	eng.SetRenderCallback(func(float32) {
		for x := range 2 {
			for y := range 2 {
				pixels[x][y] = gl.ReadPixels(int32(x), int32(y), 1, 1)
			}
		}
	})
	eng.Frame()

	for y := range 2 {
		assert.Equal(t, []byte{255, 0, 0, 255}, pixels[0][y], "left column, row %d", y)
		assert.Equal(t, []byte{0, 255, 0, 255}, pixels[1][y], "right column, row %d", y)
	}
}
