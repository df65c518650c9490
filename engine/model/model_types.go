package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places a drawable: ModelView takes model space to eye space and Projection takes eye space to
// clip space.
type Transform struct {
	ModelView  mgl32.Mat4
	Projection mgl32.Mat4
}

// IdentityTransform returns a Transform that leaves positions untouched.
func IdentityTransform() Transform {
	return Transform{ModelView: mgl32.Ident4(), Projection: mgl32.Ident4()}
}

// ModelViewProj returns Projection * ModelView.
func (t Transform) ModelViewProj() mgl32.Mat4 {
	return t.Projection.Mul4(t.ModelView)
}

// FlatSquarePTGeometry returns the vertices and elements of a unit square in the X-Y plane centered on the
// origin, drawn as one triangle strip. Texture coordinates span the full [0, 1] range with t = 1 at the top.
//
// Returns:
//   - []variables.PTVertex: the four corner vertices
//   - []uint32: the strip elements
func FlatSquarePTGeometry() ([]variables.PTVertex, []uint32) {
	vertices := []variables.PTVertex{
		{Position: [4]float32{-0.5, 0.5, 0, 1}, Texture: [2]uint16{0, math.MaxUint16}},
		{Position: [4]float32{-0.5, -0.5, 0, 1}, Texture: [2]uint16{0, 0}},
		{Position: [4]float32{0.5, 0.5, 0, 1}, Texture: [2]uint16{math.MaxUint16, math.MaxUint16}},
		{Position: [4]float32{0.5, -0.5, 0, 1}, Texture: [2]uint16{math.MaxUint16, 0}},
	}
	return vertices, []uint32{0, 1, 2, 3}
}

// FlattishSquarePNTGeometry tessellates a unit square in the X-Y plane into an nx by ny vertex grid, with
// rows running from y = 0.5 down to y = -0.5. When maxZ is non-zero the surface bulges along Z as
// maxZ * sin(pi*(x+0.5)) * sin(pi*(y+0.5)) and normals come from finite differences of that height;
// otherwise every normal is +Z. Each pair of adjacent rows forms one triangle strip terminated by
// gpu.RestartIndex, so the whole grid draws with a single call.
//
// Parameters:
//   - nx: vertices per row, at least 2
//   - ny: number of rows, at least 2
//   - maxZ: bulge height at the center
//
// Returns:
//   - []variables.PNTVertex: nx*ny vertices in row-major order
//   - []uint32: the strip elements
func FlattishSquarePNTGeometry(nx, ny int, maxZ float32) ([]variables.PNTVertex, []uint32) {
	if nx < 2 || ny < 2 {
		panic("flattish square needs at least 2x2 vertices")
	}

	vertices := make([]variables.PNTVertex, 0, nx*ny)
	elements := make([]uint32, 0, (ny-1)*(2*nx+1))

	deltaX := 1 / float32(nx-1)
	deltaY := -1 / float32(ny-1)
	deltaS := math.MaxUint16 / (nx - 1)
	deltaT := -math.MaxUint16 / (ny - 1)
	bulge := maxZ != 0

	y := float32(0.5)
	t := math.MaxUint16
	row := uint32(0)
	for iy := 0; iy < ny; iy++ {
		x := float32(-0.5)
		s := 0
		for ix := 0; ix < nx; ix++ {
			var z float32
			normal := mgl32.Vec3{0, 0, 1}
			if bulge {
				z = bulgeHeight(x, y, maxZ)
				const d = 1.0 / 1000
				vx := mgl32.Vec3{d, 0, bulgeHeight(x+d, y, maxZ) - z}
				vy := mgl32.Vec3{0, d, bulgeHeight(x, y+d, maxZ) - z}
				normal = vx.Cross(vy).Normalize()
			}

			vertices = append(vertices, variables.PNTVertex{
				Position: [4]float32{x, y, z, 1},
				Normal:   [3]float32{normal[0], normal[1], normal[2]},
				Texture:  [2]uint16{uint16(s), uint16(t)},
			})

			if iy < ny-1 {
				v := row + uint32(ix)
				elements = append(elements, v, v+uint32(nx))
			}

			x += deltaX
			s += deltaS
		}
		if iy < ny-1 {
			elements = append(elements, gpu.RestartIndex)
		}
		row += uint32(nx)
		y += deltaY
		t += deltaT
	}
	return vertices, elements
}

func bulgeHeight(x, y, maxZ float32) float32 {
	zx := math.Sin(float64(x+0.5) * math.Pi)
	zy := math.Sin(float64(y+0.5) * math.Pi)
	return maxZ * float32(zx*zy)
}
