// Package light holds the scene's directional light and applies it to the Phong lighting uniforms.
package light

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/go-gl/mathgl/mgl32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction mgl32.Vec3
	color     mgl32.Vec3
	ambient   mgl32.Vec3
	intensity float32
	shininess float32
	strength  float32
	enabled   bool
}

// Light is a directional light with no position, like the sun. Its direction points from the lit surface
// toward the light, in world space.
//
// The shaders light in eye space, so Apply rotates the direction by the camera's view matrix before writing it
// to the lighting uniforms.
type Light interface {
	// Direction returns the normalized world-space direction toward the light.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light before intensity is applied.
	Color() mgl32.Vec3

	// Ambient returns the RGB ambient term.
	Ambient() mgl32.Vec3

	// Intensity returns the scalar multiplier applied to Color.
	Intensity() float32

	// Shininess returns the specular exponent.
	Shininess() float32

	// Strength returns the specular strength.
	Strength() float32

	// Enabled reports whether the light contributes diffuse and specular terms.
	Enabled() bool

	// SetDirection sets the direction toward the light and normalizes it. A zero vector is ignored.
	//
	// Parameters:
	//   - direction: world-space direction
	SetDirection(direction mgl32.Vec3)

	// Rotate spins the direction about the world Y axis.
	//
	// Parameters:
	//   - angle: rotation in radians
	Rotate(angle float32)

	SetColor(color mgl32.Vec3)
	SetAmbient(ambient mgl32.Vec3)
	SetIntensity(intensity float32)
	SetShininess(shininess float32)
	SetStrength(strength float32)
	SetEnabled(enabled bool)

	// Apply writes the light into the lighting uniforms. A disabled light leaves only the ambient term.
	//
	// Parameters:
	//   - vars: the uniforms of a Phong fragment stage
	//   - view: the camera's world-to-eye matrix
	Apply(vars *shading.PhongVariables, view mgl32.Mat4)
}

var _ Light = &lightImpl{}

// NewLight creates a directional light. Defaults match the Phong stage's own: 0.6 grey light from
// normalize(1, 2, 2), 0.3 grey ambient, shininess 5 and strength 1.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: mgl32.Vec3{1, 2, 2}.Normalize(),
		color:     mgl32.Vec3{0.6, 0.6, 0.6},
		ambient:   mgl32.Vec3{0.3, 0.3, 0.3},
		intensity: 1,
		shininess: 5,
		strength:  1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() mgl32.Vec3 { return l.direction }
func (l *lightImpl) Color() mgl32.Vec3     { return l.color }
func (l *lightImpl) Ambient() mgl32.Vec3   { return l.ambient }
func (l *lightImpl) Intensity() float32    { return l.intensity }
func (l *lightImpl) Shininess() float32    { return l.shininess }
func (l *lightImpl) Strength() float32     { return l.strength }
func (l *lightImpl) Enabled() bool         { return l.enabled }

func (l *lightImpl) SetDirection(direction mgl32.Vec3) {
	if direction.Len() == 0 {
		return
	}
	l.direction = direction.Normalize()
}

func (l *lightImpl) Rotate(angle float32) {
	l.direction = mgl32.HomogRotate3DY(angle).Mul4x1(l.direction.Vec4(0)).Vec3().Normalize()
}

func (l *lightImpl) SetColor(color mgl32.Vec3)     { l.color = color }
func (l *lightImpl) SetAmbient(ambient mgl32.Vec3) { l.ambient = ambient }
func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}
func (l *lightImpl) SetShininess(shininess float32) { l.shininess = shininess }
func (l *lightImpl) SetStrength(strength float32)   { l.strength = strength }
func (l *lightImpl) SetEnabled(enabled bool)        { l.enabled = enabled }

func (l *lightImpl) Apply(vars *shading.PhongVariables, view mgl32.Mat4) {
	eye := view.Mat3().Mul3x1(l.direction)
	if eye.Len() > 0 {
		eye = eye.Normalize()
	}
	vars.LightDirection.Value = eye
	vars.AmbientColor.Value = l.ambient
	vars.Shininess.Value = l.shininess
	vars.Strength.Value = l.strength
	if l.enabled {
		vars.LightColor.Value = l.color.Mul(l.intensity)
	} else {
		vars.LightColor.Value = mgl32.Vec3{}
	}
}
