package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection is an option builder that sets the direction toward the light.
// The direction is normalized before storing; a zero vector keeps the default.
//
// Parameters:
//   - direction: world-space direction
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(direction mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		if direction.Len() > 0 {
			l.direction = direction.Normalize()
		}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - color: the light color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(color mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithAmbient is an option builder that sets the RGB ambient term.
func WithAmbient(ambient mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = ambient
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithSpecular sets the specular exponent and strength.
func WithSpecular(shininess, strength float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shininess = shininess
		l.strength = strength
	}
}

// WithEnabled is an option builder that enables or disables the light.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
