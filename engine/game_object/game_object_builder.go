package game_object

import "github.com/go-gl/mathgl/mgl32"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*transformState)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *transformState) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *transformState) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - position: the translation applied last
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(position mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *transformState) {
		obj.position = position
	}
}

// WithRotation sets the initial Euler angles in radians.
func WithRotation(rotation mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *transformState) {
		obj.rotation = rotation
	}
}

// WithRotationSpeed sets the Euler angle rates in radians per second.
func WithRotationSpeed(speed mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *transformState) {
		obj.rotationSpeed = speed
	}
}

// WithScale sets the per-axis scale.
//
// Parameters:
//   - scale: the scale applied first
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(scale mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *transformState) {
		obj.scale = scale
	}
}
