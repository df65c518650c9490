package scene

import "github.com/Carmen-Shannon/oxy-gl/engine/light"

// sceneConfig holds the construction-time settings shared by every Scene instantiation.
type sceneConfig struct {
	active bool
	light  light.Light
}

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(cfg *sceneConfig)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(cfg *sceneConfig) {
		cfg.active = active
	}
}

// WithLight attaches a directional light.
//
// Parameters:
//   - l: the light applied to Phong fragment shading on every draw
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(cfg *sceneConfig) {
		cfg.light = l
	}
}
