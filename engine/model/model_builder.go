package model

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"

// ModelBuilderOption is a functional option for configuring a drawable via NewFlatSquarePT or
// NewFlattishSquarePNT.
type ModelBuilderOption func(*modelConfig)

type modelConfig struct {
	texture      texture.Texture
	transform    Transform
	numVerticesX int
	numVerticesY int
	maxZ         float32
}

func defaultModelConfig() *modelConfig {
	return &modelConfig{
		transform:    IdentityTransform(),
		numVerticesX: 2,
		numVerticesY: 2,
	}
}

// WithTexture is an option builder that sets the texture bound before the drawable draws.
//
// Parameters:
//   - tex: the texture, or nil to draw with whatever is bound
//
// Returns:
//   - ModelBuilderOption: a function that applies the texture option
func WithTexture(tex texture.Texture) ModelBuilderOption {
	return func(c *modelConfig) {
		c.texture = tex
	}
}

// WithTransform is an option builder that sets the initial model-view and projection matrices.
//
// Parameters:
//   - transform: the transform
//
// Returns:
//   - ModelBuilderOption: a function that applies the transform option
func WithTransform(transform Transform) ModelBuilderOption {
	return func(c *modelConfig) {
		c.transform = transform
	}
}

// WithGridSize is an option builder that sets the tessellation of a FlattishSquarePNT.
// Ignored by FlatSquarePT.
//
// Parameters:
//   - nx: vertices per row, at least 2
//   - ny: number of rows, at least 2
//
// Returns:
//   - ModelBuilderOption: a function that applies the grid option
func WithGridSize(nx, ny int) ModelBuilderOption {
	return func(c *modelConfig) {
		c.numVerticesX = nx
		c.numVerticesY = ny
	}
}

// WithMaxZ is an option builder that sets the bulge height of a FlattishSquarePNT.
func WithMaxZ(maxZ float32) ModelBuilderOption {
	return func(c *modelConfig) {
		c.maxZ = maxZ
	}
}
