package shader

// ShaderBuilderOption is a functional option for configuring a Unit during Compile.
type ShaderBuilderOption func(*unit)

// WithLabel sets the name used for the unit in log output and errors.
//
// Parameters:
//   - label: a human readable name, e.g. "phong fragment"
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithLabel(label string) ShaderBuilderOption {
	return func(u *unit) {
		u.label = label
	}
}

// WithVersion sets the #version text injected when the source does not declare one.
// Use "300 es" for GLSL ES targets. An empty string disables injection.
//
// Parameters:
//   - version: the version text following #version
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithVersion(version string) ShaderBuilderOption {
	return func(u *unit) {
		u.version = version
	}
}

// WithChunk registers an additional include chunk available to //@oxy:include annotations.
//
// Parameters:
//   - key: the include argument that selects the chunk
//   - source: the GLSL text injected in place of the annotation
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithChunk(key AnnotationArg, source string) ShaderBuilderOption {
	return func(u *unit) {
		u.chunks[key] = source
	}
}
