package program

// programConfig holds construction settings that do not outlive NewProgram.
type programConfig struct {
	primitiveRestart bool
}

// ProgramBuilderOption is a functional option for configuring NewProgram.
type ProgramBuilderOption func(*programConfig)

// WithPrimitiveRestart controls whether linking enables primitive restart on the context (default true).
// Strip drawables separated by gpu.RestartIndex need it.
//
// Parameters:
//   - enabled: false to leave the context's primitive restart state alone
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithPrimitiveRestart(enabled bool) ProgramBuilderOption {
	return func(c *programConfig) {
		c.primitiveRestart = enabled
	}
}
