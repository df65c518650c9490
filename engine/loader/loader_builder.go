package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFlipV sets whether texture coordinates are flipped vertically on import.
//
// Parameters:
//   - flip: true (the default) converts from glTF's top-left origin to GL's bottom-left
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithFlipV(flip bool) LoaderBuilderOption {
	return func(l *loader) {
		l.flipV = flip
	}
}

// WithBaseDir sets the directory external buffer URIs resolve against in LoadReader. Load always uses the
// file's own directory.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}

// WithMeshes pre-populates the cache.
//
// Parameters:
//   - key: the cache key
//   - meshes: the meshes returned for key
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithMeshes(key string, meshes []Mesh) LoaderBuilderOption {
	return func(l *loader) {
		l.meshCache[key] = meshes
	}
}
