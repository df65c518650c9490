// Package loader imports triangle meshes from glTF 2.0 files (.gltf with embedded or external buffers, or .glb)
// as PNT vertex data ready for model.NewMeshPNT.
//
// Only geometry is read: every triangle primitive of every mesh becomes one Mesh. Node transforms, materials,
// skins and animations are ignored.
package loader

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/variables"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidFile is returned for malformed glTF or GLB data.
	ErrInvalidFile = errors.New("loader: invalid glTF file")

	// ErrUnsupported is returned for valid glTF features the importer does not handle.
	ErrUnsupported = errors.New("loader: unsupported glTF feature")
)

// Mesh is one imported triangle primitive.
type Mesh struct {
	// Name is the glTF mesh name, suffixed with the primitive index when a mesh has several.
	Name     string
	Vertices []variables.PNTVertex
	Elements []uint32
}

// Model creates an unbuilt drawable for the mesh.
//
// Parameters:
//   - options: functional options; WithTexture and WithTransform apply
//
// Returns:
//   - model.Model[*variables.PNT]: the drawable
func (m Mesh) Model(options ...model.ModelBuilderOption) model.Model[*variables.PNT] {
	return model.NewMeshPNT(m.Vertices, m.Elements, options...)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	flipV   bool
	baseDir string

	meshCache map[string][]Mesh
}

// Loader imports and caches meshes. Safe for concurrent use; imports involve no GPU calls, so they may run on
// any goroutine.
type Loader interface {
	// Load imports a .gltf or .glb file and caches the result by path. A cached path is returned without
	// reading the file again.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - []Mesh: one entry per triangle primitive, in document order
	//   - error: a read error, ErrInvalidFile or ErrUnsupported
	Load(path string) ([]Mesh, error)

	// LoadReader imports a document from r and caches it under name.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: the document bytes
	//   - isGLB: true for GLB container data
	//
	// Returns:
	//   - []Mesh: one entry per triangle primitive
	//   - error: a read error, ErrInvalidFile or ErrUnsupported
	LoadReader(name string, r io.Reader, isGLB bool) ([]Mesh, error)

	// Cached returns the meshes cached under key.
	Cached(key string) ([]Mesh, bool)

	// Evict drops one cache entry.
	Evict(key string)

	// Clear drops the whole cache.
	Clear()
}

var _ Loader = &loader{}

// NewLoader creates a Loader that flips texture coordinates vertically, since glTF puts the texture origin at
// the top-left and GL samples from the bottom-left.
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		flipV:     true,
		baseDir:   ".",
		meshCache: make(map[string][]Mesh),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) Load(path string) ([]Mesh, error) {
	if meshes, ok := l.Cached(path); ok {
		return meshes, nil
	}
	p, err := parseGLTFFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return l.store(path, p)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) ([]Mesh, error) {
	if meshes, ok := l.Cached(name); ok {
		return meshes, nil
	}
	p, err := parseGLTFReader(r, isGLB, l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", name, err)
	}
	return l.store(name, p)
}

func (l *loader) store(key string, p *gltfParser) ([]Mesh, error) {
	meshes, err := extractMeshes(p, l.flipV)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", key, err)
	}
	l.mu.Lock()
	l.meshCache[key] = meshes
	l.mu.Unlock()

	common.Logger().Debug("meshes imported", "source", key, "meshes", len(meshes))
	return meshes, nil
}

func (l *loader) Cached(key string) ([]Mesh, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	meshes, ok := l.meshCache[key]
	return meshes, ok
}

func (l *loader) Evict(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.meshCache, key)
}

func (l *loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.meshCache)
}

// extractMeshes converts every primitive of the document into PNT vertices.
func extractMeshes(p *gltfParser, flipV bool) ([]Mesh, error) {
	var out []Mesh
	for mi, mesh := range p.document.Meshes {
		for pi, prim := range mesh.Primitives {
			name := mesh.Name
			if name == "" {
				name = fmt.Sprintf("mesh%d", mi)
			}
			if len(mesh.Primitives) > 1 {
				name = fmt.Sprintf("%s.%d", name, pi)
			}
			m, err := extractPrimitive(p, prim, flipV)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			m.Name = name
			out = append(out, m)
		}
	}
	return out, nil
}

func extractPrimitive(p *gltfParser, prim gltfPrimitive, flipV bool) (Mesh, error) {
	if prim.Mode != nil && *prim.Mode != gltfModeTriangles {
		return Mesh{}, fmt.Errorf("%w: primitive mode %d", ErrUnsupported, *prim.Mode)
	}
	posIdx, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return Mesh{}, fmt.Errorf("%w: primitive has no POSITION", ErrInvalidFile)
	}
	positions, err := readFloatAccessor[[3]float32](p, posIdx, gltfAccessorTypeVec3)
	if err != nil {
		return Mesh{}, err
	}

	var elements []uint32
	if prim.Indices != nil {
		if elements, err = p.readIndices(*prim.Indices); err != nil {
			return Mesh{}, err
		}
		for _, e := range elements {
			if int(e) >= len(positions) {
				return Mesh{}, fmt.Errorf("%w: index %d out of %d vertices", ErrInvalidFile, e, len(positions))
			}
		}
	} else {
		elements = make([]uint32, len(positions))
		for i := range elements {
			elements[i] = uint32(i)
		}
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltfAttributeNormal]; ok {
		if normals, err = readFloatAccessor[[3]float32](p, idx, gltfAccessorTypeVec3); err != nil {
			return Mesh{}, err
		}
	} else {
		normals = smoothNormals(positions, elements)
	}

	var texCoords [][2]float32
	if idx, ok := prim.Attributes[gltfAttributeTexCoord]; ok {
		if texCoords, err = readFloatAccessor[[2]float32](p, idx, gltfAccessorTypeVec2); err != nil {
			return Mesh{}, err
		}
	}
	if len(normals) != len(positions) || (texCoords != nil && len(texCoords) != len(positions)) {
		return Mesh{}, fmt.Errorf("%w: attribute counts differ", ErrInvalidFile)
	}

	vertices := make([]variables.PNTVertex, len(positions))
	for i, pos := range positions {
		v := &vertices[i]
		v.Position = [4]float32{pos[0], pos[1], pos[2], 1}
		v.Normal = normals[i]
		if texCoords != nil {
			s, t := texCoords[i][0], texCoords[i][1]
			if flipV {
				t = 1 - t
			}
			v.Texture = [2]uint16{common.NormalizedUint16(s), common.NormalizedUint16(t)}
		}
	}
	return Mesh{Vertices: vertices, Elements: elements}, nil
}

// smoothNormals derives per-vertex normals by summing the area-weighted normals of adjacent triangles.
// Vertices touched by no triangle get +Z.
func smoothNormals(positions [][3]float32, elements []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(elements); i += 3 {
		a, b, c := elements[i], elements[i+1], elements[i+2]
		pa, pb, pc := mgl32.Vec3(positions[a]), mgl32.Vec3(positions[b]), mgl32.Vec3(positions[c])
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	out := make([][3]float32, len(positions))
	for i, n := range acc {
		if n.Len() == 0 {
			out[i] = [3]float32{0, 0, 1}
			continue
		}
		out[i] = n.Normalize()
	}
	return out
}
