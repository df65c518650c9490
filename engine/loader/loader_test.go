package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer packs one triangle: positions (36 bytes), texture coordinates (24 bytes) and uint16 indices
// (6 bytes, padded to 8).
func triangleBuffer() []byte {
	var b bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	texCoords := [][2]float32{{0, 0}, {1, 0}, {0, 1}}
	_ = binary.Write(&b, binary.LittleEndian, positions)
	_ = binary.Write(&b, binary.LittleEndian, texCoords)
	_ = binary.Write(&b, binary.LittleEndian, []uint16{0, 1, 2, 0})
	return b.Bytes()
}

// triangleJSON describes triangleBuffer. An empty uri leaves the buffer to the GLB binary chunk.
func triangleJSON(uri, mode string) string {
	uriField := ""
	if uri != "" {
		uriField = fmt.Sprintf(`"uri": %q,`, uri)
	}
	modeField := ""
	if mode != "" {
		modeField = `, "mode": ` + mode
	}
	return `{
  "asset": {"version": "2.0"},
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0, "TEXCOORD_0": 1}, "indices": 2` + modeField + `}]}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC2"},
    {"bufferView": 2, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 24},
    {"buffer": 0, "byteOffset": 60, "byteLength": 6}
  ],
  "buffers": [{` + uriField + ` "byteLength": 68}]
}`
}

func embeddedTriangle() string {
	return triangleJSON("data:application/octet-stream;base64,"+base64.StdEncoding.EncodeToString(triangleBuffer()), "")
}

func glb(jsonDoc string, bin []byte) []byte {
	pad := func(b []byte, with byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, with)
		}
		return b
	}
	j := pad([]byte(jsonDoc), ' ')
	bin = pad(append([]byte(nil), bin...), 0)

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: 2, Length: uint32(12 + 8 + len(j) + 8 + len(bin))})
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(j)), ChunkType: gltfGLBChunkJSON})
	out.Write(j)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	out.Write(bin)
	return out.Bytes()
}

func assertTriangle(t *testing.T, meshes []Mesh) {
	t.Helper()
	require.Len(t, meshes, 1)
	m := meshes[0]
	assert.Equal(t, "tri", m.Name)
	assert.Equal(t, []uint32{0, 1, 2}, m.Elements)
	require.Len(t, m.Vertices, 3)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, m.Vertices[1].Position)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal[2], 1e-6, "normals derived from the counter-clockwise winding")
	}
	// glTF's top-left origin is flipped to GL's bottom-left.
	assert.Equal(t, [2]uint16{0, math.MaxUint16}, m.Vertices[0].Texture)
	assert.Equal(t, [2]uint16{0, 0}, m.Vertices[2].Texture)
}

func TestLoadReaderEmbedded(t *testing.T) {
	l := NewLoader()
	meshes, err := l.LoadReader("tri", strings.NewReader(embeddedTriangle()), false)
	require.NoError(t, err)
	assertTriangle(t, meshes)

	cached, ok := l.Cached("tri")
	assert.True(t, ok)
	assert.Equal(t, meshes, cached)

	// A cached name does not read the reader.
	again, err := l.LoadReader("tri", strings.NewReader("not json"), false)
	require.NoError(t, err)
	assert.Equal(t, meshes, again)

	l.Evict("tri")
	_, ok = l.Cached("tri")
	assert.False(t, ok)
}

func TestLoadReaderGLB(t *testing.T) {
	meshes, err := NewLoader().LoadReader("tri.glb", bytes.NewReader(glb(triangleJSON("", ""), triangleBuffer())), true)
	require.NoError(t, err)
	assertTriangle(t, meshes)
}

func TestLoadFileWithExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.bin"), triangleBuffer(), 0o644))
	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(triangleJSON("tri.bin", "")), 0o644))

	l := NewLoader(WithFlipV(false))
	meshes, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, [2]uint16{0, 0}, meshes[0].Vertices[0].Texture)
	assert.Equal(t, [2]uint16{0, math.MaxUint16}, meshes[0].Vertices[2].Texture)

	m := meshes[0].Model()
	assert.False(t, m.Geometry().Built())
	assert.Equal(t, 3, m.Geometry().ElementCount())

	l.Clear()
	_, ok := l.Cached(path)
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		isGLB bool
		want  error
	}{
		{name: "bad json", data: "{", want: ErrInvalidFile},
		{name: "version 1", data: `{"asset": {"version": "1.0"}}`, want: ErrInvalidFile},
		{name: "bad glb magic", data: "xxxxxxxxxxxx", isGLB: true, want: ErrInvalidFile},
		{name: "line strip", data: triangleJSON("data:application/octet-stream;base64,"+base64.StdEncoding.EncodeToString(triangleBuffer()), "3"), want: ErrUnsupported},
		{name: "plain data uri", data: triangleJSON("data:text/plain,abc", ""), want: ErrUnsupported},
		{name: "short buffer", data: triangleJSON("data:application/octet-stream;base64,AAAA", ""), want: ErrInvalidFile},
		{name: "no buffer source", data: triangleJSON("", ""), want: ErrInvalidFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadReader(tt.name, strings.NewReader(tt.data), tt.isGLB)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithMeshesPrepopulatesCache(t *testing.T) {
	want := []Mesh{{Name: "pre"}}
	l := NewLoader(WithMeshes("pre", want))
	got, err := l.Load("pre")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSmoothNormalsIsolatedVertex(t *testing.T) {
	normals := smoothNormals([][3]float32{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {5, 5, 5}}, []uint32{0, 1, 2})
	assert.InDelta(t, 1, normals[0][1], 1e-6)
	assert.Equal(t, [3]float32{0, 0, 1}, normals[3])
}
