package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// NormalMatrix derives the matrix that transforms surface normals for a given model-view matrix:
// the inverse transpose of its upper-left 3x3 block. A singular input yields the zero matrix,
// matching mgl32's Inv behaviour.
//
// Parameters:
//   - modelView: the model-view matrix applied to positions
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func NormalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	return modelView.Mat3().Inv().Transpose()
}

// NormalizedUint16 maps a value in [0, 1] onto the full unsigned 16-bit range, clamping outside values.
// Texture coordinates are stored this way and read back as normalized floats by the GPU.
//
// Parameters:
//   - v: the value to convert
//
// Returns:
//   - uint16: the scaled value
func NormalizedUint16(v float32) uint16 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xffff
	}
	return uint16(v*0xffff + 0.5)
}
