// Package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Decode workers produce it; the goroutine owning the GPU context consumes it.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It is in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// ImageSource describes where texture pixels come from. Exactly one of Image, Data or Path is used,
// checked in that order.
type ImageSource struct {
	// Name is an identifier used in log output (e.g. "checkerboard").
	Name string

	// Path is the file path of an encoded image on disk.
	Path string

	// Data contains encoded image bytes (PNG, JPEG, GIF, BMP, TIFF or WebP).
	Data []byte

	// Image is an already decoded image.
	Image image.Image
}

// Label returns the most descriptive identifier available for log output.
//
// Returns:
//   - string: Name, then Path, then a generic placeholder
func (s ImageSource) Label() string {
	return Coalesce(s.Name, s.Path, "<image>")
}

// Decode decodes the source to raw RGBA pixel data.
// With originBottomLeft the rows are flipped so the first row in memory is the bottom of the image,
// which is what the GPU expects for texture coordinate (0, 0).
// Reference: https://pkg.go.dev/golang.org/x/image/draw
//
// Parameters:
//   - originBottomLeft: flip rows so the image origin is the bottom-left corner
//
// Returns:
//   - *TextureStagingData: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - error: error if decoding fails
func (s ImageSource) Decode(originBottomLeft bool) (*TextureStagingData, error) {
	img := s.Image
	if img == nil {
		var err error
		switch {
		case len(s.Data) > 0:
			img, _, err = image.Decode(bytes.NewReader(s.Data))
			if err != nil {
				return nil, fmt.Errorf("failed to decode embedded image %s: %w", s.Label(), err)
			}
		case s.Path != "":
			file, fileErr := os.Open(s.Path)
			if fileErr != nil {
				return nil, fmt.Errorf("failed to open texture file %s: %w", s.Path, fileErr)
			}
			defer file.Close()

			img, _, err = image.Decode(file)
			if err != nil {
				return nil, fmt.Errorf("failed to decode texture file %s: %w", s.Path, err)
			}
		default:
			return nil, fmt.Errorf("image source %s has neither image, data nor path", s.Label())
		}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image source %s is empty", s.Label())
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	if originBottomLeft {
		flipRows(rgba.Pix, rgba.Stride, height)
	}

	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(width),
		Height: uint32(height),
	}, nil
}

// flipRows reverses the row order of a pixel buffer in place.
func flipRows(pix []byte, stride, rows int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
