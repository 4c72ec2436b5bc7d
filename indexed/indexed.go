/*
Package indexed defines the palette-indexed image consumed by the encoders
and the quantizers that reduce an arbitrary image to one.

An Image is a flat row-major sequence of palette indices together with the
palette they reference. Quantizers never return more colors than requested
but may return fewer.
*/
package indexed

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var errBadLength = errors.New("indexed: pixel count does not match dimensions")

// Image is a quantized image
type Image struct {
	Width, Height int
	// Pix holds Width*Height palette indices, left to right then top to
	// bottom
	Pix     []uint8
	Palette color.Palette
}

// New returns a blank image of the given size
func New(width, height int, p color.Palette) *Image {
	return &Image{
		Width:   width,
		Height:  height,
		Pix:     make([]uint8, width*height),
		Palette: p,
	}
}

// Validate checks the pixel slice agrees with the dimensions
func (m *Image) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("indexed: invalid dimensions %dx%d", m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height {
		return errBadLength
	}
	return nil
}

// FromPaletted copies m into a new Image, dropping any stride padding and
// rebasing the top-left corner to (0, 0).
func FromPaletted(m *image.Paletted) *Image {
	b := m.Bounds()
	dst := New(b.Dx(), b.Dy(), append(color.Palette(nil), m.Palette...))
	for y := 0; y < dst.Height; y++ {
		i := m.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Width:(y+1)*dst.Width], m.Pix[i:i+dst.Width])
	}
	return dst
}

// Paletted returns the image as an *image.Paletted sharing the same pixels
func (m *Image) Paletted() *image.Paletted {
	return &image.Paletted{
		Pix:     m.Pix,
		Stride:  m.Width,
		Rect:    image.Rect(0, 0, m.Width, m.Height),
		Palette: m.Palette,
	}
}

// Quantizer reduces m to at most colors distinct colors
type Quantizer interface {
	Quantize(m image.Image, colors int) (*Image, error)
}
