package indexed

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrUnknownColor is returned by Fixed when a pixel is not in the palette
var ErrUnknownColor = errors.New("indexed: color not in palette")

// ColorError records the first pixel whose color is not in the palette
type ColorError struct {
	X, Y  int
	Color color.NRGBA
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("indexed: color #%02X%02X%02X at (%d, %d) not in palette", e.Color.R, e.Color.G, e.Color.B, e.X, e.Y)
}

// Unwrap returns ErrUnknownColor
func (e *ColorError) Unwrap() error {
	return ErrUnknownColor
}

type rgb struct {
	r, g, b uint8
}

func toRGB(c color.Color) (rgb, color.NRGBA) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return rgb{n.R, n.G, n.B}, n
}

// Fixed maps every pixel to the entry of Palette with exactly the same RGB
// value. Alpha is ignored.
type Fixed struct {
	Palette color.Palette
}

// Quantize implements the Quantizer interface
func (q Fixed) Quantize(m image.Image, colors int) (*Image, error) {
	if len(q.Palette) > colors {
		return nil, fmt.Errorf("indexed: fixed palette has %d colors, at most %d allowed", len(q.Palette), colors)
	}

	// First entry wins if the palette repeats a color
	index := make(map[rgb]uint8, len(q.Palette))
	for i := len(q.Palette) - 1; i >= 0; i-- {
		k, _ := toRGB(q.Palette[i])
		index[k] = uint8(i)
	}

	b := m.Bounds()
	dst := New(b.Dx(), b.Dy(), append(color.Palette(nil), q.Palette...))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			k, n := toRGB(m.At(x, y))
			i, ok := index[k]
			if !ok {
				return nil, &ColorError{X: x, Y: y, Color: n}
			}
			dst.Pix[(y-b.Min.Y)*dst.Width+x-b.Min.X] = i
		}
	}

	return dst, nil
}
