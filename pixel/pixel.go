/*
Package pixel implements packing of palette indices into the sub-byte pixel
buffers read by the display hardware.

A palette of 4, 16 or 256 colors uses 2, 4 or 8 bits per pixel. Each byte
holds 8 / bits-per-pixel consecutive pixels in row-major order with the first
pixel in the most significant bits, so four 4-color pixels 0, 1, 2, 3 pack to
0x1b. A trailing incomplete group is padded with index 0.
*/
package pixel

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPaletteSize is returned for palettes other than 4, 16
	// or 256 colors
	ErrUnsupportedPaletteSize = errors.New("pixel: unsupported palette size")

	// ErrIndexOutOfRange is returned when a pixel references a color beyond
	// the end of the palette
	ErrIndexOutOfRange = errors.New("pixel: index out of range")
)

// IndexError records the offending pixel when packing fails. It matches
// ErrIndexOutOfRange with errors.Is.
type IndexError struct {
	Offset int // Position in the pixel sequence
	Value  uint8
	Colors int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("pixel: index %d at pixel %d out of range for %d colors", e.Value, e.Offset, e.Colors)
}

// Unwrap returns ErrIndexOutOfRange
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// BitsPerPixel returns the packing width for a palette of the given size
func BitsPerPixel(colors int) (int, error) {
	switch colors {
	case 4:
		return 2, nil
	case 16:
		return 4, nil
	case 256:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedPaletteSize, colors)
	}
}

// PixelsPerByte returns how many pixels share a byte for a palette of the
// given size
func PixelsPerByte(colors int) (int, error) {
	bpp, err := BitsPerPixel(colors)
	if err != nil {
		return 0, err
	}
	return 8 / bpp, nil
}

// PackedLength returns the number of bytes needed to hold n pixels
func PackedLength(n, colors int) (int, error) {
	ppb, err := PixelsPerByte(colors)
	if err != nil {
		return 0, err
	}
	return (n + ppb - 1) / ppb, nil
}

func pack(pixels []uint8, colors int, masked bool) ([]byte, error) {
	bpp, err := BitsPerPixel(colors)
	if err != nil {
		return nil, err
	}
	ppb := 8 / bpp
	mask := byte(1<<uint(bpp) - 1)

	b := make([]byte, (len(pixels)+ppb-1)/ppb)
	for i, p := range pixels {
		if int(p) >= colors && !masked {
			return nil, &IndexError{Offset: i, Value: p, Colors: colors}
		}
		b[i/ppb] |= p & mask << uint(bpp*(ppb-1-i%ppb))
	}

	return b, nil
}

// Pack packs the palette indices in pixels for a palette of the given size.
// Any index that does not exist in the palette returns an *IndexError.
func Pack(pixels []uint8, colors int) ([]byte, error) {
	return pack(pixels, colors, false)
}

// PackMasked is like Pack but silently masks each index to the packing
// width rather than failing, so index 5 in a 4 color palette becomes 1.
func PackMasked(pixels []uint8, colors int) ([]byte, error) {
	return pack(pixels, colors, true)
}

// Unpack reverses Pack. The result holds every slot in b, including any
// zero padding in the final byte, so the caller trims it to the original
// pixel count.
func Unpack(b []byte, colors int) ([]uint8, error) {
	bpp, err := BitsPerPixel(colors)
	if err != nil {
		return nil, err
	}
	ppb := 8 / bpp
	mask := byte(1<<uint(bpp) - 1)

	pixels := make([]uint8, len(b)*ppb)
	for i := range pixels {
		pixels[i] = b[i/ppb] >> uint(bpp*(ppb-1-i%ppb)) & mask
	}

	return pixels, nil
}
