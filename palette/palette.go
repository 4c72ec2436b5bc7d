/*
Package palette implements the 12-bit palette table read by the display
hardware.

Each entry is a 16-bit big-endian word laid out as 0000RRRRGGGGBBBB, keeping
the upper four bits of each 8-bit channel. The table holds exactly one entry
per palette index in index order, so a 16 color palette is 32 bytes.
*/
package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
)

// EntrySize is the size in bytes of each encoded palette entry
const EntrySize = 2

var (
	// ErrInvalidSize is returned when the number of palette entries does
	// not match the declared palette size
	ErrInvalidSize = errors.New("palette: invalid palette size")

	errOddLength = errors.New("palette: odd number of bytes")
)

func upperNibble(v uint8) uint16 {
	return uint16(v >> 4)
}

// Word returns the packed 16-bit representation of c. The lower four bits of
// each channel are truncated.
func Word(c color.Color) uint16 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return upperNibble(n.R)<<8 | upperNibble(n.G)<<4 | upperNibble(n.B)
}

// Color expands a packed word back to a color by replicating each 4-bit
// channel into both nibbles, so 0x0f maps to 0xff and 0x00 to 0x00.
func Color(w uint16) color.RGBA {
	r, g, b := uint8(w>>8&0x0f), uint8(w>>4&0x0f), uint8(w&0x0f)
	return color.RGBA{r<<4 | r, g<<4 | g, b<<4 | b, 0xff}
}

// Pad returns p extended with black entries up to n colors. A palette that
// already has n or more entries is returned as is.
func Pad(p color.Palette, n int) color.Palette {
	if len(p) >= n {
		return p
	}
	dup := make(color.Palette, n)
	copy(dup, p)
	for i := len(p); i < n; i++ {
		dup[i] = color.RGBA{0, 0, 0, 0}
	}
	return dup
}

// Encode packs the palette p, which must hold exactly colors entries
func Encode(p color.Palette, colors int) ([]byte, error) {
	if len(p) != colors {
		return nil, fmt.Errorf("%w: %d entries, expected %d", ErrInvalidSize, len(p), colors)
	}

	b := make([]byte, EntrySize*len(p))
	for i, c := range p {
		binary.BigEndian.PutUint16(b[i*EntrySize:], Word(c))
	}

	return b, nil
}

// Decode unpacks a table produced by Encode
func Decode(b []byte) (color.Palette, error) {
	if len(b)%EntrySize != 0 {
		return nil, errOddLength
	}

	p := make(color.Palette, len(b)/EntrySize)
	for i := range p {
		p[i] = Color(binary.BigEndian.Uint16(b[i*EntrySize:]))
	}

	return p, nil
}
