package indexed

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// MedianCut quantizes using median cut color reduction
type MedianCut struct {
	Quantizer quantize.MedianCutQuantizer
}

// Quantize implements the Quantizer interface. A paletted image that
// already fits within colors is used as is.
func (q MedianCut) Quantize(m image.Image, colors int) (*Image, error) {
	b := m.Bounds()

	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= colors {
		return FromPaletted(pm), nil
	}

	pm := image.NewPaletted(b, q.Quantizer.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return FromPaletted(pm), nil
}
