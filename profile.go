package imgconv

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/rt68/imgconv/container"
	"github.com/rt68/imgconv/indexed"
	"github.com/rt68/imgconv/pixel"
	"github.com/samber/lo"
)

const (
	defaultWidth  = 320
	defaultHeight = 200

	defaultPaletteAddress = 0x00402000
	defaultPixelAddress   = 0x00200000
)

// Profile describes the files expected by one target
type Profile struct {
	Name   string
	Width  int
	Height int
	Colors int

	PaletteAddress uint32
	PixelAddress   uint32
	Mode           container.Mode

	// Mask wraps out of range pixel indices instead of failing
	Mask bool

	// FixedPalette, if set, requires every pixel to exactly match one of
	// these colors instead of quantizing
	FixedPalette color.Palette
}

// Profiles holds the built-in targets
var Profiles = map[string]Profile{
	"rt68": {
		Name:           "rt68",
		Width:          defaultWidth,
		Height:         defaultHeight,
		Colors:         256,
		PaletteAddress: defaultPaletteAddress,
		PixelAddress:   defaultPixelAddress,
		Mode:           container.PayloadOnly,
	},
	"rt68-16": {
		Name:           "rt68-16",
		Width:          defaultWidth,
		Height:         defaultHeight,
		Colors:         16,
		PaletteAddress: defaultPaletteAddress,
		PixelAddress:   defaultPixelAddress,
		Mode:           container.PayloadOnly,
	},
	"rt68-4": {
		Name:           "rt68-4",
		Width:          defaultWidth,
		Height:         defaultHeight,
		Colors:         4,
		PaletteAddress: defaultPaletteAddress,
		PixelAddress:   defaultPixelAddress,
		Mode:           container.PayloadOnly,
	},
	"rt68-total": {
		Name:           "rt68-total",
		Width:          defaultWidth,
		Height:         defaultHeight,
		Colors:         256,
		PaletteAddress: defaultPaletteAddress,
		PixelAddress:   defaultPixelAddress,
		Mode:           container.HeaderPlusPayload,
	},
	"asm4": {
		Name:   "asm4",
		Width:  defaultWidth,
		Height: defaultHeight,
		Colors: 4,
		Mode:   container.Raw,
		FixedPalette: color.Palette{
			color.RGBA{0x00, 0x73, 0xb3, 0xff},
			color.RGBA{0x00, 0x9f, 0x74, 0xff},
			color.RGBA{0xd6, 0x5e, 0x00, 0xff},
			color.RGBA{0xf0, 0xe5, 0x40, 0xff},
		},
	},
}

// ProfileNames returns the names of the built-in profiles in sorted order
func ProfileNames() []string {
	names := lo.Keys(Profiles)
	sort.Strings(names)
	return names
}

// LookupProfile returns the built-in profile called name
func LookupProfile(name string) (Profile, error) {
	p, ok := Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("imgconv: unknown profile %q, expected one of %s", name, strings.Join(ProfileNames(), ", "))
	}
	return p, nil
}

// Validate checks the profile describes something that can be encoded
func (p Profile) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("imgconv: invalid resolution %dx%d", p.Width, p.Height)
	}
	if _, err := pixel.BitsPerPixel(p.Colors); err != nil {
		return err
	}
	if len(p.FixedPalette) > p.Colors {
		return errors.New("imgconv: fixed palette larger than palette size")
	}
	return nil
}

// Quantizer returns the quantizer used for this profile
func (p Profile) Quantizer() indexed.Quantizer {
	if len(p.FixedPalette) > 0 {
		return indexed.Fixed{Palette: p.FixedPalette}
	}
	return indexed.MedianCut{}
}

// Fingerprint identifies every setting that affects the encoded output,
// ignoring the profile name.
func (p Profile) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d/%d/%08x/%08x/%s/%t", p.Width, p.Height, p.Colors, p.PaletteAddress, p.PixelAddress, p.Mode, p.Mask)
	for _, c := range p.FixedPalette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		fmt.Fprintf(&b, "/%02x%02x%02x", n.R, n.G, n.B)
	}
	return b.String()
}
