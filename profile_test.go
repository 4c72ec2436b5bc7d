package imgconv

import (
	"errors"
	"image/color"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rt68/imgconv/container"
	"github.com/rt68/imgconv/indexed"
	"github.com/rt68/imgconv/pixel"
)

func TestProfiles(t *testing.T) {
	names := ProfileNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Len(t, names, len(Profiles))

	for _, name := range names {
		p, err := LookupProfile(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
		assert.NoError(t, p.Validate(), name)
	}

	_, err := LookupProfile("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rt68")
}

func TestProfileDefaults(t *testing.T) {
	p := Profiles["rt68"]
	assert.Equal(t, 320, p.Width)
	assert.Equal(t, 200, p.Height)
	assert.Equal(t, 256, p.Colors)
	assert.Equal(t, uint32(0x00402000), p.PaletteAddress)
	assert.Equal(t, uint32(0x00200000), p.PixelAddress)
	assert.Equal(t, container.PayloadOnly, p.Mode)

	assert.Equal(t, container.HeaderPlusPayload, Profiles["rt68-total"].Mode)
	assert.Equal(t, container.Raw, Profiles["asm4"].Mode)
}

func TestProfileValidate(t *testing.T) {
	p := Profiles["rt68"]
	p.Width = 0
	assert.Error(t, p.Validate())

	p = Profiles["rt68"]
	p.Colors = 32
	assert.True(t, errors.Is(p.Validate(), pixel.ErrUnsupportedPaletteSize))

	p = Profiles["asm4"]
	p.FixedPalette = append(p.FixedPalette, color.Black)
	assert.Error(t, p.Validate())
}

func TestProfileQuantizer(t *testing.T) {
	assert.IsType(t, indexed.MedianCut{}, Profiles["rt68"].Quantizer())
	assert.IsType(t, indexed.Fixed{}, Profiles["asm4"].Quantizer())
}

func TestProfileFingerprint(t *testing.T) {
	a := Profiles["rt68"]
	b := a
	b.Name = "renamed"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Mode = container.HeaderPlusPayload
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	b = a
	b.Mask = true
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	assert.NotEqual(t, Profiles["rt68-4"].Fingerprint(), Profiles["asm4"].Fingerprint())
}
