package imgconv

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rt68/imgconv/cache"
	"github.com/rt68/imgconv/container"
	"github.com/rt68/imgconv/indexed"
	"github.com/rt68/imgconv/palette"
	"github.com/rt68/imgconv/pixel"
)

// Output holds the encoded palette and pixel files
type Output struct {
	Palette []byte
	Pixels  []byte
	// Cached is set if the files came from the cache
	Cached bool
}

// Encode packs the palette and pixels of m and wraps each according to the
// profile. The palette is padded with black up to the profile palette size.
func Encode(m *indexed.Image, p Profile) (*Output, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	pal, err := palette.Encode(palette.Pad(m.Palette, p.Colors), p.Colors)
	if err != nil {
		return nil, errors.Wrap(err, "encode palette")
	}

	pack := pixel.Pack
	if p.Mask {
		pack = pixel.PackMasked
	}
	pix, err := pack(m.Pix, p.Colors)
	if err != nil {
		return nil, errors.Wrap(err, "pack pixels")
	}

	out := new(Output)
	if out.Palette, err = container.Marshal(pal, p.PaletteAddress, p.Mode); err != nil {
		return nil, errors.Wrap(err, "wrap palette")
	}
	if out.Pixels, err = container.Marshal(pix, p.PixelAddress, p.Mode); err != nil {
		return nil, errors.Wrap(err, "wrap pixels")
	}

	return out, nil
}

func (c *Converter) readInput(file string) ([]byte, error) {
	b, err := afero.ReadFile(c.fs, file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrInputNotFound, file)
		}
		return nil, errors.Wrapf(err, "read %s", file)
	}
	return b, nil
}

func (c *Converter) quantize(b []byte, file string, p Profile) (*indexed.Image, error) {
	m, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", file)
	}

	if size := m.Bounds().Size(); size != image.Pt(p.Width, p.Height) {
		// A fixed palette only matches unblended source colors
		filter := imaging.Lanczos
		if len(p.FixedPalette) > 0 {
			filter = imaging.NearestNeighbor
		}
		c.logger.Debug("resizing", zap.String("input", file), zap.Int("width", size.X), zap.Int("height", size.Y))
		m = imaging.Resize(m, p.Width, p.Height, filter)
	}

	q, err := p.Quantizer().Quantize(m, p.Colors)
	if err != nil {
		return nil, errors.Wrapf(err, "quantize %s", file)
	}
	c.logger.Debug("quantized", zap.String("input", file), zap.Int("colors", len(q.Palette)))

	return q, nil
}

// Load reads, resizes and quantizes the input image for the profile
func (c *Converter) Load(file string, p Profile) (*indexed.Image, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b, err := c.readInput(file)
	if err != nil {
		return nil, err
	}

	return c.quantize(b, file, p)
}

// Convert loads the input image and encodes it for the profile
func (c *Converter) Convert(file string, p Profile) (*Output, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b, err := c.readInput(file)
	if err != nil {
		return nil, err
	}

	logger := c.logger.With(zap.String("input", file), zap.String("profile", p.Name))

	var digest string
	if c.cache != nil {
		digest = cache.Digest(b)
		pal, pix, ok, err := c.cache.Find(digest, p.Fingerprint())
		if err != nil {
			return nil, errors.Wrap(err, "cache lookup")
		}
		if ok {
			logger.Debug("cache hit", zap.String("sha1", digest))
			return &Output{Palette: pal, Pixels: pix, Cached: true}, nil
		}
	}

	m, err := c.quantize(b, file, p)
	if err != nil {
		return nil, err
	}

	out, err := Encode(m, p)
	if err != nil {
		return nil, err
	}
	logger.Debug("encoded", zap.Int("palette", len(out.Palette)), zap.Int("pixels", len(out.Pixels)))

	if c.cache != nil {
		if err := c.cache.Store(digest, p.Fingerprint(), out.Palette, out.Pixels); err != nil {
			return nil, errors.Wrap(err, "cache store")
		}
	}

	return out, nil
}

// WriteFiles writes the pixel file and, if palettePath is not empty, the
// palette file. Both are staged in full before either is renamed into place,
// so a staging failure leaves any existing outputs untouched. If a rename
// fails the outputs already renamed by this call are removed, which loses a
// file previously at that path.
func (c *Converter) WriteFiles(out *Output, pixelPath, palettePath string) error {
	type staged struct {
		path, tmp string
		n         int
	}

	files := []struct {
		path string
		b    []byte
	}{
		{pixelPath, out.Pixels},
		{palettePath, out.Palette},
	}

	var pending []staged
	for _, f := range files {
		if f.path == "" {
			continue
		}
		tmp, err := stageFile(c.fs, f.path, f.b)
		if err != nil {
			for _, s := range pending {
				_ = c.fs.Remove(s.tmp)
			}
			return err
		}
		pending = append(pending, staged{f.path, tmp, len(f.b)})
	}

	for i, s := range pending {
		if err := commitFile(c.fs, s.tmp, s.path); err != nil {
			for _, w := range pending[:i] {
				_ = c.fs.Remove(w.path)
			}
			for _, r := range pending[i+1:] {
				_ = c.fs.Remove(r.tmp)
			}
			return err
		}
		c.logger.Debug("written", zap.String("output", s.path), zap.Int("bytes", s.n))
	}

	return nil
}

// Preview writes the resized and quantized image to output as an indexed
// PNG
func (c *Converter) Preview(file string, p Profile, output string) error {
	m, err := c.Load(file, p)
	if err != nil {
		return err
	}

	b := new(bytes.Buffer)
	if err := png.Encode(b, m.Paletted()); err != nil {
		return errors.Wrap(err, "encode preview")
	}

	return writeFile(c.fs, output, b.Bytes())
}

// Inspect reads back a container file
func (c *Converter) Inspect(file string) (*container.File, error) {
	f, err := c.fs.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrInputNotFound, file)
		}
		return nil, err
	}
	defer f.Close()

	cf, err := container.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", file)
	}

	return cf, nil
}
