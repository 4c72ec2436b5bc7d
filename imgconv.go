/*
Package imgconv converts images into the packed pixel and palette files
loaded verbatim into memory by the target display hardware.

Conversion resizes the source image to the target resolution, quantizes it
to a 4, 16 or 256 color palette, packs the palette into 12-bit color words
and the pixels at 2, 4 or 8 bits each, then wraps each payload in a
container carrying its load address and length. The target settings are
held in a Profile.
*/
package imgconv

import (
	"github.com/rt68/imgconv/cache"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Converter runs conversions against a file system
type Converter struct {
	fs     afero.Fs
	cache  *cache.DB
	logger *zap.Logger
}

// Option configures a Converter
type Option func(c *Converter)

// WithFs reads inputs and writes outputs through fs rather than the
// operating system file system.
func WithFs(fs afero.Fs) Option {
	return func(c *Converter) {
		c.fs = fs
	}
}

// WithCache reuses and records results in db
func WithCache(db *cache.DB) Option {
	return func(c *Converter) {
		c.cache = db
	}
}

// New returns a Converter logging to logger
func New(logger *zap.Logger, opts ...Option) *Converter {
	c := &Converter{
		fs:     afero.NewOsFs(),
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
