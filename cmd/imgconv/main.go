package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/inhies/go-bytesize"
	"github.com/rt68/imgconv"
	"github.com/rt68/imgconv/cache"
	"github.com/rt68/imgconv/container"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultProfile = "rt68"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var profileFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		EnvVars: []string{"IMGCONV_PROFILE"},
		Value:   defaultProfile,
		Usage:   "target profile",
	},
	&cli.IntFlag{
		Name:    "width",
		EnvVars: []string{"IMGCONV_WIDTH"},
		Usage:   "override target width in pixels",
	},
	&cli.IntFlag{
		Name:    "height",
		EnvVars: []string{"IMGCONV_HEIGHT"},
		Usage:   "override target height in pixels",
	},
	&cli.IntFlag{
		Name:    "colors",
		EnvVars: []string{"IMGCONV_COLORS"},
		Usage:   "override palette size, one of 4, 16 or 256",
	},
	&cli.StringFlag{
		Name:    "palette-address",
		EnvVars: []string{"IMGCONV_PALETTE_ADDRESS"},
		Usage:   "override palette load address",
	},
	&cli.StringFlag{
		Name:    "pixel-address",
		EnvVars: []string{"IMGCONV_PIXEL_ADDRESS"},
		Usage:   "override pixel load address",
	},
	&cli.StringFlag{
		Name:    "length-mode",
		EnvVars: []string{"IMGCONV_LENGTH_MODE"},
		Usage:   "override header length, one of payload, total or none",
	},
	&cli.BoolFlag{
		Name:    "mask",
		EnvVars: []string{"IMGCONV_MASK"},
		Usage:   "mask out of range pixel indices instead of failing",
	},
}

func parseAddress(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint32(v), nil
}

func profileFromFlags(c *cli.Context) (imgconv.Profile, error) {
	p, err := imgconv.LookupProfile(c.String("profile"))
	if err != nil {
		return p, err
	}

	if c.IsSet("width") {
		p.Width = c.Int("width")
	}
	if c.IsSet("height") {
		p.Height = c.Int("height")
	}
	if c.IsSet("colors") {
		p.Colors = c.Int("colors")
	}
	if c.IsSet("palette-address") {
		if p.PaletteAddress, err = parseAddress(c.String("palette-address")); err != nil {
			return p, err
		}
	}
	if c.IsSet("pixel-address") {
		if p.PixelAddress, err = parseAddress(c.String("pixel-address")); err != nil {
			return p, err
		}
	}
	if c.IsSet("length-mode") {
		if p.Mode, err = container.ParseMode(c.String("length-mode")); err != nil {
			return p, err
		}
	}
	if c.IsSet("mask") {
		p.Mask = c.Bool("mask")
	}

	return p, p.Validate()
}

func newLogger(c *cli.Context) *zap.Logger {
	if c.Bool("verbose") {
		if logger, err := zap.NewDevelopment(); err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

func newConverter(c *cli.Context, logger *zap.Logger) (*imgconv.Converter, func(), error) {
	if c.String("db") == "" {
		return imgconv.New(logger), func() {}, nil
	}

	db, err := cache.Open(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return imgconv.New(logger, imgconv.WithCache(db)), func() { db.Close() }, nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "imgconv"
	app.Usage = "Convert images to packed pixel and palette files"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"IMGCONV_DB"},
			Usage:   "path to conversion cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert an image to pixel and palette files",
			Description: "The palette file is only written if PALETTE is given.",
			ArgsUsage:   "INPUT PIXELS [PALETTE]",
			Flags:       profileFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				input, pixels, palette := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

				p, err := profileFromFlags(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				logger := newLogger(c)
				defer logger.Sync()

				conv, closer, err := newConverter(c, logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closer()

				if palette != "" {
					fmt.Fprintf(c.App.Writer, "Converting '%s' to image '%s' and palette '%s' [%dx%d pixels, %d colors]...\n", input, pixels, palette, p.Width, p.Height, p.Colors)
				} else {
					fmt.Fprintf(c.App.Writer, "Converting '%s' to image '%s' [%dx%d pixels, %d colors]...\n", input, pixels, p.Width, p.Height, p.Colors)
				}

				out, err := conv.Convert(input, p)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := conv.WriteFiles(out, pixels, palette); err != nil {
					return cli.NewExitError(err, 1)
				}

				if palette != "" {
					fmt.Fprintf(c.App.Writer, "Done [image %s, palette %s]\n", bytesize.New(float64(len(out.Pixels))), bytesize.New(float64(len(out.Palette))))
				} else {
					fmt.Fprintf(c.App.Writer, "Done [image %s]\n", bytesize.New(float64(len(out.Pixels))))
				}

				return nil
			},
		},
		{
			Name:        "preview",
			Usage:       "Write the resized and quantized image as a PNG",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Flags:       profileFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := profileFromFlags(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				logger := newLogger(c)
				defer logger.Sync()

				fmt.Fprintf(c.App.Writer, "Converting to PNG %dx%d pixels %d colors...\n", p.Width, p.Height, p.Colors)

				if err := imgconv.New(logger).Preview(c.Args().Get(0), p, c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Fprintln(c.App.Writer, "Done")

				return nil
			},
		},
		{
			Name:        "inspect",
			Usage:       "Show the header of a pixel or palette file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := imgconv.New(newLogger(c)).Inspect(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Fprintf(c.App.Writer, "Load address: 0x%08X\n", f.LoadAddress)
				fmt.Fprintf(c.App.Writer, "Length:       %d\n", f.Length)
				fmt.Fprintf(c.App.Writer, "Payload:      %d bytes (%s)\n", len(f.Payload), bytesize.New(float64(len(f.Payload))))

				mode, err := f.Mode()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Fprintf(c.App.Writer, "Length mode:  %s\n", mode)

				return nil
			},
		},
		{
			Name:  "profiles",
			Usage: "List the built-in target profiles",
			Action: func(c *cli.Context) error {
				w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tRESOLUTION\tCOLORS\tPALETTE\tPIXELS\tLENGTH")
				for _, name := range imgconv.ProfileNames() {
					p := imgconv.Profiles[name]
					fmt.Fprintf(w, "%s\t%dx%d\t%d\t0x%08X\t0x%08X\t%s\n", p.Name, p.Width, p.Height, p.Colors, p.PaletteAddress, p.PixelAddress, p.Mode)
				}
				return w.Flush()
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
