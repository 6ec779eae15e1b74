package main

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"github.com/halfgray/mottle/dither"
)

const (
	unsupportedFormat string = "'%s' is an unsupported format, only 'png' or 'gif' are accepted"
)

var (
	// pal holds the engine palette. It's set after pre-processing.
	pal *dither.Palette

	// recolorPalette remaps output colors just before encoding. It's set
	// after pre-processing and always matches pal in length when non-empty.
	// Guaranteed to only hold color.NRGBA.
	recolorPalette []color.Color

	// style is the scan strategy picked by name. Set after pre-processing.
	style dither.Style

	verbose   bool
	grayscale bool

	// Range -100,100

	saturation float64
	brightness float64
	contrast   float64

	// blurSigma is the pre-dither Gaussian blur radius. Zero disables it.
	blurSigma float64

	autoOrientation imaging.DecodeOption

	inputPath string
	outPath   string
	outFormat string // "png" or "gif"
	outIsDir  bool

	compLevel png.CompressionLevel

	outFileFlags int // For os.OpenFile

	width  int
	height int
	// upscale will always be 1 or above
	upscale int
)

// preProcess is automatically called by the app before anything else.
// It resolves every flag into the package globals above.
func preProcess(c *cli.Context) error {
	verbose = c.Bool("verbose")

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	var err error

	saturation, err = parsePercentArg(c.String("saturation"), false)
	if err != nil {
		return fmt.Errorf("saturation: %w", err)
	}
	if saturation <= -100 {
		grayscale = true
		saturation = 0
	}
	brightness, err = parsePercentArg(c.String("brightness"), false)
	if err != nil {
		return fmt.Errorf("brightness: %w", err)
	}
	contrast, err = parsePercentArg(c.String("contrast"), false)
	if err != nil {
		return fmt.Errorf("contrast: %w", err)
	}

	blurSigma = c.Float64("blur")
	if blurSigma < 0 {
		return errors.New("blur sigma cannot be negative")
	}

	autoOrientation = imaging.AutoOrientation(!c.Bool("no-exif-rotation"))

	inputPath = c.String("in")

	var ok bool
	style, ok = dither.StyleByName(c.String("style"))
	if !ok {
		return fmt.Errorf("unknown style '%s', the styles are: %s",
			c.String("style"), strings.Join(dither.StyleNames(), ", "))
	}

	pal, err = parsePalette(c)
	if err != nil {
		return err
	}

	if c.String("recolor") != "" {
		recolorPalette, err = parseColors("recolor", c.String("recolor"))
		if err != nil {
			return err
		}
		if len(recolorPalette) != pal.Size() {
			return errors.New("recolor palette must have the same number of colors as the initial palette")
		}
	}

	// Check if palette is grayscale and make image grayscale
	// Or if the user forces it, directly or through the saturation flag

	grayscale = grayscale || c.Bool("grayscale")
	if !grayscale {
		// Grayscale wasn't forced, so check to see if palette is grayscale
		grayscale = true
		for _, pc := range pal.Colors() {
			if pc.R != pc.G || pc.G != pc.B {
				grayscale = false
				break
			}
		}
	}

	formatVal := c.String("format")
	if formatVal != "png" && formatVal != "gif" {
		return fmt.Errorf(unsupportedFormat, formatVal)
	}

	// Figure out output format

	outPath = c.String("out")

	if outPath == "-" {
		// Outputting to stdout, so just use whatever the flag is
		outFormat = formatVal
	} else {
		// Outputting to dir or file

		outFI, err := os.Stat(outPath)

		if err == nil && outFI.IsDir() {
			// Exists and is a directory
			// Just use what the flag is
			outFormat = formatVal
			outIsDir = true

		} else {
			// Outputting to file, that already exists
			// Or something that doesn't exist - assumed to be a file

			if !c.IsSet("format") {
				// Format wasn't set, so ignore default value of "png"
				// Try to figure out format from output filename
				ext := strings.TrimPrefix(filepath.Ext(outPath), ".")
				if ext == "png" || ext == "gif" {
					// Acceptable extension
					outFormat = ext
				} else if ext == "" {
					// No extension, use default format
					outFormat = "png"
				} else {
					// Unsupported extension and no format flag override
					return fmt.Errorf(unsupportedFormat, ext)
				}
			} else {
				// Format flag was set, so ignore what the file looks like
				outFormat = formatVal
			}
		}

	}

	if outFormat == "gif" && pal.Size() > 256 {
		return errors.New("the GIF format only supports 256 colors or less in the palette")
	}

	// Set PNG compression type

	switch c.String("compression") {
	case "default":
		compLevel = png.DefaultCompression
	case "no":
		compLevel = png.NoCompression
	case "speed":
		compLevel = png.BestSpeed
	case "size":
		compLevel = png.BestCompression
	default:
		return fmt.Errorf("invalid compression type '%s'", c.String("compression"))
	}

	if c.Bool("no-overwrite") {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	} else {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	// Set here for convenience
	width = int(c.Uint("width"))
	height = int(c.Uint("height"))
	upscale = int(c.Uint("upscale"))
	if upscale == 0 {
		// Invalid
		upscale = 1
	}

	return nil
}

// run loads the input, dithers it, and writes the result.
func run(c *cli.Context) error {
	start := time.Now()

	img, err := getInputImage(inputPath)
	if err != nil {
		return fmt.Errorf("error loading '%s': %w", inputPath, err)
	}

	grid := dither.FromImage(img)
	slog.Debug("input ready",
		"path", inputPath,
		"width", grid.Width(),
		"height", grid.Height(),
		"colors", pal.Size(),
	)

	out, err := style(grid, pal, verbose)
	if err != nil {
		return fmt.Errorf("dithering failed: %w", err)
	}
	slog.Debug("dithered", "elapsed", time.Since(start))

	return writeImage(out)
}
