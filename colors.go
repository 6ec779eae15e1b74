package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/mccutchen/palettor"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/colornames"

	"github.com/halfgray/mottle/dither"
)

// parsePercentArg takes a string like "0.5" or "50%" and will return a float
// like 50 or 0.5, depending on the second argument. An empty string returns 0.
//
// If `maxOne` is true, then "50%" will return 0.5. Otherwise it will return 50.
func parsePercentArg(arg string, maxOne bool) (float64, error) {
	if arg == "" {
		return 0, nil
	}
	if strings.HasSuffix(arg, "%") {
		arg = arg[:len(arg)-1]
		f64, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, err
		}
		if maxOne {
			f64 /= 100.0
		}
		return f64, nil
	}
	f64, err := strconv.ParseFloat(arg, 64)
	if !maxOne {
		f64 *= 100.0
	}
	return f64, err
}

// splitArg splits a flag value on any of the provided split characters.
func splitArg(arg string, splitRunes string) []string {
	return strings.FieldsFunc(arg, func(c rune) bool {
		for _, c2 := range splitRunes {
			if c == c2 {
				return true
			}
		}
		return false
	})
}

func hexToColor(hex string) (color.NRGBA, error) {
	// Modified from https://github.com/lucasb-eyer/go-colorful/blob/v1.2.0/colors.go#L333

	hex = strings.TrimPrefix(hex, "#")

	format := "%02x%02x%02x"
	var r, g, b uint8
	n, err := fmt.Sscanf(strings.ToLower(hex), format, &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 3 {
		return color.NRGBA{}, fmt.Errorf("%s is not a hex color", hex)
	}
	return color.NRGBA{r, g, b, 255}, nil
}

func rgbToColor(s string) (color.NRGBA, error) {
	format := "%d,%d,%d"
	var r, g, b uint8
	n, err := fmt.Sscanf(s, format, &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 3 {
		return color.NRGBA{}, fmt.Errorf("%s is not an RGB tuple", s)
	}
	return color.NRGBA{r, g, b, 255}, nil
}

// parseColors turns a flag value into a color slice. All returned colors
// are guaranteed to only be color.NRGBA. The flag name is only used for
// error messages.
func parseColors(flag string, arg string) ([]color.Color, error) {
	args := splitArg(arg, " ")

	colors := make([]color.Color, len(args))

	for i, arg := range args {
		// Try to parse as RGB numbers, then hex, then grayscale, then SVG colors, then fail

		if strings.Count(arg, ",") == 2 {
			rgbColor, err := rgbToColor(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %s is not a valid RGB tuple. Example: 25,200,150", flag, arg)
			}
			colors[i] = rgbColor
			continue
		}

		hexColor, err := hexToColor(arg)
		if err == nil {
			colors[i] = hexColor
			continue
		}

		n, err := strconv.Atoi(arg)
		if err == nil {
			if n > 255 || n < 0 {
				return nil, fmt.Errorf("%s: single numbers like %d must be in the range 0-255", flag, n)
			}
			colors[i] = color.NRGBA{uint8(n), uint8(n), uint8(n), 255}
			continue
		}

		htmlColor, ok := colornames.Map[strings.ToLower(arg)]
		if ok {
			colors[i] = color.NRGBAModel.Convert(htmlColor).(color.NRGBA)
			continue
		}

		return nil, fmt.Errorf("%s: %s not recognized as an RGB tuple, hex code, number 0-255, or SVG color name", flag, arg)
	}

	return colors, nil
}

// toEngineColors converts parsed driver colors into engine ones, dropping
// alpha.
func toEngineColors(colors []color.Color) []dither.RGB {
	rgbs := make([]dither.RGB, len(colors))
	for i, c := range colors {
		nrgba := c.(color.NRGBA)
		rgbs[i] = dither.RGB{R: int32(nrgba.R), G: int32(nrgba.G), B: int32(nrgba.B)}
	}
	return rgbs
}

// paletteToColors is the reverse of toEngineColors, for the encoders.
func paletteToColors(p *dither.Palette) []color.Color {
	colors := make([]color.Color, 0, p.Size())
	for _, c := range p.Colors() {
		colors = append(colors, color.NRGBA{uint8(c.R), uint8(c.G), uint8(c.B), 255})
	}
	return colors
}

// samplePalette extracts a 5-color palette from the input image using
// palettor.
func samplePalette() (*dither.Palette, error) {
	img, err := getInputImage(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error loading image for palette extraction '%s': %w", inputPath, err)
	}

	// Resize: keep palettor.Extract fast. See the palettor CLI source:
	// https://github.com/mccutchen/palettor/blob/3eaed180/cmd/palettor/palettor.go#L57
	thumbnail := imaging.Resize(img, 200, 200, imaging.NearestNeighbor)

	// TODO: make these settings configurable, particularly the number of colors
	// in the palette. That means threading the argument through the CLI.
	extracted, err := palettor.Extract(5, 500, thumbnail)
	if err != nil {
		return nil, fmt.Errorf("error extracting image palette: %w", err)
	}

	slog.Debug("extracted palette", "colors", extracted.Colors())

	rgbs := make([]dither.RGB, 0, len(extracted.Colors()))
	for _, c := range extracted.Colors() {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		rgbs = append(rgbs, dither.RGB{R: int32(nrgba.R), G: int32(nrgba.G), B: int32(nrgba.B)})
	}
	return dither.NewPalette(rgbs...)
}

// parsePalette resolves the palette flag: a built-in name, "sample" for
// extraction from the input image, or a custom color list.
func parsePalette(c *cli.Context) (*dither.Palette, error) {
	arg := c.String("palette")

	if p, ok := dither.PaletteByName(arg); ok {
		return p, nil
	}
	if strings.ToLower(arg) == "sample" {
		return samplePalette()
	}

	colors, err := parseColors("palette", arg)
	if err != nil {
		return nil, err
	}
	return dither.NewPalette(toEngineColors(colors)...)
}
