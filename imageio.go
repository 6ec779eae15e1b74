package main

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/halfgray/mottle/dither"
)

// getInputImage takes the input image path and returns an image that has
// modifications applied.
func getInputImage(arg string) (image.Image, error) {
	var img image.Image
	var err error

	if arg == "-" {
		img, err = imaging.Decode(os.Stdin, autoOrientation)
	} else {
		img, err = imaging.Open(arg, autoOrientation)
	}
	if err != nil {
		return nil, err
	}

	if width != 0 || height != 0 {
		// Box sampling is quick and fast, and better then others at downscaling
		// Downscaling will be a much more common use case for pre-dither scaling
		// then upscaling
		// https://pkg.go.dev/github.com/disintegration/imaging#ResampleFilter
		// https://en.wikipedia.org/wiki/Image_scaling#Box_sampling
		img = imaging.Resize(img, width, height, imaging.Box)
	}

	if grayscale {
		img = imaging.Grayscale(img)
	}
	if saturation != 0 {
		img = imaging.AdjustSaturation(img, saturation)
	}
	if contrast != 0 {
		img = imaging.AdjustContrast(img, contrast)
	}
	if brightness != 0 {
		img = imaging.AdjustBrightness(img, brightness)
	}

	if blurSigma > 0 {
		// Softens noise and compression artifacts that dithering would
		// otherwise amplify
		g := gift.New(gift.GaussianBlur(float32(blurSigma)))
		blurred := image.NewNRGBA(g.Bounds(img.Bounds()))
		g.Draw(blurred, img)
		img = blurred
	}

	return img, nil
}

// recolor swaps each palette color in the dithered image for its recolor
// counterpart. It should only be given a dithered image, where every pixel
// is exactly a palette color. The image is modified in place.
func recolor(img *image.NRGBA) {
	if len(recolorPalette) == 0 {
		return
	}

	// palette and recolorPalette are both NRGBA, so key on that.
	// First match wins when the palette repeats a color.
	swap := make(map[color.NRGBA]color.NRGBA, pal.Size())
	for i, c := range paletteToColors(pal) {
		nc := c.(color.NRGBA)
		if _, ok := swap[nc]; !ok {
			swap[nc] = recolorPalette[i].(color.NRGBA)
		}
	}

	for i := 0; i < len(img.Pix); i += 4 {
		c := color.NRGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
		if rc, ok := swap[c]; ok {
			img.Pix[i] = rc.R
			img.Pix[i+1] = rc.G
			img.Pix[i+2] = rc.B
		}
	}
}

// postProcImage post-processes the dithered image, applying recolor and
// upscaling.
func postProcImage(img *image.NRGBA) image.Image {
	recolor(img)

	if upscale == 1 {
		return img
	}

	return imaging.Resize(
		img,
		img.Bounds().Dx()*upscale,
		0,
		imaging.NearestNeighbor,
	)
}

// writeImage post-processes the dithered grid and encodes it to the
// configured output.
func writeImage(out *dither.Grid) error {
	img := postProcImage(out.Image())

	var file io.WriteCloser
	var path string
	var err error

	if outPath == "-" {
		file = os.Stdout
		path = "stdout"
	} else {
		if outIsDir {
			// Inside output directory
			// Same name as input file but potentially different extension
			path = filepath.Join(
				outPath,
				strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))+"."+outFormat,
			)
		} else {
			// Output file path
			path = outPath
		}

		file, err = os.OpenFile(path, outFileFlags, 0644)
		if err != nil {
			return fmt.Errorf("'%s': %w", path, err)
		}
	}

	if outFormat == "png" {
		err = (&png.Encoder{CompressionLevel: compLevel}).Encode(file, img)
		if err != nil {
			defer file.Close() // Keep (possibly stdout) open to write error messages then close
			return fmt.Errorf("error writing PNG to '%s': %w", path, err)
		}
	} else {
		// Every pixel already matches the palette exactly, so the encoder's
		// drawer diffuses zero error and acts as a plain nearest-color map
		gifPalette := paletteToColors(pal)
		if len(recolorPalette) != 0 {
			gifPalette = recolorPalette
		}
		err = gif.Encode(
			file, img,
			&gif.Options{
				NumColors: len(gifPalette),
				Quantizer: &fixedQuantizer{gifPalette},
			},
		)
		if err != nil {
			defer file.Close()
			return fmt.Errorf("error writing GIF to '%s': %w", path, err)
		}
	}
	file.Close()

	slog.Debug("wrote output", "path", path, "format", outFormat)
	return nil
}
