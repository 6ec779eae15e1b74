package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/halfgray/mottle/dither"
)

// Set at release build time through -ldflags
var (
	version = "v0.4.0"
	commit  = "unknown"
)

func main() {

	app := &cli.App{
		Name:  "mottle",
		Usage: "quantize images down to a small palette, with or without dithering",
		Description: "mottle reduces an image to a fixed set of colors.\n\n" +
			"Built-in palettes: " + strings.Join(dither.PaletteNames(), ", ") + ".\n" +
			"A custom palette is a space-separated list of colors, each an R,G,B tuple,\n" +
			"hex code, single gray level 0-255, or SVG color name. The palette 'sample'\n" +
			"picks dominant colors from the input image.\n\n" +
			"Styles: " + strings.Join(dither.StyleNames(), ", ") + ".",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "palette",
				Aliases: []string{"p"},
				Value:   "rgbwb",
			},
			&cli.StringFlag{
				Name:    "style",
				Aliases: []string{"d"},
				Value:   "floydsteinberg",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
			},
			&cli.BoolFlag{
				Name:    "grayscale",
				Aliases: []string{"g"},
			},
			&cli.StringFlag{
				Name: "saturation",
			},
			&cli.StringFlag{
				Name: "brightness",
			},
			&cli.StringFlag{
				Name: "contrast",
			},
			&cli.StringFlag{
				Name:    "recolor",
				Aliases: []string{"r"},
			},
			&cli.Float64Flag{
				Name: "blur",
			},
			&cli.BoolFlag{
				Name: "no-exif-rotation",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "png",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "out.png",
			},
			&cli.StringFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Required: true,
			},
			&cli.BoolFlag{
				Name: "no-overwrite",
			},
			&cli.StringFlag{
				Name:    "compression",
				Aliases: []string{"c"},
				Value:   "default",
			},
			&cli.UintFlag{
				Name:    "width",
				Aliases: []string{"x"},
			},
			&cli.UintFlag{
				Name:    "height",
				Aliases: []string{"y"},
			},
			&cli.UintFlag{
				Name:    "upscale",
				Aliases: []string{"u"},
				Value:   1,
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"V"},
			},
		},
		Before: preProcess,
		Action: run,
	}

	// Handle version flag
	if len(os.Args) == 2 && (os.Args[1] == "-V" || os.Args[1] == "--version") {
		fmt.Println("mottle", version)
		fmt.Println("Commit:", commit)
		return
	}

	// Hack around issue where required flags are still required even for help
	// https://github.com/urfave/cli/issues/1247
	if len(os.Args) == 2 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		cli.HelpPrinter(os.Stdout, cli.AppHelpTemplate, app)
		return
	}

	err := app.Run(os.Args)
	if err != nil {
		if len(os.Args) == 1 {
			// Bare invocation, show usage instead of a flag error
			cli.HelpPrinter(os.Stdout, cli.AppHelpTemplate, app)
			os.Exit(1)
		}
		fmt.Println(err)
		os.Exit(1)
	}
}
