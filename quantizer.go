package main

import (
	"image"
	"image/color"
)

// fixedQuantizer implements draw.Quantizer. It ignores the provided image
// and just returns the palette it was built with. This is useful for places
// that only allow you to set the palette through a draw.Quantizer, like the
// image/gif package, which would otherwise re-quantize an already dithered
// image with its own palette.
type fixedQuantizer struct {
	p []color.Color
}

func (fq *fixedQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	return fq.p
}
