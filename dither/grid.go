package dither

import "image"

// Grid is a width by height raster of colors, stored row-major and
// addressed by (x, y). A 0x0 grid is valid and flows through every style
// unchanged.
type Grid struct {
	w, h int
	pix  []RGB
}

// NewGrid returns a zeroed grid of the given dimensions.
func NewGrid(w, h int) *Grid {
	return &Grid{w: w, h: h, pix: make([]RGB, w*h)}
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// At returns the color at (x, y). It panics when the point is outside the
// grid, like a slice index would.
func (g *Grid) At(x, y int) RGB {
	return g.pix[y*g.w+x]
}

// Set writes the color at (x, y).
func (g *Grid) Set(x, y int, c RGB) {
	g.pix[y*g.w+x] = c
}

// FromImage converts img into a grid, dropping any alpha channel. Sources
// decoded by the imaging package are *image.NRGBA, which gets a direct
// pixel copy; everything else goes through the color model.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())

	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < g.h; y++ {
			row := n.Pix[y*n.Stride : y*n.Stride+g.w*4]
			for x := 0; x < g.w; x++ {
				g.pix[y*g.w+x] = RGB{
					int32(row[x*4]),
					int32(row[x*4+1]),
					int32(row[x*4+2]),
				}
			}
		}
		return g
	}

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			r, gr, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			g.pix[y*g.w+x] = RGB{int32(r >> 8), int32(gr >> 8), int32(bl >> 8)}
		}
	}
	return g
}

// Image renders the grid as an opaque NRGBA image.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.w, g.h))
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			c := g.pix[y*g.w+x]
			i := y*img.Stride + x*4
			img.Pix[i] = uint8(c.R)
			img.Pix[i+1] = uint8(c.G)
			img.Pix[i+2] = uint8(c.B)
			img.Pix[i+3] = 255
		}
	}
	return img
}
