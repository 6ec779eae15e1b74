package dither

import "fmt"

// RGB is one pixel or palette color. Channels are stored wider than a byte
// so that color math on values pushed outside 0-255 by accumulated error
// stays exact.
type RGB struct {
	R, G, B int32
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// sqDist is the squared Euclidean distance between two colors.
func sqDist(a, b RGB) int64 {
	dr := int64(a.R - b.R)
	dg := int64(a.G - b.G)
	db := int64(a.B - b.B)
	return dr*dr + dg*dg + db*db
}

// sqDistFloat is sqDist against a color that still carries fractional
// diffused error.
func sqDistFloat(r, g, b float64, c RGB) float64 {
	dr := r - float64(c.R)
	dg := g - float64(c.G)
	db := b - float64(c.B)
	return dr*dr + dg*dg + db*db
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
