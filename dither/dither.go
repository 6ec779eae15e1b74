// Package dither quantizes raster images down to a fixed palette,
// optionally diffusing the quantization error so the result reads as the
// original from a distance.
package dither

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Style is one pixel-scan strategy. Every style returns a grid with the
// same dimensions as its input and leaves the result deterministic for
// identical inputs. The verbose flag only controls progress logging and
// never changes output pixels.
type Style func(g *Grid, p *Palette, verbose bool) (*Grid, error)

// residual is the quantization error one pixel still owes its neighbors.
type residual struct {
	r, g, b float64
}

// Floyd-Steinberg kernel. Weights sum to 1; shares that would land
// outside the grid are dropped, not redistributed.
var fsKernel = [4]struct {
	dx, dy int
	weight float64
}{
	{1, 0, 7.0 / 16},
	{-1, 1, 3.0 / 16},
	{0, 1, 5.0 / 16},
	{1, 1, 1.0 / 16},
}

func diffuse(carry []residual, w, h, x, y int, r, g, b float64) {
	for _, k := range fsKernel {
		nx, ny := x+k.dx, y+k.dy
		if nx < 0 || nx >= w || ny >= h {
			continue
		}
		i := ny*w + nx
		carry[i].r += r * k.weight
		carry[i].g += g * k.weight
		carry[i].b += b * k.weight
	}
}

func logRow(y, rows int) {
	if y%10 == 0 {
		slog.Info("dithering", "row", y, "rows", rows)
	}
}

// Identity returns the grid unchanged. It exists so "no dithering" can be
// selected like any other style.
func Identity(g *Grid, p *Palette, verbose bool) (*Grid, error) {
	return g, nil
}

// NearestMatch replaces every pixel with its closest palette color, in
// place, and returns the same grid. Pixels never interact, so traversal
// order cannot affect the result.
func NearestMatch(g *Grid, p *Palette, verbose bool) (*Grid, error) {
	for y := 0; y < g.h; y++ {
		if verbose {
			logRow(y, g.h)
		}
		for x := 0; x < g.w; x++ {
			g.pix[y*g.w+x] = p.Closest(g.pix[y*g.w+x])
		}
	}
	return g, nil
}

// FloydSteinberg dithers into a new grid with the classic error diffusion
// kernel. Rows run top to bottom and columns left to right; that order is
// part of the algorithm, since each pixel reads error written by earlier
// pixels and pushes its own residue strictly ahead of the scan. Adjusted
// values and residues are never clamped to the channel range.
func FloydSteinberg(g *Grid, p *Palette, verbose bool) (*Grid, error) {
	out := NewGrid(g.w, g.h)
	carry := make([]residual, g.w*g.h)

	for y := 0; y < g.h; y++ {
		if verbose {
			logRow(y, g.h)
		}
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			c := g.pix[i]
			e := carry[i]
			ar := float64(c.R) + e.r
			ag := float64(c.G) + e.g
			ab := float64(c.B) + e.b

			chosen := p.closestFloat(ar, ag, ab)
			out.pix[i] = chosen

			diffuse(carry, g.w, g.h, x, y,
				ar-float64(chosen.R),
				ag-float64(chosen.G),
				ab-float64(chosen.B),
			)
		}
	}
	return out, nil
}

// NoTouchFloydSteinberg is FloydSteinberg with one extra rule: a pixel may
// not take the color already chosen for its left or top neighbor, so no
// two horizontally or vertically adjacent output pixels match. The
// exclusion list holds at most two colors. A palette needs at least three
// colors for the search to stay solvable everywhere; when it runs dry the
// whole call fails with an error wrapping ErrPaletteExhausted.
func NoTouchFloydSteinberg(g *Grid, p *Palette, verbose bool) (*Grid, error) {
	out := NewGrid(g.w, g.h)
	carry := make([]residual, g.w*g.h)

	for y := 0; y < g.h; y++ {
		if verbose {
			logRow(y, g.h)
		}
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			c := g.pix[i]
			e := carry[i]
			ar := float64(c.R) + e.r
			ag := float64(c.G) + e.g
			ab := float64(c.B) + e.b

			var excluded [2]RGB
			n := 0
			if x > 0 {
				excluded[n] = out.pix[i-1]
				n++
			}
			if y > 0 {
				excluded[n] = out.pix[i-g.w]
				n++
			}

			chosen, err := p.closestFloatExcluding(ar, ag, ab, excluded[:n])
			if err != nil {
				return nil, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
			}
			out.pix[i] = chosen

			diffuse(carry, g.w, g.h, x, y,
				ar-float64(chosen.R),
				ag-float64(chosen.G),
				ab-float64(chosen.B),
			)
		}
	}
	return out, nil
}

var styles = map[string]Style{
	"none":           Identity,
	"closest":        NearestMatch,
	"floydsteinberg": FloydSteinberg,
	"notouch":        NoTouchFloydSteinberg,
}

// StyleByName returns the style registered under name. Names are
// case-insensitive.
func StyleByName(name string) (Style, bool) {
	s, ok := styles[strings.ToLower(name)]
	return s, ok
}

// StyleNames returns the registered style names, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
