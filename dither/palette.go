package dither

import (
	"errors"
	"math"
	"sort"
	"strings"
)

var (
	ErrNoColors         = errors.New("palette has no colors")
	ErrNoShades         = errors.New("uniform palette has no shades")
	ErrPaletteExhausted = errors.New("every palette color is excluded")
)

// Palette is an immutable ordered set of allowed output colors. The order
// matters: when two colors are equally close to a target, the earlier one
// wins. Palettes built from shades additionally remember the shade list,
// which enables a per-channel shortcut in Closest.
type Palette struct {
	colors []RGB

	// shades is non-nil only for palettes built with NewUniform, where
	// colors is the full Cartesian product of it with itself three times.
	shades []int32
}

// NewPalette builds a palette from an explicit color list. At least one
// color is required.
func NewPalette(colors ...RGB) (*Palette, error) {
	if len(colors) == 0 {
		return nil, ErrNoColors
	}
	p := &Palette{colors: make([]RGB, len(colors))}
	copy(p.colors, colors)
	return p, nil
}

// NewUniform builds a palette whose colors are every combination of the
// given shades across the three channels. At least one shade is required.
// The expansion iterates R slowest and B fastest, which fixes the tie-break
// order for exclusion-aware searches.
func NewUniform(shades ...int32) (*Palette, error) {
	if len(shades) == 0 {
		return nil, ErrNoShades
	}
	n := len(shades)
	p := &Palette{
		colors: make([]RGB, 0, n*n*n),
		shades: make([]int32, n),
	}
	copy(p.shades, shades)
	for _, r := range p.shades {
		for _, g := range p.shades {
			for _, b := range p.shades {
				p.colors = append(p.colors, RGB{r, g, b})
			}
		}
	}
	return p, nil
}

// Size returns the number of colors in the palette.
func (p *Palette) Size() int {
	return len(p.colors)
}

// Colors returns a copy of the palette's colors in tie-break order.
func (p *Palette) Colors() []RGB {
	colors := make([]RGB, len(p.colors))
	copy(colors, p.colors)
	return colors
}

// Closest returns the palette color with the smallest squared Euclidean
// distance to c. It works for out-of-range channel values too.
//
// For a uniform palette each channel independently snaps to its nearest
// shade. That is equivalent to scanning the expanded color list, because
// the list holds every shade combination, so each distance term can be
// minimized on its own. It is not a valid shortcut for any other palette
// shape, which is why it is tied to the shades field.
func (p *Palette) Closest(c RGB) RGB {
	if p.shades != nil {
		return RGB{p.closestShade(c.R), p.closestShade(c.G), p.closestShade(c.B)}
	}

	best := p.colors[0]
	bestDist := sqDist(c, best)
	for _, pc := range p.colors[1:] {
		if d := sqDist(c, pc); d < bestDist {
			best, bestDist = pc, d
		}
	}
	return best
}

// ClosestExcluding is Closest restricted to palette colors not present in
// excluded. Exclusion always scans the full color list, even for uniform
// palettes. If every color is excluded it returns ErrPaletteExhausted.
func (p *Palette) ClosestExcluding(c RGB, excluded []RGB) (RGB, error) {
	var best RGB
	bestDist := int64(-1)
	for _, pc := range p.colors {
		if containsColor(excluded, pc) {
			continue
		}
		if d := sqDist(c, pc); bestDist < 0 || d < bestDist {
			best, bestDist = pc, d
		}
	}
	if bestDist < 0 {
		return RGB{}, ErrPaletteExhausted
	}
	return best, nil
}

// closestFloat is Closest for a color that still carries fractional
// diffused error. Truncating to integers first would change which palette
// color wins in close races, so the search runs in float math.
func (p *Palette) closestFloat(r, g, b float64) RGB {
	if p.shades != nil {
		return RGB{p.closestShadeFloat(r), p.closestShadeFloat(g), p.closestShadeFloat(b)}
	}

	best := p.colors[0]
	bestDist := sqDistFloat(r, g, b, best)
	for _, pc := range p.colors[1:] {
		if d := sqDistFloat(r, g, b, pc); d < bestDist {
			best, bestDist = pc, d
		}
	}
	return best
}

// closestFloatExcluding is ClosestExcluding in float math.
func (p *Palette) closestFloatExcluding(r, g, b float64, excluded []RGB) (RGB, error) {
	var best RGB
	bestDist := -1.0
	for _, pc := range p.colors {
		if containsColor(excluded, pc) {
			continue
		}
		if d := sqDistFloat(r, g, b, pc); bestDist < 0 || d < bestDist {
			best, bestDist = pc, d
		}
	}
	if bestDist < 0 {
		return RGB{}, ErrPaletteExhausted
	}
	return best, nil
}

func (p *Palette) closestShade(v int32) int32 {
	best := p.shades[0]
	bestDiff := abs32(v - best)
	for _, s := range p.shades[1:] {
		if d := abs32(v - s); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best
}

func (p *Palette) closestShadeFloat(v float64) int32 {
	best := p.shades[0]
	bestDiff := math.Abs(v - float64(best))
	for _, s := range p.shades[1:] {
		if d := math.Abs(v - float64(s)); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best
}

func containsColor(colors []RGB, c RGB) bool {
	for _, pc := range colors {
		if pc == c {
			return true
		}
	}
	return false
}

func mustPalette(p *Palette, err error) *Palette {
	if err != nil {
		panic(err)
	}
	return p
}

var namedPalettes = map[string]*Palette{
	"blackandwhite": mustPalette(NewPalette(
		RGB{0, 0, 0},
		RGB{255, 255, 255},
	)),
	"grayscale": mustPalette(NewPalette(
		RGB{0, 0, 0},
		RGB{120, 120, 120},
		RGB{255, 255, 255},
	)),
	"rgbwb": mustPalette(NewPalette(
		RGB{0, 0, 0},
		RGB{255, 0, 0},
		RGB{0, 255, 0},
		RGB{0, 0, 255},
		RGB{255, 255, 255},
	)),
	"blocky":   mustPalette(NewUniform(0, 120, 255)),
	"finer":    mustPalette(NewUniform(0, 100, 180, 255)),
	"veryfine": mustPalette(NewUniform(0, 30, 60, 90, 120, 150, 180, 210, 240, 255)),
}

// PaletteByName returns one of the built-in palettes. Names are
// case-insensitive.
func PaletteByName(name string) (*Palette, bool) {
	p, ok := namedPalettes[strings.ToLower(name)]
	return p, ok
}

// PaletteNames returns the built-in palette names, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(namedPalettes))
	for name := range namedPalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
