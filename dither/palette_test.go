package dither

import (
	"errors"
	"reflect"
	"testing"
)

func TestPaletteConstruction(t *testing.T) {
	if _, err := NewPalette(); !errors.Is(err, ErrNoColors) {
		t.Fatalf("NewPalette() error = %v, want ErrNoColors", err)
	}
	if _, err := NewUniform(); !errors.Is(err, ErrNoShades) {
		t.Fatalf("NewUniform() error = %v, want ErrNoShades", err)
	}

	p, err := NewPalette(RGB{1, 2, 3})
	if err != nil {
		t.Fatalf("NewPalette with one color: %v", err)
	}
	if p.Size() != 1 {
		t.Fatalf("Size = %d, want 1", p.Size())
	}
}

func TestClosest(t *testing.T) {
	p, err := NewPalette(RGB{0, 0, 0}, RGB{255, 255, 255}, RGB{255, 0, 0})
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}

	for _, tc := range []struct {
		name string
		in   RGB
		want RGB
	}{
		{name: "exact_match", in: RGB{0, 0, 0}, want: RGB{0, 0, 0}},
		{name: "near_black", in: RGB{10, 10, 10}, want: RGB{0, 0, 0}},
		{name: "near_white", in: RGB{200, 220, 240}, want: RGB{255, 255, 255}},
		{name: "red_wins", in: RGB{200, 40, 60}, want: RGB{255, 0, 0}},
		{name: "above_range", in: RGB{900, 900, 900}, want: RGB{255, 255, 255}},
		{name: "below_range", in: RGB{-500, -500, -500}, want: RGB{0, 0, 0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Closest(tc.in); got != tc.want {
				t.Fatalf("Closest(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestClosestTieBreak(t *testing.T) {
	// (1,0,0) is exactly between both entries, so the earlier one must win.
	p, err := NewPalette(RGB{0, 0, 0}, RGB{2, 0, 0})
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if got := p.Closest(RGB{1, 0, 0}); got != (RGB{0, 0, 0}) {
		t.Fatalf("Closest tie = %v, want first entry (0, 0, 0)", got)
	}

	flipped, err := NewPalette(RGB{2, 0, 0}, RGB{0, 0, 0})
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if got := flipped.Closest(RGB{1, 0, 0}); got != (RGB{2, 0, 0}) {
		t.Fatalf("Closest tie = %v, want first entry (2, 0, 0)", got)
	}
}

func TestClosestExcluding(t *testing.T) {
	p, err := NewPalette(RGB{0, 0, 0}, RGB{255, 255, 255}, RGB{255, 0, 0})
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}

	got, err := p.ClosestExcluding(RGB{0, 0, 0}, nil)
	if err != nil {
		t.Fatalf("ClosestExcluding with no exclusions: %v", err)
	}
	if got != (RGB{0, 0, 0}) {
		t.Fatalf("got %v, want (0, 0, 0)", got)
	}

	// Black is excluded, and red is closer to black than white is.
	got, err = p.ClosestExcluding(RGB{0, 0, 0}, []RGB{{0, 0, 0}})
	if err != nil {
		t.Fatalf("ClosestExcluding: %v", err)
	}
	if got != (RGB{255, 0, 0}) {
		t.Fatalf("got %v, want (255, 0, 0)", got)
	}

	// Excluding a color that isn't in the palette changes nothing.
	got, err = p.ClosestExcluding(RGB{10, 10, 10}, []RGB{{1, 1, 1}})
	if err != nil {
		t.Fatalf("ClosestExcluding: %v", err)
	}
	if got != (RGB{0, 0, 0}) {
		t.Fatalf("got %v, want (0, 0, 0)", got)
	}

	if _, err = p.ClosestExcluding(RGB{0, 0, 0}, p.Colors()); !errors.Is(err, ErrPaletteExhausted) {
		t.Fatalf("excluding the whole palette: error = %v, want ErrPaletteExhausted", err)
	}
}

func TestUniformExpansion(t *testing.T) {
	p, err := NewUniform(0, 100, 255)
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	if p.Size() != 27 {
		t.Fatalf("Size = %d, want 27", p.Size())
	}

	colors := p.Colors()
	wantHead := []RGB{
		{0, 0, 0}, {0, 0, 100}, {0, 0, 255},
		{0, 100, 0}, {0, 100, 100}, {0, 100, 255},
	}
	if !reflect.DeepEqual(colors[:6], wantHead) {
		t.Fatalf("expansion head = %v, want %v", colors[:6], wantHead)
	}
	if colors[26] != (RGB{255, 255, 255}) {
		t.Fatalf("last color = %v, want (255, 255, 255)", colors[26])
	}
}

func TestUniformClosest(t *testing.T) {
	p, err := NewUniform(0, 100, 255)
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}

	for _, tc := range []struct {
		name string
		in   RGB
		want RGB
	}{
		{name: "per_channel", in: RGB{90, 40, 200}, want: RGB{100, 0, 255}},
		{name: "exact", in: RGB{100, 100, 100}, want: RGB{100, 100, 100}},
		{name: "out_of_range", in: RGB{-40, 300, 130}, want: RGB{0, 255, 100}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Closest(tc.in); got != tc.want {
				t.Fatalf("Closest(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	// A value exactly between two shades snaps to the earlier shade.
	mid, err := NewUniform(0, 100)
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	if got := mid.Closest(RGB{50, 50, 50}); got != (RGB{0, 0, 0}) {
		t.Fatalf("shade tie = %v, want (0, 0, 0)", got)
	}
}

// The per-channel shortcut must agree with a brute-force scan of the
// expanded color list for every input, including out-of-range ones.
func TestUniformMatchesExpandedSearch(t *testing.T) {
	p, err := NewUniform(0, 100, 255)
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	expanded := p.Colors()

	bruteForce := func(c RGB) RGB {
		best := expanded[0]
		bestDist := sqDist(c, best)
		for _, pc := range expanded[1:] {
			if d := sqDist(c, pc); d < bestDist {
				best, bestDist = pc, d
			}
		}
		return best
	}

	for r := int32(-30); r <= 285; r += 45 {
		for g := int32(-30); g <= 285; g += 45 {
			for b := int32(-30); b <= 285; b += 45 {
				c := RGB{r, g, b}
				if got, want := p.Closest(c), bruteForce(c); got != want {
					t.Fatalf("Closest(%v) = %v, brute force found %v", c, got, want)
				}
			}
		}
	}
}

func TestUniformExclusionUsesExpansion(t *testing.T) {
	p, err := NewUniform(0, 255)
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}

	// Three corners are equally close once black is excluded; the B-fastest
	// expansion order makes (0, 0, 255) the winner.
	got, err := p.ClosestExcluding(RGB{0, 0, 0}, []RGB{{0, 0, 0}})
	if err != nil {
		t.Fatalf("ClosestExcluding: %v", err)
	}
	if got != (RGB{0, 0, 255}) {
		t.Fatalf("got %v, want (0, 0, 255)", got)
	}

	if _, err = p.ClosestExcluding(RGB{0, 0, 0}, p.Colors()); !errors.Is(err, ErrPaletteExhausted) {
		t.Fatalf("excluding the whole palette: error = %v, want ErrPaletteExhausted", err)
	}
}

func TestPaletteByName(t *testing.T) {
	for _, tc := range []struct {
		name string
		size int
		head RGB
		tail RGB
	}{
		{name: "blackandwhite", size: 2, head: RGB{0, 0, 0}, tail: RGB{255, 255, 255}},
		{name: "grayscale", size: 3, head: RGB{0, 0, 0}, tail: RGB{255, 255, 255}},
		{name: "rgbwb", size: 5, head: RGB{0, 0, 0}, tail: RGB{255, 255, 255}},
		{name: "blocky", size: 27, head: RGB{0, 0, 0}, tail: RGB{255, 255, 255}},
		{name: "finer", size: 64, head: RGB{0, 0, 0}, tail: RGB{255, 255, 255}},
		{name: "veryfine", size: 1000, head: RGB{0, 0, 0}, tail: RGB{255, 255, 255}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := PaletteByName(tc.name)
			if !ok {
				t.Fatalf("PaletteByName(%q) not found", tc.name)
			}
			if p.Size() != tc.size {
				t.Fatalf("Size = %d, want %d", p.Size(), tc.size)
			}
			colors := p.Colors()
			if colors[0] != tc.head || colors[len(colors)-1] != tc.tail {
				t.Fatalf("head/tail = %v/%v, want %v/%v",
					colors[0], colors[len(colors)-1], tc.head, tc.tail)
			}
		})
	}

	rgbwb, _ := PaletteByName("rgbwb")
	want := []RGB{{0, 0, 0}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 255}}
	if !reflect.DeepEqual(rgbwb.Colors(), want) {
		t.Fatalf("rgbwb colors = %v, want %v", rgbwb.Colors(), want)
	}

	if _, ok := PaletteByName("RGBWB"); !ok {
		t.Fatal("PaletteByName should be case-insensitive")
	}
	if _, ok := PaletteByName("nope"); ok {
		t.Fatal("PaletteByName returned a palette for an unknown name")
	}
}

func TestPaletteNames(t *testing.T) {
	want := []string{"blackandwhite", "blocky", "finer", "grayscale", "rgbwb", "veryfine"}
	if got := PaletteNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PaletteNames = %v, want %v", got, want)
	}
}

func TestColorsReturnsACopy(t *testing.T) {
	p, err := NewPalette(RGB{0, 0, 0}, RGB{255, 255, 255})
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	colors := p.Colors()
	colors[0] = RGB{9, 9, 9}
	if got := p.Colors()[0]; got != (RGB{0, 0, 0}) {
		t.Fatalf("palette mutated through Colors(): %v", got)
	}
}
