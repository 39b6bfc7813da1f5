package photo

import (
	"fmt"
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is the set of stroke colors offered by the annotation editor.
var DefaultPalette = []string{"#ff0000", "#ffff00", "#00ff00", "#00ffff", "#0000ff", "#ff00ff", "#ffffff", "#000000"}

// ColorShare is a quantized color and the share of pixels it covers.
type ColorShare struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"`
}

// DominantColors returns up to count of the most common colors in region,
// most common first. Each RGB component is quantized to a multiple of 16 so
// that near-identical shades group together.
func DominantColors(img image.Image, region image.Rectangle, count int) ([]ColorShare, error) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("color region %v is outside image bounds %v", region, img.Bounds())
	}
	if count < 1 {
		count = 1
	}

	counts := make(map[[3]uint8]int)
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			key := [3]uint8{uint8((r >> 8) &^ 15), uint8((g >> 8) &^ 15), uint8((b >> 8) &^ 15)}
			counts[key]++
		}
	}

	total := float64(region.Dx() * region.Dy())
	shares := make([]ColorShare, 0, len(counts))
	for rgb, n := range counts {
		shares = append(shares, ColorShare{
			Hex:        colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}.Hex(),
			Percentage: float64(n) * 100 / total,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].Hex < shares[j].Hex
	})

	if len(shares) > count {
		shares = shares[:count]
	}
	return shares, nil
}

// ColorSuggestion is the stroke color that stands out best against a region.
type ColorSuggestion struct {
	Color      string       `json:"color"`
	Contrast   float64      `json:"contrast"`
	Background []ColorShare `json:"background"`
}

// SuggestStrokeColor picks the palette color farthest in CIE L*a*b* from the
// dominant colors under region, weighting each background color by its share.
// An empty palette selects DefaultPalette. Ties keep palette order.
func SuggestStrokeColor(img image.Image, region image.Rectangle, palette []string) (*ColorSuggestion, error) {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	background, err := DominantColors(img, region, 5)
	if err != nil {
		return nil, err
	}

	bg := make([]colorful.Color, len(background))
	for i, share := range background {
		bg[i], _ = colorful.Hex(share.Hex)
	}

	best := -1.0
	var choice string
	for _, hex := range palette {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette color %q is not a hex color", hex)
		}
		var score float64
		for i, share := range background {
			score += c.DistanceLab(bg[i]) * share.Percentage / 100
		}
		if score > best {
			best, choice = score, hex
		}
	}

	return &ColorSuggestion{
		Color:      choice,
		Contrast:   round3(best),
		Background: background,
	}, nil
}

func round3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}
