package photo

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Snap is the outcome of moving a point onto the nearest strong edge.
type Snap struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Snapped  bool `json:"snapped"`
	Strength int  `json:"strength"`
}

// SnapToEdge looks for the strongest Sobel edge within radius pixels of p and
// returns its position, choosing the nearest one among equally strong edges.
// When no edge reaches minStrength (0-255), p is returned with Snapped false.
func SnapToEdge(img image.Image, p image.Point, radius int, minStrength uint8) Snap {
	miss := Snap{X: p.X, Y: p.Y}
	if radius < 1 || !p.In(img.Bounds()) {
		return miss
	}

	// One extra pixel so the gradient at the window edge sees its neighbors
	window := image.Rect(p.X-radius-1, p.Y-radius-1, p.X+radius+2, p.Y+radius+2).Intersect(img.Bounds())
	gray := effect.Grayscale(imaging.Crop(img, window))
	// Negative responses clamp to zero, so rising and falling steps are
	// measured on the image and its inverse.
	rising := effect.Sobel(gray)
	falling := effect.Sobel(effect.Invert(gray))

	best := Snap{Strength: -1}
	bestDist := math.MaxFloat64
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x, y := p.X+dx, p.Y+dy
			if !image.Pt(x, y).In(window) {
				continue
			}
			cx, cy := x-window.Min.X, y-window.Min.Y
			strength := int(max(rising.RGBAAt(cx, cy).R, falling.RGBAAt(cx, cy).R))
			dist := math.Hypot(float64(dx), float64(dy))
			if strength > best.Strength || (strength == best.Strength && dist < bestDist) {
				best = Snap{X: x, Y: y, Snapped: true, Strength: strength}
				bestDist = dist
			}
		}
	}

	if best.Strength < int(minStrength) || best.Strength == 0 {
		miss.Strength = max(best.Strength, 0)
		return miss
	}
	return best
}
