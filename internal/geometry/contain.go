package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned when an image or viewport size is zero,
// negative or not finite.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Size is a width and height in some pixel frame.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both sides are finite and strictly positive.
func (s Size) Valid() bool {
	return positive(s.Width) && positive(s.Height)
}

// ContainTransform is the scale and offset that letterboxes content into a
// viewport, like CSS object-fit: contain.
type ContainTransform struct {
	// Scale is the uniform content-to-viewport scale factor.
	Scale float64 `json:"scale"`

	// X is the horizontal offset of the scaled content's left edge.
	X float64 `json:"x"`

	// Y is the vertical offset of the scaled content's top edge.
	Y float64 `json:"y"`
}

// ComputeContainTransform fits contentW x contentH into viewportW x viewportH
// preserving aspect ratio and centers the result.
//
// Parameters:
//   - contentW, contentH: size of the content (the photo after rotation).
//   - viewportW, viewportH: size of the area it is fitted into.
//
// Returns ErrInvalidDimensions if any size is not finite and positive, so the
// result never contains NaN or Inf.
//
// Example: content 1000x500 into a 400x400 viewport is width-constrained and
// gives scale 0.4, x 0, y 100.
func ComputeContainTransform(contentW, contentH, viewportW, viewportH float64) (ContainTransform, error) {
	if !positive(contentW) || !positive(contentH) || !positive(viewportW) || !positive(viewportH) {
		return ContainTransform{}, fmt.Errorf("%w: content %gx%g, viewport %gx%g",
			ErrInvalidDimensions, contentW, contentH, viewportW, viewportH)
	}

	scale := math.Min(viewportW/contentW, viewportH/contentH)

	return ContainTransform{
		Scale: scale,
		X:     (viewportW - contentW*scale) / 2,
		Y:     (viewportH - contentH*scale) / 2,
	}, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
