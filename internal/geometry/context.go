package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRotation is returned for rotations that are not a multiple of 90 degrees.
var ErrInvalidRotation = errors.New("invalid rotation")

// NormalizeRotation maps any multiple of 90 degrees (including negative values)
// onto 0, 90, 180 or 270.
func NormalizeRotation(degrees int) (int, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("%w: %d degrees is not a right angle", ErrInvalidRotation, degrees)
	}
	r := degrees % 360
	if r < 0 {
		r += 360
	}
	return r, nil
}

// EffectiveSize returns the natural image size as displayed after rotation.
// Width and height are swapped for 90 and 270 degrees. The rotation must
// already be normalized; other values are treated as unrotated.
func EffectiveSize(naturalW, naturalH float64, rotation int) Size {
	if rotation == 90 || rotation == 270 {
		return Size{Width: naturalH, Height: naturalW}
	}
	return Size{Width: naturalW, Height: naturalH}
}

// Context describes how effective image pixels are fitted into a stage and is
// the only input needed to convert between stage pixels and normalized space.
//
// A Context is a plain value with no identity: contexts built from equal inputs
// compare equal with ==. It must be rebuilt whenever the photo or the stage size
// changes; a context from before an image swap maps onto the wrong content.
type Context struct {
	// Image is the effective (rotation-adjusted) image size in pixels.
	Image Size `json:"image"`

	// Stage is the size of the surface the image is fitted into.
	Stage Size `json:"stage"`

	// Fit is the contain-fit of Image into Stage.
	Fit ContainTransform `json:"fit"`

	// Rotation is the right-angle rotation applied to the natural image, in degrees.
	// Zero when the context was built from effective dimensions directly.
	Rotation int `json:"rotation"`

	// Natural is the unrotated image size. Equal to Image when unknown.
	Natural Size `json:"natural"`
}

// BuildContext creates a Context from effective image dimensions and the
// current stage size.
func BuildContext(effectiveW, effectiveH, stageW, stageH float64) (Context, error) {
	fit, err := ComputeContainTransform(effectiveW, effectiveH, stageW, stageH)
	if err != nil {
		return Context{}, err
	}
	img := Size{Width: effectiveW, Height: effectiveH}
	return Context{
		Image:   img,
		Stage:   Size{Width: stageW, Height: stageH},
		Fit:     fit,
		Natural: img,
	}, nil
}

// BuildContextForImage creates a Context from the natural image size and a
// right-angle rotation. The contain-fit is computed on the effective size, never
// on the raw natural size.
func BuildContextForImage(naturalW, naturalH float64, rotation int, stageW, stageH float64) (Context, error) {
	rot, err := NormalizeRotation(rotation)
	if err != nil {
		return Context{}, err
	}
	eff := EffectiveSize(naturalW, naturalH, rot)
	ctx, err := BuildContext(eff.Width, eff.Height, stageW, stageH)
	if err != nil {
		return Context{}, err
	}
	ctx.Rotation = rot
	ctx.Natural = Size{Width: naturalW, Height: naturalH}
	return ctx, nil
}

// ContextFromTransform rebuilds a Context around a previously recorded
// contain-fit instead of recomputing it. Used when migrating payloads whose
// geometry was captured against a known transform.
func ContextFromTransform(effectiveW, effectiveH, stageW, stageH float64, fit ContainTransform) (Context, error) {
	if !positive(effectiveW) || !positive(effectiveH) || !positive(fit.Scale) {
		return Context{}, fmt.Errorf("%w: image %gx%g, scale %g",
			ErrInvalidDimensions, effectiveW, effectiveH, fit.Scale)
	}
	img := Size{Width: effectiveW, Height: effectiveH}
	return Context{
		Image:   img,
		Stage:   Size{Width: stageW, Height: stageH},
		Fit:     fit,
		Natural: img,
	}, nil
}

// Valid reports whether c can map coordinates in both directions: image,
// natural and stage sizes finite and positive, a positive scale and finite
// offsets. Contexts from the builders are always valid; the zero Context is not.
func (c Context) Valid() bool {
	return c.Image.Valid() && c.Natural.Valid() && c.Stage.Valid() &&
		positive(c.Fit.Scale) && !math.IsInf(c.Fit.X, 0) && !math.IsNaN(c.Fit.X) &&
		!math.IsInf(c.Fit.Y, 0) && !math.IsNaN(c.Fit.Y)
}

// NormalizePoint converts a stage-pixel point to fractions of the effective image.
func (c Context) NormalizePoint(px, py float64) (float64, float64) {
	imgX, imgY := c.StageToImage(px, py)
	return imgX / c.Image.Width, imgY / c.Image.Height
}

// DenormalizePoint converts image fractions to a point on this context's stage.
func (c Context) DenormalizePoint(fx, fy float64) (float64, float64) {
	return c.ImageToStage(fx*c.Image.Width, fy*c.Image.Height)
}

// NormalizeSpanX converts a horizontal stage length to a fraction of the image width.
// Scalar lengths such as stroke width and font size also use this axis.
func (c Context) NormalizeSpanX(length float64) float64 {
	return length / c.Fit.Scale / c.Image.Width
}

// NormalizeSpanY converts a vertical stage length to a fraction of the image height.
func (c Context) NormalizeSpanY(length float64) float64 {
	return length / c.Fit.Scale / c.Image.Height
}

// DenormalizeSpanX is the inverse of NormalizeSpanX.
func (c Context) DenormalizeSpanX(fraction float64) float64 {
	return fraction * c.Image.Width * c.Fit.Scale
}

// DenormalizeSpanY is the inverse of NormalizeSpanY.
func (c Context) DenormalizeSpanY(fraction float64) float64 {
	return fraction * c.Image.Height * c.Fit.Scale
}

// ImageToStage converts effective image pixels to stage pixels.
func (c Context) ImageToStage(imgX, imgY float64) (float64, float64) {
	return imgX*c.Fit.Scale + c.Fit.X, imgY*c.Fit.Scale + c.Fit.Y
}

// StageToImage converts stage pixels to effective image pixels.
func (c Context) StageToImage(px, py float64) (float64, float64) {
	return (px - c.Fit.X) / c.Fit.Scale, (py - c.Fit.Y) / c.Fit.Scale
}
