package annotation

import (
	"fmt"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// RotateStored re-maps stored geometry after the user rotates the photo by a
// right angle, so every annotation stays on the same physical content.
//
// The recorded rotation is the starting orientation; toRotation is the new one.
// Points are turned clockwise a quarter at a time, rect spans swap axes, and
// scalar lengths are rescaled because they are fractions of the effective image
// width, which changes when width and height swap. The recorded render
// transform is refitted to the recorded stage.
//
// The natural image size must be recorded; otherwise the effective size is
// unknown and geometry.ErrInvalidDimensions is returned.
func RotateStored(s Stored, toRotation int) (Stored, error) {
	to, err := geometry.NormalizeRotation(toRotation)
	if err != nil {
		return Stored{}, err
	}
	size, ok := s.EffectiveImageSize()
	if !ok {
		return Stored{}, fmt.Errorf("%w: natural image size not recorded", geometry.ErrInvalidDimensions)
	}

	from := s.Rotation()
	steps := ((to - from + 360) % 360) / 90

	set := s.Set
	for i := 0; i < steps; i++ {
		set = quarterTurn(set, size.Width/size.Height)
		size = geometry.Size{Width: size.Height, Height: size.Width}
	}

	meta := s.Meta
	t := RenderTransform{ImageRotation: to}
	if meta.ImageRenderTransform != nil {
		t = *meta.ImageRenderTransform
		t.ImageRotation = to
	}
	if fit, err := geometry.ComputeContainTransform(size.Width, size.Height, meta.StageWidth, meta.StageHeight); err == nil {
		t.ImageScale, t.ImageX, t.ImageY = fit.Scale, fit.X, fit.Y
	}
	meta.ImageRenderTransform = &t

	return Stored{Set: set, Meta: meta}, nil
}

// quarterTurn rotates normalized geometry 90 degrees clockwise. aspect is the
// effective width over height before the turn.
func quarterTurn(in Set, aspect float64) Set {
	turn := func(fx, fy float64) (float64, float64) { return 1 - fy, fx }
	turnPoints := func(pts []float64) []float64 {
		if len(pts) != 4 {
			return pts
		}
		out := make([]float64, 4)
		out[0], out[1] = turn(pts[0], pts[1])
		out[2], out[3] = turn(pts[2], pts[3])
		return out
	}

	out := Set{
		Lines:      make([]Line, 0, len(in.Lines)),
		Rects:      make([]Rect, 0, len(in.Rects)),
		Arrows:     make([]Arrow, 0, len(in.Arrows)),
		Texts:      make([]Text, 0, len(in.Texts)),
		Dimensions: make([]Dimension, 0, len(in.Dimensions)),
	}
	for _, a := range in.Lines {
		a.Points = turnPoints(a.Points)
		a.StrokeWidth *= aspect
		out.Lines = append(out.Lines, a)
	}
	for _, a := range in.Arrows {
		a.Points = turnPoints(a.Points)
		a.StrokeWidth *= aspect
		out.Arrows = append(out.Arrows, a)
	}
	for _, a := range in.Rects {
		a.X, a.Y, a.Width, a.Height = 1-a.Y-a.Height, a.X, a.Height, a.Width
		a.StrokeWidth *= aspect
		out.Rects = append(out.Rects, a)
	}
	for _, a := range in.Texts {
		a.X, a.Y = turn(a.X, a.Y)
		a.FontSize *= aspect
		out.Texts = append(out.Texts, a)
	}
	for _, a := range in.Dimensions {
		a.Points = turnPoints(a.Points)
		a.StrokeWidth *= aspect
		a.FontSize *= aspect
		out.Dimensions = append(out.Dimensions, a)
	}
	return out
}
