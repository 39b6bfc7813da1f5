package annotation

import (
	"fmt"
	"math"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// mapping converts one frame's coordinates and lengths into another's.
type mapping struct {
	point func(x, y float64) (float64, float64)
	spanX func(float64) float64
	spanY func(float64) float64
}

func normalizing(ctx geometry.Context) mapping {
	return mapping{point: ctx.NormalizePoint, spanX: ctx.NormalizeSpanX, spanY: ctx.NormalizeSpanY}
}

func denormalizing(ctx geometry.Context) mapping {
	return mapping{point: ctx.DenormalizePoint, spanX: ctx.DenormalizeSpanX, spanY: ctx.DenormalizeSpanY}
}

// Normalize converts display-space annotations into the storage encoding.
//
// Every point becomes a fraction of the effective image size (undoing the
// contain-fit in ctx), rect widths and heights become fractions of the image
// width and height, and stroke widths and font sizes become fractions of the
// image width. The result is stamped with CurrentVersion and with the stage
// size, natural image size and render transform taken from ctx.
//
// Annotations with malformed geometry (a point list that is not exactly four
// numbers, or non-finite values) are left out of the result and reported in the
// returned slice as *MalformedAnnotationError. The rest of the set is always
// returned.
//
// ctx must describe the image and stage the display geometry was captured on.
// An invalid ctx fails the whole call with geometry.ErrInvalidDimensions and
// nothing is produced, so non-finite geometry is never stamped as current.
func Normalize(d Display, ctx geometry.Context) (Stored, []error, error) {
	if !ctx.Valid() {
		return Stored{}, nil, invalidContext(ctx)
	}
	set, dropped := mapSet(d.Set, normalizing(ctx))
	return Stored{
		Set: set,
		Meta: Meta{
			StageWidth:         ctx.Stage.Width,
			StageHeight:        ctx.Stage.Height,
			ImageNaturalWidth:  ctx.Natural.Width,
			ImageNaturalHeight: ctx.Natural.Height,
			ImageRenderTransform: &RenderTransform{
				ImageScale:    ctx.Fit.Scale,
				ImageX:        ctx.Fit.X,
				ImageY:        ctx.Fit.Y,
				ImageRotation: ctx.Rotation,
			},
			NormalizedVersion: CurrentVersion,
		},
	}, dropped, nil
}

// Denormalize converts stored annotations into the pixel space of the stage
// described by ctx. The context may differ from the one used by Normalize (a
// different stage size); the geometry follows the photo content.
//
// ctx must be built from the image that is about to be shown. Reusing a
// context from before an image swap puts annotations on the wrong content.
// Malformed annotations are dropped and reported as in Normalize, and an
// invalid ctx fails the call the same way.
func Denormalize(s Stored, ctx geometry.Context) (Display, []error, error) {
	if !ctx.Valid() {
		return Display{}, nil, invalidContext(ctx)
	}
	set, dropped := mapSet(s.Set, denormalizing(ctx))
	return Display{Set: set, Stage: ctx.Stage}, dropped, nil
}

func invalidContext(ctx geometry.Context) error {
	return fmt.Errorf("%w: image %gx%g on stage %gx%g at scale %g",
		geometry.ErrInvalidDimensions, ctx.Image.Width, ctx.Image.Height,
		ctx.Stage.Width, ctx.Stage.Height, ctx.Fit.Scale)
}

func mapSet(in Set, m mapping) (Set, []error) {
	var dropped []error
	out := Set{
		Lines:      make([]Line, 0, len(in.Lines)),
		Rects:      make([]Rect, 0, len(in.Rects)),
		Arrows:     make([]Arrow, 0, len(in.Arrows)),
		Texts:      make([]Text, 0, len(in.Texts)),
		Dimensions: make([]Dimension, 0, len(in.Dimensions)),
	}

	for _, a := range in.Lines {
		pts, err := mapPoints(KindLine, a.ID, a.Points, m)
		if err == nil {
			err = checkFinite(KindLine, a.ID, a.StrokeWidth)
		}
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		a.Points = pts
		a.StrokeWidth = m.spanX(a.StrokeWidth)
		out.Lines = append(out.Lines, a)
	}

	for _, a := range in.Arrows {
		pts, err := mapPoints(KindArrow, a.ID, a.Points, m)
		if err == nil {
			err = checkFinite(KindArrow, a.ID, a.StrokeWidth)
		}
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		a.Points = pts
		a.StrokeWidth = m.spanX(a.StrokeWidth)
		out.Arrows = append(out.Arrows, a)
	}

	for _, a := range in.Rects {
		if err := checkFinite(KindRect, a.ID, a.X, a.Y, a.Width, a.Height, a.StrokeWidth); err != nil {
			dropped = append(dropped, err)
			continue
		}
		a.X, a.Y = m.point(a.X, a.Y)
		a.Width = m.spanX(a.Width)
		a.Height = m.spanY(a.Height)
		a.StrokeWidth = m.spanX(a.StrokeWidth)
		out.Rects = append(out.Rects, a)
	}

	for _, a := range in.Texts {
		if err := checkFinite(KindText, a.ID, a.X, a.Y, a.FontSize); err != nil {
			dropped = append(dropped, err)
			continue
		}
		a.X, a.Y = m.point(a.X, a.Y)
		a.FontSize = m.spanX(a.FontSize)
		out.Texts = append(out.Texts, a)
	}

	for _, a := range in.Dimensions {
		pts, err := mapPoints(KindDimension, a.ID, a.Points, m)
		if err == nil {
			err = checkFinite(KindDimension, a.ID, a.StrokeWidth, a.FontSize)
		}
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		a.Points = pts
		a.StrokeWidth = m.spanX(a.StrokeWidth)
		a.FontSize = m.spanX(a.FontSize)
		out.Dimensions = append(out.Dimensions, a)
	}

	return out, dropped
}

// mapPoints maps a flat [x1, y1, x2, y2] list into a new slice.
func mapPoints(kind Kind, id string, pts []float64, m mapping) ([]float64, error) {
	if len(pts) != 4 {
		return nil, &MalformedAnnotationError{
			Kind:   kind,
			ID:     id,
			Reason: fmt.Sprintf("expected 4 point values, got %d", len(pts)),
		}
	}
	if err := checkFinite(kind, id, pts...); err != nil {
		return nil, err
	}
	out := make([]float64, 4)
	out[0], out[1] = m.point(pts[0], pts[1])
	out[2], out[3] = m.point(pts[2], pts[3])
	return out, nil
}

func checkFinite(kind Kind, id string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &MalformedAnnotationError{Kind: kind, ID: id, Reason: "non-finite coordinate"}
		}
	}
	return nil
}
