package annotation

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// approxOpts compares float fields with a relative tolerance of 1e-6.
var approxOpts = cmp.Options{
	cmpopts.EquateApprox(1e-6, 1e-9),
	cmpopts.EquateEmpty(),
}

// sampleSet returns one annotation of every kind in stage pixels.
func sampleSet() Set {
	return Set{
		Lines: []Line{
			{ID: "l1", Type: KindLine, Points: []float64{10, 20, 110, 220}, Color: "#ff0000", StrokeWidth: 3},
		},
		Rects: []Rect{
			{ID: "r1", Type: KindRect, X: 50, Y: 60, Width: 200, Height: -80, Color: "#00ff00", StrokeWidth: 2},
		},
		Arrows: []Arrow{
			{ID: "a1", Type: KindArrow, Points: []float64{300, 300, 400, 350}, Color: "#0000ff", StrokeWidth: 4},
		},
		Texts: []Text{
			{ID: "t1", Type: KindText, X: 120, Y: 40, Text: "crack", Color: "#000", FontSize: 16},
		},
		Dimensions: []Dimension{
			{ID: "d1", Type: KindDimension, Points: []float64{100, 100, 300, 100}, Value: "1.25", Unit: "m",
				Color: "#ffcc00", StrokeWidth: 2, FontSize: 14, Comment: "north wall"},
		},
	}
}

// randomSet builds a set of n annotations per kind inside the given stage.
func randomSet(rng *rand.Rand, n int, stage geometry.Size) Set {
	x := func() float64 { return rng.Float64() * stage.Width }
	y := func() float64 { return rng.Float64() * stage.Height }
	l := func() float64 { return 0.5 + rng.Float64()*20 }

	var s Set
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		s.Lines = append(s.Lines, Line{ID: "l" + id, Type: KindLine, Points: []float64{x(), y(), x(), y()}, Color: "#123456", StrokeWidth: l()})
		s.Arrows = append(s.Arrows, Arrow{ID: "a" + id, Type: KindArrow, Points: []float64{x(), y(), x(), y()}, Color: "#123456", StrokeWidth: l()})
		s.Rects = append(s.Rects, Rect{ID: "r" + id, Type: KindRect, X: x(), Y: y(), Width: x() - stage.Width/2, Height: y() - stage.Height/2, Color: "#123456", StrokeWidth: l()})
		s.Texts = append(s.Texts, Text{ID: "t" + id, Type: KindText, X: x(), Y: y(), Text: "note " + id, Color: "#123456", FontSize: l()})
		s.Dimensions = append(s.Dimensions, Dimension{ID: "d" + id, Type: KindDimension, Points: []float64{x(), y(), x(), y()},
			Value: id, Unit: "cm", Color: "#123456", StrokeWidth: l(), FontSize: l()})
	}
	return s
}

func mustContext(t *testing.T, effW, effH, stageW, stageH float64) geometry.Context {
	t.Helper()
	ctx, err := geometry.BuildContext(effW, effH, stageW, stageH)
	if err != nil {
		t.Fatalf("BuildContext failed: %v", err)
	}
	return ctx
}

func mustNormalize(t *testing.T, d Display, ctx geometry.Context) (Stored, []error) {
	t.Helper()
	stored, dropped, err := Normalize(d, ctx)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	return stored, dropped
}

func mustDenormalize(t *testing.T, s Stored, ctx geometry.Context) (Display, []error) {
	t.Helper()
	display, dropped, err := Denormalize(s, ctx)
	if err != nil {
		t.Fatalf("Denormalize failed: %v", err)
	}
	return display, dropped
}

// scaleSet multiplies every coordinate and length by k.
func scaleSet(s Set, k float64) Set {
	out, _ := mapSet(s, mapping{
		point: func(x, y float64) (float64, float64) { return x * k, y * k },
		spanX: func(l float64) float64 { return l * k },
		spanY: func(l float64) float64 { return l * k },
	})
	return out
}
