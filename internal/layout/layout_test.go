package layout

import (
	"math"
	"testing"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

const eps = 1e-9

// With DefaultApproxMeasurer at font size 16 the label "2.5 m" measures
// 48x19.2. With stroke 2 the label center sits 7 + 9.6 = 16.6px off the line.
func dimensionInput(y1, y2 float64, side int) Input {
	return Input{
		P1:            Point{X: 100, Y: y1},
		P2:            Point{X: 300, Y: y2},
		StrokeWidth:   2,
		FontSize:      16,
		Label:         "2.5 m",
		Stage:         geometry.Size{Width: 400, Height: 300},
		PreferredSide: side,
	}
}

func TestCompute_SideSignStability(t *testing.T) {
	opts := DefaultOptions()

	first := Compute(dimensionInput(100, 100, 0), DefaultApproxMeasurer, opts)
	if first.UsedSideSign != SideAbove {
		t.Fatalf("first layout: got side %d, want default %d", first.UsedSideSign, SideAbove)
	}

	// Drag one endpoint by a pixel at a time; the label must not flip
	in := dimensionInput(100, 100, first.UsedSideSign)
	for i := 1; i <= 10; i++ {
		in.P2.Y = 100 + float64(i)
		in.PreferredSide = Compute(in, DefaultApproxMeasurer, opts).UsedSideSign
		if in.PreferredSide != first.UsedSideSign {
			t.Fatalf("step %d: side flipped to %d", i, in.PreferredSide)
		}
	}

	// Hysteresis: a label already below stays below while both sides fit
	below := Compute(dimensionInput(100, 101, SideBelow), DefaultApproxMeasurer, opts)
	if below.UsedSideSign != SideBelow {
		t.Errorf("preferred below: got side %d", below.UsedSideSign)
	}
}

func TestCompute_LabelPosition(t *testing.T) {
	got := Compute(dimensionInput(100, 100, SideAbove), DefaultApproxMeasurer, DefaultOptions())

	if math.Abs(got.LabelX-200) > eps || math.Abs(got.LabelY-83.4) > eps {
		t.Errorf("label: got (%g,%g), want (200,83.4)", got.LabelX, got.LabelY)
	}
	if got.Overflow != 0 {
		t.Errorf("Overflow: got %g, want 0", got.Overflow)
	}
}

func TestCompute_ForcedFlip(t *testing.T) {
	got := Compute(dimensionInput(5, 5, SideAbove), DefaultApproxMeasurer, DefaultOptions())

	if got.UsedSideSign != SideBelow {
		t.Fatalf("expected flip to %d, got %d", SideBelow, got.UsedSideSign)
	}
	if math.Abs(got.LabelY-21.6) > eps {
		t.Errorf("LabelY: got %g, want 21.6", got.LabelY)
	}
	if got.Overflow != 0 {
		t.Errorf("Overflow: got %g, want 0", got.Overflow)
	}
}

func TestCompute_ClampsWhenNeitherSideFits(t *testing.T) {
	// Above overflows by 16.2, below by 14.2: the lower-overflow side wins and
	// is shifted back inside.
	in := Input{
		P1:            Point{X: 10, Y: 14},
		P2:            Point{X: 50, Y: 14},
		StrokeWidth:   2,
		FontSize:      16,
		Label:         "2.5 m",
		Stage:         geometry.Size{Width: 60, Height: 30},
		PreferredSide: SideAbove,
	}
	got := Compute(in, DefaultApproxMeasurer, DefaultOptions())

	if got.UsedSideSign != SideBelow {
		t.Errorf("UsedSideSign: got %d, want %d", got.UsedSideSign, SideBelow)
	}
	// Bottom edge pulled to 30 - 4
	if math.Abs(got.LabelY+9.6-26) > 1e-6 {
		t.Errorf("LabelY: got %g, want 16.4", got.LabelY)
	}
	if got.Overflow > 1e-6 {
		t.Errorf("Overflow: got %g, want 0", got.Overflow)
	}
}

func TestCompute_OversizedLabelAlignsToMargin(t *testing.T) {
	in := Input{
		P1:          Point{X: 5, Y: 14},
		P2:          Point{X: 25, Y: 14},
		StrokeWidth: 2,
		FontSize:    16,
		Label:       "2.5 m",
		Stage:       geometry.Size{Width: 30, Height: 30},
	}
	opts := DefaultOptions()
	got := Compute(in, DefaultApproxMeasurer, opts)

	if math.Abs(got.LabelX-24-opts.Margin) > 1e-6 {
		t.Errorf("LabelX: got %g, want left edge at margin (%g)", got.LabelX, 24+opts.Margin)
	}
	if got.Overflow <= 0 {
		t.Errorf("expected remaining overflow for a label wider than the stage, got %g", got.Overflow)
	}
}

func TestCompute_CommentStacksOnChosenSide(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		side int
	}{
		{"above", 150, SideAbove},
		{"below", 150, SideBelow},
		{"flipped by the top edge", 5, SideAbove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := dimensionInput(tt.y, tt.y, tt.side)
			in.Comment = "north wall"
			got := Compute(in, DefaultApproxMeasurer, DefaultOptions())

			if got.CommentX != got.LabelX {
				t.Errorf("comment X %g differs from label X %g", got.CommentX, got.LabelX)
			}
			// Comment sits further from the line than the label, on the same side
			labelOff := (got.LabelY - tt.y) * float64(got.UsedSideSign)
			commentOff := (got.CommentY - tt.y) * float64(got.UsedSideSign)
			if labelOff <= 0 || commentOff <= labelOff {
				t.Errorf("offsets: label %g, comment %g", labelOff, commentOff)
			}
		})
	}
}

func TestCompute_CommentOffset(t *testing.T) {
	in := dimensionInput(150, 150, SideAbove)
	in.Comment = "north wall"
	got := Compute(in, DefaultApproxMeasurer, DefaultOptions())

	// 16.6 to the label center, 9.6 + 4 + 8.16 further to the comment center
	if math.Abs(got.CommentY-(150-38.36)) > 1e-6 {
		t.Errorf("CommentY: got %g, want %g", got.CommentY, 150-38.36)
	}
}

func TestCompute_VerticalLine(t *testing.T) {
	in := Input{
		P1:          Point{X: 100, Y: 50},
		P2:          Point{X: 100, Y: 250},
		StrokeWidth: 2,
		FontSize:    16,
		Label:       "2.5 m",
		Stage:       geometry.Size{Width: 400, Height: 300},
	}
	got := Compute(in, DefaultApproxMeasurer, DefaultOptions())

	// Normal is (-1, 0); the default side puts the label to the right
	if math.Abs(got.LabelX-131) > 1e-6 || math.Abs(got.LabelY-150) > 1e-6 {
		t.Errorf("label: got (%g,%g), want (131,150)", got.LabelX, got.LabelY)
	}
}

func TestCompute_Metrics(t *testing.T) {
	opts := DefaultOptions()

	thin := Compute(Input{StrokeWidth: 0.5, Stage: geometry.Size{Width: 100, Height: 100}}, nil, opts)
	if thin.CapRadius != opts.MinCapRadius || thin.ArrowLength != opts.MinArrowLength || thin.ArrowWidth != opts.MinArrowWidth {
		t.Errorf("thin stroke should use minimums, got %+v", thin)
	}

	var prev Result
	for i, stroke := range []float64{2, 4, 8, 16} {
		got := Compute(Input{StrokeWidth: stroke, Stage: geometry.Size{Width: 100, Height: 100}}, nil, opts)
		if i > 0 && (got.CapRadius <= prev.CapRadius || got.ArrowLength <= prev.ArrowLength || got.ArrowWidth <= prev.ArrowWidth) {
			t.Errorf("metrics not increasing at stroke %g: %+v after %+v", stroke, got, prev)
		}
		prev = got
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := dimensionInput(40, 160, SideBelow)
	in.Comment = "gap"
	a := Compute(in, DefaultApproxMeasurer, DefaultOptions())
	b := Compute(in, DefaultApproxMeasurer, DefaultOptions())
	if a != b {
		t.Errorf("same input gave different results: %+v vs %+v", a, b)
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		value, unit, want string
	}{
		{"2.5", "m", "2.5 m"},
		{" 12 ", " in ", "12 in"},
		{"3", "", "3"},
		{"", "mm", "mm"},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := FormatLabel(tt.value, tt.unit); got != tt.want {
			t.Errorf("FormatLabel(%q, %q): got %q, want %q", tt.value, tt.unit, got, tt.want)
		}
	}
}
