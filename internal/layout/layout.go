package layout

import (
	"math"
	"strings"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// Side signs. Above is the side the normal (-sin, cos) points away from; for a
// line drawn left to right it is the upper side of the screen.
const (
	SideAbove = -1
	SideBelow = 1
)

// Point is a position in stage pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Input describes one dimension annotation to lay out.
type Input struct {
	P1            Point
	P2            Point
	StrokeWidth   float64
	FontSize      float64
	Label         string
	Comment       string
	Stage         geometry.Size
	PreferredSide int // 0 uses Options.DefaultSide
}

// Options holds the tunable layout constants.
type Options struct {
	LabelClearance float64
	Margin         float64
	DefaultSide    int
	MinCapRadius   float64
	MinArrowLength float64
	MinArrowWidth  float64
	CommentGap     float64
	CommentScale   float64
}

// DefaultOptions returns the layout constants used when no configuration is
// given.
func DefaultOptions() Options {
	return Options{
		LabelClearance: 6,
		Margin:         4,
		DefaultSide:    SideAbove,
		MinCapRadius:   3,
		MinArrowLength: 8,
		MinArrowWidth:  6,
		CommentGap:     4,
		CommentScale:   0.85,
	}
}

// Result is where to draw the parts of a dimension annotation.
type Result struct {
	LabelX       float64 `json:"label_x"`
	LabelY       float64 `json:"label_y"`
	CommentX     float64 `json:"comment_x"`
	CommentY     float64 `json:"comment_y"`
	ArrowLength  float64 `json:"arrow_length"`
	ArrowWidth   float64 `json:"arrow_width"`
	CapRadius    float64 `json:"cap_radius"`
	UsedSideSign int     `json:"used_side_sign"`
	Overflow     float64 `json:"overflow"`
}

// box is an axis-aligned rectangle given by its center and half sizes.
type box struct {
	cx, cy float64
	hw, hh float64
}

func (b box) shift(dx, dy float64) box {
	b.cx += dx
	b.cy += dy
	return b
}

// placement is the label and comment boxes on one side of the line.
type placement struct {
	side       int
	label      box
	comment    box
	hasComment bool
}

func (p placement) bounds() (minX, minY, maxX, maxY float64) {
	minX, maxX = p.label.cx-p.label.hw, p.label.cx+p.label.hw
	minY, maxY = p.label.cy-p.label.hh, p.label.cy+p.label.hh
	if p.hasComment {
		minX = math.Min(minX, p.comment.cx-p.comment.hw)
		maxX = math.Max(maxX, p.comment.cx+p.comment.hw)
		minY = math.Min(minY, p.comment.cy-p.comment.hh)
		maxY = math.Max(maxY, p.comment.cy+p.comment.hh)
	}
	return minX, minY, maxX, maxY
}

// overflow sums how far the footprint reaches past the inset stage bounds.
func (p placement) overflow(stage geometry.Size, margin float64) float64 {
	minX, minY, maxX, maxY := p.bounds()
	return axisOverflow(minX, maxX, margin, stage.Width-margin) +
		axisOverflow(minY, maxY, margin, stage.Height-margin)
}

func axisOverflow(lo, hi, lower, upper float64) float64 {
	return math.Max(0, lower-lo) + math.Max(0, hi-upper)
}

// clamp shifts the whole footprint back inside the inset stage bounds.
// A footprint larger than the available space is aligned to the top/left margin.
func (p placement) clamp(stage geometry.Size, margin float64) placement {
	minX, minY, maxX, maxY := p.bounds()
	dx := axisShift(minX, maxX, margin, stage.Width-margin)
	dy := axisShift(minY, maxY, margin, stage.Height-margin)
	p.label = p.label.shift(dx, dy)
	p.comment = p.comment.shift(dx, dy)
	return p
}

func axisShift(lo, hi, lower, upper float64) float64 {
	switch {
	case hi-lo > upper-lower, lo < lower:
		return lower - lo
	case hi > upper:
		return upper - hi
	}
	return 0
}

// Compute places the label and comment of a dimension line so they stay on
// the stage. The preferred side is kept whenever it fits, which is what keeps a
// label from flipping while an endpoint is dragged.
//
// Compute is pure; callers carry the side preference between calls.
func Compute(in Input, m TextMeasurer, opts Options) Result {
	if m == nil {
		m = DefaultApproxMeasurer
	}

	stroke := math.Max(in.StrokeWidth, 0)
	res := Result{
		CapRadius:   math.Max(opts.MinCapRadius, 1.5*stroke),
		ArrowLength: math.Max(opts.MinArrowLength, 4*stroke),
		ArrowWidth:  math.Max(opts.MinArrowWidth, 3*stroke),
	}

	theta := math.Atan2(in.P2.Y-in.P1.Y, in.P2.X-in.P1.X)
	nx, ny := -math.Sin(theta), math.Cos(theta)
	midX, midY := (in.P1.X+in.P2.X)/2, (in.P1.Y+in.P2.Y)/2

	lw, lh := m.MeasureText(in.Label, in.FontSize)
	var cw, ch float64
	if in.Comment != "" {
		cw, ch = m.MeasureText(in.Comment, in.FontSize*opts.CommentScale)
	}
	clearance := opts.LabelClearance + stroke/2

	place := func(side int) placement {
		s := float64(side)
		labelExt := halfExtent(lw, lh, nx, ny)
		d := clearance + labelExt
		p := placement{
			side:  side,
			label: box{cx: midX + nx*s*d, cy: midY + ny*s*d, hw: lw / 2, hh: lh / 2},
		}
		if in.Comment != "" {
			d += labelExt + opts.CommentGap + halfExtent(cw, ch, nx, ny)
			p.comment = box{cx: midX + nx*s*d, cy: midY + ny*s*d, hw: cw / 2, hh: ch / 2}
			p.hasComment = true
		} else {
			p.comment = p.label
		}
		return p
	}

	preferred := resolveSide(in.PreferredSide, opts.DefaultSide)
	first := place(preferred)
	chosen := first
	if first.overflow(in.Stage, opts.Margin) > 0 {
		second := place(-preferred)
		switch o1, o2 := first.overflow(in.Stage, opts.Margin), second.overflow(in.Stage, opts.Margin); {
		case o2 == 0:
			chosen = second
		case o2 < o1:
			chosen = second.clamp(in.Stage, opts.Margin)
		default:
			chosen = first.clamp(in.Stage, opts.Margin)
		}
	}

	res.LabelX, res.LabelY = chosen.label.cx, chosen.label.cy
	res.CommentX, res.CommentY = chosen.comment.cx, chosen.comment.cy
	res.UsedSideSign = chosen.side
	res.Overflow = chosen.overflow(in.Stage, opts.Margin)
	return res
}

// halfExtent is the half size of a w×h box projected onto the normal.
func halfExtent(w, h, nx, ny float64) float64 {
	return math.Abs(nx)*w/2 + math.Abs(ny)*h/2
}

func resolveSide(side, fallback int) int {
	switch {
	case side > 0:
		return SideBelow
	case side < 0:
		return SideAbove
	case fallback > 0:
		return SideBelow
	}
	return SideAbove
}

// FormatLabel joins a dimension's value and unit into its label text.
func FormatLabel(value, unit string) string {
	value = strings.TrimSpace(value)
	unit = strings.TrimSpace(unit)
	switch {
	case value == "":
		return unit
	case unit == "":
		return value
	}
	return value + " " + unit
}
