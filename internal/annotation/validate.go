package annotation

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Severity of a validation issue.
type Severity string

const (
	// SeverityError issues make the annotation unusable; Normalize and
	// Denormalize drop it.
	SeverityError Severity = "error"

	// SeverityWarning issues are kept but probably render unexpectedly.
	SeverityWarning Severity = "warning"
)

// Issue is one problem found by Validate.
type Issue struct {
	Kind     Kind     `json:"kind"`
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Validate inspects a payload without changing it and reports:
//   - missing or duplicate ids (ids are unique across all five collections)
//   - a "type" field that disagrees with the collection
//   - point lists that are not exactly four numbers, and non-finite numbers
//   - zero-length dimensions, whose label side cannot be derived
//   - colors that are not "#rgb" or "#rrggbb" hex strings
//
// Issues are returned in collection order: lines, rects, arrows, texts,
// dimensions.
func Validate(doc Document) []Issue {
	v := validator{seen: make(map[string]Kind)}

	for _, a := range doc.Lines {
		v.common(KindLine, a.ID, a.Type, a.Color)
		v.points(KindLine, a.ID, a.Points)
		v.finite(KindLine, a.ID, a.StrokeWidth)
	}
	for _, a := range doc.Rects {
		v.common(KindRect, a.ID, a.Type, a.Color)
		v.finite(KindRect, a.ID, a.X, a.Y, a.Width, a.Height, a.StrokeWidth)
	}
	for _, a := range doc.Arrows {
		v.common(KindArrow, a.ID, a.Type, a.Color)
		v.points(KindArrow, a.ID, a.Points)
		v.finite(KindArrow, a.ID, a.StrokeWidth)
	}
	for _, a := range doc.Texts {
		v.common(KindText, a.ID, a.Type, a.Color)
		v.finite(KindText, a.ID, a.X, a.Y, a.FontSize)
	}
	for _, a := range doc.Dimensions {
		v.common(KindDimension, a.ID, a.Type, a.Color)
		if v.points(KindDimension, a.ID, a.Points) && a.Points[0] == a.Points[2] && a.Points[1] == a.Points[3] {
			v.add(KindDimension, a.ID, SeverityWarning, "dimension has zero length")
		}
		v.finite(KindDimension, a.ID, a.StrokeWidth, a.FontSize)
	}

	return v.issues
}

type validator struct {
	seen   map[string]Kind
	issues []Issue
}

func (v *validator) add(kind Kind, id string, sev Severity, msg string) {
	v.issues = append(v.issues, Issue{Kind: kind, ID: id, Severity: sev, Message: msg})
}

func (v *validator) common(kind Kind, id string, typ Kind, color string) {
	switch prev, dup := v.seen[id]; {
	case id == "":
		v.add(kind, id, SeverityError, "missing id")
	case dup:
		v.add(kind, id, SeverityError, fmt.Sprintf("duplicate id (also used by a %s)", prev))
	default:
		v.seen[id] = kind
	}

	if typ != "" && typ != kind {
		v.add(kind, id, SeverityWarning, fmt.Sprintf("type %q does not match collection", typ))
	}

	if _, err := colorful.Hex(color); err != nil {
		v.add(kind, id, SeverityWarning, fmt.Sprintf("color %q is not a hex color", color))
	}
}

// points reports whether pts is a well-formed, finite [x1, y1, x2, y2] list.
func (v *validator) points(kind Kind, id string, pts []float64) bool {
	if len(pts) != 4 {
		v.add(kind, id, SeverityError, fmt.Sprintf("expected 4 point values, got %d", len(pts)))
		return false
	}
	return v.finite(kind, id, pts...)
}

func (v *validator) finite(kind Kind, id string, values ...float64) bool {
	for _, f := range values {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			v.add(kind, id, SeverityError, "non-finite coordinate")
			return false
		}
	}
	return true
}
