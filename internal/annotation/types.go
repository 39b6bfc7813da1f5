package annotation

import (
	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// Kind names an annotation variant. It is also the value of the "type" field.
type Kind string

const (
	KindLine      Kind = "line"
	KindRect      Kind = "rect"
	KindArrow     Kind = "arrow"
	KindText      Kind = "text"
	KindDimension Kind = "dimension"
)

// CurrentVersion is the schema revision written by Normalize. Payloads with a
// lower or missing normalizedVersion must be migrated before use.
const CurrentVersion = 2

// Line is a straight stroke between two points.
type Line struct {
	ID          string    `json:"id"`
	Type        Kind      `json:"type"`
	Points      []float64 `json:"points"` // [x1, y1, x2, y2]
	Color       string    `json:"color"`
	StrokeWidth float64   `json:"strokeWidth"`
}

// Arrow is a line with an arrowhead at its second point.
type Arrow struct {
	ID          string    `json:"id"`
	Type        Kind      `json:"type"`
	Points      []float64 `json:"points"` // [x1, y1, x2, y2]
	Color       string    `json:"color"`
	StrokeWidth float64   `json:"strokeWidth"`
}

// Rect is an outlined rectangle. Width and Height may be negative while a drag
// is in progress; Canonical returns the committed form.
type Rect struct {
	ID          string  `json:"id"`
	Type        Kind    `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Canonical returns the same rectangle with a non-negative width and height.
func (r Rect) Canonical() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Text is a free-standing text label anchored at its top-left corner.
type Text struct {
	ID       string  `json:"id"`
	Type     Kind    `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Color    string  `json:"color"`
	FontSize float64 `json:"fontSize"`
}

// Dimension is a calibrated measurement line with a label and optional comment.
// Value is kept exactly as typed; it is not necessarily numeric.
type Dimension struct {
	ID          string    `json:"id"`
	Type        Kind      `json:"type"`
	Points      []float64 `json:"points"` // [x1, y1, x2, y2]
	Value       string    `json:"value"`
	Unit        string    `json:"unit"`
	Color       string    `json:"color"`
	StrokeWidth float64   `json:"strokeWidth"`
	FontSize    float64   `json:"fontSize"`
	Comment     string    `json:"comment,omitempty"`
}

// Set holds the five annotation collections of one photo. Order within a
// collection carries no meaning; ids are unique across the photo.
type Set struct {
	Lines      []Line      `json:"lines"`
	Rects      []Rect      `json:"rects"`
	Arrows     []Arrow     `json:"arrows"`
	Texts      []Text      `json:"texts"`
	Dimensions []Dimension `json:"dimensions"`
}

// Len returns the total number of annotations.
func (s Set) Len() int {
	return len(s.Lines) + len(s.Rects) + len(s.Arrows) + len(s.Texts) + len(s.Dimensions)
}

// RenderTransform records the contain-fit and rotation that were in effect when
// geometry was last normalized.
type RenderTransform struct {
	ImageScale    float64 `json:"imageScale"`
	ImageX        float64 `json:"imageX"`
	ImageY        float64 `json:"imageY"`
	ImageRotation int     `json:"imageRotation"`
}

// Fit returns the recorded contain-fit.
func (t RenderTransform) Fit() geometry.ContainTransform {
	return geometry.ContainTransform{Scale: t.ImageScale, X: t.ImageX, Y: t.ImageY}
}

// Meta is the presentation metadata persisted next to the annotations.
// Zero values mean "not recorded".
type Meta struct {
	StageWidth             float64          `json:"stageWidth,omitempty"`
	StageHeight            float64          `json:"stageHeight,omitempty"`
	ImageNaturalWidth      float64          `json:"imageNaturalWidth,omitempty"`
	ImageNaturalHeight     float64          `json:"imageNaturalHeight,omitempty"`
	ImageRenderTransform   *RenderTransform `json:"imageRenderTransform,omitempty"`
	NormalizedVersion      int              `json:"normalizedVersion,omitempty"`
	ImageNormalizedVersion int              `json:"imageNormalizedVersion,omitempty"`
}

// Rotation returns the recorded image rotation normalized to 0, 90, 180 or 270,
// or 0 when none (or an unusable one) was recorded.
func (m Meta) Rotation() int {
	if m.ImageRenderTransform == nil {
		return 0
	}
	rot, err := geometry.NormalizeRotation(m.ImageRenderTransform.ImageRotation)
	if err != nil {
		return 0
	}
	return rot
}

// Document is a persisted annotation payload of unknown schema revision, as
// read from storage. Only Migrate turns a Document into usable geometry.
type Document struct {
	Set
	Meta
}

// Display is annotation geometry in the pixel space of the stage it is drawn on.
type Display struct {
	Set

	// Stage is the size of the stage the geometry belongs to.
	Stage geometry.Size `json:"stage"`
}

// Stored is annotation geometry in the current normalized schema: fractions of
// the effective image size, valid for any viewport.
type Stored struct {
	Set
	Meta
}

// Document returns the persisted form of s.
func (s Stored) Document() Document {
	return Document{Set: s.Set, Meta: s.Meta}
}

// EffectiveImageSize returns the rotation-adjusted image size recorded in the
// metadata, and false when the natural size was not recorded.
func (m Meta) EffectiveImageSize() (geometry.Size, bool) {
	if m.ImageNaturalWidth <= 0 || m.ImageNaturalHeight <= 0 {
		return geometry.Size{}, false
	}
	return geometry.EffectiveSize(m.ImageNaturalWidth, m.ImageNaturalHeight, m.Rotation()), true
}
