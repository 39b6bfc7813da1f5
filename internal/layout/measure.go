package layout

import (
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// TextMeasurer reports the rendered size of a single line of text.
type TextMeasurer interface {
	MeasureText(text string, fontSize float64) (width, height float64)
}

// ApproxMeasurer estimates text size from the rune count. It needs no font
// data and is fully deterministic.
type ApproxMeasurer struct {
	// AdvanceRatio is the average glyph advance as a fraction of the font size.
	AdvanceRatio float64

	// LineHeightRatio is the line height as a fraction of the font size.
	LineHeightRatio float64
}

// DefaultApproxMeasurer matches a typical proportional sans-serif face.
var DefaultApproxMeasurer = ApproxMeasurer{AdvanceRatio: 0.6, LineHeightRatio: 1.2}

// MeasureText implements TextMeasurer.
func (m ApproxMeasurer) MeasureText(text string, fontSize float64) (float64, float64) {
	if text == "" {
		return 0, 0
	}
	return float64(utf8.RuneCountInString(text)) * fontSize * m.AdvanceRatio, fontSize * m.LineHeightRatio
}

// FaceMeasurer measures text with a real OpenType font. Faces are created
// lazily per font size and cached.
//
// FaceMeasurer is safe for concurrent use.
type FaceMeasurer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFaceMeasurer parses the given TrueType/OpenType font data. A nil or empty
// slice selects the embedded Go Regular font.
func NewFaceMeasurer(data []byte) (*FaceMeasurer, error) {
	if len(data) == 0 {
		data = goregular.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FaceMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

// LoadFaceMeasurer reads a font file from disk. An empty path selects the
// embedded Go Regular font.
func LoadFaceMeasurer(path string) (*FaceMeasurer, error) {
	if path == "" {
		return NewFaceMeasurer(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return NewFaceMeasurer(data)
}

// MeasureText implements TextMeasurer. Width is the advance of the string;
// height is the font's line height at that size.
func (m *FaceMeasurer) MeasureText(text string, fontSize float64) (float64, float64) {
	if text == "" || fontSize <= 0 {
		return 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.face(fontSize)
	if err != nil {
		return DefaultApproxMeasurer.MeasureText(text, fontSize)
	}

	width := font.MeasureString(face, text)
	height := face.Metrics().Height
	return float64(width) / 64, float64(height) / 64
}

// face must be called with mu held. Faces keep per-face scratch buffers, so
// measuring is serialized as well.
func (m *FaceMeasurer) face(size float64) (font.Face, error) {
	if f, ok := m.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[size] = f
	return f, nil
}
