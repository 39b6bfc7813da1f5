package annotation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		version int
		want    State
	}{
		{0, Unversioned},
		{-1, Unversioned},
		{1, LegacyV1},
		{CurrentVersion, Current},
		{CurrentVersion + 1, Future},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			doc := Document{Meta: Meta{NormalizedVersion: tt.version}}
			if got := Classify(doc); got != tt.want {
				t.Errorf("Classify(version %d): got %s, want %s", tt.version, got, tt.want)
			}
		})
	}
}

func TestMigrate_UnversionedWithRecordedDimensions(t *testing.T) {
	doc := Document{
		Set: sampleSet(),
		Meta: Meta{
			StageWidth:         400,
			StageHeight:        400,
			ImageNaturalWidth:  1000,
			ImageNaturalHeight: 500,
		},
	}

	m, err := Migrate(doc, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if m.From != Unversioned {
		t.Errorf("From: got %s, want unversioned", m.From)
	}
	if m.Stored.NormalizedVersion != CurrentVersion {
		t.Errorf("NormalizedVersion: got %d, want %d", m.Stored.NormalizedVersion, CurrentVersion)
	}

	// Must match a direct normalize against the recorded layout
	ctx := mustContext(t, 1000, 500, 400, 400)
	want, _ := mustNormalize(t, Display{Set: sampleSet()}, ctx)
	if diff := cmp.Diff(want, m.Stored, approxOpts); diff != "" {
		t.Errorf("migrated payload (-want +got):\n%s", diff)
	}
}

func TestMigrate_UnversionedUsesRecordedTransform(t *testing.T) {
	fit := geometry.ContainTransform{Scale: 0.5, X: 20, Y: 0}
	doc := Document{
		Set: Set{Texts: []Text{{ID: "t", X: 20, Y: 0, FontSize: 5}}},
		Meta: Meta{
			StageWidth:           540,
			StageHeight:          500,
			ImageNaturalWidth:    1000,
			ImageNaturalHeight:   1000,
			ImageRenderTransform: &RenderTransform{ImageScale: fit.Scale, ImageX: fit.X, ImageY: fit.Y},
		},
	}

	m, err := Migrate(doc, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	text := m.Stored.Texts[0]
	if text.X != 0 || text.Y != 0 {
		t.Errorf("text anchor: got (%g,%g), want (0,0)", text.X, text.Y)
	}
	// 5 stage px at scale 0.5 = 10 image px = 1% of width
	if text.FontSize != 0.01 {
		t.Errorf("FontSize: got %g, want 0.01", text.FontSize)
	}
}

func TestMigrate_UnversionedRotatedImage(t *testing.T) {
	doc := Document{
		Set: Set{Texts: []Text{{ID: "t", X: 175, Y: 0, FontSize: 12}}},
		Meta: Meta{
			StageWidth:           800,
			StageHeight:          600,
			ImageNaturalWidth:    4000,
			ImageNaturalHeight:   3000,
			ImageRenderTransform: &RenderTransform{ImageRotation: 90},
		},
	}

	m, err := Migrate(doc, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	text := m.Stored.Texts[0]
	if !near(text.X, 0) || !near(text.Y, 0) {
		t.Errorf("text anchor: got (%g,%g), want rotated top-left (0,0)", text.X, text.Y)
	}
	if m.Stored.Rotation() != 90 {
		t.Errorf("Rotation: got %d, want 90", m.Stored.Rotation())
	}
}

func TestMigrate_UnversionedFallsBackToHint(t *testing.T) {
	hint := mustContext(t, 1000, 500, 400, 400)
	doc := Document{Set: sampleSet()}

	m, err := Migrate(doc, &hint)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	want, _ := mustNormalize(t, Display{Set: sampleSet()}, hint)
	if diff := cmp.Diff(want, m.Stored, approxOpts); diff != "" {
		t.Errorf("migrated payload (-want +got):\n%s", diff)
	}
}

func TestMigrate_StageOnlyAssumesPhotoFilledStage(t *testing.T) {
	doc := Document{
		Set:  Set{Lines: []Line{{ID: "l", Points: []float64{0, 0, 400, 300}}}},
		Meta: Meta{StageWidth: 400, StageHeight: 300},
	}

	m, err := Migrate(doc, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 0, 1, 1}, m.Stored.Lines[0].Points, approxOpts); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
}

func TestMigrate_CannotMigrate(t *testing.T) {
	doc := Document{Set: sampleSet()}

	m, err := Migrate(doc, nil)
	if !errors.Is(err, ErrCannotMigrate) {
		t.Fatalf("expected ErrCannotMigrate, got %v", err)
	}
	if m != nil {
		t.Errorf("expected nil migration on failure, got %+v", m)
	}

	// An unsized hint is no better than none
	_, err = Migrate(doc, &geometry.Context{})
	if !errors.Is(err, ErrCannotMigrate) || !errors.Is(err, geometry.ErrInvalidDimensions) {
		t.Errorf("expected ErrCannotMigrate and ErrInvalidDimensions with empty hint, got %v", err)
	}
}

func TestMigrate_LegacyV1(t *testing.T) {
	doc := Document{
		Set: Set{
			Lines: []Line{{ID: "l", Points: []float64{0, 0.25, 1, 0.75}, StrokeWidth: 0.01}},
			Rects: []Rect{{ID: "r", X: 0.5, Y: 0.5, Width: 0.25, Height: 0.25}},
		},
		Meta: Meta{
			StageWidth:         400,
			StageHeight:        400,
			ImageNaturalWidth:  1000,
			ImageNaturalHeight: 500,
			NormalizedVersion:  1,
		},
	}

	m, err := Migrate(doc, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if m.From != LegacyV1 {
		t.Errorf("From: got %s, want legacy-v1", m.From)
	}

	// Stage (0,100)-(400,300) is the photo; 0.25/0.75 of 400 is 100/300
	line := m.Stored.Lines[0]
	if diff := cmp.Diff([]float64{0, 0, 1, 1}, line.Points, approxOpts); diff != "" {
		t.Errorf("line points (-want +got):\n%s", diff)
	}
	// 0.01 * 400 = 4 stage px = 10 image px = 0.01 of the 1000px width
	if !near(line.StrokeWidth, 0.01) {
		t.Errorf("StrokeWidth: got %g, want 0.01", line.StrokeWidth)
	}

	rect := m.Stored.Rects[0]
	want := Rect{ID: "r", X: 0.5, Y: 0.5, Width: 0.25, Height: 0.5}
	if diff := cmp.Diff(want, rect, approxOpts); diff != "" {
		t.Errorf("rect (-want +got):\n%s", diff)
	}
}

func TestMigrate_LegacyV1WithoutStage(t *testing.T) {
	doc := Document{
		Set:  Set{Lines: []Line{{ID: "l", Points: []float64{0, 0, 1, 1}}}},
		Meta: Meta{NormalizedVersion: 1},
	}
	if _, err := Migrate(doc, nil); !errors.Is(err, ErrCannotMigrate) {
		t.Errorf("expected ErrCannotMigrate, got %v", err)
	}

	hint := mustContext(t, 400, 400, 400, 400)
	m, err := Migrate(doc, &hint)
	if err != nil {
		t.Fatalf("Migrate with hint failed: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 0, 1, 1}, m.Stored.Lines[0].Points, approxOpts); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
}

func TestMigrate_CurrentIsUnchanged(t *testing.T) {
	ctx := mustContext(t, 1000, 500, 400, 400)
	stored, _ := mustNormalize(t, Display{Set: sampleSet()}, ctx)
	stored.ImageNormalizedVersion = 3

	m, err := Migrate(stored.Document(), nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if m.From != Current {
		t.Errorf("From: got %s, want current", m.From)
	}
	if diff := cmp.Diff(stored, m.Stored); diff != "" {
		t.Errorf("current payload changed:\n%s", diff)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	hint := mustContext(t, 4000, 3000, 800, 600)
	docs := map[string]Document{
		"unversioned": {Set: sampleSet(), Meta: Meta{StageWidth: 640, StageHeight: 480}},
		"hint only":   {Set: sampleSet()},
		"legacy v1": {
			Set:  Set{Lines: []Line{{ID: "l", Points: []float64{0.1, 0.2, 0.3, 0.4}, StrokeWidth: 0.01}}},
			Meta: Meta{StageWidth: 800, StageHeight: 600, NormalizedVersion: 1, ImageNormalizedVersion: 1},
		},
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			once, err := Migrate(doc, &hint)
			if err != nil {
				t.Fatalf("first Migrate failed: %v", err)
			}
			twice, err := Migrate(once.Stored.Document(), &hint)
			if err != nil {
				t.Fatalf("second Migrate failed: %v", err)
			}
			if diff := cmp.Diff(once.Stored, twice.Stored); diff != "" {
				t.Errorf("migration is not idempotent:\n%s", diff)
			}
		})
	}
}

func TestMigrate_CarriesImageNormalizedVersion(t *testing.T) {
	doc := Document{Set: sampleSet(), Meta: Meta{StageWidth: 400, StageHeight: 400, ImageNormalizedVersion: 7}}

	m, err := Migrate(doc, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if m.Stored.ImageNormalizedVersion != 7 {
		t.Errorf("ImageNormalizedVersion: got %d, want 7", m.Stored.ImageNormalizedVersion)
	}
}

func TestMigrate_FutureVersion(t *testing.T) {
	doc := Document{Meta: Meta{NormalizedVersion: CurrentVersion + 1}}
	if _, err := Migrate(doc, nil); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestMigrate_ReportsDroppedAnnotations(t *testing.T) {
	doc := Document{
		Set: Set{Lines: []Line{
			{ID: "ok", Points: []float64{0, 0, 10, 10}},
			{ID: "bad", Points: []float64{0, 0, 10}},
		}},
		Meta: Meta{StageWidth: 100, StageHeight: 100},
	}

	m, err := Migrate(doc, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if len(m.Dropped) != 1 || !errors.Is(m.Dropped[0], ErrMalformedAnnotation) {
		t.Errorf("Dropped: got %v, want one malformed annotation", m.Dropped)
	}
	if len(m.Stored.Lines) != 1 {
		t.Errorf("kept lines: got %d, want 1", len(m.Stored.Lines))
	}
}

func TestDocument_JSONShape(t *testing.T) {
	ctx, err := geometry.BuildContextForImage(1000, 500, 0, 400, 400)
	if err != nil {
		t.Fatalf("BuildContextForImage failed: %v", err)
	}
	stored, _ := mustNormalize(t, Display{Set: sampleSet()}, ctx)

	data, err := json.Marshal(stored.Document())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{
		"lines", "rects", "arrows", "texts", "dimensions",
		"stageWidth", "stageHeight", "imageNaturalWidth", "imageNaturalHeight",
		"imageRenderTransform", "normalizedVersion",
	} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q in %s", key, data)
		}
	}
	transform, ok := raw["imageRenderTransform"].(map[string]interface{})
	if !ok {
		t.Fatalf("imageRenderTransform is not an object: %v", raw["imageRenderTransform"])
	}
	for _, key := range []string{"imageScale", "imageX", "imageY", "imageRotation"} {
		if _, ok := transform[key]; !ok {
			t.Errorf("missing transform key %q", key)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal into Document failed: %v", err)
	}
	if Classify(doc) != Current {
		t.Errorf("decoded document classified as %s, want current", Classify(doc))
	}
	if doc.Dimensions[0].Comment != "north wall" {
		t.Errorf("dimension comment lost: %+v", doc.Dimensions[0])
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
