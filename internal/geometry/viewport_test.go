package geometry

import (
	"math/rand"
	"testing"
)

func TestScreenToImage(t *testing.T) {
	got := ScreenToImage(Vec{X: 250, Y: 130}, Vec{X: 50, Y: 10}, Vec{X: 0, Y: 20}, 2)
	want := Vec{X: 100, Y: 50}
	if got != want {
		t.Errorf("ScreenToImage: got %+v, want %+v", got, want)
	}
}

func TestScreenImageRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 100; i++ {
		center := Vec{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		pan := Vec{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		scale := 0.1 + rng.Float64()*8
		screen := Vec{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}

		back := ImageToScreen(ScreenToImage(screen, center, pan, scale), center, pan, scale)
		if !approx(back.X, screen.X) || !approx(back.Y, screen.Y) {
			t.Fatalf("round trip: %+v -> %+v", screen, back)
		}
	}
}

func TestCenterOffset(t *testing.T) {
	got := CenterOffset(Size{Width: 400, Height: 300}, Size{Width: 800, Height: 600}, 1)
	if got != (Vec{X: 200, Y: 150}) {
		t.Errorf("CenterOffset fitting: got %+v, want {200 150}", got)
	}
	got = CenterOffset(Size{Width: 400, Height: 300}, Size{Width: 400, Height: 300}, 2)
	if got != (Vec{X: -200, Y: -150}) {
		t.Errorf("CenterOffset overflowing: got %+v, want {-200 -150}", got)
	}
}

func TestZoomToPoint(t *testing.T) {
	stage := Size{Width: 400, Height: 300}

	tests := []struct {
		name     string
		pointer  Vec
		from, to float64
		viewport Size
		pan      Vec
		want     Vec
	}{
		{
			"zoom at midpoint of fully visible stage",
			Vec{X: 200, Y: 150}, 1, 2,
			Size{Width: 400, Height: 300}, Vec{},
			Vec{X: 0, Y: 0},
		},
		{
			"zoomed content still fits, pan forced to zero",
			Vec{X: 10, Y: 10}, 1, 1.5,
			Size{Width: 1200, Height: 900}, Vec{},
			Vec{X: 0, Y: 0},
		},
		{
			"zoom at top-left corner keeps edge pinned",
			Vec{X: 0, Y: 0}, 1, 2,
			Size{Width: 400, Height: 300}, Vec{},
			Vec{X: 200, Y: 150},
		},
		{
			"zoom at interior point",
			Vec{X: 100, Y: 75}, 1, 2,
			Size{Width: 400, Height: 300}, Vec{},
			Vec{X: 100, Y: 75},
		},
		{
			"zoom out to fit recenters",
			Vec{X: 50, Y: 50}, 2, 1,
			Size{Width: 400, Height: 300}, Vec{X: 120, Y: -80},
			Vec{X: 0, Y: 0},
		},
		{
			"invalid scale leaves pan untouched",
			Vec{X: 50, Y: 50}, 0, 2,
			Size{Width: 400, Height: 300}, Vec{X: 3, Y: 4},
			Vec{X: 3, Y: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZoomToPoint(tt.pointer, tt.from, tt.to, stage, tt.viewport, tt.pan)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("ZoomToPoint: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestZoomToPoint_KeepsPointerAnchored(t *testing.T) {
	stage := Size{Width: 400, Height: 300}
	viewport := Size{Width: 400, Height: 300}
	pointer := Vec{X: 130, Y: 90}

	before := ScreenToImage(pointer, CenterOffset(stage, viewport, 1), Vec{}, 1)
	pan := ZoomToPoint(pointer, 1, 3, stage, viewport, Vec{})
	after := ScreenToImage(pointer, CenterOffset(stage, viewport, 3), pan, 3)

	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Errorf("pointer drifted: before %+v, after %+v", before, after)
	}
}

func TestClampPan(t *testing.T) {
	stage := Size{Width: 400, Height: 300}
	viewport := Size{Width: 400, Height: 300}

	got := ClampPan(Vec{X: 1000, Y: -1000}, 2, stage, viewport)
	if got != (Vec{X: 200, Y: -150}) {
		t.Errorf("ClampPan overflow: got %+v, want {200 -150}", got)
	}

	got = ClampPan(Vec{X: 50, Y: 50}, 0.5, stage, viewport)
	if got != (Vec{}) {
		t.Errorf("ClampPan fitting: got %+v, want zero", got)
	}

	got = ClampPan(Vec{X: 50, Y: -20}, 2, stage, viewport)
	if got != (Vec{X: 50, Y: -20}) {
		t.Errorf("ClampPan within range: got %+v, want unchanged", got)
	}
}
