package photo

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// createStepImage is black left of x=50 and white from x=50 on.
func createStepImage() *image.NRGBA {
	img := createInMemoryImage(100, 100, color.NRGBA{A: 255})
	draw.Draw(img, image.Rect(50, 0, 100, 100), image.White, image.Point{}, draw.Src)
	return img
}

func TestSnapToEdge(t *testing.T) {
	img := createStepImage()

	tests := []struct {
		name        string
		p           image.Point
		radius      int
		wantX       int
		wantSnapped bool
	}{
		{"from the dark side", image.Pt(44, 50), 10, 49, true},
		{"from the bright side", image.Pt(56, 50), 10, 50, true},
		{"edge out of reach", image.Pt(20, 50), 10, 20, false},
		{"zero radius", image.Pt(48, 50), 0, 48, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapToEdge(img, tt.p, tt.radius, 64)
			if got.Snapped != tt.wantSnapped {
				t.Fatalf("Snapped: got %v, want %v (%+v)", got.Snapped, tt.wantSnapped, got)
			}
			if got.X != tt.wantX || got.Y != tt.p.Y {
				t.Errorf("position: got (%d,%d), want (%d,%d)", got.X, got.Y, tt.wantX, tt.p.Y)
			}
		})
	}
}

func TestSnapToEdge_UniformImage(t *testing.T) {
	img := createInMemoryImage(40, 40, red)
	got := SnapToEdge(img, image.Pt(20, 20), 8, 1)
	if got.Snapped || got.X != 20 || got.Y != 20 || got.Strength != 0 {
		t.Errorf("expected no snap on a flat image, got %+v", got)
	}
}

func TestSnapToEdge_OutsideImage(t *testing.T) {
	img := createStepImage()
	got := SnapToEdge(img, image.Pt(150, 50), 10, 1)
	if got.Snapped || got.X != 150 {
		t.Errorf("expected point outside the image to be returned as is, got %+v", got)
	}
}
