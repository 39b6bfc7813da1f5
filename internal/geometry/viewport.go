package geometry

// Vec is a 2D vector in screen or image pixels.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScreenToImage converts a screen position to stage coordinates under a
// combined center offset, pan offset and zoom scale.
func ScreenToImage(screen, centerOffset, pan Vec, scale float64) Vec {
	return Vec{
		X: (screen.X - centerOffset.X - pan.X) / scale,
		Y: (screen.Y - centerOffset.Y - pan.Y) / scale,
	}
}

// ImageToScreen is the inverse of ScreenToImage.
func ImageToScreen(img, centerOffset, pan Vec, scale float64) Vec {
	return Vec{
		X: img.X*scale + centerOffset.X + pan.X,
		Y: img.Y*scale + centerOffset.Y + pan.Y,
	}
}

// CenterOffset returns the offset that centers a stage drawn at scale inside
// the viewport. It is negative on an axis where the scaled stage overflows.
func CenterOffset(stage, viewport Size, scale float64) Vec {
	return Vec{
		X: (viewport.Width - stage.Width*scale) / 2,
		Y: (viewport.Height - stage.Height*scale) / 2,
	}
}

// ZoomToPoint returns the pan offset that keeps the stage point under pointer
// fixed on screen when the scale changes from currentScale to newScale.
//
// The result is clamped with ClampPan, so content that fits the viewport after
// zooming is always centered (pan zero on that axis) and overflowing content
// never reveals empty margin beyond its edges. A non-positive scale leaves the
// pan unchanged.
func ZoomToPoint(pointer Vec, currentScale, newScale float64, stage, viewport Size, pan Vec) Vec {
	if !positive(currentScale) || !positive(newScale) {
		return pan
	}

	anchor := ScreenToImage(pointer, CenterOffset(stage, viewport, currentScale), pan, currentScale)
	center := CenterOffset(stage, viewport, newScale)

	next := Vec{
		X: pointer.X - center.X - anchor.X*newScale,
		Y: pointer.Y - center.Y - anchor.Y*newScale,
	}
	return ClampPan(next, newScale, stage, viewport)
}

// ClampPan limits a pan offset so the scaled stage covers the viewport on every
// axis where it overflows, and forces zero pan on every axis where it fits.
func ClampPan(pan Vec, scale float64, stage, viewport Size) Vec {
	return Vec{
		X: clampAxis(pan.X, stage.Width*scale, viewport.Width),
		Y: clampAxis(pan.Y, stage.Height*scale, viewport.Height),
	}
}

func clampAxis(pan, content, viewport float64) float64 {
	if content <= viewport {
		return 0
	}
	limit := (content - viewport) / 2
	if pan > limit {
		return limit
	}
	if pan < -limit {
		return -limit
	}
	return pan
}
