package annotation

import (
	"fmt"
	"math"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// DimensionMeasurement is the image-space size of one dimension annotation.
type DimensionMeasurement struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Unit  string `json:"unit"`

	// LengthPixels is the length in effective image pixels.
	LengthPixels float64 `json:"length_pixels"`
	DeltaX       float64 `json:"delta_x"`
	DeltaY       float64 `json:"delta_y"`

	// AngleDegrees is 0 for a horizontal line pointing right, 90 pointing down.
	AngleDegrees float64 `json:"angle_degrees"`

	LengthPercentWidth  float64 `json:"length_percent_width"`
	LengthPercentHeight float64 `json:"length_percent_height"`

	// Estimated is the real-world length derived from the calibration
	// dimension, in its unit. Nil without a calibration.
	Estimated *float64 `json:"estimated,omitempty"`
}

// MeasureResult lists measurements for every well-formed dimension.
type MeasureResult struct {
	Dimensions []DimensionMeasurement `json:"dimensions"`

	// CalibrationID is the dimension used as the reference, if any.
	CalibrationID string `json:"calibration_id,omitempty"`

	// UnitsPerPixel is the calibrated real-world length of one image pixel.
	UnitsPerPixel float64 `json:"units_per_pixel,omitempty"`

	// Unit is the calibration dimension's unit.
	Unit string `json:"unit,omitempty"`
}

// MeasureDimensions computes the length of every dimension in effective image
// pixels. When calibrationID names a dimension whose value holds a positive
// number (read by ParseMeasurement), that dimension becomes the reference: its
// value divided by its unrounded pixel length gives units per pixel, and every
// dimension gets an estimated real-world length.
//
// The natural image size must be recorded in s. Dimensions with malformed
// point lists are skipped.
func MeasureDimensions(s Stored, calibrationID string) (*MeasureResult, error) {
	size, ok := s.EffectiveImageSize()
	if !ok {
		return nil, fmt.Errorf("%w: natural image size not recorded", geometry.ErrInvalidDimensions)
	}

	result := &MeasureResult{Dimensions: make([]DimensionMeasurement, 0, len(s.Dimensions))}
	// Unrounded lengths, parallel to result.Dimensions; calibration uses these.
	lengths := make([]float64, 0, len(s.Dimensions))
	for _, d := range s.Dimensions {
		if len(d.Points) != 4 {
			continue
		}
		dx := (d.Points[2] - d.Points[0]) * size.Width
		dy := (d.Points[3] - d.Points[1]) * size.Height
		length := math.Hypot(dx, dy)
		lengths = append(lengths, length)

		result.Dimensions = append(result.Dimensions, DimensionMeasurement{
			ID:                  d.ID,
			Value:               d.Value,
			Unit:                d.Unit,
			LengthPixels:        round(length, 2),
			DeltaX:              round(dx, 2),
			DeltaY:              round(dy, 2),
			AngleDegrees:        round(math.Atan2(dy, dx)*180/math.Pi, 1),
			LengthPercentWidth:  round(length/size.Width*100, 1),
			LengthPercentHeight: round(length/size.Height*100, 1),
		})
	}

	if calibrationID == "" {
		return result, nil
	}

	ref := -1
	for i := range result.Dimensions {
		if result.Dimensions[i].ID == calibrationID {
			ref = i
			break
		}
	}
	if ref < 0 {
		return nil, fmt.Errorf("calibration dimension %q not found", calibrationID)
	}
	value := result.Dimensions[ref].Value
	m, ok := ParseMeasurement(value)
	if !ok || m.Number <= 0 {
		return nil, fmt.Errorf("calibration dimension %q has no positive numeric value (%q)", calibrationID, value)
	}
	if lengths[ref] == 0 {
		return nil, fmt.Errorf("calibration dimension %q has zero length", calibrationID)
	}

	result.CalibrationID = calibrationID
	result.Unit = result.Dimensions[ref].Unit
	result.UnitsPerPixel = m.Number / lengths[ref]
	for i := range result.Dimensions {
		est := round(lengths[i]*result.UnitsPerPixel, 2)
		result.Dimensions[i].Estimated = &est
	}
	return result, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
