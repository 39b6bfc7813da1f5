package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/anthonynsimon/bild/transform"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/annotation-tools-mcp/internal/annotation"
	"github.com/ironsheep/annotation-tools-mcp/internal/photo"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

func boundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Options tunes how a region is prepared for Tesseract.
type Options struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string

	// MinHeight upscales regions shorter than this many pixels. Tesseract
	// reads poorly below roughly 30px text height.
	MinHeight int

	// Threshold binarizes the grayscale region at this level. Zero skips
	// binarization.
	Threshold uint8
}

// DefaultOptions returns English with upscaling to 48px and a mid threshold.
func DefaultOptions() Options {
	return Options{Language: "eng", MinHeight: 48, Threshold: 128}
}

// Reading is the result of reading a measurement from a photo region.
type Reading struct {
	// Text is everything Tesseract recognized in the region.
	Text string `json:"text"`

	// Confidence is the mean word confidence (0.0 to 1.0), or 0 when no
	// words were boxed.
	Confidence float64 `json:"confidence"`

	// Found reports whether Text contained a number.
	Found       bool                    `json:"found"`
	Measurement *annotation.Measurement `json:"measurement,omitempty"`

	// Region is the area that was read, in pixels of the image passed in.
	Region Bounds `json:"region"`
}

// ReadMeasurement runs OCR on region of img and parses the first measurement
// in it. img is normally the photo after the user's rotation, so region is in
// effective image pixels.
func ReadMeasurement(img image.Image, region image.Rectangle, opts Options) (*Reading, error) {
	cropped, err := photo.Crop(img, region)
	if err != nil {
		return nil, err
	}

	prepared := Preprocess(cropped, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}

	text, confidence, err := recognize(buf.Bytes(), opts.Language)
	if err != nil {
		return nil, err
	}

	reading := &Reading{
		Text:       text,
		Confidence: confidence,
		Region:     boundsOf(region),
	}
	if m, ok := annotation.ParseMeasurement(text); ok {
		reading.Found = true
		reading.Measurement = &m
	}
	return reading, nil
}

// Preprocess prepares a region for OCR: upscaled to opts.MinHeight, converted
// to grayscale and, when opts.Threshold is set, binarized.
func Preprocess(img image.Image, opts Options) image.Image {
	b := img.Bounds()
	if opts.MinHeight > 0 && b.Dy() > 0 && b.Dy() < opts.MinHeight {
		factor := (opts.MinHeight + b.Dy() - 1) / b.Dy()
		img = transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.Lanczos)
	}

	gray := effect.Grayscale(img)
	if opts.Threshold == 0 {
		return gray
	}
	return segment.Threshold(gray, opts.Threshold)
}

// recognize runs Tesseract on an encoded image.
func recognize(data []byte, language string) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", 0, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("OCR failed: %w", err)
	}

	// Confidence is best effort; the text is still useful without it
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return strings.TrimSpace(text), 0, nil
	}
	var sum float64
	var n int
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		sum += float64(box.Confidence)
		n++
	}
	if n == 0 {
		return strings.TrimSpace(text), 0, nil
	}
	return strings.TrimSpace(text), sum / float64(n) / 100, nil
}
