package photo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// PreviewOptions controls how a photo is rendered onto a stage.
type PreviewOptions struct {
	StageWidth  int
	StageHeight int
	Rotation    int

	// GridDivisions draws a grid splitting the photo into this many equal
	// parts per axis, so each line sits on a round normalized coordinate.
	// Zero or one disables the grid.
	GridDivisions int
	GridColor     string
	GridAlpha     float64

	// Background fills the stage around the contain-fitted photo.
	Background string
}

// DefaultPreviewOptions returns a 800x600 stage with a 10% grid.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		StageWidth:    800,
		StageHeight:   600,
		GridDivisions: 10,
		GridColor:     "#ff0000",
		GridAlpha:     0.5,
		Background:    "#202020",
	}
}

// PreviewResult is a rendered stage.
type PreviewResult struct {
	Width         int                       `json:"width"`
	Height        int                       `json:"height"`
	Rotation      int                       `json:"rotation"`
	Transform     geometry.ContainTransform `json:"transform"`
	GridDivisions int                       `json:"grid_divisions,omitempty"`
	ImageBase64   string                    `json:"image_base64"`
	MimeType      string                    `json:"mime_type"`
}

// Preview renders img the way an annotation stage shows it, rotated and
// contain-fitted into the stage. The returned transform is the one annotations on this
// stage are normalized with.
func Preview(img image.Image, opts PreviewOptions) (*PreviewResult, error) {
	rotated, err := Rotate(img, opts.Rotation)
	if err != nil {
		return nil, err
	}
	rot, _ := geometry.NormalizeRotation(opts.Rotation)

	b := rotated.Bounds()
	fit, err := geometry.ComputeContainTransform(
		float64(b.Dx()), float64(b.Dy()),
		float64(opts.StageWidth), float64(opts.StageHeight))
	if err != nil {
		return nil, err
	}

	bg, err := colorful.Hex(opts.Background)
	if err != nil {
		bg = colorful.Color{R: 0.125, G: 0.125, B: 0.125}
	}
	canvas := imaging.New(opts.StageWidth, opts.StageHeight, bg)

	contentW := max(1, int(math.Round(float64(b.Dx())*fit.Scale)))
	contentH := max(1, int(math.Round(float64(b.Dy())*fit.Scale)))
	resized := imaging.Resize(rotated, contentW, contentH, imaging.Lanczos)
	origin := image.Pt(int(math.Round(fit.X)), int(math.Round(fit.Y)))
	canvas = imaging.Paste(canvas, resized, origin)

	if opts.GridDivisions > 1 {
		gridColor, err := colorful.Hex(opts.GridColor)
		if err != nil {
			gridColor = colorful.Color{R: 1}
		}
		drawGrid(canvas, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(contentW, contentH))},
			opts.GridDivisions, gridColor, opts.GridAlpha)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	result := &PreviewResult{
		Width:       opts.StageWidth,
		Height:      opts.StageHeight,
		Rotation:    rot,
		Transform:   fit,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}
	if opts.GridDivisions > 1 {
		result.GridDivisions = opts.GridDivisions
	}
	return result, nil
}

// drawGrid blends grid lines over content at every 1/divisions of its size.
func drawGrid(img *image.NRGBA, content image.Rectangle, divisions int, c colorful.Color, alpha float64) {
	alpha = math.Max(0, math.Min(1, alpha))
	bounds := img.Bounds()

	blend := func(x, y int) {
		if !(image.Point{X: x, Y: y}).In(bounds) {
			return
		}
		under, _ := colorful.MakeColor(img.NRGBAAt(x, y))
		r, g, b := under.BlendRgb(c, alpha).Clamped().RGB255()
		img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
	}

	for i := 1; i < divisions; i++ {
		x := content.Min.X + int(math.Round(float64(i)*float64(content.Dx())/float64(divisions)))
		for y := content.Min.Y; y < content.Max.Y; y++ {
			blend(x, y)
		}
	}
	for i := 1; i < divisions; i++ {
		y := content.Min.Y + int(math.Round(float64(i)*float64(content.Dy())/float64(divisions)))
		for x := content.Min.X; x < content.Max.X; x++ {
			blend(x, y)
		}
	}
}
