package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/ironsheep/annotation-tools-mcp/internal/annotation"
	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
	"github.com/ironsheep/annotation-tools-mcp/internal/layout"
	"github.com/ironsheep/annotation-tools-mcp/internal/ocr"
	"github.com/ironsheep/annotation-tools-mcp/internal/photo"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "annotations_normalize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("%s failed: %v", params.Name, err)
		return errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Builds the normalization context or loads the photo as needed
//  4. Calls the geometry/annotation/layout/photo/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Coordinate Frames
	case "contain_fit":
		return s.handleContainFit(args)
	case "normalization_context":
		return s.handleNormalizationContext(args)

	// Annotation Payloads
	case "annotations_normalize":
		return s.handleAnnotationsNormalize(args)
	case "annotations_denormalize":
		return s.handleAnnotationsDenormalize(args)
	case "annotations_migrate":
		return s.handleAnnotationsMigrate(args)
	case "annotations_validate":
		return s.handleAnnotationsValidate(args)
	case "annotations_rotate":
		return s.handleAnnotationsRotate(args)
	case "annotations_measure":
		return s.handleAnnotationsMeasure(args)

	// Dimension Layout
	case "dimension_layout":
		return s.handleDimensionLayout(args)
	case "dimension_layout_reset":
		return s.handleDimensionLayoutReset(args)

	// Viewport
	case "viewport_screen_to_image":
		return s.handleViewportScreenToImage(args)
	case "viewport_image_to_screen":
		return s.handleViewportImageToScreen(args)
	case "viewport_zoom_to_point":
		return s.handleViewportZoomToPoint(args)

	// Photos
	case "photo_load":
		return s.handlePhotoLoad(args)
	case "photo_preview":
		return s.handlePhotoPreview(args)
	case "annotation_suggest_color":
		return s.handleAnnotationSuggestColor(args)
	case "dimension_snap":
		return s.handleDimensionSnap(args)
	case "dimension_read_value":
		return s.handleDimensionReadValue(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// droppedReasons flattens dropped-annotation errors for the JSON result and
// logs them.
func droppedReasons(tool string, dropped []error) []string {
	reasons := make([]string, 0, len(dropped))
	for _, err := range dropped {
		log.Printf("%s: dropped %v", tool, err)
		reasons = append(reasons, err.Error())
	}
	return reasons
}

// === Coordinate Frame Handlers ===

type containFitArgs struct {
	ContentWidth   float64 `json:"content_width"`
	ContentHeight  float64 `json:"content_height"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

func (s *Server) handleContainFit(args json.RawMessage) (interface{}, error) {
	var a containFitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return geometry.ComputeContainTransform(a.ContentWidth, a.ContentHeight, a.ViewportWidth, a.ViewportHeight)
}

// imageStageArgs are shared by every tool that builds a normalization context.
type imageStageArgs struct {
	ImageWidth  float64 `json:"image_width"`
	ImageHeight float64 `json:"image_height"`
	Rotation    *int    `json:"rotation"`
	StageWidth  float64 `json:"stage_width"`
	StageHeight float64 `json:"stage_height"`
}

func (a imageStageArgs) rotation() int {
	if a.Rotation == nil {
		return 0
	}
	return *a.Rotation
}

func (a imageStageArgs) context() (geometry.Context, error) {
	return geometry.BuildContextForImage(a.ImageWidth, a.ImageHeight, a.rotation(), a.StageWidth, a.StageHeight)
}

func (s *Server) handleNormalizationContext(args json.RawMessage) (interface{}, error) {
	var a imageStageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return a.context()
}

// === Annotation Payload Handlers ===

type annotationsNormalizeArgs struct {
	imageStageArgs
	Annotations            annotation.Set `json:"annotations"`
	ImageNormalizedVersion int            `json:"image_normalized_version"`
}

func (s *Server) handleAnnotationsNormalize(args json.RawMessage) (interface{}, error) {
	var a annotationsNormalizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ctx, err := a.context()
	if err != nil {
		return nil, err
	}

	set, assigned := annotation.AssignIDs(a.Annotations, nil)
	if assigned > 0 {
		s.debugf("annotations_normalize: assigned %d ids", assigned)
	}

	stored, dropped, err := annotation.Normalize(annotation.Display{Set: set, Stage: ctx.Stage}, ctx)
	if err != nil {
		return nil, err
	}
	stored.ImageNormalizedVersion = a.ImageNormalizedVersion

	return map[string]interface{}{
		"document":     stored.Document(),
		"assigned_ids": assigned,
		"dropped":      droppedReasons("annotations_normalize", dropped),
	}, nil
}

type annotationsDenormalizeArgs struct {
	imageStageArgs
	Document annotation.Document `json:"document"`
}

func (s *Server) handleAnnotationsDenormalize(args json.RawMessage) (interface{}, error) {
	var a annotationsDenormalizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ImageWidth <= 0 || a.ImageHeight <= 0 {
		a.ImageWidth, a.ImageHeight = a.Document.ImageNaturalWidth, a.Document.ImageNaturalHeight
	}
	if a.Rotation == nil {
		rot := a.Document.Rotation()
		a.Rotation = &rot
	}

	ctx, err := a.context()
	if err != nil {
		return nil, fmt.Errorf("cannot build display context: %w", err)
	}

	// Legacy payloads without a recorded stage were drawn on this one
	m, err := annotation.Migrate(a.Document, &ctx)
	if err != nil {
		return nil, err
	}
	stored := m.Stored
	if stored.Rotation() != ctx.Rotation {
		if stored, err = annotation.RotateStored(stored, ctx.Rotation); err != nil {
			return nil, err
		}
	}

	display, dropped, err := annotation.Denormalize(stored, ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"annotations":   display.Set,
		"stage":         display.Stage,
		"context":       ctx,
		"migrated_from": m.From.String(),
		"dropped":       droppedReasons("annotations_denormalize", append(m.Dropped, dropped...)),
	}, nil
}

type annotationsMigrateArgs struct {
	Document annotation.Document `json:"document"`
	Hint     *imageStageArgs     `json:"hint"`
}

func (s *Server) handleAnnotationsMigrate(args json.RawMessage) (interface{}, error) {
	var a annotationsMigrateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var hint *geometry.Context
	if a.Hint != nil {
		ctx, err := a.Hint.context()
		if err != nil {
			return nil, fmt.Errorf("invalid hint: %w", err)
		}
		hint = &ctx
	}

	m, err := annotation.Migrate(a.Document, hint)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"document": m.Stored.Document(),
		"from":     m.From.String(),
		"dropped":  droppedReasons("annotations_migrate", m.Dropped),
	}, nil
}

type documentArgs struct {
	Document annotation.Document `json:"document"`
}

func (s *Server) handleAnnotationsValidate(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	issues := annotation.Validate(a.Document)
	valid := true
	for _, issue := range issues {
		if issue.Severity == annotation.SeverityError {
			valid = false
			break
		}
	}
	if issues == nil {
		issues = []annotation.Issue{}
	}
	return map[string]interface{}{
		"valid":  valid,
		"state":  annotation.Classify(a.Document).String(),
		"issues": issues,
	}, nil
}

// migrated returns doc in the current schema. Only current payloads and
// payloads that carry their own stage size can be used without a hint.
func migrated(tool string, doc annotation.Document) (annotation.Stored, error) {
	m, err := annotation.Migrate(doc, nil)
	if err != nil {
		return annotation.Stored{}, err
	}
	droppedReasons(tool, m.Dropped)
	return m.Stored, nil
}

type annotationsRotateArgs struct {
	Document annotation.Document `json:"document"`
	Rotation int                 `json:"rotation"`
}

func (s *Server) handleAnnotationsRotate(args json.RawMessage) (interface{}, error) {
	var a annotationsRotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	stored, err := migrated("annotations_rotate", a.Document)
	if err != nil {
		return nil, err
	}
	rotated, err := annotation.RotateStored(stored, a.Rotation)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"document": rotated.Document(),
	}, nil
}

type annotationsMeasureArgs struct {
	Document      annotation.Document `json:"document"`
	CalibrationID string              `json:"calibration_id"`
}

func (s *Server) handleAnnotationsMeasure(args json.RawMessage) (interface{}, error) {
	var a annotationsMeasureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	stored, err := migrated("annotations_measure", a.Document)
	if err != nil {
		return nil, err
	}
	return annotation.MeasureDimensions(stored, a.CalibrationID)
}

// === Dimension Layout Handlers ===

type dimensionLayoutArgs struct {
	ID            string       `json:"id"`
	P1            layout.Point `json:"p1"`
	P2            layout.Point `json:"p2"`
	StrokeWidth   float64      `json:"stroke_width"`
	FontSize      float64      `json:"font_size"`
	Value         string       `json:"value"`
	Unit          string       `json:"unit"`
	Label         string       `json:"label"`
	Comment       string       `json:"comment"`
	StageWidth    float64      `json:"stage_width"`
	StageHeight   float64      `json:"stage_height"`
	PreferredSide int          `json:"preferred_side"`
}

func (s *Server) handleDimensionLayout(args json.RawMessage) (interface{}, error) {
	var a dimensionLayoutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.StrokeWidth <= 0 {
		a.StrokeWidth = 2
	}
	if a.FontSize <= 0 {
		a.FontSize = 16
	}
	if a.Label == "" {
		a.Label = layout.FormatLabel(a.Value, a.Unit)
	}
	stage := geometry.Size{Width: a.StageWidth, Height: a.StageHeight}
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: stage %gx%g", geometry.ErrInvalidDimensions, a.StageWidth, a.StageHeight)
	}
	for _, v := range []float64{a.P1.X, a.P1.Y, a.P2.X, a.P2.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("endpoints must be finite")
		}
	}

	res := s.layouts.Layout(a.ID, layout.Input{
		P1:            a.P1,
		P2:            a.P2,
		StrokeWidth:   a.StrokeWidth,
		FontSize:      a.FontSize,
		Label:         a.Label,
		Comment:       a.Comment,
		Stage:         stage,
		PreferredSide: a.PreferredSide,
	})
	return map[string]interface{}{
		"id":     a.ID,
		"label":  a.Label,
		"layout": res,
	}, nil
}

type dimensionLayoutResetArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleDimensionLayoutReset(args json.RawMessage) (interface{}, error) {
	var a dimensionLayoutResetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cache := s.layouts.Cache()
	if a.ID == "" {
		cache.Clear()
	} else {
		cache.Delete(a.ID)
	}
	return map[string]interface{}{
		"reset":     true,
		"remaining": cache.Len(),
	}, nil
}

// === Viewport Handlers ===

type viewportArgs struct {
	Scale          float64      `json:"scale"`
	Pan            geometry.Vec `json:"pan"`
	StageWidth     float64      `json:"stage_width"`
	StageHeight    float64      `json:"stage_height"`
	ViewportWidth  float64      `json:"viewport_width"`
	ViewportHeight float64      `json:"viewport_height"`
}

func (a viewportArgs) sizes() (stage, viewport geometry.Size, err error) {
	stage = geometry.Size{Width: a.StageWidth, Height: a.StageHeight}
	viewport = geometry.Size{Width: a.ViewportWidth, Height: a.ViewportHeight}
	if !stage.Valid() || !viewport.Valid() {
		return stage, viewport, fmt.Errorf("%w: stage %gx%g, viewport %gx%g",
			geometry.ErrInvalidDimensions, a.StageWidth, a.StageHeight, a.ViewportWidth, a.ViewportHeight)
	}
	if !(a.Scale > 0) || math.IsInf(a.Scale, 0) {
		return stage, viewport, fmt.Errorf("scale must be positive, got %g", a.Scale)
	}
	return stage, viewport, nil
}

type viewportScreenToImageArgs struct {
	viewportArgs
	Screen geometry.Vec `json:"screen"`
}

func (s *Server) handleViewportScreenToImage(args json.RawMessage) (interface{}, error) {
	var a viewportScreenToImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	stage, viewport, err := a.sizes()
	if err != nil {
		return nil, err
	}
	offset := geometry.CenterOffset(stage, viewport, a.Scale)
	return map[string]interface{}{
		"point":         geometry.ScreenToImage(a.Screen, offset, a.Pan, a.Scale),
		"center_offset": offset,
	}, nil
}

type viewportImageToScreenArgs struct {
	viewportArgs
	Point geometry.Vec `json:"point"`
}

func (s *Server) handleViewportImageToScreen(args json.RawMessage) (interface{}, error) {
	var a viewportImageToScreenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	stage, viewport, err := a.sizes()
	if err != nil {
		return nil, err
	}
	offset := geometry.CenterOffset(stage, viewport, a.Scale)
	return map[string]interface{}{
		"screen":        geometry.ImageToScreen(a.Point, offset, a.Pan, a.Scale),
		"center_offset": offset,
	}, nil
}

type viewportZoomToPointArgs struct {
	viewportArgs
	Pointer  geometry.Vec `json:"pointer"`
	NewScale float64      `json:"new_scale"`
}

func (s *Server) handleViewportZoomToPoint(args json.RawMessage) (interface{}, error) {
	var a viewportZoomToPointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	stage, viewport, err := a.sizes()
	if err != nil {
		return nil, err
	}
	if !(a.NewScale > 0) || math.IsInf(a.NewScale, 0) {
		return nil, fmt.Errorf("new_scale must be positive, got %g", a.NewScale)
	}
	pan := geometry.ZoomToPoint(a.Pointer, a.Scale, a.NewScale, stage, viewport, a.Pan)
	return map[string]interface{}{
		"scale":         a.NewScale,
		"pan":           pan,
		"center_offset": geometry.CenterOffset(stage, viewport, a.NewScale),
	}, nil
}

// === Photo Handlers ===

type photoArgs struct {
	Path     string `json:"path"`
	Rotation int    `json:"rotation"`
	Reload   bool   `json:"reload"`
}

// checkPath validates the path and drops the cached decode when a reload
// was asked for.
func (s *Server) checkPath(a photoArgs) error {
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	if a.Reload {
		s.photos.Evict(a.Path)
		s.debugf("photo cache: evicted %s", a.Path)
	}
	return nil
}

// rotatedPhoto loads the photo through the cache and turns it to the user's
// rotation, so pixel coordinates match normalized annotation coordinates.
func (s *Server) rotatedPhoto(a photoArgs) (image.Image, error) {
	if err := s.checkPath(a); err != nil {
		return nil, err
	}
	img, err := s.photos.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return photo.Rotate(img, a.Rotation)
}

func (s *Server) handlePhotoLoad(args json.RawMessage) (interface{}, error) {
	var a photoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.checkPath(a); err != nil {
		return nil, err
	}
	return photo.LoadInfo(s.photos, a.Path, a.Rotation)
}

type photoPreviewArgs struct {
	photoArgs
	StageWidth    int    `json:"stage_width"`
	StageHeight   int    `json:"stage_height"`
	GridDivisions *int   `json:"grid_divisions"`
	GridColor     string `json:"grid_color"`
}

func (s *Server) handlePhotoPreview(args json.RawMessage) (interface{}, error) {
	var a photoPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	opts := s.cfg.PreviewOptions()
	opts.Rotation = a.Rotation
	if a.StageWidth > 0 {
		opts.StageWidth = a.StageWidth
	}
	if a.StageHeight > 0 {
		opts.StageHeight = a.StageHeight
	}
	if a.GridDivisions != nil {
		opts.GridDivisions = *a.GridDivisions
	}
	if a.GridColor != "" {
		opts.GridColor = a.GridColor
	}

	img, err := s.photos.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return photo.Preview(img, opts)
}

// normalizedRegion is a rectangle in fractions of the rotated photo.
type normalizedRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r normalizedRegion) pixels(img image.Image) (image.Rectangle, error) {
	region := photo.RegionFromNormalized(img.Bounds().Size(), r.X, r.Y, r.Width, r.Height)
	if region.Empty() {
		return region, fmt.Errorf("region (%g,%g %gx%g) does not cover any pixels", r.X, r.Y, r.Width, r.Height)
	}
	return region, nil
}

type annotationSuggestColorArgs struct {
	photoArgs
	Region  *normalizedRegion `json:"region"`
	Palette []string          `json:"palette"`
}

func (s *Server) handleAnnotationSuggestColor(args json.RawMessage) (interface{}, error) {
	var a annotationSuggestColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.rotatedPhoto(a.photoArgs)
	if err != nil {
		return nil, err
	}

	region := img.Bounds()
	if a.Region != nil {
		if region, err = a.Region.pixels(img); err != nil {
			return nil, err
		}
	}
	return photo.SuggestStrokeColor(img, region, a.Palette)
}

type dimensionSnapArgs struct {
	photoArgs
	P1          geometry.Vec `json:"p1"`
	P2          geometry.Vec `json:"p2"`
	Radius      int          `json:"radius"`
	MinStrength *int         `json:"min_strength"`
}

func (s *Server) handleDimensionSnap(args json.RawMessage) (interface{}, error) {
	var a dimensionSnapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius <= 0 {
		a.Radius = 12
	}
	minStrength := 96
	if a.MinStrength != nil {
		minStrength = *a.MinStrength
	}
	if minStrength < 0 || minStrength > 255 {
		return nil, fmt.Errorf("min_strength must be between 0 and 255, got %d", minStrength)
	}

	img, err := s.rotatedPhoto(a.photoArgs)
	if err != nil {
		return nil, err
	}
	size := img.Bounds().Size()
	w, h := float64(size.X), float64(size.Y)

	snap := func(p geometry.Vec) map[string]interface{} {
		px := image.Pt(int(math.Floor(p.X*w)), int(math.Floor(p.Y*h)))
		sn := photo.SnapToEdge(img, px, a.Radius, uint8(minStrength))
		out := p
		if sn.Snapped {
			// Pixel centers, so the point lands on the edge and not its corner
			out = geometry.Vec{X: (float64(sn.X) + 0.5) / w, Y: (float64(sn.Y) + 0.5) / h}
		}
		return map[string]interface{}{
			"point":    out,
			"snapped":  sn.Snapped,
			"strength": sn.Strength,
		}
	}

	return map[string]interface{}{
		"p1":     snap(a.P1),
		"p2":     snap(a.P2),
		"radius": a.Radius,
	}, nil
}

type dimensionReadValueArgs struct {
	photoArgs
	Region   *normalizedRegion `json:"region"`
	Language string            `json:"language"`
}

func (s *Server) handleDimensionReadValue(args json.RawMessage) (interface{}, error) {
	var a dimensionReadValueArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Region == nil {
		return nil, fmt.Errorf("region is required")
	}
	img, err := s.rotatedPhoto(a.photoArgs)
	if err != nil {
		return nil, err
	}
	region, err := a.Region.pixels(img)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.OCROptions()
	if a.Language != "" {
		opts.Language = a.Language
	}
	return ocr.ReadMeasurement(img, region, opts)
}
