package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func object(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func number(description string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description}
}

func integer(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func str(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func point(description string) map[string]interface{} {
	schema := object(map[string]interface{}{
		"x": map[string]interface{}{"type": "number"},
		"y": map[string]interface{}{"type": "number"},
	}, "x", "y")
	schema["description"] = description
	return schema
}

func regionSchema(description string) map[string]interface{} {
	schema := object(map[string]interface{}{
		"x":      number("Left edge as a fraction of the rotated photo width"),
		"y":      number("Top edge as a fraction of the rotated photo height"),
		"width":  number("Width as a fraction of the rotated photo width"),
		"height": number("Height as a fraction of the rotated photo height"),
	}, "x", "y", "width", "height")
	schema["description"] = description
	return schema
}

var rotationSchema = map[string]interface{}{
	"type":        "integer",
	"description": "Clockwise user rotation of the photo in degrees: a multiple of 90, negative values allowed. Default 0",
	"default":     0,
}

// documentSchema describes a persisted annotation payload. Only the top level
// is described; annotation collections are validated by the tools.
var documentSchema = map[string]interface{}{
	"type": "object",
	"description": "Persisted annotation payload: lines, rects, arrows, texts and dimensions " +
		"plus stageWidth, stageHeight, imageNaturalWidth, imageNaturalHeight, " +
		"imageRenderTransform and normalizedVersion",
}

// annotationSetSchema describes annotation collections in stage pixels.
var annotationSetSchema = map[string]interface{}{
	"type": "object",
	"description": "Annotation collections in stage pixels: lines, rects, arrows, texts and dimensions. " +
		"Lines, arrows and dimensions carry points [x1,y1,x2,y2]; rects x, y, width, height; texts x, y",
	"properties": map[string]interface{}{
		"lines":      map[string]interface{}{"type": "array"},
		"rects":      map[string]interface{}{"type": "array"},
		"arrows":     map[string]interface{}{"type": "array"},
		"texts":      map[string]interface{}{"type": "array"},
		"dimensions": map[string]interface{}{"type": "array"},
	},
}

// imageStageProps are the inputs for building a normalization context.
func imageStageProps(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"image_width":  number("Natural (EXIF-corrected, unrotated) photo width in pixels"),
		"image_height": number("Natural photo height in pixels"),
		"rotation":     rotationSchema,
		"stage_width":  number("Stage width in pixels"),
		"stage_height": number("Stage height in pixels"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Coordinate Frames
		{
			Name:        "contain_fit",
			Description: "Compute the uniform scale and centering offset that fits content inside a viewport without cropping.",
			InputSchema: object(map[string]interface{}{
				"content_width":   number("Content width in pixels"),
				"content_height":  number("Content height in pixels"),
				"viewport_width":  number("Viewport width in pixels"),
				"viewport_height": number("Viewport height in pixels"),
			}, "content_width", "content_height", "viewport_width", "viewport_height"),
		},
		{
			Name:        "normalization_context",
			Description: "Build the normalization context for a photo shown on a stage: effective (rotated) image size and its contain-fit into the stage.",
			InputSchema: object(imageStageProps(nil), "image_width", "image_height", "stage_width", "stage_height"),
		},

		// Annotation Payloads
		{
			Name:        "annotations_normalize",
			Description: "Convert annotations drawn in stage pixels into the persisted, viewport-independent form (fractions of the rotated image). Annotations without an id get a new UUID. Returns the payload to store.",
			InputSchema: object(imageStageProps(map[string]interface{}{
				"annotations":              annotationSetSchema,
				"image_normalized_version": integer("Optional image revision to record with the payload"),
			}), "annotations", "image_width", "image_height", "stage_width", "stage_height"),
		},
		{
			Name:        "annotations_denormalize",
			Description: "Convert a persisted payload into stage pixels for display on the given stage. Older payloads are migrated first. Image size and rotation default to the values recorded in the payload.",
			InputSchema: object(imageStageProps(map[string]interface{}{
				"document": documentSchema,
			}), "document", "stage_width", "stage_height"),
		},
		{
			Name:        "annotations_migrate",
			Description: "Bring a persisted payload of any earlier schema revision into the current one. Current payloads are returned unchanged. Fails when the payload records no stage size and no hint is given; treat the set as empty in that case.",
			InputSchema: object(map[string]interface{}{
				"document": documentSchema,
				"hint": object(imageStageProps(nil),
					"image_width", "image_height", "stage_width", "stage_height"),
			}, "document"),
		},
		{
			Name:        "annotations_validate",
			Description: "Check a payload for missing or duplicate ids, malformed point lists, non-finite numbers, zero-length dimensions and non-hex colors.",
			InputSchema: object(map[string]interface{}{
				"document": documentSchema,
			}, "document"),
		},
		{
			Name:        "annotations_rotate",
			Description: "Re-map a persisted payload after the photo is rotated by a right angle so every annotation stays on the same physical content.",
			InputSchema: object(map[string]interface{}{
				"document": documentSchema,
				"rotation": rotationSchema,
			}, "document", "rotation"),
		},
		{
			Name:        "annotations_measure",
			Description: "Measure every dimension annotation in rotated-image pixels. With a calibration dimension whose value is numeric, also estimate real-world lengths.",
			InputSchema: object(map[string]interface{}{
				"document":       documentSchema,
				"calibration_id": str("Optional id of the dimension whose value calibrates the others"),
			}, "document"),
		},

		// Dimension Layout
		{
			Name:        "dimension_layout",
			Description: "Place the label and comment of a dimension line inside the stage and size its arrowheads and end caps. The side chosen for an id is remembered so labels do not flip while an endpoint is dragged.",
			InputSchema: object(map[string]interface{}{
				"id":             str("Annotation id used to remember the label side. Empty disables the memory"),
				"p1":             point("First endpoint in stage pixels"),
				"p2":             point("Second endpoint in stage pixels"),
				"stroke_width":   number("Line stroke width in stage pixels"),
				"font_size":      number("Label font size in stage pixels"),
				"value":          str("Measured value, e.g. \"2.5\""),
				"unit":           str("Unit, e.g. \"m\""),
				"label":          str("Label text. Defaults to value and unit"),
				"comment":        str("Optional comment drawn beyond the label"),
				"stage_width":    number("Stage width in pixels"),
				"stage_height":   number("Stage height in pixels"),
				"preferred_side": integer("-1 or 1. Used when nothing is remembered for the id. Default from configuration"),
			}, "p1", "p2", "stage_width", "stage_height"),
		},
		{
			Name:        "dimension_layout_reset",
			Description: "Forget remembered label sides, for one id or, without an id, for all annotations (e.g. after opening another photo).",
			InputSchema: object(map[string]interface{}{
				"id": str("Annotation id to forget. Empty forgets all"),
			}),
		},

		// Viewport
		{
			Name:        "viewport_screen_to_image",
			Description: "Convert a screen position in a zoomed and panned viewport to stage coordinates.",
			InputSchema: object(viewportProps(map[string]interface{}{
				"screen": point("Screen position in viewport pixels"),
			}), "screen", "scale", "stage_width", "stage_height", "viewport_width", "viewport_height"),
		},
		{
			Name:        "viewport_image_to_screen",
			Description: "Convert a stage position to a screen position in a zoomed and panned viewport.",
			InputSchema: object(viewportProps(map[string]interface{}{
				"point": point("Position in stage pixels"),
			}), "point", "scale", "stage_width", "stage_height", "viewport_width", "viewport_height"),
		},
		{
			Name:        "viewport_zoom_to_point",
			Description: "Change the zoom scale while keeping the stage point under the pointer fixed. Returns the new, clamped pan offset.",
			InputSchema: object(viewportProps(map[string]interface{}{
				"pointer":   point("Pointer position in viewport pixels"),
				"new_scale": number("Zoom scale after the change"),
			}), "pointer", "scale", "new_scale", "stage_width", "stage_height", "viewport_width", "viewport_height"),
		},

		// Photos
		{
			Name:        "photo_load",
			Description: "Load a photo (EXIF orientation applied) and return its natural and rotated dimensions, format and file size.",
			InputSchema: object(photoProps(nil), "path"),
		},
		{
			Name:        "photo_preview",
			Description: "Render the photo as the annotation stage shows it, rotated and contain-fitted, with an optional grid at round normalized coordinates. Returns base64-encoded PNG and the contain-fit transform.",
			InputSchema: object(photoProps(map[string]interface{}{
				"stage_width":    integer("Stage width in pixels. Default from configuration"),
				"stage_height":   integer("Stage height in pixels. Default from configuration"),
				"grid_divisions": integer("Grid lines split the photo into this many parts per axis; 0 disables. Default from configuration"),
				"grid_color":     str("Grid color as hex. Default from configuration"),
			}), "path"),
		},
		{
			Name:        "annotation_suggest_color",
			Description: "Suggest the palette stroke color that stands out best against the photo, optionally under a region, by distance in CIE L*a*b* from its dominant colors.",
			InputSchema: object(photoProps(map[string]interface{}{
				"region": regionSchema("Optional area the annotation covers. Default the whole photo"),
				"palette": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Candidate hex colors. Default the editor palette",
				},
			}), "path"),
		},
		{
			Name:        "dimension_snap",
			Description: "Move dimension endpoints onto the strongest nearby edge in the photo, e.g. the corner of a wall or the end of a beam. Points are fractions of the rotated photo; endpoints with no edge in reach are returned unchanged.",
			InputSchema: object(photoProps(map[string]interface{}{
				"p1":           point("First endpoint as fractions of the rotated photo"),
				"p2":           point("Second endpoint as fractions of the rotated photo"),
				"radius":       integer("Search radius in photo pixels. Default 12"),
				"min_strength": integer("Minimum edge strength (0-255) to snap to. Default 96"),
			}), "path", "p1", "p2"),
		},
		{
			Name:        "dimension_read_value",
			Description: "Read a measurement value and unit from a region of the photo with OCR, e.g. a tape or label next to a dimension.",
			InputSchema: object(photoProps(map[string]interface{}{
				"region":   regionSchema("Area holding the written value"),
				"language": str("Tesseract language code. Default from configuration"),
			}), "path", "region"),
		},
	}
}

// photoProps are the inputs shared by every tool that reads a photo.
func photoProps(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path":     str("Absolute path to the photo"),
		"rotation": rotationSchema,
		"reload": map[string]interface{}{
			"type":        "boolean",
			"description": "Decode the file again instead of using the cached photo, e.g. after it was replaced on disk",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func viewportProps(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"scale":           number("Current zoom scale"),
		"pan":             point("Current pan offset in viewport pixels. Default (0,0)"),
		"stage_width":     number("Stage width in pixels"),
		"stage_height":    number("Stage height in pixels"),
		"viewport_width":  number("Viewport width in pixels"),
		"viewport_height": number("Viewport height in pixels"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
