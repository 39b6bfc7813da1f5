package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/annotation-tools-mcp/internal/layout"
	"github.com/ironsheep/annotation-tools-mcp/internal/ocr"
	"github.com/ironsheep/annotation-tools-mcp/internal/photo"
)

// Environment variables read by Load and ApplyEnv.
const (
	EnvConfigPath  = "ANNOTATION_MCP_CONFIG"
	EnvLogLevel    = "ANNOTATION_MCP_LOG_LEVEL"
	EnvOCRLanguage = "ANNOTATION_MCP_OCR_LANGUAGE"
)

// Config holds the server configuration
type Config struct {
	Layout   LayoutConfig  `json:"layout"`
	Preview  PreviewConfig `json:"preview"`
	OCR      OCRConfig     `json:"ocr"`
	LogLevel string        `json:"log_level"`
}

// LayoutConfig holds the dimension label layout constants, in stage pixels
type LayoutConfig struct {
	LabelClearance float64 `json:"label_clearance"`
	Margin         float64 `json:"margin"`
	DefaultSide    int     `json:"default_side"`
	MinCapRadius   float64 `json:"min_cap_radius"`
	MinArrowLength float64 `json:"min_arrow_length"`
	MinArrowWidth  float64 `json:"min_arrow_width"`
	CommentGap     float64 `json:"comment_gap"`
	CommentScale   float64 `json:"comment_scale"`

	// FontPath selects a TTF/OTF file for measuring label text. Empty uses
	// the embedded Go Regular font.
	FontPath string `json:"font_path"`
}

// PreviewConfig holds configuration for stage previews
type PreviewConfig struct {
	StageWidth    int     `json:"stage_width"`
	StageHeight   int     `json:"stage_height"`
	GridDivisions int     `json:"grid_divisions"`
	GridColor     string  `json:"grid_color"`
	GridAlpha     float64 `json:"grid_alpha"`
	Background    string  `json:"background"`
}

// OCRConfig holds configuration for reading measurement values
type OCRConfig struct {
	Language  string `json:"language"`
	MinHeight int    `json:"min_height"`
	Threshold uint8  `json:"threshold"`
}

// Default returns a configuration with default values
func Default() *Config {
	lo := layout.DefaultOptions()
	oo := ocr.DefaultOptions()
	po := photo.DefaultPreviewOptions()
	return &Config{
		Layout: LayoutConfig{
			LabelClearance: lo.LabelClearance,
			Margin:         lo.Margin,
			DefaultSide:    lo.DefaultSide,
			MinCapRadius:   lo.MinCapRadius,
			MinArrowLength: lo.MinArrowLength,
			MinArrowWidth:  lo.MinArrowWidth,
			CommentGap:     lo.CommentGap,
			CommentScale:   lo.CommentScale,
		},
		Preview: PreviewConfig{
			StageWidth:    po.StageWidth,
			StageHeight:   po.StageHeight,
			GridDivisions: po.GridDivisions,
			GridColor:     po.GridColor,
			GridAlpha:     po.GridAlpha,
			Background:    po.Background,
		},
		OCR: OCRConfig{
			Language:  oo.Language,
			MinHeight: oo.MinHeight,
			Threshold: oo.Threshold,
		},
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load resolves the configuration the server starts with.
//
// An explicit path must exist. Otherwise EnvConfigPath, then GetConfigPath, is
// tried and a missing file yields the defaults. Environment overrides are
// applied last and the result is validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = GetConfigPath()
	}

	config, err := LoadFromFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		config = Default()
	default:
		return nil, err
	}

	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOCRLanguage); v != "" {
		c.OCR.Language = v
	}
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// WriteDefault writes the default configuration to path, or to GetConfigPath
// when path is empty, and returns the path written. An existing file is never
// overwritten.
func WriteDefault(path string) (string, error) {
	if path == "" {
		path = GetConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path, fmt.Errorf("failed to check config file: %w", err)
	}
	return path, Default().SaveToFile(path)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Layout.LabelClearance < 0 {
		return fmt.Errorf("layout.label_clearance must not be negative")
	}

	if c.Layout.Margin < 0 {
		return fmt.Errorf("layout.margin must not be negative")
	}

	if c.Layout.DefaultSide != 1 && c.Layout.DefaultSide != -1 {
		return fmt.Errorf("layout.default_side must be 1 or -1")
	}

	if c.Layout.MinCapRadius < 0 || c.Layout.MinArrowLength < 0 || c.Layout.MinArrowWidth < 0 {
		return fmt.Errorf("layout minimum sizes must not be negative")
	}

	if c.Layout.CommentGap < 0 {
		return fmt.Errorf("layout.comment_gap must not be negative")
	}

	if c.Layout.CommentScale <= 0 || c.Layout.CommentScale > 4 {
		return fmt.Errorf("layout.comment_scale must be greater than 0 and at most 4")
	}

	if c.Preview.StageWidth < 1 || c.Preview.StageHeight < 1 {
		return fmt.Errorf("preview stage size must be positive")
	}

	if c.Preview.GridDivisions < 0 {
		return fmt.Errorf("preview.grid_divisions must not be negative")
	}

	if _, err := colorful.Hex(c.Preview.GridColor); err != nil {
		return fmt.Errorf("preview.grid_color %q is not a hex color", c.Preview.GridColor)
	}

	if _, err := colorful.Hex(c.Preview.Background); err != nil {
		return fmt.Errorf("preview.background %q is not a hex color", c.Preview.Background)
	}

	if c.Preview.GridAlpha < 0 || c.Preview.GridAlpha > 1 {
		return fmt.Errorf("preview.grid_alpha must be between 0 and 1")
	}

	if c.OCR.Language == "" {
		return fmt.Errorf("ocr.language cannot be empty")
	}

	if c.OCR.MinHeight < 0 {
		return fmt.Errorf("ocr.min_height must not be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "":
	default:
		return fmt.Errorf("log_level must be \"debug\" or \"info\"")
	}

	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// LayoutOptions converts the layout section for the layout engine.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		LabelClearance: c.Layout.LabelClearance,
		Margin:         c.Layout.Margin,
		DefaultSide:    c.Layout.DefaultSide,
		MinCapRadius:   c.Layout.MinCapRadius,
		MinArrowLength: c.Layout.MinArrowLength,
		MinArrowWidth:  c.Layout.MinArrowWidth,
		CommentGap:     c.Layout.CommentGap,
		CommentScale:   c.Layout.CommentScale,
	}
}

// OCROptions converts the ocr section for the measurement reader.
func (c *Config) OCROptions() ocr.Options {
	return ocr.Options{
		Language:  c.OCR.Language,
		MinHeight: c.OCR.MinHeight,
		Threshold: c.OCR.Threshold,
	}
}

// PreviewOptions converts the preview section for photo.Preview.
func (c *Config) PreviewOptions() photo.PreviewOptions {
	return photo.PreviewOptions{
		StageWidth:    c.Preview.StageWidth,
		StageHeight:   c.Preview.StageHeight,
		GridDivisions: c.Preview.GridDivisions,
		GridColor:     c.Preview.GridColor,
		GridAlpha:     c.Preview.GridAlpha,
		Background:    c.Preview.Background,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "annotation-tools-mcp", "config.json")
}
