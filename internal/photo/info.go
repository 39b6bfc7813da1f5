package photo

import (
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// Info describes a photo as the annotation tools see it.
type Info struct {
	Path string `json:"path"`

	// Width and Height are the natural (EXIF-corrected) pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Rotation is the user rotation in degrees clockwise, normalized to
	// 0, 90, 180 or 270.
	Rotation int `json:"rotation"`

	// EffectiveWidth and EffectiveHeight are the dimensions after Rotation.
	// Annotation coordinates are fractions of these.
	EffectiveWidth  int `json:"effective_width"`
	EffectiveHeight int `json:"effective_height"`

	// Format is "jpeg", "png", "gif", "tiff", "bmp" or "unknown", from the
	// file extension.
	Format string `json:"format"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadInfo loads the photo at path through the cache and describes it for the
// given user rotation.
func LoadInfo(cache *Cache, path string, rotation int) (*Info, error) {
	rot, err := geometry.NormalizeRotation(rotation)
	if err != nil {
		return nil, err
	}

	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	eff := geometry.EffectiveSize(float64(w), float64(h), rot)

	return &Info{
		Path:            path,
		Width:           w,
		Height:          h,
		Rotation:        rot,
		EffectiveWidth:  int(eff.Width),
		EffectiveHeight: int(eff.Height),
		Format:          format,
		FileSizeBytes:   stat.Size(),
	}, nil
}

// Context builds the normalization context for showing this photo on a stage
// of the given size.
func (i *Info) Context(stageW, stageH float64) (geometry.Context, error) {
	return geometry.BuildContextForImage(float64(i.Width), float64(i.Height), i.Rotation, stageW, stageH)
}

// Rotate turns img clockwise by a right angle.
func Rotate(img image.Image, rotation int) (image.Image, error) {
	rot, err := geometry.NormalizeRotation(rotation)
	if err != nil {
		return nil, err
	}

	switch rot {
	case 90:
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	}
	return img, nil
}

// Crop extracts region from img. The region is in img's pixel coordinates,
// min inclusive and max exclusive.
func Crop(img image.Image, region image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	if region.Min.X >= region.Max.X || region.Min.Y >= region.Max.Y {
		return nil, fmt.Errorf("invalid crop region %v: min must be less than max", region)
	}
	if !region.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, bounds)
	}
	return imaging.Crop(img, region), nil
}

// RegionFromNormalized converts a rectangle given in fractions of the
// effective image size into pixels of an image of that size. The result is
// clipped to the image.
func RegionFromNormalized(size image.Point, x, y, width, height float64) image.Rectangle {
	if width < 0 {
		x, width = x+width, -width
	}
	if height < 0 {
		y, height = y+height, -height
	}
	r := image.Rect(
		int(math.Floor(x*float64(size.X))),
		int(math.Floor(y*float64(size.Y))),
		int(math.Ceil((x+width)*float64(size.X))),
		int(math.Ceil((y+height)*float64(size.Y))),
	)
	return r.Intersect(image.Rect(0, 0, size.X, size.Y))
}
