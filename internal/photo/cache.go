package photo

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// Cache keeps decoded photos in memory keyed by file path.
//
// Photos are decoded with EXIF auto-orientation, so a cached image is already
// upright as the camera intended. The user's rotation is applied on top of that
// by Rotate.
//
// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu     sync.RWMutex
	photos map[string]image.Image
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		photos: make(map[string]image.Image),
	}
}

// Load returns the photo at path, decoding it on first use.
//
// The path is used verbatim as the cache key; a relative and an absolute path
// to the same file are cached separately.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.photos[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}

	c.mu.Lock()
	c.photos[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes one photo from the cache.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.photos, path)
	c.mu.Unlock()
}

// Len returns the number of cached photos.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.photos)
}
