// Package photo loads survey photos and renders them the way the annotation
// stage shows them.
//
// # Orientation
//
// Two rotations are involved. EXIF orientation is applied when a photo is
// decoded, so Cache always hands out upright pixels; their size is the natural
// size. The user rotation (0, 90, 180 or 270 degrees clockwise) is applied on
// top by Rotate and Preview; the rotated size is the effective size that
// annotation coordinates are fractions of.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. For regions
// Min is inclusive and Max exclusive, as with image.Rectangle.
//
// # Thread Safety
//
// Cache is safe for concurrent use. The other functions are stateless.
package photo
