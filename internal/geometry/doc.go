// Package geometry provides the coordinate math shared by every annotation
// operation: contain-fit of a photo into a stage, the normalization context that
// maps stage pixels to viewport-independent image fractions, and the pointer
// math used for panning and zooming.
//
// # Coordinate Frames
//
// Four frames are involved:
//   - Natural image pixels: the decoded photo as stored, before any user rotation.
//   - Effective image pixels: natural pixels after a right-angle rotation. Width
//     and height are swapped for 90 and 270 degrees.
//   - Stage pixels: the on-screen drawing surface the photo is contain-fitted into.
//   - Normalized space: fractions of the effective image size. A point at (0,0)
//     is the top-left corner of the rotated photo, (1,1) its bottom-right corner,
//     whatever stage it is shown in.
//
// All frames use (0,0) at the top-left corner, X increasing rightward and Y
// increasing downward.
//
// # Error Handling
//
// Zero, negative, NaN or infinite sizes are rejected with ErrInvalidDimensions.
// Callers should defer building a context until both the photo and the stage
// have been sized, and retry once they are.
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use. Context is
// an immutable value; two contexts built from equal inputs compare equal.
package geometry
