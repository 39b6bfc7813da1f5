// Package annotation holds the photo annotation data model and the transforms
// between its coordinate spaces.
//
// # Spaces
//
// Annotation geometry exists in two spaces, each with its own type so one
// cannot be passed where the other is expected:
//   - Display: pixels of the stage the photo is currently drawn on.
//   - Stored: fractions of the effective (rotation-adjusted) image size,
//     valid for any stage. This is the only form that may be persisted.
//
// A third type, Document, is what comes back from storage before its schema
// revision is known. Migrate is the only way to turn a Document into Stored.
//
// # Lifecycle
//
//  1. On load: Migrate the Document, then Denormalize with a context built from
//     the image about to be shown and the current stage.
//  2. On every edit: rebuild the context, Normalize, persist Stored.Document().
//
// # Errors
//
// Geometry errors are local: an annotation with a malformed point list is
// dropped and reported as *MalformedAnnotationError, the rest of the set is
// kept. Migration failures (ErrCannotMigrate, ErrUnsupportedVersion) abort
// only the migration.
package annotation
