package annotation

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAnnotation marks a single annotation whose geometry cannot be
	// mapped. The annotation is dropped; the rest of the set is kept.
	ErrMalformedAnnotation = errors.New("malformed annotation")

	// ErrCannotMigrate is returned when a legacy payload records no usable
	// dimensions and no hint context was supplied. Callers should treat the
	// annotation set as empty rather than guess.
	ErrCannotMigrate = errors.New("cannot migrate annotations")

	// ErrUnsupportedVersion is returned for payloads written by a newer schema.
	ErrUnsupportedVersion = errors.New("unsupported normalized version")
)

// MalformedAnnotationError describes one dropped annotation.
type MalformedAnnotationError struct {
	Kind   Kind   `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func (e *MalformedAnnotationError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.ID, e.Reason)
}

// Is lets errors.Is match ErrMalformedAnnotation.
func (e *MalformedAnnotationError) Is(target error) bool {
	return target == ErrMalformedAnnotation
}
