package annotation

import (
	"fmt"

	"github.com/ironsheep/annotation-tools-mcp/internal/geometry"
)

// State is the schema state of a persisted payload.
type State int

const (
	// Unversioned payloads predate normalization: geometry is in the pixel space
	// of the stage recorded at creation time (or of an unknown stage).
	Unversioned State = iota

	// LegacyV1 payloads hold geometry as fractions of the recorded stage size,
	// which breaks when the photo is shown letterboxed in a different stage.
	LegacyV1

	// Current payloads are normalized against the effective image size.
	Current

	// Future payloads were written by a newer schema and are left alone.
	Future
)

func (s State) String() string {
	switch s {
	case Unversioned:
		return "unversioned"
	case LegacyV1:
		return "legacy-v1"
	case Current:
		return "current"
	case Future:
		return "future"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Classify reports which schema state doc is in.
func Classify(doc Document) State {
	switch v := doc.NormalizedVersion; {
	case v <= 0:
		return Unversioned
	case v == 1:
		return LegacyV1
	case v == CurrentVersion:
		return Current
	default:
		return Future
	}
}

// transition converts a document in one state into the next state. It returns
// the converted document and the annotations it had to drop.
type transition func(doc Document, hint *geometry.Context) (Document, []error, error)

// transitions holds one conversion per schema edge. Adding a revision means
// adding a state and the function that leaves the previous one.
var transitions = map[State]transition{
	LegacyV1:    fromLegacyV1,
	Unversioned: fromUnversioned,
}

// Migration is the outcome of Migrate.
type Migration struct {
	// Stored is the payload in the current schema.
	Stored Stored

	// From is the state the payload was in before migration.
	From State

	// Dropped lists annotations that could not be converted.
	Dropped []error
}

// Migrate brings a persisted payload into the current normalized schema.
// A hint context that is not fully sized is ignored.
//
// Current payloads are returned unchanged, so running Migrate on its own output
// is a no-op. Older payloads go through one transition per schema state until
// they reach Current:
//
//   - LegacyV1: stage fractions are scaled back to pixels of the recorded stage,
//     which yields an Unversioned payload.
//   - Unversioned: geometry is taken to be in pixels of the recorded stage. The
//     context comes from the recorded render transform or recorded image size,
//     falling back to hint when the payload lacks them, and the set is
//     normalized once.
//
// When the payload records no stage size and hint is nil, Migrate fails with
// ErrCannotMigrate; the caller should treat the set as empty. Payloads from a
// newer schema fail with ErrUnsupportedVersion.
func Migrate(doc Document, hint *geometry.Context) (*Migration, error) {
	if hint != nil && (!hint.Image.Valid() || !hint.Stage.Valid() || hint.Fit.Scale <= 0) {
		hint = nil
	}

	from := Classify(doc)
	if from == Future {
		return nil, fmt.Errorf("%w: %d (current is %d)", ErrUnsupportedVersion, doc.NormalizedVersion, CurrentVersion)
	}

	var dropped []error
	for state := from; state != Current; {
		step, ok := transitions[state]
		if !ok {
			return nil, fmt.Errorf("%w: no transition from %s", ErrCannotMigrate, state)
		}
		next, lost, err := step(doc, hint)
		if err != nil {
			return nil, err
		}
		dropped = append(dropped, lost...)

		nextState := Classify(next)
		if nextState == state {
			return nil, fmt.Errorf("%w: transition from %s made no progress", ErrCannotMigrate, state)
		}
		doc, state = next, nextState
	}

	return &Migration{Stored: Stored(doc), From: from, Dropped: dropped}, nil
}

// fromLegacyV1 scales stage fractions back to stage pixels.
func fromLegacyV1(doc Document, hint *geometry.Context) (Document, []error, error) {
	stage := geometry.Size{Width: doc.StageWidth, Height: doc.StageHeight}
	if !stage.Valid() {
		if hint == nil {
			return Document{}, nil, fmt.Errorf("%w: legacy payload records no stage size", ErrCannotMigrate)
		}
		stage = hint.Stage
	}

	scale := mapping{
		point: func(x, y float64) (float64, float64) { return x * stage.Width, y * stage.Height },
		spanX: func(l float64) float64 { return l * stage.Width },
		spanY: func(l float64) float64 { return l * stage.Height },
	}
	set, dropped := mapSet(doc.Set, scale)

	meta := doc.Meta
	meta.StageWidth = stage.Width
	meta.StageHeight = stage.Height
	meta.NormalizedVersion = 0
	return Document{Set: set, Meta: meta}, dropped, nil
}

// fromUnversioned normalizes stage-pixel geometry exactly once.
func fromUnversioned(doc Document, hint *geometry.Context) (Document, []error, error) {
	ctx, err := legacyContext(doc.Meta, hint)
	if err != nil {
		return Document{}, nil, err
	}

	stored, dropped, err := Normalize(Display{Set: doc.Set, Stage: ctx.Stage}, ctx)
	if err != nil {
		return Document{}, nil, fmt.Errorf("%w: %w", ErrCannotMigrate, err)
	}
	stored.ImageNormalizedVersion = doc.ImageNormalizedVersion
	return stored.Document(), dropped, nil
}

// legacyContext builds the best available context for geometry captured in
// pixels of the stage recorded in meta.
func legacyContext(meta Meta, hint *geometry.Context) (geometry.Context, error) {
	stage := geometry.Size{Width: meta.StageWidth, Height: meta.StageHeight}
	if !stage.Valid() {
		if hint == nil {
			return geometry.Context{}, fmt.Errorf("%w: payload records no stage size and no hint was given", ErrCannotMigrate)
		}
		return *hint, nil
	}

	natural := geometry.Size{Width: meta.ImageNaturalWidth, Height: meta.ImageNaturalHeight}
	rotation := meta.Rotation()
	image, ok := meta.EffectiveImageSize()
	switch {
	case ok:
	case hint != nil:
		image, natural, rotation = hint.Image, hint.Natural, hint.Rotation
	default:
		// Nothing but the stage is known: assume the photo filled it.
		image, natural, rotation = stage, stage, 0
	}

	var ctx geometry.Context
	var err error
	if t := meta.ImageRenderTransform; t != nil && t.ImageScale > 0 {
		ctx, err = geometry.ContextFromTransform(image.Width, image.Height, stage.Width, stage.Height, t.Fit())
	} else {
		ctx, err = geometry.BuildContext(image.Width, image.Height, stage.Width, stage.Height)
	}
	if err != nil {
		return geometry.Context{}, fmt.Errorf("%w: %w", ErrCannotMigrate, err)
	}
	ctx.Natural = natural
	ctx.Rotation = rotation
	return ctx, nil
}
