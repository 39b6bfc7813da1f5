package annotation

import (
	"slices"

	"github.com/google/uuid"
)

// AssignIDs returns a copy of s in which every annotation without an id has
// been given one, and the number of ids assigned. A nil newID generates
// random UUIDs.
//
// Ids are what the layout side cache and Validate key on; annotations created
// by older editors sometimes lack them.
func AssignIDs(s Set, newID func() string) (Set, int) {
	if newID == nil {
		newID = uuid.NewString
	}

	var n int
	fill := func(id *string) {
		if *id == "" {
			*id = newID()
			n++
		}
	}

	out := Set{
		Lines:      slices.Clone(s.Lines),
		Rects:      slices.Clone(s.Rects),
		Arrows:     slices.Clone(s.Arrows),
		Texts:      slices.Clone(s.Texts),
		Dimensions: slices.Clone(s.Dimensions),
	}
	for i := range out.Lines {
		fill(&out.Lines[i].ID)
	}
	for i := range out.Rects {
		fill(&out.Rects[i].ID)
	}
	for i := range out.Arrows {
		fill(&out.Arrows[i].ID)
	}
	for i := range out.Texts {
		fill(&out.Texts[i].ID)
	}
	for i := range out.Dimensions {
		fill(&out.Dimensions[i].ID)
	}
	return out, n
}
