// Package layout places the label and comment of a dimension annotation next
// to its line without leaving the stage.
//
// Compute is a pure function. The side a label was last drawn on is passed
// back in as Input.PreferredSide, so a label only changes side when its current
// side no longer fits. Session wraps Compute with a SideCache keyed by
// annotation id for callers that lay out many annotations over time.
//
// Text is measured through the TextMeasurer interface. ApproxMeasurer needs no
// font data; FaceMeasurer measures with an OpenType font.
package layout
