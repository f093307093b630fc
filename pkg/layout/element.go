// Package layout turns unordered OCR words and selection marks into
// visual lines in reading order.
//
// Elements are first normalized into a uniform positioned record
// (Element). Group then clusters elements into lines by vertical interval
// overlap, orders lines top to bottom and elements within a line by their
// center X, and Runs renders a line into text runs and checkbox markers.
package layout

import (
	"errors"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
)

// ElementType identifies what a positioned element was built from
type ElementType int

const (
	ElementUnknown ElementType = iota
	ElementWord
	ElementCheckbox
)

// String returns a string representation of the element type
func (t ElementType) String() string {
	switch t {
	case ElementWord:
		return "word"
	case ElementCheckbox:
		return "checkbox"
	default:
		return "unknown"
	}
}

// Render weights, used to order elements whose center X is 0
const (
	WeightWord     = 1.0
	WeightCheckbox = 1.1
)

var (
	// ErrMissingGeometry marks an element dropped because it has no polygon
	ErrMissingGeometry = errors.New("element has no polygon")
	// ErrUnrecognizedElement marks an element of a type that cannot be rendered
	ErrUnrecognizedElement = errors.New("unrecognized element type")
)

// Element is a word or selection mark reduced to what ordering needs
type Element struct {
	Type     ElementType       `json:"type"`
	Weight   float64           `json:"weight"`
	Content  string            `json:"content"`
	Center   geometry.Point    `json:"center"`
	Interval geometry.Interval `json:"interval"`
	Polygon  geometry.Polygon  `json:"polygon"`
}

// FromWord normalizes a word. ok is false when the word has no polygon.
func FromWord(w analysis.Word) (Element, bool) {
	if w.Polygon.IsZero() {
		return Element{}, false
	}
	return newElement(ElementWord, WeightWord, w.Content, w.Polygon), true
}

// FromSelectionMark normalizes a selection mark; its content is the state.
// ok is false when the mark has no polygon.
func FromSelectionMark(m analysis.SelectionMark) (Element, bool) {
	if m.Polygon.IsZero() {
		return Element{}, false
	}
	return newElement(ElementCheckbox, WeightCheckbox, string(m.State), m.Polygon), true
}

func newElement(t ElementType, weight float64, content string, p geometry.Polygon) Element {
	return Element{
		Type:     t,
		Weight:   weight,
		Content:  content,
		Center:   geometry.GeometricCenter(p),
		Interval: geometry.VerticalIntervalOf(p),
		Polygon:  p,
	}
}

// Checked reports whether a checkbox element is selected. Any state other
// than "selected", including unknown values, counts as unchecked.
func (e Element) Checked() bool {
	return e.Type == ElementCheckbox && analysis.SelectionState(e.Content) == analysis.Selected
}
