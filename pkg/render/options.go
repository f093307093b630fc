package render

import (
	"io"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/sirupsen/logrus"
)

// Reference selects which polygon normalizes the selection mark overlap
// test in the paragraph renderer
type Reference int

const (
	// ReferenceTextUnion divides by the area of the union of the
	// paragraph words (the mark must cover the text union)
	ReferenceTextUnion Reference = iota
	// ReferenceSelectionMark divides by the area of the mark (the mark
	// must lie inside the text union)
	ReferenceSelectionMark
)

// String returns a string representation of the reference
func (r Reference) String() string {
	if r == ReferenceSelectionMark {
		return "mark"
	}
	return "union"
}

// ParseReference maps "union"/"mark" to a Reference, defaulting to
// ReferenceTextUnion
func ParseReference(s string) Reference {
	if s == "mark" || s == "selection" {
		return ReferenceSelectionMark
	}
	return ReferenceTextUnion
}

// Options configures page rendering
type Options struct {
	// Layout configures line grouping and in-line order
	Layout layout.Options

	// SelectionOverlap is the percent overlap required to attach a
	// selection mark to a run of paragraphs (default 90)
	SelectionOverlap float64

	// SelectionReference picks the denominator of the overlap test
	SelectionReference Reference

	// ExcludeRoles drops paragraphs with these roles before composition
	ExcludeRoles []analysis.Role

	// Workers bounds how many pages render at once (default 1)
	Workers int

	// Logger receives diagnostics; nil discards them
	Logger logrus.FieldLogger
}

// DefaultOptions returns the default rendering configuration
func DefaultOptions() Options {
	return Options{
		Layout:             layout.DefaultOptions(),
		SelectionOverlap:   geometry.DefaultOverlapPercent,
		SelectionReference: ReferenceTextUnion,
		Workers:            1,
	}
}

// withDefaults fills zero values and shares the logger with the layout engine
func (o Options) withDefaults() Options {
	if o.SelectionOverlap <= 0 {
		o.SelectionOverlap = geometry.DefaultOverlapPercent
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	if o.Layout.Logger == nil {
		o.Layout.Logger = o.Logger
	}
	return o
}

func (o Options) excluded(role analysis.Role) bool {
	for _, r := range o.ExcludeRoles {
		if r == role {
			return true
		}
	}
	return false
}
