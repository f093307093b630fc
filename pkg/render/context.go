package render

import (
	"errors"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMissingSpan marks an element left out of span matching because
	// it has no span
	ErrMissingSpan = errors.New("element has no span")
	// ErrPageFailed wraps a failure that emptied one page of a render
	ErrPageFailed = errors.New("page render failed")
)

// pageContext holds the page level lookups shared by every block of a page
type pageContext struct {
	page       *analysis.Page
	opts       Options
	log        logrus.FieldLogger
	selections *geometry.Index
}

func newPageContext(page *analysis.Page, opts Options) *pageContext {
	polygons := make([]geometry.Polygon, 0, len(page.SelectionMarks))
	for _, m := range page.SelectionMarks {
		polygons = append(polygons, m.Polygon)
	}
	return &pageContext{
		page:       page,
		opts:       opts,
		log:        opts.Logger.WithField("page", page.PageNumber),
		selections: geometry.NewIndex(polygons),
	}
}

// wordElements normalizes the words whose span satisfies match, in page order
func (pc *pageContext) wordElements(match func(analysis.Span) bool) []layout.Element {
	var out []layout.Element
	for i, w := range pc.page.Words {
		if w.Span == nil {
			pc.log.WithError(ErrMissingSpan).WithField("word", i).Debug("Skipping word")
			continue
		}
		if !match(*w.Span) {
			continue
		}
		e, ok := layout.FromWord(w)
		if !ok {
			pc.log.WithError(layout.ErrMissingGeometry).WithField("word", i).Debug("Skipping word")
			continue
		}
		out = append(out, e)
	}
	return out
}

// selectionElements normalizes the selection marks whose span satisfies match
func (pc *pageContext) selectionElements(match func(analysis.Span) bool) []layout.Element {
	var out []layout.Element
	for i, m := range pc.page.SelectionMarks {
		if m.Span == nil {
			pc.log.WithError(ErrMissingSpan).WithField("selectionMark", i).Debug("Skipping selection mark")
			continue
		}
		if !match(*m.Span) {
			continue
		}
		e, ok := layout.FromSelectionMark(m)
		if !ok {
			pc.log.WithError(layout.ErrMissingGeometry).WithField("selectionMark", i).Debug("Skipping selection mark")
			continue
		}
		out = append(out, e)
	}
	return out
}
