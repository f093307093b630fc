package render

import (
	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/gardar/ocrlayout/pkg/layout"
)

// RenderParagraphs renders a run of consecutive non-table paragraphs on
// page as one text block.
//
// Words are taken from the first span of each paragraph. Selection marks
// have no text of their own in prose, so they are matched by geometry: a
// mark joins the block when it overlaps the bounding union of the words by
// at least Options.SelectionOverlap percent, measured against the polygon
// chosen by Options.SelectionReference.
func RenderParagraphs(paragraphs []analysis.Paragraph, page *analysis.Page, opts Options) *TextBlock {
	opts = opts.withDefaults()
	return renderParagraphs(paragraphs, newPageContext(page, opts))
}

func renderParagraphs(paragraphs []analysis.Paragraph, pc *pageContext) *TextBlock {
	inParagraph := func(s analysis.Span) bool {
		for _, p := range paragraphs {
			if len(p.Spans) > 0 && p.Spans[0].Contains(s) {
				return true
			}
		}
		return false
	}

	elements := pc.wordElements(inParagraph)
	elements = append(elements, pc.overlappingSelections(elements)...)

	return &TextBlock{
		Paragraphs: len(paragraphs),
		Content:    layout.Render(elements, pc.opts.Layout),
	}
}

// overlappingSelections returns the page's selection marks that overlap
// the union of the given word elements
func (pc *pageContext) overlappingSelections(words []layout.Element) []layout.Element {
	polygons := make([]geometry.Polygon, 0, len(words))
	for _, w := range words {
		polygons = append(polygons, w.Polygon)
	}
	union, ok := geometry.BoundingUnion(polygons...)
	if !ok {
		return nil
	}

	var out []layout.Element
	for _, i := range pc.selections.Candidates(union) {
		mark := pc.page.SelectionMarks[i]

		ref, other := union, mark.Polygon
		if pc.opts.SelectionReference == ReferenceSelectionMark {
			ref, other = mark.Polygon, union
		}
		if !geometry.OverlapsAtLeast(ref, other, pc.opts.SelectionOverlap) {
			continue
		}

		if e, ok := layout.FromSelectionMark(mark); ok {
			out = append(out, e)
		}
	}
	return out
}
