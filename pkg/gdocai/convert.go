package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
)

// Visual element and form field value types that denote checkboxes
const (
	filledCheckbox   = "filled_checkbox"
	unfilledCheckbox = "unfilled_checkbox"
)

// ResultFromProto converts a Document AI response into an analysis result.
//
// Tokens become words, checkbox visual elements and checkbox form field
// values become selection marks, and tables keep their header rows as
// column header cells. Polygons are in pixels: normalized vertices are
// multiplied by the page dimension.
//
// A paragraph lying inside a table cell is replaced by a paragraph that
// shares the cell's region, once per cell, so the cell can be traced back
// to its table by polygon.
func ResultFromProto(doc *documentaipb.Document) *analysis.Result {
	if doc == nil {
		return &analysis.Result{Status: "failed"}
	}

	text := []rune(doc.Text)
	ar := &analysis.AnalyzeResult{
		ModelID: "documentai",
		Content: doc.Text,
	}

	for i, p := range doc.Pages {
		c := &pageConverter{page: p, text: text, number: int(p.PageNumber)}
		if c.number == 0 {
			c.number = i + 1
		}
		ar.Pages = append(ar.Pages, c.convertPage())
		tables := c.convertTables()
		ar.Paragraphs = append(ar.Paragraphs, c.convertParagraphs(tables)...)
		ar.Tables = append(ar.Tables, tables...)
	}

	res := &analysis.Result{Status: analysis.StatusSucceeded, AnalyzeResult: ar}
	res.Normalize()
	return res
}

type pageConverter struct {
	page   *documentaipb.Document_Page
	text   []rune
	number int
}

func (c *pageConverter) polygon(layout *documentaipb.Document_Page_Layout) geometry.Polygon {
	if layout == nil || layout.BoundingPoly == nil {
		return geometry.Polygon{}
	}
	poly := layout.BoundingPoly

	if nv := poly.NormalizedVertices; len(nv) > 0 && c.page.Dimension != nil {
		w, h := float64(c.page.Dimension.Width), float64(c.page.Dimension.Height)
		points := make([]geometry.Point, 0, len(nv))
		for _, v := range nv {
			points = append(points, geometry.Point{X: float64(v.X) * w, Y: float64(v.Y) * h})
		}
		return geometry.FromPoints(points)
	}

	points := make([]geometry.Point, 0, len(poly.Vertices))
	for _, v := range poly.Vertices {
		points = append(points, geometry.Point{X: float64(v.X), Y: float64(v.Y)})
	}
	return geometry.FromPoints(points)
}

func (c *pageConverter) region(layout *documentaipb.Document_Page_Layout) []analysis.BoundingRegion {
	poly := c.polygon(layout)
	if poly.IsZero() {
		return nil
	}
	return []analysis.BoundingRegion{{PageNumber: c.number, Polygon: poly}}
}

func confidence(layout *documentaipb.Document_Page_Layout) float64 {
	if layout == nil {
		return 0
	}
	return float64(layout.Confidence)
}

func (c *pageConverter) convertPage() analysis.Page {
	out := analysis.Page{PageNumber: c.number}
	if d := c.page.Dimension; d != nil {
		out.Width = float64(d.Width)
		out.Height = float64(d.Height)
		out.Unit = strings.TrimSuffix(d.Unit, "s")
	}
	if out.Unit == "" {
		out.Unit = "pixel"
	}

	for _, t := range c.page.Tokens {
		out.Words = append(out.Words, analysis.Word{
			Content:    strings.TrimSpace(textFromLayout(t.Layout, c.text)),
			Polygon:    c.polygon(t.Layout),
			Span:       firstSpan(t.Layout),
			Confidence: confidence(t.Layout),
		})
	}

	for _, l := range c.page.Lines {
		out.Lines = append(out.Lines, analysis.Line{
			Content: strings.TrimSpace(textFromLayout(l.Layout, c.text)),
			Polygon: c.polygon(l.Layout),
			Spans:   spansFromLayout(l.Layout),
		})
	}

	for _, v := range c.page.VisualElements {
		if m, ok := c.selectionMark(v.Type, v.Layout); ok {
			out.SelectionMarks = append(out.SelectionMarks, m)
		}
	}
	for _, f := range c.page.FormFields {
		if m, ok := c.selectionMark(f.ValueType, f.FieldValue); ok {
			out.SelectionMarks = append(out.SelectionMarks, m)
		}
	}

	out.Spans = spansFromLayout(c.page.Layout)
	return out
}

func (c *pageConverter) selectionMark(kind string, layout *documentaipb.Document_Page_Layout) (analysis.SelectionMark, bool) {
	var state analysis.SelectionState
	switch kind {
	case filledCheckbox:
		state = analysis.Selected
	case unfilledCheckbox:
		state = analysis.Unselected
	default:
		return analysis.SelectionMark{}, false
	}
	return analysis.SelectionMark{
		State:      state,
		Polygon:    c.polygon(layout),
		Span:       firstSpan(layout),
		Confidence: confidence(layout),
	}, true
}

func (c *pageConverter) convertTables() []analysis.Table {
	var out []analysis.Table
	for _, t := range c.page.Tables {
		table := analysis.Table{
			BoundingRegions: c.region(t.Layout),
			Spans:           spansFromLayout(t.Layout),
		}

		row := 0
		addRows := func(rows []*documentaipb.Document_Page_Table_TableRow, kind analysis.CellKind) {
			for _, r := range rows {
				col := 0
				for _, cell := range r.Cells {
					colSpan := max(int(cell.ColSpan), 1)
					table.Cells = append(table.Cells, analysis.TableCell{
						Kind:            kind,
						RowIndex:        row,
						ColumnIndex:     col,
						RowSpan:         max(int(cell.RowSpan), 1),
						ColumnSpan:      colSpan,
						Content:         strings.TrimSpace(textFromLayout(cell.Layout, c.text)),
						Spans:           spansFromLayout(cell.Layout),
						BoundingRegions: c.region(cell.Layout),
					})
					col += colSpan
				}
				table.ColumnCount = max(table.ColumnCount, col)
				row++
			}
		}
		addRows(t.HeaderRows, analysis.CellColumnHeader)
		addRows(t.BodyRows, analysis.CellContent)
		table.RowCount = row

		out = append(out, table)
	}
	return out
}

func (c *pageConverter) convertParagraphs(tables []analysis.Table) []analysis.Paragraph {
	var out []analysis.Paragraph
	seen := make(map[[2]int]bool)

	for _, p := range c.page.Paragraphs {
		span := firstSpan(p.Layout)
		if span != nil {
			if ti, ci, ok := cellContaining(tables, *span); ok {
				if !seen[[2]int{ti, ci}] {
					seen[[2]int{ti, ci}] = true
					cell := tables[ti].Cells[ci]
					out = append(out, analysis.Paragraph{
						Content:         cell.Content,
						Spans:           cell.Spans,
						BoundingRegions: cell.BoundingRegions,
					})
				}
				continue
			}
		}

		out = append(out, analysis.Paragraph{
			Role:            analysis.RoleBody,
			Content:         strings.TrimSpace(textFromLayout(p.Layout, c.text)),
			Spans:           spansFromLayout(p.Layout),
			BoundingRegions: c.region(p.Layout),
		})
	}
	return out
}

// cellContaining finds the first cell with a polygon whose spans contain span
func cellContaining(tables []analysis.Table, span analysis.Span) (int, int, bool) {
	for ti, t := range tables {
		for ci, cell := range t.Cells {
			if len(cell.BoundingRegions) > 0 && cell.ContainsSpan(span) {
				return ti, ci, true
			}
		}
	}
	return 0, 0, false
}
