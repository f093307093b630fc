package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/gardar/ocrlayout/pkg/layout"
)

func span(offset, length int) *analysis.Span {
	return &analysis.Span{Offset: offset, Length: length}
}

func region(poly geometry.Polygon) []analysis.BoundingRegion {
	return []analysis.BoundingRegion{{PageNumber: 1, Polygon: poly}}
}

func word(content string, offset int, poly geometry.Polygon) analysis.Word {
	return analysis.Word{Content: content, Polygon: poly, Span: span(offset, len(content))}
}

func paragraph(offset, length int, poly geometry.Polygon) analysis.Paragraph {
	return analysis.Paragraph{
		Spans:           []analysis.Span{{Offset: offset, Length: length}},
		BoundingRegions: region(poly),
	}
}

func cell(row, col, offset, length int, poly geometry.Polygon) analysis.TableCell {
	return analysis.TableCell{
		Kind:            analysis.CellContent,
		RowIndex:        row,
		ColumnIndex:     col,
		RowSpan:         1,
		ColumnSpan:      1,
		Spans:           []analysis.Span{{Offset: offset, Length: length}},
		BoundingRegions: region(poly),
	}
}

func leftToRight() Options {
	opts := DefaultOptions()
	opts.Layout.Order = layout.LeftToRight
	return opts
}

// helloTable is one page with the prose "Hello world" followed by a one
// row table holding "a" and "b"
func helloTable() *analysis.Result {
	cellA := geometry.Rect(5, 45, 50, 65)
	cellB := geometry.Rect(50, 45, 100, 65)
	return &analysis.Result{
		Status: analysis.StatusSucceeded,
		AnalyzeResult: &analysis.AnalyzeResult{
			Content: "Hello world a b",
			Pages: []analysis.Page{{
				PageNumber: 1,
				Width:      8.5,
				Height:     11,
				Unit:       "inch",
				Words: []analysis.Word{
					word("Hello", 0, geometry.Rect(10, 10, 50, 20)),
					word("world", 6, geometry.Rect(60, 10, 100, 20)),
					word("a", 12, geometry.Rect(10, 50, 20, 60)),
					word("b", 14, geometry.Rect(60, 50, 70, 60)),
				},
			}},
			Paragraphs: []analysis.Paragraph{
				paragraph(0, 11, geometry.Rect(10, 10, 100, 20)),
			},
			Tables: []analysis.Table{{
				RowCount:        1,
				ColumnCount:     2,
				BoundingRegions: region(geometry.Rect(5, 45, 100, 65)),
				Cells: []analysis.TableCell{
					cell(0, 0, 12, 1, cellA),
					cell(0, 1, 14, 1, cellB),
				},
			}},
		},
	}
}

func TestRender_HelloWorldThenTable(t *testing.T) {
	doc := Render(helloTable(), leftToRight())

	if len(doc.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(doc.Pages))
	}
	blocks := doc.Pages[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	text, ok := blocks[0].(*TextBlock)
	if !ok {
		t.Fatalf("Expected first block to be text, got %s", blocks[0].Kind())
	}
	if got := text.Content.Text(); got != "Hello world" {
		t.Errorf("Expected text 'Hello world', got %q", got)
	}

	table, ok := blocks[1].(*TableBlock)
	if !ok {
		t.Fatalf("Expected second block to be a table, got %s", blocks[1].Kind())
	}
	if len(table.Rows) != 1 || len(table.Rows[0].Cells) != 2 {
		t.Fatalf("Expected 1 row with 2 cells, got %+v", table.Rows)
	}
	if got := table.Rows[0].Cells[0].Content.Text(); got != "a" {
		t.Errorf("Expected first cell 'a', got %q", got)
	}
	if got := table.Rows[0].Cells[1].Content.Text(); got != "b" {
		t.Errorf("Expected second cell 'b', got %q", got)
	}
}

func TestRender_DefaultOrderIsRightToLeft(t *testing.T) {
	doc := Render(helloTable(), DefaultOptions())
	text := doc.Pages[0].Blocks[0].(*TextBlock)
	if got := text.Content.Text(); got != "world Hello" {
		t.Errorf("Expected right to left text 'world Hello', got %q", got)
	}
}

func TestRender_FailedStatus(t *testing.T) {
	res := helloTable()
	res.Status = "failed"

	doc := Render(res, DefaultOptions())
	if len(doc.Pages) != 0 {
		t.Errorf("Expected no pages, got %d", len(doc.Pages))
	}
	if doc.Status != "failed" {
		t.Errorf("Expected status 'failed', got %q", doc.Status)
	}

	if doc := Render(nil, DefaultOptions()); len(doc.Pages) != 0 {
		t.Errorf("Expected no pages for nil result, got %d", len(doc.Pages))
	}
}

func TestRenderPage_TableDedup(t *testing.T) {
	res := helloTable()
	ar := res.AnalyzeResult
	ar.Content = "Hello world a b Bye"
	ar.Pages[0].Words = append(ar.Pages[0].Words, word("Bye", 16, geometry.Rect(10, 80, 40, 90)))

	cellA, _ := ar.Tables[0].Cells[0].Polygon()
	cellB, _ := ar.Tables[0].Cells[1].Polygon()
	ar.Paragraphs = []analysis.Paragraph{
		paragraph(0, 11, geometry.Rect(10, 10, 100, 20)),
		paragraph(12, 1, cellA),
		paragraph(14, 1, cellB),
		paragraph(16, 3, geometry.Rect(10, 80, 40, 90)),
	}

	page := RenderPage(ar, &ar.Pages[0], leftToRight())

	kinds := make([]string, 0, len(page.Blocks))
	for _, b := range page.Blocks {
		kinds = append(kinds, b.Kind().String())
	}
	if got := strings.Join(kinds, ","); got != "text,table,text" {
		t.Fatalf("Expected blocks text,table,text, got %s", got)
	}
	if got := page.Blocks[2].(*TextBlock).Content.Text(); got != "Bye" {
		t.Errorf("Expected trailing text 'Bye', got %q", got)
	}
}

func TestRenderPage_MergesConsecutiveParagraphs(t *testing.T) {
	res := helloTable()
	ar := res.AnalyzeResult
	ar.Tables = nil
	ar.Paragraphs = []analysis.Paragraph{
		paragraph(0, 5, geometry.Rect(10, 10, 50, 20)),
		paragraph(6, 5, geometry.Rect(60, 10, 100, 20)),
	}

	page := RenderPage(ar, &ar.Pages[0], leftToRight())
	if len(page.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(page.Blocks))
	}
	text := page.Blocks[0].(*TextBlock)
	if text.Paragraphs != 2 {
		t.Errorf("Expected 2 merged paragraphs, got %d", text.Paragraphs)
	}
	if got := text.Content.Text(); got != "Hello world" {
		t.Errorf("Expected 'Hello world', got %q", got)
	}
}

func TestRenderPage_ExcludeRoles(t *testing.T) {
	res := helloTable()
	ar := res.AnalyzeResult
	ar.Tables = nil
	header := paragraph(0, 5, geometry.Rect(10, 10, 50, 20))
	header.Role = analysis.RolePageHeader
	ar.Paragraphs = []analysis.Paragraph{header, paragraph(6, 5, geometry.Rect(60, 10, 100, 20))}

	opts := leftToRight()
	opts.ExcludeRoles = []analysis.Role{analysis.RolePageHeader}
	page := RenderPage(ar, &ar.Pages[0], opts)

	if len(page.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(page.Blocks))
	}
	if got := page.Blocks[0].(*TextBlock).Content.Text(); got != "world" {
		t.Errorf("Expected 'world', got %q", got)
	}
}

func TestRenderTable_SpanFidelity(t *testing.T) {
	page := &analysis.Page{PageNumber: 1}
	table := analysis.Table{
		Cells: []analysis.TableCell{
			{Kind: analysis.CellColumnHeader, RowIndex: 0, ColumnIndex: 0, RowSpan: 2, ColumnSpan: 3},
			{Kind: analysis.CellContent, RowIndex: 2, ColumnIndex: 0, RowSpan: 1, ColumnSpan: 1},
			{Kind: analysis.CellRowHeader, RowIndex: 2, ColumnIndex: 1, RowSpan: 1, ColumnSpan: 2},
		},
	}

	block := RenderTable(table, page, DefaultOptions())

	if len(block.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(block.Rows))
	}
	head := block.Rows[0].Cells[0]
	if head.RowSpan != 2 || head.ColSpan != 3 {
		t.Errorf("Expected rowSpan 2 colSpan 3, got %d %d", head.RowSpan, head.ColSpan)
	}
	if !head.Header {
		t.Error("Expected column header cell to be a header")
	}
	if block.Rows[1].Cells[0].Header {
		t.Error("Expected content cell not to be a header")
	}
	if !block.Rows[1].Cells[1].Header {
		t.Error("Expected row header cell to be a header")
	}
	if block.Rows[1].Index != 2 {
		t.Errorf("Expected row index 2, got %d", block.Rows[1].Index)
	}
}

func TestRenderTable_SelectionMarksBySpan(t *testing.T) {
	page := &analysis.Page{
		PageNumber: 1,
		Words: []analysis.Word{
			word("Yes", 0, geometry.Rect(30, 10, 60, 20)),
			{Content: "orphan", Polygon: geometry.Rect(30, 30, 60, 40)},
		},
		SelectionMarks: []analysis.SelectionMark{
			{State: analysis.Selected, Polygon: geometry.Rect(10, 10, 20, 20), Span: span(4, 1)},
			{State: analysis.Selected, Polygon: geometry.Rect(10, 30, 20, 40), Span: span(40, 1)},
		},
	}
	table := analysis.Table{Cells: []analysis.TableCell{{
		RowSpan:    1,
		ColumnSpan: 1,
		Spans:      []analysis.Span{{Offset: 0, Length: 3}, {Offset: 4, Length: 1}},
	}}}

	block := RenderTable(table, page, leftToRight())
	runs := block.Rows[0].Cells[0].Content.Runs()
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %+v", runs)
	}
	if runs[0].Kind != layout.RunCheckbox || !runs[0].Checked {
		t.Errorf("Expected a checked checkbox first, got %+v", runs[0])
	}
	if runs[1].Text != "Yes " {
		t.Errorf("Expected text 'Yes ', got %q", runs[1].Text)
	}
}

func TestRenderParagraphs_SelectionReference(t *testing.T) {
	page := &analysis.Page{
		PageNumber: 1,
		Words:      []analysis.Word{word("Agree", 0, geometry.Rect(30, 10, 80, 20))},
		SelectionMarks: []analysis.SelectionMark{
			{State: analysis.Unselected, Polygon: geometry.Rect(40, 12, 45, 18)},
			{State: analysis.Selected, Polygon: geometry.Rect(200, 12, 210, 18)},
		},
	}
	paragraphs := []analysis.Paragraph{paragraph(0, 5, geometry.Rect(30, 10, 80, 20))}

	countMarks := func(b *TextBlock) int {
		n := 0
		for _, r := range b.Content.Runs() {
			if r.Kind == layout.RunCheckbox {
				n++
			}
		}
		return n
	}

	if n := countMarks(RenderParagraphs(paragraphs, page, DefaultOptions())); n != 0 {
		t.Errorf("Expected no marks against the text union, got %d", n)
	}

	opts := DefaultOptions()
	opts.SelectionReference = ReferenceSelectionMark
	if n := countMarks(RenderParagraphs(paragraphs, page, opts)); n != 1 {
		t.Errorf("Expected 1 mark inside the text, got %d", n)
	}

	// A mark covering the whole union passes the default test
	page.SelectionMarks = append(page.SelectionMarks, analysis.SelectionMark{
		State:   analysis.Selected,
		Polygon: geometry.Rect(28, 8, 82, 22),
	})
	if n := countMarks(RenderParagraphs(paragraphs, page, DefaultOptions())); n != 1 {
		t.Errorf("Expected the covering mark, got %d", n)
	}
}

func TestRenderParagraphs_NoWords(t *testing.T) {
	page := &analysis.Page{
		PageNumber: 1,
		SelectionMarks: []analysis.SelectionMark{
			{State: analysis.Selected, Polygon: geometry.Rect(0, 0, 10, 10)},
		},
	}
	block := RenderParagraphs([]analysis.Paragraph{paragraph(0, 5, geometry.Rect(0, 0, 10, 10))}, page, DefaultOptions())
	if !block.Content.Empty() {
		t.Errorf("Expected empty content, got %+v", block.Content)
	}
}

func TestRender_PreservesPageOrder(t *testing.T) {
	ar := &analysis.AnalyzeResult{}
	for i := 1; i <= 6; i++ {
		ar.Pages = append(ar.Pages, analysis.Page{PageNumber: i})
	}

	opts := DefaultOptions()
	opts.Workers = 4
	doc := Render(&analysis.Result{Status: analysis.StatusSucceeded, AnalyzeResult: ar}, opts)

	if len(doc.Pages) != 6 {
		t.Fatalf("Expected 6 pages, got %d", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("Expected page %d at index %d, got %d", i+1, i, p.Number)
		}
	}
}

func TestRenderPageSafe_RecoversPanic(t *testing.T) {
	page := &analysis.Page{PageNumber: 3}

	out := renderPageSafe(nil, page, DefaultOptions().withDefaults())

	if !errors.Is(out.Err, ErrPageFailed) {
		t.Errorf("Expected ErrPageFailed, got %v", out.Err)
	}
	if out.Number != 3 || len(out.Blocks) != 0 {
		t.Errorf("Expected empty page 3, got %+v", out)
	}
}

func TestDocument_MarshalJSON(t *testing.T) {
	doc := Render(helloTable(), leftToRight())

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"type":"text"`, `"type":"table"`, `"status":"succeeded"`} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected JSON to contain %s, got %s", want, s)
		}
	}
}
