package gdocai

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

// normLayout builds a layout from a normalized rectangle
func normLayout(start, end int64, x0, y0, x1, y1 float32) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: anchor(start, end),
		Confidence: 0.5,
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
			},
		},
	}
}

// sampleDocument holds a paragraph, a checkbox and a two row table
func sampleDocument() *documentaipb.Document {
	text := "Hello\nName\nAda\n"
	headerCell := normLayout(6, 11, 0.25, 0.5, 0.5, 0.625)
	bodyCell := normLayout(11, 15, 0.25, 0.625, 0.5, 0.75)

	return &documentaipb.Document{
		Text: text,
		Pages: []*documentaipb.Document_Page{{
			PageNumber: 1,
			Dimension:  &documentaipb.Document_Page_Dimension{Width: 200, Height: 100, Unit: "pixels"},
			Layout:     normLayout(0, 15, 0, 0, 1, 1),
			Tokens: []*documentaipb.Document_Page_Token{
				{Layout: normLayout(0, 6, 0.25, 0.25, 0.5, 0.375)},
				{Layout: normLayout(6, 11, 0.25, 0.5, 0.5, 0.625)},
				{Layout: normLayout(11, 15, 0.25, 0.625, 0.5, 0.75)},
			},
			Paragraphs: []*documentaipb.Document_Page_Paragraph{
				{Layout: normLayout(0, 6, 0.25, 0.25, 0.5, 0.375)},
				{Layout: normLayout(6, 11, 0.25, 0.5, 0.5, 0.625)},
				{Layout: normLayout(11, 15, 0.25, 0.625, 0.5, 0.75)},
			},
			VisualElements: []*documentaipb.Document_Page_VisualElement{
				{Type: "filled_checkbox", Layout: normLayout(0, 0, 0.125, 0.25, 0.1875, 0.375)},
				{Type: "math_formula", Layout: normLayout(0, 0, 0, 0, 0.125, 0.125)},
			},
			Tables: []*documentaipb.Document_Page_Table{{
				Layout: normLayout(6, 15, 0.25, 0.5, 0.5, 0.75),
				HeaderRows: []*documentaipb.Document_Page_Table_TableRow{
					{Cells: []*documentaipb.Document_Page_Table_TableCell{{Layout: headerCell, RowSpan: 1, ColSpan: 2}}},
				},
				BodyRows: []*documentaipb.Document_Page_Table_TableRow{
					{Cells: []*documentaipb.Document_Page_Table_TableCell{{Layout: bodyCell}}},
				},
			}},
		}},
	}
}

func TestResultFromProto(t *testing.T) {
	res := ResultFromProto(sampleDocument())
	if !res.Succeeded() {
		t.Fatalf("Expected succeeded result, got status %q", res.Status)
	}
	ar := res.AnalyzeResult

	if len(ar.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(ar.Pages))
	}
	page := ar.Pages[0]
	if page.Unit != "pixel" || page.Width != 200 || page.Height != 100 {
		t.Errorf("Expected 200x100 pixel page, got %vx%v %s", page.Width, page.Height, page.Unit)
	}

	if len(page.Words) != 3 {
		t.Fatalf("Expected 3 words, got %d", len(page.Words))
	}
	if page.Words[0].Content != "Hello" {
		t.Errorf("Expected first word 'Hello', got %q", page.Words[0].Content)
	}
	want := geometry.Rect(50, 25, 100, 37.5)
	if page.Words[0].Polygon != want {
		t.Errorf("Expected polygon %v, got %v", want, page.Words[0].Polygon)
	}
	if page.Words[0].Span == nil || *page.Words[0].Span != (analysis.Span{Offset: 0, Length: 6}) {
		t.Errorf("Expected span {0 6}, got %v", page.Words[0].Span)
	}

	if len(page.SelectionMarks) != 1 {
		t.Fatalf("Expected 1 selection mark, got %d", len(page.SelectionMarks))
	}
	if page.SelectionMarks[0].State != analysis.Selected {
		t.Errorf("Expected selected mark, got %s", page.SelectionMarks[0].State)
	}
}

func TestResultFromProtoTables(t *testing.T) {
	ar := ResultFromProto(sampleDocument()).AnalyzeResult

	if len(ar.Tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(ar.Tables))
	}
	table := ar.Tables[0]
	if table.RowCount != 2 || table.ColumnCount != 2 {
		t.Errorf("Expected 2x2 table, got %dx%d", table.RowCount, table.ColumnCount)
	}
	if len(table.Cells) != 2 {
		t.Fatalf("Expected 2 cells, got %d", len(table.Cells))
	}

	header, body := table.Cells[0], table.Cells[1]
	if header.Kind != analysis.CellColumnHeader || header.ColumnSpan != 2 || header.Content != "Name" {
		t.Errorf("Unexpected header cell %+v", header)
	}
	if body.Kind != analysis.CellContent || body.RowIndex != 1 || body.RowSpan != 1 || body.ColumnSpan != 1 {
		t.Errorf("Unexpected body cell %+v", body)
	}
	if table.PageNumber() != 1 {
		t.Errorf("Expected table on page 1, got %d", table.PageNumber())
	}
}

func TestResultFromProtoCellParagraphs(t *testing.T) {
	ar := ResultFromProto(sampleDocument()).AnalyzeResult

	if len(ar.Paragraphs) != 3 {
		t.Fatalf("Expected 3 paragraphs, got %d", len(ar.Paragraphs))
	}
	if ar.Paragraphs[0].Content != "Hello" {
		t.Errorf("Expected first paragraph 'Hello', got %q", ar.Paragraphs[0].Content)
	}

	cellPoly, _ := ar.Tables[0].Cells[0].Polygon()
	parPoly, ok := ar.Paragraphs[1].Polygon()
	if !ok || parPoly != cellPoly {
		t.Errorf("Expected cell paragraph to share the cell polygon %v, got %v", cellPoly, parPoly)
	}
}

func TestResultFromProtoVertices(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Hi",
		Pages: []*documentaipb.Document_Page{{
			Tokens: []*documentaipb.Document_Page_Token{{
				Layout: &documentaipb.Document_Page_Layout{
					TextAnchor: anchor(0, 2),
					BoundingPoly: &documentaipb.BoundingPoly{
						Vertices: []*documentaipb.Vertex{{X: 1, Y: 2}, {X: 5, Y: 2}, {X: 5, Y: 4}, {X: 1, Y: 4}},
					},
				},
			}},
		}},
	}

	page := ResultFromProto(doc).AnalyzeResult.Pages[0]
	if page.PageNumber != 1 {
		t.Errorf("Expected page number 1, got %d", page.PageNumber)
	}
	if page.Words[0].Polygon != geometry.Rect(1, 2, 5, 4) {
		t.Errorf("Expected vertex polygon, got %v", page.Words[0].Polygon)
	}
}

func TestResultFromProtoNil(t *testing.T) {
	if ResultFromProto(nil).Succeeded() {
		t.Error("Expected nil document to produce a failed result")
	}
}

func TestMergeResults(t *testing.T) {
	page := func() *analysis.Result {
		return &analysis.Result{
			Status: analysis.StatusSucceeded,
			AnalyzeResult: &analysis.AnalyzeResult{
				Content: "ab",
				Pages: []analysis.Page{{
					PageNumber: 1,
					Words:      []analysis.Word{{Content: "ab", Span: &analysis.Span{Offset: 0, Length: 2}}},
				}},
				Paragraphs: []analysis.Paragraph{{
					Content:         "ab",
					Spans:           []analysis.Span{{Offset: 0, Length: 2}},
					BoundingRegions: []analysis.BoundingRegion{{PageNumber: 1, Polygon: geometry.Rect(0, 0, 1, 1)}},
				}},
			},
		}
	}

	first := page()
	merged := MergeResults(first, &analysis.Result{Status: "failed"}, page())
	ar := merged.AnalyzeResult

	if ar.Content != "ab\n\nab" {
		t.Errorf("Expected joined content, got %q", ar.Content)
	}
	if len(ar.Pages) != 2 || ar.Pages[1].PageNumber != 2 {
		t.Fatalf("Expected second page numbered 2, got %+v", ar.Pages)
	}
	if got := *ar.Pages[1].Words[0].Span; got != (analysis.Span{Offset: 4, Length: 2}) {
		t.Errorf("Expected shifted word span {4 2}, got %v", got)
	}
	if ar.Paragraphs[1].PageNumber() != 2 {
		t.Errorf("Expected second paragraph on page 2, got %d", ar.Paragraphs[1].PageNumber())
	}
	if ar.Text(*ar.Pages[1].Words[0].Span) != "ab" {
		t.Errorf("Expected shifted span to address 'ab', got %q", ar.Text(*ar.Pages[1].Words[0].Span))
	}
	if first.AnalyzeResult.Pages[0].Words[0].Span.Offset != 0 {
		t.Error("Expected inputs to be left unchanged")
	}
}

type fakeProcessor struct {
	calls atomic.Int32
	fail  string
	pages int
}

func (f *fakeProcessor) Process(ctx context.Context, pdfBytes []byte) (*documentaipb.Document, error) {
	f.calls.Add(1)
	if string(pdfBytes) == f.fail {
		return nil, errors.New("quota exceeded")
	}
	doc := &documentaipb.Document{Text: string(pdfBytes)}
	for i := 0; i < f.pages; i++ {
		doc.Pages = append(doc.Pages, &documentaipb.Document_Page{
			PageNumber: int32(i + 1),
			Tokens: []*documentaipb.Document_Page_Token{{
				Layout: normLayout(0, int64(len(pdfBytes)), 0, 0, 1, 1),
			}},
		})
	}
	return doc, nil
}

func TestProcessPages(t *testing.T) {
	p := &fakeProcessor{pages: 1}
	pages := [][]byte{[]byte("one"), []byte("two"), []byte("three")}

	res, err := ProcessPages(context.Background(), p, pages, BatchOptions{Concurrency: 2})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ar := res.AnalyzeResult
	if ar.Content != "one\n\ntwo\n\nthree" {
		t.Errorf("Expected content in page order, got %q", ar.Content)
	}
	for i, page := range ar.Pages {
		if page.PageNumber != i+1 {
			t.Errorf("Expected page %d, got %d", i+1, page.PageNumber)
		}
		if got := ar.Text(*page.Words[0].Span); got != string(pages[i]) {
			t.Errorf("Expected word %q on page %d, got %q", pages[i], i+1, got)
		}
	}
	if p.calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", p.calls.Load())
	}
}

func TestProcessPagesErrors(t *testing.T) {
	_, err := ProcessPages(context.Background(), &fakeProcessor{pages: 1, fail: "two"},
		[][]byte{[]byte("one"), []byte("two")}, BatchOptions{Concurrency: 1})
	if err == nil || !strings.Contains(err.Error(), "page 2") {
		t.Errorf("Expected error for page 2, got %v", err)
	}

	_, err = ProcessPages(context.Background(), &fakeProcessor{pages: 2},
		[][]byte{[]byte("one")}, DefaultBatchOptions())
	if err == nil || !strings.Contains(err.Error(), "expected 1 page") {
		t.Errorf("Expected page count error, got %v", err)
	}

	if _, err := ProcessPages(context.Background(), &fakeProcessor{}, nil, BatchOptions{}); err == nil {
		t.Error("Expected error for no pages")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{ProjectID: "p", Location: "eu"}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	cfg.ProcessorID = "abc"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
	if got := cfg.ProcessorName(); got != "projects/p/locations/eu/processors/abc" {
		t.Errorf("Unexpected processor name %q", got)
	}
	if got := cfg.Endpoint(); got != "eu-documentai.googleapis.com:443" {
		t.Errorf("Unexpected endpoint %q", got)
	}
}

func TestLoadJSON(t *testing.T) {
	data, err := ToJSON(sampleDocument())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	doc, err := LoadJSON([]byte(data))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(doc.Pages) != 1 || len(doc.Pages[0].Tokens) != 3 {
		t.Errorf("Expected 1 page with 3 tokens after reload, got %+v", doc.Pages)
	}
}
