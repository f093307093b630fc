// Package analysis models the output of an OCR / layout analysis service:
// pages with words and selection marks, and document level paragraphs and
// tables, each located by polygons and tied to the flat content string by
// spans.
//
// The JSON shape follows the common layout analysis contract
// (status + analyzeResult with pages, paragraphs and tables), so saved
// service responses can be decoded directly with Decode or Parse.
package analysis

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a JSON analysis result and fills in defaults
func Decode(r io.Reader) (*Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	res.Normalize()
	return &res, nil
}

// Parse decodes a JSON analysis result from bytes
func Parse(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse analysis result: %w", err)
	}
	res.Normalize()
	return &res, nil
}

// Normalize fills in values services omit when they equal their
// defaults: row and column spans of 1 and the content cell kind
func (r *Result) Normalize() {
	if r == nil || r.AnalyzeResult == nil {
		return
	}
	for ti := range r.AnalyzeResult.Tables {
		cells := r.AnalyzeResult.Tables[ti].Cells
		for ci := range cells {
			if cells[ci].RowSpan <= 0 {
				cells[ci].RowSpan = 1
			}
			if cells[ci].ColumnSpan <= 0 {
				cells[ci].ColumnSpan = 1
			}
			if cells[ci].Kind == "" {
				cells[ci].Kind = CellContent
			}
		}
	}
}

// ParagraphsOnPage returns the paragraphs whose first bounding region is
// on the given page, in document order
func (a *AnalyzeResult) ParagraphsOnPage(pageNumber int) []Paragraph {
	var out []Paragraph
	for _, p := range a.Paragraphs {
		if p.PageNumber() == pageNumber {
			out = append(out, p)
		}
	}
	return out
}

// TablesOnPage returns the tables whose first bounding region is on the
// given page, in document order
func (a *AnalyzeResult) TablesOnPage(pageNumber int) []Table {
	var out []Table
	for _, t := range a.Tables {
		if t.PageNumber() == pageNumber {
			out = append(out, t)
		}
	}
	return out
}

// Text returns the slice of the content string addressed by a span,
// clamped to the content bounds
func (a *AnalyzeResult) Text(s Span) string {
	runes := []rune(a.Content)
	start, end := s.Offset, s.End()
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		start = end
	}
	return string(runes[start:end])
}
