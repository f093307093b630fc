package analysis

import (
	"github.com/gardar/ocrlayout/pkg/geometry"
)

// StatusSucceeded is the only status whose results are rendered
const StatusSucceeded = "succeeded"

// Result is the envelope returned by a layout analysis service
type Result struct {
	Status              string         `json:"status"`
	// Timestamps are kept as sent; rendering does not read them
	CreatedDateTime     string         `json:"createdDateTime,omitempty"`
	LastUpdatedDateTime string         `json:"lastUpdatedDateTime,omitempty"`
	AnalyzeResult       *AnalyzeResult `json:"analyzeResult,omitempty"`
}

// Succeeded reports whether the analysis finished and carries content
func (r *Result) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded && r.AnalyzeResult != nil
}

// AnalyzeResult holds the document level content of an analysis
type AnalyzeResult struct {
	APIVersion string      `json:"apiVersion,omitempty"`
	ModelID    string      `json:"modelId,omitempty"`
	Content    string      `json:"content"`
	Pages      []Page      `json:"pages"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Tables     []Table     `json:"tables"`
}

// Span addresses a range of the document's flat content string
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End returns the offset one past the last character
func (s Span) End() int {
	return s.Offset + s.Length
}

// Contains reports whether other lies completely inside s
func (s Span) Contains(other Span) bool {
	return s.Offset <= other.Offset && other.End() <= s.End()
}

// BoundingRegion locates an element on one page
type BoundingRegion struct {
	PageNumber int              `json:"pageNumber"`
	Polygon    geometry.Polygon `json:"polygon"`
}

// Page is one analysed page with its words and selection marks
type Page struct {
	PageNumber     int             `json:"pageNumber"`
	Angle          float64         `json:"angle,omitempty"`
	Width          float64         `json:"width"`
	Height         float64         `json:"height"`
	Unit           string          `json:"unit"`
	Words          []Word          `json:"words"`
	SelectionMarks []SelectionMark `json:"selectionMarks,omitempty"`
	Lines          []Line          `json:"lines,omitempty"`
	Spans          []Span          `json:"spans,omitempty"`
}

// Word is a single recognized word
type Word struct {
	Content    string           `json:"content"`
	Polygon    geometry.Polygon `json:"polygon"`
	Span       *Span            `json:"span,omitempty"`
	Confidence float64          `json:"confidence,omitempty"`
}

// SelectionState is the detected state of a checkbox-like mark
type SelectionState string

const (
	Selected   SelectionState = "selected"
	Unselected SelectionState = "unselected"
)

// SelectionMark is a detected checkbox
type SelectionMark struct {
	State      SelectionState   `json:"state"`
	Polygon    geometry.Polygon `json:"polygon"`
	Span       *Span            `json:"span,omitempty"`
	Confidence float64          `json:"confidence,omitempty"`
}

// Line is a text line as reported by the analysis service. Rendering
// does not use it; lines are rebuilt from word geometry.
type Line struct {
	Content string           `json:"content"`
	Polygon geometry.Polygon `json:"polygon"`
	Spans   []Span           `json:"spans,omitempty"`
}

// Role is the semantic role of a paragraph. Body text has no role.
type Role string

const (
	RoleBody           Role = ""
	RoleTitle          Role = "title"
	RoleSectionHeading Role = "sectionHeading"
	RoleFootnote       Role = "footnote"
	RolePageHeader     Role = "pageHeader"
	RolePageFooter     Role = "pageFooter"
	RolePageNumber     Role = "pageNumber"
)

// Paragraph is a run of text with a shared role
type Paragraph struct {
	Role            Role             `json:"role,omitempty"`
	Content         string           `json:"content"`
	Spans           []Span           `json:"spans"`
	BoundingRegions []BoundingRegion `json:"boundingRegions"`
}

// Polygon returns the polygon of the first bounding region
func (p Paragraph) Polygon() (geometry.Polygon, bool) {
	return firstPolygon(p.BoundingRegions)
}

// PageNumber returns the page of the first bounding region, 0 if none
func (p Paragraph) PageNumber() int {
	return firstPage(p.BoundingRegions)
}

// CellKind distinguishes header cells from body cells
type CellKind string

const (
	CellContent      CellKind = "content"
	CellColumnHeader CellKind = "columnHeader"
	CellRowHeader    CellKind = "rowHeader"
	CellStub         CellKind = "stubHead"
	CellDescription  CellKind = "description"
)

// IsHeader reports whether the cell renders as a header cell
func (k CellKind) IsHeader() bool {
	return k == CellColumnHeader || k == CellRowHeader
}

// TableCell is one cell of a table grid
type TableCell struct {
	Kind            CellKind         `json:"kind,omitempty"`
	RowIndex        int              `json:"rowIndex"`
	ColumnIndex     int              `json:"columnIndex"`
	RowSpan         int              `json:"rowSpan,omitempty"`
	ColumnSpan      int              `json:"columnSpan,omitempty"`
	Content         string           `json:"content"`
	Spans           []Span           `json:"spans"`
	BoundingRegions []BoundingRegion `json:"boundingRegions"`
}

// Polygon returns the polygon of the first bounding region
func (c TableCell) Polygon() (geometry.Polygon, bool) {
	return firstPolygon(c.BoundingRegions)
}

// ContainsSpan reports whether s lies inside any of the cell's spans
func (c TableCell) ContainsSpan(s Span) bool {
	for _, cs := range c.Spans {
		if cs.Contains(s) {
			return true
		}
	}
	return false
}

// Table is a detected table. Cells are listed in row-major order.
type Table struct {
	RowCount        int              `json:"rowCount"`
	ColumnCount     int              `json:"columnCount"`
	Cells           []TableCell      `json:"cells"`
	BoundingRegions []BoundingRegion `json:"boundingRegions"`
	Spans           []Span           `json:"spans,omitempty"`
}

// Polygon returns the polygon of the first bounding region
func (t Table) Polygon() (geometry.Polygon, bool) {
	return firstPolygon(t.BoundingRegions)
}

// PageNumber returns the page of the first bounding region, 0 if none
func (t Table) PageNumber() int {
	return firstPage(t.BoundingRegions)
}

func firstPolygon(regions []BoundingRegion) (geometry.Polygon, bool) {
	if len(regions) == 0 || regions[0].Polygon.IsZero() {
		return geometry.Polygon{}, false
	}
	return regions[0].Polygon, true
}

func firstPage(regions []BoundingRegion) int {
	if len(regions) == 0 {
		return 0
	}
	return regions[0].PageNumber
}
