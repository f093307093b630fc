package render

import (
	"encoding/json"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/gardar/ocrlayout/pkg/layout"
)

// BlockKind identifies the variant of a Block
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockTable
)

// String returns a string representation of the block kind
func (k BlockKind) String() string {
	if k == BlockTable {
		return "table"
	}
	return "text"
}

// Block is one unit of rendered page content: *TextBlock or *TableBlock
type Block interface {
	Kind() BlockKind
	block()
}

// TextBlock is the rendered form of a run of consecutive paragraphs
type TextBlock struct {
	// Paragraphs is how many source paragraphs were merged into the block
	Paragraphs int            `json:"paragraphs"`
	Content    layout.Content `json:"content"`
}

// Kind implements Block
func (*TextBlock) Kind() BlockKind { return BlockText }
func (*TextBlock) block()          {}

// MarshalJSON tags the block with its kind
func (b *TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{Type: BlockText.String(), alias: (*alias)(b)})
}

// TableBlock is a rendered table grid
type TableBlock struct {
	Polygon geometry.Polygon `json:"polygon"`
	Rows    []TableRow       `json:"rows"`
}

// Kind implements Block
func (*TableBlock) Kind() BlockKind { return BlockTable }
func (*TableBlock) block()          {}

// MarshalJSON tags the block with its kind
func (b *TableBlock) MarshalJSON() ([]byte, error) {
	type alias TableBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{Type: BlockTable.String(), alias: (*alias)(b)})
}

// TableRow is one row container
type TableRow struct {
	Index int         `json:"index"`
	Cells []TableCell `json:"cells"`
}

// TableCell carries the source spans verbatim and the rendered content
type TableCell struct {
	RowIndex    int               `json:"rowIndex"`
	ColumnIndex int               `json:"columnIndex"`
	RowSpan     int               `json:"rowSpan"`
	ColSpan     int               `json:"colSpan"`
	Kind        analysis.CellKind `json:"kind"`
	Header      bool              `json:"header"`
	Content     layout.Content    `json:"content"`
}

// Page is the rendered content of one page
type Page struct {
	Number int     `json:"pageNumber"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
	Blocks []Block `json:"blocks"`

	// Err is set when the page could not be rendered; Blocks is then empty
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Document is the rendered content of an analysis result
type Document struct {
	Status string `json:"status"`
	Pages  []Page `json:"pages"`
}

// Blocks returns the blocks of every page in page order
func (d *Document) Blocks() []Block {
	var out []Block
	for _, p := range d.Pages {
		out = append(out, p.Blocks...)
	}
	return out
}
