package render

import (
	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/layout"
)

// RenderTable renders a table found on page.
//
// Cells are grouped into rows by consecutive row index, so they must be
// supplied in row-major order; they are not re-sorted. Each cell's content
// is built from the words and selection marks whose spans fall inside any
// of the cell's spans. Row and column spans are copied verbatim.
func RenderTable(table analysis.Table, page *analysis.Page, opts Options) *TableBlock {
	opts = opts.withDefaults()
	return renderTable(table, newPageContext(page, opts))
}

func renderTable(table analysis.Table, pc *pageContext) *TableBlock {
	block := &TableBlock{}
	block.Polygon, _ = table.Polygon()

	for _, cell := range table.Cells {
		if n := len(block.Rows); n == 0 || block.Rows[n-1].Index != cell.RowIndex {
			block.Rows = append(block.Rows, TableRow{Index: cell.RowIndex})
		}
		row := &block.Rows[len(block.Rows)-1]
		row.Cells = append(row.Cells, renderCell(cell, pc))
	}

	return block
}

func renderCell(cell analysis.TableCell, pc *pageContext) TableCell {
	elements := pc.wordElements(cell.ContainsSpan)
	elements = append(elements, pc.selectionElements(cell.ContainsSpan)...)

	return TableCell{
		RowIndex:    cell.RowIndex,
		ColumnIndex: cell.ColumnIndex,
		RowSpan:     cell.RowSpan,
		ColSpan:     cell.ColumnSpan,
		Kind:        cell.Kind,
		Header:      cell.Kind.IsHeader(),
		Content:     layout.Render(elements, pc.opts.Layout),
	}
}
