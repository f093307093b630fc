package render

import (
	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/sirupsen/logrus"
)

type unitKind int

const (
	unitText unitKind = iota
	unitTable
)

// unit is one entry of the composed page sequence: a paragraph or a
// table standing in for the paragraphs that sit in its cells
type unit struct {
	kind      unitKind
	paragraph analysis.Paragraph
	table     int // index into the page's tables
	polygon   geometry.Polygon
	hasPoly   bool
}

// RenderPage renders the paragraphs and tables of one page in document order
func RenderPage(ar *analysis.AnalyzeResult, page *analysis.Page, opts Options) Page {
	opts = opts.withDefaults()
	return renderPage(ar, page, opts)
}

func renderPage(ar *analysis.AnalyzeResult, page *analysis.Page, opts Options) Page {
	out := Page{
		Number: page.PageNumber,
		Width:  page.Width,
		Height: page.Height,
		Unit:   page.Unit,
		Blocks: []Block{},
	}

	pc := newPageContext(page, opts)
	tables := ar.TablesOnPage(page.PageNumber)
	units := composeUnits(ar.ParagraphsOnPage(page.PageNumber), tables, opts)

	pc.log.WithFields(logrus.Fields{
		"units":  len(units),
		"tables": len(tables),
	}).Debug("Composed page")

	for i := 0; i < len(units); {
		if units[i].kind == unitTable {
			out.Blocks = append(out.Blocks, renderTable(tables[units[i].table], pc))
			i++
			continue
		}

		j := i
		var run []analysis.Paragraph
		for j < len(units) && units[j].kind == unitText {
			run = append(run, units[j].paragraph)
			j++
		}
		out.Blocks = append(out.Blocks, renderParagraphs(run, pc))
		i = j
	}

	return out
}

// composeUnits replaces paragraphs that sit in a table cell by their
// table, emitting each table once at the position of its first paragraph.
// Tables no paragraph points into are appended after the last unit so
// their content is not lost.
func composeUnits(paragraphs []analysis.Paragraph, tables []analysis.Table, opts Options) []unit {
	var units []unit
	emitted := make(map[int]bool)

	for _, p := range paragraphs {
		if opts.excluded(p.Role) {
			opts.Logger.WithField("role", p.Role).Debug("Excluding paragraph")
			continue
		}

		poly, hasPoly := p.Polygon()
		ti := -1
		if hasPoly {
			ti = findTable(tables, poly)
		}
		if ti < 0 {
			units = append(units, unit{kind: unitText, paragraph: p, polygon: poly, hasPoly: hasPoly})
			continue
		}

		tpoly, tHasPoly := tables[ti].Polygon()
		if emitted[ti] || (tHasPoly && containsPolygon(units, tpoly)) {
			continue
		}
		emitted[ti] = true
		units = append(units, unit{kind: unitTable, table: ti, polygon: tpoly, hasPoly: tHasPoly})
	}

	for ti, t := range tables {
		if emitted[ti] {
			continue
		}
		tpoly, tHasPoly := t.Polygon()
		if tHasPoly && containsPolygon(units, tpoly) {
			continue
		}
		emitted[ti] = true
		units = append(units, unit{kind: unitTable, table: ti, polygon: tpoly, hasPoly: tHasPoly})
	}

	return units
}

// findTable returns the index of the first table with a cell whose polygon
// equals poly, or -1
func findTable(tables []analysis.Table, poly geometry.Polygon) int {
	for ti, t := range tables {
		for _, c := range t.Cells {
			if cp, ok := c.Polygon(); ok && cp == poly {
				return ti
			}
		}
	}
	return -1
}

func containsPolygon(units []unit, poly geometry.Polygon) bool {
	for _, u := range units {
		if u.hasPoly && u.polygon == poly {
			return true
		}
	}
	return false
}
