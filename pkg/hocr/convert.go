package hocr

import (
	"fmt"
	"math"

	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/render"
)

// DefaultDPI converts inch based coordinates to pixels
const DefaultDPI = 300

// Options configures FromDocument
type Options struct {
	Title    string
	Language string
	System   string
	// DPI scales pages measured in inches; pixel pages are kept as is
	DPI float64
}

// DefaultOptions returns the default conversion settings
func DefaultOptions() Options {
	return Options{
		Language: "en",
		System:   "ocrlayout",
		DPI:      DefaultDPI,
	}
}

// FromDocument converts a rendered document into the hOCR object model.
// Each block becomes an area; tables become ocr_table areas with one
// paragraph per cell. Lines and words keep their rendered order and
// checkboxes become words marked as such.
func FromDocument(doc *render.Document, opts Options) *HOCR {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}

	out := &HOCR{Title: opts.Title, Language: opts.Language, System: opts.System}
	for _, p := range doc.Pages {
		b := newPageBuilder(p, opts)
		out.Pages = append(out.Pages, b.page())
	}
	return out
}

// pageBuilder numbers the elements of one page
type pageBuilder struct {
	src   render.Page
	scale float64
	seq   map[string]int
}

func newPageBuilder(p render.Page, opts Options) *pageBuilder {
	scale := 1.0
	if p.Unit == "inch" {
		scale = opts.DPI
	}
	return &pageBuilder{src: p, scale: scale, seq: make(map[string]int)}
}

func (b *pageBuilder) id(kind string) string {
	b.seq[kind]++
	return fmt.Sprintf("%s_%d_%d", kind, b.src.Number, b.seq[kind])
}

func (b *pageBuilder) box(p geometry.Polygon) BoundingBox {
	if p.IsZero() {
		return BoundingBox{}
	}
	lo, hi := p.Scale(b.scale, b.scale).Bounds()
	return pixelBox(lo.X, lo.Y, hi.X, hi.Y)
}

// pixelBox rounds corners to whole pixels, as hOCR bbox values are integers
func pixelBox(x1, y1, x2, y2 float64) BoundingBox {
	return NewBoundingBox(math.Round(x1), math.Round(y1), math.Round(x2), math.Round(y2))
}

func (b *pageBuilder) page() Page {
	page := Page{
		ID:         fmt.Sprintf("page_%d", b.src.Number),
		PageNumber: b.src.Number,
		BBox:       pixelBox(0, 0, b.src.Width*b.scale, b.src.Height*b.scale),
	}

	for _, blk := range b.src.Blocks {
		switch blk := blk.(type) {
		case *render.TextBlock:
			par := b.paragraph(blk.Content)
			page.Areas = append(page.Areas, Area{
				ID:         b.id("block"),
				BBox:       par.BBox,
				Paragraphs: []Paragraph{par},
			})
		case *render.TableBlock:
			page.Areas = append(page.Areas, b.table(blk))
		}
	}

	return page
}

func (b *pageBuilder) table(t *render.TableBlock) Area {
	area := Area{ID: b.id("table"), Table: true, BBox: b.box(t.Polygon)}
	for _, row := range t.Rows {
		for _, c := range row.Cells {
			par := b.paragraph(c.Content)
			area.BBox = area.BBox.Union(par.BBox)
			area.Paragraphs = append(area.Paragraphs, par)
		}
	}
	return area
}

func (b *pageBuilder) paragraph(c layout.Content) Paragraph {
	par := Paragraph{ID: b.id("par")}
	for _, l := range c.Lines {
		line := Line{ID: b.id("line"), BBox: b.box(l.Polygon())}
		for _, e := range l.Elements {
			w, ok := b.word(e)
			if !ok {
				continue
			}
			line.Words = append(line.Words, w)
		}
		par.BBox = par.BBox.Union(line.BBox)
		par.Lines = append(par.Lines, line)
	}
	return par
}

func (b *pageBuilder) word(e layout.Element) (Word, bool) {
	w := Word{BBox: b.box(e.Polygon)}
	switch e.Type {
	case layout.ElementWord:
		w.Text = e.Content
	case layout.ElementCheckbox:
		w.Checkbox = true
		w.Text = "[ ]"
		if e.Checked() {
			w.Text = "[x]"
		}
	default:
		return Word{}, false
	}
	w.ID = b.id("word")
	return w, true
}
