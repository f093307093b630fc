package pdfout

import (
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/render"
)

const (
	margin        = 36.0
	pointsPerInch = 72.0
	lineSpacing   = 1.4
)

// Typeset lays out a rendered document as a new PDF, one output page per
// source page. Pages measured in inches keep their size; others use A4.
// Text blocks flow line by line and tables are drawn as bordered grids
// with bold header cells.
func Typeset(doc *render.Document, cfg Config) ([]byte, error) {
	cfg = cfg.withDefaults()

	if doc == nil || len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(cfg.Compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)

	t := &typesetter{pdf: pdf, cfg: cfg, lineHeight: cfg.Font.Size * lineSpacing}
	for _, p := range doc.Pages {
		t.page(p)
	}

	if t.encodingErrors > 0 {
		cfg.Logger.WithField("lines", t.encodingErrors).Warn("Replaced characters outside ISO-8859-1")
	}
	return output(pdf)
}

type typesetter struct {
	pdf            *fpdf.Fpdf
	cfg            Config
	lineHeight     float64
	encodingErrors int
}

func (t *typesetter) text(s string) string {
	out, ok := latin1(s)
	if !ok {
		t.encodingErrors++
	}
	return out
}

func (t *typesetter) page(p render.Page) {
	if p.Unit == "inch" && p.Width > 0 && p.Height > 0 {
		t.pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.Width * pointsPerInch, Ht: p.Height * pointsPerInch})
	} else {
		t.pdf.AddPage()
	}
	t.pdf.SetFont(t.cfg.Font.Name, t.cfg.Font.Style, t.cfg.Font.Size)

	for _, b := range p.Blocks {
		switch b := b.(type) {
		case *render.TextBlock:
			t.textBlock(b)
		case *render.TableBlock:
			t.table(b)
		}
		t.pdf.Ln(t.lineHeight / 2)
	}
}

func (t *typesetter) textBlock(b *render.TextBlock) {
	for _, l := range b.Content.Lines {
		line := layout.Content{Lines: []layout.RenderedLine{l}}
		t.pdf.MultiCell(0, t.lineHeight, t.text(line.Text()), "", "L", false)
	}
}

func (t *typesetter) table(b *render.TableBlock) {
	cols := 0
	for _, row := range b.Rows {
		n := 0
		for _, c := range row.Cells {
			n += max(c.ColSpan, 1)
		}
		cols = max(cols, n)
	}
	if cols == 0 {
		return
	}

	left, _, right, bottom := t.pdf.GetMargins()
	pageW, pageH := t.pdf.GetPageSize()
	colW := (pageW - left - right) / float64(cols)

	for _, row := range b.Rows {
		texts := make([]string, len(row.Cells))
		height := t.lineHeight
		for i, c := range row.Cells {
			texts[i] = t.text(strings.ReplaceAll(c.Content.Text(), "\n", " "))
			t.setCellFont(c.Header)
			lines := len(t.pdf.SplitText(texts[i], colW*float64(max(c.ColSpan, 1))))
			height = max(height, float64(lines)*t.lineHeight)
		}

		if t.pdf.GetY()+height > pageH-bottom {
			t.pdf.AddPageFormat("P", fpdf.SizeType{Wd: pageW, Ht: pageH})
		}

		x, y := left, t.pdf.GetY()
		for i, c := range row.Cells {
			w := colW * float64(max(c.ColSpan, 1))
			t.setCellFont(c.Header)
			t.pdf.Rect(x, y, w, height, "D")
			t.pdf.SetXY(x, y)
			t.pdf.MultiCell(w, t.lineHeight, texts[i], "", "L", false)
			x += w
		}
		t.pdf.SetXY(left, y+height)
	}
	t.setCellFont(false)
}

func (t *typesetter) setCellFont(header bool) {
	style := t.cfg.Font.Style
	if header && !strings.Contains(style, "B") {
		style += "B"
	}
	t.pdf.SetFont(t.cfg.Font.Name, style, t.cfg.Font.Size)
}
