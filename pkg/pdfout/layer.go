package pdfout

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/ocrlayout/pkg/hocr"
)

// drawTextLayer draws the words of an hOCR page onto their own layer.
// The pageNum parameter is used to create unique layer names for each page.
func drawTextLayer(
	pdf *fpdf.Fpdf,
	page hocr.Page,
	cfg Config,
	pageNum int,
	transform func(x, y float64) (float64, float64),
) error {
	layer := pdf.AddLayer(fmt.Sprintf("%s (Page %d)", cfg.LayerName, pageNum), true)
	pdf.BeginLayer(layer)
	pdf.SetFont(cfg.Font.Name, cfg.Font.Style, cfg.Font.Size)

	if cfg.Debug {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	encodingErrors := 0
	words := page.Words()
	for _, word := range words {
		if !drawWord(pdf, word, transform, cfg) {
			encodingErrors++
		}
	}

	if !cfg.Debug {
		pdf.SetAlpha(1.0, "Normal")
	}
	pdf.EndLayer()

	if len(words) > 0 && encodingErrors > len(words)/10 {
		return fmt.Errorf("%w in %d of %d words", ErrEncoding, encodingErrors, len(words))
	}
	return nil
}

// drawWord renders a single word scaled to its box. It reports false when
// the text could not be represented in Latin-1.
func drawWord(pdf *fpdf.Fpdf, word hocr.Word, transform func(x, y float64) (float64, float64), cfg Config) bool {
	x, y := transform(word.BBox.X1, word.BBox.Y1)
	x2, y2 := transform(word.BBox.X2, word.BBox.Y2)
	wordWidth := x2 - x

	text, ok := latin1(word.Text)

	strWidth := pdf.GetStringWidth(text)
	if strWidth > 0 && wordWidth > 0 {
		pdf.SetFontSize(cfg.Font.Size * wordWidth / strWidth)
	}

	fontSize, _ := pdf.GetFontSize()
	baseline := y + fontSize*cfg.Font.AscentRatio

	pdf.Text(x, baseline, text)
	pdf.SetFontSize(cfg.Font.Size)

	if cfg.Debug {
		pdf.Rect(x, y, wordWidth, y2-y, "D")
	}
	return ok
}
