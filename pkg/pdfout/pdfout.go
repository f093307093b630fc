// Package pdfout writes rendered documents to PDF.
//
// Two outputs are supported:
//
// - Overlay: adds an invisible, searchable text layer built from hOCR
// words on top of the pages of an existing PDF. The text is positioned
// with the word bounding boxes, so it can be selected and searched over
// the scanned image, and the layer can be toggled in compatible readers.
// - Typeset: lays out the rendered blocks of a document (paragraph lines
// and table grids) as a new, plain PDF.
//
// Text is drawn with the PDF core fonts and encoded as ISO-8859-1.
package pdfout

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/gardar/ocrlayout/pkg/hocr"
)

var (
	ErrEmptyInput  = errors.New("input PDF data is empty")
	ErrNoPages     = errors.New("document contains no pages")
	ErrLayerExists = errors.New("file already has a text layer")
	ErrEncoding    = errors.New("character encoding issues")
)

// Overlay takes an existing PDF and applies the hOCR words as a text
// layer. hOCR page i is drawn on input page i+StartPage-1, its bounding
// boxes rescaled from the hOCR page box to the PDF media box.
func Overlay(input []byte, doc *hocr.HOCR, cfg Config) ([]byte, error) {
	cfg = cfg.withDefaults()

	if len(input) == 0 {
		return nil, ErrEmptyInput
	}
	if doc == nil || len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}

	check, err := CheckLayers(input, cfg.LayerName)
	if err != nil {
		return nil, fmt.Errorf("layer detection failed: %w", err)
	}
	for _, w := range check.Warnings {
		cfg.Logger.Warn(w)
	}
	if check.HasLayer && !cfg.Force {
		return nil, fmt.Errorf("%w (layer '%s'), use force to reapply", ErrLayerExists, check.LayerName)
	} else if check.HasLayer {
		cfg.Logger.WithField("layer", check.LayerName).Warn("Reapplying text layer, the output will hold duplicate text")
	}

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetCompression(cfg.Compress)
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(input))

	for i, page := range doc.Pages {
		target := i + cfg.StartPage
		tpl := importer.ImportPageFromStream(pdf, &rs, target, "/MediaBox")
		w, h := mediaBox(importer, target, page)

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		importer.UseImportedTemplate(pdf, tpl, 0, 0, w, h)

		transform := func(x, y float64) (float64, float64) {
			return normalizeCoords(x, y, page.BBox.X2, page.BBox.Y2, w, h)
		}
		if err := drawTextLayer(pdf, page, cfg, i+1, transform); err != nil {
			cfg.Logger.WithError(err).WithField("page", target).Warn("Text layer is incomplete")
		}
	}

	return output(pdf)
}

// mediaBox returns the size of an imported page, falling back to the hOCR
// page box when the importer does not know it
func mediaBox(importer *gofpdi.Importer, pageNum int, page hocr.Page) (float64, float64) {
	if box, ok := importer.GetPageSizes()[pageNum]["/MediaBox"]; ok && box["w"] > 0 && box["h"] > 0 {
		return box["w"], box["h"]
	}
	return page.BBox.X2, page.BBox.Y2
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
