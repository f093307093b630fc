package render

import (
	"fmt"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Render renders every page of a succeeded analysis result.
//
// A result whose status is not succeeded yields a document without
// pages. Pages are independent and render on up to Options.Workers
// goroutines; the output keeps page order. A page that fails to render
// is left empty with Page.Err set, and the other pages still render.
func Render(res *analysis.Result, opts Options) *Document {
	opts = opts.withDefaults()

	doc := &Document{Pages: []Page{}}
	if res == nil {
		opts.Logger.Info("No analysis result to render")
		return doc
	}
	doc.Status = res.Status
	if !res.Succeeded() {
		opts.Logger.WithField("status", res.Status).Info("Analysis did not succeed, nothing to render")
		return doc
	}

	ar := res.AnalyzeResult
	doc.Pages = make([]Page, len(ar.Pages))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range ar.Pages {
		g.Go(func() error {
			doc.Pages[i] = renderPageSafe(ar, &ar.Pages[i], opts)
			return nil
		})
	}
	_ = g.Wait()

	opts.Logger.WithFields(logrus.Fields{
		"pages":  len(doc.Pages),
		"blocks": len(doc.Blocks()),
	}).Info("Rendered document")

	return doc
}

func renderPageSafe(ar *analysis.AnalyzeResult, page *analysis.Page, opts Options) (out Page) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: page %d: %v", ErrPageFailed, page.PageNumber, r)
			opts.Logger.WithError(err).Error("Failed to render page")
			out = Page{
				Number: page.PageNumber,
				Width:  page.Width,
				Height: page.Height,
				Unit:   page.Unit,
				Blocks: []Block{},
				Err:    err,
				Error:  err.Error(),
			}
		}
	}()
	return renderPage(ar, page, opts)
}
