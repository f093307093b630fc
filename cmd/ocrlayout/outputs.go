package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/htmlout"
	"github.com/gardar/ocrlayout/pkg/pdfout"
	"github.com/gardar/ocrlayout/pkg/render"
	"github.com/gardar/ocrlayout/pkg/textout"
)

// outputs holds the destinations of a rendered document. "-" writes to stdout.
type outputs struct {
	html  string
	hocr  string
	text  string
	pdf   string
	json  string
	title string
}

func (o *outputs) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.html, "html", "", "Path to save HTML output")
	cmd.Flags().StringVar(&o.hocr, "hocr", "", "Path to save hOCR output")
	cmd.Flags().StringVar(&o.text, "text", "", "Path to save plain text output")
	cmd.Flags().StringVar(&o.pdf, "pdf", "", "Path to save a typeset PDF")
	cmd.Flags().StringVar(&o.json, "json", "", "Path to save the rendered document as JSON")
	cmd.Flags().StringVar(&o.title, "title", "", "Document title for HTML and hOCR output")
}

func (o *outputs) any() bool {
	return o.html != "" || o.hocr != "" || o.text != "" || o.pdf != "" || o.json != ""
}

// write renders doc to every requested destination
func (o *outputs) write(a *app, doc *render.Document) error {
	var errs []error
	for _, p := range doc.Pages {
		if p.Err != nil {
			a.log.WithError(p.Err).WithField("page", p.Number).Warn("Page could not be rendered")
		}
	}

	if o.html != "" {
		var buf bytes.Buffer
		if err := htmlout.Render(&buf, doc, htmlout.Options{Title: o.title, Lang: a.cfg.HOCR.Language}); err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, save(a.log, o.html, "HTML", buf.Bytes()))
		}
	}

	if o.hocr != "" {
		opts := a.cfg.HOCROptions()
		opts.Title = o.title
		html, err := hocr.GenerateHOCRDocument(hocr.FromDocument(doc, opts))
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, save(a.log, o.hocr, "hOCR", []byte(html)))
		}
	}

	if o.text != "" {
		errs = append(errs, save(a.log, o.text, "text", []byte(textout.Text(doc))))
	}

	if o.pdf != "" {
		data, err := pdfout.Typeset(doc, a.cfg.PDFOptions(a.log))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to typeset PDF: %w", err))
		} else {
			errs = append(errs, save(a.log, o.pdf, "PDF", data))
		}
	}

	if o.json != "" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to marshal document: %w", err))
		} else {
			errs = append(errs, save(a.log, o.json, "document JSON", data))
		}
	}

	return errors.Join(errs...)
}

// save writes data to path, or to stdout when path is "-"
func save(log logrus.FieldLogger, path, what string, data []byte) error {
	if path == "-" {
		_, err := io.Copy(os.Stdout, bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s output: %w", what, err)
	}
	log.WithField("path", path).Infof("%s output saved", what)
	return nil
}
