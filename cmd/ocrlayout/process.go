package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/pdfout"
	"github.com/gardar/ocrlayout/pkg/render"
)

func newProcessCmd(a *app) *cobra.Command {
	var out outputs
	var debugAPI, analysisPath, searchable string

	cmd := &cobra.Command{
		Use:   "process <input.pdf> [page.pdf...]",
		Short: "Process PDFs with Document AI and render the result",
		Long: "Process a PDF with Google Document AI. When several PDFs are given each is\n" +
			"treated as one page and the results are merged into a single document.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !out.any() && debugAPI == "" && analysisPath == "" && searchable == "" {
				return errors.New("at least one output flag must be provided")
			}
			if searchable != "" && len(args) > 1 {
				return errors.New("--searchable needs a single input PDF")
			}

			inputs := make([][]byte, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(strings.TrimSpace(path))
				if err != nil {
					return fmt.Errorf("failed to read PDF file %s: %w", path, err)
				}
				inputs = append(inputs, data)
			}

			res, raw, err := analyze(cmd.Context(), a, inputs)
			if err != nil {
				return err
			}

			if debugAPI != "" {
				if raw == nil {
					a.log.Warn("Raw API response not available when processing multiple PDF files")
				} else if err := writeJSON(a, debugAPI, "API response", raw); err != nil {
					return err
				}
			}
			if analysisPath != "" {
				if err := writeJSON(a, analysisPath, "analysis", res); err != nil {
					return err
				}
			}

			doc := render.Render(res, a.cfg.RenderOptions(a.log))
			a.log.WithFields(logrus.Fields{"status": doc.Status, "pages": len(doc.Pages)}).Info("Document rendered")

			if searchable != "" {
				opts := a.cfg.HOCROptions()
				opts.Title = out.title
				pdf, err := pdfout.Overlay(inputs[0], hocr.FromDocument(doc, opts), a.cfg.PDFOptions(a.log))
				if err != nil {
					return fmt.Errorf("failed to apply OCR to PDF: %w", err)
				}
				if err := save(a.log, searchable, "searchable PDF", pdf); err != nil {
					return err
				}
			}

			if !out.any() {
				return nil
			}
			return out.write(a, doc)
		},
	}

	out.register(cmd)
	cmd.Flags().StringVar(&debugAPI, "debug-api", "", "Path to save the raw API response as JSON")
	cmd.Flags().StringVar(&analysisPath, "analysis", "", "Path to save the converted analysis result as JSON")
	cmd.Flags().StringVar(&searchable, "searchable", "", "Path to save the input PDF with an invisible text layer")
	return cmd
}

// analyze sends the inputs to Document AI. The raw response is only
// returned for a single input.
func analyze(ctx context.Context, a *app, inputs [][]byte) (*analysis.Result, *documentaipb.Document, error) {
	if err := a.cfg.DocumentAI.Validate(); err != nil {
		return nil, nil, err
	}

	if len(inputs) == 1 {
		a.log.WithField("bytes", len(inputs[0])).Info("Processing PDF with Document AI")
		res, raw, err := gdocai.Analyze(ctx, inputs[0], &a.cfg.DocumentAI)
		if err != nil {
			return nil, nil, fmt.Errorf("error processing document: %w", err)
		}
		return res, raw, nil
	}

	a.log.WithField("pages", len(inputs)).Info("Processing PDF files as separate pages")
	res, err := gdocai.AnalyzePages(ctx, inputs, &a.cfg.DocumentAI, a.cfg.BatchOptions())
	if err != nil {
		return nil, nil, err
	}
	return res, nil, nil
}

func writeJSON(a *app, path, what string, v any) error {
	data, err := gdocai.ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to convert %s to JSON: %w", what, err)
	}
	return save(a.log, path, what, []byte(data))
}
