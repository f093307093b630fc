package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/pdfout"
)

func newOverlayCmd(a *app) *cobra.Command {
	var hocrPath, pdfPath, outputPath, textPath string
	var startPage int
	var debug, force, overwrite bool

	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Add an invisible hOCR text layer to an existing PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hocrPath == "" || pdfPath == "" {
				return errors.New("--hocr and --pdf are required")
			}
			if outputPath == "" && textPath == "" {
				return errors.New("at least one of --output or --text must be provided")
			}
			if outputPath != "" && outputPath != "-" && !overwrite {
				if _, err := os.Stat(outputPath); err == nil {
					return fmt.Errorf("output file %s already exists, use --overwrite to replace it", outputPath)
				}
			}

			data, err := os.ReadFile(hocrPath)
			if err != nil {
				return fmt.Errorf("failed to read hOCR file: %w", err)
			}
			doc, err := hocr.ParseHOCR(data)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"hocr": hocrPath, "pages": len(doc.Pages)}).Debug("hOCR parsed")

			if textPath != "" {
				if err := save(a.log, textPath, "text", []byte(hocr.ExtractHOCRText(doc))); err != nil {
					return err
				}
			}
			if outputPath == "" {
				return nil
			}

			input, err := os.ReadFile(pdfPath)
			if err != nil {
				return fmt.Errorf("failed to read input PDF: %w", err)
			}

			cfg := a.cfg.PDFOptions(a.log)
			cfg.StartPage = startPage
			cfg.Debug = cfg.Debug || debug
			cfg.Force = cfg.Force || force

			pdf, err := pdfout.Overlay(input, doc, cfg)
			if err != nil {
				return fmt.Errorf("error applying OCR to existing PDF: %w", err)
			}
			return save(a.log, outputPath, "OCR-enhanced PDF", pdf)
		},
	}

	cmd.Flags().StringVar(&hocrPath, "hocr", "", "Path to a multi-page hOCR file")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Path to the PDF to add the text layer to")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output PDF path")
	cmd.Flags().StringVar(&textPath, "text", "", "Path to save the hOCR text")
	cmd.Flags().IntVar(&startPage, "start-page", 1, "First PDF page the hOCR pages apply to (1-based)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Draw the text layer visibly with word boxes")
	cmd.Flags().BoolVar(&force, "force", false, "Apply the layer even if one is already present")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite the output PDF if it already exists")
	return cmd
}
