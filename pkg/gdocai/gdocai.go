// Package gdocai connects Google Document AI to the layout renderer.
//
// A PDF is sent to a Document AI OCR processor and the returned Document
// proto is converted into an analysis result: tokens become words,
// checkbox elements become selection marks and tables keep their header
// rows. The result can then be rendered like the output of any other
// layout analysis service.
//
// Main Functions:
//
// - Analyze: processes a PDF and returns the converted result with the raw proto
// - ProcessPages: processes single page PDFs concurrently under a rate limit
// - ResultFromProto: converts a Document proto that was saved earlier
// - MergeResults: joins per page results into one document
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or an explicit credentials file
package gdocai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/analysis"
)

// Analyze processes a PDF with Document AI and converts the response.
// It returns:
// - The converted analysis result
// - The raw Document proto, for debugging or caching
// - Any error encountered
func Analyze(ctx context.Context, pdfBytes []byte, cfg *Config) (*analysis.Result, *documentaipb.Document, error) {
	rawDoc, err := ProcessDocument(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ResultFromProto(rawDoc), rawDoc, nil
}

// AnalyzePages processes single page PDFs with one client and merges
// them into a single result
func AnalyzePages(ctx context.Context, pages [][]byte, cfg *Config, opts BatchOptions) (*analysis.Result, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	res, err := ProcessPages(ctx, client, pages, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze pages: %w", err)
	}
	return res, nil
}
