// ocrlayout is a command-line tool for turning layout analysis output into
// readable documents.
//
// It reads the JSON result of a layout analysis service (or a Google
// Document AI response), rebuilds each page in reading order with tables
// placed where their paragraphs are, and writes the result as HTML, hOCR,
// plain text or a typeset PDF. It can also run a PDF through Document AI
// directly and add the recognized text to it as an invisible layer.
//
// Usage:
//
//	ocrlayout render result.json --html page.html --text page.txt
//	ocrlayout process document.pdf --html document.html --searchable document_ocr.pdf
//	ocrlayout process page1.pdf page2.pdf page3.pdf --hocr combined.hocr
//	ocrlayout overlay --hocr document.hocr --pdf document.pdf --output document_ocr.pdf
//
// Configuration:
//
// Settings are read from an optional YAML file (--config) and OCRLAYOUT_*
// environment variables:
//
//	documentai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//	render:
//	  order: rtl
//	  exclude_roles: [pageHeader, pageFooter]
//
// Authentication:
//
// Document AI calls use GOOGLE_APPLICATION_CREDENTIALS or the
// documentai.credentials_file setting.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
