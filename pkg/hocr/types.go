package hocr

import (
	"fmt"
	"math"
)

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title    string // Document title
	Language string // Document language
	System   string // Producing OCR system
	Pages    []Page // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string
	PageNumber int         // Page number in document (ppageno is zero based)
	ImageName  string      // Source image filename
	BBox       BoundingBox // Page coordinates
	Areas      []Area      // Content areas in reading order
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Title returns the hOCR title attribute of the page
func (p Page) Title() string {
	t := ""
	if p.ImageName != "" {
		t = fmt.Sprintf("image %q; ", p.ImageName)
	}
	return t + fmt.Sprintf("%s; ppageno %d", p.BBox, p.PageNumber-1)
}

// Area is a content area: a text region or a table
// Corresponds to hOCR element with class: 'ocr_carea' or 'ocr_table'
type Area struct {
	ID         string
	Table      bool
	BBox       BoundingBox
	Paragraphs []Paragraph // For tables, one paragraph per cell
}

// Class returns 'ocr_table' for tables and 'ocr_carea' otherwise
func (a Area) Class() string {
	if a.Table {
		return "ocr_table"
	}
	return "ocr_carea"
}

// Paragraph represents a paragraph within an area, or a table cell
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string
	BBox  BoundingBox
	Lines []Line
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID    string
	BBox  BoundingBox
	Words []Word
}

// Class assign 'ocr_line' to 'Line' struct
func (Line) Class() string { return "ocr_line" }

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // Recognition confidence (0-100), 0 when unknown
	Checkbox   bool    // Word stands for a selection mark
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// Title returns the hOCR title attribute of the word
func (w Word) Title() string {
	t := w.BBox.String()
	if w.Confidence > 0 {
		t += fmt.Sprintf("; x_wconf %d", int(math.Round(w.Confidence)))
	}
	if w.Checkbox {
		t += "; x_checkbox 1"
	}
	return t
}

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the top-left (x1, y1) and
// bottom-right (x2, y2) corners
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// String formats the box as an hOCR bbox property with integer coordinates
func (b BoundingBox) String() string {
	return fmt.Sprintf("bbox %d %d %d %d",
		int(math.Round(b.X1)), int(math.Round(b.Y1)),
		int(math.Round(b.X2)), int(math.Round(b.Y2)))
}

// Union returns the smallest box covering b and o. A zero box is ignored.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b == (BoundingBox{}) {
		return o
	}
	if o == (BoundingBox{}) {
		return b
	}
	return BoundingBox{
		X1: math.Min(b.X1, o.X1),
		Y1: math.Min(b.Y1, o.Y1),
		X2: math.Max(b.X2, o.X2),
		Y2: math.Max(b.Y2, o.Y2),
	}
}
