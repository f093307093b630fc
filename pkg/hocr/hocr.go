// Package hocr implements generation and parsing of hOCR, the HTML-based
// standard format for representing OCR results.
//
// This package provides:
//
// - An object model of the hOCR hierarchy
// - Conversion of rendered documents into that model, keeping the
// detected reading order of lines and words
// - Functions for generating hOCR HTML from the model
// - Functions for parsing hOCR HTML back into the model
//
// The hierarchy follows the hOCR format:
// Document → Pages → Areas (ocr_carea, ocr_table) → Paragraphs → Lines → Words.
//
// Main Functions:
//
// - FromDocument: Builds the object model from a rendered document
// - GenerateHOCRDocument: Generates hOCR HTML from the object model
// - ParseHOCR: Parses hOCR HTML into the object model
// - ExtractHOCRText: Returns the plain text of a document
package hocr
