package pdfout

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// normalizeCoords rescales hOCR bounding box coordinates to PDF coordinates
func normalizeCoords(x, y, hocrW, hocrH, pdfW, pdfH float64) (float64, float64) {
	if hocrW <= 0 || hocrH <= 0 {
		return x, y
	}
	return x / hocrW * pdfW, y / hocrH * pdfH
}

// latin1 converts text to ISO-8859-1, which the core PDF fonts expect.
// Characters outside the charset become '?' and ok is false.
func latin1(s string) (out string, ok bool) {
	enc := charmap.ISO8859_1.NewEncoder()
	out, err := enc.String(s)
	if err == nil {
		return out, true
	}
	replaced := strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
	out, _ = enc.String(replaced)
	return out, false
}
