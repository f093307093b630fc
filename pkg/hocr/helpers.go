package hocr

import (
	"strings"
)

// ExtractHOCRText extracts all text from an HOCR document
// The text is ordered by page, with lines separated by newlines,
// paragraphs by a blank line and pages by a form feed
func ExtractHOCRText(hocrDoc *HOCR) string {
	var builder strings.Builder

	for i, page := range hocrDoc.Pages {
		if i > 0 {
			builder.WriteString("\f")
		}
		for _, area := range page.Areas {
			for _, para := range area.Paragraphs {
				extractParagraphText(&builder, para)
			}
		}
	}

	return builder.String()
}

// extractParagraphText writes the lines of a paragraph followed by a blank line
func extractParagraphText(builder *strings.Builder, para Paragraph) {
	if len(para.Lines) == 0 {
		return
	}
	for _, line := range para.Lines {
		words := make([]string, 0, len(line.Words))
		for _, w := range line.Words {
			words = append(words, strings.TrimSpace(w.Text))
		}
		builder.WriteString(strings.Join(words, " "))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
}

// Words returns every word of the page in reading order
func (p Page) Words() []Word {
	var out []Word
	for _, area := range p.Areas {
		for _, para := range area.Paragraphs {
			for _, line := range para.Lines {
				out = append(out, line.Words...)
			}
		}
	}
	return out
}
