package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/analysis"
)

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText []rune) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	result := strings.Builder{}
	total := len(fullText)

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		result.WriteString(string(fullText[start:end]))
	}
	return result.String()
}

// spansFromLayout converts text anchor segments to spans
func spansFromLayout(layout *documentaipb.Document_Page_Layout) []analysis.Span {
	if layout == nil || layout.TextAnchor == nil {
		return nil
	}
	spans := make([]analysis.Span, 0, len(layout.TextAnchor.TextSegments))
	for _, seg := range layout.TextAnchor.TextSegments {
		spans = append(spans, analysis.Span{
			Offset: int(seg.StartIndex),
			Length: int(seg.EndIndex - seg.StartIndex),
		})
	}
	return spans
}

// firstSpan returns the first segment of a layout, or nil
func firstSpan(layout *documentaipb.Document_Page_Layout) *analysis.Span {
	spans := spansFromLayout(layout)
	if len(spans) == 0 {
		return nil
	}
	return &spans[0]
}
