// Package textout serializes rendered documents to plain text with tables
// written as Markdown pipe tables.
package textout

import (
	"fmt"
	"io"
	"strings"

	"github.com/gardar/ocrlayout/pkg/render"
)

// PageSeparator is written between pages
const PageSeparator = "\f"

// Text returns the plain text of a document. Blocks are separated by a
// blank line and pages by a form feed.
func Text(doc *render.Document) string {
	pages := make([]string, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		pages = append(pages, PageText(p))
	}
	return strings.Join(pages, PageSeparator)
}

// Write writes the plain text of a document to w
func Write(w io.Writer, doc *render.Document) error {
	if _, err := io.WriteString(w, Text(doc)); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}
	return nil
}

// PageText returns the plain text of one page
func PageText(p render.Page) string {
	var sb strings.Builder
	for _, b := range p.Blocks {
		var s string
		switch b := b.(type) {
		case *render.TextBlock:
			s = b.Content.Text()
		case *render.TableBlock:
			s = Table(b)
		}
		if s == "" {
			continue
		}
		sb.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Table renders a table block as a pipe table. When the first row holds
// only header cells it is followed by a separator row.
func Table(t *render.TableBlock) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range t.Rows {
		header := len(row.Cells) > 0
		sb.WriteString("|")
		for _, c := range row.Cells {
			sb.WriteString(" ")
			sb.WriteString(cellText(c))
			sb.WriteString(" |")
			for k := 1; k < c.ColSpan; k++ {
				sb.WriteString("  |")
			}
			header = header && c.Header
		}
		sb.WriteString("\n")

		if i == 0 && header {
			for _, c := range row.Cells {
				for k := 0; k < max(c.ColSpan, 1); k++ {
					sb.WriteString("|---")
				}
			}
			sb.WriteString("|\n")
		}
	}
	return sb.String()
}

func cellText(c render.TableCell) string {
	s := strings.ReplaceAll(c.Content.Text(), "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
