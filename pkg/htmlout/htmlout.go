// Package htmlout serializes rendered documents to HTML.
//
// Text blocks become inline runs, or one <p> per line when the block spans
// several lines. Tables become <table> grids with <th> header cells and
// <td> body cells carrying rowspan and colspan. Checkboxes become
// <input type="checkbox"> elements.
package htmlout

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/render"
)

//go:embed templates/document.html.tmpl
var templateFS embed.FS

const tableStyle = "border-spacing: 0px; border-collapse: collapse;"

// Options configures the document shell
type Options struct {
	Title string
	Lang  string
}

type pageView struct {
	Number int
	Unit   string
	Body   template.HTML
}

// Render writes doc as a complete HTML document
func Render(w io.Writer, doc *render.Document, opts Options) error {
	tmpl, err := template.ParseFS(templateFS, "templates/document.html.tmpl")
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	if opts.Lang == "" {
		opts.Lang = "en"
	}
	data := struct {
		Title string
		Lang  string
		Pages []pageView
	}{Title: opts.Title, Lang: opts.Lang}

	for _, p := range doc.Pages {
		var buf bytes.Buffer
		if err := RenderBlocks(&buf, p.Blocks); err != nil {
			return fmt.Errorf("failed to render page %d: %w", p.Number, err)
		}
		// Body is produced by html.Render, which escapes all text
		data.Pages = append(data.Pages, pageView{
			Number: p.Number,
			Unit:   p.Unit,
			Body:   template.HTML(buf.String()),
		})
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return nil
}

// RenderBlocks writes the HTML fragment of a block sequence
func RenderBlocks(w io.Writer, blocks []render.Block) error {
	for _, n := range Nodes(blocks) {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("failed to render HTML node: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Nodes converts blocks to HTML nodes, one or more per block
func Nodes(blocks []render.Block) []*html.Node {
	var out []*html.Node
	for _, b := range blocks {
		switch b := b.(type) {
		case *render.TableBlock:
			out = append(out, tableNode(b))
		case *render.TextBlock:
			out = append(out, contentNodes(b.Content)...)
		}
	}
	return out
}

func tableNode(t *render.TableBlock) *html.Node {
	table := element(atom.Table, "border", "1", "style", tableStyle)
	tbody := element(atom.Tbody)
	table.AppendChild(tbody)

	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, c := range row.Cells {
			a := atom.Td
			if c.Header {
				a = atom.Th
			}
			cell := element(a,
				"rowspan", strconv.Itoa(c.RowSpan),
				"colspan", strconv.Itoa(c.ColSpan),
			)
			for _, n := range contentNodes(c.Content) {
				cell.AppendChild(n)
			}
			tr.AppendChild(cell)
		}
		tbody.AppendChild(tr)
	}

	return table
}

// contentNodes emits the runs of a single line directly and wraps each
// line in <p> otherwise
func contentNodes(c layout.Content) []*html.Node {
	if !c.Wrapped() {
		return runNodes(c.Runs())
	}

	out := make([]*html.Node, 0, len(c.Lines))
	for _, l := range c.Lines {
		p := element(atom.P)
		for _, n := range runNodes(l.Runs) {
			p.AppendChild(n)
		}
		out = append(out, p)
	}
	return out
}

func runNodes(runs []layout.Run) []*html.Node {
	out := make([]*html.Node, 0, len(runs))
	for _, r := range runs {
		if r.Kind == layout.RunCheckbox {
			attrs := []string{"type", "checkbox"}
			if r.Checked {
				attrs = append(attrs, "checked", "true")
			}
			out = append(out, element(atom.Input, attrs...))
			continue
		}
		out = append(out, &html.Node{Type: html.TextNode, Data: r.Text})
	}
	return out
}

// element creates an element node from alternating attribute keys and values
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}
