package hocr

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoPages is returned when hOCR input holds no ocr_page element
var ErrNoPages = errors.New("no ocr_page elements found in hOCR data")

// ParseHOCR converts raw hOCR data into a structured HOCR object.
// Elements missing an enclosing container (a line outside any paragraph,
// say) are attached to an implicit one. A malformed x_wconf leaves the
// word with confidence 0 rather than failing the document.
func ParseHOCR(data []byte) (*HOCR, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR HTML: %w", err)
	}

	p := &parser{out: &HOCR{}}
	p.meta(doc)
	p.walk(doc)

	if len(p.out.Pages) == 0 {
		return nil, ErrNoPages
	}
	return p.out, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// decodeCharset converts single byte encoded input to UTF-8
func decodeCharset(data []byte) ([]byte, error) {
	head := strings.ToLower(string(data[:min(len(data), 1024)]))
	i := strings.Index(head, "charset=")
	if i < 0 {
		return data, nil
	}
	name := strings.FieldsFunc(head[i+len("charset="):], func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == '/' || r == ' '
	})
	if len(name) == 0 {
		return data, nil
	}

	var enc encoding.Encoding
	switch name[0] {
	case "iso-8859-1", "latin1", "latin-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return data, nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name[0], err)
	}
	return decoded, nil
}

type parser struct {
	out *HOCR
}

// meta reads the document language and head metadata
func (p *parser) meta(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "html":
			if lang := attr(n, "lang"); lang != "" {
				p.out.Language = lang
			}
		case "title":
			if n.FirstChild != nil {
				p.out.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			if attr(n, "name") == "ocr-system" {
				p.out.System = attr(n, "content")
			}
		case "body":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.meta(c)
	}
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		class := attr(n, "class")
		title := attr(n, "title")
		bbox := BoundingBox{}
		if b := ParseBoundingBoxFromTitle(title); b != nil {
			bbox = *b
		}

		switch {
		case hasClass(class, "ocr_page"):
			p.startPage(attr(n, "id"), title, bbox)
		case hasClass(class, "ocr_carea"), hasClass(class, "ocr_table"):
			pg := p.page()
			pg.Areas = append(pg.Areas, Area{ID: attr(n, "id"), Table: hasClass(class, "ocr_table"), BBox: bbox})
		case hasClass(class, "ocr_par"):
			a := p.area()
			a.Paragraphs = append(a.Paragraphs, Paragraph{ID: attr(n, "id"), BBox: bbox})
		case hasClass(class, "ocr_line"), hasClass(class, "ocr_caption"),
			hasClass(class, "ocr_header"), hasClass(class, "ocr_textfloat"):
			par := p.paragraph()
			par.Lines = append(par.Lines, Line{ID: attr(n, "id"), BBox: bbox})
		case hasClass(class, "ocrx_word"):
			line := p.line()
			line.Words = append(line.Words, parseWord(n, title, bbox))
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *parser) startPage(id, title string, bbox BoundingBox) {
	props := ParseTitle(title)
	page := Page{ID: id, BBox: bbox, PageNumber: len(p.out.Pages) + 1}
	if v, ok := props["ppageno"]; ok && len(v) > 0 {
		if n, err := strconv.Atoi(v[0]); err == nil {
			page.PageNumber = n + 1
		}
	}
	if v, ok := props["image"]; ok && len(v) > 0 {
		page.ImageName = strings.Trim(strings.Join(v, " "), `"`)
	}
	p.out.Pages = append(p.out.Pages, page)
}

func (p *parser) page() *Page {
	if len(p.out.Pages) == 0 {
		p.startPage("", "", BoundingBox{})
	}
	return &p.out.Pages[len(p.out.Pages)-1]
}

func (p *parser) area() *Area {
	pg := p.page()
	if len(pg.Areas) == 0 {
		pg.Areas = append(pg.Areas, Area{})
	}
	return &pg.Areas[len(pg.Areas)-1]
}

func (p *parser) paragraph() *Paragraph {
	a := p.area()
	if len(a.Paragraphs) == 0 {
		a.Paragraphs = append(a.Paragraphs, Paragraph{})
	}
	return &a.Paragraphs[len(a.Paragraphs)-1]
}

func (p *parser) line() *Line {
	par := p.paragraph()
	if len(par.Lines) == 0 {
		par.Lines = append(par.Lines, Line{})
	}
	return &par.Lines[len(par.Lines)-1]
}

// parseWord reads a word element. Confidence stays 0 when x_wconf is
// missing or not a number.
func parseWord(n *html.Node, title string, bbox BoundingBox) Word {
	w := Word{ID: attr(n, "id"), BBox: bbox, Text: textContent(n)}
	props := ParseTitle(title)
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		if v, err := strconv.ParseFloat(conf[0], 64); err == nil {
			w.Confidence = v
		}
	}
	if _, ok := props["x_checkbox"]; ok {
		w.Checkbox = true
	}
	return w
}

// textContent gets all text from a node and its children
func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}

func hasClass(classes, class string) bool {
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
