package hocr

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"trim": strings.TrimSpace,
	"esc":  html.EscapeString,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// WriteHOCRDocument writes doc as an XHTML hOCR document to w
func WriteHOCRDocument(w io.Writer, doc *HOCR) error {
	if doc == nil {
		return errors.New("no hOCR document to write")
	}
	if err := hocrTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return nil
}

// GenerateHOCRDocument renders doc to a string
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	var buf bytes.Buffer
	if err := WriteHOCRDocument(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
