package pdfout

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

var ocgName = regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(`)

// DetectLayers returns the names of the optional content groups (layers)
// declared in raw PDF data, in order of appearance and without duplicates
func DetectLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, ErrEmptyInput
	}

	var layers []string
	seen := make(map[string]bool)
	for _, loc := range ocgName.FindAllIndex(pdfData, -1) {
		// loc[1] is just past the opening parenthesis
		name := decodeText(readLiteral(pdfData[loc[1]:]))
		if !seen[name] {
			seen[name] = true
			layers = append(layers, name)
		}
	}
	return layers, nil
}

// LayerCheckResult contains the results of checking for text layers
type LayerCheckResult struct {
	Layers    []string // All detected layers
	HasLayer  bool     // True if a layer with the configured name exists
	LayerName string   // Name of the matching layer (if any)
	Warnings  []string // Layers that look like OCR text from another tool
}

// CheckLayers looks for an existing text layer named layerName, with or
// without a "(Page N)" suffix
func CheckLayers(pdfData []byte, layerName string) (LayerCheckResult, error) {
	result := LayerCheckResult{}

	layers, err := DetectLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}
	result.Layers = layers

	pageLayer := regexp.MustCompile(fmt.Sprintf(`^%s\s*\(Page\s*\d+`, regexp.QuoteMeta(layerName)))
	for _, layer := range layers {
		if layer == layerName || pageLayer.MatchString(layer) {
			result.HasLayer = true
			result.LayerName = layer
			break
		}
		if strings.Contains(strings.ToLower(layer), "ocr") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("existing layer might contain OCR text: %s", layer))
		}
	}

	return result, nil
}

// readLiteral reads the body of a PDF literal string up to its balancing
// closing parenthesis, resolving escapes
func readLiteral(b []byte) []byte {
	var out bytes.Buffer
	depth := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '\\':
			if i+1 >= len(b) {
				return out.Bytes()
			}
			i++
			switch e := b[i]; e {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b':
				out.WriteByte('\b')
			case 'f':
				out.WriteByte('\f')
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && i+1 < len(b) && b[i+1] >= '0' && b[i+1] <= '7'; k++ {
						i++
						v = v*8 + int(b[i]-'0')
					}
					out.WriteByte(byte(v))
					continue
				}
				out.WriteByte(e)
			}
		case '(':
			depth++
			out.WriteByte(c)
		case ')':
			if depth == 0 {
				return out.Bytes()
			}
			depth--
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}

// decodeText decodes a PDF text string: UTF-16BE with a byte order mark,
// or PDFDocEncoding treated as Latin-1
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
		units := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
