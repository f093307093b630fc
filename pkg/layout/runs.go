package layout

import (
	"strings"

	"github.com/gardar/ocrlayout/pkg/geometry"
	"github.com/sirupsen/logrus"
)

// RunKind distinguishes text runs from checkbox markers
type RunKind int

const (
	RunText RunKind = iota
	RunCheckbox
)

// Run is one rendered piece of a line: either concatenated words or a
// single checkbox marker
type Run struct {
	Kind    RunKind `json:"kind"`
	Text    string  `json:"text,omitempty"`
	Checked bool    `json:"checked,omitempty"`
}

// Runs renders the line. Consecutive words join into one text run, each
// followed by a single space; checkboxes become standalone runs between
// text runs. Elements of unknown type are skipped and logged.
func (l Line) Runs(logger logrus.FieldLogger) []Run {
	var runs []Run
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			runs = append(runs, Run{Kind: RunText, Text: buf.String()})
			buf.Reset()
		}
	}

	for _, e := range l.Elements {
		switch e.Type {
		case ElementWord:
			buf.WriteString(e.Content)
			buf.WriteString(" ")
		case ElementCheckbox:
			flush()
			runs = append(runs, Run{Kind: RunCheckbox, Checked: e.Checked()})
		default:
			if logger != nil {
				logger.WithError(ErrUnrecognizedElement).WithFields(logrus.Fields{
					"type":    e.Type.String(),
					"content": e.Content,
				}).Warn("Skipping element")
			}
		}
	}
	flush()

	return runs
}

// Polygon returns the bounding union of the line's elements
func (l Line) Polygon() geometry.Polygon {
	polygons := make([]geometry.Polygon, 0, len(l.Elements))
	for _, e := range l.Elements {
		polygons = append(polygons, e.Polygon)
	}
	union, _ := geometry.BoundingUnion(polygons...)
	return union
}

// RenderedLine is a line together with its rendered runs
type RenderedLine struct {
	Line
	Runs []Run `json:"runs"`
}

// Content is the rendered form of a set of elements: ordered lines,
// each with its runs
type Content struct {
	Lines []RenderedLine `json:"lines"`
}

// Wrapped reports whether each line should be emitted as its own
// paragraph unit. A single line is emitted directly.
func (c Content) Wrapped() bool {
	return len(c.Lines) > 1
}

// Empty reports whether nothing was rendered
func (c Content) Empty() bool {
	return len(c.Lines) == 0
}

// Runs returns all runs in order, ignoring line boundaries
func (c Content) Runs() []Run {
	var out []Run
	for _, l := range c.Lines {
		out = append(out, l.Runs...)
	}
	return out
}

// Text renders the content as plain text: runs joined as written,
// checkboxes as [x] / [ ], lines separated by newlines
func (c Content) Text() string {
	lines := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		var sb strings.Builder
		for _, r := range l.Runs {
			switch r.Kind {
			case RunCheckbox:
				if r.Checked {
					sb.WriteString("[x] ")
				} else {
					sb.WriteString("[ ] ")
				}
			default:
				sb.WriteString(r.Text)
			}
		}
		lines = append(lines, strings.TrimSpace(sb.String()))
	}
	return strings.Join(lines, "\n")
}

// Render groups the elements into lines and renders each line
func Render(elements []Element, opts Options) Content {
	logger := opts.logger()
	lines := Group(elements, opts)

	content := Content{Lines: make([]RenderedLine, 0, len(lines))}
	for _, l := range lines {
		content.Lines = append(content.Lines, RenderedLine{Line: l, Runs: l.Runs(logger)})
	}
	return content
}
