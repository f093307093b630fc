package textout

import (
	"bytes"
	"testing"

	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/render"
)

func content(lines ...[]layout.Run) layout.Content {
	var c layout.Content
	for _, runs := range lines {
		c.Lines = append(c.Lines, layout.RenderedLine{Runs: runs})
	}
	return c
}

func words(s string) []layout.Run {
	return []layout.Run{{Kind: layout.RunText, Text: s}}
}

func cell(s string, header bool, colSpan int) render.TableCell {
	return render.TableCell{RowSpan: 1, ColSpan: colSpan, Header: header, Content: content(words(s))}
}

func TestTable(t *testing.T) {
	table := &render.TableBlock{Rows: []render.TableRow{
		{Index: 0, Cells: []render.TableCell{cell("Name ", true, 1), cell("Value ", true, 1)}},
		{Index: 1, Cells: []render.TableCell{cell("a|b ", false, 1), cell("1 ", false, 1)}},
		{Index: 2, Cells: []render.TableCell{cell("total ", false, 2)}},
	}}

	want := "| Name | Value |\n" +
		"|---|---|\n" +
		"| a\\|b | 1 |\n" +
		"| total |  |\n"
	if got := Table(table); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestTable_NoHeader(t *testing.T) {
	table := &render.TableBlock{Rows: []render.TableRow{
		{Cells: []render.TableCell{cell("x ", false, 1), cell("y ", true, 1)}},
	}}
	if got := Table(table); got != "| x | y |\n" {
		t.Errorf("Expected a single row without separator, got %q", got)
	}
}

func TestText(t *testing.T) {
	checked := []layout.Run{{Kind: layout.RunCheckbox, Checked: true}, {Kind: layout.RunText, Text: "Agree "}}
	doc := &render.Document{Pages: []render.Page{
		{Number: 1, Blocks: []render.Block{
			&render.TextBlock{Content: content(words("Hello world "), checked)},
			&render.TableBlock{Rows: []render.TableRow{{Cells: []render.TableCell{cell("a ", false, 1)}}}},
		}},
		{Number: 2, Blocks: []render.Block{
			&render.TextBlock{Content: content(words("Bye "))},
		}},
	}}

	want := "Hello world\n[x] Agree\n\n| a |\n\n" + PageSeparator + "Bye\n\n"
	if got := Text(doc); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatalf("Failed to write text: %v", err)
	}
	if buf.String() != want {
		t.Errorf("Expected written text to match, got %q", buf.String())
	}
}

func TestText_SkipsEmptyBlocks(t *testing.T) {
	doc := &render.Document{Pages: []render.Page{{Blocks: []render.Block{
		&render.TextBlock{},
		&render.TextBlock{Content: content(words("x "))},
	}}}}
	if got := Text(doc); got != "x\n\n" {
		t.Errorf("Expected %q, got %q", "x\n\n", got)
	}
}
