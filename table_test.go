package mdtty

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pkt.systems/mdtty/internal/textwidth"
)

func TestTableAlignment(t *testing.T) {
	src := "| A | B |\n|:--|--:|\n| x | yy |\n"
	want := strings.Join([]string{
		"╭───┬────╮",
		"│ A │  B │",
		"├───┼────┤",
		"│ x │ yy │",
		"╰───┴────╯",
	}, "\n") + "\n"
	assertRender(t, src, want)
}

func TestTableWithoutAlignmentRow(t *testing.T) {
	src := "| a | b |\n| c | d |\nafter"
	want := strings.Join([]string{
		"╭───┬───╮",
		"│ a │ b │",
		"├───┼───┤",
		"│ c │ d │",
		"╰───┴───╯",
		"",
		"after",
	}, "\n") + "\n"
	assertRender(t, src, want)
}

func TestTableCenterWideAndShortRows(t *testing.T) {
	src := "| Name | Mid |\n|---|:---:|\n| 中文 | x |\n| only |\n"
	want := strings.Join([]string{
		"╭──────┬─────╮",
		"│ Name │ Mid │",
		"├──────┼─────┤",
		"│ 中文 │  x  │",
		"│ only │     │",
		"╰──────┴─────╯",
	}, "\n") + "\n"
	assertRender(t, src, want)
}

func TestTableInlineCells(t *testing.T) {
	src := "| **b** | c\\|d |\n|---|---|\n| [l](u) | \\| |\n"
	want := strings.Join([]string{
		"╭───────┬─────╮",
		"│ **b** │ c|d │",
		"├───────┼─────┤",
		"│ l (u) │ |   │",
		"╰───────┴─────╯",
	}, "\n") + "\n"
	assertRender(t, src, want)
}

func TestTableHeaderIsBold(t *testing.T) {
	out := renderWithTheme(t, "| h |\n|---|\n| v |", DefaultTheme())
	if !strings.Contains(out, "\x1b[0m\x1b[1mh\x1b[0m") {
		t.Fatalf("header not bold: %q", out)
	}
	if !strings.Contains(out, "\x1b[0m\x1b[2m╭───╮\x1b[0m") {
		t.Fatalf("border not dim: %q", out)
	}
}

func TestTableNarrowsToWidth(t *testing.T) {
	src := "| Name | Description |\n|---|---|\n| x | a very long description text |\n"
	out := renderPlainWidth(t, src, 20)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	for _, line := range lines {
		if w := textwidth.String(line); w > 20 {
			t.Fatalf("line %q is %d columns wide", line, w)
		}
	}
	flat := strings.ReplaceAll(stripBorders(out), " ", "")
	if !strings.Contains(flat, "averylongdescriptiontext") {
		t.Fatalf("wrapped cell lost text: %q", out)
	}
	if len(lines) < 7 {
		t.Fatalf("expected wrapped rows, got %d lines:\n%s", len(lines), out)
	}
}

func TestUnterminatedTable(t *testing.T) {
	out := renderPlain(t, "| a | b")
	want := "╭───┬───╮\n│ a │ b │\n╰───┴───╯\n"
	if out != want {
		t.Fatalf("unterminated table\nwant %q\n got %q", want, out)
	}
}

func TestSplitRow(t *testing.T) {
	cases := map[string][]string{
		"| a | b |":       {"a", "b"},
		"|a|b":            {"a", "b"},
		"| a \\| b | c |": {"a | b", "c"},
		"|   |":           {""},
		"| x | y \\|":     {"x", "y |"},
		"| \\* | z\\":     {"\\*", "z\\"},
	}
	for line, want := range cases {
		if diff := cmp.Diff(want, splitRow(line)); diff != "" {
			t.Fatalf("splitRow(%q) mismatch (-want +got):\n%s", line, diff)
		}
	}
}

func TestParseAlignments(t *testing.T) {
	aligns, ok := parseAlignments([]string{":--", "--:", ":-:", "---", "-"})
	if !ok {
		t.Fatalf("expected alignment row")
	}
	want := []textwidth.Align{textwidth.AlignLeft, textwidth.AlignRight, textwidth.AlignCenter, textwidth.AlignLeft, textwidth.AlignLeft}
	if diff := cmp.Diff(want, aligns); diff != "" {
		t.Fatalf("alignments mismatch (-want +got):\n%s", diff)
	}
	for _, row := range [][]string{{"a", "---"}, {":"}, {"::"}, {""}, {"-:-"}} {
		if _, ok := parseAlignments(row); ok {
			t.Fatalf("expected %q not to be an alignment row", row)
		}
	}
}

func TestNarrowColumns(t *testing.T) {
	widths := []int{4, 27}
	narrowColumns(widths, 13)
	if diff := cmp.Diff([]int{4, 9}, widths); diff != "" {
		t.Fatalf("narrowColumns mismatch (-want +got):\n%s", diff)
	}
	widths = []int{5, 5, 5}
	narrowColumns(widths, 2)
	if diff := cmp.Diff([]int{3, 3, 3}, widths); diff != "" {
		t.Fatalf("narrowColumns floor mismatch (-want +got):\n%s", diff)
	}
}

func stripBorders(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '│', '─', '╭', '╮', '╰', '╯', '├', '┤', '┬', '┴', '┼', '\n':
			return -1
		}
		return r
	}, s)
}
