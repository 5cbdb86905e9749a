package mdtty

import (
	"strings"

	"pkt.systems/mdtty/internal/textwidth"
	"pkt.systems/mdtty/style"
)

// minColumnWidth is the narrowest a column is squeezed to when a table does
// not fit the layout width.
const minColumnWidth = 3

type tableCell struct {
	src   string
	plain string
	width int
}

// table reads every |-leading line, then draws the table once all column
// widths are known.
func (r *renderer) table() {
	var rows [][]string
	for {
		r.in.Skip(' ', '\t')
		if !r.in.PeekIs('|') {
			break
		}
		var line strings.Builder
		for {
			c, ok := r.in.Peek()
			if !ok || c == '\n' {
				break
			}
			r.in.Next()
			line.WriteRune(c)
		}
		if r.in.PeekIs('\n') {
			r.in.Next()
		}
		rows = append(rows, splitRow(line.String()))
	}
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	aligns := make([]textwidth.Align, cols)
	header, body := rows[0], rows[1:]
	if len(rows) > 1 {
		if parsed, ok := parseAlignments(rows[1]); ok {
			copy(aligns, parsed)
			body = rows[2:]
		}
	}

	widths := make([]int, cols)
	measure := func(row []string) []tableCell {
		cells := make([]tableCell, cols)
		for j := range cells {
			if j < len(row) {
				cells[j].src = row[j]
			}
			src := cells[j].src
			cells[j].plain = r.out.Measure(func() { r.inlineText(src) })
			cells[j].width = textwidth.String(cells[j].plain)
			widths[j] = max(widths[j], cells[j].width)
		}
		return cells
	}
	head := measure(header)
	lines := make([][]tableCell, len(body))
	for i, row := range body {
		lines[i] = measure(row)
	}
	narrowColumns(widths, r.width-(3*cols+1))

	r.tableBorder(widths, "╭", "┬", "╮")
	r.tableRow(head, widths, aligns, true)
	if len(lines) > 0 {
		r.tableBorder(widths, "├", "┼", "┤")
	}
	for _, cells := range lines {
		r.tableRow(cells, widths, aligns, false)
	}
	r.tableBorder(widths, "╰", "┴", "╯")
}

func (r *renderer) tableBorder(widths []int, left, mid, right string) {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(rule(w + 2))
	}
	b.WriteString(right)
	r.out.Do(func() {
		r.out.Write(b.String())
	}, style.Dim(true))
	r.out.Write("\n")
}

// tableRow draws one logical row. Cells that fit are rendered with their
// inline styling; cells wider than their column are wrapped as plain text
// over several physical lines.
func (r *renderer) tableRow(cells []tableCell, widths []int, aligns []textwidth.Align, header bool) {
	wrapped := make([][]string, len(cells))
	height := 1
	for j, cell := range cells {
		if cell.width > widths[j] {
			wrapped[j] = textwidth.Wrap(cell.plain, widths[j])
			height = max(height, len(wrapped[j]))
		}
	}
	var attrs []style.Attr
	if header {
		attrs = append(attrs, style.Bold(true))
	}
	bar := func() {
		r.out.Do(func() { r.out.Write("│") }, style.Dim(true))
	}
	for k := 0; k < height; k++ {
		for j, cell := range cells {
			bar()
			r.out.Write(" ")
			r.out.Do(func() {
				switch {
				case wrapped[j] != nil:
					line := ""
					if k < len(wrapped[j]) {
						line = wrapped[j][k]
					}
					r.out.Write(textwidth.Pad(line, widths[j], aligns[j]))
				case k == 0:
					left, right := padding(widths[j]-cell.width, aligns[j])
					r.out.Write(strings.Repeat(" ", left))
					r.inlineText(cell.src)
					r.out.Write(strings.Repeat(" ", right))
				default:
					r.out.Write(strings.Repeat(" ", widths[j]))
				}
			}, attrs...)
			r.out.Write(" ")
		}
		bar()
		r.out.Write("\n")
	}
}

func padding(gap int, align textwidth.Align) (left, right int) {
	if gap <= 0 {
		return 0, 0
	}
	switch align {
	case textwidth.AlignRight:
		return gap, 0
	case textwidth.AlignCenter:
		return gap / 2, gap - gap/2
	default:
		return 0, gap
	}
}

// narrowColumns shrinks the widest columns one at a time until the total fits
// avail or every column is at minColumnWidth.
func narrowColumns(widths []int, avail int) {
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > avail {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
		total--
	}
}

// splitRow splits a table line into trimmed cells. Outer pipes are dropped.
// An escaped pipe becomes a literal pipe in its cell; other escapes are kept
// for the inline parser.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}
	var cells []string
	var cell strings.Builder
	escaped := false
	for _, c := range line {
		switch {
		case escaped:
			escaped = false
			if c != '|' {
				cell.WriteRune('\\')
			}
		case c == '\\':
			escaped = true
			continue
		case c == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
			continue
		}
		cell.WriteRune(c)
	}
	if escaped {
		cell.WriteRune('\\')
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

// parseAlignments reads an alignment row such as |:--|:-:|--:|. ok is false
// when any cell is not of the form :?-+:?.
func parseAlignments(cells []string) ([]textwidth.Align, bool) {
	aligns := make([]textwidth.Align, len(cells))
	for i, cell := range cells {
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":") && len(cell) > 1
		dashes := strings.TrimSuffix(strings.TrimPrefix(cell, ":"), ":")
		if dashes == "" || strings.Trim(dashes, "-") != "" {
			return nil, false
		}
		switch {
		case left && right:
			aligns[i] = textwidth.AlignCenter
		case right:
			aligns[i] = textwidth.AlignRight
		default:
			aligns[i] = textwidth.AlignLeft
		}
	}
	return aligns, true
}
