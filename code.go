package mdtty

import (
	"strings"

	"pkt.systems/mdtty/internal/textwidth"
	"pkt.systems/mdtty/style"
)

const tabWidth = 4

// codeBox buffers a fenced code block up to its closing fence and draws it
// inside a box. The info string, if any, is shown in the top border.
func (r *renderer) codeBox() {
	r.in.Consume(3)
	var info strings.Builder
	for {
		c, ok := r.in.Peek()
		if !ok || c == '\n' {
			break
		}
		r.in.Next()
		info.WriteRune(c)
	}
	var body strings.Builder
	for !r.in.HasPrefix("\n```") {
		c, ok := r.in.Next()
		if !ok {
			break
		}
		body.WriteRune(c)
	}
	r.in.Consume(4)

	inner := max(r.width-4, 1)
	text := strings.TrimPrefix(body.String(), "\n")
	rows := textwidth.Wrap(strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth)), inner)
	if len(rows) == 0 {
		rows = []string{""}
	}
	w := textwidth.Max(rows)
	label := strings.TrimSpace(info.String())
	if label != "" {
		label = textwidth.Truncate(label, max(inner-1, 1), "…")
		w = max(w, textwidth.String(label)+1)
	}

	var b strings.Builder
	if label != "" {
		b.WriteString("╭─ " + label + " " + rule(w-textwidth.String(label)-1) + "╮\n")
	} else {
		b.WriteString("╭" + rule(w+2) + "╮\n")
	}
	for _, row := range rows {
		b.WriteString("│ " + textwidth.Pad(row, w, textwidth.AlignLeft) + " │\n")
	}
	b.WriteString("╰" + rule(w+2) + "╯")
	r.out.Do(func() {
		r.out.Write(b.String())
	}, style.Dim(true))
	r.out.Write("\n")
}
