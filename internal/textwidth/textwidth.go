// Package textwidth measures terminal display width.
//
// A rune occupies two columns when its East-Asian-width property is Wide,
// Fullwidth or Ambiguous and one column otherwise. Ambiguous runes are counted
// wide so that boxes drawn around CJK-heavy text never come up short on
// terminals configured for East Asian locales.
package textwidth

import (
	"strings"

	"golang.org/x/text/width"
)

// Align selects how Pad distributes padding.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// IsWide reports whether r occupies two terminal columns.
func IsWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth, width.EastAsianAmbiguous:
		return true
	default:
		return false
	}
}

// RuneWidth returns the number of columns r occupies.
func RuneWidth(r rune) int {
	if IsWide(r) {
		return 2
	}
	return 1
}

// String returns the display width of s. Escape sequences are counted as
// ordinary text, so s must be plain.
func String(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// Truncate shortens s to at most limit columns, ending it with tail when
// anything was cut. The tail counts toward the limit.
func Truncate(s string, limit int, tail string) string {
	if String(s) <= limit {
		return s
	}
	room := limit - String(tail)
	if room < 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := RuneWidth(r)
		if used+w > room {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + tail
}

// Wrap greedily packs text into rows no wider than limit columns. A rune that
// would overflow the current row starts a new one and every newline in text
// starts a new row. A single trailing newline does not produce an empty row.
// With limit <= 0 the text is only split on newlines.
func Wrap(text string, limit int) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		if limit <= 0 || String(line) <= limit {
			rows = append(rows, line)
			continue
		}
		var b strings.Builder
		used := 0
		for _, r := range line {
			w := RuneWidth(r)
			if used > 0 && used+w > limit {
				rows = append(rows, b.String())
				b.Reset()
				used = 0
			}
			b.WriteRune(r)
			used += w
		}
		rows = append(rows, b.String())
	}
	return rows
}

// Pad pads s with spaces to width columns according to align. Strings that
// are already wider are returned unchanged.
func Pad(s string, width int, align Align) string {
	gap := width - String(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// Max returns the widest display width among rows.
func Max(rows []string) int {
	m := 0
	for _, row := range rows {
		if w := String(row); w > m {
			m = w
		}
	}
	return m
}
