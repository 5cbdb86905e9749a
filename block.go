package mdtty

import (
	"strconv"
	"strings"

	"pkt.systems/mdtty/style"
)

// document renders blocks until the stream is exhausted. Blocks after the
// first are separated by a blank line.
func (r *renderer) document() {
	first := true
	for {
		r.in.Skip(' ', '\t', '\n')
		c, ok := r.in.Peek()
		if !ok {
			return
		}
		if !first {
			r.out.Write("\n")
		}
		first = false
		switch {
		case c == '#':
			r.heading()
		case r.in.HasPrefix("```"):
			r.fencedCode()
		case r.in.HasPrefix("---"):
			r.thematicBreak()
		case r.in.UnorderedListLabel(), r.in.OrderedListLabel():
			r.list()
		case c == '>':
			r.blockquote()
		case c == '|':
			r.table()
		default:
			r.paragraph()
		}
	}
}

func headingStyle(level int, hl style.Color) []style.Attr {
	switch level {
	case 1:
		return []style.Attr{style.Bold(true), style.Bg(hl)}
	case 2:
		return []style.Attr{style.Bold(true), style.Underline(true), style.Fg(hl)}
	case 3:
		return []style.Attr{style.Bold(true), style.Italic(true), style.Fg(hl)}
	case 4:
		return []style.Attr{style.Bold(true), style.Fg(hl)}
	default:
		return []style.Attr{style.Bold(true)}
	}
}

func (r *renderer) heading() {
	level := r.in.Skip('#')
	r.in.Skip(' ', '\t')
	r.out.Do(func() {
		if level == 1 {
			r.out.Write(" ")
		}
		r.inline(r.in)
		if level == 1 {
			r.out.Write(" ")
		}
	}, headingStyle(level, r.hl)...)
	r.endLine()
}

// endLine consumes the newline ending the current line, if any, and emits one.
func (r *renderer) endLine() {
	if r.in.PeekIs('\n') {
		r.in.Next()
	}
	r.out.Write("\n")
}

func (r *renderer) fencedCode() {
	if r.cfg.codeBox {
		r.codeBox()
		return
	}
	last := rune(0)
	r.out.Do(func() {
		fence, _ := r.in.Consume(3)
		r.out.Write(fence)
		for !r.in.HasPrefix("\n```") {
			c, ok := r.in.Next()
			if !ok {
				return
			}
			r.out.Write(string(c))
			last = c
		}
		r.in.Consume(4)
		r.out.Write("\n```")
		last = '`'
	}, style.Dim(true))
	if last != '\n' {
		r.out.Write("\n")
	}
}

func (r *renderer) thematicBreak() {
	r.in.Consume(3)
	r.in.Skip('-')
	r.out.Do(func() {
		r.out.Write(rule(r.width))
	}, style.Dim(true))
	r.out.Write("\n")
}

func (r *renderer) paragraph() {
	for {
		r.inline(r.in)
		if _, ok := r.in.Next(); !ok {
			r.out.Write("\n")
			return
		}
		r.out.Write("\n")
		c, ok := r.in.Peek()
		if !ok || c == '\n' || r.in.NonParagraphBlockStart() {
			return
		}
	}
}

func (r *renderer) blockquote() {
	for {
		r.in.Skip(' ', '\t')
		if !r.in.PeekIs('>') {
			return
		}
		r.in.Next()
		r.in.Skip(' ', '\t')
		r.out.Do(func() {
			r.out.Write("┃ ")
		}, style.Bold(true), style.Dim(true))
		r.out.Do(func() {
			r.inline(r.in)
		}, style.Dim(true))
		r.endLine()
	}
}

// listState tracks list nesting: the indentation that opened each level and
// the next ordinal per level.
type listState struct {
	indents  []int
	counters []int
}

// place returns the depth and ordinal of an item at indent. num is the
// ordinal the item's own label carries, used when a level is opened.
func (l *listState) place(indent, num int) (depth, ordinal int) {
	if len(l.indents) == 0 {
		l.indents = append(l.indents, indent)
		l.counters = append(l.counters, num)
		return 0, num
	}
	for i := 0; i < len(l.indents)-1; i++ {
		if l.indents[i] <= indent && indent < l.indents[i+1] {
			l.indents = l.indents[:i+1]
			l.counters = l.counters[:i+1]
			l.counters[i]++
			return i, l.counters[i]
		}
	}
	last := len(l.indents) - 1
	if indent > l.indents[last]+2 {
		l.indents = append(l.indents, indent)
		l.counters = append(l.counters, num)
		return last + 1, num
	}
	l.counters[last]++
	return last, l.counters[last]
}

func (r *renderer) list() {
	var state listState
	indent := 0
	for {
		num, size, ordered := r.in.OrderedListNumber()
		if ordered {
			r.in.Consume(size + 1)
		} else {
			num = 1
			r.in.Consume(2)
		}
		depth, ordinal := state.place(indent, num)
		marker := strings.Repeat("  ", depth) + "•"
		if ordered {
			marker = strings.Repeat("   ", depth) + strconv.Itoa(ordinal) + "."
		}
		r.out.Do(func() {
			r.out.Write(marker)
		}, style.Fg(r.hl))
		r.out.Write(" ")
		r.in.Skip(' ', '\t')
		r.inline(r.in)
		r.endLine()

		indent = 0
		for {
			c, ok := r.in.Peek()
			if !ok {
				return
			}
			if c == '\n' {
				indent = 0
			} else if c == ' ' || c == '\t' {
				indent++
			} else {
				break
			}
			r.in.Next()
		}
		if !r.in.UnorderedListLabel() && !r.in.OrderedListLabel() {
			return
		}
	}
}
