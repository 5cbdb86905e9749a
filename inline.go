package mdtty

import (
	"context"
	"strings"
	"unicode"

	"pkt.systems/mdtty/internal/textstream"
	"pkt.systems/mdtty/style"
)

// openSpan is an emphasis or strikethrough scope opened by a delimiter run.
type openSpan struct {
	delim string
	scope style.Scope
}

// inlineParser renders one line of inline Markdown. It stops in front of the
// terminating newline, or at end of stream, and never consumes it.
type inlineParser struct {
	r    *renderer
	in   *textstream.Stream
	open []openSpan
	// prev is the last character consumed in this run, 0 at the start.
	prev rune
}

func (r *renderer) inline(in *textstream.Stream) {
	p := inlineParser{r: r, in: in}
	p.run()
}

// inlineText renders s as a single inline run, for text that has already been
// read from the document (table cells).
func (r *renderer) inlineText(s string) {
	r.inline(textstream.New(context.Background(), StringSource(s)))
}

func (p *inlineParser) run() {
	for {
		c, ok := p.in.Peek()
		if !ok || c == '\n' {
			break
		}
		switch {
		case c == '`':
			p.codeSpan()
		case c == '*' || c == '_':
			p.emphasis(c)
		case c == '~' && p.in.HasPrefix("~~"):
			p.strike()
		case c == ' ' || c == '\t':
			p.in.Skip(' ', '\t')
			p.r.out.Write(" ")
			p.prev = ' '
		case c == '\\':
			p.escape()
		case c == '[':
			p.link()
		default:
			p.in.Next()
			p.r.out.Write(string(c))
			p.prev = c
		}
	}
	for len(p.open) > 0 {
		p.close()
	}
}

func (p *inlineParser) innermost() string {
	if len(p.open) == 0 {
		return ""
	}
	return p.open[len(p.open)-1].delim
}

func (p *inlineParser) push(delim string, attrs ...style.Attr) {
	p.open = append(p.open, openSpan{delim: delim, scope: p.r.out.Enter(attrs...)})
}

func (p *inlineParser) close() {
	top := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	top.scope.Exit()
}

func emphasisStyle(n int, hl style.Color) []style.Attr {
	switch n {
	case 1:
		return []style.Attr{style.Italic(true), style.Fg(hl)}
	case 2:
		return []style.Attr{style.Bold(true), style.Fg(hl)}
	default:
		return []style.Attr{style.Bold(true), style.Italic(true), style.Fg(hl)}
	}
}

// emphasis handles a run of * or _. The run closes the innermost span when
// that span was opened by the same run, it follows non-whitespace and is not
// followed by an alphanumeric character. It opens a span when it follows
// whitespace, the start of the run or another delimiter and is followed by
// something other than whitespace. Anything else is literal text.
func (p *inlineParser) emphasis(c rune) {
	n := p.in.Skip(c)
	delim := strings.Repeat(string(c), n)
	next, more := p.in.Peek()
	same := p.innermost() == delim
	switch {
	case same && p.prev != 0 && !isSpace(p.prev) && (!more || isSpace(next) || !isAlnum(next)):
		p.r.out.Write(delim)
		p.close()
	case !same && (p.prev == 0 || isSpace(p.prev) || isDelimiter(p.prev)) && more && !isSpace(next):
		p.push(delim, emphasisStyle(n, p.r.hl)...)
		p.r.out.Write(delim)
	default:
		p.r.out.Write(delim)
	}
	p.prev = c
}

func (p *inlineParser) strike() {
	p.in.Consume(2)
	if p.innermost() == "~~" {
		p.r.out.Write("~~")
		p.close()
	} else {
		p.push("~~", style.Strike(true))
		p.r.out.Write("~~")
	}
	p.prev = '~'
}

// codeSpan copies text verbatim, backticks included, until a backtick run of
// the opening length, the end of the line or the end of the stream.
func (p *inlineParser) codeSpan() {
	n := p.in.Skip('`')
	fence := strings.Repeat("`", n)
	p.r.out.Do(func() {
		p.r.out.Write(fence)
		for {
			c, ok := p.in.Peek()
			if !ok || c == '\n' {
				return
			}
			if c == '`' {
				m := p.in.Skip('`')
				p.r.out.Write(strings.Repeat("`", m))
				if m == n {
					return
				}
				continue
			}
			p.in.Next()
			p.r.out.Write(string(c))
			if c != '\\' {
				continue
			}
			if e, ok := p.in.Peek(); ok && e != '\n' {
				p.in.Next()
				p.r.out.Write(string(e))
			}
		}
	}, style.Dim(true))
	p.prev = '`'
}

// escape writes a backslash and the character after it as a pair. The
// character is never treated as markup and does not count as a delimiter for
// the run that follows.
func (p *inlineParser) escape() {
	p.in.Next()
	c, ok := p.in.Peek()
	if !ok || c == '\n' {
		p.r.out.Write("\\")
		p.prev = '\\'
		return
	}
	p.in.Next()
	p.r.out.Write("\\" + string(c))
	p.prev = '\\'
}

// link renders [text](href). The text is held until the closing bracket; if
// no parenthesis follows it is written back literally.
func (p *inlineParser) link() {
	p.in.Next()
	var text strings.Builder
	for {
		c, ok := p.in.Peek()
		if !ok || c == '\n' {
			p.r.out.Write("[" + text.String())
			p.prev = '['
			return
		}
		p.in.Next()
		if c == ']' {
			break
		}
		text.WriteRune(c)
		if c == '\\' {
			if e, ok := p.in.Peek(); ok && e != '\n' {
				p.in.Next()
				text.WriteRune(e)
			}
		}
	}
	if !p.in.PeekIs('(') {
		p.r.out.Write("[" + text.String() + "]")
		p.prev = ']'
		return
	}
	p.in.Next()
	var href strings.Builder
	inTitle := false
	for {
		c, ok := p.in.Peek()
		if !ok || c == '\n' {
			break
		}
		p.in.Next()
		if c == ')' {
			break
		}
		if c == ' ' || c == '\t' {
			inTitle = true
		}
		if !inTitle {
			href.WriteRune(c)
		}
	}
	p.writeLink(text.String(), strings.Trim(href.String(), "<>"))
	p.prev = ')'
}

func (p *inlineParser) writeLink(text, href string) {
	out := p.r.out
	if text == "" {
		text = href
	}
	label := text
	if p.r.cfg.osc8 && href != "" && !out.Raw() {
		label = hyperlink(href, text)
	}
	out.Do(func() {
		out.Write(label)
	}, style.Underline(true), style.Dim(true), style.Italic(true), style.Fg(p.r.hl))
	if href == "" || href == text {
		return
	}
	out.Do(func() {
		out.Write(" (" + fitURL(href, p.r.width) + ")")
	}, style.Dim(true))
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDelimiter(r rune) bool {
	switch r {
	case '*', '_', '~', '`':
		return true
	}
	return false
}
