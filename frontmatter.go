package mdtty

import (
	"context"
	"strings"
)

const maxFrontMatterProbe = 64 * 1024

// frontMatterSource holds back the start of the document until it is known
// whether it opens with a front matter block, and drops the block if so.
type frontMatterSource struct {
	src     Source
	probe   strings.Builder
	decided bool
}

func (f *frontMatterSource) Next(ctx context.Context) (string, error) {
	if f.decided {
		return f.src.Next(ctx)
	}
	for {
		frag, err := f.src.Next(ctx)
		f.probe.WriteString(frag)
		probe := f.probe.String()
		rest, ok := stripFrontMatter(probe, err != nil)
		if !ok && len(probe) > maxFrontMatterProbe {
			rest, ok = probe, true
		}
		if ok {
			f.decided = true
			f.probe.Reset()
			return rest, err
		}
	}
}

// stripFrontMatter returns text without a leading front matter block. ok is
// false when more text is needed to decide. Once eof is set a decision is
// always made.
func stripFrontMatter(text string, eof bool) (string, bool) {
	open, next, ok := lineAt(text, 0, eof)
	if !ok {
		return "", false
	}
	delim, isOpen := frontMatterDelimiter(open)
	if !isOpen {
		return text, true
	}
	first, next2, ok := lineAt(text, next, eof)
	if !ok {
		return "", false
	}
	if !metadataLine(first) {
		return text, true
	}
	for idx := next2; ; {
		line, after, ok := lineAt(text, idx, eof)
		if !ok {
			return "", false
		}
		if strings.TrimSpace(line) == delim {
			return text[after:], true
		}
		if after == idx {
			// Unclosed at end of input: not front matter.
			return text, true
		}
		idx = after
	}
}

// lineAt returns the line starting at start and the offset after its
// newline. Without eof an unterminated last line is not returned.
func lineAt(text string, start int, eof bool) (string, int, bool) {
	if start >= len(text) {
		return "", start, eof
	}
	i := strings.IndexByte(text[start:], '\n')
	if i < 0 {
		if !eof {
			return "", 0, false
		}
		return text[start:], len(text), true
	}
	return text[start : start+i], start + i + 1, true
}

func frontMatterDelimiter(line string) (string, bool) {
	switch d := strings.TrimSpace(strings.TrimPrefix(line, "\ufeff")); d {
	case "---", "+++", ";;;":
		return d, true
	}
	return "", false
}

func metadataLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.ContainsAny(trimmed, ":=")
}
