// Package textstream turns a lazy source of text fragments into a
// character-addressable stream with bounded lookahead.
//
// The buffer only grows when a lookahead decision needs more characters than
// are buffered, so a slow producer is never read further ahead than the
// current decision requires. Every operation is total: at end of stream
// lookahead simply fails.
package textstream

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"
)

// Source produces text fragments. Next returns io.EOF after the last
// fragment. Fragments may be empty and may split the text anywhere.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// Follow constrains what must come after a Check match.
type Follow uint8

const (
	// Anything places no constraint on what follows the match.
	Anything Follow = iota
	// End requires the match to be the last text in the stream.
	End
	// More requires at least one more character after the match.
	More
)

// MaxLookahead is the widest window any predicate in this package inspects.
const MaxLookahead = 5

// Option configures a Stream.
type Option func(*Stream)

// OnWait registers fn to be called right before the stream blocks on the
// source for another fragment.
func OnWait(fn func()) Option {
	return func(s *Stream) {
		s.onWait = fn
	}
}

// Stream is a lookahead buffer over a Source. It is owned by a single
// consumer and is not safe for concurrent use.
type Stream struct {
	ctx    context.Context
	src    Source
	buf    []rune
	off    int
	eof    bool
	err    error
	onWait func()
}

// New returns a Stream reading from src. The context bounds every call to
// src.Next.
func New(ctx context.Context, src Source, opts ...Option) *Stream {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Stream{ctx: ctx, src: src}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if src == nil {
		s.eof = true
	}
	return s
}

// Err returns the error that ended the stream early, or nil if the source
// reached io.EOF (or has not ended yet).
func (s *Stream) Err() error { return s.err }

// EOF reports whether the source is exhausted. Buffered characters may remain.
func (s *Stream) EOF() bool { return s.eof }

// Buffered returns the number of characters currently buffered.
func (s *Stream) Buffered() int { return len(s.buf) - s.off }

// ensure grows the buffer until it holds at least n characters or the source
// is exhausted.
func (s *Stream) ensure(n int) {
	for !s.eof && s.Buffered() < n {
		if s.onWait != nil {
			s.onWait()
		}
		frag, err := s.src.Next(s.ctx)
		if frag != "" {
			s.append(frag)
		}
		if err != nil {
			s.eof = true
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
		}
	}
}

func (s *Stream) append(frag string) {
	if s.off > 0 && s.off == len(s.buf) {
		s.buf = s.buf[:0]
		s.off = 0
	} else if s.off > 1024 && s.off > len(s.buf)/2 {
		n := copy(s.buf, s.buf[s.off:])
		s.buf = s.buf[:n]
		s.off = 0
	}
	for _, r := range frag {
		s.buf = append(s.buf, r)
	}
}

// Peek returns the next character without consuming it.
func (s *Stream) Peek() (rune, bool) {
	return s.At(0)
}

// At returns the character i positions ahead without consuming anything.
func (s *Stream) At(i int) (rune, bool) {
	s.ensure(i + 1)
	if s.Buffered() <= i {
		return 0, false
	}
	return s.buf[s.off+i], true
}

// PeekIs reports whether the next character is one of chars.
func (s *Stream) PeekIs(chars ...rune) bool {
	r, ok := s.Peek()
	if !ok {
		return false
	}
	for _, c := range chars {
		if r == c {
			return true
		}
	}
	return false
}

// Next consumes and returns one character.
func (s *Stream) Next() (rune, bool) {
	r, ok := s.Peek()
	if ok {
		s.off++
	}
	return r, ok
}

// Consume removes up to n characters. It returns whatever prefix is available
// once the buffer holds n characters or the source is exhausted; the result is
// false only when nothing at all was left.
func (s *Stream) Consume(n int) (string, bool) {
	if n <= 0 {
		return "", true
	}
	s.ensure(n)
	avail := s.Buffered()
	if avail == 0 {
		return "", false
	}
	if avail > n {
		avail = n
	}
	out := string(s.buf[s.off : s.off+avail])
	s.off += avail
	return out, true
}

// Skip consumes characters while they are one of chars and returns how many
// were consumed.
func (s *Stream) Skip(chars ...rune) int {
	n := 0
	for s.PeekIs(chars...) {
		s.off++
		n++
	}
	return n
}

// Check reports whether the stream continues with prefix. follow further
// constrains whether the match must end the stream or be followed by more
// text.
func (s *Stream) Check(prefix string, follow Follow) bool {
	n := utf8.RuneCountInString(prefix)
	if n == 0 {
		return true
	}
	s.ensure(n + 1)
	if s.Buffered() < n {
		return false
	}
	i := s.off
	for _, r := range prefix {
		if s.buf[i] != r {
			return false
		}
		i++
	}
	switch follow {
	case End:
		return s.Buffered() == n
	case More:
		return s.Buffered() > n
	}
	return true
}

// HasPrefix is Check(prefix, Anything).
func (s *Stream) HasPrefix(prefix string) bool {
	return s.Check(prefix, Anything)
}

// UnorderedListLabel reports whether the stream starts with "-", "+" or "*"
// followed by a space.
func (s *Stream) UnorderedListLabel() bool {
	s.ensure(2)
	if s.Buffered() < 2 {
		return false
	}
	switch s.buf[s.off] {
	case '-', '+', '*':
		return s.buf[s.off+1] == ' '
	}
	return false
}

// OrderedListLabel reports whether the stream starts with one to three digits,
// a period and a space.
func (s *Stream) OrderedListLabel() bool {
	_, _, ok := s.orderedLabel()
	return ok
}

// OrderedListNumber returns the number of the ordered list label the stream
// starts with and the label length excluding the trailing space.
func (s *Stream) OrderedListNumber() (num int, size int, ok bool) {
	return s.orderedLabel()
}

func (s *Stream) orderedLabel() (int, int, bool) {
	s.ensure(MaxLookahead)
	window := s.buf[s.off:]
	if len(window) > MaxLookahead {
		window = window[:MaxLookahead]
	}
	num := 0
	for i, r := range window {
		switch {
		case r >= '0' && r <= '9':
			if i >= 3 {
				return 0, 0, false
			}
			num = num*10 + int(r-'0')
		case r == '.':
			if i == 0 || i+1 >= len(window) || window[i+1] != ' ' {
				return 0, 0, false
			}
			return num, i + 1, true
		default:
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// NonParagraphBlockStart reports whether the stream starts a fenced code
// block, a thematic break, a blockquote or a list item. A paragraph line break
// followed by any of these ends the paragraph.
func (s *Stream) NonParagraphBlockStart() bool {
	switch {
	case s.HasPrefix("```"), s.HasPrefix("---"), s.HasPrefix("> "):
		return true
	}
	return s.OrderedListLabel() || s.UnorderedListLabel()
}
