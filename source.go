package mdtty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"
	"unicode/utf8"
)

// Source produces the Markdown text to render as a sequence of fragments.
// Next blocks until the next fragment is available and returns io.EOF after
// the last one. Fragments may be empty and may split the text anywhere,
// including inside a Markdown construct.
//
// Render closes sources that implement io.Closer.
type Source interface {
	Next(ctx context.Context) (string, error)
}

type sliceSource struct {
	frags []string
}

// StringSource returns a Source yielding fragments in order.
func StringSource(fragments ...string) Source {
	return &sliceSource{frags: fragments}
}

// SplitSource returns a Source yielding text in fragments of n characters.
// It is mostly useful to exercise streaming behavior.
func SplitSource(text string, n int) Source {
	if n <= 0 {
		n = 1
	}
	var frags []string
	for text != "" {
		i := 0
		for count := 0; i < len(text) && count < n; count++ {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
		}
		frags = append(frags, text[:i])
		text = text[i:]
	}
	return &sliceSource{frags: frags}
}

func (s *sliceSource) Next(context.Context) (string, error) {
	if len(s.frags) == 0 {
		return "", io.EOF
	}
	frag := s.frags[0]
	s.frags = s.frags[1:]
	return frag, nil
}

type chanSource struct {
	ch <-chan string
}

// ChannelSource returns a Source receiving fragments from ch until it is
// closed.
func ChannelSource(ch <-chan string) Source {
	return chanSource{ch: ch}
}

func (s chanSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case frag, ok := <-s.ch:
		if !ok {
			return "", io.EOF
		}
		return frag, nil
	}
}

type seqSource struct {
	next func() (string, bool)
	stop func()
}

// SeqSource returns a Source pulling fragments from seq. The returned Source
// implements io.Closer; closing it stops the iterator.
func SeqSource(seq iter.Seq[string]) Source {
	next, stop := iter.Pull(seq)
	return &seqSource{next: next, stop: stop}
}

func (s *seqSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	frag, ok := s.next()
	if !ok {
		return "", io.EOF
	}
	return frag, nil
}

func (s *seqSource) Close() error {
	s.stop()
	return nil
}

const readerChunk = 4096

type readerSource struct {
	r    io.Reader
	buf  [readerChunk + utf8.UTFMax]byte
	tail int
	done bool
}

// ReaderSource returns a Source reading r in chunks. Multi-byte characters
// split across reads are reassembled. A blocked Read is not interrupted by
// context cancellation; cancellation is observed before the next Read.
func ReaderSource(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) Next(ctx context.Context) (string, error) {
	if s.done {
		return "", io.EOF
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n, err := s.r.Read(s.buf[s.tail : s.tail+readerChunk])
	data := s.buf[:s.tail+n]
	if err != nil {
		s.done = true
		s.tail = 0
		if errors.Is(err, io.EOF) {
			return string(data), io.EOF
		}
		return string(data), fmt.Errorf("read: %w", err)
	}
	cut := completePrefix(data)
	out := string(data[:cut])
	s.tail = copy(s.buf[:], data[cut:])
	return out, nil
}

// completePrefix returns the length of the longest prefix of data that does
// not end inside a multi-byte character.
func completePrefix(data []byte) int {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(data[i]) {
			continue
		}
		if !utf8.FullRune(data[i:]) {
			return i
		}
		break
	}
	return len(data)
}

// sanitizedSource drops characters that must never reach the terminal from
// every fragment.
type sanitizedSource struct {
	src Source
}

func (s sanitizedSource) Next(ctx context.Context) (string, error) {
	frag, err := s.src.Next(ctx)
	return sanitizeText(frag), err
}

type pacedSource struct {
	src     Source
	size    int
	delay   time.Duration
	pending string
	err     error
	started bool
}

// Next returns at most size characters, waiting delay before every fragment
// but the first.
func (p *pacedSource) Next(ctx context.Context) (string, error) {
	for p.pending == "" {
		if p.err != nil {
			return "", p.err
		}
		frag, err := p.src.Next(ctx)
		p.pending, p.err = frag, err
	}
	if p.started && p.delay > 0 {
		timer := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	p.started = true
	i := 0
	for count := 0; i < len(p.pending) && count < p.size; count++ {
		_, n := utf8.DecodeRuneInString(p.pending[i:])
		i += n
	}
	chunk := p.pending[:i]
	p.pending = p.pending[i:]
	if p.pending == "" && p.err != nil {
		return chunk, p.err
	}
	return chunk, nil
}

// closeSource closes src when it owns resources.
func closeSource(src Source) error {
	c, ok := src.(io.Closer)
	if !ok {
		return nil
	}
	return c.Close()
}
