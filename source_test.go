package mdtty

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"
	"unicode/utf8"
)

func drain(t *testing.T, src Source) []string {
	t.Helper()
	var frags []string
	for {
		frag, err := src.Next(t.Context())
		if frag != "" {
			frags = append(frags, frag)
		}
		if errors.Is(err, io.EOF) {
			return frags
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
	}
}

func TestSplitSource(t *testing.T) {
	frags := drain(t, SplitSource("ab中文é", 2))
	want := []string{"ab", "中文", "é"}
	if strings.Join(frags, "|") != strings.Join(want, "|") {
		t.Fatalf("fragments %q, want %q", frags, want)
	}
	if got := drain(t, SplitSource("", 3)); len(got) != 0 {
		t.Fatalf("expected no fragments, got %q", got)
	}
}

func TestReaderSourceKeepsCharactersWhole(t *testing.T) {
	text := "héllo 中文 ✓ done"
	frags := drain(t, ReaderSource(iotest.OneByteReader(strings.NewReader(text))))
	for _, frag := range frags {
		if !utf8.ValidString(frag) {
			t.Fatalf("fragment %q splits a character", frag)
		}
	}
	if got := strings.Join(frags, ""); got != text {
		t.Fatalf("reassembled %q, want %q", got, text)
	}
}

func TestReaderSourceWrapsReadErrors(t *testing.T) {
	boom := errors.New("connection reset")
	src := ReaderSource(iotest.ErrReader(boom))
	_, err := src.Next(t.Context())
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if _, err := src.Next(t.Context()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF after failure, got %v", err)
	}
}

func TestChannelSource(t *testing.T) {
	ch := make(chan string, 2)
	ch <- "# He"
	ch <- "ading"
	close(ch)
	if got := renderSource(t, ChannelSource(ch), testWidth, PlainTheme()); got != " Heading \n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestChannelSourceHonorsCancellation(t *testing.T) {
	ch := make(chan string)
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err := ChannelSource(ch).Next(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSeqSource(t *testing.T) {
	seq := func(yield func(string) bool) {
		for _, frag := range []string{"**bo", "ld** ", "text"} {
			if !yield(frag) {
				return
			}
		}
	}
	if got := renderSource(t, SeqSource(seq), testWidth, PlainTheme()); got != "**bold** text\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSeqSourceCloseStopsIterator(t *testing.T) {
	stopped := false
	seq := func(yield func(string) bool) {
		defer func() { stopped = true }()
		for {
			if !yield("x") {
				return
			}
		}
	}
	src := SeqSource(seq)
	if frag, err := src.Next(t.Context()); err != nil || frag != "x" {
		t.Fatalf("next = %q, %v", frag, err)
	}
	if err := closeSource(src); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !stopped {
		t.Fatalf("expected iterator to be stopped")
	}
}

func TestPacedSourceChunks(t *testing.T) {
	src := &pacedSource{src: StringSource("abcdé", "", "fg"), size: 2}
	frags := drain(t, src)
	want := []string{"ab", "cd", "é", "fg"}
	if strings.Join(frags, "|") != strings.Join(want, "|") {
		t.Fatalf("fragments %q, want %q", frags, want)
	}
}

func TestSanitizedSourceStripsEscapes(t *testing.T) {
	out := renderSource(t, StringSource("safe \x1b[2Jtext\r\n"), testWidth, PlainTheme())
	if out != "safe [2Jtext\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
