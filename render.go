package mdtty

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"pkt.systems/mdtty/internal/textstream"
	"pkt.systems/mdtty/style"
)

var writerPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(nil, 4096)
	},
}

// RenderRequest configures Render. Exactly one of Source and Reader must be
// set.
type RenderRequest struct {
	Source  Source
	Reader  io.Reader
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
}

// Render renders Markdown from req.Source (or req.Reader) to req.Writer as the
// text arrives. It returns once the source is exhausted, the context is
// cancelled or the source fails; in every case open constructs are closed and
// the terminal is reset before Render returns.
func Render(ctx context.Context, req RenderRequest) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	src := req.Source
	switch {
	case src != nil && req.Reader != nil:
		return fmt.Errorf("render: both source and reader are set")
	case src == nil && req.Reader == nil:
		return fmt.Errorf("render: %w", ErrNoInput)
	case src == nil:
		src = ReaderSource(req.Reader)
	}
	defer func() { _ = closeSource(src) }()

	theme := req.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	cfg := newRenderConfig(req.Options)
	var in Source = sanitizedSource{src: src}
	if cfg.frontMatter {
		in = &frontMatterSource{src: in}
	}

	bw := writerPool.Get().(*bufio.Writer)
	bw.Reset(req.Writer)
	defer func() {
		bw.Reset(nil)
		writerPool.Put(bw)
	}()

	r := newRenderer(bw, LayoutWidth(req.Width, req.Writer), theme.Palette(), cfg)
	r.in = textstream.New(ctx, in, textstream.OnWait(func() { _ = bw.Flush() }))
	defer func() {
		if p := recover(); p != nil {
			r.finish()
			_ = bw.Flush()
			panic(p)
		}
	}()
	r.document()
	r.finish()
	flushErr := bw.Flush()

	if err := r.in.Err(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := r.out.Err(); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("render: write: %w", flushErr)
	}
	return nil
}

// Print renders a complete Markdown document to w with the default theme.
func Print(w io.Writer, markdown string, opts ...RenderOption) error {
	return Render(context.Background(), RenderRequest{
		Source:  StringSource(markdown),
		Writer:  w,
		Options: opts,
	})
}

// renderer is the per-call state shared by the block and inline parsers.
type renderer struct {
	in    *textstream.Stream
	out   *style.Engine
	width int
	hl    style.Color
	cfg   renderConfig
}

func newRenderer(w io.Writer, width int, palette Palette, cfg renderConfig) *renderer {
	r := &renderer{
		out:   style.NewEngine(w),
		width: width,
		hl:    palette.Highlight,
		cfg:   cfg,
	}
	if palette.Plain {
		r.out.SetRaw(true)
		r.cfg.osc8 = false
	}
	return r
}

// finish closes every scope still open and leaves the terminal neutral.
func (r *renderer) finish() {
	r.out.Unwind(1)
	r.out.Reset()
}

// rule returns a horizontal line of n columns.
func rule(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("─", n)
}
