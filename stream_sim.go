package mdtty

import (
	"context"
	"fmt"
	"io"
	"time"
)

// StreamSimulateRequest configures StreamSimulate.
type StreamSimulateRequest struct {
	Reader    io.Reader
	Writer    io.Writer
	Width     int
	Theme     Theme
	ChunkSize int
	Delay     time.Duration
	Options   []RenderOption
}

// StreamSimulate renders Markdown from Reader as if it arrived from a model:
// in fragments of ChunkSize characters, Delay apart.
func StreamSimulate(ctx context.Context, req StreamSimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("stream simulate: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("stream simulate: writer is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("stream simulate: chunk size must be > 0")
	}
	return Render(ctx, RenderRequest{
		Source: &pacedSource{
			src:   ReaderSource(req.Reader),
			size:  req.ChunkSize,
			delay: req.Delay,
		},
		Writer:  req.Writer,
		Width:   req.Width,
		Theme:   req.Theme,
		Options: req.Options,
	})
}
