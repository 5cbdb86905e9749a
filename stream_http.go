package mdtty

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const markdownAccept = "text/markdown, text/plain;q=0.9, */*;q=0.1"

// HTTPRenderRequest configures HTTPRender.
type HTTPRenderRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
}

// httpSource streams a response body. Closing it closes the body.
type httpSource struct {
	Source
	body io.Closer
}

func (s *httpSource) Close() error {
	return s.body.Close()
}

// HTTPSource issues a GET for url and returns a Source over the response
// body, read as it arrives. A nil client means http.DefaultClient. The caller
// owns the Source; Render closes it.
func HTTPSource(ctx context.Context, client *http.Client, url string) (Source, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", req.URL.Scheme)
	}
	req.Header.Set("Accept", markdownAccept)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return &httpSource{Source: ReaderSource(resp.Body), body: resp.Body}, nil
}

// HTTPRender fetches Markdown over HTTP(S) and renders the body while it
// arrives.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	if req.URL == "" {
		return fmt.Errorf("http render: URL is required")
	}
	if req.Writer == nil {
		return fmt.Errorf("http render: writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := HTTPSource(ctx, req.Client, req.URL)
	if err != nil {
		return fmt.Errorf("http render: %w", err)
	}
	return Render(ctx, RenderRequest{
		Source:  src,
		Writer:  req.Writer,
		Width:   req.Width,
		Theme:   req.Theme,
		Options: req.Options,
	})
}
