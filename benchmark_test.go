package mdtty

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func benchmarkDoc(n int) string {
	return strings.Repeat(sampleDoc+"\n", n)
}

func BenchmarkRender(b *testing.B) {
	doc := benchmarkDoc(50)
	b.ReportAllocs()
	b.SetBytes(int64(len(doc)))
	var out bytes.Buffer
	out.Grow(len(doc) * 2)
	for b.Loop() {
		out.Reset()
		_ = Render(context.Background(), RenderRequest{
			Source: StringSource(doc),
			Writer: &out,
			Width:  80,
			Theme:  DefaultTheme(),
		})
	}
}

func BenchmarkRenderFragments(b *testing.B) {
	doc := benchmarkDoc(20)
	for _, size := range []int{1, 4, 32, 512} {
		b.Run("chunk-"+strconv.Itoa(size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(doc)))
			for b.Loop() {
				_ = Render(context.Background(), RenderRequest{
					Source: SplitSource(doc, size),
					Writer: io.Discard,
					Width:  80,
					Theme:  DefaultTheme(),
				})
			}
		})
	}
}

func BenchmarkRenderReader(b *testing.B) {
	data := []byte(benchmarkDoc(50))
	b.ReportAllocs()
	reader := bytes.NewReader(data)
	for b.Loop() {
		reader.Reset(data)
		_ = Render(context.Background(), RenderRequest{
			Reader: reader,
			Writer: io.Discard,
			Width:  80,
			Theme:  PlainTheme(),
		})
	}
}

func BenchmarkHTTPRender(b *testing.B) {
	data := []byte(benchmarkDoc(20))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	b.ReportAllocs()
	for b.Loop() {
		if err := HTTPRender(context.Background(), HTTPRenderRequest{
			URL:    server.URL,
			Writer: io.Discard,
			Width:  80,
			Theme:  DefaultTheme(),
		}); err != nil {
			b.Fatalf("http render: %v", err)
		}
	}
}
