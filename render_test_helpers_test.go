package mdtty

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"pkt.systems/mdtty/internal/textstream"
)

// testWidth keeps layout independent of the terminal running the tests.
const testWidth = 40

var ansiRegexp = regexp.MustCompile("\x1b\\[[0-9;?]*[A-Za-z]")

// stripANSI returns the visible text of s, without SGR sequences or OSC 8
// hyperlink markers.
func stripANSI(s string) string {
	return xansi.Strip(s)
}

func renderSource(t *testing.T, src Source, width int, theme Theme, opts ...RenderOption) string {
	t.Helper()
	var out bytes.Buffer
	err := Render(t.Context(), RenderRequest{
		Source:  src,
		Writer:  &out,
		Width:   width,
		Theme:   theme,
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out.String()
}

// renderPlain renders src without escape sequences at testWidth.
func renderPlain(t *testing.T, src string, opts ...RenderOption) string {
	t.Helper()
	return renderSource(t, StringSource(src), testWidth, PlainTheme(), opts...)
}

func renderPlainWidth(t *testing.T, src string, width int, opts ...RenderOption) string {
	t.Helper()
	return renderSource(t, StringSource(src), width, PlainTheme(), opts...)
}

func renderWithTheme(t *testing.T, src string, theme Theme, opts ...RenderOption) string {
	t.Helper()
	return renderSource(t, StringSource(src), testWidth, theme, opts...)
}

func assertRender(t *testing.T, src, want string, opts ...RenderOption) {
	t.Helper()
	if got := renderPlain(t, src, opts...); got != want {
		t.Fatalf("render %q\n---want---\n%s\n---got---\n%s\n(%q)", src, want, got, got)
	}
}

// newTestRenderer returns a renderer reading src and writing to out, for
// tests that inspect the style stack directly.
func newTestRenderer(src string, out *bytes.Buffer, cfg renderConfig) *renderer {
	r := newRenderer(out, testWidth, DefaultTheme().Palette(), cfg)
	r.in = textstream.New(context.Background(), StringSource(src))
	return r
}
