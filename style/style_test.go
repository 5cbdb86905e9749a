package style

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterReappliesFullState(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)

	outer := e.Enter(Bold(true), Fg(Magenta))
	assert.Equal(t, "\x1b[0m\x1b[1;35m", out.String())

	out.Reset()
	inner := e.Enter(Italic(true), Bg(Blue))
	assert.Equal(t, "\x1b[0m\x1b[1;3;35;44m", out.String(), "inner scope inherits parent attributes")

	out.Reset()
	inner.Exit()
	assert.Equal(t, "\x1b[0m\x1b[1;35m", out.String())

	out.Reset()
	outer.Exit()
	assert.Equal(t, "\x1b[0m", out.String())
	assert.Equal(t, 1, e.Depth())
}

func TestCodeOrder(t *testing.T) {
	s := State{Bold: true, Dim: true, Italic: true, Underline: true, Strike: true, Foreground: Red, Background: Green}
	assert.Equal(t, []int{1, 2, 3, 4, 9, 31, 42}, s.Codes())
	assert.Equal(t, "\x1b[0m", Base.Sequence())
}

func TestOverrideCanClearAttribute(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	bold := e.Enter(Bold(true), Italic(true))
	plain := e.Enter(Bold(false))
	assert.False(t, e.Current().Bold)
	assert.True(t, e.Current().Italic)
	plain.Exit()
	assert.True(t, e.Current().Bold)
	bold.Exit()
}

func TestCursorVisibility(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	s := e.Enter(CursorVisible(false))
	assert.Equal(t, "\x1b[0m\x1b[?25l", out.String())
	out.Reset()
	s.Exit()
	assert.Equal(t, "\x1b[0m\x1b[?25h", out.String())

	out.Reset()
	e.Enter(CursorVisible(false))
	out.Reset()
	e.Reset()
	assert.Equal(t, "\x1b[0m\x1b[?25h", out.String())
}

func TestExitMisuseFailsFast(t *testing.T) {
	e := NewEngine(&bytes.Buffer{})
	outer := e.Enter(Bold(true))
	inner := e.Enter(Dim(true))
	assert.Panics(t, func() { outer.Exit() }, "outer exit before inner")
	inner.Exit()
	outer.Exit()
	assert.Panics(t, func() { outer.Exit() }, "double exit")
	assert.Panics(t, func() { Scope{}.Exit() }, "zero scope")
	assert.Equal(t, 1, e.Depth())
}

func TestDoReleasesOnPanic(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	require.Panics(t, func() {
		e.Do(func() {
			e.Enter(Italic(true))
			panic("boom")
		}, Bold(true))
	})
	assert.Equal(t, 1, e.Depth())
	assert.Equal(t, Base, e.Current())
}

func TestRawModeTracksWithoutEmitting(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	prev := e.SetRaw(true)
	assert.False(t, prev)
	e.Do(func() {
		e.Write("text")
		assert.True(t, e.Current().Bold)
	}, Bold(true))
	e.Reset()
	assert.Equal(t, "text", out.String())
}

func TestMeasureCapturesPlainText(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	s := e.Enter(Fg(Cyan))
	out.Reset()
	got := e.Measure(func() {
		e.Do(func() { e.Write("bold") }, Bold(true))
		e.Write(" plain")
	})
	assert.Equal(t, "bold plain", got)
	assert.Empty(t, out.String(), "nothing reaches the real sink while measuring")
	assert.False(t, e.Raw())
	e.Write("after")
	assert.Equal(t, "after", out.String())
	s.Exit()
}

type failWriter struct{ n int }

func (f *failWriter) Write(p []byte) (int, error) {
	f.n++
	return 0, errors.New("closed")
}

func TestWriteErrorIsSticky(t *testing.T) {
	w := &failWriter{}
	e := NewEngine(w)
	e.Write("a")
	e.Write("b")
	e.Do(func() {}, Bold(true))
	require.Error(t, e.Err())
	assert.Equal(t, 1, w.n)
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("Bright_Magenta")
	require.True(t, ok)
	assert.Equal(t, BrightMagenta, c)
	assert.Equal(t, 95, c.Foreground())
	assert.Equal(t, 105, c.Background())
	_, ok = ParseColor("mauve")
	assert.False(t, ok)
	assert.Len(t, ColorNames(), 16)
	assert.Equal(t, "none", Color{}.String())
}
