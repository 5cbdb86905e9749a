// Package style is a stack-based terminal style engine.
//
// Every scope entered on an Engine derives a new State from the current one,
// overriding only the attributes it names. Entering and exiting a scope
// re-emits the complete active style: a full reset followed by a single SGR
// sequence for every active attribute. Terminals have no reliable way to unset
// several attributes at once, so the engine never emits diffs.
//
//	e := style.NewEngine(os.Stdout)
//	e.Do(func() {
//		e.Write("warning: ")
//	}, style.Bold(true), style.Fg(style.Yellow))
package style

import (
	"io"
	"strconv"
	"strings"
)

const (
	esc        = "\x1b"
	resetAll   = esc + "[0m"
	hideCursor = esc + "[?25l"
	showCursor = esc + "[?25h"
)

// ResetSequence is the SGR sequence that returns a terminal to its default
// rendition.
const ResetSequence = resetAll

// State is an immutable snapshot of the active style.
type State struct {
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Strike        bool
	Foreground    Color
	Background    Color
	CursorVisible bool
}

// Base is the root state every Engine starts from.
var Base = State{CursorVisible: true}

// Codes returns the SGR parameters for s in emission order.
func (s State) Codes() []int {
	codes := make([]int, 0, 7)
	if s.Bold {
		codes = append(codes, 1)
	}
	if s.Dim {
		codes = append(codes, 2)
	}
	if s.Italic {
		codes = append(codes, 3)
	}
	if s.Underline {
		codes = append(codes, 4)
	}
	if s.Strike {
		codes = append(codes, 9)
	}
	if !s.Foreground.IsZero() {
		codes = append(codes, s.Foreground.Foreground())
	}
	if !s.Background.IsZero() {
		codes = append(codes, s.Background.Background())
	}
	return codes
}

// Sequence returns the escape sequence that selects s from any prior state.
func (s State) Sequence() string {
	var b strings.Builder
	b.WriteString(resetAll)
	if codes := s.Codes(); len(codes) > 0 {
		b.WriteString(esc + "[")
		for i, c := range codes {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(strconv.Itoa(c))
		}
		b.WriteByte('m')
	}
	if !s.CursorVisible {
		b.WriteString(hideCursor)
	}
	return b.String()
}

// Attr overrides one attribute of the state a scope derives from its parent.
type Attr func(*State)

func Bold(on bool) Attr          { return func(s *State) { s.Bold = on } }
func Dim(on bool) Attr           { return func(s *State) { s.Dim = on } }
func Italic(on bool) Attr        { return func(s *State) { s.Italic = on } }
func Underline(on bool) Attr     { return func(s *State) { s.Underline = on } }
func Strike(on bool) Attr        { return func(s *State) { s.Strike = on } }
func CursorVisible(on bool) Attr { return func(s *State) { s.CursorVisible = on } }

// Fg sets the foreground color. The zero Color leaves the parent's color.
func Fg(c Color) Attr {
	return func(s *State) {
		if !c.IsZero() {
			s.Foreground = c
		}
	}
}

// Bg sets the background color. The zero Color leaves the parent's color.
func Bg(c Color) Attr {
	return func(s *State) {
		if !c.IsZero() {
			s.Background = c
		}
	}
}

// Engine tracks nested style scopes and writes styled text to a sink.
// An Engine is not safe for concurrent use.
type Engine struct {
	stack        []State
	w            io.Writer
	raw          bool
	cursorHidden bool
	err          error
}

// NewEngine returns an Engine writing to w.
func NewEngine(w io.Writer) *Engine {
	e := &Engine{w: w}
	e.stack = append(e.stack, Base)
	return e
}

// Scope is the handle returned by Enter. Exit must be called exactly once,
// innermost scope first.
type Scope struct {
	e     *Engine
	depth int
}

// Enter pushes a state derived from the current one and emits it.
func (e *Engine) Enter(attrs ...Attr) Scope {
	state := e.stack[len(e.stack)-1]
	for _, attr := range attrs {
		if attr != nil {
			attr(&state)
		}
	}
	e.stack = append(e.stack, state)
	e.apply(state)
	return Scope{e: e, depth: len(e.stack)}
}

// Exit pops the scope and re-emits its parent state. It panics when s is not
// the innermost open scope.
func (s Scope) Exit() {
	if s.e == nil {
		panic("style: exit of zero scope")
	}
	s.e.exit(s.depth)
}

func (e *Engine) exit(depth int) {
	if len(e.stack) <= 1 {
		panic("style: scope stack underflow")
	}
	if depth != len(e.stack) {
		panic("style: scope exited out of order (depth " + strconv.Itoa(depth) + ", stack " + strconv.Itoa(len(e.stack)) + ")")
	}
	e.stack = e.stack[:len(e.stack)-1]
	e.apply(e.stack[len(e.stack)-1])
}

// Do runs fn inside a scope, releasing it on every exit path. If fn panics,
// scopes it left open are unwound before the panic continues.
func (e *Engine) Do(fn func(), attrs ...Attr) {
	s := e.Enter(attrs...)
	defer func() {
		if r := recover(); r != nil {
			e.Unwind(s.depth - 1)
			panic(r)
		}
		s.Exit()
	}()
	fn()
}

// Unwind pops every scope above depth and emits the resulting state. It is
// meant for abandoning a render; regular code pairs Enter with Exit.
func (e *Engine) Unwind(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth >= len(e.stack) {
		return
	}
	e.stack = e.stack[:depth]
	e.apply(e.stack[depth-1])
}

// Write emits text in the current style.
func (e *Engine) Write(s string) {
	e.emit(s)
}

// Measure runs fn with output captured in memory and style emission disabled,
// and returns the captured text.
func (e *Engine) Measure(fn func()) string {
	var buf strings.Builder
	prevW, prevRaw, prevErr := e.w, e.raw, e.err
	e.w, e.raw, e.err = &buf, true, nil
	defer func() {
		e.w, e.raw, e.err = prevW, prevRaw, prevErr
	}()
	fn()
	return buf.String()
}

// SetRaw enables or disables raw mode and returns the previous setting. In raw
// mode scopes are tracked but no escape sequences are written.
func (e *Engine) SetRaw(raw bool) bool {
	prev := e.raw
	e.raw = raw
	return prev
}

// Raw reports whether raw mode is enabled.
func (e *Engine) Raw() bool { return e.raw }

// Depth returns the number of states on the stack, including the base state.
func (e *Engine) Depth() int { return len(e.stack) }

// Current returns the active state.
func (e *Engine) Current() State { return e.stack[len(e.stack)-1] }

// Reset emits a full reset and shows the cursor if a scope hid it. The stack
// is left untouched.
func (e *Engine) Reset() {
	if e.raw {
		return
	}
	e.emit(resetAll)
	if e.cursorHidden {
		e.emit(showCursor)
		e.cursorHidden = false
	}
}

// Err returns the first error returned by the sink. Once the sink fails all
// further output is dropped.
func (e *Engine) Err() error { return e.err }

func (e *Engine) apply(state State) {
	if e.raw {
		return
	}
	seq := state.Sequence()
	if state.CursorVisible && e.cursorHidden {
		seq += showCursor
	}
	e.cursorHidden = !state.CursorVisible
	e.emit(seq)
}

func (e *Engine) emit(s string) {
	if e.err != nil || s == "" {
		return
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
	}
}
