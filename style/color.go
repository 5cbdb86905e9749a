package style

import (
	"sort"
	"strings"
)

// Color is a named ANSI 8/16 color. The zero Color means "no color".
// Colors compare by name, not by code.
type Color struct {
	name string
	fg   int
	bg   int
}

var (
	Black   = Color{"black", 30, 40}
	Red     = Color{"red", 31, 41}
	Green   = Color{"green", 32, 42}
	Yellow  = Color{"yellow", 33, 43}
	Blue    = Color{"blue", 34, 44}
	Magenta = Color{"magenta", 35, 45}
	Cyan    = Color{"cyan", 36, 46}
	White   = Color{"white", 37, 47}

	BrightBlack   = Color{"bright-black", 90, 100}
	BrightRed     = Color{"bright-red", 91, 101}
	BrightGreen   = Color{"bright-green", 92, 102}
	BrightYellow  = Color{"bright-yellow", 93, 103}
	BrightBlue    = Color{"bright-blue", 94, 104}
	BrightMagenta = Color{"bright-magenta", 95, 105}
	BrightCyan    = Color{"bright-cyan", 96, 106}
	BrightWhite   = Color{"bright-white", 97, 107}
)

var colorsByName = func() map[string]Color {
	m := make(map[string]Color, 16)
	for _, c := range []Color{
		Black, Red, Green, Yellow, Blue, Magenta, Cyan, White,
		BrightBlack, BrightRed, BrightGreen, BrightYellow, BrightBlue, BrightMagenta, BrightCyan, BrightWhite,
	} {
		m[c.name] = c
	}
	return m
}()

// ParseColor looks up a color by name. Names are case-insensitive and accept
// "_" or " " in place of "-".
func ParseColor(name string) (Color, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	c, ok := colorsByName[key]
	return c, ok
}

// ColorNames returns the names of all colors, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(colorsByName))
	for name := range colorsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsZero reports whether c is the absence of a color.
func (c Color) IsZero() bool { return c.name == "" }

// Name returns the color name, or "" for the zero Color.
func (c Color) Name() string { return c.name }

// Foreground returns the SGR foreground code, or 0 for the zero Color.
func (c Color) Foreground() int { return c.fg }

// Background returns the SGR background code, or 0 for the zero Color.
func (c Color) Background() int { return c.bg }

func (c Color) String() string {
	if c.name == "" {
		return "none"
	}
	return c.name
}
