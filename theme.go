package mdtty

import (
	"sort"
	"strings"

	"pkt.systems/mdtty/style"
)

// Palette holds the colors a theme contributes to rendering.
type Palette struct {
	// Highlight colors headings, emphasis, list markers and link text.
	Highlight style.Color
	// Plain disables escape sequences entirely. Layout is unchanged.
	Plain bool
}

// Theme provides a named palette for Markdown rendering.
type Theme interface {
	Name() string
	Palette() Palette
}

type theme struct {
	name    string
	palette Palette
}

func (t theme) Name() string     { return t.name }
func (t theme) Palette() Palette { return t.palette }

// NewTheme returns a Theme from a Palette.
func NewTheme(name string, palette Palette) Theme {
	return theme{name: name, palette: palette}
}

func highlight(c style.Color) Palette {
	return Palette{Highlight: c}
}

var builtinThemes = map[string]Theme{
	"default":         theme{name: "default", palette: highlight(style.Magenta)},
	"plain":           theme{name: "plain", palette: Palette{Plain: true}},
	"outrun-electric": theme{name: "outrun-electric", palette: highlight(style.BrightMagenta)},
	"synthwave-84":    theme{name: "synthwave-84", palette: highlight(style.BrightCyan)},
	"nord":            theme{name: "nord", palette: highlight(style.Cyan)},
	"tokyo-night":     theme{name: "tokyo-night", palette: highlight(style.BrightBlue)},
	"gruvbox":         theme{name: "gruvbox", palette: highlight(style.Yellow)},
	"solarized-dark":  theme{name: "solarized-dark", palette: highlight(style.BrightYellow)},
	"everforest":      theme{name: "everforest", palette: highlight(style.Green)},
	"monokai-vibrant": theme{name: "monokai-vibrant", palette: highlight(style.BrightGreen)},
	"github-dark":     theme{name: "github-dark", palette: highlight(style.Blue)},
	"rose-pine":       theme{name: "rose-pine", palette: highlight(style.BrightRed)},
	"dracula":         theme{name: "dracula", palette: highlight(style.BrightMagenta)},
	"mono":            theme{name: "mono", palette: Palette{}},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name. A bare color name such as
// "cyan" or "bright-green" yields a theme highlighting in that color.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	if t, ok := builtinThemes[normalized]; ok {
		return t, true
	}
	if c, ok := style.ParseColor(normalized); ok {
		return theme{name: c.Name(), palette: highlight(c)}, true
	}
	return nil, false
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// PlainTheme returns a theme that writes no escape sequences.
func PlainTheme() Theme {
	return builtinThemes["plain"]
}
