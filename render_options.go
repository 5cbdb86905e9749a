package mdtty

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8        bool
	codeBox     bool
	frontMatter bool
}

func newRenderConfig(opts []RenderOption) renderConfig {
	var cfg renderConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithOSC8 enables or disables OSC 8 hyperlinks around link text.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithCodeBox draws fenced code blocks inside a box. A boxed block is held
// back until its closing fence has arrived.
func WithCodeBox(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.codeBox = enabled
	}
}

// WithFrontMatter strips a front matter block (delimited by ---, +++ or ;;;)
// from the start of the document.
func WithFrontMatter(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.frontMatter = enabled
	}
}
