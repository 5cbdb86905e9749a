package mdtty

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// fitURL shortens url to at most limit columns, dropping the scheme first and
// then truncating with an ellipsis.
func fitURL(url string, limit int) string {
	if limit <= 0 || ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
		url = trimmed
	}
	if limit == 1 {
		return "…"
	}
	return truncate.StringWithTail(url, uint(limit), "…")
}
