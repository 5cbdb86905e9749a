package mdtty

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Open  = "\x1b]8;;"
	osc8Close = "\x1b\\"
	osc8End   = osc8Open + osc8Close
)

// DetectOSC8Support returns true if the current environment likely supports
// OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("DOMTERM") != "" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}

// hyperlink wraps text in an OSC 8 hyperlink to target.
func hyperlink(target, text string) string {
	return osc8Open + target + osc8Close + text + osc8End
}
