package toast

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// ansiEscape matches CSI and OSC sequences plus two-byte escapes.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|\x1b[@-Z\\-_]`)

// Terminal returns text made safe to print on one terminal line. Escape
// sequences and control characters are removed and line breaks become
// spaces; everything else, markup included, is kept.
func Terminal(text string) string {
	text = ansiEscape.ReplaceAllString(text, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)
}

var (
	toastClass  = regexp.MustCompile(`^toast toast-[a-z]+$`)
	toastPolicy = newToastPolicy()
)

func newToastPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("class").Matching(toastClass).OnElements("div")
	return p
}

// HTML renders msg as a toast element for HTML listeners. The text is escaped
// so markup in it shows up literally, and the fragment is run through a
// policy that only admits the toast container.
func HTML(msg Message) string {
	kind := msg.Kind
	if kind == "" {
		kind = KindSuccess
	}
	fragment := `<div class="toast toast-` + html.EscapeString(string(kind)) + `">` +
		html.EscapeString(msg.Text) + `</div>`
	return toastPolicy.Sanitize(fragment)
}
