package form

import (
	"regexp"
	"strings"
	"unicode"
)

var wordSeparators = regexp.MustCompile(`[_\-\s]+`)

// Humanize turns a field name or element id such as "full_name" or "otpEmail"
// into "Full Name" / "Otp Email". It is the last fallback when a required
// field carries neither a placeholder nor a label.
func Humanize(name string) string {
	if name == "" {
		return ""
	}
	var words []string
	for _, chunk := range wordSeparators.Split(name, -1) {
		if chunk == "" {
			continue
		}
		for _, word := range splitCamel(chunk) {
			words = append(words, capitalize(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) []string {
	runes := []rune(input)
	var (
		out   []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		if (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur)) {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	return append(out, string(runes[start:]))
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// displayName is the name used in "<name> is required" messages: the
// placeholder the user sees in the empty input, then the label, then a
// humanised name.
func displayName(f Field) string {
	if p := strings.TrimSpace(f.Placeholder); p != "" {
		return p
	}
	if l := strings.TrimSpace(f.Label); l != "" {
		return l
	}
	if f.Name != "" {
		return Humanize(f.Name)
	}
	return Humanize(f.ID)
}

// DisplayName is the name prompts and validation messages refer to the field
// by.
func (f Field) DisplayName() string {
	return displayName(f)
}
