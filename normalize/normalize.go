// Package normalize collapses raw text into a single line with explicit
// paragraph markers.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sentinel marks a paragraph break inside normalized text. It is framed by
// NUL bytes, which are stripped from raw input, so it cannot collide with
// real content.
const Sentinel = "\x00¶\x00"

// blankLine matches a newline, any whitespace-only lines, and a newline.
var blankLine = regexp.MustCompile(`\n[\s\v\x{85}\pZ]*\n`)

// Form selects an optional Unicode normalization form applied first.
type Form int

const (
	// None leaves code points untouched.
	None Form = iota
	// NFC applies canonical composition.
	NFC
	// NFKC applies compatibility composition.
	NFKC
)

// ParseForm maps a config value ("", "none", "nfc", "nfkc") to a Form.
func ParseForm(s string) (Form, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, true
	case "nfc":
		return NFC, true
	case "nfkc":
		return NFKC, true
	default:
		return None, false
	}
}

// Option configures Text.
type Option func(*options)

type options struct {
	form Form
}

// WithForm applies the given Unicode normalization form before any
// whitespace handling.
func WithForm(f Form) Option {
	return func(o *options) {
		o.form = f
	}
}

// Text normalizes raw document text:
//   - blank lines become the paragraph Sentinel
//   - every other whitespace run, newlines included, becomes one space
//   - the result is trimmed
//
// Text is idempotent: normalizing its own output returns it unchanged.
func Text(raw string, opts ...Option) string {
	if raw == "" {
		return ""
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Existing sentinels survive as blank lines; stray NULs are dropped.
	parts := strings.Split(raw, Sentinel)
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "\x00", "")
	}
	text := strings.Join(parts, "\n\n")

	switch o.form {
	case NFC:
		text = norm.NFC.String(text)
	case NFKC:
		text = norm.NFKC.String(text)
	}

	text = blankLine.ReplaceAllLiteralString(text, "\n"+Sentinel+"\n")
	return collapse(text)
}

// collapse replaces whitespace runs with a single space and trims both ends.
func collapse(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	needSpace := false

	for _, r := range text {
		if unicode.IsSpace(r) {
			// Only separate once something has been written.
			if builder.Len() > 0 {
				needSpace = true
			}
			continue
		}
		if needSpace {
			builder.WriteByte(' ')
			needSpace = false
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

// Paragraphs splits normalized text on the Sentinel. The sentinel itself is
// not retained. Blank paragraphs are kept so callers see the raw layout.
func Paragraphs(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, Sentinel)
}
