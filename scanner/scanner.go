// Package scanner implements the per-paragraph sentence boundary scanner.
//
// The scanner walks one paragraph of normalized text a rune at a time and
// decides, at every '.', '!' or '?', whether the sentence ends there. The
// checks run in a fixed order:
//
//  1. quote/paren guard (short-circuits everything else)
//  2. ellipsis detection
//  3. abbreviation detection (periods that are not part of an ellipsis)
//  4. dialogue attribution guard (only on boundaries that survived 1-3)
package scanner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jamesainslie/go-sentsplit/abbrev"
)

// lookahead is the number of runes inspected after an ellipsis.
const lookahead = 19

// multiPart matches words like "Ph.D." and "U.S.".
var multiPart = regexp.MustCompile(`^(?:[A-Za-z]+\.){2,}$`)

// Verdict is the outcome of evaluating one terminator.
type Verdict int

const (
	// Boundary means the terminator ends the sentence.
	Boundary Verdict = iota
	// InsideQuote means an odd number of double quotes is open.
	InsideQuote
	// InsideParens means more '(' than ')' have been seen.
	InsideParens
	// OpenEllipsis means an ellipsis not followed by a capital letter.
	OpenEllipsis
	// Abbreviation means the period belongs to an abbreviation.
	Abbreviation
	// DialogueAttribution means a quoted utterance continues into its
	// attribution.
	DialogueAttribution
)

func (v Verdict) String() string {
	switch v {
	case Boundary:
		return "boundary"
	case InsideQuote:
		return "inside-quote"
	case InsideParens:
		return "inside-parens"
	case OpenEllipsis:
		return "open-ellipsis"
	case Abbreviation:
		return "abbreviation"
	case DialogueAttribution:
		return "dialogue-attribution"
	default:
		return "unknown"
	}
}

// Decision records how one terminator was classified.
type Decision struct {
	Offset   int    // rune offset of the terminator in the paragraph
	Char     rune   // the terminator
	Ellipsis bool   // three dots were consumed
	Word     string // last word of the buffer at decision time
	Verdict  Verdict
}

// Scan splits one paragraph into trimmed, non-empty sentences.
func Scan(paragraph string, abbreviations abbrev.Set) []string {
	return scan(paragraph, abbreviations, nil)
}

// Explain is Scan plus the decision taken at every terminator.
func Explain(paragraph string, abbreviations abbrev.Set) ([]string, []Decision) {
	var decisions []Decision
	sentences := scan(paragraph, abbreviations, func(d Decision) {
		decisions = append(decisions, d)
	})
	return sentences, decisions
}

func scan(paragraph string, abbreviations abbrev.Set, record func(Decision)) []string {
	runes := []rune(paragraph)

	var (
		sentences []string
		buf       strings.Builder
		quotes    int
		opens     int
		closes    int
	)

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			sentences = append(sentences, s)
		}
		buf.Reset()
		quotes, opens, closes = 0, 0, 0
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		buf.WriteRune(r)

		switch r {
		case '"':
			quotes++
		case '(':
			opens++
		case ')':
			closes++
		}

		if !isTerminator(r) {
			continue
		}

		d := Decision{Offset: i, Char: r}

		switch {
		case quotes%2 != 0:
			d.Verdict = InsideQuote
		case opens > closes:
			d.Verdict = InsideParens
		default:
			if r == '.' && i+2 < len(runes) && runes[i+1] == '.' && runes[i+2] == '.' {
				d.Ellipsis = true
				buf.WriteString("..")
				i += 2
				end := min(i+1+lookahead, len(runes))
				if !capitalFollows(runes[i+1 : end]) {
					d.Verdict = OpenEllipsis
				}
			} else if r == '.' {
				d.Word = lastWord(buf.String())
				if isAbbreviation(d.Word, runes, i, abbreviations) {
					d.Verdict = Abbreviation
				}
			}

			if d.Verdict == Boundary && dialogueAttribution(buf.String()) {
				d.Verdict = DialogueAttribution
			}
		}

		if d.Word == "" {
			d.Word = lastWord(buf.String())
		}
		if record != nil {
			record(d)
		}

		if d.Verdict == Boundary {
			flush()
		}
	}

	flush()
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// isAbbreviation applies the abbreviation heuristics to the period at
// runes[i], whose buffer ends in word.
func isAbbreviation(word string, runes []rune, i int, abbreviations abbrev.Set) bool {
	if word == "" {
		return false
	}

	if multiPart.MatchString(word) {
		return true
	}

	// Single letter and a period, e.g. "p." in "p.m.".
	if w := []rune(word); len(w) == 2 && unicode.IsLetter(w[0]) && w[1] == '.' {
		return true
	}

	// Mid-way through something like "Ph.D.": a letter then a period.
	if i+2 < len(runes) && unicode.IsLetter(runes[i+1]) && runes[i+2] == '.' {
		return true
	}

	return abbreviations.Contains(strings.TrimRight(word, ".")) || abbreviations.Contains(word)
}

// capitalFollows reports whether window, after leading whitespace, starts
// with an ASCII upper-case letter.
func capitalFollows(window []rune) bool {
	for _, r := range window {
		if unicode.IsSpace(r) {
			continue
		}
		return r >= 'A' && r <= 'Z'
	}
	return false
}

// dialogueAttribution reports whether buf starts (after whitespace) with a
// quoted utterance ending in a terminator, followed by optional whitespace
// and a lower-case letter, as in `"Stop!" she said`.
func dialogueAttribution(buf string) bool {
	s := strings.TrimLeftFunc(buf, unicode.IsSpace)
	rest, ok := strings.CutPrefix(s, `"`)
	if !ok {
		return false
	}

	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return false
	}

	inner := rest[:end]
	if utf8.RuneCountInString(inner) < 2 {
		return false
	}
	if last, _ := utf8.DecodeLastRuneInString(inner); !isTerminator(last) {
		return false
	}

	after := strings.TrimLeftFunc(rest[end+1:], unicode.IsSpace)
	return after != "" && after[0] >= 'a' && after[0] <= 'z'
}
