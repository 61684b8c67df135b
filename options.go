package sentsplit

import (
	"log/slog"

	"github.com/jamesainslie/go-sentsplit/abbrev"
	"github.com/jamesainslie/go-sentsplit/normalize"
)

// DefaultParagraphMarker is the token emitted between paragraphs.
const DefaultParagraphMarker = "[PARAGRAPH BREAK]"

// Option configures a Splitter.
type Option func(*config)

type config struct {
	abbreviations abbrev.Set
	marker        string
	form          normalize.Form
	workers       int
	logger        *slog.Logger
}

func defaultConfig() config {
	return config{
		abbreviations: abbrev.Default(),
		marker:        DefaultParagraphMarker,
		form:          normalize.None,
		workers:       1,
		logger:        slog.Default(),
	}
}

// WithAbbreviations sets the abbreviation set (default: abbrev.Default()).
func WithAbbreviations(set abbrev.Set) Option {
	return func(c *config) {
		c.abbreviations = set
	}
}

// WithParagraphMarker sets the paragraph-break token (default: "[PARAGRAPH BREAK]").
func WithParagraphMarker(marker string) Option {
	return func(c *config) {
		if marker != "" {
			c.marker = marker
		}
	}
}

// WithUnicodeForm applies a Unicode normalization form before splitting
// (default: normalize.None).
func WithUnicodeForm(f normalize.Form) Option {
	return func(c *config) {
		c.form = f
	}
}

// WithWorkers sets how many paragraphs are scanned concurrently (default: 1).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
