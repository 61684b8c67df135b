package sentsplit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-sentsplit/abbrev"
	"github.com/jamesainslie/go-sentsplit/normalize"
	"github.com/jamesainslie/go-sentsplit/scanner"
)

// Splitter turns raw text into sentences and paragraph markers.
// It is safe for concurrent use.
type Splitter struct {
	abbreviations abbrev.Set
	marker        string
	form          normalize.Form
	workers       int
	logger        *slog.Logger
}

// New creates a Splitter.
func New(opts ...Option) *Splitter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Splitter{
		abbreviations: cfg.abbreviations,
		marker:        cfg.marker,
		form:          cfg.form,
		workers:       cfg.workers,
		logger:        cfg.logger,
	}
}

// Split splits text with the given abbreviation set and default options.
func Split(text string, abbreviations abbrev.Set) []string {
	return New(WithAbbreviations(abbreviations)).Split(text)
}

// Marker returns the paragraph-break token this Splitter emits.
func (s *Splitter) Marker() string {
	return s.marker
}

// Abbreviations returns the abbreviation set in use.
func (s *Splitter) Abbreviations() abbrev.Set {
	return s.abbreviations
}

// Split splits text into sentences and paragraph markers. It never fails.
func (s *Splitter) Split(text string) []string {
	tokens, _ := s.Segment(context.Background(), text)
	return tokens
}

// Segment splits text into sentences and paragraph markers. The only error
// it returns is ctx's, checked between paragraphs.
func (s *Splitter) Segment(ctx context.Context, text string) ([]string, error) {
	paragraphs, err := s.SegmentParagraphs(ctx, text)
	if err != nil {
		return nil, err
	}

	var tokens []string
	for i, sentences := range paragraphs {
		if i > 0 {
			tokens = append(tokens, s.marker)
		}
		tokens = append(tokens, sentences...)
	}
	return tokens, nil
}

// SegmentParagraphs splits text into the sentences of each non-blank
// paragraph. Unlike Segment, the paragraph structure stays explicit, so a
// sentence that happens to equal the marker is still a sentence.
func (s *Splitter) SegmentParagraphs(ctx context.Context, text string) ([][]string, error) {
	normalized := normalize.Text(text, normalize.WithForm(s.form))
	if normalized == "" {
		return nil, nil
	}

	// Blank paragraphs come from leading, trailing or repeated breaks and
	// contribute neither sentences nor markers.
	var paragraphs []string
	for _, p := range normalize.Paragraphs(normalized) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	scanned, err := s.scanParagraphs(ctx, paragraphs)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("segmented text",
		"paragraphs", len(paragraphs),
		"workers", s.workers,
	)

	return scanned, nil
}

// scanParagraphs scans every paragraph, concurrently when workers > 1,
// keeping results in paragraph order.
func (s *Splitter) scanParagraphs(ctx context.Context, paragraphs []string) ([][]string, error) {
	out := make([][]string, len(paragraphs))

	if s.workers <= 1 || len(paragraphs) < 2 {
		for i, p := range paragraphs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = scanner.Scan(p, s.abbreviations)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range paragraphs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = scanner.Scan(p, s.abbreviations)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// SplitFile reads the whole file at path and splits it. The text is only
// split once it has been read completely.
func (s *Splitter) SplitFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}

	return s.Split(string(data)), nil
}
