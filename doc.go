// Package sentsplit splits natural-language text into sentences and
// paragraph-break markers using punctuation heuristics.
//
// # Quick Start
//
//	tokens := sentsplit.Split(text, abbrev.Default())
//	for _, tok := range tokens {
//	    fmt.Println(tok)
//	}
//
// Or, with options:
//
//	s := sentsplit.New(
//	    sentsplit.WithAbbreviations(set),
//	    sentsplit.WithParagraphMarker("<p>"),
//	    sentsplit.WithWorkers(4),
//	)
//	tokens, err := s.Segment(ctx, text)
//
// # Output
//
// The result is an ordered list of strings. Each is either a trimmed,
// non-empty sentence or the paragraph marker (default "[PARAGRAPH BREAK]"),
// which appears only between non-empty paragraphs.
//
// # Thread Safety
//
// Splitter is immutable after New and safe for concurrent use. With
// WithWorkers, paragraphs of a single document are scanned concurrently and
// reassembled in document order.
package sentsplit
