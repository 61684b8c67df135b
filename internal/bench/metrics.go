package bench

import (
	"context"
	"fmt"

	sentsplit "github.com/jamesainslie/go-sentsplit"
)

// Config holds evaluation parameters.
type Config struct {
	Tolerance       int // offset match tolerance, in runes
	PrecisionWeight float64
	RecallWeight    float64
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		Tolerance:       3,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Metrics holds evaluation results.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64
}

// Evaluate compares predicted boundaries against ground truth.
// Uses greedy left-to-right matching within tolerance.
func Evaluate(predicted, truth []int, cfg Config) Metrics {
	matched := make([]bool, len(truth))
	tp := 0

	for _, p := range predicted {
		for i, t := range truth {
			if matched[i] {
				continue
			}
			diff := p - t
			if diff < 0 {
				diff = -diff
			}
			if diff <= cfg.Tolerance {
				matched[i] = true
				tp++
				break
			}
		}
	}

	return score(tp, len(predicted)-tp, len(truth)-tp, cfg)
}

// Aggregate sums the counts of several results and recomputes the ratios.
func Aggregate(cfg Config, results ...Metrics) Metrics {
	var tp, fp, fn int
	for _, m := range results {
		tp += m.TruePositives
		fp += m.FalsePositives
		fn += m.FalseNegatives
	}
	return score(tp, fp, fn, cfg)
}

func score(tp, fp, fn int, cfg Config) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*m.Precision + wr*m.Recall) / (wp + wr)
	}

	return m
}

// Predict runs the splitter over doc and returns the predicted boundary
// offsets. Paragraph breaks are not sentences and contribute no boundary.
func Predict(ctx context.Context, s *sentsplit.Splitter, doc *Document) ([]int, error) {
	paragraphs, err := s.SegmentParagraphs(ctx, doc.Text)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", doc.ID, err)
	}

	var sentences []string
	for _, p := range paragraphs {
		sentences = append(sentences, p...)
	}
	return Boundaries(sentences), nil
}

// EvaluateDocument segments doc and scores the result against its gold
// sentences.
func EvaluateDocument(ctx context.Context, s *sentsplit.Splitter, doc *Document, cfg Config) (Metrics, error) {
	predicted, err := Predict(ctx, s, doc)
	if err != nil {
		return Metrics{}, err
	}
	return Evaluate(predicted, doc.Truth(), cfg), nil
}
