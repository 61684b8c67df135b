package bench

import (
	"context"
	"sort"

	sentsplit "github.com/jamesainslie/go-sentsplit"
	"github.com/jamesainslie/go-sentsplit/abbrev"
)

// Candidate is a named abbreviation set to evaluate.
type Candidate struct {
	Name string
	Set  abbrev.Set
}

// Result holds aggregate metrics for one candidate.
type Result struct {
	Name      string
	Entries   int
	Metrics   Metrics
	Documents map[string]Metrics
}

// Compare evaluates every candidate over docs and returns results sorted by
// weighted score, best first. opts are applied to every Splitter before the
// candidate's abbreviation set.
func Compare(ctx context.Context, docs []*Document, candidates []Candidate, cfg Config, opts ...sentsplit.Option) ([]Result, error) {
	results := make([]Result, 0, len(candidates))

	for _, c := range candidates {
		seg := sentsplit.New(append(opts[:len(opts):len(opts)], sentsplit.WithAbbreviations(c.Set))...)

		perDoc := make(map[string]Metrics, len(docs))
		all := make([]Metrics, 0, len(docs))
		for _, doc := range docs {
			m, err := EvaluateDocument(ctx, seg, doc, cfg)
			if err != nil {
				return nil, err
			}
			perDoc[doc.ID] = m
			all = append(all, m)
		}

		results = append(results, Result{
			Name:      c.Name,
			Entries:   c.Set.Len(),
			Metrics:   Aggregate(cfg, all...),
			Documents: perDoc,
		})
	}

	// Sort by weighted score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
	})

	return results, nil
}
