package bench

import (
	"context"
	"math"
	"testing"

	sentsplit "github.com/jamesainslie/go-sentsplit"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		predicted []int
		truth     []int
		tolerance int
		wantTP    int
		wantFP    int
		wantFN    int
	}{
		{
			name:      "perfect match",
			predicted: []int{10, 20, 30},
			truth:     []int{10, 20, 30},
			tolerance: 0,
			wantTP:    3,
		},
		{
			name:      "within tolerance",
			predicted: []int{11, 19, 31},
			truth:     []int{10, 20, 30},
			tolerance: 2,
			wantTP:    3,
		},
		{
			name:      "outside tolerance",
			predicted: []int{14},
			truth:     []int{10},
			tolerance: 3,
			wantFP:    1,
			wantFN:    1,
		},
		{
			name:      "false positive",
			predicted: []int{10, 15, 20},
			truth:     []int{10, 20},
			tolerance: 0,
			wantTP:    2,
			wantFP:    1,
		},
		{
			name:      "false negative",
			predicted: []int{10},
			truth:     []int{10, 20},
			tolerance: 0,
			wantTP:    1,
			wantFN:    1,
		},
		{
			name:      "truth matched once",
			predicted: []int{10, 11},
			truth:     []int{10},
			tolerance: 2,
			wantTP:    1,
			wantFP:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Tolerance: tt.tolerance}
			got := Evaluate(tt.predicted, tt.truth, cfg)

			if got.TruePositives != tt.wantTP {
				t.Errorf("TruePositives = %d, want %d", got.TruePositives, tt.wantTP)
			}
			if got.FalsePositives != tt.wantFP {
				t.Errorf("FalsePositives = %d, want %d", got.FalsePositives, tt.wantFP)
			}
			if got.FalseNegatives != tt.wantFN {
				t.Errorf("FalseNegatives = %d, want %d", got.FalseNegatives, tt.wantFN)
			}
		})
	}
}

func TestEvaluate_Empty(t *testing.T) {
	m := Evaluate(nil, nil, DefaultConfig())
	if m.Precision != 0 || m.Recall != 0 || m.F1 != 0 || m.WeightedScore != 0 {
		t.Errorf("Evaluate(nil, nil) = %+v, want zero ratios", m)
	}
}

func TestAggregate(t *testing.T) {
	a := Metrics{TruePositives: 1, FalsePositives: 1}
	b := Metrics{TruePositives: 1, FalseNegatives: 1}

	got := Aggregate(DefaultConfig(), a, b)

	if got.TruePositives != 2 || got.FalsePositives != 1 || got.FalseNegatives != 1 {
		t.Errorf("counts = %+v", got)
	}
	if math.Abs(got.Precision-2.0/3) > 1e-9 || math.Abs(got.Recall-2.0/3) > 1e-9 {
		t.Errorf("Precision = %v, Recall = %v; want 2/3", got.Precision, got.Recall)
	}
}

func TestWeightedScore(t *testing.T) {
	cfg := Config{PrecisionWeight: 3, RecallWeight: 1}
	// Precision 1, recall 0.5.
	got := Evaluate([]int{10}, []int{10, 20}, cfg)

	want := (3*1.0 + 1*0.5) / 4
	if math.Abs(got.WeightedScore-want) > 1e-9 {
		t.Errorf("WeightedScore = %v, want %v", got.WeightedScore, want)
	}
}

func TestEvaluateDocument(t *testing.T) {
	_, doc, err := ParseText(goldSample)
	if err != nil {
		t.Fatal(err)
	}
	doc.ID = "sample"

	m, err := EvaluateDocument(context.Background(), sentsplit.New(), doc, DefaultConfig())
	if err != nil {
		t.Fatalf("EvaluateDocument() error = %v", err)
	}

	if m.TruePositives != 3 || m.FalsePositives != 0 || m.FalseNegatives != 0 {
		t.Errorf("metrics = %+v, want 3 true positives", m)
	}
	if m.F1 != 1 {
		t.Errorf("F1 = %v, want 1", m.F1)
	}
}

func TestPredict_SentenceEqualToMarker(t *testing.T) {
	_, doc, err := ParseText("# Title: Marker\n\nStop.\nGo on.\n\nEnd.\n")
	if err != nil {
		t.Fatal(err)
	}

	s := sentsplit.New(sentsplit.WithParagraphMarker("Stop."))
	got, err := Predict(context.Background(), s, doc)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	want := doc.Truth()
	if len(got) != len(want) {
		t.Fatalf("Predict() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("boundary %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEvaluateDocument_Cancelled(t *testing.T) {
	_, doc, _ := ParseText(goldSample)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := EvaluateDocument(ctx, sentsplit.New(), doc, DefaultConfig()); err == nil {
		t.Error("expected error from cancelled context")
	}
}
