package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/adaptiq-labs/practice_api/model"
)

func makePool(weights []float64) []WeightedCandidate {
	pool := make([]WeightedCandidate, len(weights))
	for i, w := range weights {
		pool[i] = WeightedCandidate{
			Candidate: Candidate{
				Question:      model.Question{ID: fmt.Sprintf("q%d", i), Difficulty: 1 + i%5},
				TopicWeight:   10,
				SubjectWeight: 10,
			},
			Weight: w,
		}
	}
	return pool
}

func TestSampleReturnsExactlyKDistinct(t *testing.T) {
	testCases := []struct {
		name     string
		poolSize int
		k        int
		expected int
	}{
		{"k smaller than pool", 50, 10, 10},
		{"k equals pool", 10, 10, 10},
		{"k larger than pool", 5, 10, 5},
		{"single draw", 20, 1, 1},
		{"empty pool", 0, 10, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			weights := make([]float64, tc.poolSize)
			for i := range weights {
				weights[i] = float64(1 + i)
			}

			sampler := NewSampler(rand.New(rand.NewSource(42)))
			got := sampler.Sample(makePool(weights), tc.k)

			if len(got) != tc.expected {
				t.Fatalf("expected %d selected, got %d", tc.expected, len(got))
			}

			seen := make(map[string]bool)
			for _, wc := range got {
				if seen[wc.Question.ID] {
					t.Errorf("question %s selected twice", wc.Question.ID)
				}
				seen[wc.Question.ID] = true
			}
		})
	}
}

func TestSampleWholePoolReturnedUnmodified(t *testing.T) {
	pool := makePool([]float64{5, 3, 8})
	sampler := NewSampler(rand.New(rand.NewSource(1)))

	got := sampler.Sample(pool, 3)

	if len(got) != 3 {
		t.Fatalf("expected full pool, got %d items", len(got))
	}
	for i := range pool {
		if got[i].Question.ID != pool[i].Question.ID {
			t.Errorf("expected pool order preserved at %d, got %s", i, got[i].Question.ID)
		}
	}
}

func TestSampleDeterministicWithFixedSeed(t *testing.T) {
	weights := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	first := NewSampler(rand.New(rand.NewSource(7))).Sample(makePool(weights), 4)
	second := NewSampler(rand.New(rand.NewSource(7))).Sample(makePool(weights), 4)

	for i := range first {
		if first[i].Question.ID != second[i].Question.ID {
			t.Fatalf("same seed produced different draws at %d: %s vs %s",
				i, first[i].Question.ID, second[i].Question.ID)
		}
	}
}

func TestSampleZeroWeightStillSelectable(t *testing.T) {
	// One item with weight 0 among zeros must still come out: the floor
	// clamp keeps every item in the draw.
	pool := makePool([]float64{0, 0, 0})
	sampler := NewSampler(rand.New(rand.NewSource(3)))

	got := sampler.Sample(pool, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 selected from zero-weight pool, got %d", len(got))
	}
}

func TestSampleHeavyWeightDominates(t *testing.T) {
	// A 1000x weight difference should win most draws over many runs.
	weights := []float64{1000, 1, 1, 1, 1}

	wins := 0
	for seed := int64(0); seed < 100; seed++ {
		sampler := NewSampler(rand.New(rand.NewSource(seed)))
		got := sampler.Sample(makePool(weights), 1)
		if got[0].Question.ID == "q0" {
			wins++
		}
	}

	if wins < 90 {
		t.Errorf("heavy item won only %d/100 draws", wins)
	}
}
