package matcher

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Descriptor
		expected float64
	}{
		{"identical", Descriptor{1, 2, 3}, Descriptor{1, 2, 3}, 0},
		{"unit apart", Descriptor{0, 0}, Descriptor{1, 0}, 1},
		{"pythagorean", Descriptor{0, 0}, Descriptor{3, 4}, 5},
		{"length mismatch", Descriptor{1, 2}, Descriptor{1, 2, 3}, math.MaxFloat64},
		{"empty", Descriptor{}, Descriptor{}, math.MaxFloat64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := EuclideanDistance(tc.a, tc.b)
			if result != tc.expected {
				t.Errorf("EuclideanDistance() = %v; want %v", result, tc.expected)
			}
		})
	}
}

func TestMatchEmptyPool(t *testing.T) {
	result := Match(Descriptor{1, 2, 3}, nil, 0.6)
	if result.Matched {
		t.Errorf("Match() against an empty pool = %+v; want no match", result)
	}
}

func TestMatchBestDescriptorPerEmployee(t *testing.T) {
	// Employee 7 is enrolled with three angles; only the second is close to
	// the probe. The employee must still win via their best descriptor.
	probe := Descriptor{1, 0, 0}
	pool := []Candidate{
		{EmployeeID: 7, Descriptor: Descriptor{9, 9, 9}},
		{EmployeeID: 7, Descriptor: Descriptor{1, 0.4, 0}},
		{EmployeeID: 7, Descriptor: Descriptor{5, 5, 5}},
		{EmployeeID: 9, Descriptor: Descriptor{2, 2, 2}},
	}

	result := Match(probe, pool, 0.6)
	if !result.Matched {
		t.Fatalf("Match() = no match; want employee 7")
	}
	if result.EmployeeID != 7 {
		t.Errorf("Match() employee = %d; want 7", result.EmployeeID)
	}
	if math.Abs(result.Distance-0.4) > 1e-9 {
		t.Errorf("Match() distance = %v; want 0.4", result.Distance)
	}
}

func TestMatchConfidenceFormula(t *testing.T) {
	// Distance 0.4 at threshold 0.6 gives confidence (1 - 0.4/0.6)*100.
	probe := Descriptor{0, 0}
	pool := []Candidate{
		{EmployeeID: 1, Descriptor: Descriptor{0.4, 0}},
	}

	result := Match(probe, pool, 0.6)
	if !result.Matched {
		t.Fatal("Match() = no match; want a match")
	}

	want := (1 - 0.4/0.6) * 100
	if math.Abs(result.Confidence-want) > 1e-9 {
		t.Errorf("Match() confidence = %v; want %v", result.Confidence, want)
	}
}

func TestMatchThreshold(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		threshold float64
		matched   bool
	}{
		{"well inside", 0.3, 0.6, true},
		{"exactly at threshold", 0.6, 0.6, true},
		{"just beyond", 0.6000001, 0.6, false},
		{"far beyond", 2.0, 0.6, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool := []Candidate{
				{EmployeeID: 1, Descriptor: Descriptor{tc.distance, 0}},
			}
			result := Match(Descriptor{0, 0}, pool, tc.threshold)
			if result.Matched != tc.matched {
				t.Errorf("Match() matched = %v; want %v", result.Matched, tc.matched)
			}
		})
	}
}

func TestMatchTieBreakLowestEmployeeID(t *testing.T) {
	probe := Descriptor{0, 0}
	pool := []Candidate{
		{EmployeeID: 42, Descriptor: Descriptor{0.3, 0}},
		{EmployeeID: 5, Descriptor: Descriptor{0, 0.3}},
		{EmployeeID: 17, Descriptor: Descriptor{0, -0.3}},
	}

	for i := 0; i < 50; i++ {
		result := Match(probe, pool, 0.6)
		if !result.Matched || result.EmployeeID != 5 {
			t.Fatalf("Match() run %d = %+v; want employee 5 (lowest id on tie)", i, result)
		}
	}
}

func TestMatchDeterministic(t *testing.T) {
	probe := Descriptor{0.1, 0.2, 0.3}
	pool := []Candidate{
		{EmployeeID: 1, Descriptor: Descriptor{0.1, 0.25, 0.3}},
		{EmployeeID: 2, Descriptor: Descriptor{0.2, 0.2, 0.3}},
		{EmployeeID: 3, Descriptor: Descriptor{0.1, 0.2, 0.4}},
	}

	first := Match(probe, pool, 0.6)
	for i := 0; i < 100; i++ {
		if got := Match(probe, pool, 0.6); got != first {
			t.Fatalf("Match() run %d = %+v; want %+v", i, got, first)
		}
	}
}
