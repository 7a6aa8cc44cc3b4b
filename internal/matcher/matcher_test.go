package matcher

import (
	"errors"
	"math"
	"testing"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name           string
		headCount      int
		signatureCount int
		wantDifference int
		wantMatched    bool
		wantAccuracy   float64
	}{
		{name: "both zero", headCount: 0, signatureCount: 0, wantDifference: 0, wantMatched: true, wantAccuracy: 100},
		{name: "equal counts", headCount: 42, signatureCount: 42, wantDifference: 0, wantMatched: true, wantAccuracy: 100},
		{name: "off by one is matched", headCount: 10, signatureCount: 9, wantDifference: 1, wantMatched: true, wantAccuracy: 90},
		{name: "large gap", headCount: 10, signatureCount: 5, wantDifference: 5, wantMatched: false, wantAccuracy: 50},
		{name: "more signatures than heads", headCount: 30, signatureCount: 40, wantDifference: 10, wantMatched: false, wantAccuracy: 75},
		{name: "off by two is not matched", headCount: 20, signatureCount: 18, wantDifference: 2, wantMatched: false, wantAccuracy: 90},
		{name: "one side zero", headCount: 0, signatureCount: 12, wantDifference: 12, wantMatched: false, wantAccuracy: 0},
		{name: "one and zero", headCount: 1, signatureCount: 0, wantDifference: 1, wantMatched: true, wantAccuracy: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.headCount, tt.signatureCount)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got.Difference != tt.wantDifference {
				t.Errorf("Difference = %d, want %d", got.Difference, tt.wantDifference)
			}
			if got.IsMatched != tt.wantMatched {
				t.Errorf("IsMatched = %v, want %v", got.IsMatched, tt.wantMatched)
			}
			if math.Abs(got.Accuracy-tt.wantAccuracy) > 1e-9 {
				t.Errorf("Accuracy = %v, want %v", got.Accuracy, tt.wantAccuracy)
			}
		})
	}
}

func TestMatch_EqualCountsAlwaysVerified(t *testing.T) {
	for n := 0; n <= 500; n++ {
		got, err := Match(n, n)
		if err != nil {
			t.Fatalf("Match(%d, %d) error = %v", n, n, err)
		}
		if got != (Result{Difference: 0, IsMatched: true, Accuracy: 100}) {
			t.Fatalf("Match(%d, %d) = %+v", n, n, got)
		}
	}
}

func TestMatch_Symmetric(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for a := 0; a <= 60; a++ {
		for b := 0; b <= 60; b++ {
			ab, err := m.Match(a, b)
			if err != nil {
				t.Fatalf("Match(%d, %d) error = %v", a, b, err)
			}
			ba, err := m.Match(b, a)
			if err != nil {
				t.Fatalf("Match(%d, %d) error = %v", b, a, err)
			}
			if ab.Difference != ba.Difference || ab.Accuracy != ba.Accuracy || ab.IsMatched != ba.IsMatched {
				t.Fatalf("Match(%d, %d) = %+v but Match(%d, %d) = %+v", a, b, ab, b, a, ba)
			}
			if ab.Accuracy < 0 || ab.Accuracy > 100 {
				t.Fatalf("Match(%d, %d) accuracy %v out of range", a, b, ab.Accuracy)
			}
		}
	}
}

func TestMatch_InvalidInput(t *testing.T) {
	tests := []struct {
		name           string
		headCount      int
		signatureCount int
	}{
		{"negative heads", -1, 5},
		{"negative signatures", 5, -1},
		{"both negative", -3, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Match(tt.headCount, tt.signatureCount)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Match(%d, %d) error = %v, want ErrInvalidInput", tt.headCount, tt.signatureCount, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(-1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("New(-1) error = %v, want ErrInvalidInput", err)
	}

	m, err := New(0)
	if err != nil {
		t.Fatalf("New(0) error = %v", err)
	}
	got, _ := m.Match(10, 9)
	if got.IsMatched {
		t.Error("threshold 0 should not match a difference of 1")
	}

	m, err = New(2)
	if err != nil {
		t.Fatalf("New(2) error = %v", err)
	}
	if m.Threshold() != 2 {
		t.Errorf("Threshold() = %d, want 2", m.Threshold())
	}
	got, _ = m.Match(20, 18)
	if !got.IsMatched {
		t.Error("threshold 2 should match a difference of 2")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   Status
	}{
		{"matched", Result{Difference: 1, IsMatched: true}, StatusVerified},
		{"small gap", Result{Difference: 3}, StatusMinorDiscrepancy},
		{"gap at limit", Result{Difference: MinorDiscrepancyLimit}, StatusMinorDiscrepancy},
		{"large gap", Result{Difference: MinorDiscrepancyLimit + 1}, StatusMajorDiscrepancy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.result); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name           string
		headCount      int
		signatureCount int
		want           string
	}{
		{"matched", 10, 10, "Attendance records match. No signs of fake signatures detected."},
		{"missing signatures", 30, 20, "10 people may have attended without signing, or signatures may be unclear."},
		{"extra signatures", 20, 30, "10 signatures may be duplicates or from people who left early."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Match(tt.headCount, tt.signatureCount)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got := Explain(tt.headCount, tt.signatureCount, r); got != tt.want {
				t.Errorf("Explain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExplain_Singular(t *testing.T) {
	m, _ := New(0)
	r, _ := m.Match(5, 4)
	if got := Explain(5, 4, r); got != "1 person may have attended without signing, or signatures may be unclear." {
		t.Errorf("Explain() = %q", got)
	}
	r, _ = m.Match(4, 5)
	if got := Explain(4, 5, r); got != "1 signature may be a duplicate or from someone who left early." {
		t.Errorf("Explain() = %q", got)
	}
}
