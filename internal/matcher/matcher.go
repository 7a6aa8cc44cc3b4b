// Package matcher decides whether a head count and a signature count agree.
package matcher

import (
	"errors"
	"fmt"
)

// DefaultThreshold is the largest difference still considered a match.
const DefaultThreshold = 1

// MinorDiscrepancyLimit is the largest unmatched difference reported as a
// minor discrepancy rather than a major one.
const MinorDiscrepancyLimit = 5

// ErrInvalidInput is returned for negative counts or thresholds.
var ErrInvalidInput = errors.New("invalid input")

// Result is the outcome of comparing two counts.
type Result struct {
	// Difference is |headCount - signatureCount|.
	Difference int
	// IsMatched reports whether Difference is within the matcher threshold.
	IsMatched bool
	// Accuracy is 100 * min/max, in [0, 100]. Two zero counts are 100.
	Accuracy float64
}

// Status is the verification tier of a Result.
type Status string

const (
	StatusVerified         Status = "verified"
	StatusMinorDiscrepancy Status = "minor_discrepancy"
	StatusMajorDiscrepancy Status = "major_discrepancy"
)

// Matcher compares counts using a fixed threshold.
type Matcher struct {
	threshold int
}

// New creates a Matcher. The threshold must be non-negative.
func New(threshold int) (*Matcher, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must be non-negative, got %d", ErrInvalidInput, threshold)
	}
	return &Matcher{threshold: threshold}, nil
}

// Default returns a Matcher using DefaultThreshold.
func Default() *Matcher {
	return &Matcher{threshold: DefaultThreshold}
}

// Threshold returns the configured threshold.
func (m *Matcher) Threshold() int {
	return m.threshold
}

// Match compares headCount against signatureCount.
func (m *Matcher) Match(headCount, signatureCount int) (Result, error) {
	if headCount < 0 || signatureCount < 0 {
		return Result{}, fmt.Errorf("%w: counts must be non-negative (heads=%d, signatures=%d)",
			ErrInvalidInput, headCount, signatureCount)
	}

	lo, hi := headCount, signatureCount
	if lo > hi {
		lo, hi = hi, lo
	}
	difference := hi - lo

	return Result{
		Difference: difference,
		IsMatched:  difference <= m.threshold,
		Accuracy:   accuracy(lo, hi),
	}, nil
}

// Match compares the counts using DefaultThreshold.
func Match(headCount, signatureCount int) (Result, error) {
	return Default().Match(headCount, signatureCount)
}

func accuracy(lo, hi int) float64 {
	if hi == 0 {
		return 100
	}
	a := 100 * float64(lo) / float64(hi)
	return min(max(a, 0), 100)
}

// Classify maps a Result to its verification tier.
func Classify(r Result) Status {
	switch {
	case r.IsMatched:
		return StatusVerified
	case r.Difference <= MinorDiscrepancyLimit:
		return StatusMinorDiscrepancy
	default:
		return StatusMajorDiscrepancy
	}
}

// Explain returns a one-line description of what a discrepancy likely means.
func Explain(headCount, signatureCount int, r Result) string {
	if r.IsMatched {
		return "Attendance records match. No signs of fake signatures detected."
	}
	if headCount > signatureCount {
		return fmt.Sprintf("%s may have attended without signing, or signatures may be unclear.",
			plural(r.Difference, "person", "people"))
	}
	if r.Difference == 1 {
		return "1 signature may be a duplicate or from someone who left early."
	}
	return fmt.Sprintf("%d signatures may be duplicates or from people who left early.", r.Difference)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
