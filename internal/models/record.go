package models

import (
	"time"

	"github.com/mmynk/hallcount/internal/matcher"
)

// ConfidenceLevel buckets a detector confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// LevelOf returns the bucket for a confidence in [0, 1].
func LevelOf(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.9:
		return ConfidenceHigh
	case confidence >= 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// CountRecord is the result of counting heads in a lecture hall image.
type CountRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// HeadCount is the number of people detected.
	HeadCount int

	// Confidence is the detector confidence in [0, 1].
	Confidence float64

	// Timestamp is when the scan completed.
	Timestamp time.Time

	// SessionName optionally labels the lecture (e.g. "CS 101 - Morning").
	SessionName string

	// ImageSize is the size in bytes of the scanned image.
	ImageSize int

	// Counter names the counter implementation that produced HeadCount.
	Counter string

	// Comparison is nil until the record has been compared against a
	// signature count.
	Comparison *Comparison
}

// Comparison holds the outcome of comparing a CountRecord with signatures.
// Keeping both values in one struct means they are either both present or
// both absent.
type Comparison struct {
	SignatureCount int
	IsMatched      bool
}

// SetComparison records the signature count and matcher outcome.
func (r *CountRecord) SetComparison(signatureCount int, result matcher.Result) {
	r.Comparison = &Comparison{
		SignatureCount: signatureCount,
		IsMatched:      result.IsMatched,
	}
}

// SignatureCount returns the compared signature count, if any.
func (r *CountRecord) SignatureCount() (int, bool) {
	if r.Comparison == nil {
		return 0, false
	}
	return r.Comparison.SignatureCount, true
}

// IsMatched returns the match outcome, if the record has been compared.
func (r *CountRecord) IsMatched() (bool, bool) {
	if r.Comparison == nil {
		return false, false
	}
	return r.Comparison.IsMatched, true
}

// ConfidenceLevel buckets the record confidence.
func (r *CountRecord) ConfidenceLevel() ConfidenceLevel {
	return LevelOf(r.Confidence)
}

// SignatureRecord is the result of counting signatures on sign-in sheets.
type SignatureRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// ImageURL references the first scanned page ("sha256:<hex>").
	// Raw image bytes are never stored.
	ImageURL string

	// SignatureCount is the total across all pages.
	SignatureCount int

	// Confidence is the mean page confidence in [0, 1].
	Confidence float64

	// Pages is the number of sheet images scanned.
	Pages int

	// Timestamp is when the scan completed.
	Timestamp time.Time

	// SessionName optionally labels the lecture.
	SessionName string
}
