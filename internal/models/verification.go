package models

import (
	"time"

	"github.com/mmynk/hallcount/internal/matcher"
)

// Verification is a persisted comparison of a head count and a signature count.
type Verification struct {
	ID                string
	CountRecordID     string
	SignatureRecordID string

	HeadCount      int
	SignatureCount int

	Difference int
	IsMatched  bool
	Accuracy   float64
	Status     matcher.Status

	// Note explains the discrepancy in plain words.
	Note string

	// Threshold is the matcher threshold in effect when comparing.
	Threshold int

	Timestamp time.Time
}

// NewVerification builds a Verification from a matcher result.
func NewVerification(count *CountRecord, signatures *SignatureRecord, threshold int, result matcher.Result) *Verification {
	return &Verification{
		CountRecordID:     count.ID,
		SignatureRecordID: signatures.ID,
		HeadCount:         count.HeadCount,
		SignatureCount:    signatures.SignatureCount,
		Difference:        result.Difference,
		IsMatched:         result.IsMatched,
		Accuracy:          result.Accuracy,
		Status:            matcher.Classify(result),
		Note:              matcher.Explain(count.HeadCount, signatures.SignatureCount, result),
		Threshold:         threshold,
	}
}
