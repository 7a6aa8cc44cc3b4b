// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/hallcount/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// SortOrder controls the ordering of ListCountRecords.
type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

// ParseSortOrder validates a sort order name. The empty string means SortNewest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortHighest:
		return SortHighest, nil
	case SortLowest:
		return SortLowest, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// ListFilter narrows and orders the session history.
type ListFilter struct {
	// Search matches a case-insensitive substring of the session name, or a
	// substring of the record ID. Empty matches everything.
	Search string

	// Sort defaults to SortNewest.
	Sort SortOrder

	// Limit caps the number of records returned. Zero means no limit.
	Limit int
}

// Stats summarises stored data.
type Stats struct {
	CountRecords     int
	SignatureRecords int
	Verifications    int
	Verified         int
	// MeanAccuracy is the mean verification accuracy, 0 when there are none.
	MeanAccuracy float64
}

// Store defines the interface for record storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateCountRecord persists a new count record.
	// ID and Timestamp are populated by the store when empty.
	CreateCountRecord(ctx context.Context, record *models.CountRecord) error

	// GetCountRecord retrieves a count record by ID.
	// Returns ErrNotFound if the record does not exist.
	GetCountRecord(ctx context.Context, id string) (*models.CountRecord, error)

	// ListCountRecords returns the session history.
	ListCountRecords(ctx context.Context, filter ListFilter) ([]*models.CountRecord, error)

	// DeleteCountRecord removes a count record and its verifications.
	// Returns ErrNotFound if the record does not exist.
	DeleteCountRecord(ctx context.Context, id string) error

	// CreateSignatureRecord persists a new signature record.
	// ID and Timestamp are populated by the store when empty.
	CreateSignatureRecord(ctx context.Context, record *models.SignatureRecord) error

	// GetSignatureRecord retrieves a signature record by ID.
	// Returns ErrNotFound if the record does not exist.
	GetSignatureRecord(ctx context.Context, id string) (*models.SignatureRecord, error)

	// SaveVerification persists a verification and, in the same transaction,
	// stores the signature count and match outcome on its count record.
	// Returns ErrNotFound if the count record does not exist.
	SaveVerification(ctx context.Context, v *models.Verification) error

	// GetVerification retrieves a verification by ID.
	GetVerification(ctx context.Context, id string) (*models.Verification, error)

	// ListVerifications returns the verifications of a count record, newest first.
	ListVerifications(ctx context.Context, countRecordID string) ([]*models.Verification, error)

	// Stats returns aggregate counts.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases any resources held by the store.
	Close() error
}
