package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/hallcount/internal/models"
	"github.com/mmynk/hallcount/internal/storage"
)

// CreateSignatureRecord persists a new signature record.
func (s *SQLiteStore) CreateSignatureRecord(ctx context.Context, record *models.SignatureRecord) error {
	if record.SignatureCount < 0 {
		return fmt.Errorf("signature count must be non-negative, got %d", record.SignatureCount)
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}
	record.Timestamp = storedTime(record.Timestamp)
	if record.Pages == 0 {
		record.Pages = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO signature_records (id, image_url, signature_count, confidence, pages, session_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.ImageURL,
		record.SignatureCount,
		record.Confidence,
		record.Pages,
		record.SessionName,
		toMillis(record.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert signature record: %w", err)
	}

	return nil
}

// GetSignatureRecord retrieves a signature record by ID.
func (s *SQLiteStore) GetSignatureRecord(ctx context.Context, id string) (*models.SignatureRecord, error) {
	record := &models.SignatureRecord{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, image_url, signature_count, confidence, pages, session_name, created_at
		FROM signature_records WHERE id = ?`,
		id,
	).Scan(
		&record.ID,
		&record.ImageURL,
		&record.SignatureCount,
		&record.Confidence,
		&record.Pages,
		&record.SessionName,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("signature record %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signature record: %w", err)
	}

	record.Timestamp = fromMillis(createdAt)
	return record, nil
}
