package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/hallcount/internal/matcher"
	"github.com/mmynk/hallcount/internal/models"
	"github.com/mmynk/hallcount/internal/storage"
)

const verificationColumns = `id, count_record_id, signature_record_id, head_count, signature_count,
	difference, is_matched, accuracy, status, note, threshold, created_at`

// SaveVerification persists a verification and updates its count record.
func (s *SQLiteStore) SaveVerification(ctx context.Context, v *models.Verification) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = s.now()
	}
	v.Timestamp = storedTime(v.Timestamp)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Signature count and match outcome are written together.
	result, err := tx.ExecContext(ctx,
		"UPDATE count_records SET signature_count = ?, is_matched = ? WHERE id = ?",
		v.SignatureCount, boolToInt(v.IsMatched), v.CountRecordID,
	)
	if err != nil {
		return fmt.Errorf("failed to update count record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("count record %s: %w", v.CountRecordID, storage.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO verifications (`+verificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.CountRecordID,
		v.SignatureRecordID,
		v.HeadCount,
		v.SignatureCount,
		v.Difference,
		boolToInt(v.IsMatched),
		v.Accuracy,
		string(v.Status),
		v.Note,
		v.Threshold,
		toMillis(v.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetVerification retrieves a verification by ID.
func (s *SQLiteStore) GetVerification(ctx context.Context, id string) (*models.Verification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+verificationColumns+` FROM verifications WHERE id = ?`,
		id,
	)

	v, err := scanVerification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verification %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}

	return v, nil
}

// ListVerifications returns the verifications of a count record, newest first.
func (s *SQLiteStore) ListVerifications(ctx context.Context, countRecordID string) ([]*models.Verification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+verificationColumns+` FROM verifications
		WHERE count_record_id = ? ORDER BY created_at DESC, id DESC`,
		countRecordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	defer rows.Close()

	verifications := []*models.Verification{}
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verification: %w", err)
		}
		verifications = append(verifications, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate verifications: %w", err)
	}

	return verifications, nil
}

func scanVerification(row rowScanner) (*models.Verification, error) {
	var (
		v         models.Verification
		isMatched int64
		status    string
		createdAt int64
	)

	err := row.Scan(
		&v.ID,
		&v.CountRecordID,
		&v.SignatureRecordID,
		&v.HeadCount,
		&v.SignatureCount,
		&v.Difference,
		&isMatched,
		&v.Accuracy,
		&status,
		&v.Note,
		&v.Threshold,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	v.IsMatched = isMatched != 0
	v.Status = matcher.Status(status)
	v.Timestamp = fromMillis(createdAt)
	return &v, nil
}
