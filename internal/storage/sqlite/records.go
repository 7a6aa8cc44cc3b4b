package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/hallcount/internal/models"
	"github.com/mmynk/hallcount/internal/storage"
)

const countRecordColumns = `id, head_count, confidence, session_name, image_size, counter,
	signature_count, is_matched, created_at`

// CreateCountRecord persists a new count record.
func (s *SQLiteStore) CreateCountRecord(ctx context.Context, record *models.CountRecord) error {
	if record.HeadCount < 0 {
		return fmt.Errorf("head count must be non-negative, got %d", record.HeadCount)
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}
	record.Timestamp = storedTime(record.Timestamp)

	var signatureCount, isMatched sql.NullInt64
	if record.Comparison != nil {
		signatureCount = sql.NullInt64{Int64: int64(record.Comparison.SignatureCount), Valid: true}
		isMatched = sql.NullInt64{Int64: int64(boolToInt(record.Comparison.IsMatched)), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO count_records (`+countRecordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.HeadCount,
		record.Confidence,
		record.SessionName,
		record.ImageSize,
		record.Counter,
		signatureCount,
		isMatched,
		toMillis(record.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert count record: %w", err)
	}

	return nil
}

// GetCountRecord retrieves a count record by ID.
func (s *SQLiteStore) GetCountRecord(ctx context.Context, id string) (*models.CountRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+countRecordColumns+` FROM count_records WHERE id = ?`,
		id,
	)

	record, err := scanCountRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("count record %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get count record: %w", err)
	}

	return record, nil
}

// ListCountRecords returns count records matching the filter.
func (s *SQLiteStore) ListCountRecords(ctx context.Context, filter storage.ListFilter) ([]*models.CountRecord, error) {
	order, err := orderClause(filter.Sort)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + countRecordColumns + ` FROM count_records`
	var args []any

	if search := strings.TrimSpace(filter.Search); search != "" {
		query += ` WHERE instr(lower(session_name), lower(?)) > 0 OR instr(id, ?) > 0`
		args = append(args, search, search)
	}

	query += ` ORDER BY ` + order
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list count records: %w", err)
	}
	defer rows.Close()

	records := []*models.CountRecord{}
	for rows.Next() {
		record, err := scanCountRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan count record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate count records: %w", err)
	}

	return records, nil
}

// DeleteCountRecord removes a count record and its verifications.
func (s *SQLiteStore) DeleteCountRecord(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM verifications WHERE count_record_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete verifications: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM count_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete count record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("count record %s: %w", id, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func orderClause(sort storage.SortOrder) (string, error) {
	switch sort {
	case "", storage.SortNewest:
		return "created_at DESC, id DESC", nil
	case storage.SortOldest:
		return "created_at ASC, id ASC", nil
	case storage.SortHighest:
		return "head_count DESC, created_at DESC", nil
	case storage.SortLowest:
		return "head_count ASC, created_at DESC", nil
	default:
		return "", fmt.Errorf("unknown sort order %q", sort)
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCountRecord(row rowScanner) (*models.CountRecord, error) {
	var (
		record         models.CountRecord
		signatureCount sql.NullInt64
		isMatched      sql.NullInt64
		createdAt      int64
	)

	err := row.Scan(
		&record.ID,
		&record.HeadCount,
		&record.Confidence,
		&record.SessionName,
		&record.ImageSize,
		&record.Counter,
		&signatureCount,
		&isMatched,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.Timestamp = fromMillis(createdAt)
	if signatureCount.Valid && isMatched.Valid {
		record.Comparison = &models.Comparison{
			SignatureCount: int(signatureCount.Int64),
			IsMatched:      isMatched.Int64 != 0,
		}
	}

	return &record, nil
}
