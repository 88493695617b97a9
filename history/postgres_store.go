package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore implements Store backed by the predictions table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Store over an open database handle
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add inserts a new prediction record
func (s *PostgresStore) Add(ctx context.Context, rec *Record) error {
	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	prepare(rec)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, attributes, will_churn, feature_count, model_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, attrs, rec.WillChurn, rec.FeatureCount, rec.ModelPath, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// Get retrieves a prediction record by ID
func (s *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, attributes, will_churn, feature_count, model_path, created_at
		FROM predictions
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return rec, nil
}

// ListRecent returns the newest prediction records
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, attributes, will_churn, feature_count, model_path, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		rec   Record
		attrs []byte
	)
	if err := sc.Scan(&rec.ID, &attrs, &rec.WillChurn, &rec.FeatureCount, &rec.ModelPath, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &rec.Attributes); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
