package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/model"
)

// AppendFeedback stores one human correction. The (partition, transaction)
// key is append-only: writing the same key twice is a duplicate, not an
// update.
func (s *SQLiteStorage) AppendFeedback(ctx context.Context, fb *model.Feedback) error {
	if fb == nil {
		return fmt.Errorf("feedback cannot be nil")
	}
	if fb.TransactionID == "" {
		return fmt.Errorf("feedback transaction id is required")
	}

	timestamp := fb.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (
			partition_key, transaction_id, user_id, amount, description, merchant,
			predicted_category, actual_category,
			predicted_jar, actual_jar,
			confidence, feedback_type, comment, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fb.PartitionKey(), fb.TransactionID, fb.UserID, fb.Amount, fb.Description, fb.Merchant,
		fb.PredictedCategory, fb.ActualCategory,
		string(fb.PredictedJar), string(fb.ActualJar),
		fb.Confidence, string(fb.Kind), fb.Comment, timestamp,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: feedback for transaction %s on %s", common.ErrDuplicateEntry,
				fb.TransactionID, fb.PartitionKey())
		}
		return fmt.Errorf("failed to append feedback: %w", err)
	}

	return nil
}

// GetFeedbackSince returns feedback recorded at or after the given time,
// oldest first.
func (s *SQLiteStorage) GetFeedbackSince(ctx context.Context, since time.Time) ([]model.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, user_id, amount, description, merchant,
			predicted_category, actual_category,
			predicted_jar, actual_jar, confidence, feedback_type,
			COALESCE(comment, ''), created_at
		FROM feedback
		WHERE created_at >= ?
		ORDER BY created_at ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Feedback
	for rows.Next() {
		var fb model.Feedback
		var predictedJar, actualJar, kind string
		if err := rows.Scan(
			&fb.TransactionID, &fb.UserID,
			&fb.Amount, &fb.Description, &fb.Merchant,
			&fb.PredictedCategory, &fb.ActualCategory,
			&predictedJar, &actualJar,
			&fb.Confidence, &kind, &fb.Comment, &fb.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		fb.PredictedJar = model.JarType(predictedJar)
		fb.ActualJar = model.JarType(actualJar)
		fb.Kind = model.FeedbackKind(kind)
		records = append(records, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback rows: %w", err)
	}

	return records, nil
}

// CountFeedback returns the number of recorded feedback entries.
func (s *SQLiteStorage) CountFeedback(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`)
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
