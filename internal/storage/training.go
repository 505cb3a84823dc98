package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/model"
)

// SaveTrainingSnapshot stores the assembled training CSV and returns the
// URI the training job is pointed at.
func (s *SQLiteStorage) SaveTrainingSnapshot(ctx context.Context, jobName string, csv []byte) (string, error) {
	if jobName == "" {
		return "", fmt.Errorf("job name is required")
	}
	if len(csv) == 0 {
		return "", common.ErrNoTrainingData
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO training_snapshots (job_name, csv, created_at)
		VALUES (?, ?, ?)`, jobName, csv, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to save training snapshot: %w", err)
	}

	return fmt.Sprintf("sqlite://training_snapshots/%s", jobName), nil
}

// SaveTrainingJob records a submitted training job.
func (s *SQLiteStorage) SaveTrainingJob(ctx context.Context, job *model.TrainingJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("training job id is required")
	}

	hyperparameters, err := json.Marshal(job.Hyperparameters)
	if err != nil {
		return fmt.Errorf("failed to marshal hyperparameters: %w", err)
	}

	var completedAt any
	if !job.CompletedAt.IsZero() {
		completedAt = job.CompletedAt
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO training_jobs (
			id, name, status, data_uri, hyperparameters,
			example_count, started_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Name, string(job.Status), job.DataURI,
		string(hyperparameters), job.ExampleCount, job.StartedAt, completedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save training job: %w", err)
	}

	return nil
}

// GetTrainingJob fetches one training job by id.
func (s *SQLiteStorage) GetTrainingJob(ctx context.Context, id string) (*model.TrainingJob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, data_uri, COALESCE(hyperparameters, '{}'),
			example_count, started_at, completed_at
		FROM training_jobs WHERE id = ?`, id)

	var job model.TrainingJob
	var status, hyperparameters string
	var completedAt sql.NullTime
	err := row.Scan(&job.ID, &job.Name, &status, &job.DataURI,
		&hyperparameters, &job.ExampleCount, &job.StartedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: training job %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training job: %w", err)
	}

	job.Status = model.TrainingStatus(status)
	if completedAt.Valid {
		job.CompletedAt = completedAt.Time
	}
	if err := json.Unmarshal([]byte(hyperparameters), &job.Hyperparameters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hyperparameters: %w", err)
	}

	return &job, nil
}

// UpdateTrainingJobStatus moves a job to a new lifecycle status.
func (s *SQLiteStorage) UpdateTrainingJobStatus(ctx context.Context, id string, status model.TrainingStatus) error {
	var completedAt any
	switch status {
	case model.TrainingCompleted, model.TrainingFailed, model.TrainingStopped:
		completedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE training_jobs SET status = ?, completed_at = COALESCE(?, completed_at)
		WHERE id = ?`, string(status), completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update training job status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: training job %s", common.ErrNotFound, id)
	}

	return nil
}
