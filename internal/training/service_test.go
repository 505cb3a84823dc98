package training

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/inference"
	"github.com/sixjars/jarflow/internal/model"
)

type stubFeedbackStore struct {
	records []model.Feedback
	err     error
}

func (s *stubFeedbackStore) AppendFeedback(_ context.Context, _ *model.Feedback) error { return nil }

func (s *stubFeedbackStore) GetFeedbackSince(_ context.Context, _ time.Time) ([]model.Feedback, error) {
	return s.records, s.err
}

func (s *stubFeedbackStore) CountFeedback(_ context.Context) (int, error) {
	return len(s.records), nil
}

type stubTrainingStore struct {
	jobs      map[string]*model.TrainingJob
	snapshots map[string][]byte
}

func newStubTrainingStore() *stubTrainingStore {
	return &stubTrainingStore{
		jobs:      map[string]*model.TrainingJob{},
		snapshots: map[string][]byte{},
	}
}

func (s *stubTrainingStore) SaveTrainingSnapshot(_ context.Context, jobName string, csv []byte) (string, error) {
	s.snapshots[jobName] = csv
	return "sqlite://training_snapshots/" + jobName, nil
}

func (s *stubTrainingStore) SaveTrainingJob(_ context.Context, job *model.TrainingJob) error {
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *stubTrainingStore) GetTrainingJob(_ context.Context, id string) (*model.TrainingJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *stubTrainingStore) UpdateTrainingJobStatus(_ context.Context, id string, status model.TrainingStatus) error {
	job, ok := s.jobs[id]
	if !ok {
		return common.ErrNotFound
	}
	job.Status = status
	return nil
}

type stubLauncher struct {
	submitErr   error
	statusErr   error
	status      model.TrainingStatus
	jobID       string
	lastSpec    inference.TrainingJobSpec
	statusCalls int
}

func (s *stubLauncher) Submit(_ context.Context, spec inference.TrainingJobSpec) (string, error) {
	s.lastSpec = spec
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return s.jobID, nil
}

func (s *stubLauncher) Status(_ context.Context, _ string) (model.TrainingStatus, error) {
	s.statusCalls++
	return s.status, s.statusErr
}

func sampleFeedback() []model.Feedback {
	return []model.Feedback{
		{
			TransactionID:  "txn-1",
			UserID:         "user-1",
			Description:    "WHOLE FOODS MARKET",
			Merchant:       "Whole Foods",
			Amount:         -85.43,
			ActualCategory: "groceries",
			ActualJar:      model.JarNecessities,
			Timestamp:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			TransactionID:  "txn-2",
			UserID:         "user-2",
			Description:    "NETFLIX SUBSCRIPTION",
			Merchant:       "Netflix",
			Amount:         -15.99,
			ActualCategory: "entertainment",
			ActualJar:      model.JarPlay,
			Timestamp:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestRetrain(t *testing.T) {
	store := newStubTrainingStore()
	launcher := &stubLauncher{jobID: "job-123"}
	service := NewService(&stubFeedbackStore{records: sampleFeedback()}, store, launcher, nil)

	job, err := service.Retrain(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "job-123", job.ID)
	assert.True(t, strings.HasPrefix(job.Name, "classification-training-"))
	assert.Equal(t, model.TrainingPending, job.Status)
	assert.Equal(t, 2, job.ExampleCount)
	assert.Equal(t, "sqlite://training_snapshots/"+job.Name, job.DataURI)

	assert.Equal(t, "xgboost", launcher.lastSpec.Algorithm)
	assert.Equal(t, defaultHyperparameters, launcher.lastSpec.Hyperparameters)
	assert.Equal(t, 3600, launcher.lastSpec.MaxRuntimeSecs)

	// Snapshot holds a header plus one row per example, and every row
	// carries the transaction features alongside the label.
	rows, err := csv.NewReader(bytes.NewReader(store.snapshots[job.Name])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"transaction_id", "user_id", "amount", "description", "merchant",
		"category", "jar_type", "timestamp"}, rows[0])
	assert.Equal(t, []string{"txn-1", "user-1", "-85.43", "WHOLE FOODS MARKET", "Whole Foods",
		"groceries", "necessities", "2026-03-01T09:00:00Z"}, rows[1])
	assert.Equal(t, []string{"txn-2", "user-2", "-15.99", "NETFLIX SUBSCRIPTION", "Netflix",
		"entertainment", "play", "2026-03-02T09:00:00Z"}, rows[2])

	// The job record was persisted.
	saved, err := store.GetTrainingJob(context.Background(), "job-123")
	require.NoError(t, err)
	assert.Equal(t, job.Name, saved.Name)
}

func TestRetrainNoFeedback(t *testing.T) {
	service := NewService(&stubFeedbackStore{}, newStubTrainingStore(), &stubLauncher{}, nil)

	_, err := service.Retrain(context.Background(), time.Time{})
	assert.ErrorIs(t, err, common.ErrNoTrainingData)
}

func TestRetrainSubmitFailure(t *testing.T) {
	launcher := &stubLauncher{submitErr: errors.New("quota exceeded")}
	service := NewService(&stubFeedbackStore{records: sampleFeedback()}, newStubTrainingStore(), launcher, nil)

	_, err := service.Retrain(context.Background(), time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start training job")
}

func TestJobStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes in-flight jobs", func(t *testing.T) {
		store := newStubTrainingStore()
		require.NoError(t, store.SaveTrainingJob(ctx, &model.TrainingJob{ID: "job-1", Status: model.TrainingPending}))

		launcher := &stubLauncher{status: model.TrainingRunning}
		service := NewService(&stubFeedbackStore{}, store, launcher, nil)

		job, err := service.JobStatus(ctx, "job-1")
		require.NoError(t, err)
		assert.Equal(t, model.TrainingRunning, job.Status)

		saved, err := store.GetTrainingJob(ctx, "job-1")
		require.NoError(t, err)
		assert.Equal(t, model.TrainingRunning, saved.Status)
	})

	t.Run("terminal jobs are not polled", func(t *testing.T) {
		store := newStubTrainingStore()
		require.NoError(t, store.SaveTrainingJob(ctx, &model.TrainingJob{ID: "job-2", Status: model.TrainingCompleted}))

		launcher := &stubLauncher{status: model.TrainingFailed}
		service := NewService(&stubFeedbackStore{}, store, launcher, nil)

		job, err := service.JobStatus(ctx, "job-2")
		require.NoError(t, err)
		assert.Equal(t, model.TrainingCompleted, job.Status)
		assert.Zero(t, launcher.statusCalls)
	})

	t.Run("launcher failure keeps the stored status", func(t *testing.T) {
		store := newStubTrainingStore()
		require.NoError(t, store.SaveTrainingJob(ctx, &model.TrainingJob{ID: "job-3", Status: model.TrainingRunning}))

		launcher := &stubLauncher{statusErr: errors.New("unreachable")}
		service := NewService(&stubFeedbackStore{}, store, launcher, nil)

		job, err := service.JobStatus(ctx, "job-3")
		require.NoError(t, err)
		assert.Equal(t, model.TrainingRunning, job.Status)
	})

	t.Run("unknown job", func(t *testing.T) {
		service := NewService(&stubFeedbackStore{}, newStubTrainingStore(), &stubLauncher{}, nil)
		_, err := service.JobStatus(ctx, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestPerformance(t *testing.T) {
	service := NewService(&stubFeedbackStore{}, newStubTrainingStore(), &stubLauncher{}, nil)

	perf, err := service.Performance(context.Background(), "v3")
	require.NoError(t, err)
	assert.Equal(t, "v3", perf.ModelVersion)
	assert.Greater(t, perf.Accuracy, 0.0)
	assert.NotEmpty(t, perf.CategoryPerformance)

	_, err = service.Performance(context.Background(), "")
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}
