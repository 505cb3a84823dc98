// Package service defines the interfaces shared across application services.
package service

import (
	"context"
	"time"

	"github.com/sixjars/jarflow/internal/model"
)

// FeedbackStore is the append-only persistence contract for human
// classification corrections. Records are keyed by (date partition,
// transaction id); no read-back is required by the classification core,
// but the training service consumes the stream.
type FeedbackStore interface {
	AppendFeedback(ctx context.Context, fb *model.Feedback) error
	GetFeedbackSince(ctx context.Context, since time.Time) ([]model.Feedback, error)
	CountFeedback(ctx context.Context) (int, error)
}

// TrainingStore persists assembled training snapshots and job records.
type TrainingStore interface {
	SaveTrainingSnapshot(ctx context.Context, jobName string, csv []byte) (uri string, err error)
	SaveTrainingJob(ctx context.Context, job *model.TrainingJob) error
	GetTrainingJob(ctx context.Context, id string) (*model.TrainingJob, error)
	UpdateTrainingJobStatus(ctx context.Context, id string, status model.TrainingStatus) error
}

// SessionStore records coaching sessions for follow-up and analysis.
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.CoachingSession) error
	GetSession(ctx context.Context, sessionID string) (*model.CoachingSession, error)
}

// ContextProvider aggregates the user context the AI coach grounds its
// advice in. Implemented by an upstream data service; a static provider
// backs development and tests.
type ContextProvider interface {
	UserContext(ctx context.Context, userID string) (*model.ContextData, error)
}

// Pinger is anything that can answer a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
