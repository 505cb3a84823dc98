// Package classify implements the transaction classification decision core:
// feature extraction, the rule-based fallback classifier, category-to-jar
// mapping, the review-flag policy, and the orchestration engine that ties
// them together with the remote model endpoint.
package classify

import (
	"context"
	"fmt"

	"github.com/sixjars/jarflow/internal/model"
)

// Prediction is a classifier's raw verdict before jar assignment and
// review flagging.
type Prediction struct {
	Category     string
	Reasoning    string
	Alternatives []model.CategoryScore
	Confidence   float64
}

// Classifier produces a category prediction for an extracted feature set.
// The engine selects between the remote and rule-based implementations.
type Classifier interface {
	Classify(ctx context.Context, features model.FeatureSet) (Prediction, error)
}

// RemoteUnavailableError reports that the managed classification endpoint
// could not produce a usable prediction: transport failure, non-2xx
// status, or a malformed response body. The engine recovers from it by
// falling back to the rule-based classifier; it is never surfaced to
// callers of the orchestration layer.
type RemoteUnavailableError struct {
	Err      error
	Endpoint string
	Status   int
}

func (e *RemoteUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote classifier unavailable (endpoint %s, status %d): %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("remote classifier unavailable (endpoint %s): %v", e.Endpoint, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// InvalidTransactionError rejects a malformed transaction before any
// classification is attempted.
type InvalidTransactionError struct {
	Field  string
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction: %s %s", e.Field, e.Reason)
}
