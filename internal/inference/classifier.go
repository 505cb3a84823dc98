package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/sixjars/jarflow/internal/classify"
	"github.com/sixjars/jarflow/internal/model"
)

// RemoteClassifier adapts the managed classification endpoint to the
// engine's Classifier interface. Every failure mode (transport, non-2xx,
// malformed body) surfaces as *classify.RemoteUnavailableError
// so the engine can take its fallback branch. No retries happen here.
type RemoteClassifier struct {
	client *Client
}

// NewRemoteClassifier wraps an endpoint client as a classifier.
func NewRemoteClassifier(client *Client) *RemoteClassifier {
	return &RemoteClassifier{client: client}
}

// endpointPrediction is the prediction shape the endpoint returns.
type endpointPrediction struct {
	Category     string                `json:"category"`
	Reasoning    string                `json:"reasoning"`
	Alternatives []model.CategoryScore `json:"alternatives"`
	Confidence   float64               `json:"confidence"`
}

// Classify sends the feature set to the endpoint and reshapes the
// first prediction.
func (r *RemoteClassifier) Classify(ctx context.Context, features model.FeatureSet) (classify.Prediction, error) {
	var prediction endpointPrediction
	if err := r.client.invoke(ctx, features, &prediction); err != nil {
		return classify.Prediction{}, r.unavailable(err)
	}

	if prediction.Category == "" {
		return classify.Prediction{}, r.unavailable(fmt.Errorf("prediction missing category"))
	}
	if prediction.Confidence < 0 || prediction.Confidence > 1 {
		return classify.Prediction{}, r.unavailable(fmt.Errorf("prediction confidence %.3f outside [0,1]", prediction.Confidence))
	}

	return classify.Prediction{
		Category:     prediction.Category,
		Confidence:   prediction.Confidence,
		Alternatives: prediction.Alternatives,
		Reasoning:    prediction.Reasoning,
	}, nil
}

func (r *RemoteClassifier) unavailable(err error) error {
	status := 0
	var invokeErr *invokeError
	if errors.As(err, &invokeErr) {
		status = invokeErr.status
	}
	return &classify.RemoteUnavailableError{
		Endpoint: r.client.Endpoint(),
		Status:   status,
		Err:      err,
	}
}
