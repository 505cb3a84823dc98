package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sixjars/jarflow/internal/model"
)

// TrainingJobSpec is the submission payload for a retraining run.
type TrainingJobSpec struct {
	Hyperparameters map[string]string `json:"hyperparameters"`
	JobName         string            `json:"job_name"`
	TrainingDataURI string            `json:"training_data_uri"`
	Algorithm       string            `json:"algorithm"`
	MaxRuntimeSecs  int               `json:"max_runtime_seconds"`
}

// TrainingLauncher submits and polls retraining jobs on the managed
// training service.
type TrainingLauncher struct {
	client *Client
}

// NewTrainingLauncher wraps an endpoint client as a job launcher.
func NewTrainingLauncher(client *Client) *TrainingLauncher {
	return &TrainingLauncher{client: client}
}

// Submit starts a training job and returns the service-assigned job id.
func (l *TrainingLauncher) Submit(ctx context.Context, spec TrainingJobSpec) (string, error) {
	var out struct {
		JobID string `json:"job_id"`
	}
	if err := l.post(ctx, "/jobs", spec, &out); err != nil {
		return "", fmt.Errorf("failed to submit training job: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("training service returned no job id")
	}
	return out.JobID, nil
}

// Status fetches the current status of a submitted job.
func (l *TrainingLauncher) Status(ctx context.Context, jobID string) (model.TrainingStatus, error) {
	url := strings.TrimSuffix(l.client.Endpoint(), "/") + "/jobs/" + jobID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.httpClient.Do(req)
	if err != nil {
		return "", &invokeError{endpoint: url, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &invokeError{endpoint: url, err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &invokeError{endpoint: url, status: resp.StatusCode, err: fmt.Errorf("status request failed: %s", string(body))}
	}

	var out struct {
		Status model.TrainingStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &invokeError{endpoint: url, err: fmt.Errorf("malformed status body: %w", err)}
	}
	return out.Status, nil
}

func (l *TrainingLauncher) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(l.client.Endpoint(), "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.httpClient.Do(req)
	if err != nil {
		return &invokeError{endpoint: url, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &invokeError{endpoint: url, err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &invokeError{endpoint: url, status: resp.StatusCode, err: fmt.Errorf("request failed: %s", string(respBody))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &invokeError{endpoint: url, err: fmt.Errorf("malformed response body: %w", err)}
	}
	return nil
}
