package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixjars/jarflow/internal/config"
	"github.com/sixjars/jarflow/internal/model"
)

func TestTrainingLauncherSubmit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/jobs", r.URL.Path)

		var spec TrainingJobSpec
		require.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
		assert.Equal(t, "classification-training-20260830", spec.JobName)
		assert.Equal(t, "xgboost", spec.Algorithm)

		_, _ = w.Write([]byte(`{"job_id": "job-123"}`))
	}))
	t.Cleanup(server.Close)

	launcher := NewTrainingLauncher(NewClient(server.URL, config.EndpointsConfig{}))

	jobID, err := launcher.Submit(context.Background(), TrainingJobSpec{
		JobName:         "classification-training-20260830",
		TrainingDataURI: "sqlite://training_snapshots/classification-training-20260830",
		Algorithm:       "xgboost",
	})
	require.NoError(t, err)
	assert.Equal(t, "job-123", jobID)
}

func TestTrainingLauncherSubmitErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "service error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			},
		},
		{
			name: "missing job id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			launcher := NewTrainingLauncher(NewClient(server.URL, config.EndpointsConfig{}))
			_, err := launcher.Submit(context.Background(), TrainingJobSpec{JobName: "j"})
			require.Error(t, err)
		})
	}
}

func TestTrainingLauncherStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/jobs/job-123", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "running"}`))
	}))
	t.Cleanup(server.Close)

	launcher := NewTrainingLauncher(NewClient(server.URL, config.EndpointsConfig{}))

	status, err := launcher.Status(context.Background(), "job-123")
	require.NoError(t, err)
	assert.Equal(t, model.TrainingRunning, status)
}

func TestForecasterForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Instances []ForecastInput `json:"instances"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		require.Len(t, envelope.Instances, 1)
		assert.Equal(t, "user-1", envelope.Instances[0].UserID)
		assert.Equal(t, "month", envelope.Instances[0].Horizon)

		_, _ = w.Write([]byte(`{
			"predictions": [{
				"predicted_spending": 4200.50,
				"confidence": 0.78,
				"factors": ["historical average", "seasonality"]
			}]
		}`))
	}))
	t.Cleanup(server.Close)

	forecaster := NewForecaster(NewClient(server.URL, config.EndpointsConfig{}))

	out, err := forecaster.Forecast(context.Background(), ForecastInput{
		UserID:  "user-1",
		Horizon: "month",
	})
	require.NoError(t, err)
	assert.InDelta(t, 4200.50, out.PredictedAmount, 1e-9)
	assert.InDelta(t, 0.78, out.Confidence, 1e-9)
	assert.Equal(t, []string{"historical average", "seasonality"}, out.Factors)
}
