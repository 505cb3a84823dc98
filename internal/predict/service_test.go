package predict

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixjars/jarflow/internal/coach"
	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/inference"
	"github.com/sixjars/jarflow/internal/model"
)

type stubForecaster struct {
	out       inference.ForecastOutput
	err       error
	lastInput inference.ForecastInput
}

func (s *stubForecaster) Forecast(_ context.Context, input inference.ForecastInput) (inference.ForecastOutput, error) {
	s.lastInput = input
	return s.out, s.err
}

type failingContextProvider struct{}

func (failingContextProvider) UserContext(_ context.Context, _ string) (*model.ContextData, error) {
	return nil, errors.New("context service down")
}

func TestPredictSpending(t *testing.T) {
	forecaster := &stubForecaster{
		out: inference.ForecastOutput{
			PredictedAmount: 4200.50,
			Confidence:      0.78,
			Factors:         []string{"historical average"},
		},
	}
	service := NewService(forecaster, coach.StaticContextProvider{}, nil)

	forecast, err := service.PredictSpending(context.Background(), "user-1", "week")
	require.NoError(t, err)

	assert.NotEmpty(t, forecast.PredictionID)
	assert.Equal(t, "user-1", forecast.UserID)
	assert.Equal(t, "week", forecast.Horizon)
	assert.InDelta(t, 4200.50, forecast.PredictedAmount, 1e-9)
	assert.InDelta(t, 0.78, forecast.Confidence, 1e-9)
	assert.Equal(t, []string{"historical average"}, forecast.Factors)
	assert.False(t, forecast.GeneratedAt.IsZero())

	// Context enrichment made it into the endpoint call.
	assert.InDelta(t, 150.0, forecaster.lastInput.DailyAverage, 1e-9)
	assert.InDelta(t, 5000.0, forecaster.lastInput.Income, 1e-9)
	assert.InDelta(t, 2500.0, forecaster.lastInput.JarBalances["necessities"], 1e-9)
}

func TestPredictSpendingDefaultHorizon(t *testing.T) {
	forecaster := &stubForecaster{}
	service := NewService(forecaster, nil, nil)

	forecast, err := service.PredictSpending(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, "month", forecast.Horizon)
	assert.Equal(t, "month", forecaster.lastInput.Horizon)
}

func TestPredictSpendingRequiresUser(t *testing.T) {
	service := NewService(&stubForecaster{}, nil, nil)

	_, err := service.PredictSpending(context.Background(), "", "month")
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestPredictSpendingContextFailureDegrades(t *testing.T) {
	forecaster := &stubForecaster{out: inference.ForecastOutput{PredictedAmount: 100}}
	service := NewService(forecaster, failingContextProvider{}, nil)

	forecast, err := service.PredictSpending(context.Background(), "user-1", "month")
	require.NoError(t, err, "a failing context provider never fails the forecast")
	assert.InDelta(t, 100.0, forecast.PredictedAmount, 1e-9)
	assert.Zero(t, forecaster.lastInput.Income)
}

func TestPredictSpendingEndpointFailure(t *testing.T) {
	forecaster := &stubForecaster{err: errors.New("endpoint unreachable")}
	service := NewService(forecaster, nil, nil)

	_, err := service.PredictSpending(context.Background(), "user-1", "month")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spending prediction failed")
}
