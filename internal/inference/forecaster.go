package inference

import (
	"context"
	"fmt"
)

// ForecastInput is the instance payload sent to the prediction endpoint.
type ForecastInput struct {
	JarBalances  map[string]float64 `json:"jar_balances,omitempty"`
	UserID       string             `json:"user_id"`
	Horizon      string             `json:"horizon"`
	DailyAverage float64            `json:"daily_average,omitempty"`
	Income       float64            `json:"income,omitempty"`
}

// ForecastOutput is the prediction endpoint's response for one instance.
type ForecastOutput struct {
	Factors         []string `json:"factors"`
	PredictedAmount float64  `json:"predicted_spending"`
	Confidence      float64  `json:"confidence"`
}

// Forecaster calls the managed spending-prediction endpoint.
type Forecaster struct {
	client *Client
}

// NewForecaster wraps an endpoint client as a spending forecaster.
func NewForecaster(client *Client) *Forecaster {
	return &Forecaster{client: client}
}

// Forecast requests a spending forecast for the given input.
func (f *Forecaster) Forecast(ctx context.Context, input ForecastInput) (ForecastOutput, error) {
	var out ForecastOutput
	if err := f.client.invoke(ctx, input, &out); err != nil {
		return ForecastOutput{}, fmt.Errorf("spending forecast failed: %w", err)
	}
	return out, nil
}
