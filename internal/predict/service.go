// Package predict wraps the managed spending-prediction endpoint in a
// user-facing service.
package predict

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/inference"
	"github.com/sixjars/jarflow/internal/model"
	"github.com/sixjars/jarflow/internal/service"
)

// Forecaster is the slice of the inference package this service needs.
type Forecaster interface {
	Forecast(ctx context.Context, input inference.ForecastInput) (inference.ForecastOutput, error)
}

// Service produces spending forecasts.
type Service struct {
	forecaster Forecaster
	contexts   service.ContextProvider
	logger     *slog.Logger
}

// NewService creates a prediction service.
func NewService(forecaster Forecaster, contexts service.ContextProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		forecaster: forecaster,
		contexts:   contexts,
		logger:     logger,
	}
}

// PredictSpending forecasts a user's spending over the given horizon.
func (s *Service) PredictSpending(ctx context.Context, userID, horizon string) (*model.SpendingForecast, error) {
	if userID == "" {
		return nil, common.NewUserError("user id is required", nil)
	}
	if horizon == "" {
		horizon = "month"
	}

	input := inference.ForecastInput{
		UserID:  userID,
		Horizon: horizon,
	}

	if s.contexts != nil {
		data, err := s.contexts.UserContext(ctx, userID)
		if err != nil {
			s.logger.Warn("user context unavailable for forecast", "user_id", userID, "error", err)
		} else {
			if dailyAvg, ok := data.SpendingPatterns["daily_average"].(float64); ok {
				input.DailyAverage = dailyAvg
			}
			if income, ok := data.UserProfile["income"].(float64); ok {
				input.Income = income
			}
			if len(data.JarBalances) > 0 {
				input.JarBalances = make(map[string]float64, len(data.JarBalances))
				for jar, balance := range data.JarBalances {
					input.JarBalances[string(jar)] = balance
				}
			}
		}
	}

	out, err := s.forecaster.Forecast(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("spending prediction failed: %w", err)
	}

	return &model.SpendingForecast{
		PredictionID:    uuid.New().String(),
		UserID:          userID,
		Horizon:         horizon,
		PredictedAmount: out.PredictedAmount,
		Confidence:      out.Confidence,
		Factors:         out.Factors,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}
