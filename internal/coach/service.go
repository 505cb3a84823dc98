// Package coach implements the AI financial coaching service: it grounds
// a generative-text model in aggregated user context, knowledge-base
// search results, and ML predictions, then reshapes the model's answer
// into structured advice.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/genai"
	"github.com/sixjars/jarflow/internal/inference"
	"github.com/sixjars/jarflow/internal/model"
	"github.com/sixjars/jarflow/internal/service"
)

// KnowledgeSearcher is the slice of the knowledge-base client the coach needs.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.KnowledgeHit, error)
}

// Forecaster produces spending forecasts for prediction-flavored advice.
type Forecaster interface {
	Forecast(ctx context.Context, input inference.ForecastInput) (inference.ForecastOutput, error)
}

// Service is the AI coach.
type Service struct {
	genai      genai.Client
	knowledge  KnowledgeSearcher
	forecaster Forecaster
	sessions   service.SessionStore
	contexts   service.ContextProvider
	logger     *slog.Logger
	retryOpts  service.RetryOptions
}

// NewService creates a coach. Knowledge, forecaster, and sessions are
// optional: a nil collaborator degrades that enrichment rather than
// failing advice generation.
func NewService(client genai.Client, knowledge KnowledgeSearcher, forecaster Forecaster,
	sessions service.SessionStore, contexts service.ContextProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		genai:      client,
		knowledge:  knowledge,
		forecaster: forecaster,
		sessions:   sessions,
		contexts:   contexts,
		logger:     logger,
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     15 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Advise generates coaching advice for a user query.
func (s *Service) Advise(ctx context.Context, req model.CoachingRequest) (*model.CoachingAdvice, error) {
	if req.UserID == "" {
		return nil, common.NewUserError("user id is required", nil)
	}
	if req.Query == "" {
		return nil, common.NewUserError("query is required", nil)
	}

	sessionID := uuid.New().String()

	contextData, err := s.aggregateContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate context: %w", err)
	}

	hits := s.searchKnowledge(ctx, req.Query)
	predictions := s.mlPredictions(ctx, req, contextData)

	prompt := buildCoachingPrompt(req, contextData, hits, predictions)

	text := s.generate(ctx, prompt)
	advice := parseAdvice(text, contextData)
	advice.SessionID = sessionID

	s.storeSession(ctx, sessionID, req, advice)

	return advice, nil
}

func (s *Service) aggregateContext(ctx context.Context, req model.CoachingRequest) (*model.ContextData, error) {
	if s.contexts == nil {
		return &model.ContextData{
			UserProfile: map[string]any{"user_id": req.UserID},
			JarBalances: map[model.JarType]float64{},
		}, nil
	}

	contextData, err := s.contexts.UserContext(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// Request-supplied context overrides the aggregated profile fields.
	for key, value := range req.Context {
		if contextData.UserProfile == nil {
			contextData.UserProfile = map[string]any{}
		}
		contextData.UserProfile[key] = value
	}

	return contextData, nil
}

func (s *Service) searchKnowledge(ctx context.Context, query string) []model.KnowledgeHit {
	if s.knowledge == nil {
		return nil
	}

	hits, err := s.knowledge.Search(ctx, query, 5)
	if err != nil {
		s.logger.Warn("knowledge base search failed", "error", err)
		return nil
	}
	return hits
}

func (s *Service) mlPredictions(ctx context.Context, req model.CoachingRequest, data *model.ContextData) map[string]any {
	if s.forecaster == nil {
		return nil
	}
	if req.Type != model.CoachingSpendingAdvice && req.Type != model.CoachingBudgetOptimization {
		return nil
	}

	input := inference.ForecastInput{
		UserID:  req.UserID,
		Horizon: "month",
	}
	if dailyAvg, ok := data.SpendingPatterns["daily_average"].(float64); ok {
		input.DailyAverage = dailyAvg
	}
	if income, ok := data.UserProfile["income"].(float64); ok {
		input.Income = income
	}

	forecast, err := s.forecaster.Forecast(ctx, input)
	if err != nil {
		s.logger.Warn("spending forecast unavailable for coaching context", "error", err)
		return nil
	}

	return map[string]any{
		"spending_forecast": map[string]any{
			"predicted_spending": forecast.PredictedAmount,
			"confidence":         forecast.Confidence,
			"factors":            forecast.Factors,
		},
	}
}

// generate calls the text model with retries; a total failure degrades to
// the canned apology response rather than surfacing an error.
func (s *Service) generate(ctx context.Context, prompt string) string {
	var text string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		text, genErr = s.genai.Generate(ctx, genai.GenerateRequest{
			System: coachSystemPrompt,
			Prompt: prompt,
		})
		return genErr
	}, s.retryOpts)
	if err != nil {
		s.logger.Error("advice generation failed", "error", err)
		return fallbackAdviceJSON
	}
	return text
}

func (s *Service) storeSession(ctx context.Context, sessionID string, req model.CoachingRequest, advice *model.CoachingAdvice) {
	if s.sessions == nil {
		return
	}

	session := &model.CoachingSession{
		SessionID: sessionID,
		UserID:    req.UserID,
		Query:     req.Query,
		Type:      req.Type,
		Advice:    *advice,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		s.logger.Warn("failed to store coaching session",
			"session_id", sessionID, "error", err)
	}
}

// Session retrieves a previously stored coaching session.
func (s *Service) Session(ctx context.Context, sessionID string) (*model.CoachingSession, error) {
	if s.sessions == nil {
		return nil, common.ErrNotFound
	}
	return s.sessions.GetSession(ctx, sessionID)
}
