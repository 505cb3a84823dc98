package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/genai"
	"github.com/sixjars/jarflow/internal/inference"
	"github.com/sixjars/jarflow/internal/model"
)

type stubGenAI struct {
	fn         func(req genai.GenerateRequest) (string, error)
	lastPrompt string
}

func (s *stubGenAI) Generate(_ context.Context, req genai.GenerateRequest) (string, error) {
	s.lastPrompt = req.Prompt
	return s.fn(req)
}

type stubKnowledge struct {
	hits []model.KnowledgeHit
	err  error
}

func (s *stubKnowledge) Search(_ context.Context, _ string, _ int) ([]model.KnowledgeHit, error) {
	return s.hits, s.err
}

type stubForecaster struct {
	out   inference.ForecastOutput
	err   error
	calls int
}

func (s *stubForecaster) Forecast(_ context.Context, _ inference.ForecastInput) (inference.ForecastOutput, error) {
	s.calls++
	return s.out, s.err
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.CoachingSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]*model.CoachingSession{}}
}

func (m *memorySessionStore) SaveSession(_ context.Context, session *model.CoachingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = session
	return nil
}

func (m *memorySessionStore) GetSession(_ context.Context, sessionID string) (*model.CoachingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return session, nil
}

func TestAdvise(t *testing.T) {
	genAI := &stubGenAI{
		fn: func(_ genai.GenerateRequest) (string, error) {
			return `{"advice": "Top up your emergency fund first.", "confidence_score": 0.9,
				"suggested_actions": ["Move $200 to long_term_savings"]}`, nil
		},
	}
	knowledge := &stubKnowledge{hits: []model.KnowledgeHit{{Content: "Pay yourself first.", Relevance: 0.8}}}
	forecaster := &stubForecaster{out: inference.ForecastOutput{PredictedAmount: 4100, Confidence: 0.8}}
	sessions := newMemorySessionStore()

	service := NewService(genAI, knowledge, forecaster, sessions, StaticContextProvider{}, nil)

	advice, err := service.Advise(context.Background(), model.CoachingRequest{
		UserID: "user-1",
		Query:  "How do I prepare for a layoff?",
		Type:   model.CoachingSpendingAdvice,
	})
	require.NoError(t, err)

	assert.Equal(t, "Top up your emergency fund first.", advice.Advice)
	assert.InDelta(t, 0.9, advice.Confidence, 1e-9)
	assert.NotEmpty(t, advice.SessionID)

	// Every enrichment made it into the prompt.
	assert.Contains(t, genAI.lastPrompt, "Pay yourself first.")
	assert.Contains(t, genAI.lastPrompt, "ML PREDICTIONS:")
	assert.Equal(t, 1, forecaster.calls)

	// The exchange was recorded.
	session, err := service.Session(context.Background(), advice.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "How do I prepare for a layoff?", session.Query)
}

func TestAdviseValidation(t *testing.T) {
	service := NewService(&stubGenAI{fn: func(_ genai.GenerateRequest) (string, error) { return "", nil }},
		nil, nil, nil, nil, nil)

	_, err := service.Advise(context.Background(), model.CoachingRequest{Query: "help"})
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)

	_, err = service.Advise(context.Background(), model.CoachingRequest{UserID: "user-1"})
	require.ErrorAs(t, err, &userErr)
}

func TestAdviseDegradedCollaborators(t *testing.T) {
	genAI := &stubGenAI{
		fn: func(_ genai.GenerateRequest) (string, error) {
			return "plain text advice", nil
		},
	}
	knowledge := &stubKnowledge{err: errors.New("vector store down")}

	service := NewService(genAI, knowledge, nil, nil, StaticContextProvider{}, nil)

	advice, err := service.Advise(context.Background(), model.CoachingRequest{
		UserID: "user-1",
		Query:  "budget tips",
		Type:   model.CoachingBudgetOptimization,
	})
	require.NoError(t, err, "a failing knowledge base never fails advice")

	assert.Equal(t, "plain text advice", advice.Advice)
	assert.NotContains(t, genAI.lastPrompt, "RELEVANT KNOWLEDGE:")
}

func TestAdviseFallsBackWhenGenerationFails(t *testing.T) {
	genAI := &stubGenAI{
		fn: func(_ genai.GenerateRequest) (string, error) {
			return "", &common.RetryableError{Err: errors.New("model offline"), Retryable: false}
		},
	}

	service := NewService(genAI, nil, nil, nil, StaticContextProvider{}, nil)

	advice, err := service.Advise(context.Background(), model.CoachingRequest{
		UserID: "user-1",
		Query:  "anything",
		Type:   model.CoachingFinancialPlanning,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(advice.Advice, "I apologize"))
	assert.InDelta(t, 0.3, advice.Confidence, 1e-9)
}

func TestForecasterSkippedForNonSpendingTypes(t *testing.T) {
	genAI := &stubGenAI{fn: func(_ genai.GenerateRequest) (string, error) { return "ok", nil }}
	forecaster := &stubForecaster{}

	service := NewService(genAI, nil, forecaster, nil, StaticContextProvider{}, nil)

	_, err := service.Advise(context.Background(), model.CoachingRequest{
		UserID: "user-1",
		Query:  "should I pay off my card?",
		Type:   model.CoachingDebtManagement,
	})
	require.NoError(t, err)
	assert.Zero(t, forecaster.calls)
}

func TestSessionWithoutStore(t *testing.T) {
	service := NewService(nil, nil, nil, nil, nil, nil)
	_, err := service.Session(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRequestContextOverridesProfile(t *testing.T) {
	genAI := &stubGenAI{fn: func(_ genai.GenerateRequest) (string, error) { return "ok", nil }}
	service := NewService(genAI, nil, nil, nil, StaticContextProvider{}, nil)

	_, err := service.Advise(context.Background(), model.CoachingRequest{
		UserID:  "user-1",
		Query:   "help",
		Type:    model.CoachingSpendingAdvice,
		Context: map[string]any{"income": 9000.0},
	})
	require.NoError(t, err)
	assert.Contains(t, genAI.lastPrompt, "- Income: $9000.00")
}
