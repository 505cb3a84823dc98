package model

import "time"

// CoachingType selects the flavor of advice a coaching request wants.
type CoachingType string

// Coaching type constants.
const (
	CoachingSpendingAdvice       CoachingType = "spending_advice"
	CoachingInvestmentSuggestion CoachingType = "investment_suggestion"
	CoachingBudgetOptimization   CoachingType = "budget_optimization"
	CoachingFinancialPlanning    CoachingType = "financial_planning"
	CoachingDebtManagement       CoachingType = "debt_management"
	CoachingEmergencyFund        CoachingType = "emergency_fund"
)

// CoachingRequest asks the AI coach a question on behalf of a user.
type CoachingRequest struct {
	Context       map[string]any `json:"context,omitempty"`
	UserID        string         `json:"user_id"`
	Query         string         `json:"query"`
	TransactionID string         `json:"transaction_id,omitempty"`
	Type          CoachingType   `json:"coaching_type"`
	Jar           JarType        `json:"jar_type,omitempty"`
	Amount        float64        `json:"amount,omitempty"`
}

// ContextData is the aggregated user context the coach grounds its advice in.
type ContextData struct {
	UserProfile        map[string]any      `json:"user_profile"`
	JarBalances        map[JarType]float64 `json:"jar_balances"`
	SpendingPatterns   map[string]any      `json:"spending_patterns"`
	RecentTransactions []Transaction       `json:"recent_transactions"`
	FinancialGoals     []FinancialGoal     `json:"financial_goals"`
}

// FinancialGoal is one savings target a user is working toward.
type FinancialGoal struct {
	Goal    string  `json:"goal"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
}

// CoachingAdvice is the structured response from the AI coach.
type CoachingAdvice struct {
	ContextUsed       map[string]any `json:"context_used"`
	SessionID         string         `json:"session_id"`
	Advice            string         `json:"advice"`
	SuggestedActions  []string       `json:"suggested_actions"`
	RelatedProducts   []string       `json:"related_products"`
	FollowUpQuestions []string       `json:"follow_up_questions"`
	Confidence        float64        `json:"confidence_score"`
}

// CoachingSession records one advice exchange for follow-up and analysis.
type CoachingSession struct {
	CreatedAt time.Time      `json:"created_at"`
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id"`
	Query     string         `json:"query"`
	Type      CoachingType   `json:"coaching_type"`
	Advice    CoachingAdvice `json:"advice"`
}

// AlertPriority orders proactive alerts for delivery.
type AlertPriority string

// Alert priority constants.
const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
)

// ProactiveAlert is a coach-initiated nudge pushed to a user.
type ProactiveAlert struct {
	CreatedAt time.Time      `json:"created_at"`
	Context   map[string]any `json:"context,omitempty"`
	AlertID   string         `json:"alert_id"`
	UserID    string         `json:"user_id"`
	AlertType string         `json:"alert_type"`
	Message   string         `json:"message"`
	Priority  AlertPriority  `json:"priority"`
	Jar       JarType        `json:"jar_type,omitempty"`
	Amount    float64        `json:"amount,omitempty"`
}

// KnowledgeEntry is one document in the financial knowledge base.
type KnowledgeEntry struct {
	ID       string   `json:"entry_id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// KnowledgeHit is a knowledge-base search result with its relevance score.
type KnowledgeHit struct {
	Metadata  map[string]any `json:"metadata"`
	Content   string         `json:"content"`
	Relevance float64        `json:"relevance_score"`
}
