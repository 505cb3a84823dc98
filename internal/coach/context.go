package coach

import (
	"context"

	"github.com/sixjars/jarflow/internal/model"
)

// StaticContextProvider returns a fixed context profile. It stands in for
// the upstream user-data service in development and tests.
type StaticContextProvider struct{}

// UserContext returns a representative aggregated context for the user.
func (StaticContextProvider) UserContext(_ context.Context, userID string) (*model.ContextData, error) {
	return &model.ContextData{
		UserProfile: map[string]any{
			"user_id":         userID,
			"income":          5000.0,
			"risk_tolerance":  "moderate",
			"financial_goals": []string{"emergency_fund", "retirement"},
		},
		RecentTransactions: []model.Transaction{
			{ID: "ctx-1", UserID: userID, Amount: -50, Description: "food"},
			{ID: "ctx-2", UserID: userID, Amount: -200, Description: "entertainment"},
		},
		JarBalances: map[model.JarType]float64{
			model.JarNecessities:      2500,
			model.JarFinancialFreedom: 500,
			model.JarLongTermSavings:  800,
			model.JarEducation:        300,
			model.JarPlay:             600,
			model.JarGive:             300,
		},
		SpendingPatterns: map[string]any{
			"daily_average":  150.0,
			"top_categories": []string{"food", "transport", "entertainment"},
			"trend":          "increasing",
		},
		FinancialGoals: []model.FinancialGoal{
			{Goal: "emergency_fund", Target: 15000, Current: 5000},
			{Goal: "vacation", Target: 3000, Current: 1200},
		},
	}, nil
}
