package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sixjars/jarflow/internal/model"
)

const coachSystemPrompt = "You are an expert financial advisor for a 6-jar budgeting system. " +
	"Respond only with the structured JSON advice in the exact format requested."

// fallbackAdviceJSON is returned when the text model is unreachable.
const fallbackAdviceJSON = `{
  "advice": "I apologize, but I'm having trouble generating personalized advice right now. Please try again later.",
  "confidence_score": 0.3,
  "suggested_actions": ["Contact customer support", "Try again in a few minutes"],
  "related_products": [],
  "follow_up_questions": []
}`

// buildCoachingPrompt assembles the model prompt from the request, user
// context, knowledge hits, and ML predictions.
func buildCoachingPrompt(req model.CoachingRequest, data *model.ContextData,
	hits []model.KnowledgeHit, predictions map[string]any) string {
	var b strings.Builder

	b.WriteString("Provide personalized financial advice based on the following context:\n\n")
	fmt.Fprintf(&b, "USER QUERY: %s\n", req.Query)
	fmt.Fprintf(&b, "COACHING TYPE: %s\n\n", req.Type)

	b.WriteString("USER CONTEXT:\n")
	if income, ok := data.UserProfile["income"].(float64); ok {
		fmt.Fprintf(&b, "- Income: $%.2f\n", income)
	}
	if len(data.JarBalances) > 0 {
		b.WriteString("- Jar Balances:\n")
		for _, jar := range model.AllJars() {
			if balance, ok := data.JarBalances[jar]; ok {
				fmt.Fprintf(&b, "    %s: $%.2f\n", jar, balance)
			}
		}
	}
	if dailyAvg, ok := data.SpendingPatterns["daily_average"].(float64); ok {
		fmt.Fprintf(&b, "- Recent Daily Spending: $%.2f\n", dailyAvg)
	}
	if len(data.FinancialGoals) > 0 {
		b.WriteString("- Financial Goals:\n")
		for _, goal := range data.FinancialGoals {
			fmt.Fprintf(&b, "    %s: $%.2f of $%.2f\n", goal.Goal, goal.Current, goal.Target)
		}
	}

	if len(hits) > 0 {
		b.WriteString("\nRELEVANT KNOWLEDGE:\n")
		limit := len(hits)
		if limit > 3 {
			limit = 3
		}
		for _, hit := range hits[:limit] {
			fmt.Fprintf(&b, "- %s\n", hit.Content)
		}
	}

	if len(predictions) > 0 {
		b.WriteString("\nML PREDICTIONS:\n")
		if encoded, err := json.MarshalIndent(predictions, "", "  "); err == nil {
			b.Write(encoded)
			b.WriteString("\n")
		}
	}

	b.WriteString(`
INSTRUCTIONS:
1. Provide clear, actionable financial advice
2. Reference the 6-jar budgeting system where appropriate
3. Suggest specific actions the user can take
4. Recommend relevant financial products if applicable
5. Keep advice personalized to the user's situation
6. Use a friendly, supportive tone

Structure your response as JSON with the following fields:
- advice: Main financial advice (string)
- confidence_score: Your confidence in the advice (0.0-1.0)
- suggested_actions: List of specific actions to take
- related_products: List of recommended financial products
- follow_up_questions: Questions to ask for more personalized advice

Response:
`)

	return b.String()
}

// parseAdvice structures the model's response. A non-JSON reply is kept
// verbatim as the advice text with a moderate confidence.
func parseAdvice(text string, data *model.ContextData) *model.CoachingAdvice {
	var parsed struct {
		Advice            string   `json:"advice"`
		SuggestedActions  []string `json:"suggested_actions"`
		RelatedProducts   []string `json:"related_products"`
		FollowUpQuestions []string `json:"follow_up_questions"`
		Confidence        float64  `json:"confidence_score"`
	}

	advice := &model.CoachingAdvice{
		ContextUsed: contextSummary(data),
	}

	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		advice.Advice = text
		advice.Confidence = 0.7
		return advice
	}

	advice.Advice = parsed.Advice
	if advice.Advice == "" {
		advice.Advice = "No advice available"
	}
	advice.Confidence = clamp01(parsed.Confidence)
	advice.SuggestedActions = parsed.SuggestedActions
	advice.RelatedProducts = parsed.RelatedProducts
	advice.FollowUpQuestions = parsed.FollowUpQuestions

	return advice
}

func contextSummary(data *model.ContextData) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	summary := map[string]any{
		"jar_balances": data.JarBalances,
	}
	if userID, ok := data.UserProfile["user_id"]; ok {
		summary["user_id"] = userID
	}
	if trend, ok := data.SpendingPatterns["trend"]; ok {
		summary["spending_trend"] = trend
	}
	return summary
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
