package classify

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sixjars/jarflow/internal/model"
)

// diningAmountLimit splits food-keyword matches between groceries and
// dining restaurants by transaction size.
const diningAmountLimit = 50.0

// RuleClassifier is the deterministic keyword fallback used when the
// remote model endpoint is unavailable. It is pure and total: identical
// input yields identical output and Classify never returns an error.
//
// Rule order is load-bearing. A description matching both the food and
// entertainment rules must classify by the food rule.
type RuleClassifier struct{}

// NewRuleClassifier creates the fallback classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify applies the priority-ordered keyword rules to the features.
// Matching is substring containment on the lower-cased description;
// amounts are compared by magnitude so outflows and inflows bucket alike.
func (c *RuleClassifier) Classify(_ context.Context, features model.FeatureSet) (Prediction, error) {
	description := strings.ToLower(features.Description)
	amount := math.Abs(features.Amount)

	var category string
	var confidence float64

	switch {
	case containsAny(description, "grocery", "food", "restaurant"):
		if amount < diningAmountLimit {
			category, confidence = "groceries", 0.8
		} else {
			category, confidence = "dining", 0.7
		}
	case containsAny(description, "gas", "uber", "taxi"):
		category, confidence = "transportation", 0.75
	case containsAny(description, "rent", "mortgage"):
		category, confidence = "rent", 0.9
	case containsAny(description, "electric", "water", "internet"):
		category, confidence = "utilities", 0.85
	case containsAny(description, "movie", "netflix", "spotify"):
		category, confidence = "entertainment", 0.7
	default:
		category, confidence = "other", 0.5
	}

	return Prediction{
		Category:   category,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Rule-based classification based on keywords in '%s'", description),
	}, nil
}

// DefaultPrediction is the defensive floor returned when every
// prediction path has failed. It exists so the orchestrator can always
// produce a result; the rule classifier itself never reaches it.
func DefaultPrediction() Prediction {
	return Prediction{
		Category:   "other",
		Confidence: 0.3,
		Reasoning:  "Default classification due to prediction failure",
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
