package classify

import (
	"math"
	"strings"

	"github.com/sixjars/jarflow/internal/model"
)

// Keyword sets for the four presence flags. Matching is whole-word
// against the lower-cased description.
var (
	foodKeywords          = []string{"restaurant", "food", "grocery", "cafe", "pizza"}
	transportKeywords     = []string{"gas", "uber", "taxi", "metro", "bus"}
	shoppingKeywords      = []string{"store", "shop", "mall", "amazon", "walmart"}
	entertainmentKeywords = []string{"movie", "theater", "game", "netflix", "spotify"}
)

// Amount bucket boundaries in currency units, compared against |amount|.
const (
	smallAmountLimit  = 10.0
	mediumAmountLimit = 100.0
)

// ExtractFeatures derives the fixed feature set from a transaction.
// Total: every input produces a feature set, missing optional fields are
// treated as empty. The log-amount uses ln(1+|amount|) so outflows stay
// inside the log domain.
func ExtractFeatures(txn model.Transaction) model.FeatureSet {
	description := strings.ToLower(txn.Description)
	merchant := strings.ToLower(txn.Merchant)
	words := strings.Fields(description)

	hasMerchant := 0
	if txn.Merchant != "" {
		hasMerchant = 1
	}

	return model.FeatureSet{
		Amount:                   txn.Amount,
		Description:              description,
		Merchant:                 merchant,
		AmountLog:                math.Log1p(math.Abs(txn.Amount)),
		DescriptionLength:        len(txn.Description),
		HasMerchant:              hasMerchant,
		HasFoodKeywords:          keywordFlag(words, foodKeywords),
		HasTransportKeywords:     keywordFlag(words, transportKeywords),
		HasShoppingKeywords:      keywordFlag(words, shoppingKeywords),
		HasEntertainmentKeywords: keywordFlag(words, entertainmentKeywords),
		AmountCategory:           amountBucket(txn.Amount),
	}
}

// keywordFlag reports 1 when any keyword appears as a whole word.
func keywordFlag(words, keywords []string) int {
	for _, word := range words {
		for _, keyword := range keywords {
			if word == keyword {
				return 1
			}
		}
	}
	return 0
}

func amountBucket(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs < smallAmountLimit:
		return "small"
	case abs < mediumAmountLimit:
		return "medium"
	default:
		return "large"
	}
}
