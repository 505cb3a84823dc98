// Package model defines the core domain models used throughout the application.
package model

import "time"

// ClassificationStatus indicates how a transaction was categorized.
type ClassificationStatus string

// Classification status constants.
const (
	StatusClassifiedByModel ClassificationStatus = "CLASSIFIED_BY_MODEL"
	StatusClassifiedByRule  ClassificationStatus = "CLASSIFIED_BY_RULE"
	StatusUserModified      ClassificationStatus = "USER_MODIFIED"
)

// FeatureSet holds the fixed feature vector derived from a transaction.
// It is recomputed on every classification call and never persisted; the
// JSON shape is the wire payload sent to the remote model endpoint.
type FeatureSet struct {
	Description              string  `json:"description"`
	Merchant                 string  `json:"merchant"`
	AmountCategory           string  `json:"amount_category"`
	Amount                   float64 `json:"amount"`
	AmountLog                float64 `json:"amount_log"`
	DescriptionLength        int     `json:"description_length"`
	HasMerchant              int     `json:"has_merchant"`
	HasFoodKeywords          int     `json:"has_food_keywords"`
	HasTransportKeywords     int     `json:"has_transport_keywords"`
	HasShoppingKeywords      int     `json:"has_shopping_keywords"`
	HasEntertainmentKeywords int     `json:"has_entertainment_keywords"`
}

// CategoryScore is one (category, score) alternative in a classification result.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// ClassificationResult is the outcome of classifying one transaction.
// Immutable once produced.
type ClassificationResult struct {
	ClassifiedAt  time.Time            `json:"classified_at"`
	TransactionID string               `json:"transaction_id"`
	Category      string               `json:"predicted_category"`
	Reasoning     string               `json:"reasoning,omitempty"`
	Status        ClassificationStatus `json:"status"`
	Jar           JarType              `json:"jar_type"`
	Alternatives  []CategoryScore      `json:"alternative_categories,omitempty"`
	Confidence    float64              `json:"confidence_score"`
	NeedsReview   bool                 `json:"needs_manual_review"`
}

// BatchResult aggregates the per-transaction outcomes of a batch run.
// Partial success is a normal outcome: failed ids are listed separately
// and never abort the surviving items.
type BatchResult struct {
	BatchID               string                 `json:"batch_id"`
	Results               []ClassificationResult `json:"results"`
	FailedTransactionIDs  []string               `json:"failed_transactions"`
	TotalTransactions     int                    `json:"total_transactions"`
	ProcessedTransactions int                    `json:"processed_transactions"`
}
