package model

import "time"

// FeedbackKind describes how a reviewer judged a prediction.
type FeedbackKind string

// Feedback kind constants.
const (
	FeedbackCorrect   FeedbackKind = "correct"
	FeedbackIncorrect FeedbackKind = "incorrect"
	FeedbackPartial   FeedbackKind = "partial"
	FeedbackManual    FeedbackKind = "manual"
)

// Feedback is a human correction of a classification, recorded for later
// retraining. It carries the transaction's amount, description, and
// merchant so training snapshots can be assembled from feedback alone.
// Append-only: never mutated after creation.
type Feedback struct {
	Timestamp         time.Time    `json:"timestamp"`
	TransactionID     string       `json:"transaction_id"`
	UserID            string       `json:"user_id"`
	Description       string       `json:"description"`
	Merchant          string       `json:"merchant,omitempty"`
	PredictedCategory string       `json:"predicted_category"`
	ActualCategory    string       `json:"actual_category"`
	Comment           string       `json:"user_feedback,omitempty"`
	Kind              FeedbackKind `json:"feedback_type"`
	PredictedJar      JarType      `json:"predicted_jar_type"`
	ActualJar         JarType      `json:"actual_jar_type"`
	Amount            float64      `json:"amount"`
	Confidence        float64      `json:"confidence_score"`
}

// PartitionKey returns the date partition the record is filed under.
// Feedback is keyed by (partition, transaction id) in the store.
func (f *Feedback) PartitionKey() string {
	return f.Timestamp.UTC().Format("2006/01/02")
}
