package model

import "time"

// SpendingForecast is a managed-endpoint prediction of upcoming spending.
type SpendingForecast struct {
	GeneratedAt     time.Time `json:"prediction_date"`
	PredictionID    string    `json:"prediction_id"`
	UserID          string    `json:"user_id"`
	Horizon         string    `json:"horizon"`
	Factors         []string  `json:"factors"`
	PredictedAmount float64   `json:"predicted_amount"`
	Confidence      float64   `json:"confidence_score"`
}
