package model

import "time"

// TrainingStatus tracks a retraining job through its lifecycle.
type TrainingStatus string

// Training status constants.
const (
	TrainingPending   TrainingStatus = "pending"
	TrainingRunning   TrainingStatus = "running"
	TrainingCompleted TrainingStatus = "completed"
	TrainingFailed    TrainingStatus = "failed"
	TrainingStopped   TrainingStatus = "stopped"
)

// TrainingExample is one labeled row assembled for model retraining.
type TrainingExample struct {
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Description   string    `json:"description"`
	Merchant      string    `json:"merchant,omitempty"`
	Category      string    `json:"category"`
	Jar           JarType   `json:"jar_type"`
	Amount        float64   `json:"amount"`
}

// TrainingJob describes one submitted retraining run.
type TrainingJob struct {
	StartedAt       time.Time         `json:"start_time"`
	CompletedAt     time.Time         `json:"end_time,omitempty"`
	Hyperparameters map[string]string `json:"hyperparameters"`
	ID              string            `json:"job_id"`
	Name            string            `json:"job_name"`
	DataURI         string            `json:"training_data_uri"`
	Status          TrainingStatus    `json:"status"`
	ExampleCount    int               `json:"example_count"`
}

// MetricTriple holds precision/recall/F1 for one label.
type MetricTriple struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// ModelPerformance summarizes the evaluation of one deployed model version.
type ModelPerformance struct {
	EvaluatedAt         time.Time                 `json:"evaluation_date"`
	ConfusionMatrix     map[string]map[string]int `json:"confusion_matrix"`
	CategoryPerformance map[string]MetricTriple   `json:"category_performance"`
	JarPerformance      map[JarType]MetricTriple  `json:"jar_type_performance"`
	ModelVersion        string                    `json:"model_version"`
	Accuracy            float64                   `json:"accuracy"`
	Precision           float64                   `json:"precision"`
	Recall              float64                   `json:"recall"`
	F1                  float64                   `json:"f1_score"`
}
