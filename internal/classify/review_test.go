package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewPolicyNeedsReview(t *testing.T) {
	tests := []struct {
		name       string
		threshold  float64
		confidence float64
		want       bool
	}{
		{name: "well below threshold", threshold: 0.7, confidence: 0.3, want: true},
		{name: "just below threshold", threshold: 0.7, confidence: 0.69, want: true},
		{name: "exactly at threshold passes", threshold: 0.7, confidence: 0.7, want: false},
		{name: "above threshold", threshold: 0.7, confidence: 0.9, want: false},
		{name: "custom threshold", threshold: 0.85, confidence: 0.8, want: true},
		{name: "zero threshold falls back to default", threshold: 0, confidence: 0.69, want: true},
		{name: "negative threshold falls back to default", threshold: -1, confidence: 0.7, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewReviewPolicy(tt.threshold)
			assert.Equal(t, tt.want, policy.NeedsReview(tt.confidence))
		})
	}
}

func TestReviewPolicyIsMonotonic(t *testing.T) {
	policy := NewReviewPolicy(0.7)

	// Once a confidence clears the bar, every higher confidence does too.
	flagged := true
	for confidence := 0.0; confidence <= 1.0; confidence += 0.05 {
		needs := policy.NeedsReview(confidence)
		if !needs {
			flagged = false
		}
		if !flagged {
			assert.False(t, needs, "confidence %v flagged after a lower one passed", confidence)
		}
	}
}
