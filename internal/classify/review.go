package classify

// DefaultReviewThreshold flags predictions below 70% confidence for a human.
const DefaultReviewThreshold = 0.7

// ReviewPolicy decides whether a classification needs manual review.
type ReviewPolicy struct {
	Threshold float64
}

// NewReviewPolicy creates a policy with the given confidence threshold.
// A non-positive threshold falls back to the default.
func NewReviewPolicy(threshold float64) ReviewPolicy {
	if threshold <= 0 {
		threshold = DefaultReviewThreshold
	}
	return ReviewPolicy{Threshold: threshold}
}

// NeedsReview reports whether the confidence falls below the threshold.
// The comparison is strictly less-than: a prediction at exactly the
// threshold does not require review.
func (p ReviewPolicy) NeedsReview(confidence float64) bool {
	return confidence < p.Threshold
}
