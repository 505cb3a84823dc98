package classify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sixjars/jarflow/internal/model"
)

// Engine orchestrates classification of transactions: feature extraction,
// remote-or-fallback prediction, jar assignment, and review flagging.
// Engines are stateless across invocations; concurrent calls share
// nothing mutable and never cache results.
type Engine struct {
	remote      Classifier
	fallback    Classifier
	jars        *JarMapper
	review      ReviewPolicy
	concurrency int
}

// Config holds configuration options for the classification engine.
type Config struct {
	JarOverrides     map[string]model.JarType
	ReviewThreshold  float64
	BatchConcurrency int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		ReviewThreshold:  DefaultReviewThreshold,
		BatchConcurrency: 5,
	}
}

// NewEngine creates a classification engine. The remote classifier may be
// nil, in which case every transaction takes the rule-based path.
func NewEngine(remote Classifier, cfg Config) *Engine {
	concurrency := cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = DefaultConfig().BatchConcurrency
	}

	return &Engine{
		remote:      remote,
		fallback:    NewRuleClassifier(),
		jars:        NewJarMapper(cfg.JarOverrides),
		review:      NewReviewPolicy(cfg.ReviewThreshold),
		concurrency: concurrency,
	}
}

// Classify runs one transaction through the full pipeline. The remote
// endpoint failing is recovered internally via the rule-based fallback;
// the returned error is non-nil only for invalid input or a failure the
// fallback cannot absorb (such as context cancellation).
func (e *Engine) Classify(ctx context.Context, txn model.Transaction) (model.ClassificationResult, error) {
	if err := validateTransaction(txn); err != nil {
		return model.ClassificationResult{}, err
	}

	features := ExtractFeatures(txn)

	prediction, status, err := e.predict(ctx, features)
	if err != nil {
		return model.ClassificationResult{}, err
	}

	jar := e.jars.ToJar(prediction.Category)

	result := model.ClassificationResult{
		TransactionID: txn.ID,
		Category:      prediction.Category,
		Confidence:    prediction.Confidence,
		Alternatives:  prediction.Alternatives,
		Reasoning:     prediction.Reasoning,
		Jar:           jar,
		Status:        status,
		NeedsReview:   e.review.NeedsReview(prediction.Confidence),
		ClassifiedAt:  time.Now().UTC(),
	}

	slog.Debug("transaction classified",
		"transaction_id", txn.ID,
		"category", result.Category,
		"jar", result.Jar,
		"confidence", result.Confidence,
		"status", result.Status,
		"needs_review", result.NeedsReview)

	return result, nil
}

// predict selects between the remote and rule-based classifiers. The
// remote endpoint being unavailable is an expected branch, not an
// exceptional one.
func (e *Engine) predict(ctx context.Context, features model.FeatureSet) (Prediction, model.ClassificationStatus, error) {
	if e.remote == nil {
		return e.ruleBased(ctx, features), model.StatusClassifiedByRule, nil
	}

	prediction, err := e.remote.Classify(ctx, features)
	if err == nil {
		return prediction, model.StatusClassifiedByModel, nil
	}

	var unavailable *RemoteUnavailableError
	if !errors.As(err, &unavailable) {
		return Prediction{}, "", err
	}

	slog.Warn("remote classification failed, using rule-based fallback",
		"error", unavailable)

	return e.ruleBased(ctx, features), model.StatusClassifiedByRule, nil
}

// ruleBased runs the rule classifier, dropping to the floor prediction
// if even the rules cannot produce one.
func (e *Engine) ruleBased(ctx context.Context, features model.FeatureSet) Prediction {
	prediction, err := e.fallback.Classify(ctx, features)
	if err != nil {
		slog.Warn("rule-based classification failed, using floor prediction", "error", err)
		return DefaultPrediction()
	}
	return prediction
}

// ClassifyBatch classifies each transaction independently with bounded
// concurrency. Result order matches input order; a failing item is
// recorded by id and never aborts its siblings. Partial success is a
// normal outcome, so no error is returned.
func (e *Engine) ClassifyBatch(ctx context.Context, txns []model.Transaction) *model.BatchResult {
	batchID := uuid.New().String()

	results := make([]*model.ClassificationResult, len(txns))
	itemErrs := make([]error, len(txns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, txn := range txns {
		i, txn := i, txn
		g.Go(func() error {
			result, err := e.Classify(gctx, txn)
			if err != nil {
				itemErrs[i] = err
				return nil // isolate the failure, keep siblings running
			}
			results[i] = &result
			return nil
		})
	}
	_ = g.Wait()

	batch := &model.BatchResult{
		BatchID:           batchID,
		TotalTransactions: len(txns),
	}
	for i, result := range results {
		if result != nil {
			batch.Results = append(batch.Results, *result)
			continue
		}
		slog.Error("failed to classify transaction in batch",
			"batch_id", batchID,
			"transaction_id", txns[i].ID,
			"error", itemErrs[i])
		batch.FailedTransactionIDs = append(batch.FailedTransactionIDs, txns[i].ID)
	}
	batch.ProcessedTransactions = len(batch.Results)

	slog.Info("batch classification complete",
		"batch_id", batchID,
		"total", batch.TotalTransactions,
		"processed", batch.ProcessedTransactions,
		"failed", len(batch.FailedTransactionIDs))

	return batch
}

func validateTransaction(txn model.Transaction) error {
	switch {
	case strings.TrimSpace(txn.ID) == "":
		return &InvalidTransactionError{Field: "transaction_id", Reason: "is required"}
	case strings.TrimSpace(txn.UserID) == "":
		return &InvalidTransactionError{Field: "user_id", Reason: "is required"}
	case strings.TrimSpace(txn.Description) == "":
		return &InvalidTransactionError{Field: "description", Reason: "is required"}
	}
	return nil
}
