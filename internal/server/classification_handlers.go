package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sixjars/jarflow/internal/classify"
	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/model"
)

// batchRequest is the batch classification payload.
type batchRequest struct {
	UserID       string              `json:"user_id"`
	Transactions []model.Transaction `json:"transactions" binding:"required"`
}

func (s *Server) classifyTransaction(c *gin.Context) {
	var txn model.Transaction
	if err := c.ShouldBindJSON(&txn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.deps.Engine.Classify(c.Request.Context(), txn)
	if err != nil {
		var invalid *classify.InvalidTransactionError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify transaction"})
		return
	}

	classifications.WithLabelValues(string(result.Status), strconv.FormatBool(result.NeedsReview)).Inc()
	c.JSON(http.StatusOK, result)
}

func (s *Server) classifyBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	batch := s.deps.Engine.ClassifyBatch(c.Request.Context(), req.Transactions)

	batchItems.WithLabelValues("processed").Add(float64(batch.ProcessedTransactions))
	batchItems.WithLabelValues("failed").Add(float64(len(batch.FailedTransactionIDs)))

	c.JSON(http.StatusOK, batch)
}

// feedbackRequest is the classification feedback payload.
type feedbackRequest struct {
	TransactionID     string             `json:"transaction_id" binding:"required"`
	UserID            string             `json:"user_id" binding:"required"`
	Description       string             `json:"description"`
	Merchant          string             `json:"merchant"`
	PredictedCategory string             `json:"predicted_category"`
	ActualCategory    string             `json:"actual_category" binding:"required"`
	Comment           string             `json:"user_feedback"`
	Kind              model.FeedbackKind `json:"feedback_type" binding:"required"`
	PredictedJar      model.JarType      `json:"predicted_jar_type"`
	ActualJar         model.JarType      `json:"actual_jar_type"`
	Amount            float64            `json:"amount"`
	Confidence        float64            `json:"confidence_score"`
	Timestamp         time.Time          `json:"timestamp"`
}

func (s *Server) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.ActualJar != "" && !req.ActualJar.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown jar type"})
		return
	}

	fb := model.Feedback{
		Timestamp:         req.Timestamp,
		TransactionID:     req.TransactionID,
		UserID:            req.UserID,
		Description:       req.Description,
		Merchant:          req.Merchant,
		PredictedCategory: req.PredictedCategory,
		ActualCategory:    req.ActualCategory,
		Comment:           req.Comment,
		Kind:              req.Kind,
		PredictedJar:      req.PredictedJar,
		ActualJar:         req.ActualJar,
		Amount:            req.Amount,
		Confidence:        req.Confidence,
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = time.Now().UTC()
	}

	if err := s.deps.Feedback.AppendFeedback(c.Request.Context(), &fb); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted successfully"})
}

// manualClassifyRequest overrides a prediction with a human label.
type manualClassifyRequest struct {
	TransactionID string        `json:"transaction_id" binding:"required"`
	UserID        string        `json:"user_id" binding:"required"`
	Description   string        `json:"description"`
	Merchant      string        `json:"merchant"`
	Category      string        `json:"correct_category" binding:"required"`
	Jar           model.JarType `json:"correct_jar_type" binding:"required"`
	Comment       string        `json:"feedback"`
	Amount        float64       `json:"amount"`
}

func (s *Server) manualClassify(c *gin.Context) {
	var req manualClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if !req.Jar.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown jar type"})
		return
	}

	fb := model.Feedback{
		TransactionID:  req.TransactionID,
		UserID:         req.UserID,
		Description:    req.Description,
		Merchant:       req.Merchant,
		Amount:         req.Amount,
		ActualCategory: req.Category,
		ActualJar:      req.Jar,
		Kind:           model.FeedbackManual,
		Comment:        req.Comment,
		Timestamp:      time.Now().UTC(),
	}

	if err := s.deps.Feedback.AppendFeedback(c.Request.Context(), &fb); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record manual classification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manual classification recorded successfully"})
}
