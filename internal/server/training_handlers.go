package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sixjars/jarflow/internal/common"
)

// retrainRequest scopes a retraining run to recent feedback.
type retrainRequest struct {
	Since time.Time `json:"since"`
}

func (s *Server) retrain(c *gin.Context) {
	if s.deps.Trainer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "training service is not configured"})
		return
	}

	// An empty body means "all feedback"; anything else must parse.
	var req retrainRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	job, err := s.deps.Trainer.Retrain(c.Request.Context(), req.Since)
	if err != nil {
		if errors.Is(err, common.ErrNoTrainingData) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no feedback available for retraining"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to start training job"})
		return
	}

	c.JSON(http.StatusAccepted, job)
}

func (s *Server) trainingJob(c *gin.Context) {
	if s.deps.Trainer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "training service is not configured"})
		return
	}

	job, err := s.deps.Trainer.JobStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "training job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load training job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (s *Server) modelPerformance(c *gin.Context) {
	if s.deps.Trainer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "training service is not configured"})
		return
	}

	performance, err := s.deps.Trainer.Performance(c.Request.Context(), c.Param("version"))
	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": userErr.UserMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load model performance"})
		return
	}

	c.JSON(http.StatusOK, performance)
}
