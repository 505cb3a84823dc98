package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sixjars/jarflow/internal/common"
)

// spendingRequest asks for a spending forecast.
type spendingRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Horizon string `json:"horizon"`
}

func (s *Server) predictSpending(c *gin.Context) {
	if s.deps.Predictor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prediction service is not configured"})
		return
	}

	var req spendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	forecast, err := s.deps.Predictor.PredictSpending(c.Request.Context(), req.UserID, req.Horizon)
	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": userErr.UserMessage})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate spending forecast"})
		return
	}

	c.JSON(http.StatusOK, forecast)
}
