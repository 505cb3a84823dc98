package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/model"
)

func (s *Server) coachingAdvice(c *gin.Context) {
	if s.deps.Coach == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI coach is not configured"})
		return
	}

	var req model.CoachingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	advice, err := s.deps.Coach.Advise(c.Request.Context(), req)
	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": userErr.UserMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate coaching advice"})
		return
	}

	c.JSON(http.StatusOK, advice)
}

func (s *Server) coachingSession(c *gin.Context) {
	if s.deps.Coach == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI coach is not configured"})
		return
	}

	session, err := s.deps.Coach.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// alertRequest asks for a proactive coaching alert.
type alertRequest struct {
	Context   map[string]any `json:"context"`
	UserID    string         `json:"user_id" binding:"required"`
	AlertType string         `json:"alert_type" binding:"required"`
}

func (s *Server) proactiveAlert(c *gin.Context) {
	if s.deps.Coach == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI coach is not configured"})
		return
	}

	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	alert := s.deps.Coach.GenerateAlert(req.UserID, req.AlertType, req.Context)
	c.JSON(http.StatusOK, alert)
}

func (s *Server) searchKnowledge(c *gin.Context) {
	if s.deps.Knowledge == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "knowledge base is not configured"})
		return
	}

	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	hits, err := s.deps.Knowledge.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search knowledge base"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": hits})
}

func (s *Server) addKnowledge(c *gin.Context) {
	if s.deps.Knowledge == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "knowledge base is not configured"})
		return
	}

	var entry model.KnowledgeEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if entry.Title == "" || entry.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	id, err := s.deps.Knowledge.Add(c.Request.Context(), entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add knowledge entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Knowledge entry added successfully", "entry_id": id})
}
