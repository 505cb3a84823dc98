package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mlops-api",
	})
}

func (s *Server) healthDetailed(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	checks := gin.H{}

	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "healthy"
		}
	} else {
		checks["database"] = "disabled"
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Ping(ctx); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "disabled"
	}

	endpoints := gin.H{}
	for name, url := range map[string]string{
		"classification": s.deps.Endpoints.Classification,
		"prediction":     s.deps.Endpoints.Prediction,
		"training":       s.deps.Endpoints.Training,
	} {
		if url != "" {
			endpoints[name] = "configured"
		} else {
			endpoints[name] = "not configured"
		}
	}
	checks["endpoints"] = endpoints

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "mlops-api",
		"checks":  checks,
	})
}
