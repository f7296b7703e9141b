package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipmix/jobs"
	"clipmix/pipeline"
)

// RegisterRenderRoutes registers render and job tracking endpoints.
func (s *Server) RegisterRenderRoutes(r *gin.Engine) {
	r.POST("/api/render", s.handleRender)

	g := r.Group("/api/jobs")
	g.GET("", s.handleListJobs)
	g.GET("/:id", s.handleGetJob)
	g.DELETE("/:id", s.handleCancelJob)
}

// handleRender accepts an explicit clip sequence and dispatches it for
// rendering. Returns 202 with the tracking job.
// POST /api/render
func (s *Server) handleRender(c *gin.Context) {
	if s.dispatcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rendering is not enabled"})
		return
	}

	var req pipeline.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}

	job, err := s.dispatcher.Dispatch(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// GET /api/jobs
func (s *Server) handleListJobs(c *gin.Context) {
	list, err := s.manager.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}

// GET /api/jobs/:id
func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.manager.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

// DELETE /api/jobs/:id cancels a pending or running job.
func (s *Server) handleCancelJob(c *gin.Context) {
	err := s.manager.Cancel(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelling"})
}
