package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipmix/history"
	"clipmix/sequence"
)

// RegisterSequenceRoutes registers sequence planning endpoints.
func (s *Server) RegisterSequenceRoutes(r *gin.Engine) {
	g := r.Group("/api/sequence")
	g.POST("/analyze", s.handleAnalyze)
	g.POST("/generate", s.handleGenerate)
	g.POST("/validate", s.handleValidate)
}

// handleAnalyze classifies a request as SAFE, RISKY, or INFEASIBLE without
// building a sequence.
// POST /api/sequence/analyze
func (s *Server) handleAnalyze(c *gin.Context) {
	var req sequence.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool := sequence.Filter(s.catalog, req.Categories, req.Colors)
	report, err := sequence.Analyze(pool, req)
	if err != nil {
		respondSequenceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type generateRequest struct {
	sequence.Request
	// Seed pins the random source so identical requests reproduce the same
	// sequence. Seeded requests skip the variety ring.
	Seed *int64 `json:"seed"`
}

// handleGenerate builds a sequence, steering away from recently generated
// ones unless a seed pins the output.
// POST /api/sequence/generate
func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool := sequence.Filter(s.catalog, req.Categories, req.Colors)
	report, err := sequence.Analyze(pool, req.Request)
	if err != nil {
		respondSequenceError(c, err)
		return
	}

	var items []sequence.Item
	if req.Seed != nil {
		items, err = sequence.GenerateSeeded(pool, req.Request, *req.Seed)
	} else {
		items, err = history.GenerateDistinct(pool, req.Request, s.ring)
	}
	if err != nil {
		respondSequenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"report": report,
	})
}

type validateRequest struct {
	Items      []sequence.Item `json:"items"`
	MinSpacing int             `json:"min_spacing"`
}

// handleValidate checks an existing sequence against a spacing constraint.
// POST /api/sequence/validate
func (s *Server) handleValidate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MinSpacing < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_spacing must be non-negative"})
		return
	}

	report := sequence.Validate(req.Items, req.MinSpacing)
	c.JSON(http.StatusOK, gin.H{
		"valid":      len(report) == 0,
		"violations": report,
	})
}

// respondSequenceError maps domain errors to HTTP statuses: bad parameters
// are 400, infeasible requests are 422 with the feasibility report attached.
func respondSequenceError(c *gin.Context, err error) {
	var infeasible *sequence.InfeasibleError
	if errors.As(err, &infeasible) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  err.Error(),
			"report": infeasible.Report,
		})
		return
	}
	if errors.Is(err, sequence.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
