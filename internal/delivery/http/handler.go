package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arbiscout/backend/internal/domain"
	"github.com/arbiscout/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.DecisionService
	batch   *usecase.BatchEvaluator
	store   domain.DecisionStore
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.DecisionService, batch *usecase.BatchEvaluator, store domain.DecisionStore) *Handler {
	return &Handler{
		service: service,
		batch:   batch,
		store:   store,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "arbiscout-backend",
		"version": "1.0.0",
	})
}

// EvaluateCandidate evaluates a single candidate and persists the decision.
func (h *Handler) EvaluateCandidate(c *gin.Context) {
	var candidate domain.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate payload: " + err.Error()})
		return
	}

	decision := h.service.Evaluate(c.Request.Context(), &candidate)
	if err := h.store.Save(c.Request.Context(), decision); err != nil {
		// Persistence failure is recoverable for the caller; the decision
		// itself is still valid and returned.
		c.JSON(http.StatusOK, gin.H{"decision": decision, "warning": "decision not persisted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision": decision})
}

// EvaluateBatch evaluates a batch of candidates with bounded concurrency.
func (h *Handler) EvaluateBatch(c *gin.Context) {
	var candidates []*domain.Candidate
	if err := c.ShouldBindJSON(&candidates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch payload: " + err.Error()})
		return
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}

	decisions := h.batch.EvaluateAll(c.Request.Context(), candidates)

	saved := 0
	for _, decision := range decisions {
		if err := h.store.Save(c.Request.Context(), decision); err == nil {
			saved++
		}
	}

	approved := 0
	for _, decision := range decisions {
		if decision.Approved {
			approved++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"decisions": decisions,
		"total":     len(decisions),
		"approved":  approved,
		"persisted": saved,
	})
}

// ListDecisions returns stored decisions ranked by score, ROI tie-broken.
func (h *Handler) ListDecisions(c *gin.Context) {
	decisions, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": decisions, "total": len(decisions)})
}

// GetDecision returns one stored decision by ID.
func (h *Handler) GetDecision(c *gin.Context) {
	decision, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDecisionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "decision not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decision": decision})
}
