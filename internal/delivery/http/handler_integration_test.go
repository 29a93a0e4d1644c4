package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/arbiscout/backend/config"
	"github.com/arbiscout/backend/internal/domain"
	"github.com/arbiscout/backend/internal/infrastructure/store"
	"github.com/arbiscout/backend/internal/usecase"
)

// stubMarketplace returns a fixed candidate pool without network access.
type stubMarketplace struct {
	pool []domain.MatchCandidate
	err  error
}

func (s *stubMarketplace) Search(ctx context.Context, query string) ([]domain.MatchCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.MatchCandidate(nil), s.pool...), nil
}

func newTestRouter(t *testing.T, marketplace domain.Marketplace) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
	}

	quant := usecase.NewQuantitativeFilter(usecase.QuantitativeConfig{})
	qual := usecase.NewQualitativeFilter(nil, usecase.QualitativeConfig{})
	// No image fetcher: the cascade starts at the semantic strategy, which
	// keeps the test offline.
	matcher := usecase.NewMatcher(nil, nil, nil, usecase.MatcherConfig{FxRate: 5.0})
	margin := usecase.NewMarginCalculator(usecase.MarginConfig{})
	risk := usecase.NewRiskScorer(usecase.RiskConfig{})

	service := usecase.NewDecisionService(quant, qual, matcher, margin, risk, marketplace, nil, usecase.DecisionConfig{})
	batch := usecase.NewBatchEvaluator(service, usecase.BatchConfig{WaveDelay: 1})
	decisionStore := store.NewMemoryStore()

	handler := NewHandler(service, batch, decisionStore)
	return SetupRouter(cfg, handler), decisionStore
}

func testCandidate() domain.Candidate {
	return domain.Candidate{
		ID:          "cand-1",
		Title:       "Mangueira Jardim Expansivel 15m",
		RawCategory: "Casa e Jardim",
		Price:       10.0,
		Currency:    "USD",
		Sales:       200,
		Reviews:     40,
		Rating:      4.7,
		Orders:      120,
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, &stubMarketplace{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if response["service"] != "arbiscout-backend" {
		t.Errorf("service = %v, want arbiscout-backend", response["service"])
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
}

func TestEvaluateCandidate(t *testing.T) {
	marketplace := &stubMarketplace{
		pool: []domain.MatchCandidate{
			{Title: "Mangueira Expansivel Jardim 15m", Price: 80},
			{Title: "Mangueira Jardim 15m Expansivel Flexivel", Price: 95},
			{Title: "Suporte de Parede TV", Price: 60},
		},
	}
	router, decisionStore := newTestRouter(t, marketplace)

	t.Run("evaluates and persists a decision", func(t *testing.T) {
		body, _ := json.Marshal(testCandidate())
		req := httptest.NewRequest("POST", "/api/v1/evaluate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			Decision domain.Decision `json:"decision"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if response.Decision.ID == "" {
			t.Error("decision ID is empty")
		}
		if response.Decision.CandidateID != "cand-1" {
			t.Errorf("CandidateID = %s, want cand-1", response.Decision.CandidateID)
		}
		if response.Decision.FinalScore < 0 || response.Decision.FinalScore > 100 {
			t.Errorf("FinalScore = %v, want within [0,100]", response.Decision.FinalScore)
		}
		if decisionStore.Size() != 1 {
			t.Errorf("store size = %d, want 1", decisionStore.Size())
		}
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/evaluate", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestEvaluateBatch(t *testing.T) {
	marketplace := &stubMarketplace{
		pool: []domain.MatchCandidate{
			{Title: "Mangueira Expansivel Jardim 15m", Price: 80},
		},
	}
	router, _ := newTestRouter(t, marketplace)

	t.Run("evaluates all candidates", func(t *testing.T) {
		first := testCandidate()
		second := testCandidate()
		second.ID = "cand-2"
		second.Title = "Kit Ferramentas Jardim 12 Pecas"

		body, _ := json.Marshal([]domain.Candidate{first, second})
		req := httptest.NewRequest("POST", "/api/v1/evaluate/batch", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			Total     int               `json:"total"`
			Decisions []domain.Decision `json:"decisions"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if response.Total != 2 {
			t.Errorf("total = %d, want 2", response.Total)
		}
		if len(response.Decisions) != 2 {
			t.Fatalf("decisions = %d, want 2", len(response.Decisions))
		}
		if response.Decisions[0].CandidateID != "cand-1" || response.Decisions[1].CandidateID != "cand-2" {
			t.Error("decisions not in input order")
		}
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/evaluate/batch", bytes.NewReader([]byte("[]")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestListAndGetDecisions(t *testing.T) {
	marketplace := &stubMarketplace{
		pool: []domain.MatchCandidate{
			{Title: "Mangueira Expansivel Jardim 15m", Price: 80},
		},
	}
	router, _ := newTestRouter(t, marketplace)

	body, _ := json.Marshal(testCandidate())
	req := httptest.NewRequest("POST", "/api/v1/evaluate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("setup evaluate failed: %d", w.Code)
	}

	t.Run("lists stored decisions", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/decisions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Total     int               `json:"total"`
			Decisions []domain.Decision `json:"decisions"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if response.Total != 1 {
			t.Errorf("total = %d, want 1", response.Total)
		}
	})

	t.Run("returns 404 for unknown decision", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/decisions/nonexistent", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
