package mercadolivre

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiscout/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://api.example.com", "MLB")

	assert.NotNil(t, client)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, "MLB", client.siteID)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestNewClient_DefaultSiteID(t *testing.T) {
	client := NewClient("https://api.example.com", "")
	assert.Equal(t, "MLB", client.siteID)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("https://api.example.com", "MLB")

	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/MLB/search", r.URL.Path)
		assert.Equal(t, "mangueira jardim", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))

		response := searchResponse{
			Results: []searchItem{
				{
					Title:     "Mangueira Jardim Expansivel 15m",
					Price:     59.90,
					Thumbnail: "https://img.example/thumb.jpg",
					Permalink: "https://produto.example/MLB-123",
				},
				{Title: "Mangueira Flexivel", Price: 45.50},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")
	ctx := context.Background()

	result, err := client.Search(ctx, "mangueira jardim")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Mangueira Jardim Expansivel 15m", result[0].Title)
	assert.Equal(t, 59.90, result[0].Price)
	assert.Equal(t, []string{"https://img.example/thumb.jpg"}, result[0].ImageURLs)
	assert.Equal(t, "https://produto.example/MLB-123", result[0].URL)
	assert.Empty(t, result[1].ImageURLs)
}

func TestSearch_SkipsUnusableListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := searchResponse{
			Results: []searchItem{
				{Title: "Listagem sem preco", Price: 0},
				{Title: "", Price: 30},
				{Title: "Mangueira Jardim", Price: 49.90},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")

	result, err := client.Search(context.Background(), "mangueira")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Mangueira Jardim", result[0].Title)
}

func TestSearch_ServerError_Retries(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		response := searchResponse{
			Results: []searchItem{{Title: "Sucesso apos retry", Price: 10}},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")

	result, err := client.Search(context.Background(), "retry-test")

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 3, attempts)
}

func TestSearch_TooManyRequests_Retries(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		response := searchResponse{
			Results: []searchItem{{Title: "Sucesso apos rate limit", Price: 10}},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")

	result, err := client.Search(context.Background(), "rate-limit-test")

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 2, attempts)
}

func TestSearch_ClientError_NoRetry(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")

	result, err := client.Search(context.Background(), "bad-request")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, 1, attempts) // Should not retry 4xx errors
}

func TestSearch_AllRetriesFail(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")

	result, err := client.Search(context.Background(), "all-fail")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrMarketplaceUnavailable)
	assert.Equal(t, 3, attempts)
}

func TestSearch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")

	result, err := client.Search(context.Background(), "invalid-json")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestSearch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := NewClient(server.URL, "MLB")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := client.Search(ctx, "timeout-test")

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestMapResults_Empty(t *testing.T) {
	assert.Empty(t, mapResults(nil))
	assert.Empty(t, mapResults([]searchItem{{Title: "Sem preco", Price: 0}}))
}
