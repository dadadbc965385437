package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/config"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/infrastructure/cache"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/infrastructure/catalog"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	// Run tests
	exitCode := m.Run()

	// Exit with the test result code
	os.Exit(exitCode)
}

const testCatalogJSON = `{"cards": [
	{"name": "Fuel Saver", "issuer": "Bank A", "eligibility": "Minimum monthly income of Rs. 25,000",
	 "reward_rate": "5% on fuel and dining", "reward_type": "Cashback",
	 "perks": ["Fuel surcharge waiver", "Dining discounts"], "annual_fee": 0},
	{"name": "Travel Elite", "issuer": "Bank B", "eligibility": "Annual income above 12,00,000",
	 "reward_rate": "10x on flights and hotels", "reward_type": "Reward points",
	 "perks": ["Airport lounge access"], "annual_fee": "2,500"},
	{"name": "Everyday", "issuer": "Bank C", "eligibility": "No income proof needed",
	 "reward_rate": "1% on everything", "reward_type": "Cashback", "perks": [], "annual_fee": 499}
]}`

type testServer struct {
	router      *gin.Engine
	catalog     *usecase.CatalogService
	catalogPath string
}

// setupTestServer wires the full stack against a temporary catalog file.
// When load is false the catalog is left unloaded.
func setupTestServer(t *testing.T, load bool) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogJSON), 0o644))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8002",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Ranking:   config.RankingConfig{TopN: 5, Workers: 2},
		Cache:     config.CacheConfig{Type: "memory"},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
	}

	logger := zaptest.NewLogger(t)
	catalogService := usecase.NewCatalogService(&catalog.FileSource{Path: path}, catalog.NewNormalizer(logger), logger)
	if load {
		_, err := catalogService.Load(context.Background())
		require.NoError(t, err)
	}

	memoryCache := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = memoryCache.Close() })

	recommendationService := usecase.NewRecommendationService(
		catalogService,
		usecase.NewScoringEngine(cfg.Ranking.Workers),
		memoryCache,
		usecase.RecommendationServiceConfig{TopN: cfg.Ranking.TopN},
		logger,
	)

	handler, err := NewHandler(recommendationService, catalogService, logger)
	require.NoError(t, err)

	return &testServer{
		router:      SetupRouter(cfg, handler, logger),
		catalog:     catalogService,
		catalogPath: path,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

const fuelRequest = `{"monthly_income": 30000, "spending_habits": ["Fuel"], "preferred_benefits": ["cashback"], "annual_fee_preference": "No Fee"}`

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		srv := setupTestServer(t, true)

		w := srv.do("GET", "/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "cardmatch", response["service"])
		assert.Equal(t, float64(3), response["total_cards"])
		version, ok := response["version"].(string)
		assert.True(t, ok && strings.TrimSpace(version) != "", "version = %v", response["version"])
	})

	t.Run("reports degraded before the catalog loads", func(t *testing.T) {
		srv := setupTestServer(t, false)

		w := srv.do("GET", "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"degraded"`)
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		srv := setupTestServer(t, true)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := srv.do(method, "/health", "")
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestRecommendationsEndpoint(t *testing.T) {
	t.Run("ranks the catalog", func(t *testing.T) {
		srv := setupTestServer(t, true)

		w := srv.do("POST", "/api/v1/recommendations", fuelRequest)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp domain.RecommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, 3, resp.TotalCardsEvaluated)
		assert.Equal(t, uint64(1), resp.CatalogVersion)
		assert.Equal(t, usecase.SourceEngine, resp.Source)
		require.Len(t, resp.Recommendations, 3)

		top := resp.Recommendations[0]
		assert.Equal(t, "Fuel Saver", top.CardName)
		assert.Equal(t, 10, top.MatchScore)
		assert.Equal(t, []string{"fuel"}, top.MatchedCategories)
		assert.Equal(t, "Score: 10/10. Income requirement met. Matches spending: fuel. Matches benefits: cashback.", top.Justification)
	})

	t.Run("second identical request is served from cache", func(t *testing.T) {
		srv := setupTestServer(t, true)

		srv.do("POST", "/api/v1/recommendations", fuelRequest)
		w := srv.do("POST", "/api/v1/recommendations", fuelRequest)
		require.Equal(t, http.StatusOK, w.Code)

		var resp domain.RecommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, usecase.SourceCache, resp.Source)
		assert.Equal(t, "Fuel Saver", resp.Recommendations[0].CardName)
	})

	t.Run("honours top_n", func(t *testing.T) {
		srv := setupTestServer(t, true)

		w := srv.do("POST", "/api/v1/recommendations?top_n=1", fuelRequest)
		require.Equal(t, http.StatusOK, w.Code)

		var resp domain.RecommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Recommendations, 1)
		assert.Equal(t, 3, resp.TotalCardsEvaluated)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		srv := setupTestServer(t, true)

		tests := []struct {
			name string
			path string
			body string
		}{
			{"negative income", "/api/v1/recommendations", `{"monthly_income": -1, "spending_habits": [], "preferred_benefits": []}`},
			{"unknown fee preference", "/api/v1/recommendations", `{"monthly_income": 1, "spending_habits": [], "preferred_benefits": [], "annual_fee_preference": "gold"}`},
			{"malformed body", "/api/v1/recommendations", `{"monthly_income"`},
			{"top_n out of range", "/api/v1/recommendations?top_n=51", fuelRequest},
			{"top_n not a number", "/api/v1/recommendations?top_n=five", fuelRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := srv.do("POST", tt.path, tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			})
		}
	})

	t.Run("returns 503 before the catalog loads", func(t *testing.T) {
		srv := setupTestServer(t, false)

		w := srv.do("POST", "/api/v1/recommendations", fuelRequest)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("validates HTTP method", func(t *testing.T) {
		srv := setupTestServer(t, true)

		for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
			w := srv.do(method, "/api/v1/recommendations", "")
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestDisplayEndpoint(t *testing.T) {
	srv := setupTestServer(t, true)

	w := srv.do("POST", "/api/v1/recommendations/display", fuelRequest)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var presentation domain.Presentation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &presentation))

	require.NotNil(t, presentation.TopPick)
	assert.Equal(t, "Fuel Saver", presentation.TopPick.CardName)
	assert.True(t, presentation.TopPick.NoAnnualFee)
	assert.Len(t, presentation.Alternates, 2)
	assert.Contains(t, presentation.Message, "TOP RECOMMENDATION: Fuel Saver")
}

func TestCardsEndpoint(t *testing.T) {
	t.Run("lists card names in catalog order", func(t *testing.T) {
		srv := setupTestServer(t, true)

		w := srv.do("GET", "/api/v1/cards", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			TotalCards int      `json:"total_cards"`
			Cards      []string `json:"cards"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 3, body.TotalCards)
		assert.Equal(t, []string{"Fuel Saver", "Travel Elite", "Everyday"}, body.Cards)
	})

	t.Run("returns 503 before the catalog loads", func(t *testing.T) {
		srv := setupTestServer(t, false)

		w := srv.do("GET", "/api/v1/cards", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestReloadEndpoint(t *testing.T) {
	t.Run("publishes a new catalog version", func(t *testing.T) {
		srv := setupTestServer(t, true)

		updated := `[{"name": "Only Card", "issuer": "Bank Z", "annual_fee": 0}]`
		require.NoError(t, os.WriteFile(srv.catalogPath, []byte(updated), 0o644))

		w := srv.do("POST", "/api/v1/catalog/reload", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"total_cards": 1, "version": 2}`, w.Body.String())

		w = srv.do("POST", "/api/v1/recommendations", fuelRequest)
		var resp domain.RecommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, uint64(2), resp.CatalogVersion)
		assert.Equal(t, "Only Card", resp.Recommendations[0].CardName)
	})

	t.Run("keeps serving the old catalog when reload fails", func(t *testing.T) {
		srv := setupTestServer(t, true)

		require.NoError(t, os.WriteFile(srv.catalogPath, []byte(`"not a catalog"`), 0o644))

		w := srv.do("POST", "/api/v1/catalog/reload", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)

		snap, err := srv.catalog.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), snap.Version)
		assert.Len(t, snap.Cards, 3)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTestServer(t, true)
	srv.do("POST", "/api/v1/recommendations", fuelRequest)

	w := srv.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cardmatch_recommendations_total")
	assert.Contains(t, w.Body.String(), "cardmatch_catalog_cards")
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for local origins", func(t *testing.T) {
		srv := setupTestServer(t, true)

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("foreign origins get no CORS headers", func(t *testing.T) {
		srv := setupTestServer(t, true)

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://evil.com")
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
