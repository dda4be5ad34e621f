package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-planner/domain"
	"wealth-planner/repository"
	"wealth-planner/service"
)

func newTestRouter(t *testing.T, limiter *RateLimiter) http.Handler {
	t.Helper()

	log := zerolog.Nop()
	loans := service.NewLoanService(log)
	planner := service.NewPlannerService(
		loans,
		repository.NewMemoryCache(),
		repository.NewScenarioRepositoryMemory(),
		service.DefaultPlannerConfig(),
		log,
	)

	return NewRouter(RouterConfig{
		Log:         log,
		Planner:     planner,
		Loans:       loans,
		Advisor:     service.NewAdvisorService(service.AdvisorConfig{}, log),
		RateLimiter: limiter,
		DevMode:     true,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

const simulateBody = `{
	"loans": [{"name": "Car Loan", "principal": 500000, "emi": 15000, "roi": 9}],
	"allocations": {"Extra Debt Payment": 5000, "Investments": 2000},
	"months": 12
}`

func TestHealth(t *testing.T) {
	w := doJSON(t, newTestRouter(t, nil), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSimulateHandler_OK(t *testing.T) {
	w := doJSON(t, newTestRouter(t, nil), http.MethodPost, "/api/simulate", simulateBody)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Labels, 12)
	assert.Equal(t, "M1", result.Labels[0])
	assert.InDelta(t, 483750, result.DebtPath[0], 1e-6)
	assert.InDelta(t, 2000, result.InvestmentPath[0], 1e-6)
}

func TestSimulateHandler_MethodNotAllowed(t *testing.T) {
	w := doJSON(t, newTestRouter(t, nil), http.MethodGet, "/api/simulate", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSimulateHandler_BadRequest(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid-json}`},
		{"unknown field", `{"loanz": []}`},
		{"negative months", `{"loans": [], "allocations": {}, "months": -1}`},
		{"emi below interest", `{"loans": [{"name": "A", "principal": 100000, "emi": 10, "roi": 12}], "allocations": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSimulateHandler_UnsupportedMediaType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewBufferString(simulateBody))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	newTestRouter(t, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRedistributeHandler(t *testing.T) {
	body := `{
		"allocations": {"Extra Debt Payment": 5000, "Investments": 3000, "Fun Money": 2000},
		"changed_key": "Fun Money",
		"new_value": 0,
		"total": 10000
	}`
	w := doJSON(t, newTestRouter(t, nil), http.MethodPost, "/api/allocations/redistribute", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.RedistributeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 6250, result.Allocations["Extra Debt Payment"], 1e-6)
	assert.InDelta(t, 3750, result.Allocations["Investments"], 1e-6)
	assert.InDelta(t, 10000, result.Allocations.Sum(), 1e-6)
}

func TestRedistributeHandler_UnknownCategory(t *testing.T) {
	body := `{"allocations": {"A": 1}, "changed_key": "B", "new_value": 1, "total": 1}`
	w := doJSON(t, newTestRouter(t, nil), http.MethodPost, "/api/allocations/redistribute", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStrategyHandlers(t *testing.T) {
	router := newTestRouter(t, nil)
	body := `{
		"income": 5000,
		"fixed_expenses": 1000,
		"loans": [{"name": "Personal", "principal": 100000, "emi": 2000, "roi": 10}],
		"horizon": 60
	}`

	w := doJSON(t, router, http.MethodPost, "/api/strategies/compare", body)
	require.Equal(t, http.StatusOK, w.Code)

	var comparison domain.StrategyComparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comparison))
	assert.Equal(t, 60, comparison.Horizon)
	assert.Contains(t, comparison.Strategies, domain.StrategyKillDebtFirst)

	planBody := `{
		"income": 5000,
		"fixed_expenses": 1000,
		"loans": [{"name": "Personal", "principal": 100000, "emi": 2000, "roi": 10}],
		"strategy": "Wealth Builder"
	}`
	w = doJSON(t, router, http.MethodPost, "/api/strategies/plan", planBody)
	require.Equal(t, http.StatusOK, w.Code)

	var plan domain.AllocationPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.InDelta(t, 2000, plan.DeployableCapital, 1e-6)
	assert.InDelta(t, 2000, plan.Allocations.Sum(), 1e-6)
}

func TestCalculateEMIHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/api/loans/emi", `{"principal": 10000, "roi": 12, "term_months": 24}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.EMIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 470.73, result.EMI, 0.01)

	w = doJSON(t, router, http.MethodPost, "/api/loans/emi", `{"principal": 0, "roi": 12, "term_months": 24}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeHandler_Fallback(t *testing.T) {
	router := newTestRouter(t, nil)
	body := `{"result": {"labels": ["M1", "M2"], "debt_path": [10, 0], "investment_path": [5, 20], "net_worth_path": [-5, 20]}}`

	w := doJSON(t, router, http.MethodPost, "/api/analyze", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "fallback", result.Source)
	assert.Contains(t, result.Message, "month 2")

	w = doJSON(t, router, http.MethodPost, "/api/analyze", `{"result": {"labels": ["M1"], "debt_path": [], "investment_path": [1], "net_worth_path": [1]}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScenarioHandlers_Lifecycle(t *testing.T) {
	router := newTestRouter(t, nil)
	body := `{
		"name": "  Car payoff  ",
		"loans": [{"name": "Car Loan", "principal": 500000, "emi": 15000, "roi": 9}],
		"allocations": {"Extra Debt Payment": 5000, "Investments": 2000},
		"months": 12
	}`

	w := doJSON(t, router, http.MethodPost, "/api/scenarios/", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.Scenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Car payoff", created.Name)
	require.NotNil(t, created.Result)
	assert.Len(t, created.Result.DebtPath, 12)

	w = doJSON(t, router, http.MethodGet, "/api/scenarios/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched domain.Scenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)

	update := `{"name": "Car payoff v2", "loans": [], "allocations": {"Investments": 100}, "months": 6}`
	w = doJSON(t, router, http.MethodPut, "/api/scenarios/"+created.ID, update)
	require.Equal(t, http.StatusOK, w.Code)

	var updated domain.Scenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Car payoff v2", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	w = doJSON(t, router, http.MethodGet, "/api/scenarios/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []domain.Scenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(t, router, http.MethodDelete, "/api/scenarios/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/scenarios/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/scenarios/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScenarioHandlers_Errors(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/api/scenarios/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/scenarios/", `{"name": "   ", "loans": [], "allocations": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/scenarios/5b0b7d3e-3f0a-4ad4-9d6a-0c1f1c7d3a11", `{"name": "x", "loans": [], "allocations": {}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/simulate", simulateBody)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := doJSON(t, router, http.MethodPost, "/api/simulate", simulateBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// Health is outside the limited group.
	w = doJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
