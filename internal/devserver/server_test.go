package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/storage"
)

type recordingPublisher struct {
	ids []int64
}

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, id, _ int64) error {
	p.ids = append(p.ids, id)
	return nil
}

func newTestBackend(t *testing.T) (*httptest.Server, *recordingPublisher) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "dev.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	pub := &recordingPublisher{}
	srv := NewServer(":0", repo, pub, 30)
	t.Cleanup(srv.rateLimiter.Stop)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, pub
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func signupAndLogin(t *testing.T, baseURL, email string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/signup", "", map[string]string{
		"name": "Ana", "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, baseURL+"/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeInto(t, resp, &login)
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts, _ := newTestBackend(t)
	signupAndLogin(t, ts.URL, "ana@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Detail string `json:"detail"`
	}
	decodeInto(t, resp, &body)
	assert.Equal(t, "Invalid credentials", body.Detail)
}

func TestAuthEndpointsAreRateLimited(t *testing.T) {
	ts, _ := newTestBackend(t)

	// Pin the client address so keep-alive port reuse doesn't matter.
	status := func() int {
		body := bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong"}`)
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/auth/login", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < 30; i++ {
		require.Equal(t, http.StatusUnauthorized, status(), "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, status(), "burst over the window is throttled")
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	ts, _ := newTestBackend(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransactionRoundTrip(t *testing.T) {
	ts, pub := newTestBackend(t)
	token := signupAndLogin(t, ts.URL, "ana@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
		"amount":           250.50,
		"category":         "Food",
		"date":             "2024-03-01",
		"transaction_type": "Expense",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.Transaction
	decodeInto(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "food", created.Category, "category is normalized to lowercase")
	assert.Equal(t, "expense", created.Type)
	assert.True(t, created.Amount.Equal(decimal.NewFromFloat(250.50)))
	assert.Equal(t, []int64{created.ID}, pub.ids, "create publishes a sync message")

	resp = doJSON(t, http.MethodGet, ts.URL+"/transactions", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []api.Transaction
	decodeInto(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-03-01", list[0].Date.String())

	resp = doJSON(t, http.MethodDelete, ts.URL+"/transactions/1", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestInvalidTransactionTypeRejected(t *testing.T) {
	ts, _ := newTestBackend(t)
	token := signupAndLogin(t, ts.URL, "ana@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
		"amount":           10,
		"category":         "food",
		"date":             "2024-03-01",
		"transaction_type": "transfer",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersCannotSeeEachOthersData(t *testing.T) {
	ts, _ := newTestBackend(t)
	anaToken := signupAndLogin(t, ts.URL, "ana@example.com")
	bobToken := signupAndLogin(t, ts.URL, "bob@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/transactions", anaToken, map[string]any{
		"amount":           100,
		"category":         "rent",
		"date":             "2024-03-01",
		"transaction_type": "expense",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/transactions", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []api.Transaction
	decodeInto(t, resp, &list)
	assert.Empty(t, list)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/transactions/1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGoalRoundTrip(t *testing.T) {
	ts, _ := newTestBackend(t)
	token := signupAndLogin(t, ts.URL, "ana@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/goals", token, map[string]any{
		"title":          "vacation",
		"target_amount":  1000,
		"current_amount": 250,
		"deadline":       "2024-12-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.Goal
	decodeInto(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Target.Equal(decimal.NewFromInt(1000)))

	resp = doJSON(t, http.MethodPut, ts.URL+"/goals/1", token, map[string]any{
		"title":          "vacation",
		"target_amount":  1000,
		"current_amount": 400,
		"deadline":       "2024-12-31",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated api.Goal
	decodeInto(t, resp, &updated)
	assert.True(t, updated.Current.Equal(decimal.NewFromInt(400)))
}

func TestSummaryAndStats(t *testing.T) {
	ts, _ := newTestBackend(t)
	token := signupAndLogin(t, ts.URL, "ana@example.com")

	for _, tx := range []map[string]any{
		{"amount": 1000, "category": "salary", "date": "2024-03-01", "transaction_type": "income"},
		{"amount": 300, "category": "rent", "date": "2024-03-02", "transaction_type": "expense"},
	} {
		resp := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, tx)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/reports/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum api.Summary
	decodeInto(t, resp, &sum)
	assert.True(t, sum.Income.Equal(decimal.NewFromInt(1000)))
	assert.True(t, sum.Expense.Equal(decimal.NewFromInt(300)))
	assert.True(t, sum.Balance.Equal(decimal.NewFromInt(700)))
	require.NotNil(t, sum.Savings)
	assert.True(t, sum.Savings.Equal(decimal.NewFromInt(700)))

	resp = doJSON(t, http.MethodGet, ts.URL+"/reports/trends", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var trends api.Trends
	decodeInto(t, resp, &trends)
	assert.Len(t, trends.Labels, 30)
	assert.Len(t, trends.IncomeData, 30)
	assert.Len(t, trends.ExpenseData, 30)

	resp = doJSON(t, http.MethodGet, ts.URL+"/reports/categories", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats api.Categories
	decodeInto(t, resp, &cats)
	require.Contains(t, cats.CategoryExpenses, "rent")
	assert.True(t, cats.CategoryExpenses["rent"].Equal(decimal.NewFromInt(300)))
}

func TestDashboardStatsEmptyAccountIsAllZeros(t *testing.T) {
	ts, _ := newTestBackend(t)
	token := signupAndLogin(t, ts.URL, "ana@example.com")

	resp := doJSON(t, http.MethodGet, ts.URL+"/reports/dashboard-stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats api.DashboardStats
	decodeInto(t, resp, &stats)
	assert.True(t, stats.Balance.Amount.IsZero())
	assert.True(t, stats.Income.Amount.IsZero())
	assert.Zero(t, stats.Income.Change)
	assert.True(t, stats.Expenses.IsPositive, "no spending counts as a good month")
}
