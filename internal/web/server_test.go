package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/cache"
	"github.com/Shubham-711/Finance-tracker-saas/internal/session"
)

type fakeAuth struct {
	token string
	err   error
}

func (f fakeAuth) Login(context.Context, string, string) (string, error) {
	return f.token, f.err
}

func (f fakeAuth) Signup(context.Context, string, string, string) error {
	return f.err
}

type fakeGateway struct {
	txs   []api.Transaction
	goals []api.Goal
}

func (f *fakeGateway) ListTransactions(context.Context) ([]api.Transaction, error) {
	return f.txs, nil
}
func (f *fakeGateway) ListGoals(context.Context) ([]api.Goal, error) { return f.goals, nil }
func (f *fakeGateway) Summary(context.Context) (api.Summary, error) {
	return api.Summary{}, errors.New("offline")
}
func (f *fakeGateway) Trends(context.Context) (api.Trends, error) {
	return api.Trends{}, errors.New("offline")
}
func (f *fakeGateway) DashboardStats(context.Context) (api.DashboardStats, error) {
	return api.DashboardStats{}, errors.New("offline")
}
func (f *fakeGateway) CreateTransaction(_ context.Context, in api.TransactionInput) (api.Transaction, error) {
	return api.Transaction{ID: 1}, nil
}
func (f *fakeGateway) UpdateTransaction(_ context.Context, id int64, in api.TransactionInput) (api.Transaction, error) {
	return api.Transaction{ID: id}, nil
}
func (f *fakeGateway) DeleteTransaction(context.Context, int64) error { return nil }
func (f *fakeGateway) CreateGoal(_ context.Context, in api.GoalInput) (api.Goal, error) {
	return api.Goal{ID: 1}, nil
}
func (f *fakeGateway) UpdateGoal(_ context.Context, id int64, in api.GoalInput) (api.Goal, error) {
	return api.Goal{ID: id}, nil
}
func (f *fakeGateway) DeleteGoal(context.Context, int64) error { return nil }

func newTestServer(t *testing.T, auth Auth) (*Server, *session.Store) {
	t.Helper()
	sessions, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	data := cache.New(&fakeGateway{}, 7)
	srv, err := NewServer(":0", auth, sessions, data, 7)
	require.NoError(t, err)
	return srv, sessions
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	srv, _ := newTestServer(t, fakeAuth{})

	for _, path := range []string{"/", "/transactions", "/goals", "/reports"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestLoginPageServedWithoutSession(t *testing.T) {
	srv, _ := newTestServer(t, fakeAuth{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in")
}

func TestSuccessfulLoginStoresTokenAndRedirects(t *testing.T) {
	srv, sessions := newTestServer(t, fakeAuth{token: "tok-9"})

	form := url.Values{"email": {"ana@example.com"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "tok-9", sessions.Token())
}

func TestFailedLoginLeavesNoToken(t *testing.T) {
	srv, sessions := newTestServer(t, fakeAuth{err: errors.New("invalid credentials")})

	form := url.Values{"email": {"ana@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "failed login re-renders the form")
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.Empty(t, sessions.Token())
}

func TestDashboardRendersForLoggedInUser(t *testing.T) {
	srv, sessions := newTestServer(t, fakeAuth{})
	require.NoError(t, sessions.Set("tok", "ana@example.com", ""))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome back, ana")
}

func TestLogoutClearsSession(t *testing.T) {
	srv, sessions := newTestServer(t, fakeAuth{})
	require.NoError(t, sessions.Set("tok", "ana@example.com", ""))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, sessions.LoggedIn())
}

func TestSignupValidationRejectsShortPassword(t *testing.T) {
	srv, _ := newTestServer(t, fakeAuth{})

	form := url.Values{"email": {"ana@example.com"}, "password": {"abc"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 6 characters")
}
