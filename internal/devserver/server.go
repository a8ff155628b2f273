// Package devserver is a self-contained backend for local development and
// testing: the same REST contract the hosted backend speaks, implemented over
// sqlite. Tokens are opaque and stored server-side; passwords are bcrypt
// hashed.
package devserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Shubham-711/Finance-tracker-saas/internal/ratelimit"
	"github.com/Shubham-711/Finance-tracker-saas/internal/storage"
)

const sessionTTL = 24 * time.Hour

// Publisher notifies the sync worker about a transaction that needs ledger
// export. A nil publisher disables export.
type Publisher interface {
	PublishTransactionSync(ctx context.Context, id, userID int64) error
}

type Server struct {
	http.Server
	repo        *storage.SQLiteRepository
	publisher   Publisher
	trendDays   int
	rateLimiter *ratelimit.Limiter
}

func NewServer(addr string, repo *storage.SQLiteRepository, publisher Publisher, trendDays int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		repo:        repo,
		publisher:   publisher,
		trendDays:   trendDays,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /auth/signup", s.withLog(s.withRateLimit(s.handleSignup)))
	mux.HandleFunc("POST /auth/login", s.withLog(s.withRateLimit(s.handleLogin)))

	mux.HandleFunc("GET /transactions", s.withLog(s.withUser(s.handleListTransactions)))
	mux.HandleFunc("POST /transactions", s.withLog(s.withUser(s.handleCreateTransaction)))
	mux.HandleFunc("GET /transactions/{id}", s.withLog(s.withUser(s.handleGetTransaction)))
	mux.HandleFunc("PUT /transactions/{id}", s.withLog(s.withUser(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /transactions/{id}", s.withLog(s.withUser(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /goals", s.withLog(s.withUser(s.handleListGoals)))
	mux.HandleFunc("POST /goals", s.withLog(s.withUser(s.handleCreateGoal)))
	mux.HandleFunc("PUT /goals/{id}", s.withLog(s.withUser(s.handleUpdateGoal)))
	mux.HandleFunc("DELETE /goals/{id}", s.withLog(s.withUser(s.handleDeleteGoal)))

	mux.HandleFunc("GET /reports/summary", s.withLog(s.withUser(s.handleSummary)))
	mux.HandleFunc("GET /reports/trends", s.withLog(s.withUser(s.handleTrends)))
	mux.HandleFunc("GET /reports/categories", s.withLog(s.withUser(s.handleCategories)))
	mux.HandleFunc("GET /reports/dashboard-stats", s.withLog(s.withUser(s.handleDashboardStats)))

	return s
}

func (s *Server) withLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)
		slog.InfoContext(r.Context(), "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// withRateLimit throttles auth endpoints per client address.
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := ratelimit.ClientIP(r)
		if !s.rateLimiter.Allow(ip) {
			slog.WarnContext(r.Context(), "Rate limit exceeded", "client_ip", ip, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeDetail(w, http.StatusTooManyRequests, "Too many requests, try again later")
			return
		}
		next(w, r)
	}
}

// Shutdown stops the rate limiter's cleanup goroutine along with the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}

type userKey struct{}

// withUser authenticates the bearer token against the sessions table and puts
// the user id on the request context.
func (s *Server) withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID, err := s.repo.GetSessionUser(r.Context(), strings.TrimSpace(token))
		if errors.Is(err, storage.ErrNotFound) {
			writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Session lookup failed", "error", err)
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, userID)))
	}
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userKey{}).(int64)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func newToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encoding response failed", "error", err)
	}
}

// writeDetail writes the error envelope clients expect: {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
