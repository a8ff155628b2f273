// Package web serves the rendered UI: login and signup, the dashboard,
// transaction and goal management, and the reports page. All data comes from
// the cache snapshot; handlers never hit the backend directly except for
// auth and writes.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/cache"
	"github.com/Shubham-711/Finance-tracker-saas/internal/session"
	appweb "github.com/Shubham-711/Finance-tracker-saas/web"
)

// Auth is the slice of the backend client the auth handlers need.
type Auth interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, name, email, password string) error
}

type Server struct {
	http.Server
	templates *template.Template
	auth      Auth
	sessions  *session.Store
	data      *cache.Store

	reportsTrendDays int
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, auth Auth, sessions *session.Store, data *cache.Store, reportsTrendDays int) (*Server, error) {
	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		auth:             auth,
		sessions:         sessions,
		data:             data,
		reportsTrendDays: reportsTrendDays,
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)

	// Public pages
	mux.HandleFunc("GET /login", s.with(s.handleLoginPage))
	mux.HandleFunc("POST /login", s.with(s.handleLogin))
	mux.HandleFunc("GET /signup", s.with(s.handleSignupPage))
	mux.HandleFunc("POST /signup", s.with(s.handleSignup))

	// Everything below requires a session
	mux.HandleFunc("GET /{$}", s.with(s.requireSession(s.handleDashboard)))
	mux.HandleFunc("POST /logout", s.with(s.requireSession(s.handleLogout)))

	mux.HandleFunc("GET /transactions", s.with(s.requireSession(s.handleTransactionsPage)))
	mux.HandleFunc("POST /transactions", s.with(s.requireSession(s.handleCreateTransaction)))
	mux.HandleFunc("POST /transactions/{id}", s.with(s.requireSession(s.handleUpdateTransaction)))
	mux.HandleFunc("POST /transactions/{id}/delete", s.with(s.requireSession(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /goals", s.with(s.requireSession(s.handleGoalsPage)))
	mux.HandleFunc("POST /goals", s.with(s.requireSession(s.handleCreateGoal)))
	mux.HandleFunc("POST /goals/{id}", s.with(s.requireSession(s.handleUpdateGoal)))
	mux.HandleFunc("POST /goals/{id}/delete", s.with(s.requireSession(s.handleDeleteGoal)))

	mux.HandleFunc("GET /reports", s.with(s.requireSession(s.handleReportsPage)))

	return s, nil
}

// with adds security headers and request logging around a handler.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// requireSession is the navigation guard: without a stored token the user is
// sent to the login page instead of the protected one.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// handleExpired recovers from a backend 401 mid-session: the token is stale,
// so clear it and restart at login. Returns true when it handled the error.
func (s *Server) handleExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	slog.WarnContext(r.Context(), "Session token rejected by backend, logging out")
	if cerr := s.sessions.Clear(); cerr != nil {
		slog.ErrorContext(r.Context(), "Clearing session failed", "error", cerr)
	}
	s.data.Invalidate()
	http.Redirect(w, r, "/login?expired=1", http.StatusSeeOther)
	return true
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
