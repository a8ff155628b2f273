package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Shubham-711/Finance-tracker-saas/internal/session"
)

type authPage struct {
	Error   string
	Notice  string
	Email   string
	Name    string
	Section string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.sessions.LoggedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	page := authPage{Section: "login"}
	if r.URL.Query().Get("expired") != "" {
		page.Notice = "Your session expired, please sign in again."
	}
	if r.URL.Query().Get("registered") != "" {
		page.Notice = "Account created, you can sign in now."
	}
	s.render(w, r, "login.html", page)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		s.render(w, r, "login.html", authPage{Section: "login", Email: email, Error: "Email and password are required."})
		return
	}

	token, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed", "email", email, "error", err)
		s.render(w, r, "login.html", authPage{Section: "login", Email: email, Error: "Sign-in failed: " + err.Error()})
		return
	}
	if err := s.sessions.Set(token, email, ""); err != nil {
		slog.ErrorContext(r.Context(), "Persisting session failed", "error", err)
		s.render(w, r, "login.html", authPage{Section: "login", Email: email, Error: "Could not store the session."})
		return
	}

	// Warm the cache so the dashboard renders with data straight away. A
	// failure here is not fatal: the dashboard retries on first load.
	if err := s.data.RefreshAll(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "Initial data refresh failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if s.sessions.LoggedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "signup.html", authPage{Section: "signup"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.Form.Get("name"))
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	page := authPage{Section: "signup", Name: name, Email: email}
	switch {
	case email == "" || password == "":
		page.Error = "Email and password are required."
	case len(password) < 6:
		page.Error = "Password must be at least 6 characters."
	}
	if page.Error != "" {
		s.render(w, r, "signup.html", page)
		return
	}

	if name == "" {
		name = session.DisplayNameFromEmail(email)
	}
	if err := s.auth.Signup(r.Context(), name, email, password); err != nil {
		slog.WarnContext(r.Context(), "Signup failed", "email", email, "error", err)
		page.Error = "Signup failed: " + err.Error()
		s.render(w, r, "signup.html", page)
		return
	}
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(); err != nil {
		slog.ErrorContext(r.Context(), "Clearing session failed", "error", err)
	}
	s.data.Invalidate()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
