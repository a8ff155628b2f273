package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
	"github.com/Shubham-711/Finance-tracker-saas/internal/storage"
)

func wireGoal(g core.Goal) api.Goal {
	return api.Goal{
		ID:       g.ID,
		Title:    g.Title,
		Target:   g.Target,
		Current:  g.Current,
		Deadline: g.Deadline,
	}
}

func goalFromInput(in api.GoalInput) (core.Goal, error) {
	g := core.Goal{
		Title:    strings.TrimSpace(in.Title),
		Target:   in.Target,
		Current:  in.Current,
		Deadline: in.Deadline,
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.repo.ListGoals(r.Context(), userID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing goals failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]api.Goal, 0, len(goals))
	for _, g := range goals {
		out = append(out, wireGoal(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var in api.GoalInput
	if !decodeBody(w, r, &in) {
		return
	}
	g, err := goalFromInput(in)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.repo.CreateGoal(r.Context(), userID(r), g)
	if err != nil {
		slog.ErrorContext(r.Context(), "Creating goal failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, wireGoal(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid goal id")
		return
	}
	var in api.GoalInput
	if !decodeBody(w, r, &in) {
		return
	}
	g, err := goalFromInput(in)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	g.ID = id

	updated, err := s.repo.UpdateGoal(r.Context(), userID(r), g)
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Updating goal failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, wireGoal(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid goal id")
		return
	}
	err = s.repo.DeleteGoal(r.Context(), userID(r), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Deleting goal failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
