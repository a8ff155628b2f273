package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
	"github.com/Shubham-711/Finance-tracker-saas/internal/storage"
)

func wireTransaction(t core.Transaction) api.Transaction {
	return api.Transaction{
		ID:          t.ID,
		Amount:      t.Amount,
		Category:    t.Category,
		Date:        t.Date,
		Type:        string(t.Type),
		Description: t.Description,
	}
}

// transactionFromInput normalizes and validates a submitted transaction.
// Category and type are lowercased; anything but income|expense is rejected.
func transactionFromInput(in api.TransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		Amount:      in.Amount,
		Category:    core.NormalizeCategory(in.Category),
		Date:        in.Date,
		Type:        core.NormalizeType(in.Type),
		Description: in.Description,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.repo.ListTransactions(r.Context(), userID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing transactions failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]api.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, wireTransaction(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}
	t, err := s.repo.GetTransaction(r.Context(), userID(r), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Getting transaction failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, wireTransaction(t))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in api.TransactionInput
	if !decodeBody(w, r, &in) {
		return
	}
	t, err := transactionFromInput(in)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	created, err := s.repo.CreateTransaction(r.Context(), uid, t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Creating transaction failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.publishSync(r, created.ID, uid)
	writeJSON(w, http.StatusCreated, wireTransaction(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}
	var in api.TransactionInput
	if !decodeBody(w, r, &in) {
		return
	}
	t, err := transactionFromInput(in)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = id

	uid := userID(r)
	updated, err := s.repo.UpdateTransaction(r.Context(), uid, t)
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Updating transaction failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.publishSync(r, updated.ID, uid)
	writeJSON(w, http.StatusOK, wireTransaction(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}
	err = s.repo.DeleteTransaction(r.Context(), userID(r), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Deleting transaction failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// publishSync hands the transaction to the export queue. Export is best
// effort: a broker outage never fails the API request, the periodic sweep
// picks the row up later.
func (s *Server) publishSync(r *http.Request, id, uid int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(r.Context(), id, uid); err != nil {
		slog.WarnContext(r.Context(), "Publishing sync message failed",
			"id", id, "user_id", uid, "error", err)
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
