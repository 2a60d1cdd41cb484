package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type addTransactionRequest struct {
	UserID      string  `json:"userId"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.addTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listTransactions returns the caller's scoped view by default; the
// full ledger with ?scope=all.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("scope") == "all" {
		writeJSON(w, http.StatusOK, s.ledger.All())
		return
	}

	sess, ok := s.sessions.Current()
	if !ok {
		// Authorization gap is answered with an empty list, not a failure.
		writeJSON(w, http.StatusOK, []core.Transaction{})
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.ForOwner(sess.ID))
}

func (s *Server) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := req.UserID
	if ownerID == "" {
		if sess, ok := s.sessions.Current(); ok {
			ownerID = sess.ID
		}
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, expected RFC 3339")
			return
		}
		date = parsed
	}

	tx, err := s.ledger.Add(r.Context(), ownerID, req.Amount, core.TxType(req.Type), req.Category, req.Description, date)
	switch {
	case errors.Is(err, ledger.ErrNotAuthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyOwner):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Transaction add failed", "error", err, "user_id", ownerID)
		writeError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	sess, ok := s.sessions.Current()
	if !ok {
		writeJSON(w, http.StatusOK, []core.Transaction{})
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Recent(sess.ID, limit))
}
