package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spltr3/spltr3/internal/ledger"
	"github.com/spltr3/spltr3/internal/storage"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// respondStoreError maps domain and storage errors onto HTTP status codes.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		respondError(w, http.StatusConflict, err)
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, err)
	default:
		slog.Error("internal error", "error", err)
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ledger.ErrNoShares) ||
		errors.Is(err, ledger.ErrShareCountMismatch) ||
		errors.Is(err, ledger.ErrInvalidTotal) ||
		errors.Is(err, ledger.ErrUnbalancedShares) ||
		errors.Is(err, ledger.ErrUnknownSplitType)
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
