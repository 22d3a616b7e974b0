// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"thryv-wallet/internal/util"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errInvalidType = fmt.Errorf("unknown transaction type: %w", util.ErrInvalidInput)

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondWithError maps domain sentinels onto HTTP status codes. Unknown
// errors are logged and masked as 500 so internals never leak to clients.
func respondWithError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrSameWalletTransfer),
		util.IsError(err, util.ErrInsufficientFunds),
		util.IsError(err, util.ErrInsufficientDestinationFunds):
		status = http.StatusBadRequest
	case util.IsError(err, util.ErrNotFound):
		status = http.StatusNotFound
	case util.IsError(err, util.ErrDuplicateEntry),
		util.IsError(err, util.ErrFundExists),
		util.IsError(err, util.ErrHasTransactions),
		util.IsError(err, util.ErrConflict):
		status = http.StatusConflict
	default:
		slog.Error("request failed", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	respondWithJSON(w, status, errorResponse{Error: err.Error()})
}

// userIDParam extracts the caller's user ID from the request path.
func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// pathID extracts a positive numeric path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

func decodeBody(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return util.ErrInvalidInput
	}
	return nil
}
