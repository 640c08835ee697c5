package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeError 把领域错误映射为 HTTP 状态码
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoEligibleRoom):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
	}
}
