package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"clinic-register/internal/domain"
	"clinic-register/internal/repository"
	"clinic-register/internal/service"
)

const maxBodyBytes = 1 << 20

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
		return errors.New("empty body")
	}
	return json.Unmarshal(body, out)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// parseID positive int64 path segment
func parseID(s string) (int64, bool) {
	if s == "" || strings.Contains(s, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeError maps service errors onto status codes and the envelope
func writeError(w http.ResponseWriter, err error) {
	var fe domain.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, FailWith("validation failed", map[string]string(fe)))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, domain.ErrIllegalTransition):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, service.ErrUnknownView):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
}
