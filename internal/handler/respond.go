package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/repository"
	"github.com/watshodapay/watshodapay-go/internal/service"
	"github.com/watshodapay/watshodapay-go/internal/validator"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads and validates the request body into dst. On failure the
// response is written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	if err := validator.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return false
	}
	return true
}

func isValidationError(err error) bool {
	return errors.Is(err, model.ErrInvalidExpirationDay) ||
		errors.Is(err, model.ErrDescriptionRequired) ||
		errors.Is(err, model.ErrNegativeQuantity) ||
		errors.Is(err, service.ErrEmailRequired) ||
		errors.Is(err, service.ErrPasswordRequired) ||
		errors.Is(err, service.ErrNameRequired) ||
		errors.Is(err, service.ErrDebtRequired) ||
		errors.Is(err, service.ErrInvalidPeriod)
}

// writeError maps a service error to its HTTP status. Unknown errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
	case errors.Is(err, repository.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse("already exists"))
	case errors.Is(err, model.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrAuthFailure):
		writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		logger.From(r.Context()).Error("request failed", logger.Path(r.URL.Path), logger.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid id"))
		return 0, false
	}
	return id, true
}

// periodQuery reads the optional year and month query parameters.
func periodQuery(w http.ResponseWriter, r *http.Request) (year, month int, ok bool) {
	q := r.URL.Query()
	var err error
	if v := q.Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid year"))
			return 0, 0, false
		}
	}
	if v := q.Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid month"))
			return 0, 0, false
		}
	}
	return year, month, true
}
