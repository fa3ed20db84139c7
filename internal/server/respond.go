package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "china-one/internal/errors"
)

type errorResponse struct {
	Error     string                       `json:"error"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps the error taxonomy to HTTP statuses: validation 400,
// unauthenticated 401, not found 404, transition/conflict 409, everything
// else a generic 500.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		writeErr(w, logger, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details)
		return
	}
	if ue, ok := apperrors.IsUnauthenticatedError(err); ok {
		writeErr(w, logger, http.StatusUnauthorized, "UNAUTHENTICATED", ue.Message, nil)
		return
	}
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		writeErr(w, logger, http.StatusNotFound, "NOT_FOUND", nf.Message, nil)
		return
	}
	if te, ok := apperrors.IsTransitionError(err); ok {
		writeErr(w, logger, http.StatusConflict, "TRANSITION_ERROR", te.Message, nil)
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		writeErr(w, logger, http.StatusConflict, "CONFLICT", ce.Message, nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeErr(w, logger, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func writeErr(w http.ResponseWriter, logger *zap.Logger, status int, code, message string, details []apperrors.ValidationDetail) {
	WriteJSON(w, logger, status, errorResponse{
		Error:     code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
