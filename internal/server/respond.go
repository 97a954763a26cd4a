package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"campusrun/pkg/types"
)

type errorResponse struct {
	Error           string `json:"error"`
	ActiveRequestID string `json:"activeRequestId,omitempty"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// respondError maps engine and store failures onto the HTTP taxonomy:
// 400 validation/state conflict, 401 unauthenticated, 403 forbidden,
// 404 not found, 422 field length, 500 everything unexpected.
func (s *Service) respondError(w http.ResponseWriter, err error) {

	var fieldTooLong *types.FieldTooLongError
	var validation *types.ValidationError
	var activeDelivery *types.ActiveDeliveryError

	switch {
	case errors.Is(err, types.ErrNotAuthenticated):
		s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})

	case errors.Is(err, types.ErrForbidden):
		s.respondJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})

	case errors.Is(err, types.ErrRequestNotFound),
		errors.Is(err, types.ErrUserNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.As(err, &fieldTooLong):
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: fieldTooLong.Error()})

	case errors.As(err, &activeDelivery):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:           activeDelivery.Error(),
			ActiveRequestID: activeDelivery.ActiveRequestID,
		})

	case errors.As(err, &validation),
		errors.Is(err, types.ErrRequestNotOpen),
		errors.Is(err, types.ErrRequestNotAccepted),
		errors.Is(err, types.ErrSelfAccept),
		errors.Is(err, types.ErrNoDeliveryPhoto),
		errors.Is(err, types.ErrEmailTaken):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	default:
		s.logger.WithError(err).Error("unexpected error")
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (s *Service) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
