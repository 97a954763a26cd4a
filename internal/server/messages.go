package server

import (
	"net/http"
	"strings"

	"campusrun/pkg/types"

	"github.com/alexedwards/flow"
)

type postMessagePayload struct {
	Body string `json:"body"`
}

func (s *Service) requestParticipant(w http.ResponseWriter, r *http.Request) (*types.DeliveryRequest, string, bool) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return nil, "", false
	}

	req, err := s.engine.Request(r.Context(), flow.Param(r.Context(), "id"))
	if err != nil {
		s.respondError(w, err)
		return nil, "", false
	}

	if req.RequesterID != userID && (req.HelperID == nil || *req.HelperID != userID) {
		s.respondError(w, types.ErrForbidden)
		return nil, "", false
	}

	return req, userID, true
}

func (s *Service) handleListMessages(w http.ResponseWriter, r *http.Request) {
	req, _, ok := s.requestParticipant(w, r)
	if !ok {
		return
	}

	messages, err := s.messages.ByRequest(r.Context(), req.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, messages)
}

func (s *Service) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := s.requestParticipant(w, r)
	if !ok {
		return
	}

	var payload postMessagePayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	payload.Body = strings.TrimSpace(payload.Body)
	if payload.Body == "" {
		s.respondError(w, &types.ValidationError{Field: "body", Message: "is required"})
		return
	}
	if len(payload.Body) > types.MaxMessageLength {
		s.respondError(w, &types.FieldTooLongError{Field: "body", Max: types.MaxMessageLength})
		return
	}

	message := &types.Message{
		RequestID: req.ID,
		SenderID:  userID,
		Body:      payload.Body,
	}

	if err := s.messages.Create(r.Context(), message); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, message)
}
