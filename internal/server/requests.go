package server

import (
	"net/http"

	"campusrun/internal/delivery"
	"campusrun/internal/storage"
	"campusrun/pkg/types"

	"github.com/alexedwards/flow"
)

type createRequestPayload struct {
	Item            string   `json:"item"`
	PickupLocation  string   `json:"pickupLocation"`
	DropoffLocation string   `json:"dropoffLocation"`
	PickupLat       *float64 `json:"pickupLat"`
	PickupLng       *float64 `json:"pickupLng"`
	DropoffLat      *float64 `json:"dropoffLat"`
	DropoffLng      *float64 `json:"dropoffLng"`
}

func (s *Service) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var payload createRequestPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	req, events, err := s.engine.Create(r.Context(), delivery.CreateRequest{
		ActorID:         userID,
		Item:            payload.Item,
		PickupLocation:  payload.PickupLocation,
		DropoffLocation: payload.DropoffLocation,
		PickupLat:       payload.PickupLat,
		PickupLng:       payload.PickupLng,
		DropoffLat:      payload.DropoffLat,
		DropoffLng:      payload.DropoffLng,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusCreated, req)
}

func (s *Service) handleListRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var filter types.RequestFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid query parameters"})
		return
	}
	filter.UserID = userID

	if filter.Status != "" && !filter.Status.Valid() {
		s.respondError(w, &types.ValidationError{Field: "status", Message: "unknown status"})
		return
	}

	requests, err := s.engine.Requests(r.Context(), filter)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, requests)
}

func (s *Service) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := s.engine.Request(r.Context(), flow.Param(r.Context(), "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, req)
}

func (s *Service) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	req, events, err := s.engine.Accept(r.Context(), delivery.AcceptRequest{
		RequestID: flow.Param(r.Context(), "id"),
		ActorID:   userID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusOK, req)
}

func (s *Service) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	requestID := flow.Param(r.Context(), "id")

	// Reject missing files and dead ids before paying for the upload.
	if _, err := s.engine.Request(r.Context(), requestID); err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(storage.MaxPhotoSizeBytes + 1024); err != nil {
		s.respondError(w, &types.ValidationError{Field: "photo", Message: "file is required"})
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		s.respondError(w, &types.ValidationError{Field: "photo", Message: "file is required"})
		return
	}
	defer file.Close()

	photoURL, err := s.photos.UploadPhoto(r.Context(), file)
	if err != nil {
		s.respondError(w, err)
		return
	}

	req, events, err := s.engine.AttachPhoto(r.Context(), delivery.AttachPhoto{
		RequestID: requestID,
		ActorID:   userID,
		PhotoURL:  photoURL,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusOK, req)
}

func (s *Service) handleCompleteDelivery(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	req, events, err := s.engine.Complete(r.Context(), delivery.CompleteDelivery{
		RequestID: flow.Param(r.Context(), "id"),
		ActorID:   userID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusOK, req)
}

func (s *Service) handleCancelDelivery(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	req, events, err := s.engine.Cancel(r.Context(), delivery.CancelDelivery{
		RequestID: flow.Param(r.Context(), "id"),
		ActorID:   userID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusOK, req)
}

func (s *Service) handleConfirmReceived(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	archived, events, err := s.engine.ConfirmReceived(r.Context(), delivery.ConfirmReceived{
		RequestID: flow.Param(r.Context(), "id"),
		ActorID:   userID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusOK, archived)
}

func (s *Service) handleConfirmNotReceived(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	req, events, err := s.engine.ConfirmNotReceived(r.Context(), delivery.ConfirmNotReceived{
		RequestID: flow.Param(r.Context(), "id"),
		ActorID:   userID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusOK, req)
}

func (s *Service) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	events, err := s.engine.Delete(r.Context(), delivery.DeleteRequest{
		RequestID: flow.Param(r.Context(), "id"),
		ActorID:   userID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.dispatcher.Dispatch(r.Context(), events)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
