package delivery

import (
	"context"
	"strings"
	"time"

	"campusrun/internal/ports/requesttx"
	"campusrun/internal/utils"
	"campusrun/pkg/types"

	"github.com/google/uuid"
)

// Engine owns the delivery request state machine: open -> accepted ->
// completed, ending in archival on the final received confirmation or
// looping back to open when a delivery attempt fails. Every command
// validates the actor and the current state before touching the store
// and returns the events to dispatch after commit.
type Engine struct {
	repo requestRepository
	now  func() time.Time
}

func NewEngine(repo requestRepository) *Engine {
	return &Engine{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type CreateRequest struct {
	ActorID         string
	Item            string
	PickupLocation  string
	DropoffLocation string
	PickupLat       *float64
	PickupLng       *float64
	DropoffLat      *float64
	DropoffLng      *float64
}

type AcceptRequest struct {
	RequestID string
	ActorID   string
}

type AttachPhoto struct {
	RequestID string
	ActorID   string
	PhotoURL  string
}

type CompleteDelivery struct {
	RequestID string
	ActorID   string
}

type CancelDelivery struct {
	RequestID string
	ActorID   string
}

type ConfirmReceived struct {
	RequestID string
	ActorID   string
}

type ConfirmNotReceived struct {
	RequestID string
	ActorID   string
}

type DeleteRequest struct {
	RequestID string
	ActorID   string
}

// Request fetches a single live request.
func (e *Engine) Request(ctx context.Context, requestID string) (*types.DeliveryRequest, error) {
	return e.repo.Request(ctx, requestID)
}

// Requests lists live requests for the given filter.
func (e *Engine) Requests(ctx context.Context, filter types.RequestFilter) ([]*types.DeliveryRequest, error) {
	return e.repo.Requests(ctx, filter)
}

// Create posts a new delivery request in the open state.
func (e *Engine) Create(ctx context.Context, cmd CreateRequest) (*types.DeliveryRequest, []Event, error) {
	if err := validateCreate(&cmd); err != nil {
		return nil, nil, err
	}

	req := &types.DeliveryRequest{
		ID:              uuid.NewString(),
		Item:            cmd.Item,
		PickupLocation:  cmd.PickupLocation,
		DropoffLocation: cmd.DropoffLocation,
		PickupLat:       cmd.PickupLat,
		PickupLng:       cmd.PickupLng,
		DropoffLat:      cmd.DropoffLat,
		DropoffLng:      cmd.DropoffLng,
		Status:          types.RequestStatusOpen,
		RequesterID:     cmd.ActorID,
		ReceiverConfirm: types.ReceiverPending,
	}

	if err := e.repo.Create(ctx, req); err != nil {
		return nil, nil, err
	}

	return req, e.events(EventRequestCreated, req, cmd.ActorID), nil
}

// Accept assigns the acting courier to an open request. The status
// check and the one-active-delivery capacity check run inside a single
// transaction so two concurrent accepts cannot both succeed.
func (e *Engine) Accept(ctx context.Context, cmd AcceptRequest) (*types.DeliveryRequest, []Event, error) {
	var accepted *types.DeliveryRequest

	err := e.repo.WithTx(ctx, func(tx requesttx.Repository) error {
		req, err := tx.RequestForUpdate(ctx, cmd.RequestID)
		if err != nil {
			return err
		}

		if req.Status != types.RequestStatusOpen {
			return types.ErrRequestNotOpen
		}

		if req.RequesterID == cmd.ActorID {
			return types.ErrSelfAccept
		}

		active, err := tx.ActiveDeliveryByHelper(ctx, cmd.ActorID)
		if err != nil {
			return err
		}
		if active != nil {
			return &types.ActiveDeliveryError{ActiveRequestID: active.ID}
		}

		req.Status = types.RequestStatusAccepted
		req.HelperID = utils.StringPtr(cmd.ActorID)

		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}

		accepted = req
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return accepted, e.events(EventRequestAccepted, accepted, cmd.ActorID), nil
}

// AttachPhoto records the delivery proof reference on the request. The
// photo bytes were already validated and stored by the caller.
func (e *Engine) AttachPhoto(ctx context.Context, cmd AttachPhoto) (*types.DeliveryRequest, []Event, error) {
	req, err := e.repo.Request(ctx, cmd.RequestID)
	if err != nil {
		return nil, nil, err
	}

	if !isAssignedHelper(req, cmd.ActorID) {
		return nil, nil, types.ErrForbidden
	}

	if strings.TrimSpace(cmd.PhotoURL) == "" {
		return nil, nil, &types.ValidationError{Field: "photo", Message: "file is required"}
	}

	req.DeliveryPhotoURL = utils.StringPtr(cmd.PhotoURL)

	if err := e.repo.Update(ctx, req); err != nil {
		return nil, nil, err
	}

	return req, e.events(EventPhotoAttached, req, cmd.ActorID), nil
}

// Complete marks the delivery as completed. Gated on the proof photo:
// a courier cannot complete a delivery they cannot show happened.
func (e *Engine) Complete(ctx context.Context, cmd CompleteDelivery) (*types.DeliveryRequest, []Event, error) {
	req, err := e.repo.Request(ctx, cmd.RequestID)
	if err != nil {
		return nil, nil, err
	}

	if !isAssignedHelper(req, cmd.ActorID) {
		return nil, nil, types.ErrForbidden
	}

	if req.DeliveryPhotoURL == nil {
		return nil, nil, types.ErrNoDeliveryPhoto
	}

	req.Status = types.RequestStatusCompleted

	if err := e.repo.Update(ctx, req); err != nil {
		return nil, nil, err
	}

	return req, e.events(EventDeliveryCompleted, req, cmd.ActorID), nil
}

// Cancel releases the courier from an accepted request. The request
// itself survives: it reopens with the assignment and proof cleared so
// another courier can pick it up.
func (e *Engine) Cancel(ctx context.Context, cmd CancelDelivery) (*types.DeliveryRequest, []Event, error) {
	req, err := e.repo.Request(ctx, cmd.RequestID)
	if err != nil {
		return nil, nil, err
	}

	if !isAssignedHelper(req, cmd.ActorID) {
		return nil, nil, types.ErrForbidden
	}

	if req.Status != types.RequestStatusAccepted {
		return nil, nil, types.ErrRequestNotAccepted
	}

	reopen(req)

	if err := e.repo.Update(ctx, req); err != nil {
		return nil, nil, err
	}

	return req, e.events(EventDeliveryCancelled, req, cmd.ActorID), nil
}

// ConfirmReceived is the requester's final sign-off and the only path
// that writes an archive record. The snapshot insert and the live row
// delete happen in one transaction; a second confirm on the same id
// finds nothing and returns not-found, never a double archive.
func (e *Engine) ConfirmReceived(ctx context.Context, cmd ConfirmReceived) (*types.ArchivedRequest, []Event, error) {
	var archived *types.ArchivedRequest
	var events []Event

	err := e.repo.WithTx(ctx, func(tx requesttx.Repository) error {
		req, err := tx.RequestForUpdate(ctx, cmd.RequestID)
		if err != nil {
			return err
		}

		if req.RequesterID != cmd.ActorID {
			return types.ErrForbidden
		}

		archived = &types.ArchivedRequest{
			ID:                uuid.NewString(),
			OriginalRequestID: req.ID,
			Item:              req.Item,
			PickupLocation:    req.PickupLocation,
			DropoffLocation:   req.DropoffLocation,
			PickupLat:         req.PickupLat,
			PickupLng:         req.PickupLng,
			DropoffLat:        req.DropoffLat,
			DropoffLng:        req.DropoffLng,
			Status:            types.RequestStatusCompleted,
			RequesterID:       req.RequesterID,
			HelperID:          utils.PtrString(req.HelperID),
			DeliveryPhotoURL:  req.DeliveryPhotoURL,
			ReceiverConfirm:   types.ReceiverReceived,
			NotReceivedCount:  req.NotReceivedCount,
			CreatedAt:         req.CreatedAt,
			CompletedAt:       e.now(),
		}

		if err := tx.InsertArchive(ctx, archived); err != nil {
			return err
		}

		if err := tx.DeleteRequest(ctx, req.ID); err != nil {
			return err
		}

		events = e.events(EventRequestArchived, req, cmd.ActorID)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return archived, events, nil
}

// ConfirmNotReceived disputes the delivery: the request reopens for a
// new courier and the failed attempt is counted. No archive is written.
func (e *Engine) ConfirmNotReceived(ctx context.Context, cmd ConfirmNotReceived) (*types.DeliveryRequest, []Event, error) {
	req, err := e.repo.Request(ctx, cmd.RequestID)
	if err != nil {
		return nil, nil, err
	}

	if req.RequesterID != cmd.ActorID {
		return nil, nil, types.ErrForbidden
	}

	req.NotReceivedCount++
	reopen(req)

	if err := e.repo.Update(ctx, req); err != nil {
		return nil, nil, err
	}

	return req, e.events(EventRequestReopened, req, cmd.ActorID), nil
}

// Delete removes a live request without archiving it.
func (e *Engine) Delete(ctx context.Context, cmd DeleteRequest) ([]Event, error) {
	req, err := e.repo.Request(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if req.RequesterID != cmd.ActorID {
		return nil, types.ErrForbidden
	}

	if err := e.repo.Delete(ctx, cmd.RequestID); err != nil {
		return nil, err
	}

	return e.events(EventRequestDeleted, req, cmd.ActorID), nil
}

// reopen resets a request after a failed delivery attempt. Cancel and
// not-received share this shape: release the courier, drop the proof,
// keep the request alive.
func reopen(req *types.DeliveryRequest) {
	req.Status = types.RequestStatusOpen
	req.HelperID = nil
	req.DeliveryPhotoURL = nil
	req.ReceiverConfirm = types.ReceiverPending
}

func isAssignedHelper(req *types.DeliveryRequest, actorID string) bool {
	return req.HelperID != nil && *req.HelperID == actorID
}

func validateCreate(cmd *CreateRequest) error {
	cmd.Item = strings.TrimSpace(cmd.Item)
	cmd.PickupLocation = strings.TrimSpace(cmd.PickupLocation)
	cmd.DropoffLocation = strings.TrimSpace(cmd.DropoffLocation)

	if cmd.Item == "" {
		return &types.ValidationError{Field: "item", Message: "is required"}
	}
	if len(cmd.Item) > types.MaxItemLength {
		return &types.FieldTooLongError{Field: "item", Max: types.MaxItemLength}
	}
	if cmd.PickupLocation == "" {
		return &types.ValidationError{Field: "pickupLocation", Message: "is required"}
	}
	if cmd.DropoffLocation == "" {
		return &types.ValidationError{Field: "dropoffLocation", Message: "is required"}
	}

	return nil
}

func (e *Engine) events(kind EventKind, req *types.DeliveryRequest, actorID string) []Event {
	return []Event{{
		Kind:        kind,
		RequestID:   req.ID,
		ActorID:     actorID,
		RequesterID: req.RequesterID,
		HelperID:    utils.PtrString(req.HelperID),
		OccurredAt:  e.now(),
	}}
}
