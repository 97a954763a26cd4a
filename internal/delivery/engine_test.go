package delivery

import (
	"context"
	"strings"
	"testing"

	"campusrun/internal/ports/requesttx"
	"campusrun/internal/utils"
	"campusrun/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRequestRepo is an in-memory stand-in for the request store. WithTx
// hands out a view over the same maps, which is enough to exercise the
// engine's transition logic without a database.
type memRequestRepo struct {
	requests map[string]*types.DeliveryRequest
	archives []*types.ArchivedRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: map[string]*types.DeliveryRequest{}}
}

func (m *memRequestRepo) Request(ctx context.Context, id string) (*types.DeliveryRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, types.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (m *memRequestRepo) Requests(ctx context.Context, filter types.RequestFilter) ([]*types.DeliveryRequest, error) {
	out := make([]*types.DeliveryRequest, 0)
	for _, req := range m.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memRequestRepo) Create(ctx context.Context, req *types.DeliveryRequest) error {
	clone := *req
	m.requests[req.ID] = &clone
	return nil
}

func (m *memRequestRepo) Update(ctx context.Context, req *types.DeliveryRequest) error {
	if _, ok := m.requests[req.ID]; !ok {
		return types.ErrRequestNotFound
	}
	clone := *req
	m.requests[req.ID] = &clone
	return nil
}

func (m *memRequestRepo) Delete(ctx context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

func (m *memRequestRepo) WithTx(ctx context.Context, fn func(tx requesttx.Repository) error) error {
	return fn(&memTx{repo: m})
}

func (m *memRequestRepo) RequestsByRequester(ctx context.Context, userID string) ([]*types.DeliveryRequest, error) {
	out := make([]*types.DeliveryRequest, 0)
	for _, req := range m.requests {
		if req.RequesterID == userID {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memRequestRepo) RequestsByHelper(ctx context.Context, userID string) ([]*types.DeliveryRequest, error) {
	out := make([]*types.DeliveryRequest, 0)
	for _, req := range m.requests {
		if req.HelperID != nil && *req.HelperID == userID {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memTx struct {
	repo *memRequestRepo
}

func (t *memTx) RequestForUpdate(ctx context.Context, id string) (*types.DeliveryRequest, error) {
	return t.repo.Request(ctx, id)
}

func (t *memTx) ActiveDeliveryByHelper(ctx context.Context, helperID string) (*types.DeliveryRequest, error) {
	for _, req := range t.repo.requests {
		if req.Status == types.RequestStatusAccepted && req.HelperID != nil && *req.HelperID == helperID {
			clone := *req
			return &clone, nil
		}
	}
	return nil, nil
}

func (t *memTx) UpdateRequest(ctx context.Context, req *types.DeliveryRequest) error {
	return t.repo.Update(ctx, req)
}

func (t *memTx) InsertArchive(ctx context.Context, archived *types.ArchivedRequest) error {
	clone := *archived
	t.repo.archives = append(t.repo.archives, &clone)
	return nil
}

func (t *memTx) DeleteRequest(ctx context.Context, id string) error {
	return t.repo.Delete(ctx, id)
}

const (
	requesterID = "user-requester"
	courierID   = "user-courier"
	strangerID  = "user-stranger"
)

func newTestEngine(t *testing.T) (*Engine, *memRequestRepo) {
	t.Helper()
	repo := newMemRequestRepo()
	return NewEngine(repo), repo
}

func createOpenRequest(t *testing.T, engine *Engine) *types.DeliveryRequest {
	t.Helper()
	req, _, err := engine.Create(context.Background(), CreateRequest{
		ActorID:         requesterID,
		Item:            "Milk",
		PickupLocation:  "A",
		DropoffLocation: "B",
	})
	require.NoError(t, err)
	return req
}

func acceptedRequest(t *testing.T, engine *Engine) *types.DeliveryRequest {
	t.Helper()
	req := createOpenRequest(t, engine)
	accepted, _, err := engine.Accept(context.Background(), AcceptRequest{RequestID: req.ID, ActorID: courierID})
	require.NoError(t, err)
	return accepted
}

// status=open must always coincide with helperId=nil.
func assertOpenHelperInvariant(t *testing.T, req *types.DeliveryRequest) {
	t.Helper()
	if req.Status == types.RequestStatusOpen {
		assert.Nil(t, req.HelperID)
	} else {
		assert.NotNil(t, req.HelperID)
	}
}

func TestCreate_OpensRequest(t *testing.T) {
	engine, repo := newTestEngine(t)

	req, events, err := engine.Create(context.Background(), CreateRequest{
		ActorID:         requesterID,
		Item:            "Milk",
		PickupLocation:  "A",
		DropoffLocation: "B",
	})
	require.NoError(t, err)

	assert.Equal(t, types.RequestStatusOpen, req.Status)
	assert.Equal(t, requesterID, req.RequesterID)
	assert.Nil(t, req.HelperID)
	assert.Equal(t, types.ReceiverPending, req.ReceiverConfirm)
	assertOpenHelperInvariant(t, req)

	require.Len(t, events, 1)
	assert.Equal(t, EventRequestCreated, events[0].Kind)

	stored, err := repo.Request(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", stored.Item)
}

func TestCreate_Validation(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []struct {
		name string
		cmd  CreateRequest
		want any
	}{
		{
			name: "missing item",
			cmd:  CreateRequest{ActorID: requesterID, PickupLocation: "A", DropoffLocation: "B"},
			want: &types.ValidationError{},
		},
		{
			name: "item too long",
			cmd: CreateRequest{
				ActorID:         requesterID,
				Item:            strings.Repeat("x", types.MaxItemLength+1),
				PickupLocation:  "A",
				DropoffLocation: "B",
			},
			want: &types.FieldTooLongError{},
		},
		{
			name: "missing pickup",
			cmd:  CreateRequest{ActorID: requesterID, Item: "Milk", DropoffLocation: "B"},
			want: &types.ValidationError{},
		},
		{
			name: "missing dropoff",
			cmd:  CreateRequest{ActorID: requesterID, Item: "Milk", PickupLocation: "A"},
			want: &types.ValidationError{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := engine.Create(context.Background(), tc.cmd)
			require.Error(t, err)
			switch tc.want.(type) {
			case *types.ValidationError:
				var validationErr *types.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			case *types.FieldTooLongError:
				var tooLongErr *types.FieldTooLongError
				assert.ErrorAs(t, err, &tooLongErr)
			}
		})
	}
}

func TestAccept_AssignsCourier(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := createOpenRequest(t, engine)

	accepted, events, err := engine.Accept(context.Background(), AcceptRequest{RequestID: req.ID, ActorID: courierID})
	require.NoError(t, err)

	assert.Equal(t, types.RequestStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.HelperID)
	assert.Equal(t, courierID, *accepted.HelperID)
	assertOpenHelperInvariant(t, accepted)

	require.Len(t, events, 1)
	assert.Equal(t, EventRequestAccepted, events[0].Kind)
}

func TestAccept_NotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, _, err := engine.Accept(context.Background(), AcceptRequest{RequestID: "missing", ActorID: courierID})
	assert.ErrorIs(t, err, types.ErrRequestNotFound)
}

func TestAccept_SelfAcceptRejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := createOpenRequest(t, engine)

	_, _, err := engine.Accept(context.Background(), AcceptRequest{RequestID: req.ID, ActorID: requesterID})
	assert.ErrorIs(t, err, types.ErrSelfAccept)
}

func TestAccept_NotOpenRejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := acceptedRequest(t, engine)

	// A second accept on an already-accepted request is a defined
	// error, not a silent no-op.
	_, _, err := engine.Accept(context.Background(), AcceptRequest{RequestID: req.ID, ActorID: strangerID})
	assert.ErrorIs(t, err, types.ErrRequestNotOpen)
}

func TestAccept_CapacityGuard(t *testing.T) {
	engine, _ := newTestEngine(t)
	first := acceptedRequest(t, engine)

	second, _, err := engine.Create(context.Background(), CreateRequest{
		ActorID:         strangerID,
		Item:            "Sandwich",
		PickupLocation:  "C",
		DropoffLocation: "D",
	})
	require.NoError(t, err)

	_, _, err = engine.Accept(context.Background(), AcceptRequest{RequestID: second.ID, ActorID: courierID})
	require.Error(t, err)

	var activeErr *types.ActiveDeliveryError
	require.ErrorAs(t, err, &activeErr)
	assert.Equal(t, first.ID, activeErr.ActiveRequestID)
}

func TestAttachPhoto(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID,
		ActorID:   strangerID,
		PhotoURL:  "https://photos.example/proof.jpg",
	})
	assert.ErrorIs(t, err, types.ErrForbidden)

	updated, events, err := engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID,
		ActorID:   courierID,
		PhotoURL:  "https://photos.example/proof.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DeliveryPhotoURL)
	assert.Equal(t, "https://photos.example/proof.jpg", *updated.DeliveryPhotoURL)

	require.Len(t, events, 1)
	assert.Equal(t, EventPhotoAttached, events[0].Kind)
}

func TestComplete_RequiresPhoto(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.Complete(context.Background(), CompleteDelivery{RequestID: req.ID, ActorID: courierID})
	assert.ErrorIs(t, err, types.ErrNoDeliveryPhoto)

	_, _, err = engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID, ActorID: courierID, PhotoURL: "https://photos.example/proof.jpg",
	})
	require.NoError(t, err)

	completed, events, err := engine.Complete(context.Background(), CompleteDelivery{RequestID: req.ID, ActorID: courierID})
	require.NoError(t, err)
	assert.Equal(t, types.RequestStatusCompleted, completed.Status)
	assertOpenHelperInvariant(t, completed)

	require.Len(t, events, 1)
	assert.Equal(t, EventDeliveryCompleted, events[0].Kind)
}

func TestComplete_OnlyAssignedCourier(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID, ActorID: courierID, PhotoURL: "https://photos.example/proof.jpg",
	})
	require.NoError(t, err)

	_, _, err = engine.Complete(context.Background(), CompleteDelivery{RequestID: req.ID, ActorID: strangerID})
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestCancel_ReopensRequest(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID, ActorID: courierID, PhotoURL: "https://photos.example/proof.jpg",
	})
	require.NoError(t, err)

	cancelled, events, err := engine.Cancel(context.Background(), CancelDelivery{RequestID: req.ID, ActorID: courierID})
	require.NoError(t, err)

	assert.Equal(t, types.RequestStatusOpen, cancelled.Status)
	assert.Nil(t, cancelled.HelperID)
	assert.Nil(t, cancelled.DeliveryPhotoURL)
	assert.Equal(t, types.ReceiverPending, cancelled.ReceiverConfirm)
	assertOpenHelperInvariant(t, cancelled)

	require.Len(t, events, 1)
	assert.Equal(t, EventDeliveryCancelled, events[0].Kind)

	// A different courier can take over the reopened request.
	reaccepted, _, err := engine.Accept(context.Background(), AcceptRequest{RequestID: req.ID, ActorID: strangerID})
	require.NoError(t, err)
	require.NotNil(t, reaccepted.HelperID)
	assert.Equal(t, strangerID, *reaccepted.HelperID)
}

func TestCancel_OnlyWhileAccepted(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID, ActorID: courierID, PhotoURL: "https://photos.example/proof.jpg",
	})
	require.NoError(t, err)
	_, _, err = engine.Complete(context.Background(), CompleteDelivery{RequestID: req.ID, ActorID: courierID})
	require.NoError(t, err)

	_, _, err = engine.Cancel(context.Background(), CancelDelivery{RequestID: req.ID, ActorID: courierID})
	assert.ErrorIs(t, err, types.ErrRequestNotAccepted)
}

func TestConfirmReceived_ArchivesAndDeletes(t *testing.T) {
	engine, repo := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID, ActorID: courierID, PhotoURL: "https://photos.example/proof.jpg",
	})
	require.NoError(t, err)
	_, _, err = engine.Complete(context.Background(), CompleteDelivery{RequestID: req.ID, ActorID: courierID})
	require.NoError(t, err)

	archived, events, err := engine.ConfirmReceived(context.Background(), ConfirmReceived{RequestID: req.ID, ActorID: requesterID})
	require.NoError(t, err)

	assert.Equal(t, req.ID, archived.OriginalRequestID)
	assert.Equal(t, types.RequestStatusCompleted, archived.Status)
	assert.Equal(t, types.ReceiverReceived, archived.ReceiverConfirm)
	assert.Equal(t, courierID, archived.HelperID)
	assert.False(t, archived.CompletedAt.IsZero())
	require.Len(t, repo.archives, 1)

	require.Len(t, events, 1)
	assert.Equal(t, EventRequestArchived, events[0].Kind)

	// Live row is gone; a second confirm is 404, never a double archive.
	_, err = engine.Request(context.Background(), req.ID)
	assert.ErrorIs(t, err, types.ErrRequestNotFound)

	_, _, err = engine.ConfirmReceived(context.Background(), ConfirmReceived{RequestID: req.ID, ActorID: requesterID})
	assert.ErrorIs(t, err, types.ErrRequestNotFound)
	assert.Len(t, repo.archives, 1)
}

func TestConfirmReceived_OnlyRequester(t *testing.T) {
	engine, repo := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.ConfirmReceived(context.Background(), ConfirmReceived{RequestID: req.ID, ActorID: courierID})
	assert.ErrorIs(t, err, types.ErrForbidden)
	assert.Empty(t, repo.archives)
}

func TestConfirmNotReceived_ReopensWithoutArchive(t *testing.T) {
	engine, repo := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.AttachPhoto(context.Background(), AttachPhoto{
		RequestID: req.ID, ActorID: courierID, PhotoURL: "https://photos.example/proof.jpg",
	})
	require.NoError(t, err)
	_, _, err = engine.Complete(context.Background(), CompleteDelivery{RequestID: req.ID, ActorID: courierID})
	require.NoError(t, err)

	reopened, events, err := engine.ConfirmNotReceived(context.Background(), ConfirmNotReceived{RequestID: req.ID, ActorID: requesterID})
	require.NoError(t, err)

	assert.Equal(t, types.RequestStatusOpen, reopened.Status)
	assert.Nil(t, reopened.HelperID)
	assert.Nil(t, reopened.DeliveryPhotoURL)
	assert.Equal(t, types.ReceiverPending, reopened.ReceiverConfirm)
	assert.Equal(t, 1, reopened.NotReceivedCount)
	assert.Empty(t, repo.archives)
	assertOpenHelperInvariant(t, reopened)

	require.Len(t, events, 1)
	assert.Equal(t, EventRequestReopened, events[0].Kind)
}

func TestConfirmNotReceived_OnlyRequester(t *testing.T) {
	engine, _ := newTestEngine(t)
	req := acceptedRequest(t, engine)

	_, _, err := engine.ConfirmNotReceived(context.Background(), ConfirmNotReceived{RequestID: req.ID, ActorID: courierID})
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestDelete_RemovesWithoutArchive(t *testing.T) {
	engine, repo := newTestEngine(t)
	req := createOpenRequest(t, engine)

	_, err := engine.Delete(context.Background(), DeleteRequest{RequestID: req.ID, ActorID: strangerID})
	assert.ErrorIs(t, err, types.ErrForbidden)

	events, err := engine.Delete(context.Background(), DeleteRequest{RequestID: req.ID, ActorID: requesterID})
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, EventRequestDeleted, events[0].Kind)
	assert.Empty(t, repo.archives)

	_, err = engine.Request(context.Background(), req.ID)
	assert.ErrorIs(t, err, types.ErrRequestNotFound)
}

func TestHelperIDAlwaysSetOnAccepted(t *testing.T) {
	engine, repo := newTestEngine(t)
	req := acceptedRequest(t, engine)

	stored, err := repo.Request(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, courierID, utils.PtrString(stored.HelperID))
	assertOpenHelperInvariant(t, stored)
}
