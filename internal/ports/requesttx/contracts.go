package requesttx

import (
	"context"

	"campusrun/pkg/types"
)

// Repository is the transaction-scoped view of the request store. Every
// method runs on the same database transaction, which is what lets the
// accept capacity check and the archive+delete pair stay atomic.
type Repository interface {
	// RequestForUpdate fetches a live request and locks its row until
	// the transaction ends.
	RequestForUpdate(ctx context.Context, id string) (*types.DeliveryRequest, error)

	// ActiveDeliveryByHelper returns the helper's currently accepted
	// request, or nil when the helper is free.
	ActiveDeliveryByHelper(ctx context.Context, helperID string) (*types.DeliveryRequest, error)

	UpdateRequest(ctx context.Context, req *types.DeliveryRequest) error
	InsertArchive(ctx context.Context, archived *types.ArchivedRequest) error
	DeleteRequest(ctx context.Context, id string) error
}
