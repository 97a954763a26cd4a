package delivery

import (
	"context"

	"campusrun/internal/ports/requesttx"
	"campusrun/pkg/types"
)

type requestRepository interface {
	Request(ctx context.Context, requestID string) (*types.DeliveryRequest, error)
	Requests(ctx context.Context, filter types.RequestFilter) ([]*types.DeliveryRequest, error)
	Create(ctx context.Context, req *types.DeliveryRequest) error
	Update(ctx context.Context, req *types.DeliveryRequest) error
	Delete(ctx context.Context, requestID string) error
	WithTx(ctx context.Context, fn func(tx requesttx.Repository) error) error
}

type liveReader interface {
	RequestsByRequester(ctx context.Context, userID string) ([]*types.DeliveryRequest, error)
	RequestsByHelper(ctx context.Context, userID string) ([]*types.DeliveryRequest, error)
}

type archiveReader interface {
	ByRequester(ctx context.Context, userID string) ([]*types.ArchivedRequest, error)
	ByHelper(ctx context.Context, userID string) ([]*types.ArchivedRequest, error)
}
