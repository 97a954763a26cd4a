package server

import (
	"context"
	"io"

	"campusrun/pkg/types"
)

type sessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	UserID(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

type userStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
}

type messageStore interface {
	ByRequest(ctx context.Context, requestID string) ([]*types.Message, error)
	Create(ctx context.Context, message *types.Message) error
}

type photoStorage interface {
	UploadPhoto(ctx context.Context, file io.Reader) (string, error)
}
