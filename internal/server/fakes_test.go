package server

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"campusrun/internal/ports/requesttx"
	"campusrun/pkg/types"

	"github.com/google/uuid"
)

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
		if filter.Mine && filter.UserID != "" {
			if req.RequesterID != filter.UserID && (req.HelperID == nil || *req.HelperID != filter.UserID) {
				continue
			}
		}
		clone := *req
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRequestRepo) Create(ctx context.Context, req *types.DeliveryRequest) error {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	clone := *req
	m.requests[req.ID] = &clone
	return nil
}

func (m *memRequestRepo) Update(ctx context.Context, req *types.DeliveryRequest) error {
	if _, ok := m.requests[req.ID]; !ok {
		return types.ErrRequestNotFound
	}
	req.UpdatedAt = time.Now()
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

type memArchiveRepo struct {
	repo *memRequestRepo
}

func (m *memArchiveRepo) ByRequester(ctx context.Context, userID string) ([]*types.ArchivedRequest, error) {
	out := make([]*types.ArchivedRequest, 0)
	for _, archived := range m.repo.archives {
		if archived.RequesterID == userID {
			out = append(out, archived)
		}
	}
	return out, nil
}

func (m *memArchiveRepo) ByHelper(ctx context.Context, userID string) ([]*types.ArchivedRequest, error) {
	out := make([]*types.ArchivedRequest, 0)
	for _, archived := range m.repo.archives {
		if archived.HelperID == userID {
			out = append(out, archived)
		}
	}
	return out, nil
}

type memUserStore struct {
	users map[string]*types.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*types.User{}}
}

func (m *memUserStore) User(ctx context.Context, userID string) (*types.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (m *memUserStore) Create(ctx context.Context, user *types.User) error {
	if _, err := m.UserByEmail(ctx, user.Email); err == nil {
		return types.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

type memSessionStore struct {
	tokens map[string]string
	nextID int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{tokens: map[string]string{}}
}

func (m *memSessionStore) Create(ctx context.Context, userID string) (string, error) {
	m.nextID++
	token := fmt.Sprintf("token-%d", m.nextID)
	m.tokens[token] = userID
	return token, nil
}

func (m *memSessionStore) UserID(ctx context.Context, token string) (string, error) {
	userID, ok := m.tokens[token]
	if !ok {
		return "", types.ErrNotAuthenticated
	}
	return userID, nil
}

func (m *memSessionStore) Destroy(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

type memMessageStore struct {
	messages []*types.Message
}

func (m *memMessageStore) ByRequest(ctx context.Context, requestID string) ([]*types.Message, error) {
	out := make([]*types.Message, 0)
	for _, message := range m.messages {
		if message.RequestID == requestID {
			out = append(out, message)
		}
	}
	return out, nil
}

func (m *memMessageStore) Create(ctx context.Context, message *types.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, message)
	return nil
}

type fakePhotoStorage struct {
	uploads int
}

func (f *fakePhotoStorage) UploadPhoto(ctx context.Context, file io.Reader) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	f.uploads++
	return fmt.Sprintf("https://photos.test/upload-%d.png", f.uploads), nil
}
