package store

import (
	"context"
	"fmt"
	"time"

	"campusrun/internal/utils"
	"campusrun/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageTableName = "campusrun.messages"

var messageColumns = utils.StructTagValues(types.Message{})

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) ByRequest(ctx context.Context, requestID string) ([]*types.Message, error) {

	query, args, err := psql().Select(messageColumns...).From(messageTableName).
		Where(sq.Eq{"request_id": requestID}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate messages query: %w", err)
	}

	var messages = make([]*types.Message, 0)
	err = pgxscan.Select(ctx, r.pool, &messages, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return messages, nil
}

func (r *MessageRepository) Create(ctx context.Context, message *types.Message) error {

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now()

	query, args, err := psql().Insert(messageTableName).
		SetMap(utils.StructToMap(message)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert message query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create message")
}
