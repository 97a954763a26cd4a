package store

import (
	"context"
	"fmt"

	"campusrun/internal/utils"
	"campusrun/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const archiveTableName = "campusrun.archived_requests"

var archiveColumns = utils.StructTagValues(types.ArchivedRequest{})

// ArchiveRepository is append-only. Rows are written once per confirmed
// delivery (normally through the request transaction) and never updated
// or deleted.
type ArchiveRepository struct {
	pool *pgxpool.Pool
}

func NewArchiveRepository(pool *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{pool: pool}
}

func (r *ArchiveRepository) Insert(ctx context.Context, archived *types.ArchivedRequest) error {

	query, args, err := psql().Insert(archiveTableName).
		SetMap(utils.StructToMap(archived)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert archive query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to insert archived request")
}

func (r *ArchiveRepository) ByRequester(ctx context.Context, userID string) ([]*types.ArchivedRequest, error) {
	return r.archivedBy(ctx, sq.Eq{"requester_id": userID})
}

func (r *ArchiveRepository) ByHelper(ctx context.Context, userID string) ([]*types.ArchivedRequest, error) {
	return r.archivedBy(ctx, sq.Eq{"helper_id": userID})
}

func (r *ArchiveRepository) archivedBy(ctx context.Context, pred sq.Eq) ([]*types.ArchivedRequest, error) {

	query, args, err := psql().Select(archiveColumns...).From(archiveTableName).
		Where(pred).
		OrderBy("completed_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate archived-by query: %w", err)
	}

	var archived = make([]*types.ArchivedRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &archived, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived requests: %w", err)
	}

	return archived, nil
}
