package store

import (
	"context"
	"fmt"
	"time"

	"campusrun/internal/ports/requesttx"
	"campusrun/internal/utils"
	"campusrun/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestTableName = "campusrun.requests"

var requestColumns = utils.StructTagValues(types.DeliveryRequest{})

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Request(ctx context.Context, requestID string) (*types.DeliveryRequest, error) {

	query, args, err := psql().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var req = new(types.DeliveryRequest)
	err = pgxscan.Get(ctx, r.pool, req, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}

	return req, nil
}

func (r *RequestRepository) Requests(ctx context.Context, filter types.RequestFilter) ([]*types.DeliveryRequest, error) {

	builder := psql().Select(requestColumns...).From(requestTableName).
		OrderBy("created_at desc")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	if filter.Mine && filter.UserID != "" {
		builder = builder.Where(sq.Or{
			sq.Eq{"requester_id": filter.UserID},
			sq.Eq{"helper_id": filter.UserID},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests query: %w", err)
	}

	var requests = make([]*types.DeliveryRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) RequestsByRequester(ctx context.Context, userID string) ([]*types.DeliveryRequest, error) {
	return r.requestsBy(ctx, sq.Eq{"requester_id": userID})
}

func (r *RequestRepository) RequestsByHelper(ctx context.Context, userID string) ([]*types.DeliveryRequest, error) {
	return r.requestsBy(ctx, sq.Eq{"helper_id": userID})
}

func (r *RequestRepository) requestsBy(ctx context.Context, pred sq.Eq) ([]*types.DeliveryRequest, error) {
	query, args, err := psql().Select(requestColumns...).From(requestTableName).
		Where(pred).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests-by query: %w", err)
	}

	var requests = make([]*types.DeliveryRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *types.DeliveryRequest) error {

	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	reqMap := utils.StructToMap(req)

	query, args, err := psql().Insert(requestTableName).SetMap(reqMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create request")

}

func (r *RequestRepository) Update(ctx context.Context, req *types.DeliveryRequest) error {

	req.UpdatedAt = time.Now()

	reqMap := utils.StructToMap(req)

	query, args, err := psql().Update(requestTableName).SetMap(reqMap).Where(sq.Eq{"id": req.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update request query for request %s: %w", req.ID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update request")

}

func (r *RequestRepository) Delete(ctx context.Context, requestID string) error {

	query, args, err := psql().Delete(requestTableName).Where(sq.Eq{"id": requestID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete request query for request %s: %w", requestID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to delete request")

}

// WithTx runs fn against a transaction-scoped repository. The accept
// guard and the archive+delete pair must go through here.
func (r *RequestRepository) WithTx(ctx context.Context, fn func(tx requesttx.Repository) error) error {

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&txRequestRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txRequestRepository struct {
	tx pgx.Tx
}

func (r *txRequestRepository) RequestForUpdate(ctx context.Context, requestID string) (*types.DeliveryRequest, error) {

	query, args, err := psql().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request-for-update query: %w", err)
	}

	var req = new(types.DeliveryRequest)
	err = pgxscan.Get(ctx, r.tx, req, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request for update: %w", err)
	}

	return req, nil
}

func (r *txRequestRepository) ActiveDeliveryByHelper(ctx context.Context, helperID string) (*types.DeliveryRequest, error) {

	query, args, err := psql().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{"helper_id": helperID, "status": types.RequestStatusAccepted}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate active-delivery query: %w", err)
	}

	var req = new(types.DeliveryRequest)
	err = pgxscan.Get(ctx, r.tx, req, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch active delivery: %w", err)
	}

	return req, nil
}

func (r *txRequestRepository) UpdateRequest(ctx context.Context, req *types.DeliveryRequest) error {

	req.UpdatedAt = time.Now()

	query, args, err := psql().Update(requestTableName).
		SetMap(utils.StructToMap(req)).
		Where(sq.Eq{"id": req.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate tx update request query: %w", err)
	}

	_, err = r.tx.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update request in transaction")
}

func (r *txRequestRepository) InsertArchive(ctx context.Context, archived *types.ArchivedRequest) error {

	query, args, err := psql().Insert(archiveTableName).
		SetMap(utils.StructToMap(archived)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate tx insert archive query: %w", err)
	}

	_, err = r.tx.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to insert archived request in transaction")
}

func (r *txRequestRepository) DeleteRequest(ctx context.Context, requestID string) error {

	query, args, err := psql().Delete(requestTableName).Where(sq.Eq{"id": requestID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate tx delete request query: %w", err)
	}

	_, err = r.tx.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to delete request in transaction")
}
