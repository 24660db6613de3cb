package jackpot_repo

import (
	"context"
	"fmt"

	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table      = "jackpot_pools"
	colTier    = "tier"
	colCurrent = "current_value"
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewJackpotRepository(db *pgxpool.Pool) repository.JackpotRepository {
	return &repo{
		db:     db,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// InitPools - создает недостающие пулы на минимальных значениях,
// существующие ниже минимума поднимает до него
func (r *repo) InitPools(ctx context.Context, floors model.PoolSnapshot) error {
	if len(floors) == 0 {
		return nil
	}
	query := repository.Psql.Insert(table).
		Columns(colTier, colCurrent).
		Suffix("ON CONFLICT (" + colTier + ") DO UPDATE SET " + colCurrent +
			" = GREATEST(" + table + "." + colCurrent + ", EXCLUDED." + colCurrent + ")")
	for tier, v := range floors {
		query = query.Values(string(tier), repository.ToCents(v))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	return err
}

func (r *repo) GetPools(ctx context.Context) (model.PoolSnapshot, error) {
	return r.pools(ctx, false)
}

// LockPools - читает пулы с блокировкой строк до конца транзакции
func (r *repo) LockPools(ctx context.Context) (model.PoolSnapshot, error) {
	return r.pools(ctx, true)
}

func (r *repo) pools(ctx context.Context, lock bool) (model.PoolSnapshot, error) {
	query := repository.Psql.Select(colTier, colCurrent).
		From(table).
		OrderBy(colTier)
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(model.PoolSnapshot)
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, err
		}
		tier, err := model.ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("jackpot_pools: %w", err)
		}
		out[tier] = repository.FromCents(cents)
	}
	return out, rows.Err()
}

// SavePools - записывает значения всех переданных пулов
func (r *repo) SavePools(ctx context.Context, pools model.PoolSnapshot) error {
	if len(pools) == 0 {
		return nil
	}
	query := repository.Psql.Insert(table).
		Columns(colTier, colCurrent).
		Suffix("ON CONFLICT (" + colTier + ") DO UPDATE SET " + colCurrent + " = EXCLUDED." + colCurrent)
	for tier, v := range pools {
		query = query.Values(string(tier), repository.ToCents(v))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	return err
}
