package user_repo

import (
	"context"
	"errors"
	"fmt"

	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	table           = "users"
	colID           = "id"
	colName         = "name"
	colLogin        = "login"
	colPasswordHash = "password_hash"
	colBalance      = "balance"

	uniqueViolation = "23505"
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewUserRepository(db *pgxpool.Pool) repository.UserRepository {
	return &repo{
		db:     db,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateUser - создает нового пользователя в БД.
// Возвращает ID созданного пользователя
func (r *repo) CreateUser(ctx context.Context, user *model.User) (int, error) {
	if err := repository.CheckCents(user.Balance); err != nil {
		return 0, err
	}
	query := repository.Psql.Insert(table).
		Columns(colName, colLogin, colPasswordHash, colBalance).
		Values(user.Name, user.Login, user.Password, repository.ToCents(user.Balance)).
		Suffix("RETURNING " + colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("login %q: %w", user.Login, repository.ErrAlreadyExists)
		}
		return 0, err
	}

	return id, nil
}

// GetUserByLogin - возвращает пользователя по логину
func (r *repo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	query := repository.Psql.Select(colID, colName, colLogin, colPasswordHash, colBalance).
		From(table).
		Where(sq.Eq{colLogin: login})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).
		Scan(&user.ID, &user.Name, &user.Login, &user.Password, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", login, repository.ErrNotFound)
		}
		return nil, err
	}

	user.Balance = repository.FromCents(balance)
	return &user, nil
}

func (r *repo) GetBalance(ctx context.Context, id int) (decimal.Decimal, error) {
	return r.balance(ctx, id, false)
}

func (r *repo) LockBalance(ctx context.Context, id int) (decimal.Decimal, error) {
	return r.balance(ctx, id, true)
}

func (r *repo) balance(ctx context.Context, id int, lock bool) (decimal.Decimal, error) {
	query := repository.Psql.Select(colBalance).
		From(table).
		Where(sq.Eq{colID: id})
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
		}
		return decimal.Zero, err
	}

	return repository.FromCents(balance), nil
}

// UpdateBalance - записывает новый баланс пользователя
func (r *repo) UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) error {
	if err := repository.CheckCents(balance); err != nil {
		return fmt.Errorf("user %d: %w", id, err)
	}
	query := repository.Psql.Update(table).
		Set(colBalance, repository.ToCents(balance)).
		Where(sq.Eq{colID: id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}

	return nil
}

// AddBalance - атомарно прибавляет сумму к балансу, возвращает новый баланс
func (r *repo) AddBalance(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := repository.CheckCents(amount); err != nil {
		return decimal.Zero, fmt.Errorf("user %d: %w", id, err)
	}
	query := repository.Psql.Update(table).
		Set(colBalance, sq.Expr(colBalance+" + ?", repository.ToCents(amount))).
		Where(sq.Eq{colID: id}).
		Suffix("RETURNING " + colBalance)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
		}
		return decimal.Zero, err
	}

	return repository.FromCents(balance), nil
}
