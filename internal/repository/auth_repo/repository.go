package auth_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table          = "sessions"
	colSessionID   = "session_id"
	colUserID      = "user_id"
	colRefreshHash = "refresh_hash"
	colExpiredTime = "expired_time"
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
	now    func() time.Time
}

func NewAuthRepository(db *pgxpool.Pool) repository.AuthRepository {
	return &repo{
		db:     db,
		getter: trmpgx.DefaultCtxGetter,
		now:    time.Now,
	}
}

// CreateSession - создает сессию в БД.
// RefreshToken в модели уже захэширован
func (r *repo) CreateSession(ctx context.Context, session *model.Session) error {
	query := repository.Psql.Insert(table).
		Columns(colSessionID, colUserID, colRefreshHash, colExpiredTime).
		Values(session.ID, session.UserID, session.RefreshToken, session.ExpiresAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	return err
}

// GetRefreshTokenBySessionID - хэш refresh токена живой сессии
func (r *repo) GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (string, error) {
	query := repository.Psql.Select(colRefreshHash).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		Where(sq.Gt{colExpiredTime: r.now()})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var refreshHash string
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&refreshHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("session %s: %w", sessionID, repository.ErrNotFound)
		}
		return "", err
	}

	return refreshHash, nil
}

// GetUserIDBySessionID - ID пользователя живой сессии
func (r *repo) GetUserIDBySessionID(ctx context.Context, sessionID string) (int, error) {
	query := repository.Psql.Select(colUserID).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		Where(sq.Gt{colExpiredTime: r.now()})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var userID int
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("session %s: %w", sessionID, repository.ErrNotFound)
		}
		return 0, err
	}

	return userID, nil
}

// DeleteSession - удаляет сессию из БД
func (r *repo) DeleteSession(ctx context.Context, sessionID string) error {
	query := repository.Psql.Delete(table).
		Where(sq.Eq{colSessionID: sessionID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	return err
}
