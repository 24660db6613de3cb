package slot_repo

import (
	"context"
	"errors"

	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "slot_game_state"
	colUserID       = "user_id"
	colFreeSpins    = "free_spins_left"
	colPlayed       = "free_spins_played"
	colSessionTotal = "session_total"
	colSessionBet   = "session_bet"
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSlotRepository(db *pgxpool.Pool) repository.SlotRepository {
	return &repo{
		db:     db,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetState - состояние серии фриспинов. Нет записи - нет серии
func (r *repo) GetState(ctx context.Context, userID int) (model.SlotState, error) {
	query := repository.Psql.Select(colFreeSpins, colPlayed, colSessionTotal, colSessionBet).
		From(table).
		Where(sq.Eq{colUserID: userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return model.SlotState{}, err
	}

	var (
		st         model.SlotState
		total, bet int64
	)
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).
		Scan(&st.FreeSpinsLeft, &st.FreeSpinsPlayed, &total, &bet)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SlotState{}, nil
		}
		return model.SlotState{}, err
	}

	st.SessionTotal = repository.FromCents(total)
	st.SessionBet = repository.FromCents(bet)
	return st, nil
}

// SaveState - вставка или обновление состояния одним запросом
func (r *repo) SaveState(ctx context.Context, userID int, st model.SlotState) error {
	query := repository.Psql.Insert(table).
		Columns(colUserID, colFreeSpins, colPlayed, colSessionTotal, colSessionBet).
		Values(userID, st.FreeSpinsLeft, st.FreeSpinsPlayed,
			repository.ToCents(st.SessionTotal), repository.ToCents(st.SessionBet)).
		Suffix("ON CONFLICT (" + colUserID + ") DO UPDATE SET " +
			colFreeSpins + " = EXCLUDED." + colFreeSpins + ", " +
			colPlayed + " = EXCLUDED." + colPlayed + ", " +
			colSessionTotal + " = EXCLUDED." + colSessionTotal + ", " +
			colSessionBet + " = EXCLUDED." + colSessionBet)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	return err
}
