package engine

import (
	"haunted_slot/internal/engine/freespin"
	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

// Player баланс и серия фриспинов одного игрока
type Player struct {
	Balance   decimal.Decimal
	FreeSpins *freespin.Session
}

func NewPlayer(balance decimal.Decimal) *Player {
	return &Player{Balance: balance, FreeSpins: freespin.New()}
}

// RestorePlayer поднимает игрока из сохраненных баланса и состояния серии
func RestorePlayer(balance decimal.Decimal, st model.SlotState) *Player {
	return &Player{Balance: balance, FreeSpins: freespin.Restore(st)}
}
