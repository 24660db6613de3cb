// Package freespin серия бесплатных спинов: Inactive -> Active -> Inactive.
package freespin

import (
	"errors"

	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

var (
	ErrInactive = errors.New("freespin: no active session")
	ErrBadAward = errors.New("freespin: award must be positive")
)

// Session одна серия на игрока, повторный триггер продлевает текущую серию
type Session struct {
	state     State
	remaining int
	played    int
	total     decimal.Decimal
	bet       decimal.Decimal
}

func New() *Session {
	return &Session{}
}

// Restore поднимает серию из сохраненного состояния
func Restore(st model.SlotState) *Session {
	s := &Session{
		remaining: st.FreeSpinsLeft,
		played:    st.FreeSpinsPlayed,
		total:     st.SessionTotal,
		bet:       st.SessionBet,
	}
	if s.remaining > 0 {
		s.state = Active
	} else {
		s.remaining = 0
		s.played = 0
		s.total = decimal.Zero
	}
	return s
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Active() bool {
	return s.state == Active
}

func (s *Session) Remaining() int {
	return s.remaining
}

func (s *Session) Played() int {
	return s.played
}

func (s *Session) Total() decimal.Decimal {
	return s.total
}

// Bet ставка, на которой была запущена серия
func (s *Session) Bet() decimal.Decimal {
	return s.bet
}

// Trigger запускает серию или продлевает активную
func (s *Session) Trigger(spins int, bet decimal.Decimal) error {
	if spins <= 0 {
		return ErrBadAward
	}
	if s.state == Active {
		s.remaining += spins
		return nil
	}
	s.state = Active
	s.remaining = spins
	s.played = 0
	s.total = decimal.Zero
	s.bet = bet
	return nil
}

// Resolve списывает один сыгранный фриспин и копит выигрыш.
// Когда фриспины заканчиваются, возвращает итог серии ровно один раз
func (s *Session) Resolve(win decimal.Decimal) (*model.FreeSpinSummary, error) {
	if s.state != Active || s.remaining <= 0 {
		return nil, ErrInactive
	}
	s.remaining--
	s.played++
	s.total = s.total.Add(win)

	if s.remaining > 0 {
		return nil, nil
	}

	summary := &model.FreeSpinSummary{
		SpinsPlayed: s.played,
		TotalWin:    s.total,
		Bet:         s.bet,
	}
	s.state = Inactive
	s.played = 0
	s.total = decimal.Zero
	s.bet = decimal.Zero
	return summary, nil
}

// Snapshot состояние для сохранения
func (s *Session) Snapshot() model.SlotState {
	return model.SlotState{
		FreeSpinsLeft:   s.remaining,
		FreeSpinsPlayed: s.played,
		SessionTotal:    s.total,
		SessionBet:      s.bet,
	}
}
