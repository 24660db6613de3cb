package engine

import "errors"

var (
	// ErrInvalidBet ставка не входит в список допустимых
	ErrInvalidBet = errors.New("invalid bet")
	// ErrInsufficientCredits ставка больше баланса
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrNilPlayer           = errors.New("engine: nil player or ladder")
)
