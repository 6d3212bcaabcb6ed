package chess

import "errors"

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidPromotion = errors.New("invalid promotion choice")
	ErrGameOver         = errors.New("game is already over")
	ErrInvalidSquare    = errors.New("invalid square")
	ErrInvalidFEN       = errors.New("invalid FEN")
	ErrInvalidPosition  = errors.New("invalid position")
)
