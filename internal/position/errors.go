package position

import "errors"

var (
	ErrInvalidFEN  = errors.New("position: invalid fen")
	ErrIllegalMove = errors.New("position: illegal move")
)
