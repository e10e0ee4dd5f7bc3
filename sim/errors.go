package sim

import "errors"

var (
	// ErrInsufficientCapital means sizing produced fewer than one
	// affordable contract. The entry is rejected; the run continues.
	ErrInsufficientCapital = errors.New("sim: insufficient capital for one contract")

	// ErrInvalidOrder means the order is missing a required field or has
	// a non-positive price.
	ErrInvalidOrder = errors.New("sim: invalid order")

	// ErrPositionClosed means a close was attempted on an already closed
	// position. CLOSED is terminal.
	ErrPositionClosed = errors.New("sim: position already closed")
)
