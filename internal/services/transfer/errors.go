package transfer

import "errors"

// Engine error taxonomy. Validation errors are terminal; ErrConflict is
// returned only after the internal retry budget is exhausted; ErrStorage
// wraps any unexpected store failure without exposing its internals.
var (
	ErrUnauthorized        = errors.New("caller does not own source account")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidDestination  = errors.New("cannot transfer to self")
	ErrAccountNotFound     = errors.New("source account not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrConflict            = errors.New("transfer conflicted with concurrent activity")
	ErrStorage             = errors.New("storage fault")
)
