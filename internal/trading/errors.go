package trading

import "errors"

// Typed trade outcomes. Every failure leaves account state untouched.
var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrOrderNotFound      = errors.New("order not found")
)
