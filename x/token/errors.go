package token

import "github.com/iov-one/splitnet/errors"

// Reserved codes 50~59
var (
	ErrInsufficientFunds = errors.Register(50, "insufficient funds")
	ErrInvalidToken      = errors.Register(51, "invalid token")
)
