package diversifier

import "github.com/iov-one/splitnet/errors"

// Reserved codes 1020~1029
var (
	ErrNotActive                = errors.Register(1020, "diversifier not active")
	ErrNotAllowed               = errors.Register(1021, "not allowed")
	ErrInvalidSwapPath          = errors.Register(1022, "invalid swap path")
	ErrInvalidSwapToken         = errors.Register(1023, "invalid swap token")
	ErrInsufficientTokenBalance = errors.Register(1024, "insufficient token balance")
)
