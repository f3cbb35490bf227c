package crypto

import "github.com/iov-one/splitnet/errors"

// ErrInvalidKey is returned when a key of an unexpected size is used.
var ErrInvalidKey = errors.Register(30, "invalid key")
