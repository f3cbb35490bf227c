package deployer

import "github.com/iov-one/splitnet/errors"

// Reserved codes 1030~1039
var (
	ErrUnknownReference = errors.Register(1030, "unknown network reference")
	ErrDuplicateID      = errors.Register(1031, "duplicate network id")
	ErrUnknownKind      = errors.Register(1032, "unknown contract kind")
)
