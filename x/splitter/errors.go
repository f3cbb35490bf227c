package splitter

import "github.com/iov-one/splitnet/errors"

// Reserved codes 1000~1019
var (
	ErrNotInitialized                   = errors.Register(1001, "not initialized")
	ErrAlreadyInitialized               = errors.Register(1002, "already initialized")
	ErrContractLocked                   = errors.Register(1004, "contract locked")
	ErrLowShareCount                    = errors.Register(1005, "low share count")
	ErrInvalidShareTotal                = errors.Register(1006, "invalid share total")
	ErrInsufficientBalance              = errors.Register(1007, "insufficient balance")
	ErrZeroTransferAmount               = errors.Register(1008, "zero transfer amount")
	ErrTransferAmountAboveBalance       = errors.Register(1009, "transfer amount above balance")
	ErrTransferAmountAboveUnusedBalance = errors.Register(1010, "transfer amount above unused balance")
	ErrZeroWithdrawalAmount             = errors.Register(1011, "zero withdrawal amount")
	ErrWithdrawalAmountAboveAllocation  = errors.Register(1012, "withdrawal amount above allocation")
	ErrTokenNotWhitelisted              = errors.Register(1013, "token not whitelisted")
	ErrDuplicateShareholder             = errors.Register(1014, "duplicate shareholder")
	ErrInvalidShare                     = errors.Register(1015, "invalid share")
)

