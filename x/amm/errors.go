package amm

import "github.com/iov-one/splitnet/errors"

// Reserved codes 60~69
var (
	ErrPoolNotFound          = errors.Register(60, "pool not found")
	ErrSlippage              = errors.Register(61, "output below minimum")
	ErrInsufficientLiquidity = errors.Register(62, "insufficient liquidity")
)
