package utils

import (
	"time"

	"github.com/iov-one/splitnet"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging is a decorator writing one log entry per processed transaction.
// Failed deliveries are logged as errors, failed checks at info level.
// Successful checks are logged at debug level.
type Logging struct{}

var _ splitnet.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx splitnet.Context, store splitnet.KVStore, tx splitnet.Tx, next splitnet.Checker) (*splitnet.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Info("check failed", "err", err)
	default:
		logger.Debug("check", "gas", res.GasAllocated, "log", res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx splitnet.Context, store splitnet.KVStore, tx splitnet.Tx, next splitnet.Deliverer) (*splitnet.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("deliver failed", "err", err)
	default:
		logger.Info("deliver", "tags", len(res.Tags), "log", res.Log)
	}
	return res, err
}

// txLogger returns the context logger annotated with the block height, the
// message path and the processing time in microseconds.
func txLogger(ctx splitnet.Context, tx splitnet.Tx, start time.Time) log.Logger {
	height, _ := splitnet.GetHeight(ctx)
	return splitnet.GetLogger(ctx).With(
		"height", height,
		"path", splitnet.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
}
