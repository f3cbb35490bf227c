package splitnet

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iov-one/splitnet/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context carries the block information every handler runs with.
type Context = context.Context

type ctxKey string

const (
	heightKey    ctxKey = "height"
	chainIDKey   ctxKey = "chain_id"
	loggerKey    ctxKey = "logger"
	blockTimeKey ctxKey = "block_time"
)

// DefaultLogger is returned by GetLogger when none was set.
var DefaultLogger = log.NewNopLogger()

var chainIDFormat = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`)

// IsValidChainID is true for 6 to 20 letters, digits, dashes and
// underscores. Signatures commit to the chain ID, see x/sigs.
func IsValidChainID(id string) bool {
	return chainIDFormat.MatchString(id)
}

// WithHeight sets the height of the block being processed. A context
// belongs to one block, so setting it twice panics.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("block height already set")
	}
	return context.WithValue(ctx, heightKey, height)
}

// GetHeight returns false outside of a block.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// WithBlockTime sets the header time of the block, in UTC.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, blockTimeKey, t.UTC())
}

// BlockTime fails with ErrState when no block time is set.
func BlockTime(ctx Context) (time.Time, error) {
	t, _ := ctx.Value(blockTimeKey).(time.Time)
	if t.IsZero() {
		return t, errors.Wrap(errors.ErrState, "no block time")
	}
	return t, nil
}

// WithChainID sets the chain ID once. It panics on an invalid or repeated
// value, both are programming errors of the application.
func WithChainID(ctx Context, id string) Context {
	if ctx.Value(chainIDKey) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(id) {
		panic(fmt.Sprintf("invalid chain id %q", id))
	}
	return context.WithValue(ctx, chainIDKey, id)
}

// GetChainID panics when the chain ID was never set.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("chain id not set")
	}
	return id
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}

// WithLogInfo adds keyvals to every entry logged with the context.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}
