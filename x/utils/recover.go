package utils

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// Recovery converts a panic raised by any decorator or handler below it
// into an ErrPanic result. The panic value is logged, as it does not reach
// the client in production mode.
type Recovery struct{}

var _ splitnet.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Checker) (res *splitnet.CheckResult, err error) {
	defer catch(ctx, "check", &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Deliverer) (res *splitnet.DeliverResult, err error) {
	defer catch(ctx, "deliver", &err)
	return next.Deliver(ctx, db, tx)
}

// catch must be deferred directly, recover only works in that frame.
func catch(ctx splitnet.Context, phase string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	splitnet.GetLogger(ctx).Error("transaction panic", "phase", phase, "panic", r)
	*err = errors.Wrapf(errors.ErrPanic, "%s: %v", phase, r)
}
