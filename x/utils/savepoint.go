package utils

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// Savepoint runs the rest of the chain on a cache of the store and writes
// it back only when the call succeeds, so a failed distribution or
// deployment leaves no partial ledger behind. It is enabled separately for
// CheckTx and DeliverTx.
type Savepoint struct {
	check, deliver bool
}

var _ splitnet.Decorator = Savepoint{}

// NewSavepoint returns a disabled savepoint, see OnCheck and OnDeliver.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Checker) (*splitnet.CheckResult, error) {
	var res *splitnet.CheckResult
	err := isolate(s.check, db, func(kv splitnet.KVStore) (err error) {
		res, err = next.Check(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Deliverer) (*splitnet.DeliverResult, error) {
	var res *splitnet.DeliverResult
	err := isolate(s.deliver, db, func(kv splitnet.KVStore) (err error) {
		res, err = next.Deliver(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate calls fn with a cache of db when enabled. Stores that cannot be
// cached are handed to fn as they are.
func isolate(enabled bool, db splitnet.KVStore, fn func(splitnet.KVStore) error) error {
	cacheable, ok := db.(splitnet.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "write savepoint")
}
