package splitter

import (
	"encoding/json"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// RegisterQuery registers unit queries. Every query expects the unit
// address, followed by the shareholder and asset addresses where the query
// needs them.
//
//   /splitter/config      unit
//   /splitter/shares      unit
//   /splitter/share       unit || shareholder
//   /splitter/allocation  unit || shareholder || asset
//   /splitter/unused      unit || asset
//   /splitter/whitelist   unit
func RegisterQuery(qr splitnet.QueryRouter, resolver UnitResolver) {
	qr.Register("/splitter/config", unitQuery(resolver, 0, func(db splitnet.ReadOnlyKVStore, u Unit, _ []splitnet.Address) (interface{}, error) {
		return u.Config(db)
	}))
	qr.Register("/splitter/shares", unitQuery(resolver, 0, func(db splitnet.ReadOnlyKVStore, u Unit, _ []splitnet.Address) (interface{}, error) {
		return u.ListShares(db)
	}))
	qr.Register("/splitter/share", unitQuery(resolver, 1, func(db splitnet.ReadOnlyKVStore, u Unit, args []splitnet.Address) (interface{}, error) {
		share, ok, err := u.Share(db, args[0])
		if err != nil || !ok {
			return nil, err
		}
		return &ShareEntry{Shareholder: args[0], Share: share}, nil
	}))
	qr.Register("/splitter/allocation", unitQuery(resolver, 2, func(db splitnet.ReadOnlyKVStore, u Unit, args []splitnet.Address) (interface{}, error) {
		amount, err := u.Allocation(db, args[0], args[1])
		if err != nil {
			return nil, err
		}
		return &Allocation{Amount: amount}, nil
	}))
	qr.Register("/splitter/unused", unitQuery(resolver, 1, func(db splitnet.ReadOnlyKVStore, u Unit, args []splitnet.Address) (interface{}, error) {
		amount, err := u.UnusedTokens(db, args[0])
		if err != nil {
			return nil, err
		}
		return &Allocation{Amount: amount}, nil
	}))
	qr.Register("/splitter/whitelist", unitQuery(resolver, 0, func(db splitnet.ReadOnlyKVStore, u Unit, _ []splitnet.Address) (interface{}, error) {
		tokens, err := u.ListWhitelistedTokens(db)
		if err != nil {
			return nil, err
		}
		return &Whitelist{Tokens: tokens}, nil
	}))
}

type unitQueryFn func(db splitnet.ReadOnlyKVStore, u Unit, args []splitnet.Address) (interface{}, error)

// unitQuery returns a handler that splits the query data into the unit
// address followed by exactly nargs addresses. A nil result is returned as
// an empty set.
func unitQuery(resolver UnitResolver, nargs int, fn unitQueryFn) splitnet.QueryHandler {
	return splitnet.QueryHandlerFunc(func(db splitnet.ReadOnlyKVStore, mod string, data []byte) ([]splitnet.Model, error) {
		if mod != "" {
			return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
		}
		if len(data) != (nargs+1)*splitnet.AddressLength {
			return nil, errors.Wrapf(errors.ErrInput, "want %d addresses", nargs+1)
		}
		addrs := make([]splitnet.Address, nargs+1)
		for i := range addrs {
			addrs[i] = splitnet.Address(data[i*splitnet.AddressLength : (i+1)*splitnet.AddressLength])
		}
		unit, err := resolver.Resolve(db, addrs[0])
		if err != nil {
			return nil, err
		}
		res, err := fn(db, unit, addrs[1:])
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, nil
		}
		raw, err := json.Marshal(res)
		if err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		return []splitnet.Model{splitnet.Pair(data, raw)}, nil
	})
}
