package splitter

import (
	"github.com/iov-one/splitnet"
)

// AssetController is the fungible asset service units hold their funds in.
type AssetController interface {
	Balance(db splitnet.ReadOnlyKVStore, asset, owner splitnet.Address) (int64, error)
	Transfer(db splitnet.KVStore, asset, from, to splitnet.Address, amount int64) error
	// Name is used to probe that an address is an asset.
	Name(db splitnet.ReadOnlyKVStore, asset splitnet.Address) (string, error)
}

// Unit is the interface shared by every kind of unit that can hold shares.
// Accounting units implement it directly, wrappers forward to the unit they
// own.
type Unit interface {
	Address() splitnet.Address

	UpdateWhitelistedTokens(ctx splitnet.Context, db splitnet.KVStore, tokens []splitnet.Address) error
	TransferTokens(ctx splitnet.Context, db splitnet.KVStore, asset, recipient splitnet.Address, amount int64) error
	Distribute(ctx splitnet.Context, db splitnet.KVStore, asset splitnet.Address, amount int64) error
	UpdateShares(ctx splitnet.Context, db splitnet.KVStore, shares []ShareEntry) error
	UpdateName(ctx splitnet.Context, db splitnet.KVStore, name []byte) error
	Lock(ctx splitnet.Context, db splitnet.KVStore) error
	WithdrawAllocation(ctx splitnet.Context, db splitnet.KVStore, asset, shareholder splitnet.Address, amount int64) error
	WithdrawExternalAllocation(ctx splitnet.Context, db splitnet.KVStore, external Unit, asset splitnet.Address, amount int64) error

	Share(db splitnet.ReadOnlyKVStore, shareholder splitnet.Address) (int64, bool, error)
	ListShares(db splitnet.ReadOnlyKVStore) ([]ShareEntry, error)
	Config(db splitnet.ReadOnlyKVStore) (*Config, error)
	Allocation(db splitnet.ReadOnlyKVStore, shareholder, asset splitnet.Address) (int64, error)
	UnusedTokens(db splitnet.ReadOnlyKVStore, asset splitnet.Address) (int64, error)
	ListWhitelistedTokens(db splitnet.ReadOnlyKVStore) ([]splitnet.Address, error)
}

// UnitResolver returns the unit deployed at given address. It fails with
// ErrNotFound when nothing is deployed there.
type UnitResolver interface {
	Resolve(db splitnet.ReadOnlyKVStore, addr splitnet.Address) (Unit, error)
}
