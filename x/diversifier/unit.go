package diversifier

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x/splitter"
)

var _ splitter.Unit = (*Diversifier)(nil)

// internal returns the internal unit.
func (d *Diversifier) internal(db splitnet.ReadOnlyKVStore) (splitter.Unit, error) {
	c, err := d.DiversifierConfig(db)
	if err != nil {
		return nil, err
	}
	return d.ctrl.units.Resolve(db, c.SplitterAddress)
}

// forward checks that the diversifier admin authorized the call and
// returns the internal unit together with a context in which the
// diversifier is authorized as the unit admin.
func (d *Diversifier) forward(ctx splitnet.Context, db splitnet.KVStore) (splitnet.Context, splitter.Unit, *Config, error) {
	c, err := d.requireAdmin(ctx, db)
	if err != nil {
		return nil, nil, nil, err
	}
	unit, err := d.ctrl.units.Resolve(db, c.SplitterAddress)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "internal unit")
	}
	return splitter.WithUnitAuth(ctx, d.addr), unit, c, nil
}

func (d *Diversifier) UpdateWhitelistedTokens(ctx splitnet.Context, db splitnet.KVStore, tokens []splitnet.Address) error {
	ctx, unit, _, err := d.forward(ctx, db)
	if err != nil {
		return err
	}
	return unit.UpdateWhitelistedTokens(ctx, db, tokens)
}

func (d *Diversifier) TransferTokens(ctx splitnet.Context, db splitnet.KVStore, asset, recipient splitnet.Address, amount int64) error {
	ctx, unit, _, err := d.forward(ctx, db)
	if err != nil {
		return err
	}
	return unit.TransferTokens(ctx, db, asset, recipient, amount)
}

// Distribute is allowed only while the diversifier is not active.
func (d *Diversifier) Distribute(ctx splitnet.Context, db splitnet.KVStore, asset splitnet.Address, amount int64) error {
	ctx, unit, c, err := d.forward(ctx, db)
	if err != nil {
		return err
	}
	if c.Active {
		return errors.Wrap(ErrNotAllowed, "distribute while active")
	}
	return unit.Distribute(ctx, db, asset, amount)
}

func (d *Diversifier) UpdateShares(ctx splitnet.Context, db splitnet.KVStore, shares []splitter.ShareEntry) error {
	ctx, unit, _, err := d.forward(ctx, db)
	if err != nil {
		return err
	}
	return unit.UpdateShares(ctx, db, shares)
}

func (d *Diversifier) UpdateName(ctx splitnet.Context, db splitnet.KVStore, name []byte) error {
	ctx, unit, _, err := d.forward(ctx, db)
	if err != nil {
		return err
	}
	return unit.UpdateName(ctx, db, name)
}

func (d *Diversifier) Lock(ctx splitnet.Context, db splitnet.KVStore) error {
	ctx, unit, _, err := d.forward(ctx, db)
	if err != nil {
		return err
	}
	return unit.Lock(ctx, db)
}

// WithdrawAllocation pays out a claim held in the internal unit. The
// shareholder authorizes it, not the diversifier admin.
func (d *Diversifier) WithdrawAllocation(ctx splitnet.Context, db splitnet.KVStore, asset, shareholder splitnet.Address, amount int64) error {
	unit, err := d.internal(db)
	if err != nil {
		return err
	}
	return unit.WithdrawAllocation(ctx, db, asset, shareholder, amount)
}

// WithdrawExternalAllocation withdraws the claim the diversifier holds in
// an external unit. Withdrawn funds are held by the diversifier, ready to
// be swapped.
func (d *Diversifier) WithdrawExternalAllocation(ctx splitnet.Context, db splitnet.KVStore, external splitter.Unit, asset splitnet.Address, amount int64) error {
	if _, err := d.requireAdmin(ctx, db); err != nil {
		return err
	}
	ctx = splitter.WithUnitAuth(ctx, d.addr)
	if err := external.WithdrawAllocation(ctx, db, asset, d.addr, amount); err != nil {
		return errors.Wrapf(err, "external unit %s", external.Address())
	}
	return nil
}

func (d *Diversifier) Share(db splitnet.ReadOnlyKVStore, shareholder splitnet.Address) (int64, bool, error) {
	unit, err := d.internal(db)
	if err != nil {
		return 0, false, err
	}
	return unit.Share(db, shareholder)
}

func (d *Diversifier) ListShares(db splitnet.ReadOnlyKVStore) ([]splitter.ShareEntry, error) {
	unit, err := d.internal(db)
	if err != nil {
		return nil, err
	}
	return unit.ListShares(db)
}

// Config returns the configuration of the internal unit.
func (d *Diversifier) Config(db splitnet.ReadOnlyKVStore) (*splitter.Config, error) {
	unit, err := d.internal(db)
	if err != nil {
		return nil, err
	}
	return unit.Config(db)
}

func (d *Diversifier) Allocation(db splitnet.ReadOnlyKVStore, shareholder, asset splitnet.Address) (int64, error) {
	unit, err := d.internal(db)
	if err != nil {
		return 0, err
	}
	return unit.Allocation(db, shareholder, asset)
}

func (d *Diversifier) UnusedTokens(db splitnet.ReadOnlyKVStore, asset splitnet.Address) (int64, error) {
	unit, err := d.internal(db)
	if err != nil {
		return 0, err
	}
	return unit.UnusedTokens(db, asset)
}

func (d *Diversifier) ListWhitelistedTokens(db splitnet.ReadOnlyKVStore) ([]splitnet.Address, error) {
	unit, err := d.internal(db)
	if err != nil {
		return nil, err
	}
	return unit.ListWhitelistedTokens(db)
}
