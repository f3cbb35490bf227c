package splitter

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// UpdateShares replaces the whole roster. Shareholders missing from the new
// roster keep their allocations but receive nothing from later
// distributions.
func (u *AccountingUnit) UpdateShares(ctx splitnet.Context, db splitnet.KVStore, shares []ShareEntry) error {
	l, c, err := u.requireAdmin(ctx, db)
	if err != nil {
		return err
	}
	if !c.Mutable {
		return errors.Wrap(ErrContractLocked, "roster is locked")
	}
	if err := ValidateShares(shares); err != nil {
		return err
	}
	if err := l.replaceShares(shares); err != nil {
		return err
	}
	splitnet.GetLogger(ctx).Info("shares updated", "unit", u.addr, "shareholders", len(shares))
	return nil
}
