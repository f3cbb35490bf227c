package splitter

import (
	"math"
	"math/bits"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// Cut returns floor(amount * share / TotalShares). The product is computed
// on 128 bits so it cannot overflow. Amount and share must not be negative.
func Cut(amount, share int64) int64 {
	hi, lo := bits.Mul64(uint64(amount), uint64(share))
	// hi < TotalShares for any amount below 2^63 and share up to
	// TotalShares, so Div64 cannot panic.
	q, _ := bits.Div64(hi, lo, TotalShares)
	return int64(q)
}

// Split returns the cut of every shareholder, in roster order. The sum of
// all cuts is never greater than amount.
func Split(amount int64, shares []ShareEntry) []int64 {
	cuts := make([]int64, len(shares))
	for i, s := range shares {
		cuts[i] = Cut(amount, s.Share)
	}
	return cuts
}

// Distribute credits every shareholder with its cut of amount. The amount
// must be held by the unit. Cuts rounded down to zero are skipped and the
// residual stays unused.
func (u *AccountingUnit) Distribute(ctx splitnet.Context, db splitnet.KVStore, asset splitnet.Address, amount int64) error {
	l, _, err := u.requireAdmin(ctx, db)
	if err != nil {
		return err
	}
	switch ok, err := l.IsWhitelisted(asset); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(ErrTokenNotWhitelisted, "%s", asset)
	}
	if amount <= 0 {
		return errors.Wrapf(ErrZeroTransferAmount, "amount %d", amount)
	}
	balance, err := u.ctrl.assets.Balance(db, asset, u.addr)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	if amount > balance {
		return errors.Wrapf(ErrInsufficientBalance, "amount %d, balance %d", amount, balance)
	}

	shares, err := l.listShares()
	if err != nil {
		return err
	}
	var distributed int64
	for i, cut := range Split(amount, shares) {
		if cut == 0 {
			continue
		}
		holder := shares[i].Shareholder
		prev, err := l.Allocation(holder, asset)
		if err != nil {
			return err
		}
		if prev > math.MaxInt64-cut {
			return errors.Wrapf(errors.ErrOverflow, "allocation of %s", holder)
		}
		if err := l.SaveAllocation(holder, asset, prev+cut); err != nil {
			return errors.Wrapf(err, "allocation of %s", holder)
		}
		distributed += cut
	}
	splitnet.GetLogger(ctx).Info("distributed",
		"unit", u.addr, "asset", asset, "amount", amount, "allocated", distributed)
	return nil
}
