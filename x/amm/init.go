package amm

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// Initializer creates the pools listed in the "amm" genesis section. Pools
// are funded by their provider, so the token section must be loaded first.
type Initializer struct {
	Ctrl *Controller
}

var _ splitnet.Initializer = (*Initializer)(nil)

func (i *Initializer) FromGenesis(opts splitnet.Options, kv splitnet.KVStore) error {
	var genesis struct {
		Pools []struct {
			Provider splitnet.Address `json:"provider"`
			TokenA   splitnet.Address `json:"token_a"`
			TokenB   splitnet.Address `json:"token_b"`
			AmountA  int64            `json:"amount_a"`
			AmountB  int64            `json:"amount_b"`
		} `json:"pools"`
	}
	if err := opts.ReadOptions("amm", &genesis); err != nil {
		return err
	}
	for n, p := range genesis.Pools {
		if _, err := i.Ctrl.CreatePool(kv, p.TokenA, p.TokenB, p.AmountA, p.AmountB, p.Provider); err != nil {
			return errors.Wrapf(err, "pool #%d", n)
		}
	}
	return nil
}
