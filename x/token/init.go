package token

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// Initializer fulfils the Initializer interface to load tokens and initial
// balances from the genesis file.
type Initializer struct {
	Ctrl *Controller
}

var _ splitnet.Initializer = (*Initializer)(nil)

// FromGenesis reads the "token" section:
//
//   {"tokens": [{"admin": "...", "name": "...", "symbol": "...", "decimals": 6}],
//    "balances": [{"symbol": "...", "owner": "...", "amount": 100}]}
func (i *Initializer) FromGenesis(opts splitnet.Options, kv splitnet.KVStore) error {
	var genesis struct {
		Tokens []struct {
			Admin    splitnet.Address `json:"admin"`
			Name     string           `json:"name"`
			Symbol   string           `json:"symbol"`
			Decimals int32            `json:"decimals"`
		} `json:"tokens"`
		Balances []struct {
			Symbol string           `json:"symbol"`
			Owner  splitnet.Address `json:"owner"`
			Amount int64            `json:"amount"`
		} `json:"balances"`
	}
	if err := opts.ReadOptions("token", &genesis); err != nil {
		return err
	}
	for _, t := range genesis.Tokens {
		if _, err := i.Ctrl.CreateToken(kv, t.Admin, t.Name, t.Symbol, t.Decimals); err != nil {
			return errors.Wrapf(err, "token %s", t.Symbol)
		}
	}
	for _, b := range genesis.Balances {
		if err := i.Ctrl.Issue(kv, AddressFor(b.Symbol), b.Owner, b.Amount); err != nil {
			return errors.Wrapf(err, "balance of %s", b.Owner)
		}
	}
	return nil
}
