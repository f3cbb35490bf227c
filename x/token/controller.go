package token

import (
	"math"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
)

// Controller manages assets and balances. It performs no authentication,
// callers are responsible for authorizing the source of every transfer.
type Controller struct {
	tokens   orm.ModelBucket
	balances orm.ModelBucket
}

// NewController returns a controller using the default buckets.
func NewController() *Controller {
	return &Controller{
		tokens:   NewTokenBucket(),
		balances: NewBalanceBucket(),
	}
}

// CreateToken registers a new asset and returns its address. Symbols are
// unique.
func (c *Controller) CreateToken(db splitnet.KVStore, admin splitnet.Address, name, symbol string, decimals int32) (splitnet.Address, error) {
	t := Token{
		Admin:    admin,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	addr := AddressFor(symbol)
	switch ok, err := c.tokens.Has(db, addr); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot check token")
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "token %s", symbol)
	}
	if err := c.tokens.Put(db, addr, &t); err != nil {
		return nil, errors.Wrap(err, "cannot store token")
	}
	return addr, nil
}

// Token returns the description of given asset.
func (c *Controller) Token(db splitnet.ReadOnlyKVStore, asset splitnet.Address) (*Token, error) {
	var t Token
	if err := c.tokens.One(db, asset, &t); err != nil {
		return nil, errors.Wrapf(err, "token %s", asset)
	}
	return &t, nil
}

// Name returns the name of given asset. It fails with ErrNotFound for any
// address that is not an asset.
func (c *Controller) Name(db splitnet.ReadOnlyKVStore, asset splitnet.Address) (string, error) {
	t, err := c.Token(db, asset)
	if err != nil {
		return "", err
	}
	return t.Name, nil
}

// Balance returns the amount of asset held by owner. Unknown owners hold
// nothing.
func (c *Controller) Balance(db splitnet.ReadOnlyKVStore, asset, owner splitnet.Address) (int64, error) {
	var b Balance
	switch err := c.balances.One(db, balanceKey(asset, owner), &b); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, errors.Wrap(err, "cannot load balance")
	}
	return b.Amount, nil
}

// Issue creates amount of asset out of thin air and credits it to given
// owner.
func (c *Controller) Issue(db splitnet.KVStore, asset, to splitnet.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "cannot issue %d", amount)
	}
	if _, err := c.Token(db, asset); err != nil {
		return err
	}
	return c.credit(db, asset, to, amount)
}

// Transfer moves amount of asset between two owners.
func (c *Controller) Transfer(db splitnet.KVStore, asset, from, to splitnet.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "cannot transfer %d", amount)
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if _, err := c.Token(db, asset); err != nil {
		return err
	}
	have, err := c.Balance(db, asset, from)
	if err != nil {
		return err
	}
	if have < amount {
		return errors.Wrapf(ErrInsufficientFunds, "have %d, need %d", have, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if err := c.setBalance(db, asset, from, have-amount); err != nil {
		return err
	}
	return c.credit(db, asset, to, amount)
}

func (c *Controller) credit(db splitnet.KVStore, asset, owner splitnet.Address, amount int64) error {
	have, err := c.Balance(db, asset, owner)
	if err != nil {
		return err
	}
	if have > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	return c.setBalance(db, asset, owner, have+amount)
}

func (c *Controller) setBalance(db splitnet.KVStore, asset, owner splitnet.Address, amount int64) error {
	key := balanceKey(asset, owner)
	if amount == 0 {
		return c.balances.Delete(db, key)
	}
	return c.balances.Put(db, key, &Balance{Amount: amount})
}
