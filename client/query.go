package client

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x/deployer"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/iov-one/splitnet/x/token"
)

func join(addrs ...splitnet.Address) []byte {
	var out []byte
	for _, a := range addrs {
		out = append(out, a...)
	}
	return out
}

// UnitConfig returns the configuration of a unit.
func (c *Client) UnitConfig(unit splitnet.Address) (*splitter.Config, error) {
	var conf splitter.Config
	switch ok, err := c.QueryOne("/splitter/config", unit, &conf); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(errors.ErrNotFound, "unit %s", unit)
	}
	return &conf, nil
}

// Allocation returns the amount of asset a shareholder can withdraw from
// a unit.
func (c *Client) Allocation(unit, shareholder, asset splitnet.Address) (int64, error) {
	var a splitter.Allocation
	if _, err := c.QueryOne("/splitter/allocation", join(unit, shareholder, asset), &a); err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// Balance returns the token balance of an owner. Unknown owners hold zero.
func (c *Client) Balance(asset, owner splitnet.Address) (int64, error) {
	var b token.Balance
	if _, err := c.QueryOne("/token/balance", join(asset, owner), &b); err != nil {
		return 0, err
	}
	return b.Amount, nil
}

// Contract returns the deployment record of an address.
func (c *Client) Contract(addr splitnet.Address) (*deployer.Contract, error) {
	var ct deployer.Contract
	switch ok, err := c.QueryOne("/deployer/contract", addr, &ct); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(errors.ErrNotFound, "contract %s", addr)
	}
	return &ct, nil
}
