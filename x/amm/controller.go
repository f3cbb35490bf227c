package amm

import (
	"math/big"
	"time"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
)

const (
	feeNumerator   = 997
	feeDenominator = 1000
)

// AssetController moves funds in and out of pools.
type AssetController interface {
	Transfer(db splitnet.KVStore, asset, from, to splitnet.Address, amount int64) error
}

// Controller manages pools and executes swaps.
type Controller struct {
	assets AssetController
	pools  orm.ModelBucket
}

// NewController returns a controller moving funds with given asset
// controller.
func NewController(assets AssetController) *Controller {
	return &Controller{
		assets: assets,
		pools:  NewPoolBucket(),
	}
}

// PairFor returns the address of the pool trading given assets.
func (c *Controller) PairFor(a, b splitnet.Address) splitnet.Address {
	return PairFor(a, b)
}

// CreatePool funds a new pool with the initial reserves taken from
// provider. Only one pool per pair can exist.
func (c *Controller) CreatePool(db splitnet.KVStore, tokenA, tokenB splitnet.Address, amountA, amountB int64, provider splitnet.Address) (splitnet.Address, error) {
	if tokenA.Equals(tokenB) {
		return nil, errors.Wrap(errors.ErrInput, "identical tokens")
	}
	if amountA <= 0 || amountB <= 0 {
		return nil, errors.Wrap(ErrInsufficientLiquidity, "reserves must be positive")
	}
	addr := PairFor(tokenA, tokenB)
	switch ok, err := c.pools.Has(db, addr); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot check pool")
	case ok:
		return nil, errors.Wrap(errors.ErrDuplicate, "pool exists")
	}
	if err := c.assets.Transfer(db, tokenA, provider, addr, amountA); err != nil {
		return nil, errors.Wrap(err, "fund token a")
	}
	if err := c.assets.Transfer(db, tokenB, provider, addr, amountB); err != nil {
		return nil, errors.Wrap(err, "fund token b")
	}
	pool := Pool{Reserve0: amountA, Reserve1: amountB}
	pool.Token0, pool.Token1 = sortTokens(tokenA, tokenB)
	if !pool.Token0.Equals(tokenA) {
		pool.Reserve0, pool.Reserve1 = amountB, amountA
	}
	if err := c.pools.Put(db, addr, &pool); err != nil {
		return nil, errors.Wrap(err, "cannot store pool")
	}
	return addr, nil
}

// Pool returns the pool trading given assets.
func (c *Controller) Pool(db splitnet.ReadOnlyKVStore, a, b splitnet.Address) (*Pool, error) {
	var p Pool
	switch err := c.pools.One(db, PairFor(a, b), &p); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrPoolNotFound, "%s/%s", a, b)
	case err != nil:
		return nil, err
	}
	return &p, nil
}

// Reserves returns the pool reserves ordered as (in, out).
func (c *Controller) Reserves(db splitnet.ReadOnlyKVStore, in, out splitnet.Address) (int64, int64, error) {
	p, err := c.Pool(db, in, out)
	if err != nil {
		return 0, 0, err
	}
	rIn, rOut := p.reserves(in)
	return rIn, rOut, nil
}

// AmountOut returns the output of swapping amountIn against given reserves,
// after the fee is taken.
func (c *Controller) AmountOut(amountIn, reserveIn, reserveOut int64) (int64, error) {
	return AmountOut(amountIn, reserveIn, reserveOut)
}

// AmountOut computes amountIn*997*rOut / (rIn*1000 + amountIn*997).
func AmountOut(amountIn, reserveIn, reserveOut int64) (int64, error) {
	if amountIn <= 0 {
		return 0, errors.Wrap(errors.ErrAmount, "input must be positive")
	}
	if reserveIn <= 0 || reserveOut <= 0 {
		return 0, errors.Wrap(ErrInsufficientLiquidity, "empty reserve")
	}
	inWithFee := new(big.Int).Mul(big.NewInt(amountIn), big.NewInt(feeNumerator))
	num := new(big.Int).Mul(inWithFee, big.NewInt(reserveOut))
	den := new(big.Int).Mul(big.NewInt(reserveIn), big.NewInt(feeDenominator))
	den.Add(den, inWithFee)
	// Result is always smaller than reserveOut.
	return num.Quo(num, den).Int64(), nil
}

// AmountsOut quotes every hop of the path. The first element is amountIn.
func (c *Controller) AmountsOut(db splitnet.ReadOnlyKVStore, amountIn int64, path []splitnet.Address) ([]int64, error) {
	if len(path) < 2 {
		return nil, errors.Wrap(errors.ErrInput, "path too short")
	}
	amounts := make([]int64, len(path))
	amounts[0] = amountIn
	for i := 0; i < len(path)-1; i++ {
		rIn, rOut, err := c.Reserves(db, path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		out, err := AmountOut(amounts[i], rIn, rOut)
		if err != nil {
			return nil, err
		}
		amounts[i+1] = out
	}
	return amounts, nil
}

// SwapExactTokensForTokens sells amountIn of path[0] owned by from along the
// path. The output is credited to to. It fails when the final output is
// below minOut or when now is past the deadline.
func (c *Controller) SwapExactTokensForTokens(db splitnet.KVStore, amountIn, minOut int64, path []splitnet.Address, from, to splitnet.Address, deadline, now time.Time) ([]int64, error) {
	if now.After(deadline) {
		return nil, errors.Wrapf(errors.ErrExpired, "deadline %s", deadline)
	}
	amounts, err := c.AmountsOut(db, amountIn, path)
	if err != nil {
		return nil, err
	}
	if last := amounts[len(amounts)-1]; last < minOut || last == 0 {
		return nil, errors.Wrapf(ErrSlippage, "got %d, want at least %d", last, minOut)
	}

	if err := c.assets.Transfer(db, path[0], from, PairFor(path[0], path[1]), amountIn); err != nil {
		return nil, errors.Wrap(err, "pay in")
	}
	for i := 0; i < len(path)-1; i++ {
		in, out := path[i], path[i+1]
		pool, err := c.Pool(db, in, out)
		if err != nil {
			return nil, err
		}
		pool.move(in, amounts[i], amounts[i+1])
		poolAddr := PairFor(in, out)
		if err := c.pools.Put(db, poolAddr, pool); err != nil {
			return nil, errors.Wrap(err, "cannot update pool")
		}
		dest := to
		if i < len(path)-2 {
			dest = PairFor(out, path[i+2])
		}
		if err := c.assets.Transfer(db, out, poolAddr, dest, amounts[i+1]); err != nil {
			return nil, errors.Wrap(err, "pay out")
		}
	}
	return amounts, nil
}
