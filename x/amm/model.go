package amm

import (
	"bytes"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
)

// Pool holds the reserves of a single pair. Token0 always sorts before
// Token1.
type Pool struct {
	Token0   splitnet.Address `json:"token0"`
	Token1   splitnet.Address `json:"token1"`
	Reserve0 int64            `json:"reserve0"`
	Reserve1 int64            `json:"reserve1"`
}

var _ orm.Model = (*Pool)(nil)

// Validate ensures the pool is ordered and funded.
func (p *Pool) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Token0", p.Token0.Validate(), "invalid token"))
	err = errors.Append(err, errors.Field("Token1", p.Token1.Validate(), "invalid token"))
	if bytes.Compare(p.Token0, p.Token1) >= 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrModel, "tokens not sorted"))
	}
	if p.Reserve0 <= 0 || p.Reserve1 <= 0 {
		err = errors.Append(err, errors.Wrap(ErrInsufficientLiquidity, "empty reserve"))
	}
	return err
}

// reserves returns the reserves ordered as (in, out).
func (p *Pool) reserves(in splitnet.Address) (int64, int64) {
	if in.Equals(p.Token0) {
		return p.Reserve0, p.Reserve1
	}
	return p.Reserve1, p.Reserve0
}

// move applies a swap of amountIn of token in for amountOut.
func (p *Pool) move(in splitnet.Address, amountIn, amountOut int64) {
	if in.Equals(p.Token0) {
		p.Reserve0 += amountIn
		p.Reserve1 -= amountOut
		return
	}
	p.Reserve1 += amountIn
	p.Reserve0 -= amountOut
}

func sortTokens(a, b splitnet.Address) (splitnet.Address, splitnet.Address) {
	if bytes.Compare(a, b) < 0 {
		return a, b
	}
	return b, a
}

// PairFor returns the address of the pool trading given assets. Order of
// the arguments does not matter.
func PairFor(a, b splitnet.Address) splitnet.Address {
	t0, t1 := sortTokens(a, b)
	data := make([]byte, 0, len(t0)+len(t1))
	data = append(data, t0...)
	data = append(data, t1...)
	return splitnet.NewCondition("amm", "pair", data).Address()
}

// NewPoolBucket returns a bucket storing pools by their address.
func NewPoolBucket() orm.ModelBucket {
	return orm.NewModelBucket("pool", &Pool{})
}
