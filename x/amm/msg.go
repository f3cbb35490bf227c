package amm

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// CreatePoolMsg funds a new pool. Provider must sign.
type CreatePoolMsg struct {
	Provider splitnet.Address `json:"provider"`
	TokenA   splitnet.Address `json:"token_a"`
	TokenB   splitnet.Address `json:"token_b"`
	AmountA  int64            `json:"amount_a"`
	AmountB  int64            `json:"amount_b"`
}

var _ splitnet.Msg = (*CreatePoolMsg)(nil)

func (CreatePoolMsg) Path() string {
	return "amm/create_pool"
}

func (m *CreatePoolMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Provider", m.Provider.Validate(), "invalid provider"))
	err = errors.Append(err, errors.Field("TokenA", m.TokenA.Validate(), "invalid token"))
	err = errors.Append(err, errors.Field("TokenB", m.TokenB.Validate(), "invalid token"))
	if m.TokenA.Equals(m.TokenB) {
		err = errors.Append(err, errors.Field("TokenB", errors.ErrInput, "must differ from token a"))
	}
	if m.AmountA <= 0 || m.AmountB <= 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrAmount, "amounts must be positive"))
	}
	return err
}
