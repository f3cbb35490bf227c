package amm

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x"
)

const createPoolCost int64 = 200

// RegisterRoutes registers all message handlers of this package.
func RegisterRoutes(r splitnet.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&CreatePoolMsg{}, &createPoolHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery exposes pools as "/amm/pool", queried by pool address.
func RegisterQuery(qr splitnet.QueryRouter, ctrl *Controller) {
	ctrl.pools.Register("amm/pool", qr)
}

type createPoolHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ splitnet.Handler = (*createPoolHandler)(nil)

func (h *createPoolHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: createPoolCost}, nil
}

func (h *createPoolHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreatePool(db, msg.TokenA, msg.TokenB, msg.AmountA, msg.AmountB, msg.Provider)
	if err != nil {
		return nil, err
	}
	splitnet.GetLogger(ctx).Info("pool created", "pool", addr, "token_a", msg.TokenA, "token_b", msg.TokenB)
	return &splitnet.DeliverResult{Data: addr}, nil
}

func (h *createPoolHandler) validate(ctx splitnet.Context, tx splitnet.Tx) (*CreatePoolMsg, error) {
	var msg CreatePoolMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Provider) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "provider signature missing")
	}
	return &msg, nil
}
