package splitter

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	adminCost      int64 = 50
	distributeCost int64 = 200
	withdrawCost   int64 = 100
)

// RegisterRoutes registers handlers of all unit messages. Units are looked
// up with given resolver, so that wrapped units are served by the same
// handlers. Units authorize callers themselves.
func RegisterRoutes(r splitnet.Registry, resolver UnitResolver) {
	r.Handle(&UpdateWhitelistedTokensMsg{}, &unitHandler{resolver: resolver, cost: adminCost})
	r.Handle(&TransferTokensMsg{}, &unitHandler{resolver: resolver, cost: adminCost})
	r.Handle(&DistributeMsg{}, &unitHandler{resolver: resolver, cost: distributeCost})
	r.Handle(&UpdateSharesMsg{}, &unitHandler{resolver: resolver, cost: adminCost})
	r.Handle(&UpdateNameMsg{}, &unitHandler{resolver: resolver, cost: adminCost})
	r.Handle(&LockMsg{}, &unitHandler{resolver: resolver, cost: adminCost})
	r.Handle(&WithdrawAllocationMsg{}, &unitHandler{resolver: resolver, cost: withdrawCost})
	r.Handle(&WithdrawExternalAllocationMsg{}, &unitHandler{resolver: resolver, cost: 2 * withdrawCost})
}

type unitHandler struct {
	resolver UnitResolver
	cost     int64
}

var _ splitnet.Handler = (*unitHandler)(nil)

func (h *unitHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, _, err := h.load(db, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: h.cost}, nil
}

func (h *unitHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, unit, err := h.load(db, tx)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *UpdateWhitelistedTokensMsg:
		err = unit.UpdateWhitelistedTokens(ctx, db, m.Tokens)
	case *TransferTokensMsg:
		err = unit.TransferTokens(ctx, db, m.Asset, m.Recipient, m.Amount)
	case *DistributeMsg:
		err = unit.Distribute(ctx, db, m.Asset, m.Amount)
	case *UpdateSharesMsg:
		err = unit.UpdateShares(ctx, db, m.Shares)
	case *UpdateNameMsg:
		err = unit.UpdateName(ctx, db, m.Name)
	case *LockMsg:
		err = unit.Lock(ctx, db)
	case *WithdrawAllocationMsg:
		err = unit.WithdrawAllocation(ctx, db, m.Asset, m.Shareholder, m.Amount)
	case *WithdrawExternalAllocationMsg:
		var external Unit
		external, err = h.resolver.Resolve(db, m.External)
		if err != nil {
			return nil, errors.Wrap(err, "external unit")
		}
		err = unit.WithdrawExternalAllocation(ctx, db, external, m.Asset, m.Amount)
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	if err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{
		Tags: []common.KVPair{{Key: []byte("unit"), Value: []byte(unit.Address().String())}},
	}, nil
}

// load returns the validated message and the unit it operates on.
func (h *unitHandler) load(db splitnet.KVStore, tx splitnet.Tx) (UnitMsg, Unit, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot get transaction message")
	}
	msg, ok := raw.(UnitMsg)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrMsg, "unsupported message %T", raw)
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	unit, err := h.resolver.Resolve(db, msg.Target())
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unit %s", msg.Target())
	}
	return msg, unit, nil
}
