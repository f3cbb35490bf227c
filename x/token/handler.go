package token

import (
	"encoding/json"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createTokenCost int64 = 100
	issueCost       int64 = 50
	sendCost        int64 = 10
)

// RegisterRoutes registers all message handlers of this package.
func RegisterRoutes(r splitnet.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&CreateTokenMsg{}, &createTokenHandler{auth: auth, ctrl: ctrl})
	r.Handle(&IssueMsg{}, &issueHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SendMsg{}, &sendHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery registers "/tokens" and "/token/balance" queries.
func RegisterQuery(qr splitnet.QueryRouter, ctrl *Controller) {
	ctrl.tokens.Register("tokens", qr)
	qr.Register("/token/balance", &balanceQuery{ctrl: ctrl})
}

type createTokenHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ splitnet.Handler = (*createTokenHandler)(nil)

func (h *createTokenHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: createTokenCost}, nil
}

func (h *createTokenHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreateToken(db, msg.Admin, msg.Name, msg.Symbol, msg.Decimals)
	if err != nil {
		return nil, err
	}
	splitnet.GetLogger(ctx).Info("token created", "symbol", msg.Symbol, "token", addr)
	return &splitnet.DeliverResult{
		Data: addr,
		Tags: []common.KVPair{{Key: []byte("token"), Value: []byte(addr.String())}},
	}, nil
}

func (h *createTokenHandler) validate(ctx splitnet.Context, tx splitnet.Tx) (*CreateTokenMsg, error) {
	var msg CreateTokenMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	return &msg, nil
}

type issueHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ splitnet.Handler = (*issueHandler)(nil)

func (h *issueHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: issueCost}, nil
}

func (h *issueHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Issue(db, msg.Token, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{}, nil
}

func (h *issueHandler) validate(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*IssueMsg, error) {
	var msg IssueMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	t, err := h.ctrl.Token(db, msg.Token)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, t.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "token admin signature missing")
	}
	return &msg, nil
}

type sendHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ splitnet.Handler = (*sendHandler)(nil)

func (h *sendHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: sendCost}, nil
}

func (h *sendHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Token, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{}, nil
}

func (h *sendHandler) validate(ctx splitnet.Context, tx splitnet.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}

// balanceQuery expects the asset address followed by the owner address.
type balanceQuery struct {
	ctrl *Controller
}

func (q *balanceQuery) Query(db splitnet.ReadOnlyKVStore, mod string, data []byte) ([]splitnet.Model, error) {
	if len(data) != 2*splitnet.AddressLength {
		return nil, errors.Wrap(errors.ErrInput, "want asset and owner address")
	}
	asset := splitnet.Address(data[:splitnet.AddressLength])
	owner := splitnet.Address(data[splitnet.AddressLength:])
	amount, err := q.ctrl.Balance(db, asset, owner)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(Balance{Amount: amount})
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []splitnet.Model{splitnet.Pair(data, raw)}, nil
}
