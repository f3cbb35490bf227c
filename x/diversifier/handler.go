package diversifier

import (
	"encoding/json"
	"strconv"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	updateSwapTokensCost  int64 = 50
	swapAndDistributeCost int64 = 500
	toggleCost            int64 = 20
)

// RegisterRoutes registers handlers of all diversifier messages. Messages
// shared with accounting units are served by the splitter handlers.
func RegisterRoutes(r splitnet.Registry, ctrl *Controller) {
	r.Handle(&UpdateWhitelistedSwapTokensMsg{}, &updateSwapTokensHandler{ctrl: ctrl})
	r.Handle(&SwapAndDistributeMsg{}, &swapAndDistributeHandler{ctrl: ctrl})
	r.Handle(&ToggleMsg{}, &toggleHandler{ctrl: ctrl})
}

// RegisterQuery registers "/diversifier/config", queried by diversifier
// address, and "/diversifier/swaptokens", queried by diversifier address
// followed by the source token address.
func RegisterQuery(qr splitnet.QueryRouter, ctrl *Controller) {
	qr.Register("/diversifier/config", &configQuery{ctrl: ctrl})
	qr.Register("/diversifier/swaptokens", &swapTokensQuery{ctrl: ctrl})
}

// load returns the diversifier or ErrNotFound if there is none at addr.
func load(ctrl *Controller, db splitnet.ReadOnlyKVStore, addr splitnet.Address) (*Diversifier, error) {
	switch ok, err := ctrl.Exists(db, addr); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(errors.ErrNotFound, "diversifier %s", addr)
	}
	return ctrl.Diversifier(addr), nil
}

func tags(d *Diversifier) []common.KVPair {
	return []common.KVPair{{Key: []byte("diversifier"), Value: []byte(d.Address().String())}}
}

type updateSwapTokensHandler struct {
	ctrl *Controller
}

var _ splitnet.Handler = (*updateSwapTokensHandler)(nil)

func (h *updateSwapTokensHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: updateSwapTokensCost}, nil
}

func (h *updateSwapTokensHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, d, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	if err := d.UpdateWhitelistedSwapTokens(ctx, db, msg.Token, msg.SwapTokens); err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{Tags: tags(d)}, nil
}

func (h *updateSwapTokensHandler) validate(db splitnet.KVStore, tx splitnet.Tx) (*UpdateWhitelistedSwapTokensMsg, *Diversifier, error) {
	var msg UpdateWhitelistedSwapTokensMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	d, err := load(h.ctrl, db, msg.Diversifier)
	if err != nil {
		return nil, nil, err
	}
	return &msg, d, nil
}

type swapAndDistributeHandler struct {
	ctrl *Controller
}

var _ splitnet.Handler = (*swapAndDistributeHandler)(nil)

func (h *swapAndDistributeHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: swapAndDistributeCost}, nil
}

func (h *swapAndDistributeHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, d, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	out, err := d.SwapAndDistribute(ctx, db, msg.SwapPath, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{
		Data: []byte(strconv.FormatInt(out, 10)),
		Tags: tags(d),
	}, nil
}

func (h *swapAndDistributeHandler) validate(db splitnet.KVStore, tx splitnet.Tx) (*SwapAndDistributeMsg, *Diversifier, error) {
	var msg SwapAndDistributeMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	d, err := load(h.ctrl, db, msg.Diversifier)
	if err != nil {
		return nil, nil, err
	}
	return &msg, d, nil
}

type toggleHandler struct {
	ctrl *Controller
}

var _ splitnet.Handler = (*toggleHandler)(nil)

func (h *toggleHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: toggleCost}, nil
}

func (h *toggleHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	d, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	active, err := d.Toggle(ctx, db)
	if err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{
		Data: []byte(strconv.FormatBool(active)),
		Tags: tags(d),
	}, nil
}

func (h *toggleHandler) validate(db splitnet.KVStore, tx splitnet.Tx) (*Diversifier, error) {
	var msg ToggleMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return load(h.ctrl, db, msg.Diversifier)
}

type configQuery struct {
	ctrl *Controller
}

func (q *configQuery) Query(db splitnet.ReadOnlyKVStore, mod string, data []byte) ([]splitnet.Model, error) {
	if len(data) != splitnet.AddressLength {
		return nil, errors.Wrap(errors.ErrInput, "want diversifier address")
	}
	d, err := load(q.ctrl, db, data)
	if err != nil {
		return nil, err
	}
	c, err := d.DiversifierConfig(db)
	if err != nil {
		return nil, err
	}
	return jsonModel(data, c)
}

type swapTokensQuery struct {
	ctrl *Controller
}

func (q *swapTokensQuery) Query(db splitnet.ReadOnlyKVStore, mod string, data []byte) ([]splitnet.Model, error) {
	if len(data) != 2*splitnet.AddressLength {
		return nil, errors.Wrap(errors.ErrInput, "want diversifier and token address")
	}
	d, err := load(q.ctrl, db, data[:splitnet.AddressLength])
	if err != nil {
		return nil, err
	}
	tokens, err := d.ListWhitelistedSwapTokens(db, data[splitnet.AddressLength:])
	if err != nil {
		return nil, err
	}
	return jsonModel(data, &SwapTokens{Tokens: tokens})
}

func jsonModel(key []byte, v interface{}) ([]splitnet.Model, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []splitnet.Model{splitnet.Pair(key, raw)}, nil
}
