package sigs

import (
	"math"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x"
)

// RegisterRoutes registers the sequence bump handler.
func RegisterRoutes(r splitnet.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, &bumpHandler{auth: auth, accounts: newAccounts()})
}

// bumpHandler moves the main signer past sequences it has handed out
// signatures for, voiding those signatures.
type bumpHandler struct {
	auth     x.Authenticator
	accounts accounts
}

var _ splitnet.Handler = (*bumpHandler)(nil)

func (h *bumpHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.bumped(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{}, nil
}

func (h *bumpHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	acc, err := h.bumped(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.accounts.save(db, acc); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return &splitnet.DeliverResult{}, nil
}

// bumped returns the account of the main signer with the increment applied.
// The signature of this transaction already counts as one.
func (h *bumpHandler) bumped(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*Account, error) {
	var msg BumpSequenceMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "not signed")
	}
	var acc Account
	if err := h.accounts.One(db, signer.Address(), &acc); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	if acc.Sequence > math.MaxInt64-int64(msg.Increment) {
		return nil, errors.Wrapf(errors.ErrOverflow, "sequence %d", acc.Sequence)
	}
	acc.Sequence += int64(msg.Increment) - 1
	return &acc, nil
}
