package splittest

import (
	"context"

	"github.com/iov-one/splitnet"
)

// Auth authorizes a fixed set of conditions regardless of the context.
// Signer, when set, is reported after Signers.
type Auth struct {
	Signer  splitnet.Condition
	Signers []splitnet.Condition
}

func (a *Auth) GetConditions(splitnet.Context) []splitnet.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append(a.Signers, a.Signer)
}

func (a *Auth) HasAddress(ctx splitnet.Context, addr splitnet.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authorizes the conditions stored in the context under Key, so a
// test can sign each call differently with one handler.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx splitnet.Context, conds ...splitnet.Condition) splitnet.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx splitnet.Context) []splitnet.Condition {
	conds, _ := ctx.Value(a.Key).([]splitnet.Condition)
	return conds
}

func (a *CtxAuth) HasAddress(ctx splitnet.Context, addr splitnet.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []splitnet.Condition, addr splitnet.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
