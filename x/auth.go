package x

import (
	"github.com/iov-one/splitnet"
)

// Authenticator tells handlers who authorized the current transaction.
// Signature keys are one source, a unit or diversifier calling into
// another contract on its own behalf is another.
type Authenticator interface {
	// GetConditions lists the authorizing conditions, main signer first.
	GetConditions(splitnet.Context) []splitnet.Condition
	// HasAddress is true if any condition resolves to addr.
	HasAddress(splitnet.Context, splitnet.Address) bool
}

// ChainAuth merges several authenticators. Conditions keep the order of
// the authenticators and are reported once.
func ChainAuth(impls ...Authenticator) Authenticator {
	return chain(impls)
}

type chain []Authenticator

func (c chain) GetConditions(ctx splitnet.Context) []splitnet.Condition {
	var all []splitnet.Condition
	seen := make(map[string]bool)
	for _, a := range c {
		for _, cond := range a.GetConditions(ctx) {
			if !seen[string(cond)] {
				seen[string(cond)] = true
				all = append(all, cond)
			}
		}
	}
	return all
}

func (c chain) HasAddress(ctx splitnet.Context, addr splitnet.Address) bool {
	for _, a := range c {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner is the first authorizing condition, nil when there is none.
func MainSigner(ctx splitnet.Context, auth Authenticator) splitnet.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
