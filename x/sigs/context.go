package sigs

import (
	"context"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/x"
)

type signersKey struct{}

func withSigners(ctx splitnet.Context, signers []splitnet.Condition) splitnet.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate reports the keys verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx splitnet.Context) []splitnet.Condition {
	signers, _ := ctx.Value(signersKey{}).([]splitnet.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx splitnet.Context, addr splitnet.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
