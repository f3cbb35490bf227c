package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/x"
	"github.com/stretchr/testify/assert"
)

func TestChainAuth(t *testing.T) {
	alice := splittest.NewCondition()
	bob := splittest.NewCondition()
	unit := splitnet.NewCondition("unit", "self", []byte("revenue"))
	stranger := splittest.NewCondition()

	signed := &splittest.CtxAuth{Key: "sigs"}
	other := &splittest.CtxAuth{Key: "other"}
	ctx := signed.SetConditions(context.Background(), alice, bob)

	cases := map[string]struct {
		Auth       x.Authenticator
		WantConds  []splitnet.Condition
		WantMain   splitnet.Condition
		Authorized []splitnet.Condition
	}{
		"nobody signed": {
			Auth: x.ChainAuth(&splittest.Auth{}),
		},
		"signers of the context": {
			Auth:       x.ChainAuth(signed),
			WantConds:  []splitnet.Condition{alice, bob},
			WantMain:   alice,
			Authorized: []splitnet.Condition{alice, bob},
		},
		"context of another key is ignored": {
			Auth: x.ChainAuth(other),
		},
		"unit acting on its own behalf comes after the signers": {
			Auth:       x.ChainAuth(signed, &splittest.Auth{Signer: unit}),
			WantConds:  []splitnet.Condition{alice, bob, unit},
			WantMain:   alice,
			Authorized: []splitnet.Condition{alice, bob, unit},
		},
		"duplicates are reported once": {
			Auth:       x.ChainAuth(&splittest.Auth{Signer: bob}, signed),
			WantConds:  []splitnet.Condition{bob, alice},
			WantMain:   bob,
			Authorized: []splitnet.Condition{alice, bob},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.WantConds, tc.Auth.GetConditions(ctx))
			assert.Equal(t, tc.WantMain, x.MainSigner(ctx, tc.Auth))
			for _, c := range tc.Authorized {
				assert.True(t, tc.Auth.HasAddress(ctx, c.Address()))
			}
			assert.False(t, tc.Auth.HasAddress(ctx, stranger.Address()))
		})
	}
}
