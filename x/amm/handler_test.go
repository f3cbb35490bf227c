package amm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type router map[string]splitnet.Handler

func (r router) Handle(m splitnet.Msg, h splitnet.Handler) {
	r[m.Path()] = h
}

func TestCreatePoolHandler(t *testing.T) {
	f := newFixture(t)
	stranger := splittest.NewCondition()

	cases := map[string]struct {
		Signer  splitnet.Address
		Msg     *CreatePoolMsg
		WantErr *errors.Error
	}{
		"provider signed": {
			Msg: &CreatePoolMsg{Provider: f.provider, TokenA: f.a, TokenB: f.b, AmountA: 10, AmountB: 20},
		},
		"missing signature": {
			Signer:  stranger.Address(),
			Msg:     &CreatePoolMsg{Provider: f.provider, TokenA: f.a, TokenB: f.b, AmountA: 10, AmountB: 20},
			WantErr: errors.ErrUnauthorized,
		},
		"same token": {
			Msg:     &CreatePoolMsg{Provider: f.provider, TokenA: f.a, TokenB: f.a, AmountA: 10, AmountB: 20},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := f.db.CacheWrap()
			defer db.Discard()

			auth := &splittest.CtxAuth{Key: "auth"}
			ctx := context.Background()
			if tc.Signer == nil {
				ctx = auth.SetConditions(ctx, f.signer)
			} else {
				ctx = auth.SetConditions(ctx, stranger)
			}
			r := make(router)
			RegisterRoutes(r, auth, f.ctrl)

			res, err := r[tc.Msg.Path()].Deliver(ctx, db, &splittest.Tx{Msg: tc.Msg})
			if !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.WantErr, err)
			}
			if tc.WantErr != nil {
				return
			}
			assert.Equal(t, []byte(PairFor(f.a, f.b)), res.Data)

			qr := splitnet.NewQueryRouter()
			RegisterQuery(qr, f.ctrl)
			models, err := qr.Handler("/amm/pool").Query(db, "", PairFor(f.a, f.b))
			require.NoError(t, err)
			require.Len(t, models, 1)
			var p Pool
			require.NoError(t, json.Unmarshal(models[0].Value, &p))
			in, out := p.reserves(f.a)
			assert.Equal(t, int64(10), in)
			assert.Equal(t, int64(20), out)
		})
	}
}
