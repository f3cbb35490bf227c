package diversifier

import (
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

func TestHandlers(t *testing.T) {
	cases := map[string]struct {
		Signer         func(f *fixture) splitnet.Condition
		Msg            func(f *fixture) splitnet.Msg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantData       string
	}{
		"swap and distribute": {
			Signer: func(f *fixture) splitnet.Condition { return f.admin },
			Msg: func(f *fixture) splitnet.Msg {
				return &SwapAndDistributeMsg{Diversifier: f.div.Address(), SwapPath: []splitnet.Address{f.a, f.b}, Amount: 1000}
			},
			WantData: "996",
		},
		"toggle": {
			Signer: func(f *fixture) splitnet.Condition { return f.admin },
			Msg: func(f *fixture) splitnet.Msg {
				return &ToggleMsg{Diversifier: f.div.Address()}
			},
			WantData: "false",
		},
		"toggle by a stranger": {
			Signer: func(f *fixture) splitnet.Condition { return f.bob },
			Msg: func(f *fixture) splitnet.Msg {
				return &ToggleMsg{Diversifier: f.div.Address()}
			},
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"unknown diversifier": {
			Signer: func(f *fixture) splitnet.Condition { return f.admin },
			Msg: func(f *fixture) splitnet.Msg {
				return &ToggleMsg{Diversifier: f.alice.Address()}
			},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
		"update swap tokens": {
			Signer: func(f *fixture) splitnet.Condition { return f.admin },
			Msg: func(f *fixture) splitnet.Msg {
				return &UpdateWhitelistedSwapTokensMsg{Diversifier: f.div.Address(), Token: f.c, SwapTokens: []splitnet.Address{f.a, f.b}}
			},
		},
		"invalid swap token address": {
			Signer: func(f *fixture) splitnet.Condition { return f.admin },
			Msg: func(f *fixture) splitnet.Msg {
				return &UpdateWhitelistedSwapTokensMsg{Diversifier: f.div.Address(), Token: f.c, SwapTokens: []splitnet.Address{{0x01}}}
			},
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			r := make(router)
			RegisterRoutes(r, f.ctrl)

			msg := tc.Msg(f)
			h := r[msg.Path()]
			require.NotNil(t, h)
			tx := &splittest.Tx{Msg: msg}
			ctx := f.as(tc.Signer(f))

			cache := f.db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("check: want %q error, got %+v", tc.WantCheckErr, err)
			}
			cache.Discard()

			res, err := h.Deliver(ctx, f.db, tx)
			if !tc.WantDeliverErr.Is(err) {
				t.Fatalf("deliver: want %q error, got %+v", tc.WantDeliverErr, err)
			}
			if err == nil {
				assert.Equal(t, tc.WantData, string(res.Data))
			}
		})
	}
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	qr := splitnet.NewQueryRouter()
	RegisterQuery(qr, f.ctrl)

	res, err := qr.Handler("/diversifier/config").Query(f.db, "", f.div.Address())
	require.NoError(t, err)
	require.Len(t, res, 1)
	var c Config
	require.NoError(t, json.Unmarshal(res[0].Value, &c))
	assert.Equal(t, f.admin.Address(), c.Admin)
	assert.True(t, c.Active)

	key := append(append([]byte{}, f.div.Address()...), f.a...)
	res, err = qr.Handler("/diversifier/swaptokens").Query(f.db, "", key)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var s SwapTokens
	require.NoError(t, json.Unmarshal(res[0].Value, &s))
	assert.Equal(t, []splitnet.Address{f.b}, s.Tokens)

	_, err = qr.Handler("/diversifier/config").Query(f.db, "", f.alice.Address())
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = qr.Handler("/diversifier/swaptokens").Query(f.db, "", f.div.Address())
	assert.True(t, errors.ErrInput.Is(err))
}
