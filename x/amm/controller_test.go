package amm

import (
	"testing"
	"time"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/store"
	"github.com/iov-one/splitnet/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountOut(t *testing.T) {
	cases := map[string]struct {
		In, ReserveIn, ReserveOut int64
		Want                      int64
		WantErr                   *errors.Error
	}{
		"balanced pool": {
			In: 1000, ReserveIn: 1000000, ReserveOut: 1000000,
			// 1000*997*1e6 / (1e9 + 997000)
			Want: 996,
		},
		"large numbers do not overflow": {
			In: 1 << 60, ReserveIn: 1 << 61, ReserveOut: 1 << 61,
			Want: 767075568964315271,
		},
		"zero input": {
			In: 0, ReserveIn: 10, ReserveOut: 10,
			WantErr: errors.ErrAmount,
		},
		"empty reserve": {
			In: 10, ReserveIn: 0, ReserveOut: 10,
			WantErr: ErrInsufficientLiquidity,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := AmountOut(tc.In, tc.ReserveIn, tc.ReserveOut)
			if !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.WantErr, err)
			}
			assert.Equal(t, tc.Want, got)
		})
	}
}

type fixture struct {
	db       splitnet.CacheableKVStore
	tokens   *token.Controller
	ctrl     *Controller
	signer   splitnet.Condition
	provider splitnet.Address
	a, b, c  splitnet.Address
}

func newFixture(t testing.TB) *fixture {
	db := store.MemStore()
	tokens := token.NewController()
	admin := splittest.NewCondition().Address()
	signer := splittest.NewCondition()
	f := &fixture{
		db:       db,
		tokens:   tokens,
		ctrl:     NewController(tokens),
		signer:   signer,
		provider: signer.Address(),
	}
	var err error
	for _, s := range []struct {
		sym string
		dst *splitnet.Address
	}{{"AAA", &f.a}, {"BBB", &f.b}, {"CCC", &f.c}} {
		*s.dst, err = tokens.CreateToken(db, admin, s.sym, s.sym, 0)
		require.NoError(t, err)
		require.NoError(t, tokens.Issue(db, *s.dst, f.provider, 10000000))
	}
	return f
}

func TestCreatePool(t *testing.T) {
	f := newFixture(t)

	addr, err := f.ctrl.CreatePool(f.db, f.b, f.a, 2000, 1000, f.provider)
	require.NoError(t, err)
	assert.Equal(t, PairFor(f.a, f.b), addr)
	assert.Equal(t, addr, f.ctrl.PairFor(f.b, f.a))

	rIn, rOut, err := f.ctrl.Reserves(f.db, f.a, f.b)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rIn)
	assert.Equal(t, int64(2000), rOut)

	held, err := f.tokens.Balance(f.db, f.b, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), held)

	_, err = f.ctrl.CreatePool(f.db, f.a, f.b, 1, 1, f.provider)
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}
	if _, _, err := f.ctrl.Reserves(f.db, f.a, f.c); !ErrPoolNotFound.Is(err) {
		t.Fatalf("want pool not found error, got %+v", err)
	}
	_, err = f.ctrl.CreatePool(f.db, f.a, f.c, 1, 100000000, f.provider)
	if !token.ErrInsufficientFunds.Is(err) {
		t.Fatalf("want insufficient funds error, got %+v", err)
	}
}

func TestSwapMultiHop(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.CreatePool(f.db, f.a, f.b, 1000000, 1000000, f.provider)
	require.NoError(t, err)
	_, err = f.ctrl.CreatePool(f.db, f.b, f.c, 1000000, 2000000, f.provider)
	require.NoError(t, err)

	trader := splittest.NewCondition().Address()
	require.NoError(t, f.tokens.Transfer(f.db, f.a, f.provider, trader, 1000))
	recipient := splittest.NewCondition().Address()
	path := []splitnet.Address{f.a, f.b, f.c}
	now := time.Now()

	quote, err := f.ctrl.AmountsOut(f.db, 1000, path)
	require.NoError(t, err)
	assert.Equal(t, []int64{1000, 996, 1984}, quote)

	_, err = f.ctrl.SwapExactTokensForTokens(f.db, 1000, 1985, path, trader, recipient, now, now)
	if !ErrSlippage.Is(err) {
		t.Fatalf("want slippage error, got %+v", err)
	}
	_, err = f.ctrl.SwapExactTokensForTokens(f.db, 1000, 0, path, trader, recipient, now, now.Add(time.Second))
	if !errors.ErrExpired.Is(err) {
		t.Fatalf("want expired error, got %+v", err)
	}

	amounts, err := f.ctrl.SwapExactTokensForTokens(f.db, 1000, 1984, path, trader, recipient, now, now)
	require.NoError(t, err)
	assert.Equal(t, quote, amounts)

	got, err := f.tokens.Balance(f.db, f.c, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(1984), got)
	got, err = f.tokens.Balance(f.db, f.a, trader)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	rIn, rOut, err := f.ctrl.Reserves(f.db, f.b, f.c)
	require.NoError(t, err)
	assert.Equal(t, int64(1000996), rIn)
	assert.Equal(t, int64(2000000-1984), rOut)
	// The intermediate asset passes through the pools only.
	held, err := f.tokens.Balance(f.db, f.b, PairFor(f.b, f.c))
	require.NoError(t, err)
	assert.Equal(t, rIn, held)
}
