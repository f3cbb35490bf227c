package splitter

import (
	"context"
	"strings"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/store"
	"github.com/iov-one/splitnet/x/token"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db     splitnet.CacheableKVStore
	tokens *token.Controller
	auth   *splittest.CtxAuth
	ctrl   *Controller

	admin, alice, bob splitnet.Condition
	asset, other      splitnet.Address
	unit              *AccountingUnit
}

// newFixture returns a unit with roster [alice:8050, bob:1950] that holds
// 1,000,000,000 of a whitelisted asset.
func newFixture(t testing.TB, mutable bool) *fixture {
	t.Helper()
	db := store.MemStore()
	tokens := token.NewController()
	auth := &splittest.CtxAuth{Key: "auth"}
	f := &fixture{
		db:     db,
		tokens: tokens,
		auth:   auth,
		ctrl:   NewController(tokens, auth),
		admin:  splittest.NewCondition(),
		alice:  splittest.NewCondition(),
		bob:    splittest.NewCondition(),
	}

	var err error
	f.asset, err = tokens.CreateToken(db, f.admin.Address(), "Test", "TEST", 6)
	require.NoError(t, err)
	f.other, err = tokens.CreateToken(db, f.admin.Address(), "Other", "OTHER", 6)
	require.NoError(t, err)

	addr := splitnet.NewCondition("splitter", "unit", []byte("fixture")).Address()
	shares := []ShareEntry{
		{Shareholder: f.alice.Address(), Share: 8050},
		{Shareholder: f.bob.Address(), Share: 1950},
	}
	f.unit, err = f.ctrl.Init(context.Background(), db, addr, f.admin.Address(), []byte("fixture"), shares, mutable)
	require.NoError(t, err)

	require.NoError(t, f.unit.UpdateWhitelistedTokens(f.as(f.admin), db, []splitnet.Address{f.asset}))
	require.NoError(t, tokens.Issue(db, f.asset, addr, 1000000000))
	require.NoError(t, tokens.Issue(db, f.other, addr, 1000))
	return f
}

func (f *fixture) as(signers ...splitnet.Condition) splitnet.Context {
	return f.auth.SetConditions(context.Background(), signers...)
}

func (f *fixture) balance(t testing.TB, owner splitnet.Address) int64 {
	t.Helper()
	b, err := f.tokens.Balance(f.db, f.asset, owner)
	require.NoError(t, err)
	return b
}

// assertLedger checks that the total allocation is the sum of all given
// claims and that the unit can pay all of them.
func assertLedger(t testing.TB, f *fixture, holders ...splitnet.Address) {
	t.Helper()
	l := readLedger(f.db, f.unit.Address())
	var sum int64
	for _, h := range holders {
		a, err := l.Allocation(h, f.asset)
		require.NoError(t, err)
		sum += a
	}
	total, err := l.Total(f.asset)
	require.NoError(t, err)
	assert.Equal(t, sum, total)
	assert.True(t, total <= f.balance(t, f.unit.Address()), "total %d above balance", total)
}

func TestDistribution(t *testing.T) {
	Convey("Given a unit with 8050/1950 roster", t, func() {
		f := newFixture(t, true)
		alice, bob := f.alice.Address(), f.bob.Address()

		Convey("Distributing the whole balance credits both shareholders", func() {
			So(f.unit.Distribute(f.as(f.admin), f.db, f.asset, 1000000000), ShouldBeNil)

			a, err := f.unit.Allocation(f.db, alice, f.asset)
			So(err, ShouldBeNil)
			So(a, ShouldEqual, 805000000)
			b, err := f.unit.Allocation(f.db, bob, f.asset)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, 195000000)

			unused, err := f.unit.UnusedTokens(f.db, f.asset)
			So(err, ShouldBeNil)
			So(unused, ShouldEqual, 0)
			assertLedger(t, f, alice, bob)

			Convey("Shareholder withdraws in two steps", func() {
				So(f.unit.WithdrawAllocation(f.as(f.alice), f.db, f.asset, alice, 500000000), ShouldBeNil)
				So(f.unit.WithdrawAllocation(f.as(f.alice), f.db, f.asset, alice, 305000000), ShouldBeNil)

				a, err := f.unit.Allocation(f.db, alice, f.asset)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 0)
				So(f.balance(t, alice), ShouldEqual, 805000000)
				So(f.balance(t, f.unit.Address()), ShouldEqual, 195000000)
				assertLedger(t, f, alice, bob)

				Convey("Nothing is left to withdraw", func() {
					err := f.unit.WithdrawAllocation(f.as(f.alice), f.db, f.asset, alice, 1)
					So(ErrWithdrawalAmountAboveAllocation.Is(err), ShouldBeTrue)
				})
			})

			Convey("Claimed funds cannot be transferred", func() {
				err := f.unit.TransferTokens(f.as(f.admin), f.db, f.asset, f.admin.Address(), 1)
				So(ErrTransferAmountAboveUnusedBalance.Is(err), ShouldBeTrue)
			})

			Convey("Another shareholder cannot withdraw for alice", func() {
				err := f.unit.WithdrawAllocation(f.as(f.bob), f.db, f.asset, alice, 1)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			})

			Convey("Removed shareholder keeps the claim", func() {
				carol := splittest.NewCondition().Address()
				shares := []ShareEntry{
					{Shareholder: alice, Share: 5000},
					{Shareholder: carol, Share: 5000},
				}
				So(f.unit.UpdateShares(f.as(f.admin), f.db, shares), ShouldBeNil)

				_, ok, err := f.unit.Share(f.db, bob)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				b, err := f.unit.Allocation(f.db, bob, f.asset)
				So(err, ShouldBeNil)
				So(b, ShouldEqual, 195000000)

				So(f.tokens.Issue(f.db, f.asset, f.unit.Address(), 100), ShouldBeNil)
				So(f.unit.Distribute(f.as(f.admin), f.db, f.asset, 100), ShouldBeNil)
				b, err = f.unit.Allocation(f.db, bob, f.asset)
				So(err, ShouldBeNil)
				So(b, ShouldEqual, 195000000)
				c, err := f.unit.Allocation(f.db, carol, f.asset)
				So(err, ShouldBeNil)
				So(c, ShouldEqual, 50)
				assertLedger(t, f, alice, bob, carol)
			})
		})

		Convey("Rounding residual stays unused", func() {
			So(f.unit.Distribute(f.as(f.admin), f.db, f.asset, 99), ShouldBeNil)
			// 99*8050/10000 = 79, 99*1950/10000 = 19
			a, _ := f.unit.Allocation(f.db, alice, f.asset)
			b, _ := f.unit.Allocation(f.db, bob, f.asset)
			So(a, ShouldEqual, 79)
			So(b, ShouldEqual, 19)
			unused, err := f.unit.UnusedTokens(f.db, f.asset)
			So(err, ShouldBeNil)
			So(unused, ShouldEqual, 1000000000-98)
			assertLedger(t, f, alice, bob)
		})

		Convey("Locked roster cannot be updated", func() {
			So(f.unit.Lock(f.as(f.admin), f.db), ShouldBeNil)
			shares := []ShareEntry{
				{Shareholder: alice, Share: 5000},
				{Shareholder: bob, Share: 5000},
			}
			err := f.unit.UpdateShares(f.as(f.admin), f.db, shares)
			So(ErrContractLocked.Is(err), ShouldBeTrue)

			got, err := f.unit.ListShares(f.db)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []ShareEntry{
				{Shareholder: alice, Share: 8050},
				{Shareholder: bob, Share: 1950},
			})

			Convey("Locking again is a no-op", func() {
				So(f.unit.Lock(f.as(f.admin), f.db), ShouldBeNil)
			})
		})
	})
}

func TestUnitErrors(t *testing.T) {
	cases := map[string]struct {
		Mutable bool
		Run     func(f *fixture) error
		WantErr *errors.Error
	}{
		"distribute by a stranger": {
			Run: func(f *fixture) error {
				return f.unit.Distribute(f.as(f.alice), f.db, f.asset, 10)
			},
			WantErr: errors.ErrUnauthorized,
		},
		"distribute asset not on the whitelist": {
			Run: func(f *fixture) error {
				return f.unit.Distribute(f.as(f.admin), f.db, f.other, 10)
			},
			WantErr: ErrTokenNotWhitelisted,
		},
		"distribute zero": {
			Run: func(f *fixture) error {
				return f.unit.Distribute(f.as(f.admin), f.db, f.asset, 0)
			},
			WantErr: ErrZeroTransferAmount,
		},
		"distribute above balance": {
			Run: func(f *fixture) error {
				return f.unit.Distribute(f.as(f.admin), f.db, f.asset, 1000000001)
			},
			WantErr: ErrInsufficientBalance,
		},
		"transfer zero": {
			Run: func(f *fixture) error {
				return f.unit.TransferTokens(f.as(f.admin), f.db, f.asset, f.admin.Address(), 0)
			},
			WantErr: ErrZeroTransferAmount,
		},
		"transfer above balance": {
			Run: func(f *fixture) error {
				return f.unit.TransferTokens(f.as(f.admin), f.db, f.asset, f.admin.Address(), 1000000001)
			},
			WantErr: ErrTransferAmountAboveBalance,
		},
		"transfer above unused balance": {
			Run: func(f *fixture) error {
				if err := f.unit.Distribute(f.as(f.admin), f.db, f.asset, 600000000); err != nil {
					return err
				}
				return f.unit.TransferTokens(f.as(f.admin), f.db, f.asset, f.admin.Address(), 400000001)
			},
			WantErr: ErrTransferAmountAboveUnusedBalance,
		},
		"transfer whole unused balance": {
			Run: func(f *fixture) error {
				if err := f.unit.Distribute(f.as(f.admin), f.db, f.asset, 600000000); err != nil {
					return err
				}
				return f.unit.TransferTokens(f.as(f.admin), f.db, f.asset, f.admin.Address(), 400000000)
			},
		},
		"transfer of an asset that is not whitelisted": {
			Run: func(f *fixture) error {
				return f.unit.TransferTokens(f.as(f.admin), f.db, f.other, f.admin.Address(), 1000)
			},
		},
		"transfer by a shareholder": {
			Run: func(f *fixture) error {
				return f.unit.TransferTokens(f.as(f.alice), f.db, f.asset, f.alice.Address(), 1)
			},
			WantErr: errors.ErrUnauthorized,
		},
		"withdraw zero": {
			Run: func(f *fixture) error {
				return f.unit.WithdrawAllocation(f.as(f.alice), f.db, f.asset, f.alice.Address(), 0)
			},
			WantErr: ErrZeroWithdrawalAmount,
		},
		"withdraw negative": {
			Run: func(f *fixture) error {
				return f.unit.WithdrawAllocation(f.as(f.alice), f.db, f.asset, f.alice.Address(), -1)
			},
			WantErr: ErrZeroWithdrawalAmount,
		},
		"withdraw without allocation": {
			Run: func(f *fixture) error {
				return f.unit.WithdrawAllocation(f.as(f.alice), f.db, f.asset, f.alice.Address(), 1)
			},
			WantErr: ErrWithdrawalAmountAboveAllocation,
		},
		"withdraw from uninitialized unit": {
			Run: func(f *fixture) error {
				u := f.ctrl.Unit(splittest.NewCondition().Address())
				return u.WithdrawAllocation(f.as(f.alice), f.db, f.asset, f.alice.Address(), 1)
			},
			WantErr: ErrNotInitialized,
		},
		"distribute from uninitialized unit": {
			Run: func(f *fixture) error {
				u := f.ctrl.Unit(splittest.NewCondition().Address())
				return u.Distribute(f.as(f.admin), f.db, f.asset, 1)
			},
			WantErr: ErrNotInitialized,
		},
		"initialize twice": {
			Run: func(f *fixture) error {
				shares := []ShareEntry{
					{Shareholder: f.alice.Address(), Share: 5000},
					{Shareholder: f.bob.Address(), Share: 5000},
				}
				_, err := f.ctrl.Init(context.Background(), f.db, f.unit.Address(), f.admin.Address(), nil, shares, true)
				return err
			},
			WantErr: ErrAlreadyInitialized,
		},
		"initialize twice with an invalid roster": {
			Run: func(f *fixture) error {
				shares := []ShareEntry{{Shareholder: f.alice.Address(), Share: 10000}}
				_, err := f.ctrl.Init(context.Background(), f.db, f.unit.Address(), f.admin.Address(), nil, shares, true)
				return err
			},
			WantErr: ErrAlreadyInitialized,
		},
		"update shares of a locked unit": {
			Mutable: false,
			Run: func(f *fixture) error {
				shares := []ShareEntry{
					{Shareholder: f.alice.Address(), Share: 5000},
					{Shareholder: f.bob.Address(), Share: 5000},
				}
				return f.unit.UpdateShares(f.as(f.admin), f.db, shares)
			},
			WantErr: ErrContractLocked,
		},
		"update shares with a bad total": {
			Mutable: true,
			Run: func(f *fixture) error {
				shares := []ShareEntry{
					{Shareholder: f.alice.Address(), Share: 5000},
					{Shareholder: f.bob.Address(), Share: 4999},
				}
				return f.unit.UpdateShares(f.as(f.admin), f.db, shares)
			},
			WantErr: ErrInvalidShareTotal,
		},
		"update shares with a single shareholder": {
			Mutable: true,
			Run: func(f *fixture) error {
				shares := []ShareEntry{{Shareholder: f.alice.Address(), Share: 10000}}
				return f.unit.UpdateShares(f.as(f.admin), f.db, shares)
			},
			WantErr: ErrLowShareCount,
		},
		"update shares by a shareholder": {
			Mutable: true,
			Run: func(f *fixture) error {
				shares := []ShareEntry{
					{Shareholder: f.alice.Address(), Share: 9000},
					{Shareholder: f.bob.Address(), Share: 1000},
				}
				return f.unit.UpdateShares(f.as(f.alice), f.db, shares)
			},
			WantErr: errors.ErrUnauthorized,
		},
		"whitelist an address that is not an asset": {
			Run: func(f *fixture) error {
				tokens := []splitnet.Address{f.asset, f.alice.Address()}
				return f.unit.UpdateWhitelistedTokens(f.as(f.admin), f.db, tokens)
			},
			WantErr: errors.ErrNotFound,
		},
		"name too long": {
			Run: func(f *fixture) error {
				name := []byte(strings.Repeat("x", maxNameLength+1))
				return f.unit.UpdateName(f.as(f.admin), f.db, name)
			},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.Mutable)
			if err := tc.Run(f); !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.WantErr, err)
			}
			assertLedger(t, f, f.alice.Address(), f.bob.Address())
		})
	}
}

func TestWhitelistAndName(t *testing.T) {
	f := newFixture(t, true)

	got, err := f.unit.ListWhitelistedTokens(f.db)
	require.NoError(t, err)
	assert.Equal(t, []splitnet.Address{f.asset}, got)

	require.NoError(t, f.unit.UpdateWhitelistedTokens(f.as(f.admin), f.db, nil))
	got, err = f.unit.ListWhitelistedTokens(f.db)
	require.NoError(t, err)
	assert.Empty(t, got)
	err = f.unit.Distribute(f.as(f.admin), f.db, f.asset, 1)
	assert.True(t, ErrTokenNotWhitelisted.Is(err))

	require.NoError(t, f.unit.UpdateName(f.as(f.admin), f.db, []byte("renamed")))
	c, err := f.unit.Config(f.db)
	require.NoError(t, err)
	assert.Equal(t, []byte("renamed"), c.Name)
	assert.True(t, c.Mutable)
	assert.Equal(t, f.admin.Address(), c.Admin)
}

func TestWithdrawExternalAllocation(t *testing.T) {
	f := newFixture(t, true)
	carol := splittest.NewCondition()

	// The fixture unit holds half of the outer unit.
	outerAddr := splitnet.NewCondition("splitter", "unit", []byte("outer")).Address()
	shares := []ShareEntry{
		{Shareholder: f.unit.Address(), Share: 5000},
		{Shareholder: carol.Address(), Share: 5000},
	}
	outer, err := f.ctrl.Init(context.Background(), f.db, outerAddr, carol.Address(), nil, shares, false)
	require.NoError(t, err)
	require.NoError(t, outer.UpdateWhitelistedTokens(f.as(carol), f.db, []splitnet.Address{f.asset}))
	require.NoError(t, f.tokens.Issue(f.db, f.asset, outerAddr, 1000))
	require.NoError(t, outer.Distribute(f.as(carol), f.db, f.asset, 1000))

	// The admin of the unit is not a shareholder of the outer unit.
	err = outer.WithdrawAllocation(f.as(f.admin), f.db, f.asset, f.unit.Address(), 100)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	err = f.unit.WithdrawExternalAllocation(f.as(f.alice), f.db, outer, f.asset, 100)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	err = f.unit.WithdrawExternalAllocation(f.as(f.admin), f.db, outer, f.asset, 501)
	assert.True(t, ErrWithdrawalAmountAboveAllocation.Is(err))

	require.NoError(t, f.unit.WithdrawExternalAllocation(f.as(f.admin), f.db, outer, f.asset, 500))
	assert.Equal(t, int64(1000000500), f.balance(t, f.unit.Address()))
	left, err := outer.Allocation(f.db, f.unit.Address(), f.asset)
	require.NoError(t, err)
	assert.Equal(t, int64(0), left)

	unused, err := f.unit.UnusedTokens(f.db, f.asset)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000500), unused)
}
