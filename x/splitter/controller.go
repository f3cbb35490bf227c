package splitter

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x"
)

// InitArgs are the arguments a unit is initialized with.
type InitArgs struct {
	Admin   splitnet.Address `json:"admin"`
	Name    []byte           `json:"name"`
	Shares  []ShareEntry     `json:"shares"`
	Mutable bool             `json:"mutable"`
}

// Controller creates and operates accounting units.
type Controller struct {
	assets AssetController
	auth   x.Authenticator
}

// NewController returns a controller that holds unit funds in assets and
// authorizes callers with auth. Units granted with WithUnitAuth are always
// authorized as well.
func NewController(assets AssetController, auth x.Authenticator) *Controller {
	return &Controller{
		assets: assets,
		auth:   x.ChainAuth(auth, Authenticate{}),
	}
}

// Init initializes the unit at given address. The unit must not be
// initialized yet.
func (c *Controller) Init(ctx splitnet.Context, db splitnet.KVStore, addr, admin splitnet.Address, name []byte, shares []ShareEntry, mutable bool) (*AccountingUnit, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "unit address")
	}
	l := openLedger(db, addr)
	switch ok, err := l.Exists(); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrap(ErrAlreadyInitialized, "config exists")
	}
	if err := admin.Validate(); err != nil {
		return nil, errors.Wrap(err, "admin")
	}
	if err := ValidateShares(shares); err != nil {
		return nil, err
	}
	if err := l.InitConfig(admin, name, mutable); err != nil {
		return nil, err
	}
	if err := l.replaceShares(shares); err != nil {
		return nil, err
	}
	splitnet.GetLogger(ctx).Info("unit initialized", "unit", addr, "admin", admin, "shareholders", len(shares))
	return c.Unit(addr), nil
}

// Unit returns a handle to the accounting unit at given address. The unit
// is not required to exist.
func (c *Controller) Unit(addr splitnet.Address) *AccountingUnit {
	return &AccountingUnit{ctrl: c, addr: addr}
}

// Exists returns true if a unit is initialized at given address.
func (c *Controller) Exists(db splitnet.ReadOnlyKVStore, addr splitnet.Address) (bool, error) {
	return readLedger(db, addr).Exists()
}

// AccountingUnit is a unit holding its own ledger.
type AccountingUnit struct {
	ctrl *Controller
	addr splitnet.Address
}

var _ Unit = (*AccountingUnit)(nil)

// Address returns the address the unit holds its funds under.
func (u *AccountingUnit) Address() splitnet.Address {
	return u.addr
}

func (u *AccountingUnit) requireAdmin(ctx splitnet.Context, db splitnet.KVStore) (*ledger, *Config, error) {
	l := openLedger(db, u.addr)
	c, err := l.RequireAdmin(ctx, u.ctrl.auth)
	if err != nil {
		return nil, nil, err
	}
	return l, c, nil
}

// UpdateWhitelistedTokens replaces the list of assets that can be
// distributed. Every address is probed to be an asset.
func (u *AccountingUnit) UpdateWhitelistedTokens(ctx splitnet.Context, db splitnet.KVStore, tokens []splitnet.Address) error {
	l, _, err := u.requireAdmin(ctx, db)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if _, err := u.ctrl.assets.Name(db, t); err != nil {
			return errors.Wrapf(err, "token %s", t)
		}
	}
	return l.UpdateWhitelist(tokens)
}

// TransferTokens moves funds that are not claimed by any shareholder.
func (u *AccountingUnit) TransferTokens(ctx splitnet.Context, db splitnet.KVStore, asset, recipient splitnet.Address, amount int64) error {
	l, _, err := u.requireAdmin(ctx, db)
	if err != nil {
		return err
	}
	balance, err := u.ctrl.assets.Balance(db, asset, u.addr)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	total, err := l.Total(asset)
	if err != nil {
		return err
	}
	unused := balance - total

	switch {
	case amount <= 0:
		return errors.Wrapf(ErrZeroTransferAmount, "amount %d", amount)
	case amount > balance:
		return errors.Wrapf(ErrTransferAmountAboveBalance, "amount %d, balance %d", amount, balance)
	case amount > unused:
		return errors.Wrapf(ErrTransferAmountAboveUnusedBalance, "amount %d, unused %d", amount, unused)
	}
	if err := u.ctrl.assets.Transfer(db, asset, u.addr, recipient, amount); err != nil {
		return errors.Wrap(err, "transfer")
	}
	splitnet.GetLogger(ctx).Debug("unused tokens transferred",
		"unit", u.addr, "asset", asset, "recipient", recipient, "amount", amount)
	return nil
}

// WithdrawAllocation pays out the claim of a shareholder. The shareholder
// must authorize the call.
func (u *AccountingUnit) WithdrawAllocation(ctx splitnet.Context, db splitnet.KVStore, asset, shareholder splitnet.Address, amount int64) error {
	l := openLedger(db, u.addr)
	if ok, err := l.Exists(); err != nil {
		return err
	} else if !ok {
		return errors.Wrap(ErrNotInitialized, "no config")
	}
	if !u.ctrl.auth.HasAddress(ctx, shareholder) {
		return errors.Wrap(errors.ErrUnauthorized, "shareholder signature missing")
	}
	allocation, err := l.Allocation(shareholder, asset)
	if err != nil {
		return err
	}

	switch {
	case amount <= 0:
		return errors.Wrapf(ErrZeroWithdrawalAmount, "amount %d", amount)
	case amount > allocation:
		return errors.Wrapf(ErrWithdrawalAmountAboveAllocation, "amount %d, allocation %d", amount, allocation)
	case amount == allocation:
		err = l.RemoveAllocation(shareholder, asset)
	default:
		err = l.SaveAllocation(shareholder, asset, allocation-amount)
	}
	if err != nil {
		return errors.Wrap(err, "update allocation")
	}
	if err := u.ctrl.assets.Transfer(db, asset, u.addr, shareholder, amount); err != nil {
		return errors.Wrap(err, "transfer")
	}
	splitnet.GetLogger(ctx).Debug("allocation withdrawn",
		"unit", u.addr, "asset", asset, "shareholder", shareholder, "amount", amount)
	return nil
}

// WithdrawExternalAllocation withdraws the claim this unit holds in an
// external unit into its own balance.
func (u *AccountingUnit) WithdrawExternalAllocation(ctx splitnet.Context, db splitnet.KVStore, external Unit, asset splitnet.Address, amount int64) error {
	if _, _, err := u.requireAdmin(ctx, db); err != nil {
		return err
	}
	ctx = WithUnitAuth(ctx, u.addr)
	if err := external.WithdrawAllocation(ctx, db, asset, u.addr, amount); err != nil {
		return errors.Wrapf(err, "external unit %s", external.Address())
	}
	return nil
}

// UpdateName replaces the display name.
func (u *AccountingUnit) UpdateName(ctx splitnet.Context, db splitnet.KVStore, name []byte) error {
	if len(name) > maxNameLength {
		return errors.Wrapf(errors.ErrInput, "name longer than %d bytes", maxNameLength)
	}
	l, _, err := u.requireAdmin(ctx, db)
	if err != nil {
		return err
	}
	return l.Rename(name)
}

// Lock makes the roster immutable forever.
func (u *AccountingUnit) Lock(ctx splitnet.Context, db splitnet.KVStore) error {
	l, _, err := u.requireAdmin(ctx, db)
	if err != nil {
		return err
	}
	return l.Lock()
}

// Share returns the share of a shareholder and false if it is not in the
// roster.
func (u *AccountingUnit) Share(db splitnet.ReadOnlyKVStore, shareholder splitnet.Address) (int64, bool, error) {
	return readLedger(db, u.addr).Share(shareholder)
}

// ListShares returns the roster in declaration order.
func (u *AccountingUnit) ListShares(db splitnet.ReadOnlyKVStore) ([]ShareEntry, error) {
	return readLedger(db, u.addr).listShares()
}

// Config returns the unit configuration.
func (u *AccountingUnit) Config(db splitnet.ReadOnlyKVStore) (*Config, error) {
	return readLedger(db, u.addr).Config()
}

// Allocation returns the claim of a shareholder.
func (u *AccountingUnit) Allocation(db splitnet.ReadOnlyKVStore, shareholder, asset splitnet.Address) (int64, error) {
	return readLedger(db, u.addr).Allocation(shareholder, asset)
}

// UnusedTokens returns the part of the balance not claimed by anyone.
func (u *AccountingUnit) UnusedTokens(db splitnet.ReadOnlyKVStore, asset splitnet.Address) (int64, error) {
	balance, err := u.ctrl.assets.Balance(db, asset, u.addr)
	if err != nil {
		return 0, errors.Wrap(err, "balance")
	}
	total, err := readLedger(db, u.addr).Total(asset)
	if err != nil {
		return 0, err
	}
	return balance - total, nil
}

// ListWhitelistedTokens returns the assets that can be distributed.
func (u *AccountingUnit) ListWhitelistedTokens(db splitnet.ReadOnlyKVStore) ([]splitnet.Address, error) {
	return readLedger(db, u.addr).Whitelist()
}
