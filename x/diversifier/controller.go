package diversifier

import (
	"time"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x"
	"github.com/iov-one/splitnet/x/splitter"
)

// SwapRouter quotes and executes swaps along a path of assets.
type SwapRouter interface {
	AmountsOut(db splitnet.ReadOnlyKVStore, amountIn int64, path []splitnet.Address) ([]int64, error)
	SwapExactTokensForTokens(db splitnet.KVStore, amountIn, minOut int64, path []splitnet.Address, from, to splitnet.Address, deadline, now time.Time) ([]int64, error)
}

// UnitDeployer deploys the internal units and resolves them afterwards.
// Units deployed by a diversifier are administrated by that diversifier.
type UnitDeployer interface {
	splitter.UnitResolver
	DeployUnit(ctx splitnet.Context, db splitnet.KVStore, deployer splitnet.Address, codeHash, salt []byte, args splitter.InitArgs) (splitter.Unit, error)
}

// Controller creates and operates diversifiers.
type Controller struct {
	assets splitter.AssetController
	swaps  SwapRouter
	units  UnitDeployer
	auth   x.Authenticator
}

// NewController returns a diversifier controller. Units granted with
// splitter.WithUnitAuth are always authorized.
func NewController(assets splitter.AssetController, swaps SwapRouter, units UnitDeployer, auth x.Authenticator) *Controller {
	return &Controller{
		assets: assets,
		swaps:  swaps,
		units:  units,
		auth:   x.ChainAuth(auth, splitter.Authenticate{}),
	}
}

// Init deploys the internal unit of the diversifier at addr, using the
// splitter code and salt, and stores the configuration.
func (c *Controller) Init(ctx splitnet.Context, db splitnet.KVStore, addr, admin splitnet.Address, splitterCode, salt []byte, active bool, args splitter.InitArgs) (*Diversifier, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "diversifier address")
	}
	kv := prefixed(db, addr)
	switch ok, err := configBucket.Has(kv, configKey); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrap(splitter.ErrAlreadyInitialized, "diversifier config exists")
	}
	args.Admin = addr
	unit, err := c.units.DeployUnit(ctx, db, addr, splitterCode, salt, args)
	if err != nil {
		return nil, errors.Wrap(err, "deploy internal unit")
	}
	conf := Config{Admin: admin, SplitterAddress: unit.Address(), Active: active}
	if err := configBucket.Put(kv, configKey, &conf); err != nil {
		return nil, errors.Wrap(err, "cannot store config")
	}
	splitnet.GetLogger(ctx).Info("diversifier initialized",
		"diversifier", addr, "admin", admin, "unit", unit.Address(), "active", active)
	return c.Diversifier(addr), nil
}

// Diversifier returns a handle to the diversifier at given address. The
// diversifier is not required to exist.
func (c *Controller) Diversifier(addr splitnet.Address) *Diversifier {
	return &Diversifier{ctrl: c, addr: addr}
}

// Exists returns true if a diversifier is initialized at given address.
func (c *Controller) Exists(db splitnet.ReadOnlyKVStore, addr splitnet.Address) (bool, error) {
	return configBucket.Has(readPrefixed(db, addr), configKey)
}

// Diversifier swaps assets before handing them to its internal unit.
type Diversifier struct {
	ctrl *Controller
	addr splitnet.Address
}

// Address returns the address the diversifier holds its funds under.
func (d *Diversifier) Address() splitnet.Address {
	return d.addr
}

// DiversifierConfig returns the configuration of the diversifier itself.
// Config returns the configuration of the internal unit.
func (d *Diversifier) DiversifierConfig(db splitnet.ReadOnlyKVStore) (*Config, error) {
	var c Config
	switch err := configBucket.One(readPrefixed(db, d.addr), configKey, &c); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(splitter.ErrNotInitialized, "no diversifier config")
	case err != nil:
		return nil, errors.Wrap(err, "cannot load config")
	}
	return &c, nil
}

func (d *Diversifier) requireAdmin(ctx splitnet.Context, db splitnet.ReadOnlyKVStore) (*Config, error) {
	c, err := d.DiversifierConfig(db)
	if err != nil {
		return nil, err
	}
	if !d.ctrl.auth.HasAddress(ctx, c.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	return c, nil
}

// UpdateWhitelistedSwapTokens replaces the list of assets token can be
// swapped into. Every target is probed to be an asset.
func (d *Diversifier) UpdateWhitelistedSwapTokens(ctx splitnet.Context, db splitnet.KVStore, token splitnet.Address, targets []splitnet.Address) error {
	if _, err := d.requireAdmin(ctx, db); err != nil {
		return err
	}
	if err := token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	for _, t := range targets {
		if _, err := d.ctrl.assets.Name(db, t); err != nil {
			return errors.Wrapf(err, "swap token %s", t)
		}
	}
	kv := prefixed(db, d.addr)
	if len(targets) == 0 {
		if ok, err := swapTokensBucket.Has(kv, token); err != nil || !ok {
			return err
		}
		return swapTokensBucket.Delete(kv, token)
	}
	return swapTokensBucket.Put(kv, token, &SwapTokens{Tokens: targets})
}

// ListWhitelistedSwapTokens returns the assets token can be swapped into.
func (d *Diversifier) ListWhitelistedSwapTokens(db splitnet.ReadOnlyKVStore, token splitnet.Address) ([]splitnet.Address, error) {
	var s SwapTokens
	switch err := swapTokensBucket.One(readPrefixed(db, d.addr), token, &s); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return s.Tokens, nil
}

func (d *Diversifier) canSwap(db splitnet.ReadOnlyKVStore, from, to splitnet.Address) (bool, error) {
	targets, err := d.ListWhitelistedSwapTokens(db, from)
	if err != nil {
		return false, err
	}
	for _, t := range targets {
		if t.Equals(to) {
			return true, nil
		}
	}
	return false, nil
}

// SwapAndDistribute sells amount of path[0] held by the diversifier along
// the path and distributes the output through the internal unit. The swap
// must return at least the quote computed against the current reserves.
// It returns the distributed amount.
func (d *Diversifier) SwapAndDistribute(ctx splitnet.Context, db splitnet.KVStore, path []splitnet.Address, amount int64) (int64, error) {
	c, err := d.requireAdmin(ctx, db)
	if err != nil {
		return 0, err
	}
	if !c.Active {
		return 0, errors.Wrap(ErrNotActive, "swap")
	}
	if len(path) < 2 {
		return 0, errors.Wrapf(ErrInvalidSwapPath, "path of %d tokens", len(path))
	}
	source, target := path[0], path[len(path)-1]
	switch ok, err := d.canSwap(db, source, target); {
	case err != nil:
		return 0, err
	case !ok:
		return 0, errors.Wrapf(ErrInvalidSwapToken, "%s to %s", source, target)
	}
	balance, err := d.ctrl.assets.Balance(db, source, d.addr)
	if err != nil {
		return 0, errors.Wrap(err, "balance")
	}
	if balance == 0 || amount > balance {
		return 0, errors.Wrapf(ErrInsufficientTokenBalance, "amount %d, balance %d", amount, balance)
	}

	quote, err := d.ctrl.swaps.AmountsOut(db, amount, path)
	if err != nil {
		return 0, errors.Wrap(err, "quote")
	}
	now, err := splitnet.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "block time")
	}
	amounts, err := d.ctrl.swaps.SwapExactTokensForTokens(db, amount, quote[len(quote)-1], path, d.addr, d.addr, now, now)
	if err != nil {
		return 0, errors.Wrap(err, "swap")
	}
	out := amounts[len(amounts)-1]

	if err := d.ctrl.assets.Transfer(db, target, d.addr, c.SplitterAddress, out); err != nil {
		return 0, errors.Wrap(err, "fund unit")
	}
	unit, err := d.ctrl.units.Resolve(db, c.SplitterAddress)
	if err != nil {
		return 0, errors.Wrap(err, "internal unit")
	}
	if err := unit.Distribute(splitter.WithUnitAuth(ctx, d.addr), db, target, out); err != nil {
		return 0, err
	}
	splitnet.GetLogger(ctx).Info("swapped and distributed",
		"diversifier", d.addr, "source", source, "target", target, "amount", amount, "distributed", out)
	return out, nil
}

// Toggle flips the active flag.
func (d *Diversifier) Toggle(ctx splitnet.Context, db splitnet.KVStore) (bool, error) {
	c, err := d.requireAdmin(ctx, db)
	if err != nil {
		return false, err
	}
	c.Active = !c.Active
	if err := configBucket.Put(prefixed(db, d.addr), configKey, c); err != nil {
		return false, errors.Wrap(err, "cannot store config")
	}
	splitnet.GetLogger(ctx).Info("diversifier toggled", "diversifier", d.addr, "active", c.Active)
	return c.Active, nil
}
