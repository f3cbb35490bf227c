package splitter

import (
	"math"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
	"github.com/iov-one/splitnet/store"
	"github.com/iov-one/splitnet/x"
)

var (
	configKey = []byte("config")
	rosterKey = []byte("roster")
	listKey   = []byte("whitelist")
)

var (
	configBucket     = orm.NewModelBucket("config", &Config{})
	shareBucket      = orm.NewModelBucket("share", &ShareEntry{})
	rosterBucket     = orm.NewModelBucket("roster", &Roster{})
	allocationBucket = orm.NewModelBucket("allocation", &Allocation{})
	totalBucket      = orm.NewModelBucket("total", &TotalAllocation{})
	whitelistBucket  = orm.NewModelBucket("whitelist", &Whitelist{})
)

// UnitPrefix returns the prefix all records of given unit are stored under.
func UnitPrefix(unit splitnet.Address) []byte {
	prefix := make([]byte, 0, len(unit)+6)
	prefix = append(prefix, "split:"...)
	return append(prefix, unit...)
}

// ledger gives access to the records of a single unit.
type ledger struct {
	db splitnet.KVStore
}

func openLedger(db splitnet.KVStore, unit splitnet.Address) *ledger {
	return &ledger{db: store.NewPrefixStore(UnitPrefix(unit), db)}
}

// readLedger returns a ledger that fails every write.
func readLedger(db splitnet.ReadOnlyKVStore, unit splitnet.Address) *ledger {
	return &ledger{db: store.NewReadOnlyPrefixStore(UnitPrefix(unit), db)}
}

func allocationKey(shareholder, asset splitnet.Address) []byte {
	key := make([]byte, 0, len(shareholder)+len(asset))
	key = append(key, shareholder...)
	return append(key, asset...)
}

// InitConfig stores the configuration. It can be called only once.
func (l *ledger) InitConfig(admin splitnet.Address, name []byte, mutable bool) error {
	switch ok, err := l.Exists(); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(ErrAlreadyInitialized, "config exists")
	}
	return configBucket.Put(l.db, configKey, &Config{Admin: admin, Name: name, Mutable: mutable})
}

// Config returns the configuration or ErrNotInitialized.
func (l *ledger) Config() (*Config, error) {
	var c Config
	switch err := configBucket.One(l.db, configKey, &c); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(ErrNotInitialized, "no config")
	case err != nil:
		return nil, errors.Wrap(err, "cannot load config")
	}
	return &c, nil
}

// Exists returns true once the configuration is stored.
func (l *ledger) Exists() (bool, error) {
	return configBucket.Has(l.db, configKey)
}

// RequireAdmin returns the configuration if the stored admin authorized
// this call.
func (l *ledger) RequireAdmin(ctx splitnet.Context, auth x.Authenticator) (*Config, error) {
	c, err := l.Config()
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, c.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	return c, nil
}

// Lock makes the roster immutable. Locking twice is a no-op.
func (l *ledger) Lock() error {
	c, err := l.Config()
	if err != nil {
		return err
	}
	if !c.Mutable {
		return nil
	}
	c.Mutable = false
	return configBucket.Put(l.db, configKey, c)
}

// Rename replaces the display name.
func (l *ledger) Rename(name []byte) error {
	c, err := l.Config()
	if err != nil {
		return err
	}
	c.Name = name
	return configBucket.Put(l.db, configKey, c)
}

func (l *ledger) SaveShare(s ShareEntry) error {
	return shareBucket.Put(l.db, s.Shareholder, &s)
}

// Share returns the share of given shareholder, and false if it is not in
// the roster.
func (l *ledger) Share(shareholder splitnet.Address) (int64, bool, error) {
	var s ShareEntry
	switch err := shareBucket.One(l.db, shareholder, &s); {
	case errors.ErrNotFound.Is(err):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	return s.Share, true, nil
}

func (l *ledger) RemoveShare(shareholder splitnet.Address) error {
	return shareBucket.Delete(l.db, shareholder)
}

func (l *ledger) SaveRosterOrder(shareholders []splitnet.Address) error {
	return rosterBucket.Put(l.db, rosterKey, &Roster{Shareholders: shareholders})
}

// RosterOrder returns shareholders in the declaration order. An empty
// roster is returned as nil.
func (l *ledger) RosterOrder() ([]splitnet.Address, error) {
	var r Roster
	switch err := rosterBucket.One(l.db, rosterKey, &r); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return r.Shareholders, nil
}

func (l *ledger) RemoveRosterOrder() error {
	if ok, err := rosterBucket.Has(l.db, rosterKey); err != nil || !ok {
		return err
	}
	return rosterBucket.Delete(l.db, rosterKey)
}

// SaveAllocation sets the claim of a shareholder and moves the asset total
// by the difference. Use RemoveAllocation to clear a claim.
func (l *ledger) SaveAllocation(shareholder, asset splitnet.Address, amount int64) error {
	prev, err := l.Allocation(shareholder, asset)
	if err != nil {
		return err
	}
	if err := allocationBucket.Put(l.db, allocationKey(shareholder, asset), &Allocation{Amount: amount}); err != nil {
		return err
	}
	return l.moveTotal(asset, amount-prev)
}

// Allocation returns the claim of a shareholder. Absent claims are zero.
func (l *ledger) Allocation(shareholder, asset splitnet.Address) (int64, error) {
	var a Allocation
	switch err := allocationBucket.One(l.db, allocationKey(shareholder, asset), &a); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return a.Amount, nil
}

// RemoveAllocation clears the claim of a shareholder and subtracts it from
// the asset total.
func (l *ledger) RemoveAllocation(shareholder, asset splitnet.Address) error {
	prev, err := l.Allocation(shareholder, asset)
	if err != nil || prev == 0 {
		return err
	}
	if err := allocationBucket.Delete(l.db, allocationKey(shareholder, asset)); err != nil {
		return err
	}
	return l.moveTotal(asset, -prev)
}

func (l *ledger) moveTotal(asset splitnet.Address, delta int64) error {
	if delta == 0 {
		return nil
	}
	total, err := l.Total(asset)
	if err != nil {
		return err
	}
	if delta > 0 && total > math.MaxInt64-delta {
		return errors.Wrap(errors.ErrOverflow, "total allocation")
	}
	total += delta
	switch {
	case total < 0:
		return errors.Wrapf(errors.ErrState, "negative total allocation of %s", asset)
	case total == 0:
		return l.RemoveTotal(asset)
	}
	return l.SaveTotal(asset, total)
}

func (l *ledger) SaveTotal(asset splitnet.Address, amount int64) error {
	return totalBucket.Put(l.db, asset, &TotalAllocation{Amount: amount})
}

// Total returns the sum of all claims on asset. Absent totals are zero.
func (l *ledger) Total(asset splitnet.Address) (int64, error) {
	var t TotalAllocation
	switch err := totalBucket.One(l.db, asset, &t); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return t.Amount, nil
}

func (l *ledger) RemoveTotal(asset splitnet.Address) error {
	if ok, err := totalBucket.Has(l.db, asset); err != nil || !ok {
		return err
	}
	return totalBucket.Delete(l.db, asset)
}

// UpdateWhitelist replaces the whole list. An empty list removes the
// record.
func (l *ledger) UpdateWhitelist(tokens []splitnet.Address) error {
	if len(tokens) == 0 {
		if ok, err := whitelistBucket.Has(l.db, listKey); err != nil || !ok {
			return err
		}
		return whitelistBucket.Delete(l.db, listKey)
	}
	return whitelistBucket.Put(l.db, listKey, &Whitelist{Tokens: tokens})
}

func (l *ledger) Whitelist() ([]splitnet.Address, error) {
	var w Whitelist
	switch err := whitelistBucket.One(l.db, listKey, &w); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return w.Tokens, nil
}

func (l *ledger) IsWhitelisted(asset splitnet.Address) (bool, error) {
	tokens, err := l.Whitelist()
	if err != nil {
		return false, err
	}
	for _, t := range tokens {
		if t.Equals(asset) {
			return true, nil
		}
	}
	return false, nil
}

// replaceShares removes the whole roster and stores the new one.
func (l *ledger) replaceShares(shares []ShareEntry) error {
	prev, err := l.RosterOrder()
	if err != nil {
		return err
	}
	for _, holder := range prev {
		if err := l.RemoveShare(holder); err != nil {
			return errors.Wrapf(err, "remove share of %s", holder)
		}
	}
	if err := l.RemoveRosterOrder(); err != nil {
		return err
	}
	order := make([]splitnet.Address, len(shares))
	for i, s := range shares {
		if err := l.SaveShare(s); err != nil {
			return errors.Wrapf(err, "save share of %s", s.Shareholder)
		}
		order[i] = s.Shareholder
	}
	return l.SaveRosterOrder(order)
}

// listShares returns the roster in declaration order.
func (l *ledger) listShares() ([]ShareEntry, error) {
	order, err := l.RosterOrder()
	if err != nil {
		return nil, err
	}
	shares := make([]ShareEntry, 0, len(order))
	for _, holder := range order {
		share, ok, err := l.Share(holder)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrState, "no share of %s", holder)
		}
		shares = append(shares, ShareEntry{Shareholder: holder, Share: share})
	}
	return shares, nil
}
