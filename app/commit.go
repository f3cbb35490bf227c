package app

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// CommitStore holds the committed state and two caches above it. Deliver
// collects the writes of the current block, check validates mempool
// transactions on a scratch copy that is dropped on every commit.
type CommitStore struct {
	committed splitnet.CommitKVStore
	deliver   splitnet.KVCacheWrap
	check     splitnet.KVCacheWrap
}

// NewCommitStore loads the latest version of db. A node cannot start
// without its state, so a failing load panics.
func NewCommitStore(db splitnet.CommitKVStore) *CommitStore {
	if err := db.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "load state"))
	}
	cs := &CommitStore{committed: db}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo is the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (splitnet.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the writes of the block as a new version.
func (cs *CommitStore) Commit() (splitnet.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return splitnet.CommitID{}, errors.Wrap(err, "flush block")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() splitnet.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() splitnet.CacheableKVStore {
	return cs.deliver
}

// chainIDKey lives outside of the "<bucket>:" namespaces.
var chainIDKey = []byte("_sn:chain_id")

// loadChainID returns an empty string before genesis.
func loadChainID(db splitnet.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID records the chain ID at genesis. It can never change.
func saveChainID(db splitnet.KVStore, chainID string) error {
	if !splitnet.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch has, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case has:
		return errors.Wrap(errors.ErrImmutable, "chain id is set at genesis")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
