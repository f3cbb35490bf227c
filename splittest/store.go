package splittest

import (
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/store"
	"github.com/iov-one/splitnet/store/iavl"
)

// NewMemStore returns an in memory store that can be cache wrapped.
func NewMemStore() splitnet.CacheableKVStore {
	return store.MemStore()
}

// NewCommitStore returns an in memory committed store with the latest
// version loaded.
func NewCommitStore(t testing.TB) iavl.CommitStore {
	t.Helper()
	cs := iavl.MockCommitStore()
	if err := cs.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load store: %+v", err)
	}
	return cs
}
