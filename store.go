package splitnet

// ReadOnlyKVStore is the view of the state queries and validations get.
// Get returns nil for a missing key.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order, a nil bound is
	// open. The domain must not be written while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks [start, end) in descending key order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Neither
// method may keep a reference to the slices it is given.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the state handlers read and write.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies them to its store on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator yields entries until Next returns ErrIteratorDone:
//
//	it, err := db.Iterator(start, end)
//	if err != nil {
//		return err
//	}
//	defer it.Release()
//	for {
//		key, value, err := it.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		} else if err != nil {
//			return err
//		}
//		...
//	}
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can stack an uncommitted layer of writes on top of
// itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a layer of pending writes. Reads see the pending writes
// over the parent state. Write flushes them into the parent, Discard drops
// them. Layers nest, which gives a transaction its savepoint.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent, versioned state of the node.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap

	// Commit persists the writes flushed into the store as a new version.
	Commit() (CommitID, error)
	// LoadLatestVersion opens the last complete version, an interrupted
	// commit is never visible.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a version of the state by height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
