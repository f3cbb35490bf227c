package store

import (
	"github.com/iov-one/splitnet/errors"
)

// PrefixStore scopes all keys of the wrapped store under a fixed prefix.
// Entries outside of the prefix are not visible and cannot be modified.
type PrefixStore struct {
	prefix []byte
	read   ReadOnlyKVStore
	// kv is nil for read only stores.
	kv KVStore
}

var _ KVStore = PrefixStore{}

// NewPrefixStore returns a store that prepends prefix to every key.
func NewPrefixStore(prefix []byte, kv KVStore) PrefixStore {
	return PrefixStore{prefix: clone(prefix), read: kv, kv: kv}
}

// NewReadOnlyPrefixStore returns a prefixed view of a read only store. All
// writes fail with ErrImmutable.
func NewReadOnlyPrefixStore(prefix []byte, kv ReadOnlyKVStore) PrefixStore {
	return PrefixStore{prefix: clone(prefix), read: kv}
}

func (p PrefixStore) key(k []byte) []byte {
	out := make([]byte, len(p.prefix)+len(k))
	copy(out, p.prefix)
	copy(out[len(p.prefix):], k)
	return out
}

// bounds translates a scoped range into the wrapped store range.
func (p PrefixStore) bounds(start, end []byte) ([]byte, []byte) {
	s := p.key(start)
	if end == nil {
		return s, PrefixEnd(p.prefix)
	}
	return s, p.key(end)
}

// Get returns the scoped value.
func (p PrefixStore) Get(key []byte) ([]byte, error) {
	return p.read.Get(p.key(key))
}

// Has checks the scoped key.
func (p PrefixStore) Has(key []byte) (bool, error) {
	return p.read.Has(p.key(key))
}

// Set writes under the scoped key.
func (p PrefixStore) Set(key, value []byte) error {
	if p.kv == nil {
		return errors.Wrap(errors.ErrImmutable, "read only store")
	}
	return p.kv.Set(p.key(key), value)
}

// Delete removes the scoped key.
func (p PrefixStore) Delete(key []byte) error {
	if p.kv == nil {
		return errors.Wrap(errors.ErrImmutable, "read only store")
	}
	return p.kv.Delete(p.key(key))
}

// NewBatch returns a batch that writes through the prefix.
func (p PrefixStore) NewBatch() Batch {
	return NewNonAtomicBatch(p)
}

// Iterator returns the scoped entries in ascending order with the prefix
// removed from the keys.
func (p PrefixStore) Iterator(start, end []byte) (Iterator, error) {
	s, e := p.bounds(start, end)
	it, err := p.read.Iterator(s, e)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{prefixLen: len(p.prefix), it: it}, nil
}

// ReverseIterator returns the scoped entries in descending order with the
// prefix removed from the keys.
func (p PrefixStore) ReverseIterator(start, end []byte) (Iterator, error) {
	s, e := p.bounds(start, end)
	it, err := p.read.ReverseIterator(s, e)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{prefixLen: len(p.prefix), it: it}, nil
}

type prefixIterator struct {
	prefixLen int
	it        Iterator
}

func (i *prefixIterator) Next() ([]byte, []byte, error) {
	key, value, err := i.it.Next()
	if err != nil {
		return nil, nil, err
	}
	if len(key) < i.prefixLen {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "key outside of the prefix range")
	}
	return key[i.prefixLen:], value, nil
}

func (i *prefixIterator) Release() {
	i.it.Release()
}

// PrefixEnd returns the smallest key that is greater than all keys starting
// with given prefix. It returns nil when no such key exists (the prefix is
// empty or made of 0xFF bytes only), meaning the range is unbounded.
func PrefixEnd(prefix []byte) []byte {
	end := clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
