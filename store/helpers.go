package store

import (
	"github.com/iov-one/splitnet/errors"
)

// SliceIterator iterates over models already loaded in memory.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if len(s.models) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models = nil
}

// EmptyKVStore holds nothing and drops every write. MemStore caches above
// it.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error      { return nil }
func (EmptyKVStore) Delete([]byte) error        { return nil }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// NonAtomicBatch queues writes and replays them in order on Write. A
// failing write leaves the earlier ones applied, so it only fronts stores
// that cannot fail halfway: caches and the iavl working tree.
type NonAtomicBatch struct {
	out     SetDeleter
	pending []func(SetDeleter) error
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.pending = append(b.pending, func(out SetDeleter) error { return out.Set(key, value) })
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.pending = append(b.pending, func(out SetDeleter) error { return out.Delete(key) })
	return nil
}

// Len is the number of queued writes.
func (b *NonAtomicBatch) Len() int {
	return len(b.pending)
}

func (b *NonAtomicBatch) Write() error {
	for i, apply := range b.pending {
		if err := apply(b.out); err != nil {
			return errors.Wrapf(err, "batch write %d", i)
		}
	}
	b.pending = nil
	return nil
}
