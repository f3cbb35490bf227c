package store

import (
	"bytes"

	"github.com/google/btree"
)

// entry is a write buffered by a cache. A deleted entry hides its key in
// the store below.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (c BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c.KVStore, c.NewBatch(), nil)
}

// MemStore is an empty store living in memory only.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap buffers writes in a btree above a read only parent.
// Reads see the buffered writes first. Write replays them through batch in
// the order they were made.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches writes to batch above parent. Nested caches
// share free to recycle tree nodes, nil allocates a new list.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(2, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap nests another cache, written back into this one.
func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes the buffered writes to the parent and empties the cache.
func (c BTreeCacheWrap) Write() error {
	defer c.Discard()
	return c.batch.Write()
}

// Discard drops the buffered writes.
func (c BTreeCacheWrap) Discard() {
	c.tree.Clear(true)
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	e := entry{key: clone(key), value: clone(value)}
	c.tree.ReplaceOrInsert(e)
	return c.batch.Set(e.key, e.value)
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	e := entry{key: clone(key), deleted: true}
	c.tree.ReplaceOrInsert(e)
	return c.batch.Delete(e.key)
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := c.cached(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := c.cached(key); ok {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c BTreeCacheWrap) cached(key []byte) (entry, bool) {
	item := c.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(parent, c.entries(start, end), true), nil
}

func (c BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	es := c.entries(start, end)
	for i, j := 0, len(es)-1; i < j; i, j = i+1, j-1 {
		es[i], es[j] = es[j], es[i]
	}
	return newMergedIterator(parent, es, false), nil
}

// entries returns the buffered writes with start <= key < end in
// ascending order. A nil bound is open.
func (c BTreeCacheWrap) entries(start, end []byte) []entry {
	var es []entry
	visit := func(i btree.Item) bool {
		es = append(es, i.(entry))
		return true
	}
	from, to := entry{key: start}, entry{key: end}
	switch {
	case start == nil && end == nil:
		c.tree.Ascend(visit)
	case start == nil:
		c.tree.AscendLessThan(to, visit)
	case end == nil:
		c.tree.AscendGreaterOrEqual(from, visit)
	default:
		c.tree.AscendRange(from, to, visit)
	}
	return es
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
