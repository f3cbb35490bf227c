package orm

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

const compactIdxPrefix = "_i."

// MultiKeyIndexer calculates the secondary index keys for a given model.
// Returning no keys means the model is not indexed.
type MultiKeyIndexer func(Model) ([][]byte, error)

// Indexer calculates the secondary index key for a given model
type Indexer func(Model) ([]byte, error)

// AsMultiKeyIndexer adapts a single key indexer.
func AsMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(m Model) ([][]byte, error) {
		key, err := indexer(m)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

// compactIndex is an index implementation that stores all indexed entities as
// a set, serialized and stored under single key. This implmentation should be
// used only for small sized index collection.
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
}

func newCompactIndex(bucket, name string, indexer MultiKeyIndexer, unique bool) compactIndex {
	return compactIndex{
		name:   name,
		id:     []byte(compactIdxPrefix + bucket + "_" + name + ":"),
		index:  indexer,
		unique: unique,
	}
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
func (i compactIndex) Update(db splitnet.KVStore, pk []byte, prev, save Model) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}
	var prevKeys, saveKeys [][]byte
	if prev != nil {
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		prevKeys = keys
	}
	if save != nil {
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		saveKeys = keys
	}
	for _, key := range prevKeys {
		if err := i.remove(db, key, pk); err != nil {
			return err
		}
	}
	for _, key := range saveKeys {
		if err := i.insert(db, key, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i compactIndex) refs(db splitnet.ReadOnlyKVStore, index []byte) (*MultiRef, error) {
	raw, err := db.Get(i.indexKey(index))
	if err != nil {
		return nil, err
	}
	var ref MultiRef
	if raw == nil {
		return &ref, nil
	}
	if err := Unmarshal(raw, &ref); err != nil {
		return nil, errors.Wrapf(err, "index %s", i.name)
	}
	return &ref, nil
}

func (i compactIndex) insert(db splitnet.KVStore, index []byte, pk []byte) error {
	ref, err := i.refs(db, index)
	if err != nil {
		return err
	}
	if i.unique && len(ref.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "unique index %s", i.name)
	}
	if err := ref.Add(pk); err != nil {
		return err
	}
	raw, err := Marshal(ref)
	if err != nil {
		return err
	}
	return db.Set(i.indexKey(index), raw)
}

func (i compactIndex) remove(db splitnet.KVStore, index []byte, pk []byte) error {
	ref, err := i.refs(db, index)
	if err != nil {
		return err
	}
	if err := ref.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	if len(ref.Refs) == 0 {
		return db.Delete(i.indexKey(index))
	}
	raw, err := Marshal(ref)
	if err != nil {
		return err
	}
	return db.Set(i.indexKey(index), raw)
}

// Keys returns all primary keys indexed under given value.
func (i compactIndex) Keys(db splitnet.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	ref, err := i.refs(db, index)
	if err != nil {
		return nil, err
	}
	return ref.Refs, nil
}
