package orm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/store"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,16}$`).MatchString

// Model is impelemented by any entity that can be stored using ModelBucket.
type Model interface {
	Validate() error
}

// ModelBucket stores models of a single type under a prefixed subspace of
// the database.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db splitnet.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given primary key exists.
	Has(db splitnet.ReadOnlyKVStore, key []byte) (bool, error)

	// ByIndex returns all entities that were indexed under given value.
	// Destination must be a pointer to a slice of models (or model
	// pointers). Primary keys of the loaded entities are returned.
	ByIndex(db splitnet.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error)

	// Put saves given model in the database. Model is validated before
	// saving and all indexes are updated.
	Put(db splitnet.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db splitnet.KVStore, key []byte) error

	// Register registers this bucket and all its indexes in the query
	// router under "/<name>" and "/<name>/<index>".
	Register(name string, r splitnet.QueryRouter)
}

// ModelBucketOption configures a bucket.
type ModelBucketOption func(*modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities are passed through indexer and the returned keys are used to
// reference them.
func WithIndex(name string, indexer MultiKeyIndexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %q registered twice", name))
		}
		mb.indexes[name] = newCompactIndex(mb.name, name, indexer, unique)
	}
}

// NewModelBucket returns a ModelBucket instance. Every stored entity must be
// of the same type as the provided model.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   tp.Elem(),
		indexes: make(map[string]compactIndex),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]compactIndex
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) One(db splitnet.ReadOnlyKVStore, key []byte, dest Model) error {
	if dest == nil || reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as *%s", dest, mb.model)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model.Name())
	}
	return Unmarshal(raw, dest)
}

func (mb *modelBucket) Has(db splitnet.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(mb.dbKey(key))
}

func (mb *modelBucket) load(db splitnet.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	m := reflect.New(mb.model).Interface().(Model)
	if err := Unmarshal(raw, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (mb *modelBucket) Put(db splitnet.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot be stored in %s bucket", m, mb.name)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	if len(mb.indexes) > 0 {
		prev, err := mb.load(db, key)
		if err != nil {
			return err
		}
		for _, idx := range mb.indexes {
			if err := idx.Update(db, key, prev, m); err != nil {
				return errors.Wrap(err, "cannot update index")
			}
		}
	}
	raw, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db splitnet.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model.Name())
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return errors.Wrap(err, "cannot update index")
		}
	}
	return db.Delete(mb.dbKey(key))
}

func (mb *modelBucket) ByIndex(db splitnet.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", indexName)
	}
	refs, err := idx.Keys(db, key)
	if err != nil {
		return nil, err
	}
	models := make([]Model, 0, len(refs))
	for _, ref := range refs {
		m, err := mb.load(db, ref)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrState, "index %s references a missing entity", indexName)
		}
		models = append(models, m)
	}
	if err := mb.fill(dest, models); err != nil {
		return nil, err
	}
	return refs, nil
}

// fill copies models into dest, that must be a pointer to a slice of models
// or a pointer to a slice of model pointers.
func (mb *modelBucket) fill(dest interface{}, models []Model) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.Elem().Kind() != reflect.Slice {
		return errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	slice := dv.Elem()
	elem := slice.Type().Elem()
	byPtr := elem == reflect.PtrTo(mb.model)
	if !byPtr && elem != mb.model {
		return errors.Wrapf(errors.ErrType, "%s cannot be loaded into %T", mb.model.Name(), dest)
	}
	out := reflect.MakeSlice(slice.Type(), 0, len(models))
	for _, m := range models {
		v := reflect.ValueOf(m)
		if !byPtr {
			v = v.Elem()
		}
		out = reflect.Append(out, v)
	}
	slice.Set(out)
	return nil
}

func (mb *modelBucket) Register(name string, r splitnet.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, splitnet.QueryHandlerFunc(mb.query))
	for iname, idx := range mb.indexes {
		r.Register(root+"/"+iname, indexQuery{mb: mb, idx: idx})
	}
}

// Query modifiers understood by bucket query handlers.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// query returns JSON serialized models stored under given key or, with the
// prefix modifier, all models which key starts with given data.
func (mb *modelBucket) query(db splitnet.ReadOnlyKVStore, mod string, data []byte) ([]splitnet.Model, error) {
	switch mod {
	case KeyQueryMod:
		m, err := mb.load(db, data)
		if err != nil || m == nil {
			return nil, err
		}
		return toJSONModels([][]byte{data}, []Model{m})
	case PrefixQueryMod:
		it, err := db.Iterator(mb.dbKey(data), store.PrefixEnd(mb.dbKey(data)))
		if err != nil {
			return nil, err
		}
		defer it.Release()
		var keys [][]byte
		var models []Model
		for {
			key, raw, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				break
			}
			if err != nil {
				return nil, err
			}
			m := reflect.New(mb.model).Interface().(Model)
			if err := Unmarshal(raw, m); err != nil {
				return nil, err
			}
			keys = append(keys, key[len(mb.prefix):])
			models = append(models, m)
		}
		return toJSONModels(keys, models)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
}

type indexQuery struct {
	mb  *modelBucket
	idx compactIndex
}

func (q indexQuery) Query(db splitnet.ReadOnlyKVStore, mod string, data []byte) ([]splitnet.Model, error) {
	if mod != KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported index query modifier %q", mod)
	}
	refs, err := q.idx.Keys(db, data)
	if err != nil {
		return nil, err
	}
	models := make([]Model, 0, len(refs))
	for _, ref := range refs {
		m, err := q.mb.load(db, ref)
		if err != nil {
			return nil, err
		}
		if m != nil {
			models = append(models, m)
		}
	}
	return toJSONModels(refs, models)
}

func toJSONModels(keys [][]byte, models []Model) ([]splitnet.Model, error) {
	res := make([]splitnet.Model, len(models))
	for i, m := range models {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		res[i] = splitnet.Pair(keys[i], raw)
	}
	return res, nil
}
