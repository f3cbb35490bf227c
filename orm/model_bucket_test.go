package orm

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	if err := b.Put(db, []byte("c1"), &counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}

	var c1 counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}
	if ok, err := b.Has(db, []byte("c1")); err != nil || !ok {
		t.Fatalf("want c1 to exist, got %v, %v", ok, err)
	}

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
}

func TestModelBucketPutValidation(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	cases := map[string]struct {
		Key     []byte
		Model   Model
		WantErr *errors.Error
	}{
		"valid": {
			Key:   []byte("a"),
			Model: &counter{Count: 3},
		},
		"invalid model": {
			Key:     []byte("a"),
			Model:   &counter{Count: -1},
			WantErr: errors.ErrModel,
		},
		"empty key": {
			Key:     nil,
			Model:   &counter{Count: 1},
			WantErr: errors.ErrEmpty,
		},
		"wrong type": {
			Key:     []byte("a"),
			Model:   &MultiRef{Refs: [][]byte{[]byte("x")}},
			WantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := b.Put(db, tc.Key, tc.Model)
			if tc.WantErr == nil {
				require.NoError(t, err)
				return
			}
			if !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.WantErr, err)
			}
		})
	}
}

func TestModelBucketByIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{},
		WithIndex("owner", AsMultiKeyIndexer(counterByOwner), false))

	require.NoError(t, b.Put(db, []byte("c1"), &counter{Owner: []byte("alice"), Count: 1}))
	require.NoError(t, b.Put(db, []byte("c2"), &counter{Owner: []byte("bob"), Count: 2}))
	require.NoError(t, b.Put(db, []byte("c3"), &counter{Owner: []byte("alice"), Count: 3}))

	var byValue []counter
	keys, err := b.ByIndex(db, "owner", []byte("alice"), &byValue)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("c1"), []byte("c3")}, keys)
	assert.Equal(t, []counter{
		{Owner: []byte("alice"), Count: 1},
		{Owner: []byte("alice"), Count: 3},
	}, byValue)

	// Moving c1 to another owner must update the index.
	require.NoError(t, b.Put(db, []byte("c1"), &counter{Owner: []byte("bob"), Count: 1}))
	var byPtr []*counter
	keys, err = b.ByIndex(db, "owner", []byte("bob"), &byPtr)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("c1"), []byte("c2")}, keys)
	assert.Len(t, byPtr, 2)

	require.NoError(t, b.Delete(db, []byte("c3")))
	keys, err = b.ByIndex(db, "owner", []byte("alice"), &byPtr)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Empty(t, byPtr)

	if _, err := b.ByIndex(db, "unknown", []byte("alice"), &byPtr); !errors.ErrHuman.Is(err) {
		t.Fatalf("unexpected unknown index error: %+v", err)
	}
	var wrong []MultiRef
	if _, err := b.ByIndex(db, "owner", []byte("bob"), &wrong); !errors.ErrType.Is(err) {
		t.Fatalf("unexpected wrong destination error: %+v", err)
	}
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{},
		WithIndex("owner", AsMultiKeyIndexer(counterByOwner), true))

	require.NoError(t, b.Put(db, []byte("c1"), &counter{Owner: []byte("alice")}))
	// Overwriting the same entity keeps the unique reference.
	require.NoError(t, b.Put(db, []byte("c1"), &counter{Owner: []byte("alice"), Count: 4}))

	err := b.Put(db, []byte("c2"), &counter{Owner: []byte("alice")})
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{},
		WithIndex("owner", AsMultiKeyIndexer(counterByOwner), false))
	require.NoError(t, b.Put(db, []byte("aa1"), &counter{Owner: []byte("x"), Count: 1}))
	require.NoError(t, b.Put(db, []byte("aa2"), &counter{Owner: []byte("y"), Count: 2}))
	require.NoError(t, b.Put(db, []byte("bb1"), &counter{Owner: []byte("x"), Count: 3}))

	qr := splitnet.NewQueryRouter()
	b.Register("", qr)

	h := qr.Handler("/cnts")
	require.NotNil(t, h)
	res, err := h.Query(db, KeyQueryMod, []byte("aa2"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	var c counter
	require.NoError(t, json.Unmarshal(res[0].Value, &c))
	assert.Equal(t, int64(2), c.Count)

	res, err = h.Query(db, PrefixQueryMod, []byte("aa"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []byte("aa1"), res[0].Key)
	assert.Equal(t, []byte("aa2"), res[1].Key)

	res, err = h.Query(db, KeyQueryMod, []byte("missing"))
	require.NoError(t, err)
	assert.Empty(t, res)

	idx := qr.Handler("/cnts/owner")
	require.NotNil(t, idx)
	res, err = idx.Query(db, KeyQueryMod, []byte("x"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []byte("aa1"), res[0].Key)
	assert.Equal(t, []byte("bb1"), res[1].Key)

	if _, err := h.Query(db, "bogus", nil); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected modifier error: %+v", err)
	}
}
