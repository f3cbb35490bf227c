package store

import (
	"testing"

	"github.com/iov-one/splitnet/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreConstructor returns an empty store and a function releasing it.
type StoreConstructor func() (CacheableKVStore, func())

// RunCacheSuite checks the caching contract every CacheableKVStore must
// honor. Store implementations call it from their own tests.
func RunCacheSuite(t *testing.T, newStore StoreConstructor) {
	t.Run("cache writes reach the store on write only", func(t *testing.T) {
		db, release := newStore()
		defer release()
		cacheWrites(t, db)
	})
	t.Run("iteration merges cached writes", func(t *testing.T) {
		db, release := newStore()
		defer release()
		cacheIteration(t, db)
	})
}

func cacheWrites(t *testing.T, db CacheableKVStore) {
	unit, ledger := []byte("unit"), []byte("ledger")
	AssertGetHas(t, db, unit, nil, false)
	require.NoError(t, db.Set(unit, ledger))
	AssertGetHas(t, db, unit, ledger, true)

	cache := db.CacheWrap()
	AssertGetHas(t, cache, unit, ledger, true)
	asset, balance := []byte("asset"), []byte("1000")
	require.NoError(t, cache.Set(asset, balance))
	AssertGetHas(t, cache, asset, balance, true)
	AssertGetHas(t, db, asset, nil, false)
	require.NoError(t, cache.Write())
	AssertGetHas(t, db, asset, balance, true)

	discarded := db.CacheWrap()
	require.NoError(t, discarded.Set([]byte("lost"), []byte("x")))
	require.NoError(t, discarded.Delete(unit))
	discarded.Discard()
	AssertGetHas(t, db, []byte("lost"), nil, false)
	AssertGetHas(t, db, unit, ledger, true)

	deleting := db.CacheWrap()
	require.NoError(t, deleting.Delete(unit))
	AssertGetHas(t, deleting, unit, nil, false)
	AssertGetHas(t, db, unit, ledger, true)
	require.NoError(t, deleting.Write())
	AssertGetHas(t, db, unit, nil, false)
	AssertGetHas(t, db, asset, balance, true)
}

func cacheIteration(t *testing.T, db CacheableKVStore) {
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, db.Set([]byte(k), []byte("db-"+k)))
	}
	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Delete([]byte("c")))
	require.NoError(t, cache.Set([]byte("ca"), []byte("cache-ca")))
	require.NoError(t, cache.Delete([]byte("e")))
	require.NoError(t, cache.Set([]byte("f"), []byte("cache-f")))

	all := []string{"a=db-a", "b=cache-b", "ca=cache-ca", "d=db-d", "f=cache-f"}
	cases := map[string]struct {
		start, end string
		reverse    bool
		want       []string
	}{
		"everything":         {want: all},
		"everything reverse": {reverse: true, want: []string{"f=cache-f", "d=db-d", "ca=cache-ca", "b=cache-b", "a=db-a"}},
		"end is exclusive":   {start: "b", end: "d", want: all[1:3]},
		"open end":           {start: "c", want: all[2:]},
		"open start":         {end: "c", want: all[:2]},
		"bounded reverse":    {start: "b", end: "e", reverse: true, want: []string{"d=db-d", "ca=cache-ca", "b=cache-b"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var it Iterator
			var err error
			if tc.reverse {
				it, err = cache.ReverseIterator(bound(tc.start), bound(tc.end))
			} else {
				it, err = cache.Iterator(bound(tc.start), bound(tc.end))
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, drain(t, it))
		})
	}
}

func bound(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

func drain(t testing.TB, it Iterator) []string {
	t.Helper()
	defer it.Release()
	var got []string
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return got
		}
		require.NoError(t, err)
		got = append(got, string(k)+"="+string(v))
	}
}

// AssertGetHas checks that Get returns want and Has returns has.
func AssertGetHas(t testing.TB, db ReadOnlyKVStore, key, want []byte, has bool) {
	t.Helper()
	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	exists, err := db.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}
