package store

import (
	"testing"

	"github.com/iov-one/splitnet/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixStoreIsolation(t *testing.T) {
	kv := MemStore()
	a := NewPrefixStore([]byte("unit-a:"), kv)
	b := NewPrefixStore([]byte("unit-b:"), kv)

	require.NoError(t, a.Set([]byte("x"), []byte("1")))
	require.NoError(t, a.Set([]byte("y"), []byte("2")))
	require.NoError(t, b.Set([]byte("x"), []byte("3")))

	AssertGetHas(t, a, []byte("x"), []byte("1"), true)
	AssertGetHas(t, b, []byte("x"), []byte("3"), true)
	AssertGetHas(t, b, []byte("y"), nil, false)
	AssertGetHas(t, kv, []byte("unit-a:y"), []byte("2"), true)

	it, err := a.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x=1", "y=2"}, drain(t, it))

	it, err = a.ReverseIterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"y=2", "x=1"}, drain(t, it))

	require.NoError(t, a.Delete([]byte("x")))
	AssertGetHas(t, a, []byte("x"), nil, false)
	AssertGetHas(t, b, []byte("x"), []byte("3"), true)
}

func TestReadOnlyPrefixStore(t *testing.T) {
	kv := MemStore()
	require.NoError(t, kv.Set([]byte("unit-a:x"), []byte("1")))

	ro := NewReadOnlyPrefixStore([]byte("unit-a:"), kv)
	AssertGetHas(t, ro, []byte("x"), []byte("1"), true)

	if err := ro.Set([]byte("y"), []byte("2")); !errors.ErrImmutable.Is(err) {
		t.Fatalf("want immutable error, got %+v", err)
	}
	if err := ro.Delete([]byte("x")); !errors.ErrImmutable.Is(err) {
		t.Fatalf("want immutable error, got %+v", err)
	}
	AssertGetHas(t, kv, []byte("unit-a:x"), []byte("1"), true)
}

func TestPrefixEnd(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		want   []byte
	}{
		"simple":        {prefix: []byte("abc"), want: []byte("abd")},
		"trailing 0xFF": {prefix: []byte{0x01, 0xFF}, want: []byte{0x02}},
		"all 0xFF":      {prefix: []byte{0xFF, 0xFF}, want: nil},
		"empty":         {prefix: nil, want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, PrefixEnd(tc.prefix))
		})
	}
}
