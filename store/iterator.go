package store

import (
	"bytes"

	"github.com/iov-one/splitnet/errors"
)

// mergedIterator walks a parent iterator and the cache entries above it in
// one key order. A cache entry replaces the parent entry of the same key.
// Deleted entries are skipped together with the key they hide.
type mergedIterator struct {
	parent     Iterator
	parentDone bool
	// buffered parent entry
	key, value []byte
	buffered   bool

	cache      []entry
	descending bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(parent Iterator, cache []entry, ascending bool) *mergedIterator {
	return &mergedIterator{parent: parent, cache: cache, descending: !ascending}
}

func (m *mergedIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.fill(); err != nil {
			return nil, nil, err
		}
		if len(m.cache) == 0 {
			if !m.buffered {
				return nil, nil, errors.ErrIteratorDone
			}
			return m.takeParent()
		}

		e := m.cache[0]
		if m.buffered {
			switch c := m.compare(m.key, e.key); {
			case c < 0:
				return m.takeParent()
			case c == 0:
				m.buffered = false
			}
		}
		m.cache = m.cache[1:]
		if !e.deleted {
			return e.key, e.value, nil
		}
	}
}

// fill buffers the next parent entry unless one is waiting already.
func (m *mergedIterator) fill() error {
	if m.buffered || m.parentDone {
		return nil
	}
	k, v, err := m.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		m.parentDone = true
	case err != nil:
		return err
	default:
		m.key, m.value, m.buffered = k, v, true
	}
	return nil
}

func (m *mergedIterator) takeParent() ([]byte, []byte, error) {
	m.buffered = false
	return m.key, m.value, nil
}

// compare orders keys in the iteration direction.
func (m *mergedIterator) compare(a, b []byte) int {
	if m.descending {
		return bytes.Compare(b, a)
	}
	return bytes.Compare(a, b)
}

func (m *mergedIterator) Release() {
	m.parent.Release()
	m.cache = nil
}
