package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/splitnet/errors"
)

// MultiRef holds the primary keys filed under one value of a compact
// index, in ascending order and without repetition.
type MultiRef struct {
	Refs [][]byte
}

// search is the position of ref, or where it belongs when missing.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(n int) bool {
		return bytes.Compare(m.Refs[n], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

func (m *MultiRef) Add(ref []byte) error {
	i, ok := m.search(ref)
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "reference %X", ref)
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

func (m *MultiRef) Remove(ref []byte) error {
	i, ok := m.search(ref)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "reference %X", ref)
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// Validate rejects an empty set, the index drops its entry instead.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "references")
	}
	return nil
}
