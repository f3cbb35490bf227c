package orm

import (
	"bytes"

	"github.com/iov-one/splitnet/errors"
)

// counter is a model used only by the tests.
type counter struct {
	Owner []byte
	Count int64
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func counterByOwner(m Model) ([]byte, error) {
	c, ok := m.(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	if len(c.Owner) == 0 {
		return nil, nil
	}
	return c.Owner, nil
}

func refsEqual(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
