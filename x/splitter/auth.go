package splitter

import (
	"context"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/x"
)

type contextKey int

const contextKeyUnits contextKey = iota

// WithUnitAuth returns a context in which given unit is authorized. Units
// use it to act as a shareholder of another unit.
func WithUnitAuth(ctx splitnet.Context, unit splitnet.Address) splitnet.Context {
	prev := unitsFromContext(ctx)
	units := make([]splitnet.Address, len(prev), len(prev)+1)
	copy(units, prev)
	return context.WithValue(ctx, contextKeyUnits, append(units, unit))
}

func unitsFromContext(ctx splitnet.Context) []splitnet.Address {
	units, _ := ctx.Value(contextKeyUnits).([]splitnet.Address)
	return units
}

// Authenticate authorizes the units granted with WithUnitAuth. Units have no
// signing condition, so they are matched by address only.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions always returns nil.
func (Authenticate) GetConditions(splitnet.Context) []splitnet.Condition {
	return nil
}

// HasAddress returns true if the unit was granted in this context.
func (Authenticate) HasAddress(ctx splitnet.Context, addr splitnet.Address) bool {
	for _, u := range unitsFromContext(ctx) {
		if u.Equals(addr) {
			return true
		}
	}
	return false
}
