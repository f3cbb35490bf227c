package app

import (
	"reflect"

	"github.com/iov-one/splitnet"
)

// Decorators is an ordered stack of decorators waiting for the handler
// they wrap. The first decorator sees a transaction first:
//
//	app.ChainDecorators(
//		utils.NewRecovery(),
//		utils.NewLogging(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	stack []splitnet.Decorator
}

func ChainDecorators(ds ...splitnet.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a copy of the stack with ds appended. Unset decorators,
// nil or typed nil pointers, are skipped so optional ones can be passed
// inline.
func (d Decorators) Chain(ds ...splitnet.Decorator) Decorators {
	stack := append([]splitnet.Decorator(nil), d.stack...)
	for _, dec := range ds {
		if !unset(dec) {
			stack = append(stack, dec)
		}
	}
	return Decorators{stack: stack}
}

func unset(d splitnet.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h splitnet.Handler) splitnet.Handler {
	for i := len(d.stack) - 1; i >= 0; i-- {
		h = decorated{dec: d.stack[i], next: h}
	}
	return h
}

type decorated struct {
	dec  splitnet.Decorator
	next splitnet.Handler
}

func (d decorated) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
