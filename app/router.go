package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

var validPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router dispatches a transaction to the handler registered for the path
// of its message.
type Router struct {
	routes map[string]splitnet.Handler
}

var (
	_ splitnet.Registry = (*Router)(nil)
	_ splitnet.Handler  = (*Router)(nil)
)

func NewRouter() *Router {
	return &Router{routes: make(map[string]splitnet.Handler)}
}

// Handle registers h for the path of msg. Routes are wired at start up, so
// a malformed or duplicated path panics.
func (r *Router) Handle(msg splitnet.Msg, h splitnet.Handler) {
	path := msg.Path()
	switch _, taken := r.routes[path]; {
	case !validPath(path):
		panic(fmt.Sprintf("invalid route %q", path))
	case taken:
		panic(fmt.Sprintf("route %q is registered twice", path))
	}
	r.routes[path] = h
}

func (r *Router) route(tx splitnet.Tx) (splitnet.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	h, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", msg.Path())
	}
	return h, nil
}

func (r *Router) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

func (r *Router) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}
