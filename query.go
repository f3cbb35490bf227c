package splitnet

import "fmt"

// Model is one key and value pair of a query result.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers the queries of one path. mod is the part of the
// path after "?", data the request payload.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

type QueryHandlerFunc func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)

func (fn QueryHandlerFunc) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	return fn(db, mod, data)
}

// QueryRegister adds the queries of an extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to handlers.
type QueryRouter map[string]QueryHandler

func NewQueryRouter() QueryRouter {
	return make(QueryRouter)
}

func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register binds h to path. Queries are wired at start up, so a path
// registered twice panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r[path]; taken {
		panic(fmt.Sprintf("query path %q is registered twice", path))
	}
	r[path] = h
}

// Handler is nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r[path]
}
