package splitnet

import (
	"encoding/json"

	"github.com/iov-one/splitnet/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Handler processes the messages of one route, for example a split
// distribution or a unit deployment. Check runs in the mempool and may
// stop short of writing, Deliver runs in a block and applies the message.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the next handler of a stack. It serves the
// concerns every message shares: signatures, logging, panics, savepoints.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to routes. The route is taken from the message,
// so a handler can only be registered for a message type it knows.
type Registry interface {
	Handle(Msg, Handler)
}

// CheckResult is the outcome of a successful Check. Failures are errors.
type CheckResult struct {
	// Data is returned to the client as is, for example an ID.
	Data []byte
	Log  string
	// GasAllocated is the most work the transaction may take.
	GasAllocated int64
}

// DeliverResult is the outcome of a successful Deliver. Failures are errors.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags index the transaction by the action and target it has.
	Tags    []common.KVPair
	GasUsed int64
}

// Options is the app_state of the genesis file, one entry per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the entry under key into obj. A missing entry leaves
// obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s options: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// Initializers run in order and stop at the first failure.
type Initializers []Initializer

func ChainInitializers(inits ...Initializer) Initializers {
	return Initializers(inits)
}

func (all Initializers) FromGenesis(opts Options, db KVStore) error {
	for _, init := range all {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
