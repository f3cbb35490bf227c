package splitnet

import (
	"reflect"

	"github.com/iov-one/splitnet/errors"
)

// Msg is the state transition a transaction requests. Authentication
// belongs to the Tx that carries it.
type Msg interface {
	// Path routes the message to its handler. It is made of letters,
	// digits, underscores and slashes, for example "splitter/distribute".
	Path() string

	// Validate checks the message on its own, without looking at the
	// state.
	Validate() error
}

// TargetMsg is a message acting on a single deployed contract, an
// accounting unit or a diversifier.
type TargetMsg interface {
	Msg
	Target() Address
}

// Tx is a signed envelope around a Msg.
type Tx interface {
	GetMsg() (Msg, error)
}

// GetPath is the route of the message of tx, for logging.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses the raw bytes of a transaction.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg copies the message of tx into dest, a pointer to the expected
// message type, and validates it.
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "load message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "transaction has no message")
	}

	out := reflect.ValueOf(dest)
	if out.Kind() != reflect.Ptr || out.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "cannot load a message into %T", dest)
	}
	in := reflect.Indirect(reflect.ValueOf(msg))
	if !in.Type().AssignableTo(out.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", dest, msg)
	}
	out.Elem().Set(in)
	return errors.Wrap(msg.Validate(), "invalid message")
}
