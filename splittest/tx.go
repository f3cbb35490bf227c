package splittest

import "github.com/iov-one/splitnet"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg splitnet.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ splitnet.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (splitnet.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message that carries no data.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ splitnet.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
