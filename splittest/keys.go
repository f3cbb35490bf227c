package splittest

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/crypto"
)

// NewKey returns a freshly generated private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() splitnet.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceCondition returns a condition that is unique for given
// sequence number and stable across calls.
func SequenceCondition(seq uint64) splitnet.Condition {
	data := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		data[i] = byte(seq)
		seq >>= 8
	}
	return splitnet.NewCondition("test", "seq", data)
}
