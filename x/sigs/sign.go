package sigs

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/crypto"
	"github.com/iov-one/splitnet/errors"
)

// signVersion opens every signed message, so the layout below can change
// without old signatures becoming valid for new messages.
var signVersion = []byte{0, 0xCA, 0xFE, 0}

// SignedTx is a transaction carrying signatures over its sign bytes.
type SignedTx interface {
	GetSignBytes() ([]byte, error)
	GetSignatures() []*StdSignature
}

// StdSignature is one key signing a transaction at a given sequence.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
	Sequence  int64             `json:"sequence"`
}

func (s *StdSignature) Validate() error {
	switch {
	case s.Pubkey == nil:
		return errors.Wrap(errors.ErrUnauthorized, "no public key")
	case s.Signature == nil:
		return errors.Wrap(errors.ErrUnauthorized, "no signature")
	case s.Sequence < 0:
		return errors.Wrapf(ErrInvalidSequence, "sequence %d", s.Sequence)
	}
	return nil
}

// digest is what a key actually signs: the sha512 of
//
//	signVersion | len(chainID) as one byte | chainID | seq as big endian int64 | payload
//
// Binding the chain and the sequence prevents replays on another network
// and within the same one.
func digest(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrapf(ErrInvalidSequence, "sequence %d", seq)
	}
	if !splitnet.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	var buf bytes.Buffer
	buf.Write(signVersion)
	buf.WriteByte(byte(len(chainID)))
	buf.WriteString(chainID)
	if err := binary.Write(&buf, binary.BigEndian, seq); err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	buf.Write(payload)
	sum := sha512.Sum512(buf.Bytes())
	return sum[:], nil
}

// SignTx signs tx for chainID with key at sequence seq. The sequence must
// be the next nonce of the key, see NextNonce.
func SignTx(key *crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	msg, err := digest(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(msg)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: key.PublicKey(), Signature: sig, Sequence: seq}, nil
}
