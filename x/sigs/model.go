package sigs

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/crypto"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
)

// maxSequence is the largest integer JavaScript clients can represent.
const maxSequence = 1<<53 - 1

// Account is the replay protection state of one signing key, stored under
// the key address. Sequence is the only value the next signature of the
// key is accepted for.
type Account struct {
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var err error
	if a.Pubkey == nil {
		err = errors.Append(err, errors.Field("Pubkey", errors.ErrEmpty, "required"))
	}
	if a.Sequence < 0 {
		err = errors.Append(err, errors.Field("Sequence", ErrInvalidSequence, "negative"))
	}
	return err
}

// consume accepts a signature made for seq and moves on to the next
// sequence.
func (a *Account) consume(seq int64) error {
	if seq != a.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "signed for %d, account is at %d", seq, a.Sequence)
	}
	if a.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence")
	}
	a.Sequence++
	return nil
}

// accounts is the "sigs" bucket, queried as "/auth".
type accounts struct {
	orm.ModelBucket
}

func newAccounts() accounts {
	return accounts{ModelBucket: orm.NewModelBucket("sigs", &Account{})}
}

// get returns the stored account of key, or a new one at sequence zero.
func (b accounts) get(db splitnet.ReadOnlyKVStore, key *crypto.PublicKey) (*Account, error) {
	var acc Account
	err := b.One(db, key.Address(), &acc)
	if errors.ErrNotFound.Is(err) {
		return &Account{Pubkey: key}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "account")
	}
	return &acc, nil
}

func (b accounts) save(db splitnet.KVStore, acc *Account) error {
	return b.Put(db, acc.Pubkey.Address(), acc)
}

// NextNonce is the sequence the next signature of signer must be made for.
func NextNonce(db splitnet.ReadOnlyKVStore, signer splitnet.Address) (int64, error) {
	var acc Account
	err := newAccounts().One(db, signer, &acc)
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, errors.Wrap(err, "account")
	}
	return acc.Sequence, nil
}
