/*
Package sigs verifies the ed25519 signatures of a transaction and keeps a
sequence per signing key, so a signed transaction is accepted once and on
one chain only.
*/
package sigs

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// verifyGas is charged on CheckTx for each valid signature.
const verifyGas = 500

// RegisterQuery exposes the signer accounts under "/auth".
func RegisterQuery(qr splitnet.QueryRouter) {
	newAccounts().Register("auth", qr)
}

// Decorator authenticates the signers of a transaction for every handler
// below it. See Authenticate.
type Decorator struct {
	optional bool
	accounts accounts
}

var _ splitnet.Decorator = Decorator{}

// NewDecorator requires at least one signature.
func NewDecorator() Decorator {
	return Decorator{accounts: newAccounts()}
}

// AllowMissingSigs lets unsigned transactions through with no signers.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Checker) (*splitnet.CheckResult, error) {
	signers, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(withSigners(ctx, signers), db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(len(signers)) * verifyGas
	return res, nil
}

func (d Decorator) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Deliverer) (*splitnet.DeliverResult, error) {
	signers, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(withSigners(ctx, signers), db, tx)
}

// signers verifies every signature of tx and advances the sequence of each
// signing key.
func (d Decorator) signers(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) ([]splitnet.Condition, error) {
	var sigs []*StdSignature
	var payload []byte
	if stx, ok := tx.(SignedTx); ok {
		raw, err := stx.GetSignBytes()
		if err != nil {
			return nil, errors.Wrap(err, "sign bytes")
		}
		payload, sigs = raw, stx.GetSignatures()
	}
	if len(sigs) == 0 {
		if d.optional {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrUnauthorized, "transaction is not signed")
	}

	chainID := splitnet.GetChainID(ctx)
	signers := make([]splitnet.Condition, len(sigs))
	for i, sig := range sigs {
		cond, err := d.verify(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers[i] = cond
	}
	return signers, nil
}

func (d Decorator) verify(db splitnet.KVStore, sig *StdSignature, payload []byte, chainID string) (splitnet.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	msg, err := digest(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(msg, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature does not match")
	}
	acc, err := d.accounts.get(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if err := acc.consume(sig.Sequence); err != nil {
		return nil, err
	}
	if err := d.accounts.save(db, acc); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return sig.Pubkey.Condition(), nil
}
