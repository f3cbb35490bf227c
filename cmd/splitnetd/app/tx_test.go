package splitnetd

import (
	"context"
	"testing"

	"github.com/iov-one/splitnet/crypto"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/store"
	"github.com/iov-one/splitnet/x/sigs"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxEncoding(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	msg := &splitter.DistributeMsg{
		Unit:   splittest.NewCondition().Address(),
		Asset:  splittest.NewCondition().Address(),
		Amount: 1234,
	}
	tx := &Tx{Msg: msg}
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(key, tx, "test-chain", 3)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	// signatures are not part of the signed bytes
	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signed)

	bz, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := TxDecoder(bz)
	require.NoError(t, err)

	got, err := decoded.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, msg, got)
	assert.Equal(t, "splitter/distribute", got.Path())

	sigsOf := decoded.(*Tx).GetSignatures()
	require.Len(t, sigsOf, 1)
	assert.Equal(t, int64(3), sigsOf[0].Sequence)
	assert.Equal(t, key.PublicKey(), sigsOf[0].Pubkey)
}

func TestTxDecoderErrors(t *testing.T) {
	_, err := TxDecoder([]byte("definitely not a transaction"))
	assert.True(t, errors.ErrInput.Is(err))

	_, err = (&Tx{}).GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))
}

func TestAllMessagesRegistered(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Messages() {
		assert.False(t, seen[m.Path()], "duplicated %s", m.Path())
		seen[m.Path()] = true

		bz, err := (&Tx{Msg: m}).Marshal()
		require.NoError(t, err, m.Path())
		tx, err := TxDecoder(bz)
		require.NoError(t, err, m.Path())
		got, err := tx.GetMsg()
		require.NoError(t, err)
		assert.Equal(t, m.Path(), got.Path())
	}

	// every message must be served by the router
	r := Router(Authenticator(), NewControllers(Authenticator()))
	for _, m := range Messages() {
		_, err := r.Check(context.Background(), store.MemStore(), &splittest.Tx{Msg: m})
		if err != nil {
			assert.NotContains(t, err.Error(), "no handler for path", m.Path())
		}
	}
}
