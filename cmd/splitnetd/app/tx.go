package splitnetd

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x/amm"
	"github.com/iov-one/splitnet/x/deployer"
	"github.com/iov-one/splitnet/x/diversifier"
	"github.com/iov-one/splitnet/x/sigs"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/iov-one/splitnet/x/token"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// Messages returns an instance of every message type the application
// routes.
func Messages() []splitnet.Msg {
	return []splitnet.Msg{
		&token.CreateTokenMsg{},
		&token.IssueMsg{},
		&token.SendMsg{},
		&amm.CreatePoolMsg{},
		&splitter.UpdateWhitelistedTokensMsg{},
		&splitter.TransferTokensMsg{},
		&splitter.DistributeMsg{},
		&splitter.UpdateSharesMsg{},
		&splitter.UpdateNameMsg{},
		&splitter.LockMsg{},
		&splitter.WithdrawAllocationMsg{},
		&splitter.WithdrawExternalAllocationMsg{},
		&diversifier.UpdateWhitelistedSwapTokensMsg{},
		&diversifier.SwapAndDistributeMsg{},
		&diversifier.ToggleMsg{},
		&deployer.InstallCodeMsg{},
		&deployer.DeployUnitMsg{},
		&deployer.DeployDiversifierMsg{},
		&deployer.DeployNetworkMsg{},
		&sigs.BumpSequenceMsg{},
	}
}

// RegisterCodec registers the message interface and all messages. Each
// message is registered under its route path.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterInterface((*splitnet.Msg)(nil), nil)
	for _, m := range Messages() {
		cdc.RegisterConcrete(m, m.Path(), nil)
	}
}

// Tx is the transaction format of the application. It carries a single
// message signed by any number of signers.
type Tx struct {
	Msg        splitnet.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ splitnet.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (splitnet.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// Marshal serializes the transaction with amino binary encoding.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// Unmarshal loads the transaction from its amino binary encoding.
func (tx *Tx) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (splitnet.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of the
// signed data.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}
