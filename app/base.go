package app

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through the handler stack on top of the state
// kept by StoreApp.
type BaseApp struct {
	*StoreApp
	decoder splitnet.TxDecoder
	handler splitnet.Handler
	// debug adds stack traces to the log of failed transactions.
	debug bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder splitnet.TxDecoder, handler splitnet.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// CheckTx validates a mempool transaction against the check state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	res, err := b.check(raw)
	if err != nil {
		code, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}
	return abci.ResponseCheckTx{Data: res.Data, Log: res.Log, GasWanted: res.GasAllocated}
}

// DeliverTx executes a block transaction against the deliver state.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	res, err := b.deliver(raw)
	if err != nil {
		code, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}
	return abci.ResponseDeliverTx{Data: res.Data, Log: res.Log, Tags: res.Tags, GasUsed: res.GasUsed}
}

func (b BaseApp) check(raw []byte) (*splitnet.CheckResult, error) {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return nil, err
	}
	return b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
}

func (b BaseApp) deliver(raw []byte) (*splitnet.DeliverResult, error) {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return nil, err
	}
	return b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
}

func (b BaseApp) txContext(call string, tx splitnet.Tx) splitnet.Context {
	return splitnet.WithLogInfo(b.BlockContext(), "call", call, "path", splitnet.GetPath(tx))
}

// decodeTx turns a decoder panic on malformed bytes into an error.
func (b BaseApp) decodeTx(raw []byte) (tx splitnet.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
