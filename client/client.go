package client

import (
	"context"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/app"
	"github.com/iov-one/splitnet/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// TransactionID is the hash tendermint indexes a transaction by.
type TransactionID = cmn.HexBytes

// Marshaller is a signed transaction ready to broadcast.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Status is what the node reports of its own progress.
type Status struct {
	Height     int64
	CatchingUp bool
}

// CommitResult describes a transaction included in a block. Only one of
// Result and Err is set, depending on the outcome of the delivery.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *splitnet.DeliverResult
	Err    error
}

// Client submits transactions to a node and reads its state. Failures
// reported by the node come back as errors of the registered kind, so
// they can be tested with Is.
type Client struct {
	conn rpcclient.Client
}

func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	st, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{Height: st.SyncInfo.LatestBlockHeight, CatchingUp: st.SyncInfo.CatchingUp}, nil
}

// SubmitTx returns once the transaction entered the mempool, before it is
// part of a block.
func (c *Client) SubmitTx(ctx context.Context, tx Marshaller) (TransactionID, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	res, err := c.conn.BroadcastTxSync(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, err
	}
	return res.Hash, nil
}

// CommitTx waits for the transaction to be part of a block. A transaction
// rejected by the mempool is an error, a failed delivery is reported in the
// result.
func (c *Client) CommitTx(ctx context.Context, tx Marshaller) (*CommitResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	res, err := c.conn.BroadcastTxCommit(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err)
	}
	if err := errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log); err != nil {
		return nil, err
	}
	out := &CommitResult{ID: res.Hash, Height: res.Height}
	d := res.DeliverTx
	if out.Err = errors.ABCIError(d.Code, d.Log); out.Err == nil {
		out.Result = &splitnet.DeliverResult{Data: d.Data, Log: d.Log, Tags: d.Tags, GasUsed: d.GasUsed}
	}
	return out, nil
}

// Query runs a query against the last committed state.
func (c *Client) Query(path string, data []byte) (*abci.ResponseQuery, error) {
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	if err := errors.ABCIError(res.Response.Code, res.Response.Log); err != nil {
		return nil, err
	}
	return &res.Response, nil
}

// QueryOne decodes the first JSON model a query returns into dest. It
// reports false when the query returns nothing.
func (c *Client) QueryOne(path string, data []byte, dest interface{}) (bool, error) {
	res, err := c.Query(path, data)
	if err != nil {
		return false, err
	}
	return app.UnmarshalOneResult(res.Value, dest)
}
