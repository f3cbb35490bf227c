package client

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/app"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// fakeConn answers the calls used by Client. Any other method panics on
// the nil embedded interface.
type fakeConn struct {
	rpcclient.Client

	err     error
	status  *ctypes.ResultStatus
	sync    *ctypes.ResultBroadcastTx
	commit  *ctypes.ResultBroadcastTxCommit
	queries map[string][]byte
	sent    [][]byte
}

func (f *fakeConn) Status() (*ctypes.ResultStatus, error) {
	return f.status, f.err
}

func (f *fakeConn) BroadcastTxSync(tx tmtypes.Tx) (*ctypes.ResultBroadcastTx, error) {
	f.sent = append(f.sent, tx)
	return f.sync, f.err
}

func (f *fakeConn) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	f.sent = append(f.sent, tx)
	return f.commit, f.err
}

func (f *fakeConn) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	if f.err != nil {
		return nil, f.err
	}
	value, ok := f.queries[path+":"+string(data)]
	if !ok {
		return &ctypes.ResultABCIQuery{Response: abci.ResponseQuery{Code: errors.ErrNotFound.ABCICode(), Log: "unknown path"}}, nil
	}
	return &ctypes.ResultABCIQuery{Response: abci.ResponseQuery{Value: value}}, nil
}

type rawTx []byte

func (r rawTx) Marshal() ([]byte, error) { return r, nil }

func resultSet(t testing.TB, objs ...interface{}) []byte {
	t.Helper()
	var set app.ResultSet
	for _, o := range objs {
		raw, err := json.Marshal(o)
		require.NoError(t, err)
		set.Results = append(set.Results, raw)
	}
	bz, err := set.Marshal()
	require.NoError(t, err)
	return bz
}

func TestStatus(t *testing.T) {
	conn := &fakeConn{status: &ctypes.ResultStatus{SyncInfo: ctypes.SyncInfo{LatestBlockHeight: 42, CatchingUp: true}}}
	st, err := NewClient(conn).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), st.Height)
	assert.True(t, st.CatchingUp)

	conn.err = fmt.Errorf("connection refused")
	_, err = NewClient(conn).Status(context.Background())
	assert.True(t, errors.ErrNetwork.Is(err))
}

func TestSubmitTx(t *testing.T) {
	cases := map[string]struct {
		res     *ctypes.ResultBroadcastTx
		connErr error
		wantErr *errors.Error
	}{
		"accepted": {
			res: &ctypes.ResultBroadcastTx{Hash: cmn.HexBytes("txhash")},
		},
		"rejected by check": {
			res:     &ctypes.ResultBroadcastTx{Code: errors.ErrUnauthorized.ABCICode(), Log: "missing signature"},
			wantErr: errors.ErrUnauthorized,
		},
		"domain error code": {
			res:     &ctypes.ResultBroadcastTx{Code: splitter.ErrInsufficientBalance.ABCICode(), Log: "balance"},
			wantErr: splitter.ErrInsufficientBalance,
		},
		"network failure": {
			connErr: fmt.Errorf("eof"),
			wantErr: errors.ErrNetwork,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			conn := &fakeConn{sync: tc.res, err: tc.connErr}
			id, err := NewClient(conn).SubmitTx(context.Background(), rawTx("payload"))
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TransactionID("txhash"), id)
			require.Len(t, conn.sent, 1)
			assert.Equal(t, []byte("payload"), []byte(conn.sent[0]))
		})
	}
}

func TestCommitTx(t *testing.T) {
	tags := []cmn.KVPair{{Key: []byte("action"), Value: []byte("splitter/distribute")}}
	conn := &fakeConn{commit: &ctypes.ResultBroadcastTxCommit{
		Hash:      cmn.HexBytes("abc"),
		Height:    7,
		DeliverTx: abci.ResponseDeliverTx{Data: []byte("ok"), Tags: tags, GasUsed: 3},
	}}
	res, err := NewClient(conn).CommitTx(context.Background(), rawTx("tx"))
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, int64(7), res.Height)
	assert.Equal(t, []byte("ok"), res.Result.Data)
	assert.Equal(t, tags, res.Result.Tags)

	// delivery failure is reported in the result, not as a call error
	conn.commit.DeliverTx = abci.ResponseDeliverTx{Code: splitter.ErrInsufficientBalance.ABCICode(), Log: "not enough"}
	res, err = NewClient(conn).CommitTx(context.Background(), rawTx("tx"))
	require.NoError(t, err)
	assert.Nil(t, res.Result)
	assert.True(t, splitter.ErrInsufficientBalance.Is(res.Err))

	conn.commit.CheckTx = abci.ResponseCheckTx{Code: errors.ErrInput.ABCICode()}
	_, err = NewClient(conn).CommitTx(context.Background(), rawTx("tx"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestQueries(t *testing.T) {
	unit := splitnet.NewAddress([]byte("unit"))
	bob := splitnet.NewAddress([]byte("bob"))
	asset := splitnet.NewAddress([]byte("asset"))

	conn := &fakeConn{queries: map[string][]byte{
		"/splitter/config:" + string(unit):                       resultSet(t, splitter.Config{Admin: bob, Mutable: true}),
		"/splitter/allocation:" + string(join(unit, bob, asset)): resultSet(t, splitter.Allocation{Amount: 300}),
		"/token/balance:" + string(join(asset, bob)):             resultSet(t),
		"/deployer/contract:" + string(asset):                    resultSet(t),
	}}
	c := NewClient(conn)

	conf, err := c.UnitConfig(unit)
	require.NoError(t, err)
	assert.Equal(t, bob, conf.Admin)
	assert.True(t, conf.Mutable)

	amount, err := c.Allocation(unit, bob, asset)
	require.NoError(t, err)
	assert.Equal(t, int64(300), amount)

	balance, err := c.Balance(asset, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	_, err = c.Contract(asset)
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = c.UnitConfig(bob)
	assert.True(t, errors.ErrNotFound.Is(err))

	conn.err = fmt.Errorf("timeout")
	_, err = c.Query("/splitter/config", unit)
	assert.True(t, errors.ErrNetwork.Is(err))
}
