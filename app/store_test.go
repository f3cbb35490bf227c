package app

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

type genesisRecorder struct {
	opts splitnet.Options
}

func (g *genesisRecorder) FromGenesis(opts splitnet.Options, db splitnet.KVStore) error {
	g.opts = opts
	return db.Set([]byte("units:1"), []byte(`{"name":"first"}`))
}

func TestStoreAppGenesis(t *testing.T) {
	cases := map[string]struct {
		chainID  string
		appState string
		wantErr  *errors.Error
	}{
		"valid genesis": {
			chainID:  "split-test",
			appState: `{"splitter": []}`,
		},
		"missing app state": {
			chainID: "split-test",
			wantErr: errors.ErrState,
		},
		"app state is not an object": {
			chainID:  "split-test",
			appState: `[1, 2]`,
			wantErr:  errors.ErrInput,
		},
		"invalid chain id": {
			chainID:  "a",
			appState: `{}`,
			wantErr:  errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			g := &genesisRecorder{}
			s := NewStoreApp("splitnet", splittest.NewCommitStore(t), splitnet.NewQueryRouter(), context.Background()).WithInit(g)

			err := s.initChain(tc.chainID, []byte(tc.appState))
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				assert.Empty(t, s.GetChainID())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.chainID, s.GetChainID())
			assert.Contains(t, g.opts, "splitter")

			err = s.initChain("split-other", []byte(`{}`))
			assert.True(t, errors.ErrState.Is(err), "second genesis must fail, got %+v", err)
		})
	}
}

func TestStoreAppReloadsChainID(t *testing.T) {
	db := splittest.NewCommitStore(t)
	s := NewStoreApp("splitnet", db, splitnet.NewQueryRouter(), context.Background())
	s.InitChain(abci.RequestInitChain{ChainId: "split-test", AppStateBytes: []byte(`{}`)})
	s.Commit()

	reloaded := NewStoreApp("splitnet", db, splitnet.NewQueryRouter(), context.Background())
	assert.Equal(t, "split-test", reloaded.GetChainID())
	assert.Equal(t, "split-test", splitnet.GetChainID(reloaded.BlockContext()))
	assert.Equal(t, int64(1), reloaded.Info(abci.RequestInfo{}).LastBlockHeight)
}

func TestStoreAppBlockContext(t *testing.T) {
	s := NewStoreApp("splitnet", splittest.NewCommitStore(t), splitnet.NewQueryRouter(), context.Background())
	now := time.Date(2019, 3, 1, 12, 0, 0, 0, time.UTC)
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 7, Time: now}})

	height, ok := splitnet.GetHeight(s.BlockContext())
	require.True(t, ok)
	assert.Equal(t, int64(7), height)
	blockTime, err := splitnet.BlockTime(s.BlockContext())
	require.NoError(t, err)
	assert.True(t, now.Equal(blockTime))
}

func TestStoreAppQuery(t *testing.T) {
	qr := splitnet.NewQueryRouter()
	qr.Register("/units", splitnet.QueryHandlerFunc(func(db splitnet.ReadOnlyKVStore, mod string, key []byte) ([]splitnet.Model, error) {
		if mod != "" {
			return nil, errors.Wrapf(errors.ErrInput, "modifier %q", mod)
		}
		value, err := db.Get(key)
		if err != nil || value == nil {
			return nil, err
		}
		return []splitnet.Model{splitnet.Pair(key, value)}, nil
	}))
	s := NewStoreApp("splitnet", splittest.NewCommitStore(t), qr, context.Background()).WithInit(&genesisRecorder{})
	s.InitChain(abci.RequestInitChain{ChainId: "split-test", AppStateBytes: []byte(`{}`)})

	// nothing is visible before the commit
	res := s.Query(abci.RequestQuery{Path: "/units", Data: []byte("units:1")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	found, err := UnmarshalOneResult(res.Value, &struct{}{})
	require.NoError(t, err)
	assert.False(t, found)

	s.Commit()
	res = s.Query(abci.RequestQuery{Path: "/units", Data: []byte("units:1")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var unit struct {
		Name string `json:"name"`
	}
	found, err = UnmarshalOneResult(res.Value, &unit)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", unit.Name)
	assert.Equal(t, int64(1), res.Height)

	res = s.Query(abci.RequestQuery{Path: "/units?prefix", Data: []byte("units:")})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	res = s.Query(abci.RequestQuery{Path: "/nothing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}
