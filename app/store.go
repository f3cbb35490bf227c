package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp answers the ABCI calls that do not process transactions: the
// handshake, genesis, block boundaries, commit and queries. None of those
// calls can report a failure to tendermint, so a broken store panics.
type StoreApp struct {
	name    string
	state   *CommitStore
	queries splitnet.QueryRouter
	genesis splitnet.Initializer
	logger  log.Logger
	chainID string

	// base holds what is valid for the lifetime of the node, block adds
	// the height and time of the block being processed.
	base  splitnet.Context
	block splitnet.Context
}

// NewStoreApp loads the latest state of db. Once genesis ran, the chain ID
// is read back from the state.
func NewStoreApp(name string, db splitnet.CommitKVStore, queries splitnet.QueryRouter, ctx splitnet.Context) *StoreApp {
	s := &StoreApp{
		name:    name,
		state:   NewCommitStore(db),
		queries: queries,
		logger:  log.NewNopLogger(),
	}
	s.base = splitnet.WithLogger(ctx, s.logger)

	chainID, err := loadChainID(s.state.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.useChainID(chainID)
	}
	info, err := s.state.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.block = splitnet.WithHeight(s.base, info.Version)
	return s
}

// WithInit sets the genesis loader run by InitChain.
func (s *StoreApp) WithInit(init splitnet.Initializer) *StoreApp {
	s.genesis = init
	return s
}

// WithLogger sets the logger of the app and of every handler context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.base = splitnet.WithLogger(s.base, logger)
	s.block = splitnet.WithLogger(s.block, logger)
	return s
}

func (s *StoreApp) useChainID(id string) {
	s.chainID = id
	s.base = splitnet.WithChainID(s.base, id)
	if s.block != nil {
		s.block = splitnet.WithChainID(s.block, id)
	}
}

// GetChainID is empty until genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext is the context transactions of the current block run with.
func (s *StoreApp) BlockContext() splitnet.Context {
	return s.block
}

func (s *StoreApp) DeliverStore() splitnet.CacheableKVStore {
	return s.state.DeliverStore()
}

func (s *StoreApp) CheckStore() splitnet.CacheableKVStore {
	return s.state.CheckStore()
}

// Info reports the last committed block, so tendermint knows which blocks
// to replay on start.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.state.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("state loaded", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          splitnet.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// InitChain records the chain ID and loads the genesis app_state. It runs
// once in the life of a chain.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.initChain(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) initChain(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q is initialized", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrState, "genesis has no app_state, run init first")
	}
	var opts splitnet.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}
	db := s.state.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.useChainID(chainID)
	if s.genesis == nil {
		return nil
	}
	return s.genesis.FromGenesis(opts, db)
}

// BeginBlock starts a block context with the header height and time.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := splitnet.WithHeight(s.base, req.Header.GetHeight())
	s.block = splitnet.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock leaves the validator set alone.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.state.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("committed", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query runs against the last commit, the requested height is ignored.
// The path names a registered query, "/<bucket>" or "/<bucket>/<index>",
// optionally followed by "?prefix" for a prefix scan. Key and Value of the
// response are ResultSets of the same length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	q := s.queries.Handler(path)
	if q == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	info, err := s.state.CommitInfo()
	if err != nil {
		return queryError(err)
	}

	db := s.state.committed.CacheWrap()
	defer db.Discard()
	models, err := q.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, values := splitModels(models)
	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = keys.Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = values.Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
