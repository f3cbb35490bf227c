/*
Package splitnetd links together all the various components
to construct the splitnetd application.
*/
package splitnetd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/app"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/store/iavl"
	"github.com/iov-one/splitnet/x"
	"github.com/iov-one/splitnet/x/amm"
	"github.com/iov-one/splitnet/x/deployer"
	"github.com/iov-one/splitnet/x/diversifier"
	"github.com/iov-one/splitnet/x/sigs"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/iov-one/splitnet/x/token"
	"github.com/iov-one/splitnet/x/utils"
)

// Authenticator returns the authentication of transaction signers. Units
// authorize themselves inside of their controllers.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Controllers groups all domain controllers of the application.
type Controllers struct {
	Tokens   *token.Controller
	Swaps    *amm.Controller
	Deployer *deployer.Controller
}

// NewControllers builds the controllers sharing one authenticator.
func NewControllers(auth x.Authenticator) Controllers {
	tokens := token.NewController()
	swaps := amm.NewController(tokens)
	return Controllers{
		Tokens:   tokens,
		Swaps:    swaps,
		Deployer: deployer.NewController(tokens, swaps, auth),
	}
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failed message leaves no partial state but
		// the signature sequence is still incremented
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to all message handlers.
func Router(auth x.Authenticator, ctrls Controllers) *app.Router {
	r := app.NewRouter()
	token.RegisterRoutes(r, auth, ctrls.Tokens)
	amm.RegisterRoutes(r, auth, ctrls.Swaps)
	// units and diversifier wrapped units are resolved by the deployer
	splitter.RegisterRoutes(r, ctrls.Deployer)
	diversifier.RegisterRoutes(r, ctrls.Deployer.Diversifiers())
	deployer.RegisterRoutes(r, auth, ctrls.Deployer)
	sigs.RegisterRoutes(r, auth)
	return r
}

// QueryRouter returns a query router with all buckets registered.
func QueryRouter(ctrls Controllers) splitnet.QueryRouter {
	r := splitnet.NewQueryRouter()
	token.RegisterQuery(r, ctrls.Tokens)
	amm.RegisterQuery(r, ctrls.Swaps)
	splitter.RegisterQuery(r, ctrls.Deployer)
	diversifier.RegisterQuery(r, ctrls.Deployer.Diversifiers())
	deployer.RegisterQuery(r, ctrls.Deployer)
	r.RegisterAll(sigs.RegisterQuery)
	return r
}

// Initializers returns genesis initializers in loading order. Tokens are
// created before pools and networks use them.
func Initializers(ctrls Controllers) splitnet.Initializer {
	return splitnet.ChainInitializers(
		&token.Initializer{Ctrl: ctrls.Tokens},
		&amm.Initializer{Ctrl: ctrls.Swaps},
		&deployer.Initializer{Ctrl: ctrls.Deployer},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(auth x.Authenticator, ctrls Controllers) splitnet.Handler {
	return Chain().WithHandler(Router(auth, ctrls))
}

// Application constructs the ABCI application over a store persisted
// under dbPath. An empty path keeps all data in memory.
func Application(name string, dbPath string, cacheSize int, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath, cacheSize)
	if err != nil {
		return app.BaseApp{}, err
	}

	auth := Authenticator()
	ctrls := NewControllers(auth)
	store := app.NewStoreApp(name, kv, QueryRouter(ctrls), context.Background())
	store.WithInit(Initializers(ctrls))
	return app.NewBaseApp(store, TxDecoder, Stack(auth, ctrls), debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string, cacheSize int) (splitnet.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	if cacheSize <= 0 {
		return iavl.NewCommitStore(dir, name), nil
	}
	return iavl.NewCommitStoreWithCache(dir, name, cacheSize), nil
}
