package server

import (
	"github.com/iov-one/splitnet/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagAddress   = "bind"
	flagDebug     = "debug"
	flagCacheSize = "cache_size"
	flagHome      = "home"
)

// Options configure the generated application.
type Options struct {
	// Debug returns full error information with stack traces.
	Debug bool
	// CacheSize is the number of store nodes kept in memory.
	CacheSize int
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, opts Options) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI
// socket protocol until a termination signal is received.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(gen, logger)
		},
	}
	cmd.Flags().String(flagAddress, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().Bool(flagDebug, false, "call stack returned on error")
	cmd.Flags().Int(flagCacheSize, 0, "number of store nodes cached in memory, default if 0")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}

func runStart(gen AppGenerator, logger log.Logger) error {
	opts := Options{
		Debug:     viper.GetBool(flagDebug),
		CacheSize: viper.GetInt(flagCacheSize),
	}
	app, err := gen(viper.GetString(flagHome), logger, opts)
	if err != nil {
		return err
	}

	addr := viper.GetString(flagAddress)
	logger.Info("Starting ABCI app", "bind", addr)

	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start server")
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		svr.Stop()
	})
	return nil
}
