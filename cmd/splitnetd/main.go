package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/splitnet"
	splitnetd "github.com/iov-one/splitnet/cmd/splitnetd/app"
	"github.com/iov-one/splitnet/commands"
	"github.com/iov-one/splitnet/commands/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagLogLevel = "log_level"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logger log.Logger = log.NewNopLogger()

	root := &cobra.Command{
		Use:   "splitnetd",
		Short: "Revenue splitting network node",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := server.LoadConfig(viper.GetString(flagHome)); err != nil {
				return err
			}
			l, err := newLogger(viper.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".splitnet")
	root.PersistentFlags().String(flagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, "info", "minimal level of logged messages")
	if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("SPLITNET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	examples, err := splitnetd.Examples()
	if err != nil {
		panic(err)
	}

	lazy := lazyLogger{get: func() log.Logger { return logger }}
	auth := splitnetd.Authenticator()
	root.AddCommand(
		server.InitCmd(splitnetd.GenInitOptions, lazy),
		server.StartCmd(splitnetd.GenerateApp, lazy),
		server.ValidateCmd(splitnetd.Initializers(splitnetd.NewControllers(auth))),
		commands.TestGenCmd(splitnetd.Codec(), examples),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(splitnet.Version())
			},
		},
	)
	return root
}

func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "splitnet")
	return log.NewFilter(logger, opt), nil
}

// lazyLogger forwards to the logger configured once flags are parsed.
type lazyLogger struct {
	get func() log.Logger
}

func (l lazyLogger) Debug(msg string, keyvals ...interface{}) { l.get().Debug(msg, keyvals...) }
func (l lazyLogger) Info(msg string, keyvals ...interface{})  { l.get().Info(msg, keyvals...) }
func (l lazyLogger) Error(msg string, keyvals ...interface{}) { l.get().Error(msg, keyvals...) }
func (l lazyLogger) With(keyvals ...interface{}) log.Logger    { return l.get().With(keyvals...) }
