package server

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/iov-one/splitnet/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions builds the app_state of a new chain from the init arguments.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc is the tendermint genesis file. Only chain_id and app_state
// are of interest here, every other entry is kept as it is.
type GenesisDoc map[string]json.RawMessage

// InitCmd writes the app_state into the genesis file of the home
// directory, and creates the file with a random chain ID when there is
// none. Validator keys come from `tendermint init`.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init [args...]",
		Short: "Write the initial app_state into the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(gen, logger, viper.GetString(flagHome), args)
		},
	}
}

func runInit(gen GenOptions, logger log.Logger, home string, args []string) error {
	path := filepath.Join(home, "config", "genesis.json")
	doc, err := loadGenesis(path)
	if err != nil {
		return err
	}
	logger.Info("genesis file", "path", path, "chain_id", string(doc["chain_id"]))

	switch cfg, created, err := createConfig(home); {
	case err != nil:
		return err
	case created:
		logger.Info("config file created", "path", cfg)
	}

	if doc["app_state"], err = gen(args); err != nil {
		return err
	}
	return writeJSON(path, doc)
}

// loadGenesis reads the genesis file at path, or starts a new one.
func loadGenesis(path string) (GenesisDoc, error) {
	if !fileExists(path) {
		return GenesisDoc{
			"genesis_time": mustJSON(time.Now().UTC()),
			"chain_id":     mustJSON(fmt.Sprintf("split-chain-%s", cmn.RandStr(6))),
		}, nil
	}
	raw, err := cmn.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read %s: %s", path, err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis %s: %s", path, err)
	}
	return doc, nil
}

func mustJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func writeJSON(path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "encode %s: %s", path, err)
	}
	return writeFile(path, raw)
}

func writeFile(path string, content []byte) error {
	if err := cmn.EnsureDir(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s", err)
	}
	if err := cmn.WriteFile(path, content, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s", err)
	}
	return nil
}

func fileExists(path string) bool {
	return cmn.FileExists(path)
}
