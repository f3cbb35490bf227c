package server

import (
	"encoding/json"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/store"
	"github.com/spf13/cobra"
)

// ValidateCmd runs the genesis of every given file against a scratch
// store, so a broken app_state is found before a node is started with it.
func ValidateCmd(ini splitnet.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Check that genesis files can be loaded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis stops at the first file that fails.
func ValidateGenesis(ini splitnet.Initializer, paths []string) error {
	for _, path := range paths {
		if !fileExists(path) {
			return errors.Wrapf(errors.ErrInput, "no genesis file at %s", path)
		}
		doc, err := loadGenesis(path)
		if err != nil {
			return err
		}
		var opts splitnet.Options
		if raw := doc["app_state"]; len(raw) != 0 {
			if err := json.Unmarshal(raw, &opts); err != nil {
				return errors.Wrapf(errors.ErrInput, "app_state of %s: %s", path, err)
			}
		}
		if err := ini.FromGenesis(opts, store.MemStore()); err != nil {
			return errors.Wrapf(err, "genesis %s", path)
		}
	}
	return nil
}
