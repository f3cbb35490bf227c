package deployer

import (
	"context"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

// Initializer installs code images and deploys the networks listed in the
// "deployer" genesis section. Network deployments are not authorized.
type Initializer struct {
	Ctrl *Controller
}

var _ splitnet.Initializer = (*Initializer)(nil)

func (i *Initializer) FromGenesis(opts splitnet.Options, kv splitnet.KVStore) error {
	var genesis struct {
		Codes []struct {
			Kind  string `json:"kind"`
			Image []byte `json:"image"`
		} `json:"codes"`
		Networks []DeployNetworkMsg `json:"networks"`
	}
	if err := opts.ReadOptions("deployer", &genesis); err != nil {
		return err
	}
	for n, c := range genesis.Codes {
		if _, err := i.Ctrl.InstallCode(kv, c.Kind, c.Image); err != nil {
			return errors.Wrapf(err, "code #%d", n)
		}
	}
	ctx := context.Background()
	for n, net := range genesis.Networks {
		if err := net.Validate(); err != nil {
			return errors.Wrapf(err, "network #%d", n)
		}
		if _, err := i.Ctrl.DeployNetwork(ctx, kv, net.Deployer, net.Codes(), net.Entries); err != nil {
			return errors.Wrapf(err, "network #%d", n)
		}
	}
	return nil
}
