package deployer

import (
	"crypto/sha256"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
	"github.com/iov-one/splitnet/x"
	"github.com/iov-one/splitnet/x/diversifier"
	"github.com/iov-one/splitnet/x/splitter"
)

// Controller deploys contracts and resolves them by address.
type Controller struct {
	codes     orm.ModelBucket
	contracts orm.ModelBucket

	units        *splitter.Controller
	diversifiers *diversifier.Controller
}

var (
	_ splitter.UnitResolver    = (*Controller)(nil)
	_ diversifier.UnitDeployer = (*Controller)(nil)
)

// NewController returns a controller deploying units that hold their funds
// in assets. Diversifiers swap through swaps.
func NewController(assets splitter.AssetController, swaps diversifier.SwapRouter, auth x.Authenticator) *Controller {
	c := &Controller{
		codes:     NewCodeBucket(),
		contracts: NewContractBucket(),
		units:     splitter.NewController(assets, auth),
	}
	c.diversifiers = diversifier.NewController(assets, swaps, c, auth)
	return c
}

// Units returns the controller of accounting units.
func (c *Controller) Units() *splitter.Controller {
	return c.units
}

// Diversifiers returns the controller of diversifiers.
func (c *Controller) Diversifiers() *diversifier.Controller {
	return c.diversifiers
}

// InstallCode registers a code image of given kind and returns its hash.
func (c *Controller) InstallCode(db splitnet.KVStore, kind string, image []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "code image")
	}
	sum := sha256.Sum256(image)
	hash := sum[:]
	switch ok, err := c.codes.Has(db, hash); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "code %X", hash)
	}
	if err := c.codes.Put(db, hash, &Code{Hash: hash, Kind: kind}); err != nil {
		return nil, errors.Wrap(err, "cannot store code")
	}
	return hash, nil
}

// Code returns the installed code with given hash.
func (c *Controller) Code(db splitnet.ReadOnlyKVStore, hash []byte) (*Code, error) {
	var code Code
	if err := c.codes.One(db, hash, &code); err != nil {
		return nil, errors.Wrapf(err, "code %X", hash)
	}
	return &code, nil
}

// Contract returns the record of the contract deployed at addr.
func (c *Controller) Contract(db splitnet.ReadOnlyKVStore, addr splitnet.Address) (*Contract, error) {
	var contract Contract
	if err := c.contracts.One(db, addr, &contract); err != nil {
		return nil, errors.Wrapf(err, "contract %s", addr)
	}
	return &contract, nil
}

// ListContracts returns all contracts created by deployer.
func (c *Controller) ListContracts(db splitnet.ReadOnlyKVStore, deployer splitnet.Address) ([]Contract, error) {
	var contracts []Contract
	if _, err := c.contracts.ByIndex(db, "deployer", deployer, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// deploy records a contract of given kind at the address derived from
// deployer and salt. The contract is not initialized.
func (c *Controller) deploy(db splitnet.KVStore, deployer splitnet.Address, codeHash, salt []byte, kind string) (splitnet.Address, error) {
	code, err := c.Code(db, codeHash)
	if err != nil {
		return nil, err
	}
	if code.Kind != kind {
		return nil, errors.Wrapf(errors.ErrInput, "code of kind %q cannot deploy a %s", code.Kind, kind)
	}
	addr := DeriveAddress(deployer, salt)
	switch ok, err := c.contracts.Has(db, addr); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "contract %s exists", addr)
	}
	contract := Contract{
		Address:  addr,
		Kind:     kind,
		CodeHash: code.Hash,
		Deployer: deployer,
		Salt:     salt,
	}
	if err := c.contracts.Put(db, addr, &contract); err != nil {
		return nil, errors.Wrap(err, "cannot store contract")
	}
	return addr, nil
}

// DeployUnit deploys and initializes an accounting unit administrated by
// args.Admin, which does not have to be the deployer.
func (c *Controller) DeployUnit(ctx splitnet.Context, db splitnet.KVStore, deployer splitnet.Address, codeHash, salt []byte, args splitter.InitArgs) (splitter.Unit, error) {
	addr, err := c.deploy(db, deployer, codeHash, salt, KindUnit)
	if err != nil {
		return nil, err
	}
	unit, err := c.units.Init(ctx, db, addr, args.Admin, args.Name, args.Shares, args.Mutable)
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// DiversifierArgs are the arguments a diversifier is initialized with.
type DiversifierArgs struct {
	// Admin of the diversifier. Unit.Admin is replaced by the diversifier
	// address.
	Admin splitnet.Address `json:"admin"`
	// SplitterCode is the code hash of the internal unit.
	SplitterCode []byte `json:"splitter_code"`
	// Salt of the internal unit, derived from the diversifier address.
	Salt   []byte            `json:"salt"`
	Active bool              `json:"active"`
	Unit   splitter.InitArgs `json:"unit"`
}

// DeployDiversifier deploys and initializes a diversifier administrated by
// args.Admin, together with its internal unit. The internal unit is
// administrated by the diversifier.
func (c *Controller) DeployDiversifier(ctx splitnet.Context, db splitnet.KVStore, deployer splitnet.Address, codeHash, salt []byte, args DiversifierArgs) (*diversifier.Diversifier, error) {
	addr, err := c.deploy(db, deployer, codeHash, salt, KindDiversifier)
	if err != nil {
		return nil, err
	}
	return c.diversifiers.Init(ctx, db, addr, args.Admin, args.SplitterCode, args.Salt, args.Active, args.Unit)
}

// DeployNetwork deploys all entries and returns their addresses by entry
// id. All addresses are derived before any unit is initialized, so entries
// can hold shares of each other in any order. External inputs come first
// in the roster of an entry, followed by its own shares.
//
// A failure leaves partial state behind. Run it on a cache wrap and
// discard it on failure.
func (c *Controller) DeployNetwork(ctx splitnet.Context, db splitnet.KVStore, deployer splitnet.Address, codes Codes, entries []NetworkEntry) (map[uint32]splitnet.Address, error) {
	if err := ValidateNetwork(entries); err != nil {
		return nil, err
	}

	addrs := make(map[uint32]splitnet.Address, len(entries))
	for _, e := range entries {
		addr, err := c.deploy(db, deployer, codes.hash(e.Kind), e.Salt, e.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "deploy entry %d", e.ID)
		}
		addrs[e.ID] = addr
	}

	for _, e := range entries {
		shares := make([]splitter.ShareEntry, 0, len(e.ExternalInputs)+len(e.Shares))
		for _, in := range e.ExternalInputs {
			addr, ok := addrs[in.ID]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownReference, "entry %d references %d", e.ID, in.ID)
			}
			shares = append(shares, splitter.ShareEntry{Shareholder: addr, Share: in.Share})
		}
		shares = append(shares, e.Shares...)
		args := splitter.InitArgs{Admin: deployer, Name: e.Name, Shares: shares, Mutable: e.Mutable}

		var err error
		switch e.Kind {
		case KindUnit:
			_, err = c.units.Init(ctx, db, addrs[e.ID], args.Admin, args.Name, args.Shares, args.Mutable)
		case KindDiversifier:
			_, err = c.diversifiers.Init(ctx, db, addrs[e.ID], deployer, codes.Unit, e.Salt, e.Active, args)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "init entry %d", e.ID)
		}
	}
	splitnet.GetLogger(ctx).Info("network deployed", "deployer", deployer, "units", len(entries))
	return addrs, nil
}

// Resolve returns the unit deployed at addr, dispatching on its kind.
func (c *Controller) Resolve(db splitnet.ReadOnlyKVStore, addr splitnet.Address) (splitter.Unit, error) {
	contract, err := c.Contract(db, addr)
	if err != nil {
		return nil, err
	}
	switch contract.Kind {
	case KindUnit:
		return c.units.Unit(addr), nil
	case KindDiversifier:
		return c.diversifiers.Diversifier(addr), nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", contract.Kind)
	}
}
