package deployer

import (
	"crypto/sha256"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
	"github.com/iov-one/splitnet/x/splitter"
)

// Kinds of contracts that can be deployed.
const (
	KindUnit        = "unit"
	KindDiversifier = "diversifier"
)

func validKind(kind string) bool {
	return kind == KindUnit || kind == KindDiversifier
}

// Code is an installed code image.
type Code struct {
	Hash []byte `json:"hash"`
	Kind string `json:"kind"`
}

var _ orm.Model = (*Code)(nil)

func (c *Code) Validate() error {
	var err error
	if len(c.Hash) != sha256.Size {
		err = errors.Append(err, errors.Field("Hash", errors.ErrInput, "want %d bytes", sha256.Size))
	}
	if !validKind(c.Kind) {
		err = errors.Append(err, errors.Field("Kind", ErrUnknownKind, "%q", c.Kind))
	}
	return err
}

// Contract records a deployed contract.
type Contract struct {
	Address  splitnet.Address `json:"address"`
	Kind     string           `json:"kind"`
	CodeHash []byte           `json:"code_hash"`
	Deployer splitnet.Address `json:"deployer"`
	Salt     []byte           `json:"salt"`
}

var _ orm.Model = (*Contract)(nil)

func (c *Contract) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Address", c.Address.Validate(), "invalid address"))
	err = errors.Append(err, errors.Field("Deployer", c.Deployer.Validate(), "invalid deployer"))
	if !validKind(c.Kind) {
		err = errors.Append(err, errors.Field("Kind", ErrUnknownKind, "%q", c.Kind))
	}
	if len(c.CodeHash) != sha256.Size {
		err = errors.Append(err, errors.Field("CodeHash", errors.ErrInput, "want %d bytes", sha256.Size))
	}
	if len(c.Salt) == 0 {
		err = errors.Append(err, errors.Field("Salt", errors.ErrEmpty, "required"))
	}
	return err
}

// NewCodeBucket returns a bucket storing code images by hash.
func NewCodeBucket() orm.ModelBucket {
	return orm.NewModelBucket("code", &Code{})
}

// NewContractBucket returns a bucket storing contracts by address, indexed
// by the deployer.
func NewContractBucket() orm.ModelBucket {
	return orm.NewModelBucket("contract", &Contract{},
		orm.WithIndex("deployer", orm.AsMultiKeyIndexer(contractDeployer), false))
}

func contractDeployer(m orm.Model) ([]byte, error) {
	c, ok := m.(*Contract)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return c.Deployer, nil
}

// DeriveAddress returns the address a contract deployed by deployer with
// given salt is created at.
func DeriveAddress(deployer splitnet.Address, salt []byte) splitnet.Address {
	data := make([]byte, 0, len(deployer)+len(salt))
	data = append(data, deployer...)
	data = append(data, salt...)
	return splitnet.NewCondition("deployer", "contract", data).Address()
}

// ExternalInput is a share of a network entry held by another entry of the
// same network.
type ExternalInput struct {
	ID    uint32 `json:"id"`
	Share int64  `json:"share"`
}

// NetworkEntry describes a single unit of a network. IDs are only used to
// reference entries within the same network.
type NetworkEntry struct {
	ID             uint32                `json:"id"`
	Kind           string                `json:"kind"`
	Salt           []byte                `json:"salt"`
	Name           []byte                `json:"name"`
	Shares         []splitter.ShareEntry `json:"shares"`
	Mutable        bool                  `json:"mutable"`
	Active         bool                  `json:"active"`
	ExternalInputs []ExternalInput       `json:"external_inputs"`
}

// Validate checks the entry alone. References are checked against the
// whole network by ValidateNetwork.
func (e *NetworkEntry) Validate() error {
	var err error
	if !validKind(e.Kind) {
		err = errors.Append(err, errors.Field("Kind", ErrUnknownKind, "%q", e.Kind))
	}
	if len(e.Salt) == 0 {
		err = errors.Append(err, errors.Field("Salt", errors.ErrEmpty, "required"))
	}
	return err
}

// ValidateNetwork checks that entry ids are unique and that every external
// input references an entry of the network.
func ValidateNetwork(entries []NetworkEntry) error {
	if len(entries) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no network entries")
	}
	ids := make(map[uint32]struct{}, len(entries))
	for i := range entries {
		e := &entries[i]
		if err := e.Validate(); err != nil {
			return errors.Wrapf(err, "entry %d", e.ID)
		}
		if _, ok := ids[e.ID]; ok {
			return errors.Wrapf(ErrDuplicateID, "id %d", e.ID)
		}
		ids[e.ID] = struct{}{}
	}
	for _, e := range entries {
		for _, in := range e.ExternalInputs {
			if _, ok := ids[in.ID]; !ok {
				return errors.Wrapf(ErrUnknownReference, "entry %d references %d", e.ID, in.ID)
			}
		}
	}
	return nil
}

// Codes are the code hashes a network is deployed with, by kind.
type Codes struct {
	Unit        []byte `json:"unit"`
	Diversifier []byte `json:"diversifier"`
}

func (c Codes) hash(kind string) []byte {
	if kind == KindDiversifier {
		return c.Diversifier
	}
	return c.Unit
}
