package deployer

import (
	"crypto/sha256"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x/splitter"
)

const (
	pathInstallCodeMsg       = "deployer/install_code"
	pathDeployUnitMsg        = "deployer/deploy_unit"
	pathDeployDiversifierMsg = "deployer/deploy_diversifier"
	pathDeployNetworkMsg     = "deployer/deploy_network"

	maxCodeSize = 64 * 1024
)

func validateHash(name string, hash []byte) error {
	if len(hash) != sha256.Size {
		return errors.Field(name, errors.ErrInput, "want %d bytes", sha256.Size)
	}
	return nil
}

// InstallCodeMsg registers a code image. Anyone can install code.
type InstallCodeMsg struct {
	Kind  string `json:"kind"`
	Image []byte `json:"image"`
}

var _ splitnet.Msg = (*InstallCodeMsg)(nil)

func (InstallCodeMsg) Path() string {
	return pathInstallCodeMsg
}

func (m *InstallCodeMsg) Validate() error {
	var err error
	if !validKind(m.Kind) {
		err = errors.Append(err, errors.Field("Kind", ErrUnknownKind, "%q", m.Kind))
	}
	switch n := len(m.Image); {
	case n == 0:
		err = errors.Append(err, errors.Field("Image", errors.ErrEmpty, "required"))
	case n > maxCodeSize:
		err = errors.Append(err, errors.Field("Image", errors.ErrInput, "larger than %d bytes", maxCodeSize))
	}
	return err
}

// DeployUnitMsg deploys an accounting unit administrated by Admin.
type DeployUnitMsg struct {
	Deployer splitnet.Address      `json:"deployer"`
	Admin    splitnet.Address      `json:"admin"`
	CodeHash []byte                `json:"code_hash"`
	Salt     []byte                `json:"salt"`
	Name     []byte                `json:"name"`
	Shares   []splitter.ShareEntry `json:"shares"`
	Mutable  bool                  `json:"mutable"`
}

var _ splitnet.Msg = (*DeployUnitMsg)(nil)

func (DeployUnitMsg) Path() string {
	return pathDeployUnitMsg
}

func (m *DeployUnitMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Deployer", m.Deployer.Validate(), "invalid deployer"))
	err = errors.Append(err, errors.Field("Admin", m.Admin.Validate(), "invalid admin"))
	err = errors.Append(err, validateHash("CodeHash", m.CodeHash))
	if len(m.Salt) == 0 {
		err = errors.Append(err, errors.Field("Salt", errors.ErrEmpty, "required"))
	}
	return err
}

// DeployDiversifierMsg deploys a diversifier administrated by Admin.
// The internal unit is deployed from SplitterCodeHash with SplitterSalt.
type DeployDiversifierMsg struct {
	Deployer         splitnet.Address      `json:"deployer"`
	Admin            splitnet.Address      `json:"admin"`
	CodeHash         []byte                `json:"code_hash"`
	Salt             []byte                `json:"salt"`
	SplitterCodeHash []byte                `json:"splitter_code_hash"`
	SplitterSalt     []byte                `json:"splitter_salt"`
	Active           bool                  `json:"active"`
	Name             []byte                `json:"name"`
	Shares           []splitter.ShareEntry `json:"shares"`
	Mutable          bool                  `json:"mutable"`
}

var _ splitnet.Msg = (*DeployDiversifierMsg)(nil)

func (DeployDiversifierMsg) Path() string {
	return pathDeployDiversifierMsg
}

func (m *DeployDiversifierMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Deployer", m.Deployer.Validate(), "invalid deployer"))
	err = errors.Append(err, errors.Field("Admin", m.Admin.Validate(), "invalid admin"))
	err = errors.Append(err, validateHash("CodeHash", m.CodeHash))
	err = errors.Append(err, validateHash("SplitterCodeHash", m.SplitterCodeHash))
	if len(m.Salt) == 0 {
		err = errors.Append(err, errors.Field("Salt", errors.ErrEmpty, "required"))
	}
	if len(m.SplitterSalt) == 0 {
		err = errors.Append(err, errors.Field("SplitterSalt", errors.ErrEmpty, "required"))
	}
	return err
}

// DeployNetworkMsg deploys a network of units administrated by Deployer.
type DeployNetworkMsg struct {
	Deployer        splitnet.Address `json:"deployer"`
	UnitCode        []byte           `json:"unit_code"`
	DiversifierCode []byte           `json:"diversifier_code"`
	Entries         []NetworkEntry   `json:"entries"`
}

var _ splitnet.Msg = (*DeployNetworkMsg)(nil)

func (DeployNetworkMsg) Path() string {
	return pathDeployNetworkMsg
}

func (m *DeployNetworkMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Deployer", m.Deployer.Validate(), "invalid deployer"))
	err = errors.Append(err, validateHash("UnitCode", m.UnitCode))
	if len(m.DiversifierCode) != 0 {
		err = errors.Append(err, validateHash("DiversifierCode", m.DiversifierCode))
	}
	err = errors.Append(err, errors.Field("Entries", ValidateNetwork(m.Entries), "invalid network"))
	return err
}

// Codes returns the code hashes of the network by kind.
func (m *DeployNetworkMsg) Codes() Codes {
	return Codes{Unit: m.UnitCode, Diversifier: m.DiversifierCode}
}
