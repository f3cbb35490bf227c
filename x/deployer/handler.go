package deployer

import (
	"encoding/json"
	"sort"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	installCodeCost       int64 = 100
	deployUnitCost        int64 = 300
	deployDiversifierCost int64 = 600
	deployNetworkCost     int64 = 300
)

// RegisterRoutes registers handlers of all deployer messages. Deployments
// must be signed by the deployer.
func RegisterRoutes(r splitnet.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&InstallCodeMsg{}, &installCodeHandler{ctrl: ctrl})
	r.Handle(&DeployUnitMsg{}, &deployUnitHandler{auth: auth, ctrl: ctrl})
	r.Handle(&DeployDiversifierMsg{}, &deployDiversifierHandler{auth: auth, ctrl: ctrl})
	r.Handle(&DeployNetworkMsg{}, &deployNetworkHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery registers "/deployer/contract" queried by contract
// address, "/deployer/contract/deployer" queried by deployer address and
// "/deployer/code" queried by code hash.
func RegisterQuery(qr splitnet.QueryRouter, ctrl *Controller) {
	ctrl.contracts.Register("deployer/contract", qr)
	ctrl.codes.Register("deployer/code", qr)
}

func contractTags(addrs ...splitnet.Address) []common.KVPair {
	tags := make([]common.KVPair, len(addrs))
	for i, a := range addrs {
		tags[i] = common.KVPair{Key: []byte("contract"), Value: []byte(a.String())}
	}
	return tags
}

type installCodeHandler struct {
	ctrl *Controller
}

var _ splitnet.Handler = (*installCodeHandler)(nil)

func (h *installCodeHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	var msg InstallCodeMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &splitnet.CheckResult{GasAllocated: installCodeCost}, nil
}

func (h *installCodeHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	var msg InstallCodeMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	hash, err := h.ctrl.InstallCode(db, msg.Kind, msg.Image)
	if err != nil {
		return nil, err
	}
	splitnet.GetLogger(ctx).Info("code installed", "kind", msg.Kind, "hash", common.HexBytes(hash))
	return &splitnet.DeliverResult{Data: hash}, nil
}

type deployUnitHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ splitnet.Handler = (*deployUnitHandler)(nil)

func (h *deployUnitHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: deployUnitCost}, nil
}

func (h *deployUnitHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	args := splitter.InitArgs{Admin: msg.Admin, Name: msg.Name, Shares: msg.Shares, Mutable: msg.Mutable}
	unit, err := h.ctrl.DeployUnit(ctx, db, msg.Deployer, msg.CodeHash, msg.Salt, args)
	if err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{
		Data: unit.Address(),
		Tags: contractTags(unit.Address()),
	}, nil
}

func (h *deployUnitHandler) validate(ctx splitnet.Context, tx splitnet.Tx) (*DeployUnitMsg, error) {
	var msg DeployUnitMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Deployer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "deployer signature missing")
	}
	return &msg, nil
}

type deployDiversifierHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ splitnet.Handler = (*deployDiversifierHandler)(nil)

func (h *deployDiversifierHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: deployDiversifierCost}, nil
}

func (h *deployDiversifierHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	args := DiversifierArgs{
		Admin:        msg.Admin,
		SplitterCode: msg.SplitterCodeHash,
		Salt:         msg.SplitterSalt,
		Active:       msg.Active,
		Unit:         splitter.InitArgs{Name: msg.Name, Shares: msg.Shares, Mutable: msg.Mutable},
	}
	d, err := h.ctrl.DeployDiversifier(ctx, db, msg.Deployer, msg.CodeHash, msg.Salt, args)
	if err != nil {
		return nil, err
	}
	return &splitnet.DeliverResult{
		Data: d.Address(),
		Tags: contractTags(d.Address()),
	}, nil
}

func (h *deployDiversifierHandler) validate(ctx splitnet.Context, tx splitnet.Tx) (*DeployDiversifierMsg, error) {
	var msg DeployDiversifierMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Deployer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "deployer signature missing")
	}
	return &msg, nil
}

type deployNetworkHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ splitnet.Handler = (*deployNetworkHandler)(nil)

func (h *deployNetworkHandler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return &splitnet.CheckResult{GasAllocated: deployNetworkCost * int64(len(msg.Entries))}, nil
}

// NetworkAddress is the address an entry of a network was deployed at.
type NetworkAddress struct {
	ID      uint32           `json:"id"`
	Address splitnet.Address `json:"address"`
}

func (h *deployNetworkHandler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addrs, err := h.ctrl.DeployNetwork(ctx, db, msg.Deployer, msg.Codes(), msg.Entries)
	if err != nil {
		return nil, err
	}

	deployed := make([]NetworkAddress, 0, len(addrs))
	for id, a := range addrs {
		deployed = append(deployed, NetworkAddress{ID: id, Address: a})
	}
	sort.Slice(deployed, func(i, j int) bool { return deployed[i].ID < deployed[j].ID })
	data, err := json.Marshal(deployed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	tagged := make([]splitnet.Address, len(deployed))
	for i, d := range deployed {
		tagged[i] = d.Address
	}
	return &splitnet.DeliverResult{Data: data, Tags: contractTags(tagged...)}, nil
}

func (h *deployNetworkHandler) validate(ctx splitnet.Context, tx splitnet.Tx) (*DeployNetworkMsg, error) {
	var msg DeployNetworkMsg
	if err := splitnet.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Deployer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "deployer signature missing")
	}
	return &msg, nil
}
