package splitter

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

const (
	pathUpdateWhitelistedTokensMsg    = "splitter/update_whitelisted_tokens"
	pathTransferTokensMsg             = "splitter/transfer_tokens"
	pathDistributeMsg                 = "splitter/distribute"
	pathUpdateSharesMsg               = "splitter/update_shares"
	pathUpdateNameMsg                 = "splitter/update_name"
	pathLockMsg                       = "splitter/lock"
	pathWithdrawAllocationMsg         = "splitter/withdraw_allocation"
	pathWithdrawExternalAllocationMsg = "splitter/withdraw_external_allocation"
)

// UnitMsg is implemented by every message that operates on a single unit.
// Amounts are not validated by messages, the unit reports them with its
// own errors.
type UnitMsg interface {
	splitnet.TargetMsg
}

func validateUnit(unit splitnet.Address) error {
	return errors.Field("Unit", unit.Validate(), "invalid unit")
}

// UpdateWhitelistedTokensMsg replaces the list of assets a unit can
// distribute.
type UpdateWhitelistedTokensMsg struct {
	Unit   splitnet.Address   `json:"unit"`
	Tokens []splitnet.Address `json:"tokens"`
}

var _ UnitMsg = (*UpdateWhitelistedTokensMsg)(nil)

func (UpdateWhitelistedTokensMsg) Path() string {
	return pathUpdateWhitelistedTokensMsg
}

func (m *UpdateWhitelistedTokensMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *UpdateWhitelistedTokensMsg) Validate() error {
	err := validateUnit(m.Unit)
	for i, t := range m.Tokens {
		err = errors.Append(err, errors.Field("Tokens", t.Validate(), "token %d", i))
	}
	return err
}

// TransferTokensMsg moves unused funds of a unit to a recipient.
type TransferTokensMsg struct {
	Unit      splitnet.Address `json:"unit"`
	Asset     splitnet.Address `json:"asset"`
	Recipient splitnet.Address `json:"recipient"`
	Amount    int64            `json:"amount"`
}

var _ UnitMsg = (*TransferTokensMsg)(nil)

func (TransferTokensMsg) Path() string {
	return pathTransferTokensMsg
}

func (m *TransferTokensMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *TransferTokensMsg) Validate() error {
	var err error
	err = errors.Append(err, validateUnit(m.Unit))
	err = errors.Append(err, errors.Field("Asset", m.Asset.Validate(), "invalid asset"))
	err = errors.Append(err, errors.Field("Recipient", m.Recipient.Validate(), "invalid recipient"))
	return err
}

// DistributeMsg splits an amount held by a unit between its shareholders.
type DistributeMsg struct {
	Unit   splitnet.Address `json:"unit"`
	Asset  splitnet.Address `json:"asset"`
	Amount int64            `json:"amount"`
}

var _ UnitMsg = (*DistributeMsg)(nil)

func (DistributeMsg) Path() string {
	return pathDistributeMsg
}

func (m *DistributeMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *DistributeMsg) Validate() error {
	var err error
	err = errors.Append(err, validateUnit(m.Unit))
	err = errors.Append(err, errors.Field("Asset", m.Asset.Validate(), "invalid asset"))
	return err
}

// UpdateSharesMsg replaces the roster of a mutable unit.
type UpdateSharesMsg struct {
	Unit   splitnet.Address `json:"unit"`
	Shares []ShareEntry     `json:"shares"`
}

var _ UnitMsg = (*UpdateSharesMsg)(nil)

func (UpdateSharesMsg) Path() string {
	return pathUpdateSharesMsg
}

func (m *UpdateSharesMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *UpdateSharesMsg) Validate() error {
	return validateUnit(m.Unit)
}

// UpdateNameMsg replaces the display name of a unit.
type UpdateNameMsg struct {
	Unit splitnet.Address `json:"unit"`
	Name []byte           `json:"name"`
}

var _ UnitMsg = (*UpdateNameMsg)(nil)

func (UpdateNameMsg) Path() string {
	return pathUpdateNameMsg
}

func (m *UpdateNameMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *UpdateNameMsg) Validate() error {
	err := validateUnit(m.Unit)
	if len(m.Name) > maxNameLength {
		err = errors.Append(err, errors.Field("Name", errors.ErrInput, "longer than %d bytes", maxNameLength))
	}
	return err
}

// LockMsg makes the roster of a unit immutable.
type LockMsg struct {
	Unit splitnet.Address `json:"unit"`
}

var _ UnitMsg = (*LockMsg)(nil)

func (LockMsg) Path() string {
	return pathLockMsg
}

func (m *LockMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *LockMsg) Validate() error {
	return validateUnit(m.Unit)
}

// WithdrawAllocationMsg pays out the claim of a shareholder.
type WithdrawAllocationMsg struct {
	Unit        splitnet.Address `json:"unit"`
	Asset       splitnet.Address `json:"asset"`
	Shareholder splitnet.Address `json:"shareholder"`
	Amount      int64            `json:"amount"`
}

var _ UnitMsg = (*WithdrawAllocationMsg)(nil)

func (WithdrawAllocationMsg) Path() string {
	return pathWithdrawAllocationMsg
}

func (m *WithdrawAllocationMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *WithdrawAllocationMsg) Validate() error {
	var err error
	err = errors.Append(err, validateUnit(m.Unit))
	err = errors.Append(err, errors.Field("Asset", m.Asset.Validate(), "invalid asset"))
	err = errors.Append(err, errors.Field("Shareholder", m.Shareholder.Validate(), "invalid shareholder"))
	return err
}

// WithdrawExternalAllocationMsg withdraws the claim a unit holds in an
// external unit.
type WithdrawExternalAllocationMsg struct {
	Unit     splitnet.Address `json:"unit"`
	External splitnet.Address `json:"external"`
	Asset    splitnet.Address `json:"asset"`
	Amount   int64            `json:"amount"`
}

var _ UnitMsg = (*WithdrawExternalAllocationMsg)(nil)

func (WithdrawExternalAllocationMsg) Path() string {
	return pathWithdrawExternalAllocationMsg
}

func (m *WithdrawExternalAllocationMsg) Target() splitnet.Address {
	return m.Unit
}

func (m *WithdrawExternalAllocationMsg) Validate() error {
	var err error
	err = errors.Append(err, validateUnit(m.Unit))
	err = errors.Append(err, errors.Field("External", m.External.Validate(), "invalid external unit"))
	err = errors.Append(err, errors.Field("Asset", m.Asset.Validate(), "invalid asset"))
	if m.External.Equals(m.Unit) {
		err = errors.Append(err, errors.Field("External", errors.ErrInput, "unit cannot withdraw from itself"))
	}
	return err
}
