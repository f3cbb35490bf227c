package diversifier

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

const (
	pathUpdateWhitelistedSwapTokensMsg = "diversifier/update_whitelisted_swap_tokens"
	pathSwapAndDistributeMsg           = "diversifier/swap_and_distribute"
	pathToggleMsg                      = "diversifier/toggle"
)

// UpdateWhitelistedSwapTokensMsg replaces the list of assets Token can be
// swapped into.
type UpdateWhitelistedSwapTokensMsg struct {
	Diversifier splitnet.Address   `json:"diversifier"`
	Token       splitnet.Address   `json:"token"`
	SwapTokens  []splitnet.Address `json:"swap_tokens"`
}

var _ splitnet.TargetMsg = (*UpdateWhitelistedSwapTokensMsg)(nil)

func (m *UpdateWhitelistedSwapTokensMsg) Target() splitnet.Address {
	return m.Diversifier
}

func (UpdateWhitelistedSwapTokensMsg) Path() string {
	return pathUpdateWhitelistedSwapTokensMsg
}

func (m *UpdateWhitelistedSwapTokensMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Diversifier", m.Diversifier.Validate(), "invalid diversifier"))
	err = errors.Append(err, errors.Field("Token", m.Token.Validate(), "invalid token"))
	for i, t := range m.SwapTokens {
		err = errors.Append(err, errors.Field("SwapTokens", t.Validate(), "token %d", i))
	}
	return err
}

// SwapAndDistributeMsg swaps Amount of the first asset of the path and
// distributes the output.
type SwapAndDistributeMsg struct {
	Diversifier splitnet.Address   `json:"diversifier"`
	SwapPath    []splitnet.Address `json:"swap_path"`
	Amount      int64              `json:"amount"`
}

var _ splitnet.TargetMsg = (*SwapAndDistributeMsg)(nil)

func (m *SwapAndDistributeMsg) Target() splitnet.Address {
	return m.Diversifier
}

func (SwapAndDistributeMsg) Path() string {
	return pathSwapAndDistributeMsg
}

func (m *SwapAndDistributeMsg) Validate() error {
	err := errors.Field("Diversifier", m.Diversifier.Validate(), "invalid diversifier")
	for i, t := range m.SwapPath {
		err = errors.Append(err, errors.Field("SwapPath", t.Validate(), "token %d", i))
	}
	return err
}

// ToggleMsg flips the active flag of a diversifier.
type ToggleMsg struct {
	Diversifier splitnet.Address `json:"diversifier"`
}

var _ splitnet.TargetMsg = (*ToggleMsg)(nil)

func (m *ToggleMsg) Target() splitnet.Address {
	return m.Diversifier
}

func (ToggleMsg) Path() string {
	return pathToggleMsg
}

func (m *ToggleMsg) Validate() error {
	return errors.Field("Diversifier", m.Diversifier.Validate(), "invalid diversifier")
}
