package token

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
)

const (
	pathCreateTokenMsg = "token/create"
	pathIssueMsg       = "token/issue"
	pathSendMsg        = "token/send"
)

// CreateTokenMsg registers a new asset administrated by Admin.
type CreateTokenMsg struct {
	Admin    splitnet.Address `json:"admin"`
	Name     string           `json:"name"`
	Symbol   string           `json:"symbol"`
	Decimals int32            `json:"decimals"`
}

var _ splitnet.Msg = (*CreateTokenMsg)(nil)

func (CreateTokenMsg) Path() string {
	return pathCreateTokenMsg
}

func (m *CreateTokenMsg) Validate() error {
	t := Token{Admin: m.Admin, Name: m.Name, Symbol: m.Symbol, Decimals: m.Decimals}
	return t.Validate()
}

// IssueMsg credits newly created funds. Only the token admin can issue.
type IssueMsg struct {
	Token     splitnet.Address `json:"token"`
	Recipient splitnet.Address `json:"recipient"`
	Amount    int64            `json:"amount"`
}

var _ splitnet.Msg = (*IssueMsg)(nil)

func (IssueMsg) Path() string {
	return pathIssueMsg
}

func (m *IssueMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Token", m.Token.Validate(), "invalid token"))
	err = errors.Append(err, errors.Field("Recipient", m.Recipient.Validate(), "invalid recipient"))
	if m.Amount <= 0 {
		err = errors.Append(err, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return err
}

// SendMsg moves funds between two owners. Source must sign.
type SendMsg struct {
	Token       splitnet.Address `json:"token"`
	Source      splitnet.Address `json:"source"`
	Destination splitnet.Address `json:"destination"`
	Amount      int64            `json:"amount"`
}

var _ splitnet.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Token", m.Token.Validate(), "invalid token"))
	err = errors.Append(err, errors.Field("Source", m.Source.Validate(), "invalid source"))
	err = errors.Append(err, errors.Field("Destination", m.Destination.Validate(), "invalid destination"))
	if m.Amount <= 0 {
		err = errors.Append(err, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return err
}
