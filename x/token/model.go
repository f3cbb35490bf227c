package token

import (
	"regexp"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
)

var (
	isSymbol = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,11}$`).MatchString

	maxNameLength = 64
	maxDecimals   int32 = 18
)

// Token describes a single fungible asset.
type Token struct {
	Admin    splitnet.Address `json:"admin"`
	Name     string           `json:"name"`
	Symbol   string           `json:"symbol"`
	Decimals int32            `json:"decimals"`
}

var _ orm.Model = (*Token)(nil)

// Validate ensures the token description is sane.
func (t *Token) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Admin", t.Admin.Validate(), "invalid admin"))
	if t.Name == "" || len(t.Name) > maxNameLength {
		err = errors.Append(err, errors.Field("Name", errors.ErrInput, "name must be between 1 and %d characters", maxNameLength))
	}
	if !isSymbol(t.Symbol) {
		err = errors.Append(err, errors.Field("Symbol", errors.ErrInput, "invalid symbol %q", t.Symbol))
	}
	if t.Decimals < 0 || t.Decimals > maxDecimals {
		err = errors.Append(err, errors.Field("Decimals", errors.ErrInput, "must be between 0 and %d", maxDecimals))
	}
	return err
}

// Balance is the amount of a single asset held by an owner. A zero balance
// is never stored.
type Balance struct {
	Amount int64 `json:"amount"`
}

var _ orm.Model = (*Balance)(nil)

// Validate ensures the stored amount is positive.
func (b *Balance) Validate() error {
	if b.Amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "balance must be positive")
	}
	return nil
}

// AddressFor returns the address of the asset with given symbol.
func AddressFor(symbol string) splitnet.Address {
	return splitnet.NewCondition("token", "asset", []byte(symbol)).Address()
}

func balanceKey(asset, owner splitnet.Address) []byte {
	key := make([]byte, 0, len(asset)+len(owner))
	key = append(key, asset...)
	return append(key, owner...)
}

// NewTokenBucket returns a bucket storing token descriptions by address,
// indexed by the admin.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &Token{},
		orm.WithIndex("admin", orm.AsMultiKeyIndexer(tokenAdmin), false))
}

func tokenAdmin(m orm.Model) ([]byte, error) {
	t, ok := m.(*Token)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return t.Admin, nil
}

// NewBalanceBucket returns a bucket storing balances under
// (asset, owner) keys.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("balance", &Balance{})
}
