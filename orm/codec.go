package orm

import (
	"github.com/iov-one/splitnet/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc serializes models. Models are concrete types so no registration is
// required.
var cdc = amino.NewCodec()

// Marshal serializes a model into its binary representation.
func Marshal(m interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// Unmarshal loads binary representation into given model pointer.
func Unmarshal(raw []byte, dest interface{}) error {
	if err := cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
