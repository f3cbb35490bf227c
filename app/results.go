package app

import (
	"encoding/json"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// ResultSet carries one side of a query response, either all keys or all
// values, in the order the query returned them.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(r)
	return bz, errors.Wrap(err, "encode results")
}

func (r *ResultSet) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, r); err != nil {
		return errors.Wrapf(errors.ErrInput, "results: %s", err)
	}
	return nil
}

// splitModels separates query results into the key and value sets of a
// response.
func splitModels(models []splitnet.Model) (keys, values *ResultSet) {
	keys = &ResultSet{Results: make([][]byte, len(models))}
	values = &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		keys.Results[i], values.Results[i] = m.Key, m.Value
	}
	return keys, values
}

// UnmarshalOneResult decodes the first JSON value of an encoded value set
// into dest. It reports false for an empty set.
func UnmarshalOneResult(bz []byte, dest interface{}) (bool, error) {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return false, err
	}
	if len(res.Results) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(res.Results[0], dest); err != nil {
		return false, errors.Wrapf(errors.ErrInput, "result: %s", err)
	}
	return true, nil
}
