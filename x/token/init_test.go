package token

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	admin := splittest.NewCondition().Address()
	owner := splittest.NewCondition().Address()
	genesis := `{
		"token": {
			"tokens": [{"admin": "` + admin.String() + `", "name": "coin", "symbol": "COIN", "decimals": 6}],
			"balances": [{"symbol": "COIN", "owner": "` + owner.String() + `", "amount": 1000}]
		}
	}`
	var opts splitnet.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	ctrl := NewController()
	require.NoError(t, (&Initializer{Ctrl: ctrl}).FromGenesis(opts, db))

	tok, err := ctrl.Token(db, AddressFor("COIN"))
	require.NoError(t, err)
	assert.Equal(t, &Token{Admin: admin, Name: "coin", Symbol: "COIN", Decimals: 6}, tok)

	got, err := ctrl.Balance(db, AddressFor("COIN"), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)
}

func TestGenesisUnknownToken(t *testing.T) {
	owner := splittest.NewCondition().Address()
	genesis := `{"token": {"balances": [{"symbol": "NOPE", "owner": "` + owner.String() + `", "amount": 1}]}}`
	var opts splitnet.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	err := (&Initializer{Ctrl: NewController()}).FromGenesis(opts, store.MemStore())
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}
}
