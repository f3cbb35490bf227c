package deployer

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/store"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/iov-one/splitnet/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genesisOptions(t testing.TB, section interface{}) splitnet.Options {
	t.Helper()
	raw, err := json.Marshal(section)
	require.NoError(t, err)
	return splitnet.Options{"deployer": raw}
}

func TestGenesis(t *testing.T) {
	deployer := splittest.NewCondition().Address()
	h1 := splittest.NewCondition().Address()
	h2 := splittest.NewCondition().Address()
	unitImage := []byte("unit code")

	opts := genesisOptions(t, map[string]interface{}{
		"codes": []map[string]interface{}{
			{"kind": KindUnit, "image": unitImage},
		},
		"networks": []DeployNetworkMsg{
			{
				Deployer: deployer,
				UnitCode: hashOf(unitImage),
				Entries: []NetworkEntry{
					{ID: 1, Kind: KindUnit, Salt: []byte("genesis"), Shares: []splitter.ShareEntry{{Shareholder: h1, Share: 6000}, {Shareholder: h2, Share: 4000}}},
				},
			},
		},
	})

	db := store.MemStore()
	tokens := token.NewController()
	ctrl := NewController(tokens, nil, &splittest.Auth{})
	require.NoError(t, (&Initializer{Ctrl: ctrl}).FromGenesis(opts, db))

	code, err := ctrl.Code(db, hashOf(unitImage))
	require.NoError(t, err)
	assert.Equal(t, KindUnit, code.Kind)

	unit, err := ctrl.Resolve(db, DeriveAddress(deployer, []byte("genesis")))
	require.NoError(t, err)
	share, ok, err := unit.Share(db, h1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(6000), share)
}

func TestGenesisMissingCode(t *testing.T) {
	deployer := splittest.NewCondition().Address()
	h1 := splittest.NewCondition().Address()
	h2 := splittest.NewCondition().Address()

	opts := genesisOptions(t, map[string]interface{}{
		"networks": []DeployNetworkMsg{
			{
				Deployer: deployer,
				UnitCode: hashOf([]byte("never installed")),
				Entries: []NetworkEntry{
					{ID: 1, Kind: KindUnit, Salt: []byte("genesis"), Shares: []splitter.ShareEntry{{Shareholder: h1, Share: 6000}, {Shareholder: h2, Share: 4000}}},
				},
			},
		},
	})

	tokens := token.NewController()
	err := (&Initializer{Ctrl: NewController(tokens, nil, &splittest.Auth{})}).FromGenesis(opts, store.MemStore())
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}
}
