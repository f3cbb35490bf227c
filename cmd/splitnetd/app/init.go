package splitnetd

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/commands"
	"github.com/iov-one/splitnet/commands/server"
	"github.com/iov-one/splitnet/crypto"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/x/deployer"
	"github.com/iov-one/splitnet/x/sigs"
	"github.com/iov-one/splitnet/x/splitter"
	"github.com/iov-one/splitnet/x/token"
	amino "github.com/tendermint/go-amino"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Code images installed by the development genesis. Deployment only
// depends on their hashes.
var (
	UnitImage        = []byte("splitnet accounting unit v1")
	DiversifierImage = []byte("splitnet diversifier v1")
)

// GenInitOptions produces the app state of a development chain. A single
// token is issued to one account which also becomes the owner of the
// installed code. Arguments are the token symbol and the hex or bech32
// address of the owner. When no owner is given, a new key is generated and
// printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	symbol := "SPL"
	if len(args) > 0 {
		symbol = args[0]
	}

	var owner splitnet.Address
	if len(args) > 1 {
		addr, err := splitnet.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		owner = addr
	} else {
		addr, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(keys)
	}

	return json.Marshal(devGenesis(symbol, owner))
}

func devGenesis(symbol string, owner splitnet.Address) map[string]interface{} {
	return map[string]interface{}{
		"token": map[string]interface{}{
			"tokens": []interface{}{
				map[string]interface{}{
					"admin":    owner,
					"name":     symbol + " development token",
					"symbol":   symbol,
					"decimals": 6,
				},
			},
			"balances": []interface{}{
				map[string]interface{}{
					"symbol": symbol,
					"owner":  owner,
					"amount": int64(1000000000),
				},
			},
		},
		"deployer": map[string]interface{}{
			"codes": []interface{}{
				map[string]interface{}{"kind": deployer.KindUnit, "image": UnitImage},
				map[string]interface{}{"kind": deployer.KindDiversifier, "image": DiversifierImage},
			},
		},
	}
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, opts server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "splitnet.db")
	}

	application, err := Application("splitnetd", dbPath, opts.CacheSize, opts.Debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateKey returns the address of a new key, along with a json
// representation of the key pair.
func GenerateKey() (splitnet.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return pubKey.Address(), string(keys), nil
}

// Examples returns signed example transactions written by the testgen
// command.
func Examples() ([]commands.Example, error) {
	key := crypto.PrivKeyEd25519FromSeed(make([]byte, 32))
	owner := key.PublicKey().Address()
	other := crypto.PrivKeyEd25519FromSeed([]byte("splitnet example shareholder key")).PublicKey().Address()
	asset := token.AddressFor("SPL")
	unitCode := sha256.Sum256(UnitImage)
	unit := deployer.DeriveAddress(owner, []byte("example"))

	msgs := []struct {
		name string
		msg  splitnet.Msg
	}{
		{"deploy_unit", &deployer.DeployUnitMsg{
			Deployer: owner,
			Admin:    owner,
			CodeHash: unitCode[:],
			Salt:     []byte("example"),
			Name:     []byte("example unit"),
			Shares: []splitter.ShareEntry{
				{Shareholder: owner, Share: 6000},
				{Shareholder: other, Share: 4000},
			},
			Mutable: true,
		}},
		{"send_tokens", &token.SendMsg{Token: asset, Source: owner, Destination: unit, Amount: 1000}},
		{"whitelist_tokens", &splitter.UpdateWhitelistedTokensMsg{Unit: unit, Tokens: []splitnet.Address{asset}}},
		{"distribute", &splitter.DistributeMsg{Unit: unit, Asset: asset, Amount: 1000}},
		{"withdraw", &splitter.WithdrawAllocationMsg{Unit: unit, Asset: asset, Shareholder: other, Amount: 400}},
	}

	examples := make([]commands.Example, 0, len(msgs))
	for seq, m := range msgs {
		tx := &Tx{Msg: m.msg}
		sig, err := sigs.SignTx(key, tx, "example-chain", int64(seq))
		if err != nil {
			return nil, errors.Wrap(err, m.name)
		}
		tx.Signatures = []*sigs.StdSignature{sig}
		examples = append(examples, commands.Example{Filename: "tx_" + m.name, Obj: tx})
	}
	return examples, nil
}

// Codec returns the codec used to encode transactions.
func Codec() *amino.Codec {
	return cdc
}
