package diversifier

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
	"github.com/iov-one/splitnet/store"
)

// Config is the configuration of a single diversifier.
type Config struct {
	Admin splitnet.Address `json:"admin"`
	// SplitterAddress is the address of the internal unit.
	SplitterAddress splitnet.Address `json:"splitter_address"`
	Active          bool             `json:"active"`
}

var _ orm.Model = (*Config)(nil)

func (c *Config) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Admin", c.Admin.Validate(), "invalid admin"))
	err = errors.Append(err, errors.Field("SplitterAddress", c.SplitterAddress.Validate(), "invalid unit"))
	return err
}

// SwapTokens lists the assets a source asset can be swapped into.
type SwapTokens struct {
	Tokens []splitnet.Address `json:"tokens"`
}

var _ orm.Model = (*SwapTokens)(nil)

func (s *SwapTokens) Validate() error {
	if len(s.Tokens) == 0 {
		return errors.Wrap(errors.ErrEmpty, "tokens")
	}
	for i, t := range s.Tokens {
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "token #%d", i)
		}
	}
	return nil
}

var configKey = []byte("config")

var (
	configBucket     = orm.NewModelBucket("config", &Config{})
	swapTokensBucket = orm.NewModelBucket("swap_tokens", &SwapTokens{})
)

// Prefix returns the prefix all records of given diversifier are stored
// under.
func Prefix(addr splitnet.Address) []byte {
	prefix := make([]byte, 0, len(addr)+4)
	prefix = append(prefix, "div:"...)
	return append(prefix, addr...)
}

func prefixed(db splitnet.KVStore, addr splitnet.Address) splitnet.KVStore {
	return store.NewPrefixStore(Prefix(addr), db)
}

func readPrefixed(db splitnet.ReadOnlyKVStore, addr splitnet.Address) splitnet.ReadOnlyKVStore {
	return store.NewReadOnlyPrefixStore(Prefix(addr), db)
}
