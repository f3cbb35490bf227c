package splitter

import (
	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/orm"
)

const (
	// TotalShares is the sum of all shares of a roster. A share of 1 is
	// one hundredth of a percent.
	TotalShares = 10000

	// MinShareholders is the smallest roster size.
	MinShareholders = 2

	maxNameLength = 256
)

// Config is the configuration of a single unit.
type Config struct {
	Admin splitnet.Address `json:"admin"`
	Name  []byte           `json:"name"`
	// Mutable is true while the roster can be replaced.
	Mutable bool `json:"mutable"`
}

var _ orm.Model = (*Config)(nil)

func (c *Config) Validate() error {
	var err error
	err = errors.Append(err, errors.Field("Admin", c.Admin.Validate(), "invalid admin"))
	if len(c.Name) > maxNameLength {
		err = errors.Append(err, errors.Field("Name", errors.ErrInput, "longer than %d bytes", maxNameLength))
	}
	return err
}

// ShareEntry is the share of a single shareholder.
type ShareEntry struct {
	Shareholder splitnet.Address `json:"shareholder"`
	Share       int64            `json:"share"`
}

var _ orm.Model = (*ShareEntry)(nil)

func (s *ShareEntry) Validate() error {
	if err := s.Shareholder.Validate(); err != nil {
		return errors.Field("Shareholder", err, "invalid shareholder")
	}
	if s.Share <= 0 || s.Share > TotalShares {
		return errors.Wrapf(ErrInvalidShare, "share %d of %s", s.Share, s.Shareholder)
	}
	return nil
}

// Roster keeps the order in which shareholders were declared.
type Roster struct {
	Shareholders []splitnet.Address
}

var _ orm.Model = (*Roster)(nil)

func (r *Roster) Validate() error {
	if len(r.Shareholders) == 0 {
		return errors.Wrap(errors.ErrEmpty, "shareholders")
	}
	return nil
}

// Allocation is the claim of a shareholder on a single asset. Zero claims
// are not stored.
type Allocation struct {
	Amount int64
}

var _ orm.Model = (*Allocation)(nil)

func (a *Allocation) Validate() error {
	if a.Amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "allocation must be positive")
	}
	return nil
}

// TotalAllocation is the sum of all claims on a single asset.
type TotalAllocation struct {
	Amount int64
}

var _ orm.Model = (*TotalAllocation)(nil)

func (t *TotalAllocation) Validate() error {
	if t.Amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "total allocation must be positive")
	}
	return nil
}

// Whitelist lists the assets that can be distributed.
type Whitelist struct {
	Tokens []splitnet.Address
}

var _ orm.Model = (*Whitelist)(nil)

func (w *Whitelist) Validate() error {
	if len(w.Tokens) == 0 {
		return errors.Wrap(errors.ErrEmpty, "tokens")
	}
	for i, t := range w.Tokens {
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "token #%d", i)
		}
	}
	return nil
}

// ValidateShares checks that a roster can be stored. Validation is done
// before anything is written.
func ValidateShares(shares []ShareEntry) error {
	if len(shares) < MinShareholders {
		return errors.Wrapf(ErrLowShareCount, "got %d, want at least %d", len(shares), MinShareholders)
	}
	var total int64
	seen := make(map[string]struct{}, len(shares))
	for i := range shares {
		s := &shares[i]
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "share #%d", i)
		}
		if _, ok := seen[string(s.Shareholder)]; ok {
			return errors.Wrapf(ErrDuplicateShareholder, "%s", s.Shareholder)
		}
		seen[string(s.Shareholder)] = struct{}{}
		total += s.Share
	}
	if total != TotalShares {
		return errors.Wrapf(ErrInvalidShareTotal, "got %d, want %d", total, TotalShares)
	}
	return nil
}
