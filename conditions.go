package splitnet

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/splitnet/errors"
)

const (
	// AddressLength is the size of every principal, unit and asset address.
	AddressLength = 20

	// AddressHRP is the human readable part of bech32 encoded addresses.
	AddressHRP = "split"
)

// conditionFormat matches "extension/type/data". Data is binary and may
// contain any byte, including new lines and slashes.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition names who can authorize an action, as
// "extension/type/data". A signature key, a unit acting on its own behalf
// and a contract deployed by a principal are all conditions. Callers are
// never handed the condition itself, only its Address.
type Condition []byte

// NewCondition joins the three sections of a condition.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Parse splits the condition into extension, type and data.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "malformed condition %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Validate fails with ErrInput unless the condition has all three sections.
func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

// Address is the digest principals are known by.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals is true for byte-equal conditions.
func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// String prints the data section in hex, as binary keys are common.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("(invalid condition %X)", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// parseCondition reads the String form back.
func parseCondition(s string) (Condition, error) {
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 {
		return nil, errors.Wrapf(errors.ErrInput, "condition %q", s)
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "condition data: %s", err)
	}
	c := NewCondition(parts[0], parts[1], data)
	return c, c.Validate()
}

// Address identifies a principal, an accounting unit, a diversifier or an
// asset. It is always AddressLength bytes long.
type Address []byte

// NewAddress is the truncated sha256 of data. Nil data gives a nil address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

// Equals is true for byte-equal addresses.
func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

// Validate fails with ErrInput for addresses of the wrong size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address of %d bytes", len(a))
	}
	return nil
}

// String is the upper case hex form, which is also used in logs and JSON.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with AddressHRP.
func (a Address) Bech32() (string, error) {
	five, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32 bits: %s", err)
	}
	s, err := bech32.Encode(AddressHRP, five)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return s, nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.jsonString())
}

func (a Address) jsonString() string {
	if len(a) == 0 {
		return ""
	}
	return a.String()
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrapf(errors.ErrInput, "address json: %s", err)
	}
	if s == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress reads an address given on the command line or in genesis.
// Plain values are hex. A "hex:", "bech32:" or "cond:" prefix selects the
// encoding; a condition is turned into its address.
func ParseAddress(s string) (Address, error) {
	format, value := "hex", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, value = s[:i], s[i+1:]
	}

	var addr Address
	switch format {
	case "hex":
		raw, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "hex address: %s", err)
		}
		addr = raw
	case "bech32":
		_, five, err := bech32.Decode(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32 address: %s", err)
		}
		raw, err := bech32.ConvertBits(five, 5, 8, false)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32 bits: %s", err)
		}
		addr = raw
	case "cond":
		c, err := parseCondition(value)
		if err != nil {
			return nil, err
		}
		addr = c.Address()
	default:
		return nil, errors.Wrapf(errors.ErrType, "address format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
