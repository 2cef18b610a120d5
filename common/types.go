package common

import (
	"encoding/hex"
	"github.com/pkg/errors"
	"strings"
)

const (
	HashLength    = 32
	AddressLength = 20
)

var (
	MinAddr = Address{}
	MaxAddr = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	errInvalidHex = errors.New("invalid hex string")
)

// Hash represents the 32 byte code hash of an embedded contract.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// Address represents the 20 byte address of an account.
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress parses s, silently returning the zero address on malformed input.
func HexToAddress(s string) Address {
	a, _ := ParseAddress(s)
	return a
}

func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != AddressLength*2 {
		return Address{}, errors.Wrapf(errInvalidHex, "address must have %d hex digits", AddressLength*2)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, errors.Wrap(errInvalidHex, err.Error())
	}
	return BytesToAddress(b), nil
}

// SetBytes sets the address to the value of b.
// If b is larger than len(a) it will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

func (a Address) IsEmpty() bool { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	addr, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
