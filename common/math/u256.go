package math

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"math/big"
)

var (
	ErrOverflow  = errors.New("overflow")
	ErrUnderflow = errors.New("underflow")
	ErrNegative  = errors.New("negative value")
)

// MaxU256 is 2^256 - 1.
var MaxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func toU256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, ErrNegative
	}
	r, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

// FitsU256 reports whether v can be represented as an unsigned 256-bit integer.
func FitsU256(v *big.Int) bool {
	_, err := toU256(v)
	return err == nil
}

// SafeAdd returns a+b or ErrOverflow if the sum does not fit into 256 bits.
func SafeAdd(a, b *big.Int) (*big.Int, error) {
	x, err := toU256(a)
	if err != nil {
		return nil, err
	}
	y, err := toU256(b)
	if err != nil {
		return nil, err
	}
	r, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return r.ToBig(), nil
}

// SafeSub returns a-b or ErrUnderflow if b > a.
func SafeSub(a, b *big.Int) (*big.Int, error) {
	x, err := toU256(a)
	if err != nil {
		return nil, err
	}
	y, err := toU256(b)
	if err != nil {
		return nil, err
	}
	r, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow
	}
	return r.ToBig(), nil
}

// SafeMul returns a*b or ErrOverflow if the product does not fit into 256 bits.
func SafeMul(a, b *big.Int) (*big.Int, error) {
	x, err := toU256(a)
	if err != nil {
		return nil, err
	}
	y, err := toU256(b)
	if err != nil {
		return nil, err
	}
	r, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return r.ToBig(), nil
}
