package common

import (
	"encoding/binary"
	"math/big"
)

var (
	Big0 = big.NewInt(0)
	Big1 = big.NewInt(1)

	// CoinDecimals is the number of decimal places of the reward coin.
	CoinDecimals = int64(18)
	// CoinBase is 10^CoinDecimals, the number of base units in one coin.
	CoinBase = new(big.Int).Exp(big.NewInt(10), big.NewInt(CoinDecimals), nil)
)

// ToBytes returns the little endian encoding of an unsigned value.
func ToBytes(data interface{}) []byte {
	switch v := data.(type) {
	case byte:
		return []byte{v}
	case uint16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	case uint32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, v)
		return b
	case int64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v))
		return b
	}
	return nil
}
