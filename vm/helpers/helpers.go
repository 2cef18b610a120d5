package helpers

import (
	"bytes"
	"encoding/binary"
	"github.com/idena-network/indance-go/common"
	"github.com/pkg/errors"
	"math/big"
)

var (
	indexOufOfRange = errors.New("index out of range")
	invalidLength   = errors.New("invalid argument length")
)

func assertLen(index int, args ...[]byte) error {
	if index >= len(args) {
		return indexOufOfRange
	}
	return nil
}

func ExtractAddr(index int, args ...[]byte) (common.Address, error) {
	if err := assertLen(index, args...); err != nil {
		return common.Address{}, err
	}
	if len(args[index]) != common.AddressLength {
		return common.Address{}, errors.Wrapf(invalidLength, "address argument %d", index)
	}
	addr := common.Address{}
	addr.SetBytes(args[index])
	return addr, nil
}

func ExtractByte(index int, args ...[]byte) (byte, error) {
	if err := assertLen(index, args...); err != nil {
		return 0, err
	}
	if len(args[index]) != 1 {
		return 0, errors.Wrapf(invalidLength, "byte argument %d", index)
	}
	return args[index][0], nil
}

func ExtractUInt32(index int, args ...[]byte) (uint32, error) {
	if err := assertLen(index, args...); err != nil {
		return 0, err
	}
	var ret uint32
	buf := bytes.NewBuffer(args[index])
	if err := binary.Read(buf, binary.LittleEndian, &ret); err != nil {
		return 0, err
	}
	return ret, nil
}

func ExtractUInt64(index int, args ...[]byte) (uint64, error) {
	if err := assertLen(index, args...); err != nil {
		return 0, err
	}
	var ret uint64
	buf := bytes.NewBuffer(args[index])
	if err := binary.Read(buf, binary.LittleEndian, &ret); err != nil {
		return 0, err
	}
	return ret, nil
}

func ExtractBigInt(index int, args ...[]byte) (*big.Int, error) {
	if err := assertLen(index, args...); err != nil {
		return nil, err
	}
	ret := new(big.Int)
	ret.SetBytes(args[index])
	return ret, nil
}

func ExtractArray(index int, args ...[]byte) ([]byte, error) {
	if err := assertLen(index, args...); err != nil {
		return nil, err
	}
	return args[index], nil
}
