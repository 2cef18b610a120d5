package embedded

import (
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/stats/collector"
	env2 "github.com/idena-network/indance-go/vm/env"
	"math/big"
)

type EmbeddedContractType = common.Hash

var (
	InDanceContract    EmbeddedContractType
	AvailableContracts map[EmbeddedContractType]struct{}
)

func init() {
	InDanceContract.SetBytes([]byte{0x1})

	AvailableContracts = map[EmbeddedContractType]struct{}{
		InDanceContract: {},
	}
}

type Contract interface {
	Deploy(args ...[]byte) error
	Call(method string, args ...[]byte) ([]byte, error)
	Read(method string, args ...[]byte) ([]byte, error)
}

// base contract with useful common methods

type BaseContract struct {
	ctx            env2.CallContext
	env            env2.Env
	statsCollector collector.StatsCollector
}

func (b *BaseContract) Deploy(contractType EmbeddedContractType) {
	b.env.Deploy(b.ctx, contractType)
}

func (b *BaseContract) SetBigInt(s string, value *big.Int) {
	b.env.SetValue(b.ctx, []byte(s), value.Bytes())
}

func (b *BaseContract) GetBigInt(s string) *big.Int {
	data := b.env.GetValue(b.ctx, []byte(s))
	if data == nil {
		return nil
	}
	ret := new(big.Int)
	ret.SetBytes(data)
	return ret
}

func (b *BaseContract) SetByte(s string, value byte) {
	b.env.SetValue(b.ctx, []byte(s), []byte{value})
}

func (b *BaseContract) GetByte(s string) byte {
	data := b.env.GetValue(b.ctx, []byte(s))
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

// Now returns the block time as an unsigned timestamp.
func (b *BaseContract) Now() (uint64, error) {
	ts := b.env.BlockTimeStamp()
	if ts < 0 {
		return 0, ErrInvalidTimestamp
	}
	return uint64(ts), nil
}
