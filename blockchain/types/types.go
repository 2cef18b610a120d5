package types

import (
	"github.com/idena-network/indance-go/common"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
)

type TxType = uint16

const (
	DeployContract TxType = 0xF
	CallContract   TxType = 0x10
)

var cdc = amino.NewCodec()

type Header struct {
	Height uint64
	// Time is the unix timestamp the contracts observe as the current time.
	Time int64
	// Root is the state root after the block's transaction was applied.
	Root common.Hash
}

type headerModel struct {
	Height uint64
	Time   int64
	Root   []byte
}

func (h *Header) ToBytes() []byte {
	data, err := cdc.MarshalBinaryLengthPrefixed(headerModel{Height: h.Height, Time: h.Time, Root: h.Root.Bytes()})
	if err != nil {
		panic(errors.Wrap(err, "failed to encode header"))
	}
	return data
}

func (h *Header) FromBytes(data []byte) error {
	model := headerModel{}
	if err := cdc.UnmarshalBinaryLengthPrefixed(data, &model); err != nil {
		return errors.Wrap(err, "failed to decode header")
	}
	if len(model.Root) != common.HashLength {
		return errors.Errorf("invalid header root length %d", len(model.Root))
	}
	h.Height = model.Height
	h.Time = model.Time
	h.Root = common.BytesToHash(model.Root)
	return nil
}

// Transaction is a contract deploy or call issued by From.
type Transaction struct {
	Type     TxType
	From     common.Address
	To       *common.Address
	CodeHash common.Hash
	Method   string
	Args     [][]byte
}

type TxReceipt struct {
	Success         bool
	Error           error
	From            common.Address
	ContractAddress common.Address
	Method          string
	// Output is the contract call result, if the method produces one.
	Output      []byte
	BlockHeight uint64
}
