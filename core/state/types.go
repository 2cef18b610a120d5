package state

import (
	"github.com/idena-network/indance-go/common"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
	"math/big"
)

var cdc = amino.NewCodec()

// Account is the ledger representation of an address: its coin balance and,
// for contract addresses, the code hash of the deployed embedded contract.
type Account struct {
	Balance  *big.Int
	Contract *ContractData
}

type ContractData struct {
	CodeHash common.Hash
}

// accountModel is the stored form of Account. An empty CodeHash means a plain account.
type accountModel struct {
	Balance  []byte
	CodeHash []byte
}

func (a *Account) ToBytes() []byte {
	model := accountModel{Balance: bigOrZero(a.Balance).Bytes()}
	if a.Contract != nil {
		model.CodeHash = a.Contract.CodeHash.Bytes()
	}
	data, err := cdc.MarshalBinaryLengthPrefixed(model)
	if err != nil {
		panic(errors.Wrap(err, "failed to encode account"))
	}
	return data
}

func (a *Account) FromBytes(data []byte) error {
	model := accountModel{}
	if err := cdc.UnmarshalBinaryLengthPrefixed(data, &model); err != nil {
		return errors.Wrap(err, "failed to decode account")
	}
	a.Balance = new(big.Int).SetBytes(model.Balance)
	a.Contract = nil
	if len(model.CodeHash) > 0 {
		if len(model.CodeHash) != common.HashLength {
			return errors.Errorf("invalid code hash length %d", len(model.CodeHash))
		}
		a.Contract = &ContractData{CodeHash: common.BytesToHash(model.CodeHash)}
	}
	return nil
}

// Global holds ledger wide supply counters.
type Global struct {
	MintedCoins *big.Int
	BurntCoins  *big.Int
}

type globalModel struct {
	MintedCoins []byte
	BurntCoins  []byte
}

func (g *Global) ToBytes() []byte {
	data, err := cdc.MarshalBinaryLengthPrefixed(globalModel{
		MintedCoins: bigOrZero(g.MintedCoins).Bytes(),
		BurntCoins:  bigOrZero(g.BurntCoins).Bytes(),
	})
	if err != nil {
		panic(errors.Wrap(err, "failed to encode global state"))
	}
	return data
}

func (g *Global) FromBytes(data []byte) error {
	model := globalModel{}
	if err := cdc.UnmarshalBinaryLengthPrefixed(data, &model); err != nil {
		return errors.Wrap(err, "failed to decode global state")
	}
	g.MintedCoins = new(big.Int).SetBytes(model.MintedCoins)
	g.BurntCoins = new(big.Int).SetBytes(model.BurntCoins)
	return nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return common.Big0
	}
	return v
}
