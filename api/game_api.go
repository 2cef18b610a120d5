package api

import (
	"github.com/idena-network/indance-go/blockchain"
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/vm/embedded"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"math/big"
)

// GameApi exposes the dance floor contract with coin denominated amounts.
type GameApi struct {
	bc   *blockchain.Blockchain
	feed *receiptFeed
}

func NewGameApi(bc *blockchain.Blockchain) *GameApi {
	return &GameApi{bc: bc, feed: newReceiptFeed()}
}

type Dancer struct {
	Level  byte   `json:"level"`
	Params uint64 `json:"params"`
}

type DanceFloor struct {
	Index    uint32          `json:"index"`
	Dancers  []Dancer        `json:"dancers"`
	BaseRate decimal.Decimal `json:"baseRate"`
	Full     bool            `json:"full"`
}

type Account struct {
	Address       common.Address  `json:"address"`
	FloorCount    uint32          `json:"floorCount"`
	LastClaimedAt uint64          `json:"lastClaimedAt"`
	AccrualRate   decimal.Decimal `json:"accrualRate"`
	Claimable     decimal.Decimal `json:"claimable"`
	Balance       decimal.Decimal `json:"balance"`
}

type Tier struct {
	Tier  byte            `json:"tier"`
	Rate  decimal.Decimal `json:"rate"`
	Price decimal.Decimal `json:"price"`
}

type Params struct {
	TokenMode    string          `json:"tokenMode"`
	FloorPrice   decimal.Decimal `json:"floorPrice"`
	StarterBonus decimal.Decimal `json:"starterBonus"`
	Contract     common.Address  `json:"contract"`
}

type Supply struct {
	Minted decimal.Decimal `json:"minted"`
	Burnt  decimal.Decimal `json:"burnt"`
}

type TxResult struct {
	BlockHeight uint64           `json:"blockHeight"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

func (api *GameApi) DanceFloor(addr common.Address, index uint32) (*DanceFloor, error) {
	data, err := api.bc.ReadContract("getDanceFloor", addr.Bytes(), common.ToBytes(index))
	if err != nil {
		return nil, err
	}
	floor := new(embedded.DanceFloor)
	if err := floor.FromBytes(data); err != nil {
		return nil, err
	}
	result := &DanceFloor{
		Index:    index,
		Dancers:  make([]Dancer, 0, embedded.DancersPerFloor),
		BaseRate: math.BaseToCoins(floor.BaseRate),
		Full:     floor.IsFull(),
	}
	for _, d := range floor.Dancers {
		result.Dancers = append(result.Dancers, Dancer{Level: d.Level, Params: d.Params})
	}
	return result, nil
}

func (api *GameApi) claimable(addr common.Address) (*big.Int, error) {
	data, err := api.bc.ReadContract("getClaimable", addr.Bytes())
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(data), nil
}

func (api *GameApi) Claimable(addr common.Address) (decimal.Decimal, error) {
	amount, err := api.claimable(addr)
	if err != nil {
		return decimal.Zero, err
	}
	return math.BaseToCoins(amount), nil
}

func (api *GameApi) Account(addr common.Address) (*Account, error) {
	data, err := api.bc.ReadContract("getAccount", addr.Bytes())
	if err != nil {
		return nil, err
	}
	state := new(embedded.AccountState)
	if err := state.FromBytes(data); err != nil {
		return nil, err
	}
	claimable, err := api.claimable(addr)
	if err != nil {
		return nil, err
	}
	return &Account{
		Address:       addr,
		FloorCount:    state.FloorCount,
		LastClaimedAt: state.LastClaimedAt,
		AccrualRate:   math.BaseToCoins(state.AccrualRate),
		Claimable:     math.BaseToCoins(claimable),
		Balance:       math.BaseToCoins(api.bc.Balance(addr)),
	}, nil
}

func (api *GameApi) Balance(addr common.Address) decimal.Decimal {
	return math.BaseToCoins(api.bc.Balance(addr))
}

func (api *GameApi) Tiers() ([]Tier, error) {
	data, err := api.bc.ReadContract("getTiers")
	if err != nil {
		return nil, err
	}
	tiers, err := embedded.TiersFromBytes(data)
	if err != nil {
		return nil, err
	}
	result := make([]Tier, 0, len(tiers))
	for i, t := range tiers {
		result = append(result, Tier{
			Tier:  byte(i + 1),
			Rate:  math.BaseToCoins(t.Rate),
			Price: decimal.NewFromBigInt(t.Price, 0),
		})
	}
	return result, nil
}

func (api *GameApi) Params() (*Params, error) {
	data, err := api.bc.ReadContract("getParams")
	if err != nil {
		return nil, err
	}
	params := new(embedded.GameParams)
	if err := params.FromBytes(data); err != nil {
		return nil, err
	}
	mode := "mint"
	if params.TokenMode == embedded.TreasuryToken {
		mode = "treasury"
	}
	return &Params{
		TokenMode:    mode,
		FloorPrice:   math.BaseToCoins(params.FloorPrice),
		StarterBonus: math.BaseToCoins(params.StarterBonus),
		Contract:     api.bc.ContractAddress(),
	}, nil
}

func (api *GameApi) Supply() *Supply {
	minted, burnt := api.bc.Supply()
	return &Supply{Minted: math.BaseToCoins(minted), Burnt: math.BaseToCoins(burnt)}
}

func (api *GameApi) call(from common.Address, method string, args ...[]byte) (*types.TxReceipt, error) {
	to := api.bc.ContractAddress()
	receipt, err := api.bc.ApplyTx(&types.Transaction{
		Type:   types.CallContract,
		From:   from,
		To:     &to,
		Method: method,
		Args:   args,
	})
	if err != nil {
		return nil, err
	}
	api.feed.publish(newReceiptEvent(receipt))
	if !receipt.Success {
		return receipt, errors.WithMessagef(receipt.Error, "%v", method)
	}
	return receipt, nil
}

func (api *GameApi) Claim(from common.Address) (*TxResult, error) {
	receipt, err := api.call(from, "claim")
	if err != nil {
		return nil, err
	}
	amount := math.BaseToCoins(new(big.Int).SetBytes(receipt.Output))
	return &TxResult{BlockHeight: receipt.BlockHeight, Amount: &amount}, nil
}

func (api *GameApi) BuyFloor(from common.Address) (*TxResult, error) {
	receipt, err := api.call(from, "buyFloor")
	if err != nil {
		return nil, err
	}
	return &TxResult{BlockHeight: receipt.BlockHeight}, nil
}

func (api *GameApi) BuyDancer(from common.Address, tier byte) (*TxResult, error) {
	receipt, err := api.call(from, "buyDancer", []byte{tier})
	if err != nil {
		return nil, err
	}
	return &TxResult{BlockHeight: receipt.BlockHeight}, nil
}
