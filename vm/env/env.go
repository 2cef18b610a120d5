package env

import (
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/core/state"
	"github.com/pkg/errors"
	"math/big"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNegativeAmount    = errors.New("value must be non-negative")
	ErrNotAuthorized     = errors.New("payer is not the call sender")
)

type Env interface {
	BlockNumber() uint64
	BlockTimeStamp() int64
	SetValue(ctx CallContext, key []byte, value []byte)
	GetValue(ctx CallContext, key []byte) []byte
	RemoveValue(ctx CallContext, key []byte)
	Deploy(ctx CallContext, codeHash common.Hash)
	// Send moves amount from the contract balance to dest.
	Send(ctx CallContext, dest common.Address, amount *big.Int) error
	// TransferFrom moves amount from payer to the contract balance. Only the call sender may pay.
	TransferFrom(ctx CallContext, payer common.Address, amount *big.Int) error
	// Mint creates amount new coins on dest.
	Mint(ctx CallContext, dest common.Address, amount *big.Int) error
	// Burn destroys amount coins of from. Only the call sender's coins can be burnt.
	Burn(ctx CallContext, from common.Address, amount *big.Int) error
	Balance(address common.Address) *big.Int
	ReadContractData(contractAddr common.Address, key []byte) []byte
}

type contractValue struct {
	value   []byte
	removed bool
}

// EnvImp buffers every write of a call. Commit applies the buffer to the state, Reset drops it.
type EnvImp struct {
	state *state.StateDB
	block *types.Header

	contractStoreCache    map[common.Address]map[string]*contractValue
	balancesCache         map[common.Address]*big.Int
	deployedContractCache map[common.Address]common.Hash
	mintedCoins           *big.Int
	burntCoins            *big.Int
}

func NewEnvImp(s *state.StateDB, block *types.Header) *EnvImp {
	return &EnvImp{state: s, block: block,
		contractStoreCache:    map[common.Address]map[string]*contractValue{},
		balancesCache:         map[common.Address]*big.Int{},
		deployedContractCache: map[common.Address]common.Hash{},
		mintedCoins:           new(big.Int),
		burntCoins:            new(big.Int),
	}
}

func (e *EnvImp) getBalance(address common.Address) *big.Int {
	if b, ok := e.balancesCache[address]; ok {
		return b
	}
	return e.state.GetBalance(address)
}

func (e *EnvImp) addBalance(address common.Address, amount *big.Int) error {
	b, err := math.SafeAdd(e.getBalance(address), amount)
	if err != nil {
		return err
	}
	e.setBalance(address, b)
	return nil
}

func (e *EnvImp) subBalance(address common.Address, amount *big.Int) error {
	b, err := math.SafeSub(e.getBalance(address), amount)
	if err != nil {
		return ErrInsufficientFunds
	}
	e.setBalance(address, b)
	return nil
}

func (e *EnvImp) setBalance(address common.Address, amount *big.Int) {
	e.balancesCache[address] = amount
}

func (e *EnvImp) transfer(from, dest common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if err := e.subBalance(from, amount); err != nil {
		return err
	}
	return e.addBalance(dest, amount)
}

func (e *EnvImp) Send(ctx CallContext, dest common.Address, amount *big.Int) error {
	return e.transfer(ctx.ContractAddr(), dest, amount)
}

func (e *EnvImp) TransferFrom(ctx CallContext, payer common.Address, amount *big.Int) error {
	if payer != ctx.Sender() {
		return ErrNotAuthorized
	}
	return e.transfer(payer, ctx.ContractAddr(), amount)
}

func (e *EnvImp) Mint(ctx CallContext, dest common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	supply, err := math.SafeAdd(e.mintedCoins, amount)
	if err != nil {
		return err
	}
	if err := e.addBalance(dest, amount); err != nil {
		return err
	}
	e.mintedCoins = supply
	return nil
}

func (e *EnvImp) Burn(ctx CallContext, from common.Address, amount *big.Int) error {
	if from != ctx.Sender() {
		return ErrNotAuthorized
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if err := e.subBalance(from, amount); err != nil {
		return err
	}
	e.burntCoins = new(big.Int).Add(e.burntCoins, amount)
	return nil
}

func (e *EnvImp) Deploy(ctx CallContext, codeHash common.Hash) {
	e.deployedContractCache[ctx.ContractAddr()] = codeHash
}

func (e *EnvImp) BlockTimeStamp() int64 {
	return e.block.Time
}

func (e *EnvImp) BlockNumber() uint64 {
	return e.block.Height
}

func (e *EnvImp) SetValue(ctx CallContext, key []byte, value []byte) {

	addr := ctx.ContractAddr()
	var cache map[string]*contractValue
	var ok bool
	if cache, ok = e.contractStoreCache[addr]; !ok {
		cache = make(map[string]*contractValue)
		e.contractStoreCache[addr] = cache
	}
	cache[string(key)] = &contractValue{
		value:   value,
		removed: false,
	}
}

func (e *EnvImp) GetValue(ctx CallContext, key []byte) []byte {
	return e.ReadContractData(ctx.ContractAddr(), key)
}

func (e *EnvImp) RemoveValue(ctx CallContext, key []byte) {
	addr := ctx.ContractAddr()
	var cache map[string]*contractValue
	var ok bool
	if cache, ok = e.contractStoreCache[addr]; !ok {
		cache = map[string]*contractValue{}
		e.contractStoreCache[addr] = cache
	}
	cache[string(key)] = &contractValue{removed: true}
}

func (e *EnvImp) Balance(address common.Address) *big.Int {
	return e.getBalance(address)
}

func (e *EnvImp) ReadContractData(contractAddr common.Address, key []byte) []byte {
	if cache, ok := e.contractStoreCache[contractAddr]; ok {
		if value, ok := cache[string(key)]; ok {
			if value.removed {
				return nil
			}
			return value.value
		}
	}
	return e.state.GetContractValue(contractAddr, key)
}

func (e *EnvImp) Commit() {
	for contract, cache := range e.contractStoreCache {
		for k, v := range cache {
			if v.removed {
				e.state.RemoveContractValue(contract, []byte(k))
			} else {
				e.state.SetContractValue(contract, []byte(k), v.value)
			}
		}
	}
	for addr, b := range e.balancesCache {
		e.state.SetBalance(addr, b)
	}
	for contract, codeHash := range e.deployedContractCache {
		e.state.DeployContract(contract, codeHash)
	}
	if e.mintedCoins.Sign() > 0 {
		e.state.AddMintedCoins(e.mintedCoins)
	}
	if e.burntCoins.Sign() > 0 {
		e.state.AddBurntCoins(e.burntCoins)
	}
	e.Reset()
}

func (e *EnvImp) Reset() {
	e.contractStoreCache = map[common.Address]map[string]*contractValue{}
	e.balancesCache = map[common.Address]*big.Int{}
	e.deployedContractCache = map[common.Address]common.Hash{}
	e.mintedCoins = new(big.Int)
	e.burntCoins = new(big.Int)
}

type CallContext interface {
	Sender() common.Address
	ContractAddr() common.Address
}

type CallContextImpl struct {
	tx *types.Transaction
}

func NewCallContextImpl(tx *types.Transaction) *CallContextImpl {
	return &CallContextImpl{tx: tx}
}

func (c *CallContextImpl) ContractAddr() common.Address {
	return *c.tx.To
}

func (c *CallContextImpl) Sender() common.Address {
	return c.tx.From
}

type DeployContextImpl struct {
	tx           *types.Transaction
	contractAddr common.Address
}

func NewDeployContextImpl(tx *types.Transaction, contractAddr common.Address) *DeployContextImpl {
	return &DeployContextImpl{tx: tx, contractAddr: contractAddr}
}

func (d *DeployContextImpl) Sender() common.Address {
	return d.tx.From
}

func (d *DeployContextImpl) ContractAddr() common.Address {
	return d.contractAddr
}

// ReadContextImpl serves read-only methods, which have no sender.
type ReadContextImpl struct {
	Contract common.Address
}

func (r *ReadContextImpl) Sender() common.Address {
	return common.Address{}
}

func (r *ReadContextImpl) ContractAddr() common.Address {
	return r.Contract
}
