package vm

import (
	"fmt"
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/core/state"
	"github.com/idena-network/indance-go/log"
	"github.com/idena-network/indance-go/stats/collector"
	"github.com/idena-network/indance-go/vm/embedded"
	env2 "github.com/idena-network/indance-go/vm/env"
	"github.com/pkg/errors"
)

var (
	UnexpectedTx    = errors.New("unexpected tx type")
	UnknownContract = errors.New("unknown contract")
	NoRecipient     = errors.New("contract address is not set")
)

type VM interface {
	Run(tx *types.Transaction) *types.TxReceipt
	Read(contractAddr common.Address, method string, args ...[]byte) ([]byte, error)
}

type VmImpl struct {
	env            *env2.EnvImp
	state          *state.StateDB
	block          *types.Header
	statsCollector collector.StatsCollector
	log            log.Logger
}

func NewVmImpl(s *state.StateDB, block *types.Header, statsCollector collector.StatsCollector) *VmImpl {
	return &VmImpl{
		env:            env2.NewEnvImp(s, block),
		state:          s,
		block:          block,
		statsCollector: statsCollector,
		log:            log.New("component", "vm"),
	}
}

func (vm *VmImpl) createContract(ctx env2.CallContext, codeHash common.Hash) embedded.Contract {
	switch codeHash {
	case embedded.InDanceContract:
		return embedded.NewInDance(ctx, vm.env, vm.statsCollector)
	default:
		return nil
	}
}

func (vm *VmImpl) deploy(tx *types.Transaction) (common.Address, error) {
	if tx.To == nil {
		return common.Address{}, NoRecipient
	}
	ctx := env2.NewDeployContextImpl(tx, *tx.To)
	if vm.state.GetCodeHash(*tx.To) != nil {
		return ctx.ContractAddr(), embedded.ErrAlreadyDeployed
	}
	contract := vm.createContract(ctx, tx.CodeHash)
	if contract == nil {
		return ctx.ContractAddr(), UnknownContract
	}
	return ctx.ContractAddr(), contract.Deploy(tx.Args...)
}

func (vm *VmImpl) call(tx *types.Transaction) (common.Address, []byte, error) {
	if tx.To == nil {
		return common.Address{}, nil, NoRecipient
	}
	ctx := env2.NewCallContextImpl(tx)
	codeHash := vm.state.GetCodeHash(*tx.To)
	if codeHash == nil {
		return ctx.ContractAddr(), nil, UnknownContract
	}
	contract := vm.createContract(ctx, *codeHash)
	if contract == nil {
		return ctx.ContractAddr(), nil, UnknownContract
	}
	output, err := contract.Call(tx.Method, tx.Args...)
	return ctx.ContractAddr(), output, err
}

// Run applies tx atomically: either every change of the call is committed into the state or none.
func (vm *VmImpl) Run(tx *types.Transaction) (receipt *types.TxReceipt) {
	if tx.Type != types.CallContract && tx.Type != types.DeployContract {
		return &types.TxReceipt{Success: false, Error: UnexpectedTx, From: tx.From, BlockHeight: vm.block.Height}
	}
	collector.EnableCollecting(vm.statsCollector)

	var err error
	var output []byte
	var contractAddr common.Address

	defer func() {
		if r := recover(); r != nil {
			vm.log.Error("Contract execution panicked", "method", tx.Method, "err", r)
			err = fmt.Errorf("contract execution failed: %v", r)
		}
		if err != nil {
			vm.env.Reset()
			collector.DiscardCollecting(vm.statsCollector)
			output = nil
		} else {
			vm.env.Commit()
			collector.CompleteCollecting(vm.statsCollector)
		}
		receipt = &types.TxReceipt{
			Success:         err == nil,
			Error:           err,
			From:            tx.From,
			ContractAddress: contractAddr,
			Method:          tx.Method,
			Output:          output,
			BlockHeight:     vm.block.Height,
		}
	}()

	switch tx.Type {
	case types.CallContract:
		contractAddr, output, err = vm.call(tx)
	case types.DeployContract:
		contractAddr, err = vm.deploy(tx)
	}
	return
}

// Read runs a read-only contract method against the current state.
func (vm *VmImpl) Read(contractAddr common.Address, method string, args ...[]byte) ([]byte, error) {
	ctx := &env2.ReadContextImpl{Contract: contractAddr}
	codeHash := vm.state.GetCodeHash(contractAddr)
	if codeHash == nil {
		return nil, UnknownContract
	}
	contract := vm.createContract(ctx, *codeHash)
	if contract == nil {
		return nil, UnknownContract
	}
	return contract.Read(method, args...)
}
