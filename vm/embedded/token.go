package embedded

import (
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/vm/env"
	"github.com/pkg/errors"
	"math/big"
)

type TokenMode = byte

const (
	// MintToken mints rewards and burns prices on the native ledger.
	MintToken TokenMode = iota
	// TreasuryToken pays rewards out of the contract balance and collects prices into it.
	TreasuryToken
)

// Token moves value on behalf of the contract.
type Token interface {
	Mint(dest common.Address, amount *big.Int) error
	Burn(from common.Address, amount *big.Int) error
	BalanceOf(addr common.Address) *big.Int
}

func newToken(mode TokenMode, ctx env.CallContext, e env.Env) Token {
	if mode == TreasuryToken {
		return &treasuryToken{ctx: ctx, env: e}
	}
	return &nativeToken{ctx: ctx, env: e}
}

func tokenError(err error) error {
	switch errors.Cause(err) {
	case env.ErrInsufficientFunds:
		return ErrInsufficientFunds
	case math.ErrOverflow:
		return ErrOverflow
	}
	return err
}

type nativeToken struct {
	ctx env.CallContext
	env env.Env
}

func (t *nativeToken) Mint(dest common.Address, amount *big.Int) error {
	return tokenError(t.env.Mint(t.ctx, dest, amount))
}

func (t *nativeToken) Burn(from common.Address, amount *big.Int) error {
	return tokenError(t.env.Burn(t.ctx, from, amount))
}

func (t *nativeToken) BalanceOf(addr common.Address) *big.Int {
	return t.env.Balance(addr)
}

type treasuryToken struct {
	ctx env.CallContext
	env env.Env
}

func (t *treasuryToken) Mint(dest common.Address, amount *big.Int) error {
	return tokenError(t.env.Send(t.ctx, dest, amount))
}

func (t *treasuryToken) Burn(from common.Address, amount *big.Int) error {
	return tokenError(t.env.TransferFrom(t.ctx, from, amount))
}

func (t *treasuryToken) BalanceOf(addr common.Address) *big.Int {
	return t.env.Balance(addr)
}
