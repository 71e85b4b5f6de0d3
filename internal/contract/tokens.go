package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ERC20Token is a handle to an ERC-20 token.
type ERC20Token struct{ *Bound }

// NewERC20 binds the ERC-20 interface at address for from.
func NewERC20(address, from common.Address, backend Backend) *ERC20Token {
	return &ERC20Token{NewBound(address, MustBuiltinABI(ERC20), from, backend)}
}

// BalanceOf returns the raw token balance of owner.
func (t *ERC20Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return t.callBig(ctx, "balanceOf", owner)
}

// Allowance returns how much spender may transfer on behalf of owner.
func (t *ERC20Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return t.callBig(ctx, "allowance", owner, spender)
}

// Approve lets spender transfer up to amount from the bound account.
func (t *ERC20Token) Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error) {
	return t.Transact(ctx, "approve", spender, amount)
}

// Symbol returns the token ticker.
func (t *ERC20Token) Symbol(ctx context.Context) (string, error) {
	return t.callString(ctx, "symbol")
}

// Decimals returns the token's decimal scale.
func (t *ERC20Token) Decimals(ctx context.Context) (uint8, error) {
	values, err := t.Call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decoding decimals: unexpected %T", values[0])
	}
	return d, nil
}

// MintTokenHandle is a handle to the launchpad token.
type MintTokenHandle struct{ *Bound }

// NewMintToken binds the launchpad token at address for from.
func NewMintToken(address, from common.Address, backend Backend) *MintTokenHandle {
	return &MintTokenHandle{NewBound(address, MustBuiltinABI(MintToken), from, backend)}
}

// BalanceOf returns the raw token balance of owner.
func (t *MintTokenHandle) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return t.callBig(ctx, "balanceOf", owner)
}

// Name returns the token name.
func (t *MintTokenHandle) Name(ctx context.Context) (string, error) {
	return t.callString(ctx, "name")
}

// Symbol returns the token ticker.
func (t *MintTokenHandle) Symbol(ctx context.Context) (string, error) {
	return t.callString(ctx, "symbol")
}

// Mint sends a mint() transaction from the bound account.
func (t *MintTokenHandle) Mint(ctx context.Context) (common.Hash, error) {
	return t.Transact(ctx, "mint")
}

// ForwarderHandle is a handle to the ERC-2771 forwarder.
type ForwarderHandle struct{ *Bound }

// NewForwarder binds the forwarder interface at address for from.
func NewForwarder(address, from common.Address, backend Backend) *ForwarderHandle {
	return &ForwarderHandle{NewBound(address, MustBuiltinABI(Forwarder), from, backend)}
}

// GetNonce returns the next relay nonce of account.
func (f *ForwarderHandle) GetNonce(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.callBig(ctx, "getNonce", account)
}
