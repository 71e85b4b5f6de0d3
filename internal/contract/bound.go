package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyResult is returned when a call yields no data, which usually means
// there is no contract at the address on the connected chain.
var ErrEmptyResult = errors.New("empty call result")

// Backend executes calls and transactions on behalf of an account. Both
// wallet providers satisfy it.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error)
}

// Bound is a contract ABI bound to an address, a sending account and a backend.
type Bound struct {
	address common.Address
	abi     abi.ABI
	from    common.Address
	backend Backend
}

// NewBound binds contractABI at address for the account from.
func NewBound(address common.Address, contractABI abi.ABI, from common.Address, backend Backend) *Bound {
	return &Bound{address: address, abi: contractABI, from: from, backend: backend}
}

// Address returns the contract address.
func (b *Bound) Address() common.Address { return b.address }

// From returns the account calls and transactions are sent from.
func (b *Bound) From() common.Address { return b.from }

// Call invokes a read function and returns the decoded outputs.
func (b *Bound) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}

	out, err := b.backend.CallContract(ctx, ethereum.CallMsg{From: b.from, To: &b.address, Data: data})
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", ErrEmptyResult, method, b.address.Hex())
	}

	values, err := b.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	return values, nil
}

// Transact sends a state-changing call and returns the transaction hash.
// Gas and fees are left to the backend.
func (b *Bound) Transact(ctx context.Context, method string, args ...interface{}) (common.Hash, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding %s: %w", method, err)
	}
	return b.backend.SendTransaction(ctx, ethereum.CallMsg{From: b.from, To: &b.address, Data: data})
}

// --- typed results ---

func (b *Bound) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	values, err := b.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	n, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decoding %s: unexpected %T", method, values[0])
	}
	return n, nil
}

func (b *Bound) callString(ctx context.Context, method string) (string, error) {
	values, err := b.Call(ctx, method)
	if err != nil {
		return "", err
	}
	s, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("decoding %s: unexpected %T", method, values[0])
	}
	return s, nil
}
