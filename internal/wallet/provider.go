package wallet

import (
	"context"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// Provider is an EIP-1193 style wallet: it owns the accounts, decides which
// network is active and signs what the user authorises.
type Provider interface {
	// RequestAccounts asks the user for account access.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// ChainID returns the network the wallet is currently on.
	ChainID(ctx context.Context) (uint64, error)
	// SwitchChain asks the wallet to change network. Unknown networks fail
	// with CodeUnrecognizedChain.
	SwitchChain(ctx context.Context, chainID uint64) error
	// AddChain offers a network descriptor to the wallet.
	AddChain(ctx context.Context, params chain.AddChainParams) error

	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	// SendTransaction has the wallet sign and broadcast msg.
	SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error)
	// TransactionReceipt reports ethereum.NotFound while the tx is pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	// SubscribeEvents delivers account and network changes to ch.
	SubscribeEvents(ch chan<- Event) event.Subscription
}

// EventKind identifies a wallet notification.
type EventKind int

const (
	EventAccountsChanged EventKind = iota
	EventChainChanged
)

func (k EventKind) String() string {
	switch k {
	case EventAccountsChanged:
		return "accountsChanged"
	case EventChainChanged:
		return "chainChanged"
	default:
		return "unknown"
	}
}

// Event is an accountsChanged or chainChanged notification.
type Event struct {
	Kind     EventKind
	Accounts []common.Address // EventAccountsChanged
	ChainID  uint64           // EventChainChanged
}
