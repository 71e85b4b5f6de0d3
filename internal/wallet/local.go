package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/Mohsinsiddi/bn8004/internal/contract"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

// AuthKind is the kind of request a Local wallet asks the user to approve.
type AuthKind int

const (
	AuthAccounts AuthKind = iota
	AuthSwitchChain
	AuthAddChain
	AuthTransaction
)

// AuthRequest describes something the user must approve.
type AuthRequest struct {
	Kind    AuthKind
	Account common.Address
	Chain   chain.Chain       // AuthSwitchChain, AuthAddChain
	Tx      *ethereum.CallMsg // AuthTransaction
}

// Summary is a one-line description suitable for a prompt.
func (r AuthRequest) Summary() string {
	switch r.Kind {
	case AuthAccounts:
		return fmt.Sprintf("Connect account %s?", r.Account.Hex())
	case AuthSwitchChain:
		return fmt.Sprintf("Switch network to %s (chain %d)?", r.Chain.DisplayName, r.Chain.ChainID)
	case AuthAddChain:
		return fmt.Sprintf("Add network %s (chain %d)?", r.Chain.DisplayName, r.Chain.ChainID)
	case AuthTransaction:
		to := "contract creation"
		if r.Tx.To != nil {
			to = r.Tx.To.Hex()
		}
		return fmt.Sprintf("Sign transaction to %s (%d bytes of data)?", to, len(r.Tx.Data))
	default:
		return "Approve request?"
	}
}

// AuthorizeFunc asks the user to approve req. Returning false rejects the
// request with CodeUserRejected.
type AuthorizeFunc func(ctx context.Context, req AuthRequest) bool

// AutoApprove approves every request. Suitable when the command line itself
// is the user's consent.
func AutoApprove(context.Context, AuthRequest) bool { return true }

// Local is a Provider backed by a keystore signer and direct RPC access.
type Local struct {
	signer    *Signer
	authorize AuthorizeFunc

	mu         sync.Mutex
	known      map[uint64]chain.Chain
	clients    map[uint64]*chain.Client
	active     uint64
	authorized bool

	feed event.Feed
}

// LocalOption configures a Local wallet.
type LocalOption func(*Local)

// WithAuthorizer sets the approval callback. The default is AutoApprove.
func WithAuthorizer(fn AuthorizeFunc) LocalOption {
	return func(l *Local) { l.authorize = fn }
}

// WithKnownChains adds networks the wallet can switch to.
func WithKnownChains(chains ...chain.Chain) LocalOption {
	return func(l *Local) {
		for _, c := range chains {
			l.known[c.ChainID] = c
		}
	}
}

// NewLocal creates a wallet that starts on active. The first RPC URL of each
// known chain is used for calls.
func NewLocal(signer *Signer, active chain.Chain, opts ...LocalOption) *Local {
	l := &Local{
		signer:    signer,
		authorize: AutoApprove,
		known:     map[uint64]chain.Chain{active.ChainID: active},
		clients:   make(map[uint64]*chain.Client),
		active:    active.ChainID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequestAccounts asks for account access once per wallet lifetime.
func (l *Local) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	l.mu.Lock()
	authorized := l.authorized
	l.mu.Unlock()

	if !authorized {
		if !l.authorize(ctx, AuthRequest{Kind: AuthAccounts, Account: l.signer.Address()}) {
			return nil, newProviderError(CodeUserRejected, "user rejected the request")
		}
		l.mu.Lock()
		l.authorized = true
		l.mu.Unlock()
	}
	return []common.Address{l.signer.Address()}, nil
}

// ChainID returns the active network.
func (l *Local) ChainID(context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active, nil
}

// SwitchChain activates a known network.
func (l *Local) SwitchChain(ctx context.Context, chainID uint64) error {
	l.mu.Lock()
	c, ok := l.known[chainID]
	current := l.active
	l.mu.Unlock()

	if !ok {
		return newProviderError(CodeUnrecognizedChain, "unrecognized chain ID 0x%x", chainID)
	}
	if current == chainID {
		return nil
	}
	if !l.authorize(ctx, AuthRequest{Kind: AuthSwitchChain, Account: l.signer.Address(), Chain: c}) {
		return newProviderError(CodeUserRejected, "user rejected the request")
	}
	l.setActive(chainID)
	return nil
}

// AddChain verifies the offered RPC serves the announced chain, remembers the
// network and switches to it.
func (l *Local) AddChain(ctx context.Context, params chain.AddChainParams) error {
	if err := params.Validate(); err != nil {
		return newProviderError(CodeInvalidParams, "%v", err)
	}
	c := params.Chain()
	if !l.authorize(ctx, AuthRequest{Kind: AuthAddChain, Account: l.signer.Address(), Chain: c}) {
		return newProviderError(CodeUserRejected, "user rejected the request")
	}

	client, err := chain.Dial(ctx, c.RPCs[0])
	if err != nil {
		return newProviderError(CodeInternal, "%v", err)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return newProviderError(CodeInternal, "querying %s: %v", c.RPCs[0], err)
	}
	if id != c.ChainID {
		client.Close()
		return newProviderError(CodeInvalidParams, "rpc %s serves chain %d, not %d", c.RPCs[0], id, c.ChainID)
	}

	l.mu.Lock()
	l.known[c.ChainID] = c
	if old, ok := l.clients[c.ChainID]; ok {
		old.Close()
	}
	l.clients[c.ChainID] = client
	l.mu.Unlock()

	l.setActive(c.ChainID)
	return nil
}

// CallContract executes a read-only call on the active network.
func (l *Local) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	client, _, err := l.client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Eth().CallContract(ctx, msg, nil)
}

// SendTransaction builds an EIP-1559 transaction from msg, asks for approval,
// signs and broadcasts it on the active network.
func (l *Local) SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error) {
	from := l.signer.Address()
	if msg.From != (common.Address{}) && msg.From != from {
		return common.Hash{}, newProviderError(CodeUnauthorized, "account %s is not managed by this wallet", msg.From.Hex())
	}
	if !l.signer.CanSign() {
		return common.Hash{}, newProviderError(CodeUnauthorized, "wallet %s is watch-only", from.Hex())
	}
	msg.From = from

	if !l.authorize(ctx, AuthRequest{Kind: AuthTransaction, Account: from, Tx: &msg}) {
		return common.Hash{}, newProviderError(CodeUserRejected, "user denied transaction signature")
	}

	client, chainID, err := l.client(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	eth := client.Eth()

	gas := msg.Gas
	if gas == 0 {
		if gas, err = eth.EstimateGas(ctx, msg); err != nil {
			gas = contract.GasFallback(msg.Data)
			log.Debug("Gas estimation failed, using fallback", "gas", gas, "err", err)
		}
	}

	gasPrice, err := eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	value := msg.Value
	if value == nil {
		value = big.NewInt(0)
	}
	id := new(big.Int).SetUint64(chainID)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   id,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        msg.To,
		Value:     value,
		Data:      msg.Data,
	})

	signed, err := l.signer.SignTx(tx, id)
	if err != nil {
		return common.Hash{}, err
	}
	if err := eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", err)
	}
	log.Info("Transaction sent", "hash", signed.Hash(), "nonce", nonce, "gas", gas)
	return signed.Hash(), nil
}

// TransactionReceipt fetches a receipt from the active network.
func (l *Local) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	client, _, err := l.client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Eth().TransactionReceipt(ctx, hash)
}

// SubscribeEvents delivers chain switches to ch. The account never changes.
func (l *Local) SubscribeEvents(ch chan<- Event) event.Subscription {
	return l.feed.Subscribe(ch)
}

// Close releases all RPC connections.
func (l *Local) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, c := range l.clients {
		c.Close()
		delete(l.clients, id)
	}
}

// --- helpers ---

func (l *Local) setActive(chainID uint64) {
	l.mu.Lock()
	changed := l.active != chainID
	l.active = chainID
	l.mu.Unlock()

	if changed {
		log.Info("Wallet network changed", "chain", chainID)
		l.feed.Send(Event{Kind: EventChainChanged, ChainID: chainID})
	}
}

// client returns the RPC client of the active network, dialing on first use.
func (l *Local) client(ctx context.Context) (*chain.Client, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.active
	if c, ok := l.clients[id]; ok {
		return c, id, nil
	}
	known := l.known[id]
	if len(known.RPCs) == 0 {
		return nil, 0, newProviderError(CodeDisconnected, "no RPC endpoint for chain %d", id)
	}
	c, err := chain.Dial(ctx, known.RPCs[0])
	if err != nil {
		return nil, 0, newProviderError(CodeDisconnected, "%v", err)
	}
	l.clients[id] = c
	return c, id, nil
}
