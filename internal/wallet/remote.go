package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultRemoteEndpoint is where Frame and similar desktop wallets listen.
const DefaultRemoteEndpoint = "http://127.0.0.1:1248"

// Remote is a Provider that forwards requests to an external wallet speaking
// EIP-1193 over JSON-RPC. Account and network changes are detected by polling.
type Remote struct {
	url    string
	rpc    *rpc.Client
	eth    *ethclient.Client
	period time.Duration

	feed  event.Feed
	scope event.SubscriptionScope

	mu       sync.Mutex
	watching bool
	stop     context.CancelFunc
	done     chan struct{}
}

// DialRemote connects to the wallet at url.
func DialRemote(ctx context.Context, url string, pollPeriod time.Duration) (*Remote, error) {
	rc, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing wallet %s: %w", url, err)
	}
	return &Remote{url: url, rpc: rc, eth: ethclient.NewClient(rc), period: pollPeriod}, nil
}

// URL returns the wallet endpoint.
func (r *Remote) URL() string { return r.url }

func (r *Remote) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := r.rpc.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *Remote) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := r.rpc.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *Remote) SwitchChain(ctx context.Context, chainID uint64) error {
	param := map[string]interface{}{"chainId": hexutil.Uint64(chainID)}
	return r.rpc.CallContext(ctx, nil, "wallet_switchEthereumChain", param)
}

func (r *Remote) AddChain(ctx context.Context, params chain.AddChainParams) error {
	return r.rpc.CallContext(ctx, nil, "wallet_addEthereumChain", params)
}

func (r *Remote) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return r.eth.CallContract(ctx, msg, nil)
}

// SendTransaction hands msg to the wallet, which fills in gas, fees and
// nonce, asks the user and broadcasts.
func (r *Remote) SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error) {
	var hash common.Hash
	if err := r.rpc.CallContext(ctx, &hash, "eth_sendTransaction", toTxArg(msg)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (r *Remote) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return r.eth.TransactionReceipt(ctx, hash)
}

// SubscribeEvents delivers account and network changes to ch. The first
// subscription starts the poller.
func (r *Remote) SubscribeEvents(ch chan<- Event) event.Subscription {
	sub := r.scope.Track(r.feed.Subscribe(ch))

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.watching {
		ctx, cancel := context.WithCancel(context.Background())
		r.watching, r.stop, r.done = true, cancel, make(chan struct{})
		go r.watch(ctx)
	}
	return sub
}

// Close stops polling, ends all subscriptions and closes the connection.
func (r *Remote) Close() {
	r.mu.Lock()
	stop, done := r.stop, r.done
	r.watching = false
	r.mu.Unlock()

	// Unsubscribing first unblocks a poller stuck in Send.
	r.scope.Close()
	if stop != nil {
		stop()
		<-done
	}
	r.rpc.Close()
}

// --- polling ---

type walletView struct {
	accounts []common.Address
	chainID  uint64
}

func (r *Remote) poll(ctx context.Context) (walletView, error) {
	var v walletView
	if err := r.rpc.CallContext(ctx, &v.accounts, "eth_accounts"); err != nil {
		return v, err
	}
	id, err := r.ChainID(ctx)
	v.chainID = id
	return v, err
}

func (r *Remote) watch(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	var last *walletView
	for {
		if v, err := r.poll(ctx); err != nil {
			log.Debug("Wallet poll failed", "url", r.url, "err", err)
		} else {
			if last != nil {
				for _, ev := range diffView(*last, v) {
					r.feed.Send(ev)
				}
			}
			last = &v
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// diffView returns the events that turn prev into next.
func diffView(prev, next walletView) []Event {
	var events []Event
	if !sameAccounts(prev.accounts, next.accounts) {
		events = append(events, Event{Kind: EventAccountsChanged, Accounts: next.accounts})
	}
	if prev.chainID != next.chainID {
		events = append(events, Event{Kind: EventChainChanged, ChainID: next.chainID})
	}
	return events
}

func sameAccounts(a, b []common.Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toTxArg(msg ethereum.CallMsg) map[string]interface{} {
	arg := map[string]interface{}{
		"from": msg.From,
		"data": hexutil.Bytes(msg.Data),
	}
	if msg.To != nil {
		arg["to"] = msg.To
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	return arg
}
