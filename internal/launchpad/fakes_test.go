package launchpad

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/Mohsinsiddi/bn8004/internal/contract"
	"github.com/Mohsinsiddi/bn8004/internal/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

var testAccount = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func testConfig() config.Launchpad {
	cfg := config.DefaultLaunchpad(config.EnvProduction)
	cfg.RefreshDelay = 50 * time.Millisecond
	return cfg
}

// ---------------------------------------------------------------------------
// fakeWallet
// ---------------------------------------------------------------------------

// sentTx is a decoded transaction request.
type sentTx struct {
	To     common.Address
	Method string
	Args   []interface{}
}

// fakeWallet is a wallet.Provider that serves the launchpad contracts from
// memory, decoding calldata with the real ABIs.
type fakeWallet struct {
	mu sync.Mutex

	accounts   []common.Address
	chainID    uint64
	requestErr error
	switchErr  error
	addErr     error
	// addSwitches makes a successful AddChain move the wallet to the added chain.
	addSwitches bool

	allowance  *big.Int
	paymentBal *big.Int
	mintBal    *big.Int
	readErr    error

	sendErr       error
	receiptStatus uint64
	// receiptPending reports every transaction as not yet mined.
	receiptPending bool
	// sendGate, when set, blocks SendTransaction until it is closed.
	sendGate chan struct{}

	switchCalls []uint64
	addCalls    []chain.AddChainParams
	reads       map[string]int
	sent        []sentTx

	abis map[common.Address]abi.ABI
	feed event.Feed
}

func newFakeWallet(cfg config.Launchpad) *fakeWallet {
	return &fakeWallet{
		accounts:      []common.Address{testAccount},
		chainID:       cfg.Chain.ChainID,
		addSwitches:   true,
		allowance:     big.NewInt(0),
		paymentBal:    big.NewInt(0),
		mintBal:       big.NewInt(0),
		receiptStatus: types.ReceiptStatusSuccessful,
		reads:         map[string]int{},
		abis: map[common.Address]abi.ABI{
			cfg.Payment.Address: contract.MustBuiltinABI(contract.ERC20),
			cfg.Mint.Address:    contract.MustBuiltinABI(contract.MintToken),
			cfg.Forwarder:       contract.MustBuiltinABI(contract.Forwarder),
		},
	}
}

func (w *fakeWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.requestErr != nil {
		return nil, w.requestErr
	}
	return w.accounts, nil
}

func (w *fakeWallet) ChainID(context.Context) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID, nil
}

func (w *fakeWallet) SwitchChain(_ context.Context, id uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switchCalls = append(w.switchCalls, id)
	if w.switchErr != nil {
		return w.switchErr
	}
	w.chainID = id
	return nil
}

func (w *fakeWallet) AddChain(_ context.Context, params chain.AddChainParams) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.addCalls = append(w.addCalls, params)
	if w.addErr != nil {
		return w.addErr
	}
	if w.addSwitches {
		w.chainID = uint64(params.ChainID)
	}
	return nil
}

func (w *fakeWallet) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.abis[*msg.To]
	m, err := a.MethodById(msg.Data)
	if err != nil {
		return nil, err
	}
	w.reads[m.Name]++
	if w.readErr != nil {
		return nil, w.readErr
	}

	var out *big.Int
	switch {
	case m.Name == "allowance":
		out = w.allowance
	case m.Name == "getNonce":
		out = big.NewInt(7)
	case m.Name == "balanceOf" && *msg.To == config.PaymentTokenAddress:
		out = w.paymentBal
	case m.Name == "balanceOf":
		out = w.mintBal
	default:
		return nil, errors.New("unexpected call " + m.Name)
	}
	return m.Outputs.Pack(out)
}

func (w *fakeWallet) SendTransaction(_ context.Context, msg ethereum.CallMsg) (common.Hash, error) {
	w.mu.Lock()
	gate := w.sendGate
	w.mu.Unlock()
	if gate != nil {
		<-gate
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sendErr != nil {
		return common.Hash{}, w.sendErr
	}
	a := w.abis[*msg.To]
	m, err := a.MethodById(msg.Data)
	if err != nil {
		return common.Hash{}, err
	}
	args, err := m.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return common.Hash{}, err
	}
	w.sent = append(w.sent, sentTx{To: *msg.To, Method: m.Name, Args: args})
	return common.BigToHash(big.NewInt(int64(len(w.sent)))), nil
}

func (w *fakeWallet) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.receiptPending {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: w.receiptStatus, TxHash: hash, BlockNumber: big.NewInt(1)}, nil
}

func (w *fakeWallet) SubscribeEvents(ch chan<- wallet.Event) event.Subscription {
	return w.feed.Subscribe(ch)
}

func (w *fakeWallet) set(fn func(w *fakeWallet)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w)
}

func (w *fakeWallet) readCount(method string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reads[method]
}

func (w *fakeWallet) sentTxs() []sentTx {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]sentTx(nil), w.sent...)
}

// ---------------------------------------------------------------------------
// fakeDisplay
// ---------------------------------------------------------------------------

type fakeDisplay struct {
	mu       sync.Mutex
	buttons  map[Control]ButtonState
	address  string
	payment  string
	mint     string
	panel    bool
	messages []Message
	writes   int
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{buttons: Disconnected(), address: AddressDisconnected}
}

func (d *fakeDisplay) SetButton(c Control, s ButtonState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttons[c] = s
	d.writes++
}

func (d *fakeDisplay) SetAddress(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.address = text
	d.writes++
}

func (d *fakeDisplay) SetPaymentBalance(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payment = text
	d.writes++
}

func (d *fakeDisplay) SetMintBalance(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mint = text
	d.writes++
}

func (d *fakeDisplay) SetMintPanelVisible(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panel = v
	d.writes++
}

func (d *fakeDisplay) ShowMessage(m Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, m)
	d.writes++
}

func (d *fakeDisplay) button(c Control) ButtonState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buttons[c]
}

func (d *fakeDisplay) lastMessage() Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.messages) == 0 {
		return Message{}
	}
	return d.messages[len(d.messages)-1]
}

func (d *fakeDisplay) writeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// ---------------------------------------------------------------------------
// fakeRecorder
// ---------------------------------------------------------------------------

type observation struct {
	op, outcome string
}

type fakeRecorder struct {
	mu     sync.Mutex
	ops    []observation
	states []State
}

func (r *fakeRecorder) ObserveOperation(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, observation{op, outcome})
}

func (r *fakeRecorder) SetState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

// ---------------------------------------------------------------------------
// setup
// ---------------------------------------------------------------------------

type fixture struct {
	cfg     config.Launchpad
	wallet  *fakeWallet
	display *fakeDisplay
	ctrl    *Controller
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cfg := testConfig()
	f := &fixture{cfg: cfg, wallet: newFakeWallet(cfg), display: newFakeDisplay()}
	opts = append([]Option{WithReceiptPollPeriod(time.Millisecond)}, opts...)
	f.ctrl = New(cfg, f.wallet, f.display, opts...)
	t.Cleanup(f.ctrl.Close)
	return f
}

// connected returns a fixture with an open session.
func connected(t *testing.T, allowance *big.Int, opts ...Option) *fixture {
	t.Helper()
	f := newFixture(t, opts...)
	f.wallet.set(func(w *fakeWallet) { w.allowance = allowance })
	if err := f.ctrl.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return f
}
