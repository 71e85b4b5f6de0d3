package launchpad

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/Mohsinsiddi/bn8004/internal/contract"
	"github.com/Mohsinsiddi/bn8004/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

// Recorder receives operation outcomes. internal/metrics implements it.
type Recorder interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	SetState(s State)
}

type action int

const (
	actConnect action = iota
	actApprove
	actMint
)

var actionNames = [...]string{"connect", "approve", "mint"}

// Controller drives the connect, approve and mint flow for one wallet and
// one display.
type Controller struct {
	cfg        config.Launchpad
	wallet     wallet.Provider
	display    Display
	recorder   Recorder
	pollPeriod time.Duration

	lifetime  context.Context
	cancel    context.CancelFunc
	sub       event.Subscription
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	session  *Session
	inflight [len(actionNames)]bool
	refresh  *time.Timer

	// refreshMu is held while a scheduled refresh runs so Close can wait
	// for it.
	refreshMu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder reports operation outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithReceiptPollPeriod sets how often receipts are polled while waiting for
// a confirmation.
func WithReceiptPollPeriod(d time.Duration) Option {
	return func(c *Controller) { c.pollPeriod = d }
}

// New creates a controller. w may be nil, in which case Connect fails with
// ErrWalletUnavailable. Wallet events are consumed until Close.
func New(cfg config.Launchpad, w wallet.Provider, d Display, opts ...Option) *Controller {
	c := &Controller{
		cfg:        cfg,
		wallet:     w,
		display:    d,
		pollPeriod: config.ReceiptPollPeriod,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lifetime, c.cancel = context.WithCancel(context.Background())

	if w == nil {
		close(c.done)
		return c
	}
	events := make(chan wallet.Event, 8)
	c.sub = w.SubscribeEvents(events)
	go c.loop(events)
	return c
}

// Config returns the launchpad settings the controller was built with.
func (c *Controller) Config() config.Launchpad { return c.cfg }

// Session returns a copy of the current session.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// State reports where the flow currently is.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.session == nil:
		return StateDisconnected
	case c.inflight[actMint]:
		return StateMinting
	case c.session.Approved:
		return StateApproved
	default:
		return StateConnected
	}
}

// Connect requests account access, moves the wallet to the launchpad chain
// and opens a session. Connecting while a session exists is a no-op.
func (c *Controller) Connect(ctx context.Context) (err error) {
	if c.wallet == nil {
		c.showError("Please install or configure a wallet")
		return ErrWalletUnavailable
	}
	if !c.begin(actConnect) {
		return ErrBusy
	}
	defer c.end(actConnect, time.Now(), &err)

	if _, ok := c.Session(); ok {
		return nil
	}

	ctx, cancel := c.bind(ctx)
	defer cancel()

	c.display.SetButton(ControlConnect, ButtonState{Label: LabelConnecting, Loading: true})

	s, err := c.open(ctx)
	if err != nil {
		log.Error("Wallet connection failed", "err", err)
		switch {
		case errors.Is(err, ErrNetworkAddFailed):
			c.showError("Failed to add the " + c.cfg.Chain.DisplayName + " network")
		case errors.Is(err, ErrUserRejected):
			c.showError("You cancelled the wallet request")
		default:
			c.showError("Connection failed: " + err.Error())
		}
		c.display.SetButton(ControlConnect, ButtonState{Label: LabelConnect, Enabled: true})
		return err
	}

	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	log.Info("Wallet connected", "account", s.Address, "chain", s.ChainID)

	short := ShortAddress(s.Address)
	c.display.SetAddress(short)
	c.display.SetButton(ControlConnect, ButtonState{Label: short})
	c.display.SetMintPanelVisible(true)

	c.loadBalances(ctx, s)
	c.checkApproval(ctx, s)

	c.showTimed(MessageSuccess, "Wallet connected!", "")
	return nil
}

// open runs the wallet handshake and builds the session.
func (c *Controller) open(ctx context.Context) (*Session, error) {
	accounts, err := c.wallet.RequestAccounts(ctx)
	if err != nil {
		if wallet.IsUserRejected(err) {
			return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return nil, fmt.Errorf("requesting accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, errors.New("wallet returned no accounts")
	}

	chainID, err := c.wallet.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading chain id: %w", err)
	}
	if chainID != c.cfg.Chain.ChainID {
		c.showError("Please switch to " + c.cfg.Chain.DisplayName)
		if chainID, err = c.switchNetwork(ctx); err != nil {
			return nil, err
		}
	}

	from := accounts[0]
	return &Session{
		Address:   from,
		ChainID:   chainID,
		payment:   contract.NewERC20(c.cfg.Payment.Address, from, c.wallet),
		token:     contract.NewMintToken(c.cfg.Mint.Address, from, c.wallet),
		forwarder: contract.NewForwarder(c.cfg.Forwarder, from, c.wallet),
	}, nil
}

// switchNetwork asks the wallet to switch to the launchpad chain, offering the
// chain descriptor when the wallet does not know it. It returns the chain id
// the wallet reports afterwards.
func (c *Controller) switchNetwork(ctx context.Context) (uint64, error) {
	want := c.cfg.Chain.ChainID

	err := c.wallet.SwitchChain(ctx, want)
	switch code := wallet.ErrorCode(err); {
	case err == nil:
	case code == wallet.CodeUnrecognizedChain:
		log.Info("Wallet does not know the chain, offering it", "chain", want)
		if err := c.wallet.AddChain(ctx, c.cfg.AddChainParams()); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrNetworkAddFailed, err)
		}
	case code == wallet.CodeUserRejected:
		return 0, fmt.Errorf("%w: %v", ErrUserRejected, err)
	default:
		return 0, fmt.Errorf("%w: %v", ErrNetworkMismatch, err)
	}

	got, err := c.wallet.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading chain id: %w", err)
	}
	if got != want {
		return 0, fmt.Errorf("%w: wallet is on chain %d, want %d", ErrNetworkMismatch, got, want)
	}
	return got, nil
}

// LoadBalances refreshes both balance labels. Read failures are logged and
// leave the labels unchanged.
func (c *Controller) LoadBalances(ctx context.Context) error {
	s, err := c.current()
	if err != nil {
		return err
	}
	ctx, cancel := c.bind(ctx)
	defer cancel()
	c.loadBalances(ctx, s)
	return nil
}

// CheckApproval re-reads the allowance and updates the approve and mint
// controls. Read failures are logged and keep the previous state.
func (c *Controller) CheckApproval(ctx context.Context) error {
	s, err := c.current()
	if err != nil {
		return err
	}
	ctx, cancel := c.bind(ctx)
	defer cancel()
	c.checkApproval(ctx, s)
	return nil
}

func (c *Controller) loadBalances(ctx context.Context, s *Session) {
	paid, err := s.payment.BalanceOf(ctx, s.Address)
	if err != nil {
		log.Error("Failed to load balances", "token", c.cfg.Payment.Symbol, "err", err)
		return
	}
	minted, err := s.token.BalanceOf(ctx, s.Address)
	if err != nil {
		log.Error("Failed to load balances", "token", c.cfg.Mint.Symbol, "err", err)
		return
	}
	if !c.isCurrent(s) {
		return
	}
	c.display.SetPaymentBalance(chain.FormatFixed(paid, c.cfg.Payment.Decimals, 2) + " " + c.cfg.Payment.Symbol)
	c.display.SetMintBalance(chain.FormatGrouped(minted, c.cfg.Mint.Decimals, 3) + " " + c.cfg.Mint.Symbol)
}

func (c *Controller) checkApproval(ctx context.Context, s *Session) {
	allowance, err := s.payment.Allowance(ctx, s.Address, c.cfg.Mint.Address)
	if err != nil {
		log.Error("Failed to check approval", "err", err)
		return
	}
	approved := allowance.Cmp(c.cfg.ApprovalThreshold) >= 0
	log.Debug("Allowance checked", "allowance", allowance, "approved", approved)

	c.mu.Lock()
	current := c.session == s
	if current {
		s.Approved = approved
	}
	minting := c.inflight[actMint]
	c.mu.Unlock()

	if current {
		c.renderApproval(approved, minting)
		c.recordState()
	}
}

func (c *Controller) renderApproval(approved, minting bool) {
	if approved {
		c.display.SetButton(ControlApprove, ButtonState{Label: LabelApproved})
	} else {
		c.display.SetButton(ControlApprove, ButtonState{Label: LabelApprove, Enabled: true})
	}
	if !minting {
		c.display.SetButton(ControlMint, ButtonState{Label: LabelMint, Enabled: approved})
	}
}

// Approve grants the mint contract the fixed allowance and waits for one
// confirmation.
func (c *Controller) Approve(ctx context.Context) (err error) {
	s, err := c.current()
	if err != nil {
		c.showError("Please connect your wallet first")
		return err
	}
	if !c.begin(actApprove) {
		return ErrBusy
	}
	defer c.end(actApprove, time.Now(), &err)

	ctx, cancel := c.bind(ctx)
	defer cancel()

	c.display.SetButton(ControlApprove, ButtonState{Label: LabelApproving, Loading: true})
	c.showTimed(MessageInfo, "Please confirm the approval in your wallet...", "")

	if err := c.approve(ctx, s); err != nil {
		err = classifyTx(err)
		log.Error("Approval failed", "err", err)
		if !c.isCurrent(s) {
			return err
		}
		if errors.Is(err, ErrUserRejected) {
			c.showError("You cancelled the approval")
		} else {
			c.showError("Approval failed: " + err.Error())
		}
		c.display.SetButton(ControlApprove, ButtonState{Label: LabelApprove, Enabled: true})
		return err
	}

	c.mu.Lock()
	current := c.session == s
	if current {
		s.Approved = true
	}
	minting := c.inflight[actMint]
	c.mu.Unlock()
	if !current {
		log.Info("Approval confirmed after the session closed", "account", s.Address)
		return nil
	}
	c.renderApproval(true, minting)

	mints := new(big.Int).Quo(c.cfg.ApproveAmount, c.cfg.ApprovalThreshold)
	amount := chain.FormatGrouped(c.cfg.ApproveAmount, c.cfg.Payment.Decimals, 2)
	c.showTimed(MessageSuccess, fmt.Sprintf("%s approved! (%s %s = %s mints)",
		c.cfg.Payment.Symbol, amount, c.cfg.Payment.Symbol, mints), "")
	return nil
}

func (c *Controller) approve(ctx context.Context, s *Session) error {
	hash, err := s.payment.Approve(ctx, c.cfg.Mint.Address, c.cfg.ApproveAmount)
	if err != nil {
		return err
	}
	log.Info("Approval submitted", "hash", hash, "amount", c.cfg.ApproveAmount)
	if c.isCurrent(s) {
		c.showTimed(MessageInfo, "Approval submitted, waiting for confirmation...", "")
	}

	receipt, err := c.wait(hash)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: approval %s reverted", ErrTransactionFailed, hash.Hex())
	}
	return nil
}

// Mint sends mint() and waits for one confirmation. On success the balances
// and allowance are refreshed once after the configured delay.
func (c *Controller) Mint(ctx context.Context) (err error) {
	s, err := c.current()
	if err != nil {
		c.showError("Please connect your wallet first")
		return err
	}
	c.mu.Lock()
	approved := s.Approved
	c.mu.Unlock()
	if !approved {
		c.showError("Please approve " + c.cfg.Payment.Symbol + " first")
		return ErrNotApproved
	}
	if !c.begin(actMint) {
		return ErrBusy
	}
	defer c.end(actMint, time.Now(), &err)
	defer func() {
		if c.isCurrent(s) {
			c.display.SetButton(ControlMint, ButtonState{Label: LabelMint, Enabled: true})
		}
	}()

	ctx, cancel := c.bind(ctx)
	defer cancel()

	c.display.SetButton(ControlMint, ButtonState{Label: LabelMinting, Loading: true})
	c.showTimed(MessageInfo, "Sending mint transaction...", "")

	hash, receipt, err := c.mint(ctx, s)
	if err != nil {
		err = classifyTx(err)
		log.Error("Mint failed", "err", err)
		if !c.isCurrent(s) {
			return err
		}
		if errors.Is(err, ErrUserRejected) {
			c.showError("You cancelled the transaction")
		} else {
			c.showError("Mint failed: " + err.Error())
		}
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		log.Error("Mint reverted", "hash", hash, "block", receipt.BlockNumber)
		if c.isCurrent(s) {
			c.showError("Mint failed: transaction reverted")
		}
		return fmt.Errorf("%w: mint %s reverted", ErrTransactionFailed, hash.Hex())
	}

	log.Info("Mint confirmed", "hash", hash, "block", receipt.BlockNumber)
	if !c.isCurrent(s) {
		return nil
	}
	c.showTimed(MessageSuccess,
		fmt.Sprintf("Mint successful! +%d %s", c.cfg.MintOutput, c.cfg.Mint.Symbol),
		c.cfg.Chain.TxURL(hash.Hex()))
	c.scheduleRefresh(s)
	return nil
}

func (c *Controller) mint(ctx context.Context, s *Session) (common.Hash, *types.Receipt, error) {
	hash, err := s.token.Mint(ctx)
	if err != nil {
		return common.Hash{}, nil, err
	}
	log.Info("Mint submitted", "hash", hash)
	if c.isCurrent(s) {
		c.showTimed(MessageInfo, "Transaction submitted, waiting for confirmation...", "")
	}

	receipt, err := c.wait(hash)
	if err != nil {
		return hash, nil, err
	}
	return hash, receipt, nil
}

// ForwarderNonce reads the relay nonce of the connected account.
func (c *Controller) ForwarderNonce(ctx context.Context) (*big.Int, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.bind(ctx)
	defer cancel()
	return s.forwarder.GetNonce(ctx, s.Address)
}

// HandleEvent drops the session when the wallet switches account or
// network. Events that match the session are ignored.
func (c *Controller) HandleEvent(ev wallet.Event) {
	c.mu.Lock()
	s := c.session
	if s == nil || !invalidates(s, ev) {
		c.mu.Unlock()
		return
	}
	c.session = nil
	c.stopRefreshLocked()
	c.mu.Unlock()

	log.Info("Wallet changed, session closed", "event", ev.Kind, "account", s.Address)
	c.resetDisplay()
	if ev.Kind == wallet.EventChainChanged {
		c.showTimed(MessageInfo, "Network changed. Please reconnect your wallet.", "")
	} else {
		c.showTimed(MessageInfo, "Account changed. Please reconnect your wallet.", "")
	}
	c.recordState()
}

func invalidates(s *Session, ev wallet.Event) bool {
	switch ev.Kind {
	case wallet.EventAccountsChanged:
		return len(ev.Accounts) == 0 || ev.Accounts[0] != s.Address
	case wallet.EventChainChanged:
		return ev.ChainID != s.ChainID
	default:
		return false
	}
}

// Close ends the controller's lifetime: in-flight waits are cancelled, a
// pending refresh never runs and wallet events are no longer consumed.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		c.stopRefreshLocked()
		c.session = nil
		c.mu.Unlock()

		// Wait out a refresh that was already running.
		c.refreshMu.Lock()
		c.refreshMu.Unlock() //nolint:staticcheck

		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		<-c.done
	})
}

// --- helpers ---

func (c *Controller) loop(events <-chan wallet.Event) {
	defer close(c.done)
	for {
		select {
		case ev := <-events:
			c.HandleEvent(ev)
		case err := <-c.sub.Err():
			if err != nil {
				log.Warn("Wallet event subscription ended", "err", err)
			}
			return
		case <-c.lifetime.Done():
			return
		}
	}
}

func (c *Controller) scheduleRefresh(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lifetime.Err() != nil || c.session != s {
		return
	}
	c.stopRefreshLocked()
	c.refresh = time.AfterFunc(c.cfg.RefreshDelay, func() {
		c.refreshMu.Lock()
		defer c.refreshMu.Unlock()
		if c.lifetime.Err() != nil || !c.isCurrent(s) {
			return
		}
		log.Debug("Refreshing after mint", "account", s.Address)
		c.loadBalances(c.lifetime, s)
		c.checkApproval(c.lifetime, s)
	})
}

func (c *Controller) stopRefreshLocked() {
	if c.refresh != nil {
		c.refresh.Stop()
		c.refresh = nil
	}
}

func (c *Controller) resetDisplay() {
	for control, state := range Disconnected() {
		c.display.SetButton(control, state)
	}
	c.display.SetAddress(AddressDisconnected)
	c.display.SetPaymentBalance("")
	c.display.SetMintBalance("")
	c.display.SetMintPanelVisible(false)
}

// current returns the live session or ErrNotConnected.
func (c *Controller) current() (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, ErrNotConnected
	}
	return c.session, nil
}

func (c *Controller) isCurrent(s *Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session == s
}

func (c *Controller) begin(a action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[a] {
		return false
	}
	c.inflight[a] = true
	return true
}

func (c *Controller) end(a action, start time.Time, err *error) {
	c.mu.Lock()
	c.inflight[a] = false
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.ObserveOperation(actionNames[a], Kind(*err), time.Since(start))
	}
	c.recordState()
}

func (c *Controller) recordState() {
	if c.recorder != nil {
		c.recorder.SetState(c.State())
	}
}

// bind derives a context that is also cancelled when the controller closes.
func (c *Controller) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// wait blocks until hash is mined. A submitted transaction outlives the
// caller's context; only Close ends the wait.
func (c *Controller) wait(hash common.Hash) (*types.Receipt, error) {
	return chain.WaitMined(c.lifetime, c.wallet, hash, c.pollPeriod)
}

func (c *Controller) showError(text string) {
	c.display.ShowMessage(Message{Text: text, Kind: MessageError})
}

func (c *Controller) showTimed(kind MessageKind, text, link string) {
	c.display.ShowMessage(Message{Text: text, Kind: kind, Link: link, TTL: c.cfg.MessageTTL})
}
