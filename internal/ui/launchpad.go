package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
	"github.com/Mohsinsiddi/bn8004/internal/wallet"
)

// Actions are the user-triggered launchpad operations.
type Actions interface {
	Connect(ctx context.Context) error
	Approve(ctx context.Context) error
	Mint(ctx context.Context) error
}

type buttonMsg struct {
	control launchpad.Control
	state   launchpad.ButtonState
}

type addressMsg string
type paymentMsg string
type mintBalanceMsg string
type panelMsg bool
type bannerMsg launchpad.Message
type bannerExpiredMsg int
type actionDoneMsg struct{ err error }

type authRequestMsg struct {
	req   wallet.AuthRequest
	reply chan bool
}

// ---------------------------------------------------------------------------
// TeaDisplay
// ---------------------------------------------------------------------------

// TeaDisplay forwards display updates into a running Bubble Tea program.
// Updates sent before Attach are dropped.
type TeaDisplay struct {
	mu sync.Mutex
	p  *tea.Program
}

var _ launchpad.Display = (*TeaDisplay)(nil)

func NewTeaDisplay() *TeaDisplay { return &TeaDisplay{} }

// Attach sets the program that receives updates.
func (d *TeaDisplay) Attach(p *tea.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.p = p
}

func (d *TeaDisplay) send(msg tea.Msg) bool {
	d.mu.Lock()
	p := d.p
	d.mu.Unlock()
	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}

func (d *TeaDisplay) SetButton(c launchpad.Control, s launchpad.ButtonState) {
	d.send(buttonMsg{control: c, state: s})
}
func (d *TeaDisplay) SetAddress(text string)          { d.send(addressMsg(text)) }
func (d *TeaDisplay) SetPaymentBalance(text string)   { d.send(paymentMsg(text)) }
func (d *TeaDisplay) SetMintBalance(text string)      { d.send(mintBalanceMsg(text)) }
func (d *TeaDisplay) SetMintPanelVisible(visible bool) { d.send(panelMsg(visible)) }
func (d *TeaDisplay) ShowMessage(m launchpad.Message) { d.send(bannerMsg(m)) }

// Authorize is a wallet.AuthorizeFunc that asks inside the TUI. It rejects
// when no program is attached or ctx ends first.
func (d *TeaDisplay) Authorize(ctx context.Context, req wallet.AuthRequest) bool {
	reply := make(chan bool, 1)
	if !d.send(authRequestMsg{req: req, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

// ---------------------------------------------------------------------------
// LaunchpadModel
// ---------------------------------------------------------------------------

// LaunchpadModel is the Bubble Tea model of the mint screen.
type LaunchpadModel struct {
	ctx     context.Context
	actions Actions
	chain   string

	buttons map[launchpad.Control]launchpad.ButtonState
	address string
	payment string
	mint    string
	panel   bool

	banner    *launchpad.Message
	bannerSeq int
	link      string

	prompt   *authRequestMsg
	flash    string
	Frame    int
	Quitting bool
}

// NewLaunchpad creates the mint screen. Actions run with ctx.
func NewLaunchpad(ctx context.Context, actions Actions, chainName string) LaunchpadModel {
	return LaunchpadModel{
		ctx:     ctx,
		actions: actions,
		chain:   chainName,
		buttons: launchpad.Disconnected(),
		address: launchpad.AddressDisconnected,
	}
}

type launchpadTickMsg struct{}

func launchpadSpinTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return launchpadTickMsg{}
	})
}

func (m LaunchpadModel) Init() tea.Cmd { return launchpadSpinTick() }

func (m LaunchpadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.answer(msg.String())
		}
		m.flash = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		case "c":
			return m, m.trigger(launchpad.ControlConnect, m.actions.Connect)
		case "a":
			return m, m.trigger(launchpad.ControlApprove, m.actions.Approve)
		case "m":
			return m, m.trigger(launchpad.ControlMint, m.actions.Mint)
		case "o":
			if m.link == "" {
				m.flash = "No transaction to open"
				break
			}
			openBrowser(m.link)
			m.flash = "Opening in browser…"
		}

	case launchpadTickMsg:
		m.Frame = (m.Frame + 1) % len(spinnerFrames)
		return m, launchpadSpinTick()

	case buttonMsg:
		m.buttons[msg.control] = msg.state
	case addressMsg:
		m.address = string(msg)
	case paymentMsg:
		m.payment = string(msg)
	case mintBalanceMsg:
		m.mint = string(msg)
	case panelMsg:
		m.panel = bool(msg)

	case bannerMsg:
		b := launchpad.Message(msg)
		m.bannerSeq++
		m.banner = &b
		if b.Link != "" {
			m.link = b.Link
		}
		if b.TTL > 0 {
			seq := m.bannerSeq
			return m, tea.Tick(b.TTL, func(time.Time) tea.Msg { return bannerExpiredMsg(seq) })
		}

	case bannerExpiredMsg:
		if int(msg) == m.bannerSeq {
			m.banner = nil
		}

	case authRequestMsg:
		if m.prompt != nil {
			msg.reply <- false
			break
		}
		m.prompt = &msg

	case actionDoneMsg:
		if errors.Is(msg.err, launchpad.ErrBusy) {
			m.flash = "Still working on the previous request"
		}
	}

	return m, nil
}

// answer resolves a pending wallet prompt.
func (m LaunchpadModel) answer(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.prompt.reply <- true
	case "n", "N", "esc":
		m.prompt.reply <- false
	case "ctrl+c":
		m.prompt.reply <- false
		m.prompt = nil
		m.Quitting = true
		return m, tea.Quit
	default:
		return m, nil
	}
	m.prompt = nil
	return m, nil
}

func (m LaunchpadModel) trigger(c launchpad.Control, fn func(context.Context) error) tea.Cmd {
	if !m.buttons[c].Enabled {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
}

func (m LaunchpadModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("⚡ BN8004 Launchpad · "+m.chain) + "\n")
	sb.WriteString(StyleMeta.Render("Wallet: ") + Addr(m.address) + "\n\n")

	row := []string{m.button("c", launchpad.ControlConnect)}
	if m.panel {
		row = append(row, m.button("a", launchpad.ControlApprove), m.button("m", launchpad.ControlMint))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")

	if m.panel {
		sb.WriteString(KeyValueBlock("Balances", [][2]string{
			{"USDT", m.payment},
			{"BN8004", m.mint},
		}) + "\n")
	}

	if m.banner != nil {
		sb.WriteString(Message(*m.banner) + "\n")
	}
	if m.prompt != nil {
		sb.WriteString("\n" + Warn(m.prompt.req.Summary()) + StyleMeta.Render("  y approve · n reject") + "\n")
	}
	if m.flash != "" {
		sb.WriteString(StyleMeta.Render(m.flash) + "\n")
	}

	sb.WriteString("\n" + StyleMeta.Render("c connect · a approve · m mint · o open tx · q quit") + "\n")
	return sb.String()
}

func (m LaunchpadModel) button(key string, c launchpad.Control) string {
	s := m.buttons[c]
	if s.Loading {
		s.Label = spinnerFrames[m.Frame] + " " + s.Label
		return StyleButtonDisabled.Render(s.Label)
	}
	return Button(key, s)
}
