package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
)

// Console is a launchpad.Display for one-shot commands. Messages are printed
// as they arrive, loading buttons drive a spinner, and everything else is
// kept for Summary.
type Console struct {
	out     io.Writer
	spinner *Spinner

	mu      sync.Mutex
	buttons map[launchpad.Control]launchpad.ButtonState
	loading launchpad.Control
	busy    bool
	address string
	payment string
	mint    string
	panel   bool
}

var _ launchpad.Display = (*Console)(nil)

// NewConsole creates a console display writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		spinner: NewSpinner(out),
		buttons: launchpad.Disconnected(),
		address: launchpad.AddressDisconnected,
	}
}

func (c *Console) SetButton(control launchpad.Control, s launchpad.ButtonState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buttons[control] = s
	switch {
	case s.Loading:
		c.loading, c.busy = control, true
		c.spinner.Start(s.Label)
	case c.busy && c.loading == control:
		c.busy = false
		c.spinner.Stop()
	}
}

func (c *Console) SetAddress(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.address = text
}

func (c *Console) SetPaymentBalance(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payment = text
}

func (c *Console) SetMintBalance(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mint = text
}

func (c *Console) SetMintPanelVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panel = visible
}

// ShowMessage prints m. Info messages during a pending action replace the
// spinner text instead.
func (c *Console) ShowMessage(m launchpad.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy && m.Kind == launchpad.MessageInfo {
		c.spinner.Start(m.Text)
		return
	}
	c.spinner.Stop()
	fmt.Fprintln(c.out, Message(m))
	if c.busy {
		c.spinner.Start(c.buttons[c.loading].Label)
	}
}

// Close stops the spinner.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.spinner.Stop()
}

// Summary renders the account, balances and step states.
func (c *Console) Summary(title string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	pairs := [][2]string{{"Account", c.address}}
	if c.panel {
		pairs = append(pairs,
			[2]string{"Payment balance", c.payment},
			[2]string{"Minted balance", c.mint},
			[2]string{"Approval", stepState(c.buttons[launchpad.ControlApprove])},
			[2]string{"Mint", stepState(c.buttons[launchpad.ControlMint])},
		)
	}
	return KeyValueBlock(title, pairs)
}

func stepState(s launchpad.ButtonState) string {
	switch {
	case s.Label == launchpad.LabelApproved:
		return "approved"
	case s.Loading:
		return "pending"
	case s.Enabled:
		return "ready"
	default:
		return "locked"
	}
}
