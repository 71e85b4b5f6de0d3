package server

import (
	"sync"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
)

// Snapshot is the display as an API client sees it.
type Snapshot struct {
	Address          string                           `json:"address"`
	PaymentBalance   string                           `json:"payment_balance"`
	MintBalance      string                           `json:"mint_balance"`
	MintPanelVisible bool                             `json:"mint_panel_visible"`
	Buttons          map[string]launchpad.ButtonState `json:"buttons"`
	Message          *launchpad.Message               `json:"message,omitempty"`
}

// StateDisplay is a launchpad.Display that keeps the latest writes for the
// HTTP API.
type StateDisplay struct {
	now func() time.Time

	mu        sync.Mutex
	buttons   map[launchpad.Control]launchpad.ButtonState
	address   string
	payment   string
	mint      string
	panel     bool
	message   *launchpad.Message
	expiresAt time.Time
}

var _ launchpad.Display = (*StateDisplay)(nil)

func NewStateDisplay() *StateDisplay {
	return &StateDisplay{
		now:     time.Now,
		buttons: launchpad.Disconnected(),
		address: launchpad.AddressDisconnected,
	}
}

func (d *StateDisplay) SetButton(c launchpad.Control, s launchpad.ButtonState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttons[c] = s
}

func (d *StateDisplay) SetAddress(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.address = text
}

func (d *StateDisplay) SetPaymentBalance(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payment = text
}

func (d *StateDisplay) SetMintBalance(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mint = text
}

func (d *StateDisplay) SetMintPanelVisible(visible bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panel = visible
}

func (d *StateDisplay) ShowMessage(m launchpad.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = &m
	d.expiresAt = time.Time{}
	if m.TTL > 0 {
		d.expiresAt = d.now().Add(m.TTL)
	}
}

// Snapshot copies the current display. Timed messages past their TTL are
// left out.
func (d *StateDisplay) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Snapshot{
		Address:          d.address,
		PaymentBalance:   d.payment,
		MintBalance:      d.mint,
		MintPanelVisible: d.panel,
		Buttons:          make(map[string]launchpad.ButtonState, len(d.buttons)),
	}
	for c, b := range d.buttons {
		s.Buttons[c.String()] = b
	}
	if d.message != nil && (d.expiresAt.IsZero() || d.now().Before(d.expiresAt)) {
		m := *d.message
		s.Message = &m
	}
	return s
}
