package launchpad

import "time"

// Control identifies one of the three action buttons.
type Control int

const (
	ControlConnect Control = iota
	ControlApprove
	ControlMint
)

func (c Control) String() string {
	switch c {
	case ControlConnect:
		return "connect"
	case ControlApprove:
		return "approve"
	case ControlMint:
		return "mint"
	default:
		return "unknown"
	}
}

// ButtonState is how a control is drawn.
type ButtonState struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Loading bool   `json:"loading"`
}

// MessageKind is the severity of a banner message.
type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a banner shown to the user. A non-zero TTL asks the display to
// hide it after that long; errors stay until replaced.
type Message struct {
	Text string        `json:"text"`
	Kind MessageKind   `json:"kind"`
	Link string        `json:"link,omitempty"`
	TTL  time.Duration `json:"-"`
}

// Display is the surface the controller draws on. Calls may arrive from any
// goroutine.
type Display interface {
	SetButton(control Control, state ButtonState)
	SetAddress(text string)
	SetPaymentBalance(text string)
	SetMintBalance(text string)
	SetMintPanelVisible(visible bool)
	ShowMessage(msg Message)
}

// Button labels.
const (
	LabelConnect    = "Connect Wallet"
	LabelConnecting = "Connecting..."
	LabelApprove    = "Step 1: Approve USDT"
	LabelApproving  = "Approving..."
	LabelApproved   = "✓ Approved"
	LabelMint       = "Step 2: Mint"
	LabelMinting    = "Minting..."

	AddressDisconnected = "Not connected"
)

// Disconnected returns the button states of a display with no session.
func Disconnected() map[Control]ButtonState {
	return map[Control]ButtonState{
		ControlConnect: {Label: LabelConnect, Enabled: true},
		ControlApprove: {Label: LabelApprove},
		ControlMint:    {Label: LabelMint},
	}
}
