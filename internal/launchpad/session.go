package launchpad

import (
	"github.com/Mohsinsiddi/bn8004/internal/contract"
	"github.com/ethereum/go-ethereum/common"
)

// Session is one wallet connection. It is created by Connect and dropped
// when the wallet reports an account or network change.
type Session struct {
	Address common.Address
	ChainID uint64
	// Approved caches the last allowance check.
	Approved bool

	payment   *contract.ERC20Token
	token     *contract.MintTokenHandle
	forwarder *contract.ForwarderHandle
}

// ShortAddress abbreviates addr as 0x1234...abcd.
func ShortAddress(addr common.Address) string {
	h := addr.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}

// State is the position of the controller in the mint flow.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateApproved
	StateMinting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateApproved:
		return "approved"
	case StateMinting:
		return "minting"
	default:
		return "unknown"
	}
}
