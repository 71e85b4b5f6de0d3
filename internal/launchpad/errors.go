package launchpad

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/bn8004/internal/wallet"
)

// Errors returned by controller operations.
var (
	ErrWalletUnavailable = errors.New("no wallet available")
	ErrUserRejected      = errors.New("rejected in wallet")
	ErrNetworkMismatch   = errors.New("wrong network")
	ErrNetworkAddFailed  = errors.New("adding network failed")
	ErrNotConnected      = errors.New("wallet not connected")
	ErrNotApproved       = errors.New("payment token not approved")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrBusy              = errors.New("action already in progress")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrWalletUnavailable, "wallet_unavailable"},
	{ErrUserRejected, "user_rejected"},
	{ErrNetworkMismatch, "network_mismatch"},
	{ErrNetworkAddFailed, "network_add_failed"},
	{ErrNotConnected, "not_connected"},
	{ErrNotApproved, "not_approved"},
	{ErrTransactionFailed, "transaction_failed"},
	{ErrBusy, "busy"},
}

// Kind names the class of err for metrics and API responses: "ok" for nil,
// "unclassified" for errors outside the list above.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unclassified"
}

// classifyTx maps a send or confirmation failure to ErrUserRejected or
// ErrTransactionFailed.
func classifyTx(err error) error {
	switch {
	case errors.Is(err, ErrTransactionFailed), errors.Is(err, ErrUserRejected):
		return err
	case wallet.IsUserRejected(err):
		return fmt.Errorf("%w: %v", ErrUserRejected, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
}
