package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
	"github.com/Mohsinsiddi/bn8004/internal/rpc"
	"github.com/Mohsinsiddi/bn8004/internal/ui"
	"github.com/Mohsinsiddi/bn8004/internal/wallet"
)

const walletRPCExample = wallet.DefaultRemoteEndpoint

// openProvider builds the wallet the controller talks to: the remote wallet
// when an endpoint is configured, else the chosen local wallet. A nil
// provider with a nil error means no wallet is configured.
func openProvider(ctx context.Context, lp config.Launchpad, authorize wallet.AuthorizeFunc) (wallet.Provider, func(), error) {
	endpoint := walletRPC
	if endpoint == "" {
		endpoint = cfg.WalletEndpoint
	}
	if endpoint != "" {
		r, err := wallet.DialRemote(ctx, endpoint, config.WalletPollPeriod)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("Using remote wallet", "url", endpoint)
		return r, r.Close, nil
	}

	name := walletName
	if name == "" {
		name = cfg.DefaultWallet
	}
	mgr, err := newWalletManager(false)
	if err != nil {
		return nil, nil, err
	}
	w, err := mgr.Resolve(name)
	if errors.Is(err, wallet.ErrWalletNotFound) && name == "" {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	var ks wallet.KeystoreBackend
	if w.Type == wallet.TypeSigning {
		if ks, err = wallet.OpenKeystore(cfg.Dir()); err != nil {
			return nil, nil, err
		}
	}

	active := lp.Chain
	active.RPCs = preferRPC(ctx, active)

	var known []chain.Chain
	for _, c := range chain.NewRegistry().All() {
		if c.ChainID != active.ChainID {
			known = append(known, c)
		}
	}

	local := wallet.NewLocal(wallet.NewSigner(w, ks), active,
		wallet.WithAuthorizer(authorize),
		wallet.WithKnownChains(known...),
	)
	log.Debug("Using local wallet", "name", w.Name, "address", w.Address, "type", w.Type, "rpc", active.RPCs[0])
	return local, local.Close, nil
}

// preferRPC orders the chain's endpoints, custom ones first, with the one the
// configured algorithm picks at the front. Selection failures keep the order.
func preferRPC(ctx context.Context, c chain.Chain) []string {
	urls := slices.Clone(cfg.CustomRPCs)
	for _, u := range c.RPCs {
		if !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}

	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		log.Warn("Ignoring RPC algorithm", "err", err)
		algo = rpc.AlgorithmFastest
	}

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	best, err := rpc.Select(ctx, urls, c.ChainID, algo)
	if err != nil {
		log.Warn("RPC selection failed, using configured order", "err", err)
		return urls
	}

	i := slices.Index(urls, best)
	return append([]string{best}, slices.Delete(urls, i, i+1)...)
}

// authorizer returns how local wallet prompts are answered on the terminal.
func authorizer(in io.Reader, out io.Writer) wallet.AuthorizeFunc {
	if assumeYes {
		return wallet.AutoApprove
	}
	return ui.PromptAuthorizer(in, out)
}

// newWalletManager creates a Manager backed by the config-dir JSON store.
// withKeys also opens the keystore, which may prompt on first use.
func newWalletManager(withKeys bool) (*wallet.Manager, error) {
	opts := []wallet.Option{wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath()))}
	if withKeys {
		ks, err := wallet.OpenKeystore(cfg.Dir())
		if err != nil {
			return nil, err
		}
		opts = append(opts, wallet.WithKeystore(ks))
	}
	return wallet.NewManager(opts...), nil
}

// oneShot runs fn against a freshly connected controller drawing on a
// console display. It is the shared body of status, approve, mint and nonce.
func oneShot(ctx context.Context, out io.Writer, fn func(ctx context.Context, c *launchpad.Controller, d *ui.Console) error) error {
	lp := cfg.Launchpad()
	display := ui.NewConsole(out)
	defer display.Close()

	w, closeWallet, err := openProvider(ctx, lp, authorizer(os.Stdin, out))
	if err != nil {
		return err
	}
	defer closeWallet()

	ctrl := launchpad.New(lp, w, display)
	defer ctrl.Close()

	if err := ctrl.Connect(ctx); err != nil {
		return err
	}
	return fn(ctx, ctrl, display)
}

// errLine renders a command failure with a hint for the common cases.
func errLine(err error) string {
	switch {
	case errors.Is(err, launchpad.ErrWalletUnavailable):
		return ui.Err(err.Error()) + "\n" + ui.Hint("Add a wallet with: bn8004 wallet add <name> --key <private-key>, or pass --wallet-rpc")
	case errors.Is(err, launchpad.ErrNotApproved):
		return ui.Err(err.Error()) + "\n" + ui.Hint("Run: bn8004 approve")
	case errors.Is(err, wallet.ErrWalletNotFound):
		return ui.Err(err.Error()) + "\n" + ui.Hint("List wallets with: bn8004 wallet list")
	default:
		return ui.Err(fmt.Sprint(err))
	}
}
