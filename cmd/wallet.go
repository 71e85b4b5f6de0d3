package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/ui"
	"github.com/Mohsinsiddi/bn8004/internal/wallet"
)

var walletKeyFlag string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage local wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a signing wallet from a private key (stored in the OS keychain) or a
watch-only wallet from an address.

  bn8004 wallet add alice --key 0x...
  bn8004 wallet add viewer 0xf39F...2266

The key may also come from $` + wallet.KeyEnvVar + ` instead of --key.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		name := args[0]

		key := walletKeyFlag
		if key == "" && len(args) == 1 {
			key = os.Getenv(wallet.KeyEnvVar)
		}

		if key != "" {
			mgr, err := newWalletManager(true)
			if err != nil {
				return err
			}
			if err := mgr.AddWithKey(name, key); err != nil {
				return err
			}
			w, err := mgr.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
		} else {
			if len(args) < 2 {
				return fmt.Errorf("address required for a watch-only wallet\n  Usage: bn8004 wallet add <name> <address>\n  Or for signing: bn8004 wallet add <name> --key <private-key>")
			}
			mgr, err := newWalletManager(false)
			if err != nil {
				return err
			}
			if err := mgr.AddWatchOnly(name, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(args[1]))))
		}
		fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Set as default with: bn8004 wallet use %s", name)))
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new signing wallet",
	Long: `Generate a fresh EVM key and store it in the OS keychain. Fund the
printed address with BNB for gas and USDT for minting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		mgr, err := newWalletManager(true)
		if err != nil {
			return err
		}
		addr, err := mgr.Generate(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q generated: %s", args[0], ui.Addr(addr.Hex()))))
		fmt.Fprintln(out, ui.Hint("The key never leaves the keychain. Fund the address with BNB for gas."))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		mgr, err := newWalletManager(false)
		if err != nil {
			return err
		}
		wallets, err := mgr.List()
		if err != nil {
			return err
		}
		if len(wallets) == 0 {
			fmt.Fprintln(out, ui.Info("No wallets configured yet."))
			fmt.Fprintln(out, ui.Hint("Add one with: bn8004 wallet add <name> --key <private-key>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 42},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, walletTypeLabel(w.Type), def})
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default wallet",
	Long: `Set the default wallet. Without a name an interactive list of the
configured wallets is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager(false)
		if err != nil {
			return err
		}
		var name string
		if len(args) == 1 {
			name = args[0]
		} else if name, err = pickWallet(mgr); err != nil || name == "" {
			return err
		}
		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		name := args[0]
		if !assumeYes && !ui.ConfirmDanger(cmd.InOrStdin(), out, fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}

		mgr, err := newWalletManager(false)
		if err != nil {
			return err
		}
		w, err := mgr.Get(name)
		if err != nil {
			return err
		}
		if w.Type == wallet.TypeSigning {
			if mgr, err = newWalletManager(true); err != nil {
				return err
			}
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet (stored in the OS keychain)")
	walletCmd.AddCommand(walletAddCmd, walletGenerateCmd, walletListCmd, walletUseCmd, walletRemoveCmd)
}

// walletTypeLabel converts an internal wallet type to a user-friendly label.
func walletTypeLabel(t string) string {
	switch t {
	case wallet.TypeSigning:
		return "read-write"
	default:
		return t
	}
}

// pickWallet asks for one of the configured wallets. An empty name means the
// user cancelled.
func pickWallet(mgr *wallet.Manager) (string, error) {
	wallets, err := mgr.List()
	if err != nil {
		return "", err
	}
	choices := make([]ui.Choice, len(wallets))
	for i, w := range wallets {
		choices[i] = ui.Choice{Label: w.Name, Detail: w.Address, Current: w.IsDefault}
	}
	i, err := ui.Pick("Choose the default wallet", choices)
	if errors.Is(err, ui.ErrNothingToPick) {
		return "", fmt.Errorf("%w: add one with `bn8004 wallet add`", wallet.ErrWalletNotFound)
	}
	if err != nil || i < 0 {
		return "", err
	}
	return wallets[i].Name, nil
}
