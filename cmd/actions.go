package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
	"github.com/Mohsinsiddi/bn8004/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Connect and show balances and approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return oneShot(cmd.Context(), out, func(_ context.Context, c *launchpad.Controller, d *ui.Console) error {
			fmt.Fprintln(out, d.Summary("BN8004 Launchpad · "+c.Config().Chain.DisplayName))
			return nil
		})
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve the launchpad to spend 10 USDT (10 mints)",
	Long: `Send approve(mintToken, 10 USDT) from the connected account and wait for
one confirmation. Already-approved accounts are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return oneShot(cmd.Context(), out, func(ctx context.Context, c *launchpad.Controller, d *ui.Console) error {
			if s, _ := c.Session(); s.Approved {
				fmt.Fprintln(out, ui.Info("Already approved, nothing to do."))
				return nil
			}
			return c.Approve(ctx)
		})
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint BN8004 (costs 1 USDT of allowance)",
	Long: `Send mint() from the connected account and wait for one confirmation.
Requires an approval first: bn8004 approve.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return oneShot(cmd.Context(), out, func(ctx context.Context, c *launchpad.Controller, d *ui.Console) error {
			if err := c.Mint(ctx); err != nil {
				return err
			}
			// Balances move after the refresh delay; read them once more here.
			if err := c.LoadBalances(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, d.Summary("After mint"))
			return nil
		})
	},
}

var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "Show the relay forwarder nonce of the connected account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return oneShot(cmd.Context(), out, func(ctx context.Context, c *launchpad.Controller, d *ui.Console) error {
			n, err := c.ForwarderNonce(ctx)
			if err != nil {
				return fmt.Errorf("reading forwarder nonce: %w", err)
			}
			s, _ := c.Session()
			fmt.Fprintln(out, ui.KeyValueBlock("Forwarder", [][2]string{
				{"Forwarder", c.Config().Forwarder.Hex()},
				{"Account", s.Address.Hex()},
				{"Nonce", n.String()},
				{"Relayer", c.Config().RelayerURL},
			}))
			return nil
		})
	},
}
