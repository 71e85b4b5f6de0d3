package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
	"github.com/Mohsinsiddi/bn8004/internal/ui"
	"github.com/Mohsinsiddi/bn8004/internal/wallet"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Open the launchpad screen (default)",
	Long: `Open the interactive launchpad.

Keys: c connect · a approve · m mint · o open the last transaction · q quit.
Local wallet prompts (account access, network switch, transactions) are
answered inside the screen with y / n.

Logs go to <config dir>/bn8004.log while the screen is open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile, err := setupFileLog(cfg.LogPath(), verbose)
		if err != nil {
			return err
		}
		defer logFile.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		lp := cfg.Launchpad()
		display := ui.NewTeaDisplay()

		authorize := wallet.AuthorizeFunc(display.Authorize)
		if assumeYes {
			authorize = wallet.AutoApprove
		}
		w, closeWallet, err := openProvider(ctx, lp, authorize)
		if err != nil {
			return err
		}
		defer closeWallet()

		ctrl := launchpad.New(lp, w, display)
		defer ctrl.Close()

		p := tea.NewProgram(ui.NewLaunchpad(ctx, ctrl, lp.Chain.DisplayName),
			tea.WithAltScreen(), tea.WithContext(ctx))
		display.Attach(p)

		log.Info("Launchpad opened", "chain", lp.Chain.ChainID, "env", cfg.Environment)
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("running launchpad: %w", err)
		}
		return nil
	},
}
