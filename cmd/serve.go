package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
	"github.com/Mohsinsiddi/bn8004/internal/metrics"
	"github.com/Mohsinsiddi/bn8004/internal/server"
	"github.com/Mohsinsiddi/bn8004/internal/wallet"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the launchpad over HTTP",
	Long: `Run the launchpad headless behind a JSON API.

  GET  /api/config    launchpad constants
  GET  /api/state     flow state, session and display snapshot
  POST /api/connect   connect the wallet
  POST /api/approve   approve 10 USDT
  POST /api/mint      mint once
  GET  /healthz
  GET  /metrics       prometheus

Local wallet requests are approved without prompting: calling the API is
the consent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		addr := serveListen
		if addr == "" {
			addr = cfg.ListenAddr
		}

		lp := cfg.Launchpad()
		m := metrics.New()
		m.RecordInfo(Version, strconv.FormatUint(lp.Chain.ChainID, 10))

		w, closeWallet, err := openProvider(ctx, lp, wallet.AutoApprove)
		if err != nil {
			return err
		}
		defer closeWallet()

		display := server.NewStateDisplay()
		ctrl := launchpad.New(lp, w, display, launchpad.WithRecorder(m))
		defer ctrl.Close()

		return server.New(ctrl, display, m).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default: listen_addr from config)")
}
