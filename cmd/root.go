package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/bn8004/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir     string
	cfg        *config.Config
	verbose    bool
	walletName string
	walletRPC  string
	assumeYes  bool
)

// rootCmd is the top-level command. Without a sub-command it opens the
// launchpad screen.
var rootCmd = &cobra.Command{
	Use:   "bn8004",
	Short: "BN8004 launchpad: approve USDT, mint BN8004",
	Long: `bn8004 connects a wallet to BNB Smart Chain, approves the launchpad to
spend USDT and mints BN8004.

Wallets are either local (key in the OS keychain, see 'bn8004 wallet') or a
remote EIP-1193 JSON-RPC wallet given with --wallet-rpc.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		setupLog(os.Stderr, verbose)
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchCmd.RunE(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errLine(err))
		stop()
		os.Exit(1)
	}
}

// setupLog installs the default logger: terminal output on w, debug level
// with verbose.
func setupLog(w io.Writer, verbose bool) {
	lvl := log.LevelInfo
	if verbose {
		lvl = log.LevelDebug
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(w, lvl, false)))
}

// setupFileLog sends logs to path while a full-screen UI owns the terminal.
func setupFileLog(path string, verbose bool) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	lvl := log.LevelInfo
	if verbose {
		lvl = log.LevelDebug
	}
	log.SetDefault(log.NewLogger(log.LogfmtHandlerWithLevel(f, lvl)))
	return f, nil
}

func init() {
	// BN8004_CONFIG_DIR env var overrides the --config default.
	if envDir := os.Getenv("BN8004_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.bn8004)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&walletName, "wallet", "w", "", "local wallet name (default: the default wallet)")
	rootCmd.PersistentFlags().StringVar(&walletRPC, "wallet-rpc", "", "remote EIP-1193 wallet endpoint, e.g. "+walletRPCExample)
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "approve wallet prompts without asking")

	rootCmd.AddCommand(
		launchCmd,
		statusCmd,
		approveCmd,
		mintCmd,
		nonceCmd,
		serveCmd,
		walletCmd,
		configCmd,
		rpcCmd,
	)
}
