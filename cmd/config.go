package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/Mohsinsiddi/bn8004/internal/rpc"
	"github.com/Mohsinsiddi/bn8004/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration and launchpad constants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.StyleTitle.Render("Configuration"))
		fmt.Fprintln(out, string(data))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))

		lp := cfg.Launchpad()
		fmt.Fprintln(out, ui.KeyValueBlock("Launchpad", [][2]string{
			{"Chain", fmt.Sprintf("%s (%d)", lp.Chain.DisplayName, lp.Chain.ChainID)},
			{"Payment token", lp.Payment.Address.Hex()},
			{"Mint token", lp.Mint.Address.Hex()},
			{"Forwarder", lp.Forwarder.Hex()},
			{"Relayer", lp.RelayerURL},
			{"Mint output", fmt.Sprintf("%d %s", lp.MintOutput, lp.Mint.Symbol)},
		}))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set environment, rpc_algorithm, wallet_endpoint or listen_addr",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case "environment":
			if value != config.EnvProduction && value != config.EnvDevelopment {
				return fmt.Errorf("unknown environment %q (want %s or %s)", value, config.EnvProduction, config.EnvDevelopment)
			}
			cfg.Environment = value
		case "rpc_algorithm":
			if _, err := rpc.ParseAlgorithm(value); err != nil {
				return err
			}
			cfg.RPCAlgorithm = value
		case "wallet_endpoint":
			cfg.WalletEndpoint = value
		case "listen_addr":
			cfg.ListenAddr = value
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s set to %q", key, value)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
