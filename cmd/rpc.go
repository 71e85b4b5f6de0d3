package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/Mohsinsiddi/bn8004/internal/rpc"
	"github.com/Mohsinsiddi/bn8004/internal/ui"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage BNB Smart Chain RPC endpoints",
}

var rpcAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a custom RPC URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.AddRPC(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Added RPC: "+args[0]))
		return nil
	},
}

var rpcRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Remove a custom RPC URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveRPC(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Removed RPC: "+args[0]))
		return nil
	},
}

var rpcBenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the chain's RPCs and show which one would be used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c := cfg.Launchpad().Chain
		urls := slices.Clone(cfg.CustomRPCs)
		for _, u := range c.RPCs {
			if !slices.Contains(urls, u) {
				urls = append(urls, u)
			}
		}

		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.StyleTitle.Render(fmt.Sprintf("Benchmarking %s RPCs...", c.DisplayName)))

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCSelectTimeout)
		defer cancel()

		spin := ui.NewSpinner(cmd.ErrOrStderr())
		spin.Start(fmt.Sprintf("Probing %d endpoint(s)", len(urls)))
		results := rpc.Benchmark(ctx, urls, c.ChainID)
		spin.Stop()

		winner, pickErr := rpc.NewPicker(algo).Pick(rpc.ResultsToEndpoints(results))

		t := ui.NewTable([]ui.Column{
			{Title: "RPC URL", Width: 44},
			{Title: "Latency", Width: 10, Right: true},
			{Title: "Block #", Width: 12, Right: true},
			{Title: "Status", Width: 24},
		})
		for _, r := range results {
			status := "ok"
			latency, block := "-", "-"
			if r.Err != nil {
				status = r.Err.Error()
			} else {
				latency = r.Latency.Round(time.Millisecond).String()
				block = fmt.Sprint(r.BlockNumber)
			}
			if winner != nil && r.URL == winner.URL {
				status = "selected"
			}
			t.AddRow(ui.Row{r.URL, latency, block, status})
		}
		fmt.Fprintln(out, t.Render())

		if pickErr != nil {
			return pickErr
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("%s picks %s", algo, winner.URL)))
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcAddCmd, rpcRemoveCmd, rpcBenchCmd)
}
