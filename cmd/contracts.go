package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/bn8004/internal/contract"
	"github.com/Mohsinsiddi/bn8004/internal/ui"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List the launchpad contracts and the methods bn8004 calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		lp := cfg.Launchpad()
		addrs := map[string]common.Address{
			contract.ERC20:     lp.Payment.Address,
			contract.MintToken: lp.Mint.Address,
			contract.Forwarder: lp.Forwarder,
		}

		for _, b := range contract.AllBuiltins() {
			t := ui.NewTable([]ui.Column{
				{Title: "Selector", Width: 10},
				{Title: "Method", Width: 40},
			})
			for _, sig := range b.Methods() {
				sel := contract.Selector(sig)
				t.AddRow(ui.Row{"0x" + hex.EncodeToString(sel[:]), sig})
			}
			title := b.Name
			if a, ok := addrs[b.ID]; ok {
				title += "  " + ui.Addr(a.Hex())
			}
			fmt.Fprintln(out, ui.StyleTitle.Render(title))
			fmt.Fprintln(out, ui.Meta(b.Description))
			fmt.Fprintln(out, t.Render())
		}
		return nil
	},
}

var selectorCmd = &cobra.Command{
	Use:   "selector <signature-or-selector>",
	Short: "Compute a 4-byte selector or look one up in the launchpad ABIs",
	Long: `Compute a 4-byte function selector from a signature, or look up a
selector among the methods of the launchpad contracts.

Examples:
  bn8004 selector "approve(address spender, uint256 amount)"   # → 0x095ea7b3
  bn8004 selector "mint()"                                     # → 0x1249c58b
  bn8004 selector 0x2d0335ab                                   # → getNonce(address)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		input := args[0]

		if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
			matches := lookupSelector(input)
			if len(matches) == 0 {
				return fmt.Errorf("selector %s is not used by the launchpad contracts", input)
			}
			fmt.Fprintln(out, ui.KeyValueBlock("Selector Lookup", [][2]string{
				{"Selector", strings.ToLower(input)},
				{"Method", strings.Join(matches, ", ")},
			}))
			return nil
		}

		sig := normalizeSignature(input)
		sel := contract.Selector(sig)
		fmt.Fprintln(out, ui.KeyValueBlock("Function Selector", [][2]string{
			{"Signature", sig},
			{"Selector", "0x" + hex.EncodeToString(sel[:])},
		}))
		return nil
	},
}

// lookupSelector returns "<contract>.<signature>" for every built-in method
// whose selector is hexSel.
func lookupSelector(hexSel string) []string {
	want := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(hexSel, "0x"), "0X"))
	var out []string
	for _, b := range contract.AllBuiltins() {
		for _, m := range b.ABI.Methods {
			if hex.EncodeToString(m.ID) == want {
				out = append(out, b.ID+"."+m.Sig)
			}
		}
	}
	return out
}

// normalizeSignature removes parameter names, keeping only types.
// "transfer(address to, uint256 amount)" → "transfer(address,uint256)"
func normalizeSignature(sig string) string {
	parenIdx := strings.Index(sig, "(")
	if parenIdx < 0 || !strings.HasSuffix(sig, ")") {
		return sig
	}

	name := strings.TrimSpace(sig[:parenIdx])
	paramStr := sig[parenIdx+1 : len(sig)-1]
	if strings.TrimSpace(paramStr) == "" {
		return name + "()"
	}

	var types []string
	for _, p := range strings.Split(paramStr, ",") {
		if parts := strings.Fields(p); len(parts) > 0 {
			types = append(types, parts[0])
		}
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

func init() {
	rootCmd.AddCommand(contractsCmd, selectorCmd)
}
