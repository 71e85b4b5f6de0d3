package contract

// Built-in IDs of the launchpad contracts.
//
//	mint()              → 0x1249c58b
//	getNonce(address)   → 0x2d0335ab
const (
	MintToken = "bn8004"
	Forwarder = "forwarder"
)

func init() {
	RegisterBuiltin(MintToken, "BN8004 Mint Token",
		"Launchpad token; mint() pulls the payment token from the caller's allowance.",
		mintTokenABI)
	RegisterBuiltin(Forwarder, "ERC-2771 Forwarder",
		"Meta-transaction forwarder; exposes the per-account relay nonce.",
		forwarderABI)
}

const mintTokenABI = `[
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[],"outputs":[{"name":"","type":"bool"}]}
]`

const forwarderABI = `[
  {"type":"function","name":"getNonce","stateMutability":"view","inputs":[{"name":"from","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`
