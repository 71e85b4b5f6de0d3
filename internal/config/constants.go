package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
const (
	GasLimitERC20Approve = uint64(60_000)
	GasLimitMint         = uint64(250_000)
	GasLimitContractCall = uint64(200_000)
)

// Timeouts.
const (
	RPCSelectTimeout  = 10 * time.Second // endpoint probing before connect
	ReceiptPollPeriod = 2 * time.Second  // eth_getTransactionReceipt polling
	WalletPollPeriod  = 2 * time.Second  // remote wallet account/chain change polling
)
