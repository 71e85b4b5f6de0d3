package contract

import (
	"github.com/Mohsinsiddi/bn8004/internal/config"
	"golang.org/x/crypto/sha3"
)

// Selector computes the 4-byte function selector of a canonical signature
// such as "approve(address,uint256)".
func Selector(signature string) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	var sel [4]byte
	copy(sel[:], h.Sum(nil)[:4])
	return sel
}

var gasFallbacks = map[[4]byte]uint64{
	Selector("approve(address,uint256)"): config.GasLimitERC20Approve,
	Selector("mint()"):                   config.GasLimitMint,
}

// GasFallback returns the gas limit to use for calldata when the node cannot
// estimate it.
func GasFallback(data []byte) uint64 {
	if len(data) >= 4 {
		var sel [4]byte
		copy(sel[:], data[:4])
		if gas, ok := gasFallbacks[sel]; ok {
			return gas
		}
	}
	return config.GasLimitContractCall
}
