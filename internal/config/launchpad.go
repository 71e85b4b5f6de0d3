package config

import (
	"math/big"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/ethereum/go-ethereum/common"
)

// Launchpad contract addresses on BNB Smart Chain.
var (
	PaymentTokenAddress = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955") // BSC-USD (USDT)
	MintTokenAddress    = common.HexToAddress("0xAbd0c33d4A624E695BB41Ab003021CB30Be80e37")
	ForwarderAddress    = common.HexToAddress("0x21DdAd2f176cf2fFFEd0510069D6f1fCe93C9642") // ERC-2771
)

const (
	ChainID    = uint64(56)
	RPCURL     = "https://bsc-dataseed.binance.org/"
	MintOutput = 8004

	relayerDev  = "http://localhost:3000/api/relay"
	relayerProd = "/api/relay"
)

// Token describes one ERC-20 the launchpad displays.
type Token struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// Launchpad is the immutable configuration of the mint flow.
type Launchpad struct {
	Payment   Token
	Mint      Token
	Forwarder common.Address

	// Chain is the network the contracts live on; its descriptor is offered to
	// wallets that do not know it yet.
	Chain      chain.Chain
	RPCURL     string // the one endpoint offered to wallets adding Chain
	RelayerURL string
	MintOutput int64

	ApproveAmount     *big.Int // requested per approve(), sized for ten mints
	ApprovalThreshold *big.Int // minimum allowance for one mint

	RefreshDelay time.Duration // balance refresh after a confirmed mint
	MessageTTL   time.Duration // success/info banner lifetime
}

// DefaultLaunchpad returns the launchpad settings for env.
func DefaultLaunchpad(env string) Launchpad {
	bsc := chain.NewRegistry().MustGetByChainID(ChainID)
	if len(bsc.RPCs) == 0 || bsc.RPCs[0] != RPCURL {
		bsc.RPCs = append([]string{RPCURL}, bsc.RPCs...)
	}

	relayer := relayerProd
	if env == EnvDevelopment {
		relayer = relayerDev
	}

	return Launchpad{
		Payment:           Token{Address: PaymentTokenAddress, Symbol: "USDT", Decimals: 18},
		Mint:              Token{Address: MintTokenAddress, Symbol: "BN8004", Decimals: 18},
		Forwarder:         ForwarderAddress,
		Chain:             bsc,
		RPCURL:            RPCURL,
		RelayerURL:        relayer,
		MintOutput:        MintOutput,
		ApproveAmount:     units(10, 18),
		ApprovalThreshold: units(1, 18),
		RefreshDelay:      3 * time.Second,
		MessageTTL:        5 * time.Second,
	}
}

// AddChainParams is the wallet_addEthereumChain descriptor for the launchpad
// chain. Only RPCURL is offered, not every endpoint the registry knows.
func (l Launchpad) AddChainParams() chain.AddChainParams {
	p := l.Chain.AddChainParams()
	if l.RPCURL != "" {
		p.RPCURLs = []string{l.RPCURL}
	}
	return p
}

func units(n int64, decimals uint8) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return scale.Mul(scale, big.NewInt(n))
}
