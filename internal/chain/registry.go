package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Currency is a chain's native currency as wallets describe it (EIP-3085).
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Chain holds the metadata a wallet needs to talk to an EVM network.
type Chain struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        uint64   `json:"chain_id"`
	NativeCurrency Currency `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer"`
}

// AddChainParams is the wallet_addEthereumChain parameter object (EIP-3085).
type AddChainParams struct {
	ChainID           hexutil.Uint64 `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    Currency       `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

// Registry is the set of networks known out of the box.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[uint64]*Chain
}

// NewRegistry returns the registry of built-in EVM chains.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[uint64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "bnb", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric chain ID.
func (r *Registry) GetByChainID(id uint64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// MustGetByChainID returns a copy of a built-in chain and panics if it is unknown.
func (r *Registry) MustGetByChainID(id uint64) Chain {
	c, err := r.GetByChainID(id)
	if err != nil {
		panic(fmt.Sprintf("chain %d: %v", id, err))
	}
	out := *c
	out.RPCs = append([]string(nil), c.RPCs...)
	return out
}

// TxURL links a transaction hash on the chain's block explorer.
func (c Chain) TxURL(hash string) string {
	if c.Explorer == "" {
		return ""
	}
	return strings.TrimRight(c.Explorer, "/") + "/tx/" + hash
}

// AddChainParams describes the chain for wallet_addEthereumChain.
func (c Chain) AddChainParams() AddChainParams {
	p := AddChainParams{
		ChainID:        hexutil.Uint64(c.ChainID),
		ChainName:      c.DisplayName,
		NativeCurrency: c.NativeCurrency,
		RPCURLs:        append([]string(nil), c.RPCs...),
	}
	if c.Explorer != "" {
		p.BlockExplorerURLs = []string{c.Explorer}
	}
	return p
}

// Chain converts wallet_addEthereumChain parameters back into a Chain.
func (p AddChainParams) Chain() Chain {
	c := Chain{
		Name:           strings.ToLower(strings.ReplaceAll(p.ChainName, " ", "-")),
		DisplayName:    p.ChainName,
		ChainID:        uint64(p.ChainID),
		NativeCurrency: p.NativeCurrency,
		RPCs:           append([]string(nil), p.RPCURLs...),
	}
	if len(p.BlockExplorerURLs) > 0 {
		c.Explorer = p.BlockExplorerURLs[0]
	}
	return c
}

// Validate reports whether the parameters are usable for adding a network.
func (p AddChainParams) Validate() error {
	switch {
	case p.ChainID == 0:
		return errors.New("chainId is required")
	case p.ChainName == "":
		return errors.New("chainName is required")
	case len(p.RPCURLs) == 0:
		return errors.New("at least one rpcUrl is required")
	case p.NativeCurrency.Symbol == "":
		return errors.New("nativeCurrency.symbol is required")
	}
	return nil
}

// --- chain data ---

func allChains() []Chain {
	eth := Currency{Name: "Ether", Symbol: "ETH", Decimals: 18}
	bnb := Currency{Name: "Binance Coin", Symbol: "BNB", Decimals: 18}
	return []Chain{
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1, NativeCurrency: eth,
			RPCs:     []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			Explorer: "https://etherscan.io",
		},
		{
			Name: "bnb", DisplayName: "Binance Smart Chain", ChainID: 56, NativeCurrency: bnb,
			RPCs:     []string{"https://bsc-dataseed.binance.org/", "https://bsc-rpc.publicnode.com"},
			Explorer: "https://bscscan.com",
		},
		{
			Name: "bnb-testnet", DisplayName: "BSC Testnet", ChainID: 97,
			NativeCurrency: Currency{Name: "Test BNB", Symbol: "tBNB", Decimals: 18},
			RPCs:           []string{"https://data-seed-prebsc-1-s1.binance.org:8545"},
			Explorer:       "https://testnet.bscscan.com",
		},
		{
			Name: "opbnb", DisplayName: "opBNB", ChainID: 204, NativeCurrency: bnb,
			RPCs:     []string{"https://opbnb-mainnet-rpc.bnbchain.org"},
			Explorer: "https://opbnb.bscscan.com",
		},
		{
			Name: "base", DisplayName: "Base", ChainID: 8453, NativeCurrency: eth,
			RPCs:     []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			Explorer: "https://basescan.org",
		},
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137,
			NativeCurrency: Currency{Name: "POL", Symbol: "POL", Decimals: 18},
			RPCs:           []string{"https://polygon-rpc.com", "https://polygon.llamarpc.com"},
			Explorer:       "https://polygonscan.com",
		},
		{
			Name: "arbitrum", DisplayName: "Arbitrum", ChainID: 42161, NativeCurrency: eth,
			RPCs:     []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum.llamarpc.com"},
			Explorer: "https://arbiscan.io",
		},
		{
			Name: "optimism", DisplayName: "Optimism", ChainID: 10, NativeCurrency: eth,
			RPCs:     []string{"https://mainnet.optimism.io", "https://optimism.llamarpc.com"},
			Explorer: "https://optimistic.etherscan.io",
		},
	}
}
