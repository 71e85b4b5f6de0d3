package config

// Config holds the user-editable bn8004 settings stored in config.json.
type Config struct {
	DefaultWallet  string   `json:"default_wallet"`
	WalletEndpoint string   `json:"wallet_endpoint,omitempty"` // EIP-1193 JSON-RPC wallet, e.g. http://127.0.0.1:1248
	Environment    string   `json:"environment"`               // "production" | "development"
	RPCAlgorithm   string   `json:"rpc_algorithm"`             // "fastest" | "round-robin" | "failover"
	CustomRPCs     []string `json:"custom_rpcs"`
	ListenAddr     string   `json:"listen_addr"` // bn8004 serve

	// internal: config dir path used for Save()
	configDir string
}

// Environments.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)
