package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const (
	defaultEnvironment = EnvProduction
	defaultAlgorithm   = "fastest"
	defaultListenAddr  = "127.0.0.1:8004"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	logFile     = "bn8004.log"

	// EnvVar overrides the environment in config.json.
	EnvVar = "BN8004_ENV"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.bn8004.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".bn8004")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		cfg.configDir = dir
	}

	if env := os.Getenv(EnvVar); env != "" {
		cfg.Environment = env
	}
	if cfg.Environment != EnvProduction && cfg.Environment != EnvDevelopment {
		return nil, fmt.Errorf("unknown environment %q (want %s or %s)", cfg.Environment, EnvProduction, EnvDevelopment)
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// AddRPC adds a custom RPC URL for the launchpad chain.
func (c *Config) AddRPC(url string) error {
	if slices.Contains(c.CustomRPCs, url) {
		return fmt.Errorf("RPC %s already configured", url)
	}
	c.CustomRPCs = append(c.CustomRPCs, url)
	return nil
}

// RemoveRPC removes a custom RPC URL.
func (c *Config) RemoveRPC(url string) error {
	idx := slices.Index(c.CustomRPCs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not configured", url)
	}
	c.CustomRPCs = slices.Delete(c.CustomRPCs, idx, idx+1)
	return nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is the location of wallets.json.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// LogPath is where the TUI writes its log while it owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.configDir, logFile)
}

// Launchpad returns the static launchpad settings for the configured environment.
func (c *Config) Launchpad() Launchpad {
	return DefaultLaunchpad(c.Environment)
}

func defaults(dir string) *Config {
	return &Config{
		Environment:  defaultEnvironment,
		RPCAlgorithm: defaultAlgorithm,
		ListenAddr:   defaultListenAddr,
		configDir:    dir,
	}
}
