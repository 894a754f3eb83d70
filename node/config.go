package node

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort         = "3000"
	DefaultSyncInterval = 10 * time.Second
)

// DefaultSeedPeer is the well-known bootstrap node every fresh ledger starts
// with. Reconciliation discovers the rest of the network from there.
const DefaultSeedPeer = "127.0.0.1:3000"

// Config holds all configuration for a node
type Config struct {
	// Port the HTTP API listens on
	Port string

	// Addr is the address this node advertises to peers (host:port)
	Addr string

	// SeedPeers are the initial entries of the peer set
	SeedPeers []string

	// SyncInterval is the period of the reconciliation loop
	SyncInterval time.Duration
}

// DefaultConfig returns the configuration a node runs with when given
// nothing: the well-known port, loopback identity, and the default seed.
func DefaultConfig() Config {
	return Config{
		Port:         DefaultPort,
		Addr:         "127.0.0.1:" + DefaultPort,
		SeedPeers:    []string{DefaultSeedPeer},
		SyncInterval: DefaultSyncInterval,
	}
}

// fileConfig is the TOML shape of a config file. Every field is optional;
// unset fields keep their defaults.
type fileConfig struct {
	Port                string   `toml:"port"`
	Addr                string   `toml:"addr"`
	SeedPeers           []string `toml:"seed_peers"`
	SyncIntervalSeconds int      `toml:"sync_interval_seconds"`
}

// LoadConfig reads a TOML config file and overlays it on the defaults
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file: %w", err)
	}
	var file fileConfig
	if err := toml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("could not parse config file: %w", err)
	}

	if file.Port != "" {
		config.Port = file.Port
		config.Addr = "127.0.0.1:" + file.Port
	}
	if file.Addr != "" {
		config.Addr = file.Addr
	}
	if len(file.SeedPeers) > 0 {
		config.SeedPeers = file.SeedPeers
	}
	if file.SyncIntervalSeconds > 0 {
		config.SyncInterval = time.Duration(file.SyncIntervalSeconds) * time.Second
	}

	return config, nil
}
