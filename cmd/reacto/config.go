package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/reacto-io/reacto"
)

// brokerConfig is the TOML shape of a broker-only deployment: addressing
// plus the ids of the external participants the barrier must wait for.
type brokerConfig struct {
	IngressPort  int   `toml:"ingress-port"`
	EgressPort   int   `toml:"egress-port"`
	SyncBasePort int   `toml:"sync-base-port"`
	Externals    []int `toml:"externals"`
}

func defaultBrokerConfig() brokerConfig {
	return brokerConfig{
		IngressPort:  reacto.DefaultIngressPort,
		EgressPort:   reacto.DefaultEgressPort,
		SyncBasePort: reacto.DefaultSyncBasePort,
	}
}

func loadBrokerConfig(path string) (brokerConfig, error) {
	cfg := defaultBrokerConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
