/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"stacks-crowdfund-go/internal/models"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

const devnetDeployer = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"

// DefaultNetworks is used when no NETWORKS_FILE is configured. The fundraising
// contract is only known for devnet; other networks must come from a file.
func DefaultNetworks() map[models.Network]models.NetworkConfig {
	return map[models.Network]models.NetworkConfig{
		models.NetworkDevnet: {
			Name:             models.NetworkDevnet,
			NodeUrl:          "http://localhost:3999",
			Fundraising:      models.ContractId{Address: devnetDeployer, Name: "fundraising"},
			WrappedAsset:     models.ContractId{Address: devnetDeployer, Name: "sbtc-token"},
			WrappedAssetName: "sbtc-token",
		},
		models.NetworkTestnet: {
			Name:             models.NetworkTestnet,
			NodeUrl:          "https://api.testnet.hiro.so",
			WrappedAsset:     models.ContractId{Address: "ST1F7QA2MDF17S807EPA36TSS8AMEFY4KA9TVGWXT", Name: "sbtc-token"},
			WrappedAssetName: "sbtc-token",
		},
		models.NetworkMainnet: {
			Name:             models.NetworkMainnet,
			NodeUrl:          "https://api.hiro.so",
			WrappedAsset:     models.ContractId{Address: "SM3VDXK3WZZSA84XXFKAFAF15NNZX32CTSG82JFQ4", Name: "sbtc-token"},
			WrappedAssetName: "sbtc-token",
		},
	}
}

func Load() (*models.Config, error) {
	cfg := &models.Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse environment: %w", err)
	}

	if _, err := models.ParseNetwork(cfg.Network); err != nil {
		return nil, err
	}

	if cfg.Http.Timeout <= 0 {
		return nil, fmt.Errorf("http timeout must be positive, got %v", cfg.Http.Timeout)
	}
	if cfg.Watch.PollingInterval <= 0 {
		return nil, fmt.Errorf("polling interval must be positive, got %v", cfg.Watch.PollingInterval)
	}
	if cfg.Prices.NativeUsd.IsNegative() || cfg.Prices.WrappedAssetUsd.IsNegative() {
		return nil, fmt.Errorf("configured prices cannot be negative")
	}

	networks := DefaultNetworks()
	if cfg.NetworksFile != "" {
		loaded, err := LoadNetworks(cfg.NetworksFile)
		if err != nil {
			return nil, err
		}
		for name, nc := range loaded {
			networks[name] = nc
		}
	}
	cfg.Networks = networks

	return cfg, nil
}

// NetworksFile is the on-disk shape of NETWORKS_FILE
type NetworksFile struct {
	Networks []NetworkEntry `yaml:"networks"`
}

type NetworkEntry struct {
	Name             string `yaml:"name"`
	NodeUrl          string `yaml:"node_url"`
	Fundraising      string `yaml:"fundraising"`
	WrappedAsset     string `yaml:"wrapped_asset"`
	WrappedAssetName string `yaml:"wrapped_asset_name"`
}

func LoadNetworks(networksFile string) (map[models.Network]models.NetworkConfig, error) {
	var networksPath string
	if filepath.IsAbs(networksFile) {
		networksPath = networksFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		networksPath = filepath.Join(wd, networksFile)
	}

	data, err := os.ReadFile(networksPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", networksFile, err)
	}

	return ParseNetworks(data, networksFile)
}

// ParseNetworks validates a networks document. Fundraising may be left empty;
// builder calls on that network then fail with ErrContractNotConfigured.
func ParseNetworks(data []byte, source string) (map[models.Network]models.NetworkConfig, error) {
	var file NetworksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", source, err)
	}

	result := make(map[models.Network]models.NetworkConfig, len(file.Networks))
	for i, entry := range file.Networks {
		name, err := models.ParseNetwork(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("network at index %d: %w", i, err)
		}
		if entry.NodeUrl == "" {
			return nil, fmt.Errorf("network %s missing node_url", name)
		}
		if entry.WrappedAsset == "" || entry.WrappedAssetName == "" {
			return nil, fmt.Errorf("network %s missing wrapped_asset or wrapped_asset_name", name)
		}

		nc := models.NetworkConfig{
			Name:             name,
			NodeUrl:          entry.NodeUrl,
			WrappedAssetName: entry.WrappedAssetName,
		}
		if nc.WrappedAsset, err = models.ParseContractId(entry.WrappedAsset); err != nil {
			return nil, fmt.Errorf("network %s: %w", name, err)
		}
		if entry.Fundraising != "" {
			if nc.Fundraising, err = models.ParseContractId(entry.Fundraising); err != nil {
				return nil, fmt.Errorf("network %s: %w", name, err)
			}
		}
		result[name] = nc
	}

	return result, nil
}
