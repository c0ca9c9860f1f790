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

package models

import (
	"fmt"
	"strings"

	"stacks-crowdfund-go/internal/c32"
)

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
)

func ParseNetwork(s string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(s))); n {
	case NetworkMainnet, NetworkTestnet, NetworkDevnet:
		return n, nil
	default:
		return "", fmt.Errorf("unknown network %q (expected mainnet, testnet or devnet)", s)
	}
}

func (n Network) IsMainnet() bool {
	return n == NetworkMainnet
}

// AddressVersion is the c32 version byte for single-sig accounts on this network
func (n Network) AddressVersion() byte {
	if n.IsMainnet() {
		return c32.VersionMainnetSingleSig
	}
	return c32.VersionTestnetSingleSig
}

// TransactionVersion is the leading byte of a serialized transaction
func (n Network) TransactionVersion() byte {
	if n.IsMainnet() {
		return 0x00
	}
	return 0x80
}

func (n Network) ChainId() uint32 {
	if n.IsMainnet() {
		return 0x00000001
	}
	return 0x80000000
}

// ContractId identifies a deployed contract as ADDRESS.name
type ContractId struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
}

func ParseContractId(s string) (ContractId, error) {
	addr, name, ok := strings.Cut(s, ".")
	if !ok || addr == "" || name == "" {
		return ContractId{}, fmt.Errorf("invalid contract id %q, expected ADDRESS.name", s)
	}
	if _, _, err := c32.DecodeAddress(addr); err != nil {
		return ContractId{}, fmt.Errorf("invalid contract id %q: %w", s, err)
	}
	return ContractId{Address: addr, Name: name}, nil
}

func (c ContractId) IsZero() bool {
	return c.Address == "" || c.Name == ""
}

func (c ContractId) String() string {
	return c.Address + "." + c.Name
}

// NetworkConfig holds the node and contract coordinates for one network
type NetworkConfig struct {
	Name             Network    `yaml:"name"`
	NodeUrl          string     `yaml:"node_url"`
	Fundraising      ContractId `yaml:"fundraising"`
	WrappedAsset     ContractId `yaml:"wrapped_asset"`
	WrappedAssetName string     `yaml:"wrapped_asset_name"`
}

// WrappedAssetIdentifier returns the fungible token identifier ADDRESS.contract::token
func (c NetworkConfig) WrappedAssetIdentifier() string {
	return c.WrappedAsset.String() + "::" + c.WrappedAssetName
}
