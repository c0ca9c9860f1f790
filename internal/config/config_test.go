package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"stacks-crowdfund-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Network != "devnet" {
		t.Errorf("expected devnet, got %s", cfg.Network)
	}
	if cfg.Signer.FeeMicroStx != 1000 {
		t.Errorf("expected default fee 1000, got %d", cfg.Signer.FeeMicroStx)
	}
	if cfg.Watch.PollingInterval != 30*time.Second {
		t.Errorf("expected 30s polling interval, got %v", cfg.Watch.PollingInterval)
	}
	devnet, ok := cfg.Networks[models.NetworkDevnet]
	if !ok || devnet.Fundraising.IsZero() {
		t.Fatalf("expected devnet fundraising contract, got %+v", devnet)
	}
	if cfg.Networks[models.NetworkMainnet].Fundraising.IsZero() != true {
		t.Error("expected mainnet fundraising contract to be unset by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STACKS_NETWORK", "testnet")
	t.Setenv("PRICE_STX_USD", "2.00")
	t.Setenv("PRICE_SBTC_USD", "100000")
	t.Setenv("WATCH_POLLING_INTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Network != "testnet" {
		t.Errorf("expected testnet, got %s", cfg.Network)
	}
	if !cfg.Prices.NativeUsd.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected STX price 2, got %s", cfg.Prices.NativeUsd)
	}
	if !cfg.Prices.WrappedAssetUsd.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected sBTC price 100000, got %s", cfg.Prices.WrappedAssetUsd)
	}
	if cfg.Watch.PollingInterval != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.Watch.PollingInterval)
	}
}

func TestLoad_InvalidNetwork(t *testing.T) {
	t.Setenv("STACKS_NETWORK", "regtest")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadNetworks(t *testing.T) {
	doc := `
networks:
  - name: testnet
    node_url: https://api.testnet.hiro.so
    fundraising: ST1SJ3DTE5DN7X54YDH5D64R3BCB6A2AG2ZQ8YPD5.fundraising
    wrapped_asset: ST1F7QA2MDF17S807EPA36TSS8AMEFY4KA9TVGWXT.sbtc-token
    wrapped_asset_name: sbtc-token
`
	path := filepath.Join(t.TempDir(), "networks.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	networks, err := LoadNetworks(path)
	if err != nil {
		t.Fatalf("LoadNetworks failed: %v", err)
	}
	testnet := networks[models.NetworkTestnet]
	if testnet.Fundraising.String() != "ST1SJ3DTE5DN7X54YDH5D64R3BCB6A2AG2ZQ8YPD5.fundraising" {
		t.Errorf("unexpected fundraising contract %s", testnet.Fundraising)
	}
	if testnet.WrappedAssetIdentifier() != "ST1F7QA2MDF17S807EPA36TSS8AMEFY4KA9TVGWXT.sbtc-token::sbtc-token" {
		t.Errorf("unexpected wrapped asset identifier %s", testnet.WrappedAssetIdentifier())
	}
}

func TestParseNetworks_Validation(t *testing.T) {
	tests := map[string]string{
		"unknown network": "networks:\n  - name: regtest\n    node_url: http://x\n    wrapped_asset: ST1F7QA2MDF17S807EPA36TSS8AMEFY4KA9TVGWXT.sbtc-token\n    wrapped_asset_name: sbtc-token\n",
		"missing node":    "networks:\n  - name: devnet\n    wrapped_asset: ST1F7QA2MDF17S807EPA36TSS8AMEFY4KA9TVGWXT.sbtc-token\n    wrapped_asset_name: sbtc-token\n",
		"bad contract":    "networks:\n  - name: devnet\n    node_url: http://x\n    fundraising: nodot\n    wrapped_asset: ST1F7QA2MDF17S807EPA36TSS8AMEFY4KA9TVGWXT.sbtc-token\n    wrapped_asset_name: sbtc-token\n",
		"bad yaml":        "networks: [",
	}
	for name, doc := range tests {
		if _, err := ParseNetworks([]byte(doc), name); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
