package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/signer"
	"stacks-crowdfund-go/internal/stacks"
	"stacks-crowdfund-go/internal/txbuilder"

	"github.com/shopspring/decimal"
)

const devnetMnemonic = "twice kind fence tip hidden tilt action fragile skin nothing glory cousin green tomorrow spring wrist shed math olympic multiply hip blue scout claw"

type fakeNode struct {
	nonce     uint64
	broadcast [][]byte
	err       error
}

func (n *fakeNode) GetNonce(ctx context.Context, principal string) (uint64, error) {
	return n.nonce, nil
}

func (n *fakeNode) Broadcast(ctx context.Context, raw []byte) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	n.broadcast = append(n.broadcast, raw)
	return strings.Repeat("ab", 32), nil
}

func newTestRequest(t *testing.T, key *signer.LocalKey) executor.ContractCallRequest {
	t.Helper()

	caller, err := key.Address(models.NetworkDevnet)
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	networks := map[models.Network]models.NetworkConfig{
		models.NetworkDevnet: {
			Name: models.NetworkDevnet,
			Fundraising: models.ContractId{
				Address: "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM",
				Name:    "fundraising",
			},
		},
	}
	desc, err := txbuilder.NewBuilder(networks).Contribute(
		models.NetworkDevnet, caller, decimal.NewFromInt(50),
		&models.PriceQuote{NativeUsd: decimal.NewFromInt(2), WrappedAssetUsd: decimal.NewFromInt(100000)},
		models.AssetNative)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return executor.ContractCallRequest{Descriptor: desc, Summary: txbuilder.Describe(desc)}
}

func TestPromptWallet(t *testing.T) {
	key, err := signer.FromMnemonic(devnetMnemonic, 0)
	if err != nil {
		t.Fatalf("FromMnemonic: %v", err)
	}

	tests := []struct {
		name         string
		input        string
		assumeYes    bool
		wantFinish   bool
		wantCancel   bool
		wantBroadcast int
	}{
		{name: "approve", input: "y\n", wantFinish: true, wantBroadcast: 1},
		{name: "approve long form", input: "YES\n", wantFinish: true, wantBroadcast: 1},
		{name: "decline", input: "n\n", wantCancel: true},
		{name: "empty answer declines", input: "\n", wantCancel: true},
		{name: "eof declines", input: "", wantCancel: true},
		{name: "assume yes skips prompt", assumeYes: true, wantFinish: true, wantBroadcast: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &fakeNode{nonce: 3}
			var out bytes.Buffer
			w := &promptWallet{
				in:        strings.NewReader(tt.input),
				out:       &out,
				key:       key,
				node:      node,
				fee:       1000,
				assumeYes: tt.assumeYes,
			}

			var finished, cancelled bool
			var txid string
			err := w.RequestContractCall(context.Background(), newTestRequest(t, key),
				func(d executor.FinishData) { finished = true; txid = d.TxId },
				func() { cancelled = true })
			if err != nil {
				t.Fatalf("RequestContractCall: %v", err)
			}
			if finished != tt.wantFinish || cancelled != tt.wantCancel {
				t.Fatalf("finished=%v cancelled=%v, want %v/%v", finished, cancelled, tt.wantFinish, tt.wantCancel)
			}
			if len(node.broadcast) != tt.wantBroadcast {
				t.Errorf("broadcasts = %d, want %d", len(node.broadcast), tt.wantBroadcast)
			}
			if finished && len(txid) != 64 {
				t.Errorf("txid = %q", txid)
			}
			if !strings.Contains(out.String(), "donate-stx") {
				t.Errorf("prompt did not include the summary:\n%s", out.String())
			}
		})
	}
}

func TestPromptWalletBroadcastError(t *testing.T) {
	key, err := signer.FromMnemonic(devnetMnemonic, 0)
	if err != nil {
		t.Fatalf("FromMnemonic: %v", err)
	}
	node := &fakeNode{err: &stacks.BroadcastError{StatusCode: 400, Reason: "BadNonce"}}
	w := &promptWallet{in: strings.NewReader("y\n"), out: &bytes.Buffer{}, key: key, node: node, fee: 1000}

	err = w.RequestContractCall(context.Background(), newTestRequest(t, key),
		func(executor.FinishData) { t.Error("onFinish called") },
		func() { t.Error("onCancel called") })
	if !errors.Is(err, models.ErrBroadcastFailure) {
		t.Fatalf("err = %v, want ErrBroadcastFailure", err)
	}
}

func TestParseAsset(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Asset
		wantErr bool
	}{
		{in: "native", want: models.AssetNative},
		{in: "stx", want: models.AssetNative},
		{in: "wrapped", want: models.AssetWrapped},
		{in: "sBTC", want: models.AssetWrapped},
		{in: "doge", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAsset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAsset(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAsset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
