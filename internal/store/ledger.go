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

package store

import (
	"context"
	"fmt"

	"stacks-crowdfund-go/internal/clarity"
	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/stacks"

	"go.uber.org/zap"
)

// Fundraising contract read-only functions
const (
	fnCampaignInfo    = "get-campaign-info"
	fnNativeDonation  = "get-stx-donation"
	fnWrappedDonation = "get-sbtc-donation"
)

// NodeClient is the subset of the node API the reader needs
type NodeClient interface {
	GetInfo(ctx context.Context) (*stacks.NodeInfo, error)
	CallReadOnly(ctx context.Context, contract models.ContractId, function, sender string, args ...clarity.Value) (clarity.Value, error)
}

// LedgerReader implements the campaign, donation and block-height sources
// against the fundraising contract's read-only functions
type LedgerReader struct {
	client   NodeClient
	contract models.ContractId
}

func NewLedgerReader(client NodeClient, netCfg models.NetworkConfig) *LedgerReader {
	return &LedgerReader{
		client:   client,
		contract: netCfg.Fundraising,
	}
}

func (r *LedgerReader) GetBlockHeight(ctx context.Context) (uint64, error) {
	info, err := r.client.GetInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	return info.BurnBlockHeight, nil
}

func (r *LedgerReader) GetCampaign(ctx context.Context) (*models.RawCampaignRecord, error) {
	if r.contract.IsZero() {
		return nil, ErrContractNotConfigured
	}

	value, err := r.client.CallReadOnly(ctx, r.contract, fnCampaignInfo, r.contract.Address)
	if err != nil {
		zap.L().Warn("Campaign info read failed", zap.String("contract", r.contract.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}

	record, err := decodeCampaign(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	return record, nil
}

func (r *LedgerReader) GetDonation(ctx context.Context, principal string) (*models.DonationRecord, error) {
	if principal == "" {
		return nil, models.ErrAddressRequired
	}
	if r.contract.IsZero() {
		return nil, ErrContractNotConfigured
	}
	arg, err := clarity.Principal(principal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAddressRequired, err)
	}

	native, err := r.readAmount(ctx, fnNativeDonation, principal, arg)
	if err != nil {
		return nil, err
	}
	wrapped, err := r.readAmount(ctx, fnWrappedDonation, principal, arg)
	if err != nil {
		return nil, err
	}
	return &models.DonationRecord{Native: native, Wrapped: wrapped}, nil
}

func (r *LedgerReader) readAmount(ctx context.Context, fn, sender string, arg clarity.Value) (uint64, error) {
	value, err := r.client.CallReadOnly(ctx, r.contract, fn, sender, arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	inner, err := unwrap(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrFetchFailure, fn, err)
	}
	if inner == nil {
		return 0, nil
	}
	amount, err := clarity.AsUint64(inner)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrFetchFailure, fn, err)
	}
	return amount, nil
}

// unwrap strips (ok ...) and (some ...). none yields nil; (err ...) is an error.
func unwrap(value clarity.Value) (clarity.Value, error) {
	for {
		switch v := value.(type) {
		case clarity.ResponseValue:
			if !v.Ok {
				return nil, fmt.Errorf("contract returned %s", v.String())
			}
			value = v.Value
		case clarity.OptionalValue:
			if v.Value == nil {
				return nil, nil
			}
			value = v.Value
		default:
			return value, nil
		}
	}
}

func decodeCampaign(value clarity.Value) (*models.RawCampaignRecord, error) {
	inner, err := unwrap(value)
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return nil, nil
	}
	tuple, ok := inner.(clarity.TupleValue)
	if !ok {
		return nil, fmt.Errorf("expected campaign tuple, got %s", inner.String())
	}

	record := &models.RawCampaignRecord{}
	uints := []struct {
		key string
		dst *uint64
	}{
		{"start", &record.Start},
		{"end", &record.End},
		{"goal", &record.Goal},
		{"totalStx", &record.RaisedNative},
		{"totalSbtc", &record.RaisedWrapped},
		{"donationCount", &record.DonationCount},
	}
	for _, field := range uints {
		v, ok := tuple[field.key]
		if !ok {
			return nil, fmt.Errorf("campaign tuple missing %q", field.key)
		}
		n, err := clarity.AsUint64(v)
		if err != nil {
			return nil, fmt.Errorf("campaign field %q: %w", field.key, err)
		}
		*field.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"isCancelled", &record.IsCancelled},
		{"isWithdrawn", &record.IsWithdrawn},
	}
	for _, field := range bools {
		v, ok := tuple[field.key]
		if !ok {
			return nil, fmt.Errorf("campaign tuple missing %q", field.key)
		}
		b, err := clarity.AsBool(v)
		if err != nil {
			return nil, fmt.Errorf("campaign field %q: %w", field.key, err)
		}
		*field.dst = b
	}
	return record, nil
}
