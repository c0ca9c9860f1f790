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

// Package txbuilder assembles fundraising contract calls. Every descriptor it
// returns runs in deny mode and lists the exact amounts the caller may spend.
package txbuilder

import (
	"fmt"
	"time"

	"stacks-crowdfund-go/internal/c32"
	"stacks-crowdfund-go/internal/clarity"
	"stacks-crowdfund-go/internal/convert"
	"stacks-crowdfund-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fundraising contract entry points
const (
	FnDonateNative  = "donate-stx"
	FnDonateWrapped = "donate-sbtc"
	FnInitialize    = "initialize-campaign"
	FnCancel        = "cancel-campaign"
	FnRefund        = "refund"
	FnWithdraw      = "withdraw"
)

// defaultDuration asks initialize-campaign to use the contract's built-in duration
const defaultDuration = 0

type Builder struct {
	networks map[models.Network]models.NetworkConfig
	now      func() time.Time
}

func NewBuilder(networks map[models.Network]models.NetworkConfig) *Builder {
	return &Builder{
		networks: networks,
		now:      time.Now,
	}
}

// Contribute builds donate-stx or donate-sbtc for the USD amount at the quoted price.
// The amount is truncated to base units; an amount that truncates to zero is rejected.
func (b *Builder) Contribute(
	network models.Network,
	caller string,
	usd decimal.Decimal,
	quote *models.PriceQuote,
	asset models.Asset,
) (*models.TransactionDescriptor, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}
	if !usd.IsPositive() {
		return nil, fmt.Errorf("%w: contribution of $%s", models.ErrInvalidAmount, usd.String())
	}

	netCfg, err := b.fundraising(network)
	if err != nil {
		return nil, err
	}

	baseUnits, err := convert.New(quote).UsdToBaseUnits(asset, usd)
	if err != nil {
		return nil, err
	}
	if baseUnits == 0 {
		return nil, fmt.Errorf("%w: $%s is less than one base unit of %s", models.ErrInvalidAmount, usd.String(), asset.Symbol())
	}

	guarantee := models.SpendingGuarantee{
		Principal:   caller,
		Asset:       asset,
		ExactAmount: baseUnits,
		Comparison:  models.ComparisonEqual,
	}

	var action models.Action
	var fn string
	switch asset {
	case models.AssetNative:
		action, fn = models.ActionContributeNative, FnDonateNative
	case models.AssetWrapped:
		if netCfg.WrappedAsset.IsZero() || netCfg.WrappedAssetName == "" {
			return nil, fmt.Errorf("%w: no sBTC token for %s", models.ErrContractNotConfigured, network)
		}
		action, fn = models.ActionContributeWrapped, FnDonateWrapped
		guarantee.AssetIdentifier = netCfg.WrappedAssetIdentifier()
	default:
		return nil, fmt.Errorf("unsupported asset %q", asset)
	}

	desc := b.descriptor(netCfg, caller, action, fn, []clarity.Value{clarity.UInt(baseUnits)}, guarantee)

	zap.L().Debug("Built contribution",
		zap.String("id", desc.Id),
		zap.String("asset", asset.Symbol()),
		zap.String("usd", usd.String()),
		zap.Uint64("base_units", baseUnits))

	return desc, nil
}

// Initialize builds initialize-campaign with the goal in whole dollars and the
// contract's default duration
func (b *Builder) Initialize(network models.Network, caller string, goalUsd decimal.Decimal) (*models.TransactionDescriptor, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}
	goal, err := convert.GoalToLedger(goalUsd)
	if err != nil {
		return nil, err
	}
	netCfg, err := b.fundraising(network)
	if err != nil {
		return nil, err
	}

	args := []clarity.Value{clarity.UInt(goal), clarity.UInt(defaultDuration)}
	return b.descriptor(netCfg, caller, models.ActionInitialize, FnInitialize, args, zeroNative(caller)), nil
}

func (b *Builder) Cancel(network models.Network, caller string) (*models.TransactionDescriptor, error) {
	return b.noArgs(network, caller, models.ActionCancel, FnCancel)
}

// Refund is built regardless of lifecycle; eligibility is enforced by the contract
func (b *Builder) Refund(network models.Network, caller string) (*models.TransactionDescriptor, error) {
	return b.noArgs(network, caller, models.ActionRefund, FnRefund)
}

func (b *Builder) Withdraw(network models.Network, caller string) (*models.TransactionDescriptor, error) {
	return b.noArgs(network, caller, models.ActionWithdraw, FnWithdraw)
}

func (b *Builder) noArgs(network models.Network, caller string, action models.Action, fn string) (*models.TransactionDescriptor, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}
	netCfg, err := b.fundraising(network)
	if err != nil {
		return nil, err
	}
	return b.descriptor(netCfg, caller, action, fn, nil, zeroNative(caller)), nil
}

func (b *Builder) fundraising(network models.Network) (models.NetworkConfig, error) {
	netCfg, ok := b.networks[network]
	if !ok || netCfg.Fundraising.IsZero() {
		return models.NetworkConfig{}, fmt.Errorf("%w: no fundraising contract for %s", models.ErrContractNotConfigured, network)
	}
	return netCfg, nil
}

func (b *Builder) descriptor(
	netCfg models.NetworkConfig,
	caller string,
	action models.Action,
	fn string,
	args []clarity.Value,
	guarantee models.SpendingGuarantee,
) *models.TransactionDescriptor {
	return &models.TransactionDescriptor{
		Id:           uuid.New().String(),
		Action:       action,
		Network:      netCfg.Name,
		Contract:     netCfg.Fundraising,
		FunctionName: fn,
		Args:         args,
		Guarantees:   []models.SpendingGuarantee{guarantee},
		Mode:         models.PostConditionModeDeny,
		Sender:       caller,
		CreatedAt:    b.now().UTC(),
	}
}

func zeroNative(caller string) models.SpendingGuarantee {
	return models.SpendingGuarantee{
		Principal:   caller,
		Asset:       models.AssetNative,
		ExactAmount: 0,
		Comparison:  models.ComparisonEqual,
	}
}

func checkCaller(caller string) error {
	if caller == "" {
		return models.ErrAddressRequired
	}
	if _, _, err := c32.DecodeAddress(caller); err != nil {
		return fmt.Errorf("%w: %q is not a valid address: %v", models.ErrAddressRequired, caller, err)
	}
	return nil
}
