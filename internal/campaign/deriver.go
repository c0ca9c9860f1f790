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

// Package campaign derives the displayable campaign state from a raw ledger record.
package campaign

import (
	"fmt"
	"math"

	"stacks-crowdfund-go/internal/convert"
	"stacks-crowdfund-go/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Classify returns the lifecycle of a record at the given block height
func Classify(record models.RawCampaignRecord, currentBlockHeight uint64) models.Lifecycle {
	switch {
	case record.Start == 0:
		return models.LifecycleUninitialized
	case record.IsCancelled:
		return models.LifecycleCancelled
	case currentBlockHeight >= record.End:
		return models.LifecycleExpired
	default:
		return models.LifecycleActive
	}
}

// Derive computes the CampaignView for a record. It is pure: the same inputs
// always produce the same view. A nil or invalid quote yields zero USD figures
// instead of an error.
func Derive(record models.RawCampaignRecord, currentBlockHeight uint64, quote *models.PriceQuote) models.CampaignView {
	view := models.CampaignView{
		Lifecycle:       Classify(record, currentBlockHeight),
		Withdrawn:       record.IsWithdrawn,
		UsdRaised:       decimal.Zero,
		GoalUsd:         convert.GoalFromLedger(record.Goal),
		ProgressPct:     decimal.Zero,
		BlocksRemaining: blocksRemaining(record.End, currentBlockHeight),
		DonationCount:   record.DonationCount,
		RaisedNative:    convert.BaseUnitsToNative(record.RaisedNative),
		RaisedWrapped:   convert.BaseUnitsToWrappedAsset(record.RaisedWrapped),
		PriceAvailable:  quote.Valid(),
	}

	if view.PriceAvailable {
		view.UsdRaised = usdRaised(record, quote)
	}
	if view.GoalUsd.IsPositive() {
		view.ProgressPct = view.UsdRaised.Mul(hundred).Div(view.GoalUsd)
	}
	return view
}

func usdRaised(record models.RawCampaignRecord, quote *models.PriceQuote) decimal.Decimal {
	// quote is known valid here, so the conversions cannot fail
	conv := convert.New(quote)
	nativeUsd, _ := conv.BaseUnitsToUsd(models.AssetNative, record.RaisedNative)
	wrappedUsd, _ := conv.BaseUnitsToUsd(models.AssetWrapped, record.RaisedWrapped)
	return nativeUsd.Add(wrappedUsd)
}

// blocksRemaining is end-height, clamped to the int64 range
func blocksRemaining(end, height uint64) int64 {
	if height > end {
		diff := height - end
		if diff > math.MaxInt64 {
			return math.MinInt64
		}
		return -int64(diff)
	}
	diff := end - height
	if diff > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(diff)
}

// ContributionAllowed is the pre-flight check run before a contribution descriptor is built
func ContributionAllowed(view models.CampaignView) error {
	switch {
	case view.Lifecycle == models.LifecycleUninitialized:
		return models.ErrCampaignNotInitialized
	case !view.CanContribute():
		return fmt.Errorf("campaign is %s and no longer accepts contributions", view.DisplayState())
	default:
		return nil
	}
}

// RefundEligible reports whether the donor can claim a refund from this campaign
func RefundEligible(view models.CampaignView, donation *models.DonationRecord) bool {
	if donation == nil {
		return false
	}
	return view.RefundEligible(*donation)
}
