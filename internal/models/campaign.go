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
	"github.com/shopspring/decimal"
)

// PriceQuote is a USD price snapshot for both campaign assets
type PriceQuote struct {
	NativeUsd       decimal.Decimal `json:"native_usd"`
	WrappedAssetUsd decimal.Decimal `json:"wrapped_asset_usd"`
}

// Valid reports whether both prices are present and positive
func (q *PriceQuote) Valid() bool {
	return q != nil && q.NativeUsd.IsPositive() && q.WrappedAssetUsd.IsPositive()
}

// RawCampaignRecord is the campaign state as read from the fundraising contract.
// Start == 0 means the campaign has not been initialized.
type RawCampaignRecord struct {
	Start         uint64 `json:"start"`
	End           uint64 `json:"end"`
	Goal          uint64 `json:"goal"` // ledger goal unit, see convert.GoalFromLedger
	RaisedNative  uint64 `json:"raised_native"`
	RaisedWrapped uint64 `json:"raised_wrapped"`
	DonationCount uint64 `json:"donation_count"`
	IsCancelled   bool   `json:"is_cancelled"`
	IsWithdrawn   bool   `json:"is_withdrawn"`
}

// DonationRecord is one donor's running contribution, in base units
type DonationRecord struct {
	Native  uint64 `json:"native"`
	Wrapped uint64 `json:"wrapped"`
}

// HasFunds reports whether the donor has anything left to refund
func (d DonationRecord) HasFunds() bool {
	return d.Native > 0 || d.Wrapped > 0
}

type Lifecycle string

const (
	LifecycleUninitialized Lifecycle = "uninitialized"
	LifecycleActive        Lifecycle = "active"
	LifecycleExpired       Lifecycle = "expired"
	LifecycleCancelled     Lifecycle = "cancelled"
	LifecycleWithdrawn     Lifecycle = "withdrawn"
)

// CampaignView is derived from a RawCampaignRecord on every read and never stored
type CampaignView struct {
	Lifecycle       Lifecycle       `json:"lifecycle"`
	Withdrawn       bool            `json:"withdrawn"`
	UsdRaised       decimal.Decimal `json:"usd_raised"`
	GoalUsd         decimal.Decimal `json:"goal_usd"`
	ProgressPct     decimal.Decimal `json:"progress_pct"`
	BlocksRemaining int64           `json:"blocks_remaining"`
	DonationCount   uint64          `json:"donation_count"`
	RaisedNative    decimal.Decimal `json:"raised_native"`
	RaisedWrapped   decimal.Decimal `json:"raised_wrapped"`
	PriceAvailable  bool            `json:"price_available"`
}

// DisplayState layers the withdrawn flag over the lifecycle for presentation
func (v CampaignView) DisplayState() Lifecycle {
	if v.Withdrawn && v.Lifecycle != LifecycleUninitialized {
		return LifecycleWithdrawn
	}
	return v.Lifecycle
}

// CanContribute reports whether the campaign accepts new contributions
func (v CampaignView) CanContribute() bool {
	return v.Lifecycle == LifecycleActive && !v.Withdrawn
}

// RefundEligible reports whether a donor with the given record can claim a refund
func (v CampaignView) RefundEligible(donation DonationRecord) bool {
	return v.Lifecycle == LifecycleCancelled && donation.HasFunds()
}
