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
	"errors"
)

// ErrorCategory is the user-facing classification of an engine failure
type ErrorCategory string

const (
	CategoryInvalidPrice           ErrorCategory = "invalid_price"
	CategoryInvalidAmount          ErrorCategory = "invalid_amount"
	CategoryAddressRequired        ErrorCategory = "address_required"
	CategoryCampaignNotInitialized ErrorCategory = "campaign_not_initialized"
	CategoryBroadcastFailure       ErrorCategory = "broadcast_failure"
	CategoryUserCancelled          ErrorCategory = "user_cancelled"
	CategoryContractNotConfigured  ErrorCategory = "contract_not_configured"
	CategoryFetchFailure           ErrorCategory = "fetch_failure"
	CategoryUnknown                ErrorCategory = "unknown"
)

// Sentinel errors shared by the converter, builder, sources and executor.
var (
	ErrInvalidPrice           = errors.New("price quote is missing or not positive")
	ErrInvalidAmount          = errors.New("amount must be a positive, finite value")
	ErrAddressRequired        = errors.New("caller address is required")
	ErrCampaignNotInitialized = errors.New("campaign not initialized")
	ErrBroadcastFailure       = errors.New("error broadcasting transaction")
	ErrUserCancelled          = errors.New("transaction cancelled by user")
	ErrContractNotConfigured  = errors.New("contract address not configured")
	ErrFetchFailure           = errors.New("error fetching campaign info from blockchain")
)

var errorCategories = []struct {
	err      error
	category ErrorCategory
}{
	{ErrInvalidPrice, CategoryInvalidPrice},
	{ErrInvalidAmount, CategoryInvalidAmount},
	{ErrAddressRequired, CategoryAddressRequired},
	{ErrCampaignNotInitialized, CategoryCampaignNotInitialized},
	{ErrBroadcastFailure, CategoryBroadcastFailure},
	{ErrUserCancelled, CategoryUserCancelled},
	{ErrContractNotConfigured, CategoryContractNotConfigured},
	{ErrFetchFailure, CategoryFetchFailure},
}

// CategoryOf maps an error (possibly wrapped) to its category.
// Returns "" for nil and CategoryUnknown for anything unrecognized.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	for _, ec := range errorCategories {
		if errors.Is(err, ec.err) {
			return ec.category
		}
	}
	return CategoryUnknown
}
