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
	"time"
)

// ViewResult represents one read of the campaign state. When Available is
// false the View is nil and Category/Error explain why.
type ViewResult struct {
	Available   bool          `json:"available"`
	View        *CampaignView `json:"view,omitempty"`
	BlockHeight uint64        `json:"block_height"`
	Quote       *PriceQuote   `json:"quote,omitempty"`
	Category    ErrorCategory `json:"category,omitempty"`
	Error       string        `json:"error,omitempty"`
	ReadAt      time.Time     `json:"read_at"`

	err error
}

// Unavailable marks the result as unreadable because of err
func (r *ViewResult) Unavailable(err error) {
	r.Available = false
	r.View = nil
	r.Category = CategoryOf(err)
	r.Error = err.Error()
	r.err = err
}

// Err returns the error that made the result unavailable, or nil
func (r *ViewResult) Err() error {
	return r.err
}

// DonationResult represents a donor's record and whether it can be refunded
type DonationResult struct {
	Principal      string         `json:"principal"`
	Donation       DonationRecord `json:"donation"`
	RefundEligible bool           `json:"refund_eligible"`
}
