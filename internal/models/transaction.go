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

	"stacks-crowdfund-go/internal/clarity"
)

type Action string

const (
	ActionContributeNative  Action = "contribute-native"
	ActionContributeWrapped Action = "contribute-wrapped"
	ActionInitialize        Action = "initialize"
	ActionCancel            Action = "cancel"
	ActionRefund            Action = "refund"
	ActionWithdraw          Action = "withdraw"
)

// IsContribution reports whether the action moves funds from the caller
func (a Action) IsContribution() bool {
	return a == ActionContributeNative || a == ActionContributeWrapped
}

type Asset string

const (
	AssetNative  Asset = "native"
	AssetWrapped Asset = "wrapped"
)

func (a Asset) Symbol() string {
	switch a {
	case AssetNative:
		return "STX"
	case AssetWrapped:
		return "sBTC"
	default:
		return string(a)
	}
}

// PostConditionMode controls whether transfers not covered by a guarantee are allowed
type PostConditionMode string

const (
	PostConditionModeDeny  PostConditionMode = "deny"
	PostConditionModeAllow PostConditionMode = "allow"
)

type Comparison string

const ComparisonEqual Comparison = "eq"

// SpendingGuarantee asserts that Principal sends exactly ExactAmount base units of Asset
type SpendingGuarantee struct {
	Principal       string     `json:"principal"`
	Asset           Asset      `json:"asset"`
	AssetIdentifier string     `json:"asset_identifier,omitempty"` // ADDRESS.contract::token, wrapped only
	ExactAmount     uint64     `json:"exact_amount"`
	Comparison      Comparison `json:"comparison"`
}

// TransactionDescriptor is a fully specified contract call, built once per action
type TransactionDescriptor struct {
	Id           string              `json:"id"`
	Action       Action              `json:"action"`
	Network      Network             `json:"network"`
	Contract     ContractId          `json:"contract"`
	FunctionName string              `json:"function_name"`
	Args         []clarity.Value     `json:"-"`
	Guarantees   []SpendingGuarantee `json:"guarantees"`
	Mode         PostConditionMode   `json:"mode"`
	Sender       string              `json:"sender"`
	CreatedAt    time.Time           `json:"created_at"`
}

type ExecutionStatus string

const (
	StatusConfirmed ExecutionStatus = "confirmed"
	StatusRejected  ExecutionStatus = "rejected"
	StatusCancelled ExecutionStatus = "cancelled"
)

// ExecutionResult is the terminal outcome of one dispatched descriptor
type ExecutionResult struct {
	DescriptorId string          `json:"descriptor_id"`
	Status       ExecutionStatus `json:"status"`
	TxId         string          `json:"txid,omitempty"`
	Category     ErrorCategory   `json:"category,omitempty"`
	Message      string          `json:"message,omitempty"`
}
