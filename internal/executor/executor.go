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

// Package executor dispatches transaction descriptors to a signer and
// normalizes the outcome to confirmed, rejected or cancelled.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/stacks"
	"stacks-crowdfund-go/internal/txbuilder"

	"go.uber.org/zap"
)

type Executor struct {
	metrics *Metrics
}

// New returns an executor. metrics may be nil.
func New(metrics *Metrics) *Executor {
	return &Executor{metrics: metrics}
}

// Execute dispatches desc and blocks until it reaches a terminal state. There
// is no internal timeout or retry; cancel ctx to abandon an interactive prompt.
func (e *Executor) Execute(ctx context.Context, desc *models.TransactionDescriptor, exec ExecutionContext) models.ExecutionResult {
	start := time.Now()

	var result models.ExecutionResult
	switch ec := exec.(type) {
	case LocalKey:
		result = e.executeLocal(ctx, desc, ec)
	case *LocalKey:
		result = e.executeLocal(ctx, desc, *ec)
	case InteractiveWallet:
		result = e.executeInteractive(ctx, desc, ec)
	case *InteractiveWallet:
		result = e.executeInteractive(ctx, desc, *ec)
	default:
		result = rejected(fmt.Errorf("unsupported execution context %T", exec))
	}
	result.DescriptorId = desc.Id

	name := contextName(exec)
	e.metrics.observe(desc.Action, name, result, time.Since(start))
	logResult(desc, name, result)
	return result
}

func contextName(exec ExecutionContext) string {
	if exec == nil {
		return "none"
	}
	return exec.Name()
}

func (e *Executor) executeLocal(ctx context.Context, desc *models.TransactionDescriptor, lk LocalKey) models.ExecutionResult {
	if lk.Signer == nil || lk.Node == nil {
		return rejected(errors.New("local key context requires a signer and a node"))
	}

	txid, err := stacks.SignAndBroadcast(ctx, lk.Node, lk.Signer, desc, lk.Fee)
	if err != nil {
		return rejected(err)
	}
	return models.ExecutionResult{Status: models.StatusConfirmed, TxId: txid}
}

func (e *Executor) executeInteractive(ctx context.Context, desc *models.TransactionDescriptor, iw InteractiveWallet) models.ExecutionResult {
	if iw.Wallet == nil {
		return rejected(errors.New("interactive wallet context requires a wallet"))
	}

	outcome := make(chan models.ExecutionResult, 1)
	var once sync.Once
	settle := func(r models.ExecutionResult) {
		once.Do(func() { outcome <- r })
	}

	request := ContractCallRequest{Descriptor: desc, Summary: txbuilder.Describe(desc)}
	err := iw.Wallet.RequestContractCall(ctx, request,
		func(data FinishData) {
			settle(models.ExecutionResult{Status: models.StatusConfirmed, TxId: data.TxId})
		},
		func() {
			settle(cancelled())
		},
	)
	if err != nil {
		if isCancellation(err) {
			settle(cancelled())
		} else {
			settle(rejected(err))
		}
	}

	select {
	case r := <-outcome:
		return r
	case <-ctx.Done():
		settle(cancelled())
		return <-outcome
	}
}

// isCancellation reports whether a wallet error means the user declined.
// Errors that merely name a function such as cancel-campaign are rejections.
func isCancellation(err error) bool {
	return errors.Is(err, models.ErrUserCancelled) ||
		errors.Is(err, context.Canceled) ||
		Classify(err) == models.CategoryUserCancelled
}

func rejected(err error) models.ExecutionResult {
	return models.ExecutionResult{
		Status:   models.StatusRejected,
		Category: Classify(err),
		Message:  err.Error(),
	}
}

func cancelled() models.ExecutionResult {
	return models.ExecutionResult{
		Status:   models.StatusCancelled,
		Category: models.CategoryUserCancelled,
		Message:  models.ErrUserCancelled.Error(),
	}
}

func logResult(desc *models.TransactionDescriptor, ctxName string, result models.ExecutionResult) {
	fields := []zap.Field{
		zap.String("descriptor_id", desc.Id),
		zap.String("action", string(desc.Action)),
		zap.String("context", ctxName),
		zap.String("status", string(result.Status)),
	}
	switch result.Status {
	case models.StatusConfirmed:
		fields = append(fields, zap.String("txid", result.TxId))
		if desc.Action.IsContribution() && len(desc.Guarantees) > 0 {
			g := desc.Guarantees[0]
			fields = append(fields,
				zap.String("asset", g.Asset.Symbol()),
				zap.Uint64("base_units", g.ExactAmount))
		}
		zap.L().Info("Transaction confirmed", fields...)
	case models.StatusCancelled:
		zap.L().Info("Transaction cancelled", fields...)
	default:
		zap.L().Warn("Transaction rejected", append(fields,
			zap.String("category", string(result.Category)),
			zap.String("message", result.Message))...)
	}
}
