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

package api

import (
	"context"
	"fmt"

	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/store"
	"stacks-crowdfund-go/internal/txbuilder"
)

// CampaignService ties the ledger sources, state deriver, builder and
// executor together for one network
type CampaignService struct {
	network  models.Network
	ledger   store.LedgerSource
	prices   store.PriceSource
	builder  *txbuilder.Builder
	executor *executor.Executor
}

func NewCampaignService(
	network models.Network,
	ledger store.LedgerSource,
	prices store.PriceSource,
	builder *txbuilder.Builder,
	exec *executor.Executor,
) *CampaignService {
	return &CampaignService{
		network:  network,
		ledger:   ledger,
		prices:   prices,
		builder:  builder,
		executor: exec,
	}
}

func (s *CampaignService) Network() models.Network {
	return s.network
}

func (s *CampaignService) HealthCheck(ctx context.Context) error {
	if _, err := s.ledger.GetBlockHeight(ctx); err != nil {
		return fmt.Errorf("node health check failed: %w", err)
	}
	return nil
}
