package api

import (
	"context"
	"fmt"

	"stacks-crowdfund-go/internal/campaign"
	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Contribute checks that the campaign accepts contributions, builds the
// donation for usd worth of asset and dispatches it. A returned error means
// nothing was dispatched.
func (s *CampaignService) Contribute(
	ctx context.Context,
	exec executor.ExecutionContext,
	caller string,
	asset models.Asset,
	usd decimal.Decimal,
) (*models.ExecutionResult, error) {
	zap.L().Info("Processing contribution",
		zap.String("caller", caller),
		zap.String("asset", asset.Symbol()),
		zap.String("usd", usd.String()))

	viewResult := s.GetCampaignView(ctx)
	if !viewResult.Available {
		return nil, fmt.Errorf("campaign state unavailable: %w", viewResult.Err())
	}
	if err := campaign.ContributionAllowed(*viewResult.View); err != nil {
		zap.L().Warn("Contribution blocked",
			zap.String("caller", caller),
			zap.String("state", string(viewResult.View.DisplayState())),
			zap.Error(err))
		return nil, err
	}
	if viewResult.Quote == nil {
		return nil, fmt.Errorf("%w: no price quote available", models.ErrInvalidPrice)
	}

	desc, err := s.builder.Contribute(s.network, caller, usd, viewResult.Quote, asset)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, exec, desc), nil
}

// Initialize starts the campaign with a goal in USD
func (s *CampaignService) Initialize(ctx context.Context, exec executor.ExecutionContext, caller string, goalUsd decimal.Decimal) (*models.ExecutionResult, error) {
	desc, err := s.builder.Initialize(s.network, caller, goalUsd)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, exec, desc), nil
}

func (s *CampaignService) Cancel(ctx context.Context, exec executor.ExecutionContext, caller string) (*models.ExecutionResult, error) {
	desc, err := s.builder.Cancel(s.network, caller)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, exec, desc), nil
}

// Refund is dispatched without checking eligibility; the contract decides
func (s *CampaignService) Refund(ctx context.Context, exec executor.ExecutionContext, caller string) (*models.ExecutionResult, error) {
	desc, err := s.builder.Refund(s.network, caller)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, exec, desc), nil
}

func (s *CampaignService) Withdraw(ctx context.Context, exec executor.ExecutionContext, caller string) (*models.ExecutionResult, error) {
	desc, err := s.builder.Withdraw(s.network, caller)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, exec, desc), nil
}

func (s *CampaignService) dispatch(ctx context.Context, exec executor.ExecutionContext, desc *models.TransactionDescriptor) *models.ExecutionResult {
	zap.L().Info("Dispatching transaction",
		zap.String("descriptor_id", desc.Id),
		zap.String("action", string(desc.Action)),
		zap.String("function", desc.FunctionName),
		zap.String("sender", desc.Sender))

	result := s.executor.Execute(ctx, desc, exec)
	return &result
}
