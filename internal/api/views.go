package api

import (
	"context"
	"time"

	"stacks-crowdfund-go/internal/campaign"
	"stacks-crowdfund-go/internal/models"

	"go.uber.org/zap"
)

// GetCampaignView reads and derives the campaign state. Configuration and
// fetch problems degrade to an unavailable result instead of an error.
func (s *CampaignService) GetCampaignView(ctx context.Context) *models.ViewResult {
	result := &models.ViewResult{ReadAt: time.Now().UTC()}

	record, err := s.ledger.GetCampaign(ctx)
	if err != nil {
		zap.L().Warn("Campaign state unavailable",
			zap.String("network", string(s.network)),
			zap.Error(err))
		result.Unavailable(err)
		return result
	}
	if record == nil {
		record = &models.RawCampaignRecord{}
	}

	height, err := s.ledger.GetBlockHeight(ctx)
	if err != nil {
		// an unknown height classifies as height 0
		zap.L().Warn("Block height unavailable", zap.Error(err))
		height = 0
	}

	quote := s.currentQuote(ctx)

	view := campaign.Derive(*record, height, quote)
	result.Available = true
	result.View = &view
	result.BlockHeight = height
	result.Quote = quote
	return result
}

// GetDonation returns the caller's running contribution and refund eligibility
func (s *CampaignService) GetDonation(ctx context.Context, caller string) (*models.DonationResult, error) {
	if caller == "" {
		return nil, models.ErrAddressRequired
	}

	donation, err := s.ledger.GetDonation(ctx, caller)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		donation = &models.DonationRecord{}
	}

	result := &models.DonationResult{Principal: caller, Donation: *donation}
	if viewResult := s.GetCampaignView(ctx); viewResult.Available {
		result.RefundEligible = campaign.RefundEligible(*viewResult.View, donation)
	}
	return result, nil
}

func (s *CampaignService) RefundEligible(ctx context.Context, caller string) (bool, error) {
	result, err := s.GetDonation(ctx, caller)
	if err != nil {
		return false, err
	}
	return result.RefundEligible, nil
}

func (s *CampaignService) currentQuote(ctx context.Context) *models.PriceQuote {
	if s.prices == nil {
		return nil
	}
	quote, err := s.prices.GetQuote(ctx)
	if err != nil {
		zap.L().Warn("Price quote unavailable", zap.Error(err))
		return nil
	}
	if !quote.Valid() {
		return nil
	}
	return quote
}
