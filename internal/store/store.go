package store

import (
	"context"

	"stacks-crowdfund-go/internal/models"
)

// Sentinel errors shared across all source implementations.
var (
	ErrContractNotConfigured = models.ErrContractNotConfigured
	ErrFetchFailure          = models.ErrFetchFailure
)

// CampaignSource reads the raw campaign record. A nil record with a nil error
// means the ledger has nothing to report yet.
type CampaignSource interface {
	GetCampaign(ctx context.Context) (*models.RawCampaignRecord, error)
}

// DonationSource reads one principal's running contribution
type DonationSource interface {
	GetDonation(ctx context.Context, principal string) (*models.DonationRecord, error)
}

// BlockHeightSource reports the current height of the chain campaign
// deadlines are measured against
type BlockHeightSource interface {
	GetBlockHeight(ctx context.Context) (uint64, error)
}

// PriceSource reports the latest USD quote, or nil when none is available
type PriceSource interface {
	GetQuote(ctx context.Context) (*models.PriceQuote, error)
}

// LedgerSource is everything the campaign service reads from the chain.
type LedgerSource interface {
	CampaignSource
	DonationSource
	BlockHeightSource
}
