package store

import (
	"context"

	"stacks-crowdfund-go/internal/models"
)

// StaticPriceSource serves a fixed quote. An invalid quote is reported as absent.
type StaticPriceSource struct {
	quote models.PriceQuote
}

func NewStaticPriceSource(quote models.PriceQuote) *StaticPriceSource {
	return &StaticPriceSource{quote: quote}
}

func (s *StaticPriceSource) GetQuote(_ context.Context) (*models.PriceQuote, error) {
	if !s.quote.Valid() {
		return nil, nil
	}
	q := s.quote
	return &q, nil
}
