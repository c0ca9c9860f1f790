package convert

import (
	"fmt"

	"stacks-crowdfund-go/internal/models"

	"github.com/shopspring/decimal"
)

// Converter binds the conversion functions to one price snapshot
type Converter struct {
	quote *models.PriceQuote
}

func New(quote *models.PriceQuote) *Converter {
	return &Converter{quote: quote}
}

func (c *Converter) priceFor(asset models.Asset) (decimal.Decimal, error) {
	if c.quote == nil {
		return decimal.Zero, fmt.Errorf("%w: no quote available", models.ErrInvalidPrice)
	}
	switch asset {
	case models.AssetNative:
		return c.quote.NativeUsd, nil
	case models.AssetWrapped:
		return c.quote.WrappedAssetUsd, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown asset %q", asset)
	}
}

// UsdToAsset converts a USD amount into whole units of asset
func (c *Converter) UsdToAsset(asset models.Asset, usd decimal.Decimal) (decimal.Decimal, error) {
	price, err := c.priceFor(asset)
	if err != nil {
		return decimal.Zero, err
	}
	return usdToAsset(usd, price)
}

// UsdToBaseUnits converts a USD amount into truncated base units of asset
func (c *Converter) UsdToBaseUnits(asset models.Asset, usd decimal.Decimal) (uint64, error) {
	amount, err := c.UsdToAsset(asset, usd)
	if err != nil {
		return 0, err
	}
	return toBaseUnits(amount, asset)
}

// BaseUnitsToUsd values base units of asset in USD
func (c *Converter) BaseUnitsToUsd(asset models.Asset, units uint64) (decimal.Decimal, error) {
	price, err := c.priceFor(asset)
	if err != nil {
		return decimal.Zero, err
	}
	if asset == models.AssetWrapped {
		return WrappedAssetToUsd(BaseUnitsToWrappedAsset(units), price)
	}
	return NativeToUsd(BaseUnitsToNative(units), price)
}

// BaseUnitsToAsset converts base units to whole units of asset
func BaseUnitsToAsset(asset models.Asset, units uint64) decimal.Decimal {
	if asset == models.AssetWrapped {
		return BaseUnitsToWrappedAsset(units)
	}
	return BaseUnitsToNative(units)
}

// FormatAsset renders an amount at the asset's full precision, e.g. "25.000000 STX"
func FormatAsset(asset models.Asset, amount decimal.Decimal) string {
	return amount.StringFixed(precisionFor(asset)) + " " + asset.Symbol()
}

// FormatUsd renders a USD amount with cents, e.g. "$7500.00"
func FormatUsd(usd decimal.Decimal) string {
	return "$" + usd.StringFixed(2)
}
