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

// Package convert translates between USD, whole-asset and base-unit amounts
// for the campaign assets. All math is decimal; base-unit results are
// truncated toward zero so a contribution never exceeds what the user entered.
package convert

import (
	"fmt"
	"math/big"

	"stacks-crowdfund-go/internal/models"

	"github.com/shopspring/decimal"
)

// divisionScale is the number of fractional digits kept by price divisions,
// well beyond the 8 decimals of the finest asset.
const divisionScale int32 = 16

// precisionFor returns the number of base-unit decimals for an asset
func precisionFor(asset models.Asset) int32 {
	switch asset {
	case models.AssetNative:
		return 6 // µSTX
	case models.AssetWrapped:
		return 8 // sats
	default:
		return 6
	}
}

func checkPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: got %s", models.ErrInvalidPrice, price.String())
	}
	return nil
}

func usdToAsset(usd, price decimal.Decimal) (decimal.Decimal, error) {
	if err := checkPrice(price); err != nil {
		return decimal.Zero, err
	}
	// QuoRem truncates, so the quotient never exceeds the exact value.
	quotient, _ := usd.QuoRem(price, divisionScale)
	return quotient, nil
}

func UsdToNative(usd, priceNativeUsd decimal.Decimal) (decimal.Decimal, error) {
	return usdToAsset(usd, priceNativeUsd)
}

func UsdToWrappedAsset(usd, priceWrappedUsd decimal.Decimal) (decimal.Decimal, error) {
	return usdToAsset(usd, priceWrappedUsd)
}

func toBaseUnits(amount decimal.Decimal, asset models.Asset) (uint64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", models.ErrInvalidAmount, amount.String())
	}
	units := amount.Shift(precisionFor(asset)).Truncate(0)
	if !units.BigInt().IsUint64() {
		return 0, fmt.Errorf("%w: %s %s overflows base units", models.ErrInvalidAmount, amount.String(), asset.Symbol())
	}
	return units.BigInt().Uint64(), nil
}

// NativeToBaseUnits returns floor(amount * 10^6)
func NativeToBaseUnits(nativeAmount decimal.Decimal) (uint64, error) {
	return toBaseUnits(nativeAmount, models.AssetNative)
}

// WrappedAssetToBaseUnits returns floor(amount * 10^8)
func WrappedAssetToBaseUnits(wrappedAmount decimal.Decimal) (uint64, error) {
	return toBaseUnits(wrappedAmount, models.AssetWrapped)
}

func BaseUnitsToNative(units uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -precisionFor(models.AssetNative))
}

func BaseUnitsToWrappedAsset(units uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -precisionFor(models.AssetWrapped))
}

func NativeToUsd(nativeAmount, priceNativeUsd decimal.Decimal) (decimal.Decimal, error) {
	if err := checkPrice(priceNativeUsd); err != nil {
		return decimal.Zero, err
	}
	return nativeAmount.Mul(priceNativeUsd), nil
}

func WrappedAssetToUsd(wrappedAmount, priceWrappedUsd decimal.Decimal) (decimal.Decimal, error) {
	if err := checkPrice(priceWrappedUsd); err != nil {
		return decimal.Zero, err
	}
	return wrappedAmount.Mul(priceWrappedUsd), nil
}

// GoalToLedger converts a USD goal to the fundraising contract's goal unit
// (whole dollars), truncating cents.
func GoalToLedger(goalUsd decimal.Decimal) (uint64, error) {
	whole := goalUsd.Truncate(0)
	if !whole.IsPositive() {
		return 0, fmt.Errorf("%w: goal %s", models.ErrInvalidAmount, goalUsd.String())
	}
	if !whole.BigInt().IsUint64() {
		return 0, fmt.Errorf("%w: goal %s too large", models.ErrInvalidAmount, goalUsd.String())
	}
	return whole.BigInt().Uint64(), nil
}

// GoalFromLedger converts the contract's goal value back to USD
func GoalFromLedger(goal uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(goal), 0)
}
