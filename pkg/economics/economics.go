// Package economics models the cost, fee, and profit structure of a
// buy-here-sell-there card flip.
package economics

import (
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Assumptions bundles the fee, risk, and shipping rates applied to
// every economics calculation.
type Assumptions struct {
	EbayFeeRate      float64
	TCGSellerFeeRate float64
	RiskBufferRate   float64
	DefaultShipping  float64
}

// DefaultAssumptions returns the standard rate assumptions.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		EbayFeeRate:      0.1325,
		TCGSellerFeeRate: 0.105,
		RiskBufferRate:   0.07,
		DefaultShipping:  4.50,
	}
}

// SellAtSoldMedian computes the economics of acquiring a live listing
// and disposing of it on the same marketplace at the statistically
// estimated sold price. A nil buyShipping falls back to the configured
// default shipping cost.
func (a Assumptions) SellAtSoldMedian(buyPrice, soldMedian float64, buyShipping *float64) domain.EconomicsResult {
	return a.flip(buyPrice, soldMedian, buyShipping, a.EbayFeeRate)
}

// SellOnCatalog computes the economics of acquiring a live listing and
// disposing of it on the catalog marketplace at its posted reference
// price, using that marketplace's seller fee rate.
func (a Assumptions) SellOnCatalog(buyPrice, catalogPrice float64, buyShipping *float64) domain.EconomicsResult {
	return a.flip(buyPrice, catalogPrice, buyShipping, a.TCGSellerFeeRate)
}

func (a Assumptions) flip(buyPrice, gross float64, buyShipping *float64, feeRate float64) domain.EconomicsResult {
	shipping := a.DefaultShipping
	if buyShipping != nil {
		shipping = *buyShipping
	}

	costBasis := buyPrice + shipping

	fee := gross * feeRate
	risk := gross * a.RiskBufferRate
	net := gross - fee - risk
	profit := net - costBasis

	res := domain.EconomicsResult{
		BuyPrice:    buyPrice,
		BuyShipping: shipping,
		CostBasis:   costBasis,
		GrossSale:   gross,
		Fee:         fee,
		RiskBuffer:  risk,
		NetSale:     net,
		Profit:      profit,
	}

	// ROI is undefined on a non-positive cost basis.
	if costBasis > 0 {
		roi := profit / costBasis
		res.ROI = &roi
	}

	return res
}
