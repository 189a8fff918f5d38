package economics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(f float64) *float64 { return &f }

func TestSellAtSoldMedian_Example(t *testing.T) {
	t.Parallel()

	a := Assumptions{
		EbayFeeRate:     0.1325,
		RiskBufferRate:  0.07,
		DefaultShipping: 4.50,
	}

	res := a.SellAtSoldMedian(20, 40, fptr(0))

	assert.InDelta(t, 20.0, res.CostBasis, 1e-9)
	assert.InDelta(t, 5.30, res.Fee, 1e-9)
	assert.InDelta(t, 2.80, res.RiskBuffer, 1e-9)
	assert.InDelta(t, 31.90, res.NetSale, 1e-9)
	assert.InDelta(t, 11.90, res.Profit, 1e-9)
	require.NotNil(t, res.ROI)
	assert.InDelta(t, 0.595, *res.ROI, 1e-9)
}

func TestSellAtSoldMedian_DefaultShipping(t *testing.T) {
	t.Parallel()

	a := DefaultAssumptions()

	res := a.SellAtSoldMedian(20, 40, nil)
	assert.InDelta(t, 24.50, res.CostBasis, 1e-9)
	assert.InDelta(t, 4.50, res.BuyShipping, 1e-9)

	explicit := a.SellAtSoldMedian(20, 40, fptr(2.00))
	assert.InDelta(t, 22.00, explicit.CostBasis, 1e-9)
}

func TestSellOnCatalog_UsesSellerFeeRate(t *testing.T) {
	t.Parallel()

	a := Assumptions{
		EbayFeeRate:      0.1325,
		TCGSellerFeeRate: 0.105,
		RiskBufferRate:   0.07,
		DefaultShipping:  4.50,
	}

	res := a.SellOnCatalog(20, 40, fptr(0))

	assert.InDelta(t, 4.20, res.Fee, 1e-9, "catalog disposal uses the TCG seller fee rate")
	assert.InDelta(t, 2.80, res.RiskBuffer, 1e-9)
	assert.InDelta(t, 33.00, res.NetSale, 1e-9)
	assert.InDelta(t, 13.00, res.Profit, 1e-9)
}

func TestROI_NilOnNonPositiveCostBasis(t *testing.T) {
	t.Parallel()

	a := DefaultAssumptions()

	zero := a.SellAtSoldMedian(0, 40, fptr(0))
	assert.Nil(t, zero.ROI)

	negative := a.SellAtSoldMedian(-10, 40, fptr(5))
	assert.Nil(t, negative.ROI)

	positive := a.SellAtSoldMedian(0.01, 40, fptr(0))
	assert.NotNil(t, positive.ROI)
}

func TestROI_NilExactlyWhenCostBasisNonPositive(t *testing.T) {
	t.Parallel()

	a := DefaultAssumptions()
	rng := rand.New(rand.NewSource(3))

	for range 500 {
		buy := rng.Float64()*100 - 20
		ship := rng.Float64() * 10
		gross := rng.Float64() * 200

		res := a.SellAtSoldMedian(buy, gross, &ship)
		if res.CostBasis > 0 {
			require.NotNil(t, res.ROI)
			assert.InDelta(t, res.Profit/res.CostBasis, *res.ROI, 1e-9)
		} else {
			assert.Nil(t, res.ROI)
		}
	}
}

func TestProfit_Identity(t *testing.T) {
	t.Parallel()

	a := DefaultAssumptions()
	res := a.SellAtSoldMedian(12.34, 56.78, nil)

	assert.InDelta(t, res.GrossSale-res.Fee-res.RiskBuffer, res.NetSale, 1e-9)
	assert.InDelta(t, res.NetSale-res.CostBasis, res.Profit, 1e-9)
}
