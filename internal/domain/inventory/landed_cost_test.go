package inventory

import (
	"testing"

	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAllocateLandedCost_SingleLine(t *testing.T) {
	lines := []CostLine{{LineID: "l1", ProductID: "p1", UnitCost: d("10"), Quantity: d("100")}}

	got, err := AllocateLandedCost(lines, []decimal.Decimal{d("50")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].BaseCost.Equal(d("1000")))
	assert.True(t, got[0].AllocatedCost.Equal(d("50")))
	assert.True(t, got[0].LandedCostPerUnit.Equal(d("10.5")), got[0].LandedCostPerUnit.String())
}

func TestAllocateLandedCost_ProportionalToBaseCost(t *testing.T) {
	lines := []CostLine{
		{LineID: "a", ProductID: "p1", UnitCost: d("10"), Quantity: d("10")}, // base 100
		{LineID: "b", ProductID: "p2", UnitCost: d("30"), Quantity: d("10")}, // base 300
	}

	got, err := AllocateLandedCost(lines, []decimal.Decimal{d("30"), d("10")})
	require.NoError(t, err)
	assert.True(t, got[0].AllocatedCost.Equal(d("10")))
	assert.True(t, got[1].AllocatedCost.Equal(d("30")))
	assert.True(t, got[0].LandedCostPerUnit.Equal(d("11")))
	assert.True(t, got[1].LandedCostPerUnit.Equal(d("33")))
}

func TestAllocateLandedCost_SharesSumToTotal(t *testing.T) {
	lines := []CostLine{
		{LineID: "a", ProductID: "p1", UnitCost: d("1"), Quantity: d("1")},
		{LineID: "b", ProductID: "p2", UnitCost: d("1"), Quantity: d("1")},
		{LineID: "c", ProductID: "p3", UnitCost: d("1"), Quantity: d("1")},
	}

	got, err := AllocateLandedCost(lines, []decimal.Decimal{d("100")})
	require.NoError(t, err)
	sum := decimal.Zero
	for _, c := range got {
		sum = sum.Add(c.AllocatedCost)
	}
	assert.True(t, sum.Equal(d("100")), sum.String())
}

func TestAllocateLandedCost_ZeroBaseAllocatesByQuantity(t *testing.T) {
	lines := []CostLine{
		{LineID: "a", ProductID: "p1", UnitCost: d("0"), Quantity: d("1")},
		{LineID: "b", ProductID: "p2", UnitCost: d("0"), Quantity: d("3")},
	}

	got, err := AllocateLandedCost(lines, []decimal.Decimal{d("40")})
	require.NoError(t, err)
	assert.True(t, got[0].AllocatedCost.Equal(d("10")))
	assert.True(t, got[1].AllocatedCost.Equal(d("30")))
	assert.True(t, got[1].LandedCostPerUnit.Equal(d("10")))
}

func TestAllocateLandedCost_RoundsPerUnitToFourDecimals(t *testing.T) {
	lines := []CostLine{{LineID: "a", ProductID: "p1", UnitCost: d("1"), Quantity: d("3")}}

	got, err := AllocateLandedCost(lines, []decimal.Decimal{d("1")})
	require.NoError(t, err)
	assert.Equal(t, "1.3333", got[0].LandedCostPerUnit.String())
}

func TestAllocateLandedCost_NoAdditionalCosts(t *testing.T) {
	lines := []CostLine{{LineID: "a", ProductID: "p1", UnitCost: d("10"), Quantity: d("1")}}

	_, err := AllocateLandedCost(lines, nil)
	assert.ErrorIs(t, err, domain.ErrNoAdditionalCosts)

	_, err = AllocateLandedCost(lines, []decimal.Decimal{d("0")})
	assert.ErrorIs(t, err, domain.ErrNoAdditionalCosts)
}

func TestAllocateLandedCost_NoReceivedLines(t *testing.T) {
	lines := []CostLine{{LineID: "a", ProductID: "p1", UnitCost: d("10"), Quantity: d("0")}}

	_, err := AllocateLandedCost(lines, []decimal.Decimal{d("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestByProduct_AggregatesSameProductAndVariant(t *testing.T) {
	costs := []LandedCost{
		{ProductID: "p1", Quantity: d("10"), BaseCost: d("100"), AllocatedCost: d("10")},
		{ProductID: "p1", Quantity: d("10"), BaseCost: d("120"), AllocatedCost: d("10")},
		{ProductID: "p1", VariantID: "v1", Quantity: d("2"), BaseCost: d("20"), AllocatedCost: d("0")},
	}

	got := ByProduct(costs)
	require.Len(t, got, 2)
	assert.True(t, got[ProductKey{ProductID: "p1"}].Equal(d("12")))
	assert.True(t, got[ProductKey{ProductID: "p1", VariantID: "v1"}].Equal(d("10")))
}
