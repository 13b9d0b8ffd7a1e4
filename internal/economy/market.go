// Package economy provides the retail market model: category demand,
// price elasticity, daily demand noise and the macro-economic climate.
package economy

import (
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/entropy"
)

var (
	// Daily variance bounds: each roll lands in [VarianceMin, VarianceMin+VarianceSpan].
	VarianceMin  = decimal.RequireFromString("0.8")
	VarianceSpan = decimal.RequireFromString("0.4")

	// Elasticity is how strongly markup suppresses sales. A 100% markup halves them.
	Elasticity = decimal.RequireFromString("0.5")
)

// DefaultMarkupPercent is the retail price suggested for newly stocked goods.
const DefaultMarkupPercent = 50.0

// demandModifiers holds the baseline popularity of each retail category.
// Non-retail categories are deliberately absent.
var demandModifiers = map[catalog.Category]decimal.Decimal{
	catalog.CategoryFood:        decimal.RequireFromString("1.2"), // Food sells well
	catalog.CategoryElectronics: decimal.RequireFromString("0.8"), // Specialty purchase
	catalog.CategoryClothing:    decimal.NewFromInt(1),
}

// DemandModifier returns the fixed demand multiplier for a category.
// ok is false for categories that are not sold at retail.
func DemandModifier(c catalog.Category) (modifier decimal.Decimal, ok bool) {
	modifier, ok = demandModifiers[c]
	return modifier, ok
}

// Market turns product categories and the day's randomness into demand signals.
type Market struct {
	catalog *catalog.Catalog
	src     entropy.Source
}

// NewMarket creates a market over a catalog, drawing variance from src.
func NewMarket(c *catalog.Catalog, src entropy.Source) *Market {
	return &Market{catalog: c, src: src}
}

// Catalog returns the product set the market trades.
func (m *Market) Catalog() *catalog.Catalog {
	return m.catalog
}

// DemandModifier implements store.Demand.
func (m *Market) DemandModifier(c catalog.Category) (decimal.Decimal, bool) {
	return DemandModifier(c)
}

// DailyVariance draws a fresh demand multiplier in [0.8, 1.2].
// Every call consumes one roll from the source.
func (m *Market) DailyVariance() decimal.Decimal {
	return VarianceMin.Add(decimal.NewFromFloat(m.src.Float()).Mul(VarianceSpan))
}

// WholesalePrice is the per-unit cost of a product. Wholesale prices do not
// fluctuate.
func (m *Market) WholesalePrice(p catalog.Product) decimal.Decimal {
	return p.WholesalePrice
}

// Markup returns (retail - base) / base as a fraction.
func Markup(retail, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return retail.Sub(base).Div(base)
}

// MarkupPercent returns Markup scaled to a percentage, for display.
func MarkupPercent(retail, base decimal.Decimal) float64 {
	return Markup(retail, base).Shift(2).InexactFloat64()
}

// SalesFactorRatio returns the sales factor as an exact fraction num/den so
// callers can multiply before dividing. num is never negative.
func SalesFactorRatio(retail, base decimal.Decimal) (num, den decimal.Decimal) {
	if !base.IsPositive() {
		return decimal.NewFromInt(1), decimal.NewFromInt(1)
	}
	// 1 - (retail-base)/base*e == (base - (retail-base)*e) / base
	num = base.Sub(retail.Sub(base).Mul(Elasticity))
	if num.IsNegative() {
		num = decimal.Zero
	}
	return num, base
}

// SalesFactor is the elasticity multiplier for a retail price:
// 1 - markup*0.5, floored at zero. Pricing at base yields exactly 1, pricing at
// three times base or more yields 0. Discounts push it above 1.
func SalesFactor(retail, base decimal.Decimal) decimal.Decimal {
	num, den := SalesFactorRatio(retail, base)
	return num.Div(den)
}

// SuggestRetailPrice applies a percentage markup to a price, rounded to cents.
func SuggestRetailPrice(price decimal.Decimal, markupPercent float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 + markupPercent/100)
	return price.Mul(factor).Round(2)
}
