package store

import (
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/economy"
)

// Demand supplies the market conditions a store sells into.
// *economy.Market satisfies it.
type Demand interface {
	DemandModifier(catalog.Category) (decimal.Decimal, bool)
	DailyVariance() decimal.Decimal
}

// Sale is the outcome of one product line for one day.
type Sale struct {
	ProductID catalog.ProductID
	Name      string
	Units     int
	UnitPrice decimal.Decimal
	Revenue   decimal.Decimal
}

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// PotentialUnits is how many units shoppers would buy given unlimited stock:
// traffic × modifier × salesFactor × variance, rounded half up.
func PotentialUnits(traffic, modifier, salesFactor, variance decimal.Decimal) int {
	return roundUnits(traffic.Mul(modifier).Mul(salesFactor).Mul(variance), one)
}

// roundUnits rounds num/den half up without an inexact intermediate quotient.
func roundUnits(num, den decimal.Decimal) int {
	if !num.IsPositive() || !den.IsPositive() {
		return 0
	}
	q, r := num.QuoRem(den, 0)
	if r.Mul(two).GreaterThanOrEqual(den) {
		q = q.Add(one)
	}
	return int(q.IntPart())
}

// SimulateSales sells one day's worth of goods. Lines are visited in stocking
// order and each line with stock draws its own variance from d. Quantities
// are reduced in place; the returned revenue is the sum over all sales.
func (s *Store) SimulateSales(d Demand) ([]Sale, decimal.Decimal) {
	var sales []Sale
	revenue := decimal.Zero
	traffic := s.CustomerTraffic()

	for _, e := range s.Inventory {
		if e.Quantity <= 0 {
			continue
		}
		modifier, ok := d.DemandModifier(e.Product.Category)
		if !ok {
			continue
		}

		num, den := economy.SalesFactorRatio(e.RetailPrice, e.Product.BasePrice)
		units := roundUnits(traffic.Mul(modifier).Mul(d.DailyVariance()).Mul(num), den)
		if units > e.Quantity {
			units = e.Quantity
		}
		if units == 0 {
			continue
		}

		e.Quantity -= units
		amount := e.RetailPrice.Mul(decimal.NewFromInt(int64(units)))
		revenue = revenue.Add(amount)
		sales = append(sales, Sale{
			ProductID: e.Product.ID,
			Name:      e.Product.Name,
			Units:     units,
			UnitPrice: e.RetailPrice,
			Revenue:   amount,
		})
	}
	return sales, revenue
}
