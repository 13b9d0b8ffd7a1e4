package player

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/store"
)

func dollars(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(t *testing.T, id catalog.ProductID) catalog.Product {
	t.Helper()
	p, ok := catalog.Default().Product(id)
	require.True(t, ok)
	return p
}

// requireNetWorthIdentity checks net worth = cash + Σ quantity × retail.
func requireNetWorthIdentity(t *testing.T, p *Player) {
	t.Helper()
	want := p.Cash
	for _, s := range p.Stores {
		for _, e := range s.Inventory {
			want = want.Add(e.RetailPrice.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}
	}
	require.True(t, p.NetWorth().Equal(want), "net worth %s, want %s", p.NetWorth(), want)
}

func TestNewPlayer(t *testing.T) {
	p := New(dollars("1000"), "My First Store")

	require.Len(t, p.Stores, 1)
	assert.Equal(t, "My First Store", p.Stores[0].Name)
	assert.Equal(t, store.ID(1), p.Stores[0].ID)
	assert.True(t, p.NetWorth().Equal(dollars("1000")))
	assert.True(t, p.DailyExpenses().Equal(dollars("100")))
}

func TestBuyStore(t *testing.T) {
	p := New(dollars("4999"), "First")
	_, err := p.BuyStore("Second")
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.True(t, p.Cash.Equal(dollars("4999")))
	assert.Len(t, p.Stores, 1)

	p.Cash = dollars("5000")
	s, err := p.BuyStore("Second")
	require.NoError(t, err)
	assert.True(t, p.Cash.IsZero())
	assert.Equal(t, store.ID(2), s.ID)
	assert.Equal(t, store.BaseDailyCustomers, s.BaseCustomers)
	assert.Empty(t, s.Inventory)
	assert.Equal(t, 0, s.Employees)
	assert.Same(t, s, p.Stores[1])
	requireNetWorthIdentity(t, p)
}

func TestBuyWholesale(t *testing.T) {
	bread := product(t, 1)
	p := New(dollars("100"), "Shop")

	entry, err := p.BuyWholesale(0, bread, 10, bread.WholesalePrice)
	require.NoError(t, err)
	assert.True(t, p.Cash.Equal(dollars("80")))
	assert.Equal(t, 10, entry.Quantity)
	assert.True(t, entry.RetailPrice.Equal(dollars("3")), "new lines start at half again over base")
	requireNetWorthIdentity(t, p)

	// Restocking keeps the chosen price.
	require.NoError(t, p.SetRetailPrice(0, bread.ID, dollars("2.50")))
	_, err = p.BuyWholesale(0, bread, 5, bread.WholesalePrice)
	require.NoError(t, err)
	assert.Equal(t, 15, entry.Quantity)
	assert.True(t, entry.RetailPrice.Equal(dollars("2.5")))
	requireNetWorthIdentity(t, p)
}

func TestBuyWholesaleFailuresLeaveStateUntouched(t *testing.T) {
	bread := product(t, 1)
	steel := catalog.Product{
		ID: 50, Name: "Steel", Category: catalog.CategoryRawMaterial,
		WholesalePrice: dollars("1"), BasePrice: dollars("1"),
	}

	tests := []struct {
		name    string
		idx     int
		product catalog.Product
		qty     int
		want    error
	}{
		{"too expensive", 0, bread, 51, ErrInsufficientFunds},
		{"zero quantity", 0, bread, 0, ErrInvalidQuantity},
		{"negative quantity", 0, bread, -3, ErrInvalidQuantity},
		{"raw material", 0, steel, 1, ErrNotRetail},
		{"no such store", 4, bread, 1, ErrUnknownStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(dollars("100"), "Shop")
			_, err := p.BuyWholesale(tt.idx, tt.product, tt.qty, tt.product.WholesalePrice)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, p.Cash.Equal(dollars("100")))
			assert.Empty(t, p.Stores[0].Inventory)
		})
	}
}

func TestStaffThroughPlayer(t *testing.T) {
	p := New(dollars("100"), "Shop")
	assert.True(t, errors.Is(p.FireEmployee(0), store.ErrNoStaffToFire))

	for i := 0; i < 3; i++ {
		require.NoError(t, p.HireEmployee(0))
	}
	assert.True(t, errors.Is(p.HireEmployee(0), store.ErrStaffLimitExceeded))
	assert.Equal(t, 3, p.TotalEmployees())
	assert.True(t, p.Cash.Equal(dollars("100")), "hiring is free until payday")
	assert.True(t, p.DailyExpenses().Equal(dollars("250")))

	assert.True(t, errors.Is(p.HireEmployee(1), ErrUnknownStore))
}

func TestLoans(t *testing.T) {
	p := New(dollars("100"), "Shop")

	_, err := p.TakeLoan(finance.Flexible, dollars("100"), 0.08, 0)
	assert.True(t, errors.Is(err, finance.ErrLoanTooSmall))

	l, err := p.TakeLoan(finance.Flexible, dollars("1000"), 0.08, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), l.ID)
	assert.True(t, p.Cash.Equal(dollars("1100")))
	assert.True(t, p.TotalDebt().Equal(dollars("1000")))

	_, err = p.RepayLoan(l.ID, dollars("2000"))
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	_, err = p.RepayLoan(l.ID, decimal.Zero)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	_, err = p.RepayLoan(99, dollars("10"))
	assert.True(t, errors.Is(err, finance.ErrLoanNotFound))
	assert.True(t, p.Cash.Equal(dollars("1100")))

	paid, err := p.RepayLoan(l.ID, dollars("1000"))
	require.NoError(t, err)
	assert.True(t, paid.Equal(dollars("1000")))
	assert.Empty(t, p.Loans, "paid-off loans are closed")
	assert.True(t, p.Cash.Equal(dollars("100")))
}

func TestPayLoanFromCashNeverOverdraws(t *testing.T) {
	p := New(dollars("30"), "Shop")
	l := finance.NewLoan(1, finance.Term, dollars("1000"), 0.06, 7)

	paid := p.PayLoanFromCash(l, l.Balance)
	assert.True(t, paid.Equal(dollars("30")))
	assert.True(t, p.Cash.IsZero())

	p.Cash = dollars("-5")
	assert.True(t, p.PayLoanFromCash(l, l.Balance).IsZero())
	assert.True(t, p.Cash.Equal(dollars("-5")))
}

func TestShares(t *testing.T) {
	ex := finance.NewExchange()
	tech, err := ex.Stock("TECH")
	require.NoError(t, err)

	p := New(dollars("1000"), "Shop")

	_, err = p.BuyShares(tech, 21)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	_, err = p.BuyShares(tech, 0)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
	_, err = p.SellShares(tech, 1)
	assert.True(t, errors.Is(err, finance.ErrInsufficientShares))

	cost, err := p.BuyShares(tech, 10)
	require.NoError(t, err)
	assert.True(t, cost.Equal(dollars("500")))
	assert.True(t, p.HoldingsValue(ex).Equal(dollars("500")))
	assert.True(t, p.NetWorth().Equal(dollars("500")), "net worth excludes investments")
	assert.True(t, p.Equity(ex).Equal(dollars("1000")))

	_, err = p.SellShares(tech, 11)
	assert.True(t, errors.Is(err, finance.ErrInsufficientShares))

	tech.Price = dollars("60")
	proceeds, err := p.SellShares(tech, 10)
	require.NoError(t, err)
	assert.True(t, proceeds.Equal(dollars("600")))
	assert.Nil(t, p.Holding("TECH"))
	assert.True(t, p.Cash.Equal(dollars("1100")))
}

func TestCloneIsIndependent(t *testing.T) {
	bread := product(t, 1)
	p := New(dollars("1000"), "Shop")
	_, err := p.BuyWholesale(0, bread, 10, bread.WholesalePrice)
	require.NoError(t, err)
	_, err = p.TakeLoan(finance.LineOfCredit, dollars("500"), 0.07, 0)
	require.NoError(t, err)

	c := p.Clone()
	c.Cash = decimal.Zero
	c.Stores[0].Inventory[0].Quantity = 0
	c.Loans[0].Balance = decimal.Zero
	_, err = c.BuyStore("Other")
	assert.Error(t, err)

	assert.True(t, p.Cash.Equal(dollars("1480")))
	assert.Equal(t, 10, p.Stores[0].Inventory[0].Quantity)
	assert.True(t, p.Loans[0].Balance.Equal(dollars("500")))
}
