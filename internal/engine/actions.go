package engine

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/finance"
)

// BuyWholesale buys qty units of a product into a store at wholesale cost.
func (g *Game) BuyWholesale(storeIdx int, id catalog.ProductID, qty int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return err
	}
	p, err := g.product(id)
	if err != nil {
		return err
	}
	entry, err := g.player.BuyWholesale(storeIdx, p, qty, g.market.WholesalePrice(p))
	if err != nil {
		return err
	}
	slog.Debug("wholesale purchase",
		"store", storeIdx,
		"product", p.Name,
		"qty", qty,
		"stock", entry.Quantity,
		"cash", g.player.Cash.StringFixed(2),
	)
	return nil
}

// SetRetailPrice changes a stocked product's price.
func (g *Game) SetRetailPrice(storeIdx int, id catalog.ProductID, price decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return err
	}
	if _, err := g.product(id); err != nil {
		return err
	}
	return g.player.SetRetailPrice(storeIdx, id, price)
}

// HireEmployee adds one employee to a store.
func (g *Game) HireEmployee(storeIdx int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return err
	}
	return g.player.HireEmployee(storeIdx)
}

// FireEmployee removes one employee from a store.
func (g *Game) FireEmployee(storeIdx int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return err
	}
	return g.player.FireEmployee(storeIdx)
}

// BuyStore opens a new store and returns its index.
func (g *Game) BuyStore(name string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return 0, err
	}
	if name == "" {
		name = fmt.Sprintf("Store #%d", len(g.player.Stores)+1)
	}
	s, err := g.player.BuyStore(name)
	if err != nil {
		return 0, err
	}
	g.record(g.day, CategoryStore, fmt.Sprintf("Opened %s", s.Name))
	return len(g.player.Stores) - 1, nil
}

// SwitchActiveStore selects the store the console operates on.
func (g *Game) SwitchActiveStore(storeIdx int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.player.Store(storeIdx); err != nil {
		return err
	}
	g.active = storeIdx
	return nil
}

// TakeLoan borrows at today's rate for the loan type. termDays applies to
// term loans only.
func (g *Game) TakeLoan(t finance.LoanType, amount decimal.Decimal, termDays int) (finance.Loan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return finance.Loan{}, err
	}
	rate, err := finance.LoanRate(g.climate.State, t, termDays)
	if err != nil {
		return finance.Loan{}, err
	}
	l, err := g.player.TakeLoan(t, amount, rate, termDays)
	if err != nil {
		return finance.Loan{}, err
	}
	g.record(g.day, CategoryLoan, fmt.Sprintf("Borrowed $%s (%s #%d at %s)",
		amount.StringFixed(2), t, l.ID, l.RatePercent()))
	return *l, nil
}

// RepayLoan pays toward a loan and returns the amount applied.
func (g *Game) RepayLoan(id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return decimal.Zero, err
	}
	paid, err := g.player.RepayLoan(id, amount)
	if err != nil {
		return decimal.Zero, err
	}
	if _, err := g.player.Loan(id); err != nil {
		g.record(g.day, CategoryLoan, fmt.Sprintf("Loan #%d paid off", id))
	}
	return paid, nil
}

// BuyShares buys shares at the current price and returns the cost.
func (g *Game) BuyShares(symbol string, shares int) (decimal.Decimal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return decimal.Zero, err
	}
	s, err := g.exchange.Stock(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return g.player.BuyShares(s, shares)
}

// SellShares sells shares at the current price and returns the proceeds.
func (g *Game) SellShares(symbol string, shares int) (decimal.Decimal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return decimal.Zero, err
	}
	s, err := g.exchange.Stock(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return g.player.SellShares(s, shares)
}
