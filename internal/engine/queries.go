package engine

import (
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/store"
)

// StoreView summarizes one store.
type StoreView struct {
	Index          int
	ID             store.ID
	Name           string
	Employees      int
	Traffic        decimal.Decimal
	DailyExpenses  decimal.Decimal
	InventoryValue decimal.Decimal
	Units          int
	Active         bool
}

// InventoryLine is one row of a store's inventory.
type InventoryLine struct {
	ProductID      catalog.ProductID
	Name           string
	Category       catalog.Category
	Quantity       int
	RetailPrice    decimal.Decimal
	WholesalePrice decimal.Decimal
	BasePrice      decimal.Decimal
	MarkupPercent  float64
}

// HoldingView values one stock position at today's price.
type HoldingView struct {
	Symbol          string
	Name            string
	Shares          int
	AvgPrice        decimal.Decimal
	Price           decimal.Decimal
	Value           decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent float64
	Dividends       decimal.Decimal
}

// ClimateView describes the economy.
type ClimateView struct {
	State       economy.EconomicState
	Trend       float64
	Description string
	BaseRate    float64
}

// Day is the current (not yet settled) day.
func (g *Game) Day() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.day
}

// Phase reports where the game is in the day cycle.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// IsOver reports whether the player has gone bankrupt.
func (g *Game) IsOver() bool {
	return g.Phase() == GameOver
}

// Cash is the player's cash on hand.
func (g *Game) Cash() decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player.Cash
}

// NetWorth is cash plus the retail value of all inventory.
func (g *Game) NetWorth() decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player.NetWorth()
}

// Equity is net worth plus stock holdings minus debt.
func (g *Game) Equity() decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player.Equity(g.exchange)
}

// TotalDebt sums outstanding loan balances.
func (g *Game) TotalDebt() decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player.TotalDebt()
}

// DailyExpenses is tomorrow's rent and wage bill.
func (g *Game) DailyExpenses() decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player.DailyExpenses()
}

// ActiveStore is the index of the selected store.
func (g *Game) ActiveStore() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Stores lists every store in purchase order.
func (g *Game) Stores() []StoreView {
	g.mu.Lock()
	defer g.mu.Unlock()

	views := make([]StoreView, len(g.player.Stores))
	for i, s := range g.player.Stores {
		views[i] = StoreView{
			Index:          i,
			ID:             s.ID,
			Name:           s.Name,
			Employees:      s.Employees,
			Traffic:        s.CustomerTraffic(),
			DailyExpenses:  s.Expenses(),
			InventoryValue: s.InventoryValue(),
			Units:          s.TotalUnits(),
			Active:         i == g.active,
		}
	}
	return views
}

// Inventory lists a store's product lines in stocking order.
func (g *Game) Inventory(storeIdx int) ([]InventoryLine, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.player.Store(storeIdx)
	if err != nil {
		return nil, err
	}
	lines := make([]InventoryLine, len(s.Inventory))
	for i, e := range s.Inventory {
		lines[i] = InventoryLine{
			ProductID:      e.Product.ID,
			Name:           e.Product.Name,
			Category:       e.Product.Category,
			Quantity:       e.Quantity,
			RetailPrice:    e.RetailPrice,
			WholesalePrice: g.market.WholesalePrice(e.Product),
			BasePrice:      e.Product.BasePrice,
			MarkupPercent:  e.Markup(),
		}
	}
	return lines, nil
}

// Products lists what can be bought wholesale for retail.
func (g *Game) Products() []catalog.Product {
	return g.catalog.Retail()
}

// Loans returns copies of the outstanding loans.
func (g *Game) Loans() []finance.Loan {
	g.mu.Lock()
	defer g.mu.Unlock()

	loans := make([]finance.Loan, len(g.player.Loans))
	for i, l := range g.player.Loans {
		loans[i] = *l
	}
	return loans
}

// LoanRate quotes today's annual rate for a loan.
func (g *Game) LoanRate(t finance.LoanType, termDays int) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return finance.LoanRate(g.climate.State, t, termDays)
}

// Stocks returns copies of every listing.
func (g *Game) Stocks() []finance.Stock {
	g.mu.Lock()
	defer g.mu.Unlock()

	stocks := make([]finance.Stock, len(g.exchange.Stocks))
	for i, s := range g.exchange.Stocks {
		stocks[i] = *s.Clone()
	}
	return stocks
}

// Holdings values the player's positions.
func (g *Game) Holdings() []HoldingView {
	g.mu.Lock()
	defer g.mu.Unlock()

	var views []HoldingView
	for _, h := range g.player.Holdings {
		s, err := g.exchange.Stock(h.Symbol)
		if err != nil {
			continue
		}
		views = append(views, HoldingView{
			Symbol:          h.Symbol,
			Name:            s.Name,
			Shares:          h.Shares,
			AvgPrice:        h.AvgPrice,
			Price:           s.Price,
			Value:           h.Value(s.Price),
			GainLoss:        h.GainLoss(s.Price),
			GainLossPercent: h.GainLossPercent(s.Price),
			Dividends:       h.Dividends,
		})
	}
	return views
}

// Climate describes the current economy.
func (g *Game) Climate() ClimateView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ClimateView{
		State:       g.climate.State,
		Trend:       g.climate.Trend,
		Description: g.climate.State.Description(),
		BaseRate:    g.climate.State.InterestRate(),
	}
}

// Events returns up to limit of the most recent events, oldest first.
// A limit of zero or less returns all of them.
func (g *Game) Events(limit int) []Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := 0
	if limit > 0 && len(g.events) > limit {
		start = len(g.events) - limit
	}
	return append([]Event(nil), g.events[start:]...)
}
