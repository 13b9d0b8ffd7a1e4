// Package player holds the business owner's aggregate: cash, stores, debts
// and investments. Every action either succeeds completely or leaves the
// player untouched.
package player

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/store"
)

// StoreCost is the price of opening another store.
var StoreCost = decimal.NewFromInt(5000)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownStore      = errors.New("unknown store")
	ErrNotRetail         = errors.New("product is not sold at retail")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidQuantity   = store.ErrInvalidQuantity
)

// Player is the single business owner.
type Player struct {
	Cash     decimal.Decimal
	Stores   []*store.Store
	Loans    []*finance.Loan
	Holdings []*finance.Holding

	NextStoreID store.ID
	NextLoanID  uint64
}

// New creates a player with one empty store.
func New(cash decimal.Decimal, storeName string) *Player {
	p := &Player{Cash: cash, NextStoreID: 1, NextLoanID: 1}
	p.openStore(storeName)
	return p
}

func (p *Player) openStore(name string) *store.Store {
	s := store.New(p.NextStoreID, name)
	p.NextStoreID++
	p.Stores = append(p.Stores, s)
	return s
}

// Store returns the store at position idx.
func (p *Player) Store(idx int) (*store.Store, error) {
	if idx < 0 || idx >= len(p.Stores) {
		return nil, fmt.Errorf("%w: #%d of %d", ErrUnknownStore, idx+1, len(p.Stores))
	}
	return p.Stores[idx], nil
}

// BuyStore pays StoreCost and opens a new store at the end of the list.
func (p *Player) BuyStore(name string) (*store.Store, error) {
	if p.Cash.LessThan(StoreCost) {
		return nil, fmt.Errorf("%w: need $%s, have $%s",
			ErrInsufficientFunds, StoreCost.StringFixed(2), p.Cash.StringFixed(2))
	}
	p.Cash = p.Cash.Sub(StoreCost)
	s := p.openStore(name)
	slog.Info("store opened", "store", s.Name, "id", s.ID, "cash", p.Cash.StringFixed(2))
	return s, nil
}

// BuyWholesale buys qty units at unitCost into the store at idx. A product
// stocked for the first time is priced at a 50% markup over base retail.
func (p *Player) BuyWholesale(idx int, product catalog.Product, qty int, unitCost decimal.Decimal) (*store.Entry, error) {
	s, err := p.Store(idx)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if !product.Category.IsRetail() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotRetail, product.Name, product.Category)
	}

	cost := unitCost.Mul(decimal.NewFromInt(int64(qty)))
	if cost.GreaterThan(p.Cash) {
		return nil, fmt.Errorf("%w: %d × %s costs $%s, have $%s",
			ErrInsufficientFunds, qty, product.Name, cost.StringFixed(2), p.Cash.StringFixed(2))
	}

	retail := economy.SuggestRetailPrice(product.BasePrice, economy.DefaultMarkupPercent)
	entry, err := s.AddStock(product, qty, retail)
	if err != nil {
		return nil, err
	}
	p.Cash = p.Cash.Sub(cost)
	return entry, nil
}

// SetRetailPrice changes the price of a stocked product.
func (p *Player) SetRetailPrice(idx int, id catalog.ProductID, price decimal.Decimal) error {
	s, err := p.Store(idx)
	if err != nil {
		return err
	}
	return s.SetPrice(id, price)
}

// HireEmployee adds staff to a store. Wages are paid at settlement.
func (p *Player) HireEmployee(idx int) error {
	s, err := p.Store(idx)
	if err != nil {
		return err
	}
	return s.Hire()
}

// FireEmployee removes staff from a store.
func (p *Player) FireEmployee(idx int) error {
	s, err := p.Store(idx)
	if err != nil {
		return err
	}
	return s.Fire()
}

// NetWorth is cash plus the retail value of all inventory.
func (p *Player) NetWorth() decimal.Decimal {
	total := p.Cash
	for _, s := range p.Stores {
		total = total.Add(s.InventoryValue())
	}
	return total
}

// DailyExpenses sums rent and salaries across all stores.
func (p *Player) DailyExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Stores {
		total = total.Add(s.Expenses())
	}
	return total
}

// TotalEmployees counts staff across all stores.
func (p *Player) TotalEmployees() int {
	n := 0
	for _, s := range p.Stores {
		n += s.Employees
	}
	return n
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	c := *p
	c.Stores = make([]*store.Store, len(p.Stores))
	for i, s := range p.Stores {
		c.Stores[i] = s.Clone()
	}
	c.Loans = make([]*finance.Loan, len(p.Loans))
	for i, l := range p.Loans {
		c.Loans[i] = l.Clone()
	}
	c.Holdings = make([]*finance.Holding, len(p.Holdings))
	for i, h := range p.Holdings {
		holding := *h
		c.Holdings[i] = &holding
	}
	return &c
}
