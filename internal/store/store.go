// Package store models a single retail location: its stock, prices, staff and
// the sales it makes in a day.
package store

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/economy"
)

// Store defaults.
const (
	BaseDailyCustomers = 50
	MaxEmployees       = 3
)

var (
	// StaffTrafficBonus is the extra share of customers each employee brings.
	StaffTrafficBonus = decimal.RequireFromString("0.2")
	// DailyRent is charged per store every day, whatever it sells.
	DailyRent = decimal.NewFromInt(100)
	// DailySalary is paid per employee per day.
	DailySalary = decimal.NewFromInt(50)
)

var (
	ErrInvalidPrice       = errors.New("retail price must be positive")
	ErrNotStocked         = errors.New("product not stocked")
	ErrStaffLimitExceeded = errors.New("staff limit reached")
	ErrNoStaffToFire      = errors.New("no employees to fire")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// ID identifies a store within one game.
type ID uint64

// Entry is one stocked product line.
type Entry struct {
	Product     catalog.Product
	Quantity    int
	RetailPrice decimal.Decimal
}

// Markup is the entry's markup over base retail as a percentage.
func (e *Entry) Markup() float64 {
	return economy.MarkupPercent(e.RetailPrice, e.Product.BasePrice)
}

// Value is quantity × retail price.
func (e *Entry) Value() decimal.Decimal {
	return e.RetailPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Store is a retail location. Inventory keeps stocking order and an entry is
// never removed, even at quantity 0.
type Store struct {
	ID            ID
	Name          string
	Inventory     []*Entry
	Employees     int
	BaseCustomers int
	Rent          decimal.Decimal
}

// New creates an empty, unstaffed store.
func New(id ID, name string) *Store {
	return &Store{
		ID:            id,
		Name:          name,
		BaseCustomers: BaseDailyCustomers,
		Rent:          DailyRent,
	}
}

// Entry returns the inventory line for a product, or nil if it was never stocked.
func (s *Store) Entry(id catalog.ProductID) *Entry {
	for _, e := range s.Inventory {
		if e.Product.ID == id {
			return e
		}
	}
	return nil
}

// AddStock increases the quantity of a product. A product stocked for the
// first time gets a new entry priced at retail; existing entries keep their price.
func (s *Store) AddStock(p catalog.Product, qty int, retail decimal.Decimal) (*Entry, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if e := s.Entry(p.ID); e != nil {
		e.Quantity += qty
		return e, nil
	}
	if !retail.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, retail)
	}
	e := &Entry{Product: p, Quantity: qty, RetailPrice: retail}
	s.Inventory = append(s.Inventory, e)
	return e, nil
}

// SetPrice overwrites the retail price of a stocked product.
func (s *Store) SetPrice(id catalog.ProductID, price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	e := s.Entry(id)
	if e == nil {
		return fmt.Errorf("%w: product %d in %s", ErrNotStocked, id, s.Name)
	}
	e.RetailPrice = price
	return nil
}

// Hire adds one employee.
func (s *Store) Hire() error {
	if s.Employees >= MaxEmployees {
		return fmt.Errorf("%w: %s already has %d", ErrStaffLimitExceeded, s.Name, s.Employees)
	}
	s.Employees++
	return nil
}

// Fire removes one employee.
func (s *Store) Fire() error {
	if s.Employees <= 0 {
		return fmt.Errorf("%w: %s", ErrNoStaffToFire, s.Name)
	}
	s.Employees--
	return nil
}

// CustomerTraffic is the number of shoppers expected today before demand effects.
func (s *Store) CustomerTraffic() decimal.Decimal {
	bonus := StaffTrafficBonus.Mul(decimal.NewFromInt(int64(s.Employees)))
	return decimal.NewFromInt(int64(s.BaseCustomers)).Mul(bonus.Add(decimal.NewFromInt(1)))
}

// Salaries is the daily wage bill.
func (s *Store) Salaries() decimal.Decimal {
	return DailySalary.Mul(decimal.NewFromInt(int64(s.Employees)))
}

// Expenses is rent plus salaries for one day.
func (s *Store) Expenses() decimal.Decimal {
	return s.Rent.Add(s.Salaries())
}

// InventoryValue sums quantity × retail price over every entry.
func (s *Store) InventoryValue() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Inventory {
		total = total.Add(e.Value())
	}
	return total
}

// TotalUnits counts every unit on the shelves.
func (s *Store) TotalUnits() int {
	n := 0
	for _, e := range s.Inventory {
		n += e.Quantity
	}
	return n
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := *s
	c.Inventory = make([]*Entry, len(s.Inventory))
	for i, e := range s.Inventory {
		entry := *e
		c.Inventory[i] = &entry
	}
	return &c
}
