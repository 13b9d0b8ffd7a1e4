package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/entropy"
)

var (
	ErrUnknownStock       = errors.New("unknown stock")
	ErrInsufficientShares = errors.New("not enough shares")
)

const (
	historyDays       = 7
	reversionStrength = 0.01
)

var (
	priceFloor = decimal.RequireFromString("0.50")
	oneCent    = decimal.RequireFromString("0.01")
)

// StockType sets volatility and dividend yield.
type StockType uint8

const (
	BlueChip StockType = iota
	GrowthStock
	Speculative
)

func (t StockType) String() string {
	switch t {
	case BlueChip:
		return "Blue Chip"
	case GrowthStock:
		return "Growth"
	case Speculative:
		return "Speculative"
	default:
		return fmt.Sprintf("StockType(%d)", uint8(t))
	}
}

// Volatility is the largest random daily swing as a fraction of price.
func (t StockType) Volatility() float64 {
	switch t {
	case BlueChip:
		return 0.02
	case GrowthStock:
		return 0.05
	default:
		return 0.12
	}
}

// DividendYield is the annual dividend as a fraction of price.
func (t StockType) DividendYield() float64 {
	switch t {
	case BlueChip:
		return 0.04
	case GrowthStock:
		return 0.01
	default:
		return 0
	}
}

// Stock is a listed company.
type Stock struct {
	ID        uint32
	Symbol    string
	Name      string
	Type      StockType
	Price     decimal.Decimal
	BasePrice decimal.Decimal

	// History holds up to the last seven closing prices, oldest first.
	History []decimal.Decimal
	// Pending collects sub-cent movement until it amounts to a whole cent.
	Pending decimal.Decimal
}

// NewStock lists a stock at an initial price.
func NewStock(id uint32, symbol, name string, t StockType, price decimal.Decimal) *Stock {
	return &Stock{
		ID:        id,
		Symbol:    symbol,
		Name:      name,
		Type:      t,
		Price:     price,
		BasePrice: price,
		History:   []decimal.Decimal{price},
	}
}

// DefaultStocks returns the six companies every game starts with.
func DefaultStocks() []*Stock {
	return []*Stock{
		NewStock(1, "MEGA", "MegaCorp Industries", BlueChip, decimal.NewFromInt(100)),
		NewStock(2, "SAFE", "SafeHaven Holdings", BlueChip, decimal.NewFromInt(75)),
		NewStock(3, "TECH", "TechGrowth Inc", GrowthStock, decimal.NewFromInt(50)),
		NewStock(4, "RETL", "RetailExpand Co", GrowthStock, decimal.NewFromInt(35)),
		NewStock(5, "MOON", "MoonShot Ventures", Speculative, decimal.NewFromInt(15)),
		NewStock(6, "RISK", "RiskyBet Gaming", Speculative, decimal.NewFromInt(8)),
	}
}

// Update moves the price for one day. r is a random factor in [-1, 1].
// It returns the change in price.
func (s *Stock) Update(state economy.EconomicState, r float64) decimal.Decimal {
	old := s.Price

	base := s.BasePrice.InexactFloat64()
	reversion := 0.0
	if base > 0 {
		reversion = (base - s.Price.InexactFloat64()) / base * reversionStrength
	}
	change := state.StockDrift() + r*s.Type.Volatility() + reversion

	s.Pending = s.Pending.Add(s.Price.Mul(decimal.NewFromFloat(change))).Round(6)
	if s.Pending.Abs().GreaterThanOrEqual(oneCent) {
		step := s.Pending.Round(2)
		s.Price = s.Price.Add(step)
		s.Pending = s.Pending.Sub(step)
	}
	if s.Price.LessThan(priceFloor) {
		s.Price = priceFloor
	}

	s.History = append(s.History, s.Price)
	if len(s.History) > historyDays {
		s.History = s.History[len(s.History)-historyDays:]
	}
	return s.Price.Sub(old)
}

// Trend is the percentage change across the recorded history.
func (s *Stock) Trend() float64 {
	if len(s.History) < 2 {
		return 0
	}
	oldest, newest := s.History[0], s.History[len(s.History)-1]
	if oldest.IsZero() {
		return 0
	}
	return newest.Sub(oldest).Div(oldest).InexactFloat64() * 100
}

// TrendIndicator renders Trend as arrows.
func (s *Stock) TrendIndicator() string {
	t := s.Trend()
	switch {
	case t > 5:
		return "▲▲"
	case t > 1:
		return "▲"
	case t < -5:
		return "▼▼"
	case t < -1:
		return "▼"
	default:
		return "─"
	}
}

// DailyDividend is the per-share dividend paid today.
func (s *Stock) DailyDividend() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromFloat(s.Type.DividendYield())).Div(decimal.NewFromInt(365))
}

// Clone returns a deep copy of the stock.
func (s *Stock) Clone() *Stock {
	c := *s
	c.History = append([]decimal.Decimal(nil), s.History...)
	return &c
}

// Move records one stock's price change for a day.
type Move struct {
	Symbol string
	Old    decimal.Decimal
	New    decimal.Decimal
	Change decimal.Decimal
}

// Exchange lists the tradeable stocks.
type Exchange struct {
	Stocks []*Stock
}

// NewExchange opens an exchange with the default listings.
func NewExchange() *Exchange {
	return &Exchange{Stocks: DefaultStocks()}
}

// Stock looks up a listing by symbol.
func (e *Exchange) Stock(symbol string) (*Stock, error) {
	for _, s := range e.Stocks {
		if s.Symbol == symbol {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStock, symbol)
}

// Advance updates every listing once, in listing order, drawing one random
// factor per stock from src.
func (e *Exchange) Advance(state economy.EconomicState, src entropy.Source) []Move {
	moves := make([]Move, 0, len(e.Stocks))
	for _, s := range e.Stocks {
		old := s.Price
		change := s.Update(state, entropy.Signed(src))
		moves = append(moves, Move{Symbol: s.Symbol, Old: old, New: s.Price, Change: change})
	}
	return moves
}

// Clone returns a deep copy of the exchange.
func (e *Exchange) Clone() *Exchange {
	c := &Exchange{Stocks: make([]*Stock, len(e.Stocks))}
	for i, s := range e.Stocks {
		c.Stocks[i] = s.Clone()
	}
	return c
}

// Holding is the player's position in one stock.
type Holding struct {
	Symbol    string
	Shares    int
	AvgPrice  decimal.Decimal
	Dividends decimal.Decimal
}

// Add buys shares at price, updating the average cost.
func (h *Holding) Add(shares int, price decimal.Decimal) {
	cost := h.AvgPrice.Mul(decimal.NewFromInt(int64(h.Shares))).
		Add(price.Mul(decimal.NewFromInt(int64(shares))))
	h.Shares += shares
	h.AvgPrice = cost.Div(decimal.NewFromInt(int64(h.Shares))).Round(4)
}

// Remove sells shares.
func (h *Holding) Remove(shares int) error {
	if shares > h.Shares {
		return fmt.Errorf("%w: have %d, selling %d", ErrInsufficientShares, h.Shares, shares)
	}
	h.Shares -= shares
	return nil
}

// Value is the position's market value.
func (h *Holding) Value(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(h.Shares)))
}

// GainLoss is market value minus cost basis.
func (h *Holding) GainLoss(price decimal.Decimal) decimal.Decimal {
	return h.Value(price).Sub(h.AvgPrice.Mul(decimal.NewFromInt(int64(h.Shares))))
}

// GainLossPercent compares price with the average cost.
func (h *Holding) GainLossPercent(price decimal.Decimal) float64 {
	if h.Shares == 0 || h.AvgPrice.IsZero() {
		return 0
	}
	return price.Sub(h.AvgPrice).Div(h.AvgPrice).InexactFloat64() * 100
}
