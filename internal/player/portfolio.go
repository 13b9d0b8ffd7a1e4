package player

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/finance"
)

// TotalDebt sums outstanding loan balances.
func (p *Player) TotalDebt() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Loans {
		total = total.Add(l.Balance)
	}
	return total
}

// Loan finds a loan by ID.
func (p *Player) Loan(id uint64) (*finance.Loan, error) {
	for _, l := range p.Loans {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: #%d", finance.ErrLoanNotFound, id)
}

// TakeLoan borrows amount at the given annual rate and credits the cash.
func (p *Player) TakeLoan(t finance.LoanType, amount decimal.Decimal, rate float64, termDays int) (*finance.Loan, error) {
	if err := finance.CheckAmount(amount, p.TotalDebt()); err != nil {
		return nil, err
	}
	l := finance.NewLoan(p.NextLoanID, t, amount, rate, termDays)
	p.NextLoanID++
	p.Loans = append(p.Loans, l)
	p.Cash = p.Cash.Add(amount)
	return l, nil
}

// RepayLoan pays up to amount toward a loan and returns what was applied.
// A loan paid off is closed.
func (p *Player) RepayLoan(id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(p.Cash) {
		return decimal.Zero, fmt.Errorf("%w: paying $%s, have $%s",
			ErrInsufficientFunds, amount.StringFixed(2), p.Cash.StringFixed(2))
	}
	l, err := p.Loan(id)
	if err != nil {
		return decimal.Zero, err
	}
	applied := l.Pay(amount)
	p.Cash = p.Cash.Sub(applied)
	p.CloseLoans()
	return applied, nil
}

// PayLoanFromCash pays up to amount on a loan using whatever non-negative cash
// is available. Used by settlement, where a shortfall is not an error.
func (p *Player) PayLoanFromCash(l *finance.Loan, amount decimal.Decimal) decimal.Decimal {
	available := decimal.Max(p.Cash, decimal.Zero)
	paid := l.Pay(decimal.Min(amount, available))
	p.Cash = p.Cash.Sub(paid)
	return paid
}

// CloseLoans drops every loan with less than a cent outstanding.
func (p *Player) CloseLoans() {
	open := p.Loans[:0]
	for _, l := range p.Loans {
		if !l.PaidOff() {
			open = append(open, l)
		}
	}
	p.Loans = open
}

// Holding returns the position in a stock, or nil.
func (p *Player) Holding(symbol string) *finance.Holding {
	for _, h := range p.Holdings {
		if h.Symbol == symbol {
			return h
		}
	}
	return nil
}

// BuyShares buys shares of s at its current price.
func (p *Player) BuyShares(s *finance.Stock, shares int) (decimal.Decimal, error) {
	if shares < 1 {
		return decimal.Zero, fmt.Errorf("%w: got %d", ErrInvalidQuantity, shares)
	}
	cost := s.Price.Mul(decimal.NewFromInt(int64(shares)))
	if cost.GreaterThan(p.Cash) {
		return decimal.Zero, fmt.Errorf("%w: %d %s costs $%s, have $%s",
			ErrInsufficientFunds, shares, s.Symbol, cost.StringFixed(2), p.Cash.StringFixed(2))
	}

	h := p.Holding(s.Symbol)
	if h == nil {
		h = &finance.Holding{Symbol: s.Symbol}
		p.Holdings = append(p.Holdings, h)
	}
	h.Add(shares, s.Price)
	p.Cash = p.Cash.Sub(cost)
	return cost, nil
}

// SellShares sells shares of s at its current price.
func (p *Player) SellShares(s *finance.Stock, shares int) (decimal.Decimal, error) {
	if shares < 1 {
		return decimal.Zero, fmt.Errorf("%w: got %d", ErrInvalidQuantity, shares)
	}
	h := p.Holding(s.Symbol)
	if h == nil {
		return decimal.Zero, fmt.Errorf("%w: no %s shares held", finance.ErrInsufficientShares, s.Symbol)
	}
	if err := h.Remove(shares); err != nil {
		return decimal.Zero, err
	}

	proceeds := s.Price.Mul(decimal.NewFromInt(int64(shares)))
	p.Cash = p.Cash.Add(proceeds)
	if h.Shares == 0 {
		p.dropHolding(s.Symbol)
	}
	return proceeds, nil
}

func (p *Player) dropHolding(symbol string) {
	for i, h := range p.Holdings {
		if h.Symbol == symbol {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
			return
		}
	}
}

// HoldingsValue prices every position on the exchange.
func (p *Player) HoldingsValue(ex *finance.Exchange) decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		if s, err := ex.Stock(h.Symbol); err == nil {
			total = total.Add(h.Value(s.Price))
		}
	}
	return total
}

// Equity is net worth plus investments minus debt.
func (p *Player) Equity(ex *finance.Exchange) decimal.Decimal {
	return p.NetWorth().Add(p.HoldingsValue(ex)).Sub(p.TotalDebt())
}
