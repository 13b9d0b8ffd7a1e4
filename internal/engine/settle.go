package engine

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/entropy"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/player"
	"github.com/talgya/retail-tycoon/internal/store"
)

// ProductSale is one product line's sales in one store.
type ProductSale struct {
	StoreIndex int
	StoreName  string
	store.Sale
}

// StoreExpense is one store's bill for the day.
type StoreExpense struct {
	StoreIndex int
	StoreName  string
	Rent       decimal.Decimal
	Salaries   decimal.Decimal
	Revenue    decimal.Decimal
}

// LoanPayment is an automatic line of credit payment.
type LoanPayment struct {
	LoanID uint64
	Amount decimal.Decimal
}

// LoanDue is a term loan that reached the end of its term.
type LoanDue struct {
	LoanID  uint64
	Balance decimal.Decimal
	Repaid  bool
	Penalty decimal.Decimal
}

// LoanWarning flags a term loan falling due within three days.
type LoanWarning struct {
	LoanID        uint64
	DaysRemaining int
	Balance       decimal.Decimal
}

// DayResult is the outcome of one settled day.
type DayResult struct {
	Day uint32

	Sales     []ProductSale
	Stores    []StoreExpense
	Revenue   decimal.Decimal
	UnitsSold int
	Expenses  decimal.Decimal

	Interest     decimal.Decimal
	LoanPayments []LoanPayment
	LoansDue     []LoanDue
	DueSoon      []LoanWarning
	Penalties    decimal.Decimal

	StockMoves []finance.Move
	Dividends  decimal.Decimal

	Climate        economy.EconomicState
	ClimateChanged bool

	// NetProfit is revenue + dividends - expenses - interest.
	NetProfit decimal.Decimal
	CashAfter decimal.Decimal
	Bankrupt  bool
}

// AdvanceDay settles the current day and moves to the next. Settlement runs
// on copies of the player, exchange and climate that replace the live state
// only once every step has completed.
func (g *Game) AdvanceDay() (*DayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.writable(); err != nil {
		return nil, err
	}

	g.phase = Settling
	res, next := g.settle()

	g.player = next.player
	g.exchange = next.exchange
	g.climate = next.climate
	g.day++
	g.phase = AwaitingDayAdvance
	if res.Bankrupt {
		g.phase = GameOver
	}
	for _, e := range next.events {
		g.record(res.Day, e.Category, e.Description)
	}

	slog.Info("day settled",
		"day", res.Day,
		"revenue", res.Revenue.StringFixed(2),
		"expenses", res.Expenses.StringFixed(2),
		"interest", res.Interest.StringFixed(2),
		"units_sold", res.UnitsSold,
		"net", res.NetProfit.StringFixed(2),
		"cash", res.CashAfter.StringFixed(2),
		"climate", res.Climate,
	)
	if res.Bankrupt {
		slog.Warn("bankrupt", "day", res.Day, "cash", res.CashAfter.StringFixed(2))
	}
	return res, nil
}

// settlement is the working state of a day being settled.
type settlement struct {
	player   *player.Player
	exchange *finance.Exchange
	climate  *economy.Climate
	events   []Event
}

func (s *settlement) note(category, format string, args ...any) {
	s.events = append(s.events, Event{Category: category, Description: fmt.Sprintf(format, args...)})
}

// settle must be called with g.mu held. Random draws happen in a fixed order:
// the climate roll, then one variance per selling product line (stores in
// order, lines in stocking order), then one roll per listed stock.
func (g *Game) settle() (*DayResult, *settlement) {
	if da, ok := g.src.(entropy.DayAware); ok {
		da.Begin(g.day)
	}

	climate := *g.climate
	next := &settlement{
		player:   g.player.Clone(),
		exchange: g.exchange.Clone(),
		climate:  &climate,
	}
	p := next.player
	res := &DayResult{
		Day:       g.day,
		Revenue:   decimal.Zero,
		Expenses:  decimal.Zero,
		Interest:  decimal.Zero,
		Penalties: decimal.Zero,
		Dividends: decimal.Zero,
	}

	// 1. Economy.
	prev, changed := next.climate.Advance(g.day, g.src.Float())
	res.Climate = next.climate.State
	res.ClimateChanged = changed
	if changed {
		next.note(CategoryClimate, "%s", economy.ChangeMessage(prev, next.climate.State))
	}

	// 2. Sales and expenses, store by store.
	for i, s := range p.Stores {
		sales, revenue := s.SimulateSales(g.market)
		for _, sale := range sales {
			res.Sales = append(res.Sales, ProductSale{StoreIndex: i, StoreName: s.Name, Sale: sale})
			res.UnitsSold += sale.Units
			if e := s.Entry(sale.ProductID); e != nil && e.Quantity == 0 {
				next.note(CategorySales, "%s sold out at %s", sale.Name, s.Name)
			}
		}
		res.Revenue = res.Revenue.Add(revenue)
		res.Expenses = res.Expenses.Add(s.Expenses())
		res.Stores = append(res.Stores, StoreExpense{
			StoreIndex: i,
			StoreName:  s.Name,
			Rent:       s.Rent,
			Salaries:   s.Salaries(),
			Revenue:    revenue,
		})
	}

	// 3. Stock market and dividends.
	res.StockMoves = next.exchange.Advance(next.climate.State, g.src)
	for _, h := range p.Holdings {
		st, err := next.exchange.Stock(h.Symbol)
		if err != nil {
			continue
		}
		amount := st.DailyDividend().Mul(decimal.NewFromInt(int64(h.Shares))).Round(2)
		h.Dividends = h.Dividends.Add(amount)
		res.Dividends = res.Dividends.Add(amount)
	}

	// 4. One cash update for the day's trading.
	p.Cash = p.Cash.Add(res.Revenue).Add(res.Dividends).Sub(res.Expenses)

	// 5. Loans.
	settleLoans(p, res, next)

	res.NetProfit = res.Revenue.Add(res.Dividends).Sub(res.Expenses).Sub(res.Interest)
	res.CashAfter = p.Cash
	if p.Cash.IsNegative() {
		res.Bankrupt = true
		next.note(CategoryBankruptcy, "Bankrupt with $%s cash", p.Cash.StringFixed(2))
	}
	return res, next
}

func settleLoans(p *player.Player, res *DayResult, next *settlement) {
	for _, l := range p.Loans {
		res.Interest = res.Interest.Add(l.AccrueInterest())
	}

	for _, l := range p.Loans {
		if l.Type != finance.LineOfCredit {
			continue
		}
		if due := l.AutoPayment(); due.IsPositive() {
			if paid := p.PayLoanFromCash(l, due); paid.IsPositive() {
				res.LoanPayments = append(res.LoanPayments, LoanPayment{LoanID: l.ID, Amount: paid})
			}
		}
	}

	for _, l := range p.Loans {
		l.Tick()
	}

	for _, l := range p.Loans {
		if !l.Due() {
			continue
		}
		due := LoanDue{LoanID: l.ID, Balance: l.Balance, Penalty: decimal.Zero}
		if p.Cash.GreaterThanOrEqual(l.Balance) {
			p.PayLoanFromCash(l, l.Balance)
			due.Repaid = true
			next.note(CategoryLoan, "Term loan #%d repaid ($%s)", l.ID, due.Balance.StringFixed(2))
		} else {
			due.Penalty = l.DefaultPenalty()
			p.PayLoanFromCash(l, l.Balance)
			l.Balance = l.Balance.Add(due.Penalty)
			res.Penalties = res.Penalties.Add(due.Penalty)
			next.note(CategoryLoan, "Defaulted on term loan #%d, $%s penalty", l.ID, due.Penalty.StringFixed(2))
		}
		res.LoansDue = append(res.LoansDue, due)
	}

	for _, l := range p.Loans {
		if l.DueSoon() {
			res.DueSoon = append(res.DueSoon, LoanWarning{
				LoanID:        l.ID,
				DaysRemaining: l.DaysRemaining,
				Balance:       l.Balance,
			})
		}
	}

	p.CloseLoans()
}
