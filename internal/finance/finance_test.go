package finance

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/entropy"
)

func dollars(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLoanRate(t *testing.T) {
	tests := []struct {
		name  string
		state economy.EconomicState
		typ   LoanType
		days  int
		want  float64
	}{
		{"flexible standard", economy.Standard, Flexible, 0, 0.08},
		{"credit line standard", economy.Standard, LineOfCredit, 0, 0.07},
		{"term 7", economy.Standard, Term, 7, 0.06},
		{"term 14", economy.Standard, Term, 14, 0.055},
		{"term 30", economy.Standard, Term, 30, 0.05},
		{"prosperity term 30", economy.Prosperity, Term, 30, 0.02},
		{"collapse flexible", economy.Collapse, Flexible, 0, 0.17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoanRate(tt.state, tt.typ, tt.days)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := LoanRate(economy.Standard, Term, 10)
	assert.True(t, errors.Is(err, ErrInvalidTerm))
}

func TestCheckAmount(t *testing.T) {
	assert.True(t, errors.Is(CheckAmount(dollars("499.99"), decimal.Zero), ErrLoanTooSmall))
	assert.True(t, errors.Is(CheckAmount(dollars("25000.01"), decimal.Zero), ErrLoanTooLarge))
	assert.True(t, errors.Is(CheckAmount(dollars("1000"), dollars("49500")), ErrDebtLimit))
	assert.NoError(t, CheckAmount(dollars("500"), dollars("49500")))
	assert.NoError(t, CheckAmount(dollars("25000"), decimal.Zero))
}

func TestLoanInterestAndPayment(t *testing.T) {
	l := NewLoan(1, Flexible, dollars("1000"), 0.0365, 0)

	interest := l.AccrueInterest()
	assert.Equal(t, "0.1", interest.String())
	assert.Equal(t, "1000.1", l.Balance.String())

	assert.Equal(t, "300", l.Pay(dollars("300")).String())
	assert.Equal(t, "700.1", l.Balance.String())

	assert.Equal(t, "700.1", l.Pay(dollars("1000")).String())
	assert.True(t, l.PaidOff())
}

func TestAutoPayment(t *testing.T) {
	assert.Equal(t, "20", NewLoan(1, LineOfCredit, dollars("1000"), 0.07, 0).AutoPayment().String())
	assert.Equal(t, "10", NewLoan(2, LineOfCredit, dollars("300"), 0.07, 0).AutoPayment().String())

	small := NewLoan(3, LineOfCredit, dollars("4"), 0.07, 0)
	assert.Equal(t, "4", small.AutoPayment().String(), "never more than the balance")

	assert.True(t, NewLoan(4, Flexible, dollars("1000"), 0.08, 0).AutoPayment().IsZero())
}

func TestTermLoanCountdown(t *testing.T) {
	l := NewLoan(1, Term, dollars("1000"), 0.06, 7)
	l.DaysRemaining = 2

	assert.False(t, l.Due())
	assert.True(t, l.DueSoon())

	l.Tick()
	assert.False(t, l.Due())
	assert.True(t, l.DueSoon())

	l.Tick()
	assert.True(t, l.Due())
	assert.False(t, l.DueSoon())

	l.Tick()
	assert.Equal(t, 0, l.DaysRemaining, "countdown stops at zero")

	assert.Equal(t, "250", l.DefaultPenalty().String())
	assert.True(t, NewLoan(2, Flexible, dollars("1000"), 0.08, 0).DefaultPenalty().IsZero())
	assert.Equal(t, "6.0%", l.RatePercent())
}

func TestStockUpdateDriftAndFloor(t *testing.T) {
	s := NewStock(1, "TEST", "Test Co", BlueChip, dollars("100"))

	// Booming drift, no noise and no reversion yet: exactly +2%.
	change := s.Update(economy.Booming, 0)
	assert.Equal(t, "2", change.String())
	assert.Equal(t, "102", s.Price.String())

	penny := NewStock(2, "PNY", "Penny", Speculative, dollars("0.55"))
	for i := 0; i < 30; i++ {
		penny.Update(economy.Collapse, -1)
	}
	assert.True(t, penny.Price.Equal(dollars("0.50")))
}

func TestStockAccumulatesSubCentMoves(t *testing.T) {
	s := NewStock(1, "TINY", "Tiny", BlueChip, dollars("1"))

	// 1% of $0.40 is under a cent; the first day moves nothing.
	s.Price = dollars("0.40")
	s.BasePrice = dollars("0.40")
	change := s.Update(economy.Growth, 0)
	assert.True(t, change.IsZero())
	assert.Equal(t, "0.004", s.Pending.String())
}

func TestStockHistoryAndTrend(t *testing.T) {
	s := NewStock(1, "MEGA", "MegaCorp", BlueChip, dollars("100"))
	for i := 0; i < 10; i++ {
		s.Update(economy.Prosperity, 1)
	}
	assert.Len(t, s.History, 7)
	assert.Greater(t, s.Trend(), 5.0)
	assert.Equal(t, "▲▲", s.TrendIndicator())

	flat := NewStock(2, "FLAT", "Flat", BlueChip, dollars("10"))
	assert.Equal(t, 0.0, flat.Trend())
	assert.Equal(t, "─", flat.TrendIndicator())
}

func TestDividends(t *testing.T) {
	mega := NewStock(1, "MEGA", "MegaCorp", BlueChip, dollars("365"))
	assert.Equal(t, "0.04", mega.DailyDividend().String())

	moon := NewStock(5, "MOON", "Moon", Speculative, dollars("15"))
	assert.True(t, moon.DailyDividend().IsZero())
}

func TestExchangeAdvanceIsDeterministic(t *testing.T) {
	a, b := NewExchange(), NewExchange()
	require.Len(t, a.Stocks, 6)

	for day := uint32(1); day <= 20; day++ {
		sa, sb := entropy.NewDaily(9), entropy.NewDaily(9)
		sa.Begin(day)
		sb.Begin(day)
		ma := a.Advance(economy.Standard, sa)
		mb := b.Advance(economy.Standard, sb)
		require.Len(t, ma, 6)
		for i := range ma {
			assert.True(t, ma[i].New.Equal(mb[i].New))
			assert.True(t, ma[i].New.GreaterThanOrEqual(priceFloor))
		}
	}

	_, err := a.Stock("NOPE")
	assert.True(t, errors.Is(err, ErrUnknownStock))

	c := a.Clone()
	c.Stocks[0].Price = dollars("1")
	assert.False(t, a.Stocks[0].Price.Equal(dollars("1")))
}

func TestHolding(t *testing.T) {
	h := &Holding{Symbol: "TECH"}
	h.Add(10, dollars("50"))
	h.Add(10, dollars("60"))

	assert.Equal(t, 20, h.Shares)
	assert.Equal(t, "55", h.AvgPrice.String())
	assert.Equal(t, "100", h.GainLoss(dollars("60")).String())
	assert.InDelta(t, 9.0909, h.GainLossPercent(dollars("60")), 1e-3)

	err := h.Remove(21)
	assert.True(t, errors.Is(err, ErrInsufficientShares))
	assert.Equal(t, 20, h.Shares)

	require.NoError(t, h.Remove(5))
	assert.Equal(t, "825", h.Value(dollars("55")).String())
}
