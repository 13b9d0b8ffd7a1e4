package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/retail-tycoon/internal/finance"
)

func TestLoanRatesFollowClimate(t *testing.T) {
	g := newSteadyGame(t, "1000")

	rate, err := g.LoanRate(finance.Flexible, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.08, rate, 1e-9)

	rate, err = g.LoanRate(finance.Term, 30)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, rate, 1e-9)

	_, err = g.TakeLoan(finance.Term, dollars("1000"), 9)
	assert.True(t, errors.Is(err, ErrInvalidTerm))
	_, err = g.TakeLoan(finance.Flexible, dollars("26000"), 0)
	assert.True(t, errors.Is(err, ErrLoanTooLarge))
	assert.True(t, g.Cash().Equal(dollars("1000")))
}

func TestTermLoanRepaidWhenDue(t *testing.T) {
	g := newSteadyGame(t, "1000")
	loan, err := g.TakeLoan(finance.Term, dollars("1000"), 7)
	require.NoError(t, err)
	assert.True(t, g.Cash().Equal(dollars("2000")))
	assert.True(t, g.TotalDebt().Equal(dollars("1000")))

	var last *DayResult
	for i := 0; i < 7; i++ {
		last, err = g.AdvanceDay()
		require.NoError(t, err)
		if i == 4 {
			require.Len(t, last.DueSoon, 1)
			assert.Equal(t, 2, last.DueSoon[0].DaysRemaining)
		}
	}

	require.Len(t, last.LoansDue, 1)
	due := last.LoansDue[0]
	assert.Equal(t, loan.ID, due.LoanID)
	assert.True(t, due.Repaid)
	assert.True(t, due.Balance.GreaterThan(dollars("1000")), "interest accrued")
	assert.Empty(t, g.Loans())
	assert.True(t, g.Cash().Equal(dollars("1300").Sub(due.Balance)))
}

func TestTermLoanDefaultAddsPenalty(t *testing.T) {
	g := newSteadyGame(t, "1000")
	_, err := g.TakeLoan(finance.Term, dollars("1000"), 7)
	require.NoError(t, err)
	_, err = g.BuyShares("MEGA", 12)
	require.NoError(t, err)

	var last *DayResult
	for i := 0; i < 7; i++ {
		last, err = g.AdvanceDay()
		require.NoError(t, err)
	}

	require.Len(t, last.LoansDue, 1)
	due := last.LoansDue[0]
	assert.False(t, due.Repaid)
	assert.True(t, due.Penalty.Equal(due.Balance.Mul(dollars("0.25")).Round(2)))
	assert.True(t, last.Penalties.Equal(due.Penalty))
	assert.True(t, g.Cash().IsZero(), "all cash goes toward the defaulted loan")
	assert.False(t, last.Bankrupt)

	loans := g.Loans()
	require.Len(t, loans, 1)
	// MEGA pays 12 × $0.01096 ≈ $0.13 a day, so $100.91 was left to pay with.
	assert.True(t, last.Dividends.Equal(dollars("0.13")))
	assert.True(t, loans[0].Balance.Equal(due.Balance.Sub(dollars("100.91")).Add(due.Penalty)))

	events := g.Events(0)
	assert.Equal(t, CategoryLoan, events[len(events)-1].Category)
}

func TestLineOfCreditAutoPays(t *testing.T) {
	g := newSteadyGame(t, "1000")
	loan, err := g.TakeLoan(finance.LineOfCredit, dollars("1000"), 0)
	require.NoError(t, err)

	res, err := g.AdvanceDay()
	require.NoError(t, err)

	require.Len(t, res.LoanPayments, 1)
	assert.Equal(t, loan.ID, res.LoanPayments[0].LoanID)
	assert.True(t, res.LoanPayments[0].Amount.Equal(dollars("20")))
	assert.True(t, res.Interest.Equal(dollars("0.19")))
	assert.True(t, g.Cash().Equal(dollars("1880")))
	assert.True(t, g.TotalDebt().Equal(dollars("980.19")))
	assert.True(t, res.NetProfit.Equal(dollars("-100.19")))
}

func TestRepayLoanThroughGame(t *testing.T) {
	g := newSteadyGame(t, "1000")
	loan, err := g.TakeLoan(finance.Flexible, dollars("600"), 0)
	require.NoError(t, err)

	_, err = g.RepayLoan(loan.ID+1, dollars("10"))
	assert.True(t, errors.Is(err, ErrLoanNotFound))

	paid, err := g.RepayLoan(loan.ID, dollars("700"))
	require.NoError(t, err)
	assert.True(t, paid.Equal(dollars("600")))
	assert.Empty(t, g.Loans())
	assert.True(t, g.Cash().Equal(dollars("1000")))
}

func TestSharesAndEquity(t *testing.T) {
	g := newSteadyGame(t, "1000")

	_, err := g.BuyShares("NOPE", 1)
	assert.True(t, errors.Is(err, ErrUnknownStock))
	_, err = g.SellShares("SAFE", 1)
	assert.True(t, errors.Is(err, ErrInsufficientShares))

	cost, err := g.BuyShares("SAFE", 4)
	require.NoError(t, err)
	assert.True(t, cost.Equal(dollars("300")))
	assert.True(t, g.NetWorth().Equal(dollars("700")))
	assert.True(t, g.Equity().Equal(dollars("1000")))

	holdings := g.Holdings()
	require.Len(t, holdings, 1)
	assert.Equal(t, "SafeHaven Holdings", holdings[0].Name)
	assert.True(t, holdings[0].GainLoss.IsZero())

	_, err = g.TakeLoan(finance.Flexible, dollars("500"), 0)
	require.NoError(t, err)
	assert.True(t, g.Equity().Equal(dollars("1000")), "borrowed cash is offset by debt")

	proceeds, err := g.SellShares("SAFE", 4)
	require.NoError(t, err)
	assert.True(t, proceeds.Equal(dollars("300")))
	assert.Empty(t, g.Holdings())
}
