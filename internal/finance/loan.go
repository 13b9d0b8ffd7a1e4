// Package finance holds the player's borrowing and investing instruments:
// loans priced off the economic climate and a small stock exchange.
package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/economy"
)

var (
	ErrLoanTooSmall = errors.New("loan below minimum")
	ErrLoanTooLarge = errors.New("loan above maximum")
	ErrDebtLimit    = errors.New("total debt limit exceeded")
	ErrInvalidTerm  = errors.New("term must be 7, 14 or 30 days")
	ErrLoanNotFound = errors.New("loan not found")
)

// Borrowing limits.
var (
	MinLoan      = decimal.NewFromInt(500)
	MaxLoan      = decimal.NewFromInt(25_000)
	MaxTotalDebt = decimal.NewFromInt(50_000)
)

const (
	DefaultPenaltyRate = 0.25 // Added to a term loan's balance when it cannot be repaid
	AutoPayRate        = 0.02 // Line of credit pays 2% of balance per day
	minTermRate        = 0.01
)

var (
	minAutoPayment = decimal.NewFromInt(10)
	paidOffBelow   = decimal.RequireFromString("0.01")
)

// LoanType determines repayment structure and pricing.
type LoanType uint8

const (
	Flexible     LoanType = iota // Manual payments, base + 2%
	LineOfCredit                 // Daily auto-payment, base + 1%
	Term                         // Due in full at end of term, base rate
)

func (t LoanType) String() string {
	switch t {
	case Flexible:
		return "Flexible Loan"
	case LineOfCredit:
		return "Line of Credit"
	case Term:
		return "Term Loan"
	default:
		return fmt.Sprintf("LoanType(%d)", uint8(t))
	}
}

// Description explains the repayment terms.
func (t LoanType) Description() string {
	switch t {
	case Flexible:
		return "Manual payments, pay any amount anytime"
	case LineOfCredit:
		return "Auto-deduct 2% of balance daily (min $10)"
	case Term:
		return "Full amount due at end of term"
	default:
		return ""
	}
}

// RateModifier is added to the climate's base rate.
func (t LoanType) RateModifier() float64 {
	switch t {
	case Flexible:
		return 0.02
	case LineOfCredit:
		return 0.01
	default:
		return 0
	}
}

// TermOptions lists the allowed term loan durations in days.
var TermOptions = []int{7, 14, 30}

// LoanRate returns the annual interest rate offered for a loan today.
// termDays is only consulted for Term loans.
func LoanRate(state economy.EconomicState, t LoanType, termDays int) (float64, error) {
	rate := state.InterestRate() + t.RateModifier()
	if t != Term {
		return rate, nil
	}
	switch termDays {
	case 7:
	case 14:
		rate -= 0.005
	case 30:
		rate -= 0.01
	default:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTerm, termDays)
	}
	if rate < minTermRate {
		rate = minTermRate
	}
	return rate, nil
}

// CheckAmount validates a new loan against the single-loan and total-debt limits.
func CheckAmount(amount, currentDebt decimal.Decimal) error {
	if amount.LessThan(MinLoan) {
		return fmt.Errorf("%w: minimum is $%s", ErrLoanTooSmall, MinLoan.StringFixed(2))
	}
	if amount.GreaterThan(MaxLoan) {
		return fmt.Errorf("%w: maximum single loan is $%s", ErrLoanTooLarge, MaxLoan.StringFixed(2))
	}
	if currentDebt.Add(amount).GreaterThan(MaxTotalDebt) {
		room := decimal.Max(MaxTotalDebt.Sub(currentDebt), decimal.Zero)
		return fmt.Errorf("%w: you can borrow up to $%s more", ErrDebtLimit, room.StringFixed(2))
	}
	return nil
}

// Loan is an outstanding debt.
type Loan struct {
	ID            uint64
	Type          LoanType
	Principal     decimal.Decimal
	Balance       decimal.Decimal
	Rate          float64 // Annual
	TermDays      int
	DaysRemaining int
}

// NewLoan creates a loan whose balance starts at the principal.
func NewLoan(id uint64, t LoanType, amount decimal.Decimal, rate float64, termDays int) *Loan {
	l := &Loan{
		ID:        id,
		Type:      t,
		Principal: amount,
		Balance:   amount,
		Rate:      rate,
	}
	if t == Term {
		l.TermDays = termDays
		l.DaysRemaining = termDays
	}
	return l
}

// DailyRate is the annual rate spread over 365 days.
func (l *Loan) DailyRate() float64 {
	return l.Rate / 365
}

// AccrueInterest adds one day of interest, rounded to cents, and returns it.
func (l *Loan) AccrueInterest() decimal.Decimal {
	interest := l.Balance.Mul(decimal.NewFromFloat(l.DailyRate())).Round(2)
	l.Balance = l.Balance.Add(interest)
	return interest
}

// Pay reduces the balance by up to amount and returns what was applied.
func (l *Loan) Pay(amount decimal.Decimal) decimal.Decimal {
	applied := decimal.Min(amount, l.Balance)
	if applied.IsNegative() {
		return decimal.Zero
	}
	l.Balance = l.Balance.Sub(applied)
	return applied
}

// AutoPayment is the amount a line of credit collects today.
func (l *Loan) AutoPayment() decimal.Decimal {
	if l.Type != LineOfCredit {
		return decimal.Zero
	}
	p := decimal.Max(l.Balance.Mul(decimal.NewFromFloat(AutoPayRate)).Round(2), minAutoPayment)
	return decimal.Min(p, l.Balance)
}

// Tick counts a term loan down by one day.
func (l *Loan) Tick() {
	if l.Type == Term && l.DaysRemaining > 0 {
		l.DaysRemaining--
	}
}

// Due reports whether a term loan has reached the end of its term.
func (l *Loan) Due() bool {
	return l.Type == Term && l.DaysRemaining == 0
}

// DueSoon reports whether a term loan falls due within three days.
func (l *Loan) DueSoon() bool {
	return l.Type == Term && l.DaysRemaining > 0 && l.DaysRemaining <= 3
}

// DefaultPenalty is charged when a due term loan cannot be repaid.
func (l *Loan) DefaultPenalty() decimal.Decimal {
	if l.Type != Term {
		return decimal.Zero
	}
	return l.Balance.Mul(decimal.NewFromFloat(DefaultPenaltyRate)).Round(2)
}

// PaidOff reports whether less than a cent remains.
func (l *Loan) PaidOff() bool {
	return l.Balance.LessThan(paidOffBelow)
}

// RatePercent formats the annual rate for display.
func (l *Loan) RatePercent() string {
	return fmt.Sprintf("%.1f%%", l.Rate*100)
}

// Clone returns a copy of the loan.
func (l *Loan) Clone() *Loan {
	c := *l
	return &c
}
