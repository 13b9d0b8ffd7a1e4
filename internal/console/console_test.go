package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/retail-tycoon/internal/engine"
	"github.com/talgya/retail-tycoon/internal/entropy"
	"github.com/talgya/retail-tycoon/internal/persistence"
)

func init() {
	color.NoColor = true
}

func newGame(cash int64) *engine.Game {
	return engine.New(engine.Options{
		Name:         "console",
		StartingCash: decimal.NewFromInt(cash),
		Seed:         3,
		Source:       entropy.Fixed(0.5),
	})
}

func runScript(t *testing.T, g *engine.Game, script string) string {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(g, strings.NewReader(script), &out)
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"3", "$3.00"},
		{"1234.5", "$1,234.50"},
		{"-12", "-$12.00"},
		{"999.999", "$1,000.00"},
		{"1000000.01", "$1,000,000.01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in)), tt.in)
	}
	assert.Equal(t, "+$5.00", SignedMoney(decimal.NewFromInt(5)))
	assert.Equal(t, "-$5.00", SignedMoney(decimal.NewFromInt(-5)))
}

func TestPercentAndUnits(t *testing.T) {
	assert.Equal(t, "4%", Percent(0.04))
	assert.Equal(t, "5.5%", Percent(0.055))
	assert.Equal(t, "12,345", Units(12345))
}

func TestRenderInventory(t *testing.T) {
	g := newGame(1000)
	require.NoError(t, g.BuyWholesale(0, 1, 10))
	lines, err := g.Inventory(0)
	require.NoError(t, err)

	var out bytes.Buffer
	RenderInventory(&out, lines)
	assert.Contains(t, out.String(), "Bread")
	assert.Contains(t, out.String(), "$3.00")
	assert.Contains(t, out.String(), "$2.00")

	out.Reset()
	RenderInventory(&out, nil)
	assert.Contains(t, out.String(), "No inventory")
}

func TestRenderGamesAndHistory(t *testing.T) {
	var out bytes.Buffer
	RenderGames(&out, []persistence.GameSummary{{
		ID:        uuid.New(),
		Name:      "saved",
		Day:       12,
		Cash:      decimal.NewFromInt(4200),
		GameOver:  true,
		UpdatedAt: time.Now().Add(-2 * time.Hour),
	}})
	assert.Contains(t, out.String(), "saved")
	assert.Contains(t, out.String(), "$4,200.00")
	assert.Contains(t, out.String(), "bankrupt")
	assert.Contains(t, out.String(), "2 hours ago")

	out.Reset()
	RenderHistory(&out, []persistence.DayRecord{{
		Day:       3,
		Revenue:   decimal.NewFromInt(150),
		UnitsSold: 50,
		Expenses:  decimal.NewFromInt(100),
		NetProfit: decimal.NewFromInt(50),
		CashAfter: decimal.NewFromInt(1050),
		Climate:   "Standard",
	}})
	assert.Contains(t, out.String(), "+$50.00")
	assert.Contains(t, out.String(), "Standard")
}

func TestSessionBuyAndAdvance(t *testing.T) {
	g := newGame(1000)
	var days []uint32

	var out bytes.Buffer
	s := NewSession(g, strings.NewReader("2\n1\n10\n4\nq\n"), &out)
	s.OnDay = func(res *engine.DayResult) error {
		days = append(days, res.Day)
		return nil
	}
	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, out.String(), "Bought 10 × Bread for $20.00.")
	assert.Contains(t, out.String(), "Day 1 Report")
	assert.Equal(t, []uint32{1}, days)
	assert.Equal(t, uint32(2), g.Day())
}

func TestSessionReportsErrorsAndContinues(t *testing.T) {
	g := newGame(1000)
	// Unknown option, bad quantity, nobody to fire, store too expensive,
	// unknown product.
	out := runScript(t, g, "x\n2\n1\nlots\n6\nf\n5\nb\n\n2\n99\n5\nq\n")

	assert.Contains(t, out, `Error: unknown option "x"`)
	assert.Contains(t, out, `"lots" is not a number`)
	assert.Equal(t, 5, strings.Count(out, "Error: "))
	assert.Contains(t, out, "Error: unknown product: 99")
	assert.Equal(t, uint32(1), g.Day())
	assert.True(t, g.Cash().Equal(decimal.NewFromInt(1000)))
	assert.Len(t, g.Stores(), 1)
}

func TestSessionSetPriceAndStaff(t *testing.T) {
	g := newGame(1000)
	require.NoError(t, g.BuyWholesale(0, 1, 10))

	out := runScript(t, g, "3\n1\n2.50\n6\nh\nq\n")
	assert.Contains(t, out, "Price set to $2.50.")
	assert.Contains(t, out, "Hired an employee.")

	lines, err := g.Inventory(0)
	require.NoError(t, err)
	assert.True(t, lines[0].RetailPrice.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 1, g.Stores()[0].Employees)
}

func TestSessionLoansAndStocks(t *testing.T) {
	g := newGame(1000)

	out := runScript(t, g, "7\nt\n3\n14\n1000\n8\nb\nsafe\n2\nq\n")
	assert.Contains(t, out, "Term Loan #1 for $1,000.00")
	assert.Contains(t, out, "Bought 2 SAFE for $150.00.")

	assert.Len(t, g.Loans(), 1)
	require.Len(t, g.Holdings(), 1)
	assert.True(t, g.Cash().Equal(decimal.NewFromInt(1850)))
}

func TestSessionStopsAtEndOfInput(t *testing.T) {
	g := newGame(1000)
	out := runScript(t, g, "1\n")
	assert.Contains(t, out, "My First Store")
}

func TestSessionHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSession(newGame(1000), strings.NewReader("4\n"), &bytes.Buffer{})
	err := s.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSessionAfterBankruptcy(t *testing.T) {
	g := newGame(50)
	_, err := g.AdvanceDay()
	require.NoError(t, err)
	require.True(t, g.IsOver())

	out := runScript(t, g, "4\n2\n1\n1\nq\n")
	assert.Contains(t, out, "GAME OVER")
	assert.Contains(t, out, "Error: game over")
}
