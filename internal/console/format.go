// Package console renders game state for the terminal and drives the
// interactive menu.
package console

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	goodColor  = color.New(color.FgGreen)
	badColor   = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
)

// Money formats an amount as dollars with thousands separators, e.g. $1,234.50.
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents == 100 {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = 0
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(whole.IntPart()), cents)
}

// SignedMoney is Money with an explicit + for gains.
func SignedMoney(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + Money(d)
	}
	return Money(d)
}

// Percent formats a fraction such as 0.055 as 5.5%.
func Percent(f float64) string {
	return humanize.FtoaWithDigits(f*100, 2) + "%"
}

// Units formats a count with thousands separators.
func Units(n int) string {
	return humanize.Comma(int64(n))
}

// colorMoney renders gains green and losses red.
func colorMoney(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return badColor.Sprint(SignedMoney(d))
	case d.IsPositive():
		return goodColor.Sprint(SignedMoney(d))
	default:
		return Money(d)
	}
}

func trendArrow(f float64) string {
	switch {
	case f > 0.01:
		return goodColor.Sprint("▲")
	case f < -0.01:
		return badColor.Sprint("▼")
	default:
		return "─"
	}
}

func banner(title string) string {
	line := strings.Repeat("─", len(title)+2)
	return titleColor.Sprintf("╭%s╮\n│ %s │\n╰%s╯", line, title, line)
}
