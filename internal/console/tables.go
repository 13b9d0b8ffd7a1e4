package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/engine"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/persistence"
)

func render(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
	for _, row := range rows {
		_ = table.Append(row)
	}
	_ = table.Render()
}

// RenderStatus prints the one-screen summary shown before the menu.
func RenderStatus(w io.Writer, g *engine.Game) {
	climate := g.Climate()
	fmt.Fprintln(w, banner(fmt.Sprintf("%s · Day %d", g.Name(), g.Day())))
	fmt.Fprintf(w, "Cash: %s   Net worth: %s   Equity: %s\n",
		Money(g.Cash()), Money(g.NetWorth()), Money(g.Equity()))
	fmt.Fprintf(w, "Debt: %s   Daily expenses: %s\n", Money(g.TotalDebt()), Money(g.DailyExpenses()))
	fmt.Fprintf(w, "Economy: %s %s (%s, base rate %s)\n",
		climate.State, trendArrow(climate.Trend), climate.Description, Percent(climate.BaseRate))

	if g.IsOver() {
		badColor.Fprintln(w, "GAME OVER: bankrupt.")
	}
}

// RenderStores lists the player's stores.
func RenderStores(w io.Writer, stores []engine.StoreView) {
	rows := make([][]string, 0, len(stores))
	for _, s := range stores {
		marker := ""
		if s.Active {
			marker = "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index+1) + marker,
			s.Name,
			strconv.Itoa(s.Employees),
			s.Traffic.StringFixed(1),
			Units(s.Units),
			Money(s.InventoryValue),
			Money(s.DailyExpenses),
		})
	}
	render(w, []string{"#", "Store", "Staff", "Customers", "Units", "Stock Value", "Expenses/Day"}, rows)
}

// RenderInventory lists one store's stock.
func RenderInventory(w io.Writer, lines []engine.InventoryLine) {
	if len(lines) == 0 {
		dimColor.Fprintln(w, "No inventory yet. Buy some wholesale to start selling.")
		return
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		qty := Units(l.Quantity)
		if l.Quantity == 0 {
			qty = warnColor.Sprint("sold out")
		}
		rows = append(rows, []string{
			strconv.Itoa(int(l.ProductID)),
			l.Name,
			l.Category.String(),
			qty,
			Money(l.WholesalePrice),
			Money(l.RetailPrice),
			humanize.FtoaWithDigits(l.MarkupPercent, 1) + "%",
		})
	}
	render(w, []string{"ID", "Product", "Category", "Qty", "Wholesale", "Retail", "Markup"}, rows)
}

// RenderProducts lists what can be bought wholesale.
func RenderProducts(w io.Writer, products []catalog.Product) {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(int(p.ID)),
			p.Name,
			p.Category.String(),
			Money(p.WholesalePrice),
			Money(p.BasePrice),
		})
	}
	render(w, []string{"ID", "Product", "Category", "Wholesale", "Base Retail"}, rows)
}

// RenderDayResult prints the end-of-day report.
func RenderDayResult(w io.Writer, res *engine.DayResult) {
	fmt.Fprintln(w, banner(fmt.Sprintf("Day %d Report", res.Day)))

	if len(res.Sales) > 0 {
		rows := make([][]string, 0, len(res.Sales))
		for _, s := range res.Sales {
			rows = append(rows, []string{s.StoreName, s.Name, Units(s.Units), Money(s.UnitPrice), Money(s.Revenue)})
		}
		render(w, []string{"Store", "Product", "Sold", "Price", "Revenue"}, rows)
	} else {
		dimColor.Fprintln(w, "No sales today.")
	}

	fmt.Fprintf(w, "Revenue:   %s (%s units)\n", Money(res.Revenue), Units(res.UnitsSold))
	fmt.Fprintf(w, "Expenses:  %s\n", Money(res.Expenses))
	if !res.Interest.IsZero() {
		fmt.Fprintf(w, "Interest:  %s\n", Money(res.Interest))
	}
	if !res.Dividends.IsZero() {
		fmt.Fprintf(w, "Dividends: %s\n", Money(res.Dividends))
	}
	fmt.Fprintf(w, "Net:       %s\n", colorMoney(res.NetProfit))
	fmt.Fprintf(w, "Cash:      %s\n", Money(res.CashAfter))

	for _, p := range res.LoanPayments {
		fmt.Fprintf(w, "Line of credit #%d auto-paid %s\n", p.LoanID, Money(p.Amount))
	}
	for _, d := range res.LoansDue {
		if d.Repaid {
			goodColor.Fprintf(w, "Term loan #%d repaid: %s\n", d.LoanID, Money(d.Balance))
		} else {
			badColor.Fprintf(w, "Term loan #%d defaulted: %s penalty added\n", d.LoanID, Money(d.Penalty))
		}
	}
	for _, d := range res.DueSoon {
		warnColor.Fprintf(w, "Term loan #%d due in %d days: %s\n", d.LoanID, d.DaysRemaining, Money(d.Balance))
	}
	if res.ClimateChanged {
		warnColor.Fprintf(w, "The economy is now %s.\n", res.Climate)
	}
	if res.Bankrupt {
		badColor.Fprintln(w, "BANKRUPT! Your cash fell below zero.")
	}
}

// RenderLoans lists outstanding loans.
func RenderLoans(w io.Writer, loans []finance.Loan) {
	if len(loans) == 0 {
		dimColor.Fprintln(w, "No outstanding loans.")
		return
	}
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		due := "-"
		if l.Type == finance.Term {
			due = fmt.Sprintf("%d days", l.DaysRemaining)
		}
		rows = append(rows, []string{
			strconv.FormatUint(l.ID, 10),
			l.Type.String(),
			Money(l.Principal),
			Money(l.Balance),
			l.RatePercent(),
			due,
		})
	}
	render(w, []string{"#", "Type", "Principal", "Balance", "Rate", "Due"}, rows)
}

// RenderStocks lists the exchange.
func RenderStocks(w io.Writer, stocks []finance.Stock) {
	rows := make([][]string, 0, len(stocks))
	for _, s := range stocks {
		rows = append(rows, []string{
			s.Symbol,
			s.Name,
			s.Type.String(),
			Money(s.Price),
			s.TrendIndicator(),
			Percent(s.Type.DividendYield()),
		})
	}
	render(w, []string{"Symbol", "Company", "Type", "Price", "Trend", "Yield"}, rows)
}

// RenderHoldings lists the player's stock positions.
func RenderHoldings(w io.Writer, holdings []engine.HoldingView) {
	if len(holdings) == 0 {
		dimColor.Fprintln(w, "No stock holdings.")
		return
	}
	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{
			h.Symbol,
			Units(h.Shares),
			Money(h.AvgPrice),
			Money(h.Price),
			Money(h.Value),
			colorMoney(h.GainLoss),
			Money(h.Dividends),
		})
	}
	render(w, []string{"Symbol", "Shares", "Avg Cost", "Price", "Value", "Gain/Loss", "Dividends"}, rows)
}

// RenderEvents prints events one per line.
func RenderEvents(w io.Writer, events []engine.Event) {
	if len(events) == 0 {
		dimColor.Fprintln(w, "Nothing has happened yet.")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "Day %-4d [%s] %s\n", e.Day, e.Category, e.Description)
	}
}

// RenderHistory prints the day ledger.
func RenderHistory(w io.Writer, days []persistence.DayRecord) {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(d.Day), 10),
			Money(d.Revenue),
			Units(d.UnitsSold),
			Money(d.Expenses),
			Money(d.Interest),
			colorMoney(d.NetProfit),
			Money(d.CashAfter),
			d.Climate,
		})
	}
	render(w, []string{"Day", "Revenue", "Units", "Expenses", "Interest", "Net", "Cash", "Economy"}, rows)
}

// RenderGames lists saved games.
func RenderGames(w io.Writer, games []persistence.GameSummary) {
	if len(games) == 0 {
		dimColor.Fprintln(w, "No saved games.")
		return
	}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		status := "playing"
		if g.GameOver {
			status = "bankrupt"
		}
		rows = append(rows, []string{
			g.ID.String(),
			g.Name,
			strconv.FormatUint(uint64(g.Day), 10),
			Money(g.Cash),
			status,
			humanize.Time(g.UpdatedAt),
		})
	}
	render(w, []string{"ID", "Name", "Day", "Cash", "Status", "Last Played"}, rows)
}

// RenderRun summarizes a batch of settled days, one row per day plus totals.
func RenderRun(w io.Writer, results []*engine.DayResult) {
	if len(results) == 0 {
		dimColor.Fprintln(w, "No days were settled.")
		return
	}
	revenue, expenses, interest, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	units := 0
	rows := make([][]string, 0, len(results)+1)
	for _, r := range results {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.Day), 10),
			Money(r.Revenue),
			Units(r.UnitsSold),
			Money(r.Expenses),
			Money(r.Interest),
			colorMoney(r.NetProfit),
			Money(r.CashAfter),
			r.Climate.String(),
		})
		revenue = revenue.Add(r.Revenue)
		expenses = expenses.Add(r.Expenses)
		interest = interest.Add(r.Interest)
		net = net.Add(r.NetProfit)
		units += r.UnitsSold
	}
	last := results[len(results)-1]
	rows = append(rows, []string{
		"Total", Money(revenue), Units(units), Money(expenses), Money(interest),
		colorMoney(net), Money(last.CashAfter), last.Climate.String(),
	})
	render(w, []string{"Day", "Revenue", "Units", "Expenses", "Interest", "Net", "Cash", "Economy"}, rows)
}
