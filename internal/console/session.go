package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/engine"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/player"
)

// errAborted ends the current menu action without an error message.
var errAborted = errors.New("aborted")

const menu = `
 1) View store          6) Staff
 2) Buy inventory       7) Loans
 3) Set prices          8) Stocks
 4) Advance day         9) Event log
 5) Stores              q) Quit
`

// Session is an interactive game over a line-oriented terminal.
type Session struct {
	Game *engine.Game

	// OnDay runs after each settled day, e.g. to autosave.
	OnDay func(*engine.DayResult) error

	in  *bufio.Scanner
	out io.Writer
}

// NewSession reads commands from in and writes to out.
func NewSession(g *engine.Game, in io.Reader, out io.Writer) *Session {
	return &Session{Game: g, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the player quits, input ends or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.out)
		RenderStatus(s.out, s.Game)
		fmt.Fprint(s.out, menu)

		choice, ok := s.prompt("> ")
		if !ok {
			return nil
		}

		var err error
		switch strings.ToLower(choice) {
		case "1":
			err = s.viewStore()
		case "2":
			err = s.buyInventory()
		case "3":
			err = s.setPrices()
		case "4":
			err = s.advanceDay()
		case "5":
			err = s.stores()
		case "6":
			err = s.staff()
		case "7":
			err = s.loans()
		case "8":
			err = s.stocks()
		case "9":
			RenderEvents(s.out, s.Game.Events(20))
		case "q", "quit", "exit":
			return nil
		case "":
		default:
			err = fmt.Errorf("unknown option %q", choice)
		}
		if err != nil && !errors.Is(err, errAborted) {
			s.fail(err)
		}
	}
}

func (s *Session) fail(err error) {
	badColor.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Session) ok(format string, args ...any) {
	goodColor.Fprintf(s.out, format+"\n", args...)
}

// prompt reads one trimmed line. It reports false once input is exhausted.
func (s *Session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) promptInt(label string) (int, error) {
	v, ok := s.prompt(label)
	if !ok || v == "" {
		return 0, errAborted
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	return n, nil
}

func (s *Session) promptMoney(label string) (decimal.Decimal, error) {
	v, ok := s.prompt(label)
	if !ok || v == "" {
		return decimal.Zero, errAborted
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not an amount", v)
	}
	return d, nil
}

func (s *Session) viewStore() error {
	idx := s.Game.ActiveStore()
	lines, err := s.Game.Inventory(idx)
	if err != nil {
		return err
	}
	RenderStores(s.out, s.Game.Stores())
	RenderInventory(s.out, lines)
	return nil
}

func (s *Session) buyInventory() error {
	RenderProducts(s.out, s.Game.Products())
	id, err := s.promptInt("Product ID: ")
	if err != nil {
		return err
	}
	qty, err := s.promptInt("Quantity: ")
	if err != nil {
		return err
	}

	pid := catalog.ProductID(id)
	if err := s.Game.BuyWholesale(s.Game.ActiveStore(), pid, qty); err != nil {
		return err
	}
	p, _ := s.Game.Catalog().Product(pid)
	s.ok("Bought %s × %s for %s.", Units(qty), p.Name, Money(p.WholesalePrice.Mul(decimal.NewFromInt(int64(qty)))))
	return nil
}

func (s *Session) setPrices() error {
	idx := s.Game.ActiveStore()
	lines, err := s.Game.Inventory(idx)
	if err != nil {
		return err
	}
	RenderInventory(s.out, lines)
	if len(lines) == 0 {
		return nil
	}
	id, err := s.promptInt("Product ID: ")
	if err != nil {
		return err
	}
	price, err := s.promptMoney("New retail price: $")
	if err != nil {
		return err
	}
	if err := s.Game.SetRetailPrice(idx, catalog.ProductID(id), price); err != nil {
		return err
	}
	s.ok("Price set to %s.", Money(price))
	return nil
}

func (s *Session) advanceDay() error {
	res, err := s.Game.AdvanceDay()
	if err != nil {
		return err
	}
	RenderDayResult(s.out, res)
	if s.OnDay != nil {
		if err := s.OnDay(res); err != nil {
			return fmt.Errorf("after day %d: %w", res.Day, err)
		}
	}
	return nil
}

func (s *Session) stores() error {
	RenderStores(s.out, s.Game.Stores())
	fmt.Fprintf(s.out, "b) Buy a new store (%s)   s) Switch store\n", Money(player.StoreCost))
	choice, _ := s.prompt("> ")

	switch strings.ToLower(choice) {
	case "b":
		name, ok := s.prompt("Store name (blank for default): ")
		if !ok {
			return errAborted
		}
		idx, err := s.Game.BuyStore(name)
		if err != nil {
			return err
		}
		s.ok("Opened %s.", s.Game.Stores()[idx].Name)
	case "s":
		n, err := s.promptInt("Store #: ")
		if err != nil {
			return err
		}
		if err := s.Game.SwitchActiveStore(n - 1); err != nil {
			return err
		}
		s.ok("Now managing %s.", s.Game.Stores()[n-1].Name)
	}
	return nil
}

func (s *Session) staff() error {
	idx := s.Game.ActiveStore()
	sv := s.Game.Stores()[idx]
	fmt.Fprintf(s.out, "%s has %d employees (traffic %s customers/day).\n",
		sv.Name, sv.Employees, sv.Traffic.StringFixed(1))
	fmt.Fprintln(s.out, "h) Hire   f) Fire")
	choice, _ := s.prompt("> ")

	switch strings.ToLower(choice) {
	case "h":
		if err := s.Game.HireEmployee(idx); err != nil {
			return err
		}
		s.ok("Hired an employee.")
	case "f":
		if err := s.Game.FireEmployee(idx); err != nil {
			return err
		}
		s.ok("Let an employee go.")
	}
	return nil
}

var loanTypes = []finance.LoanType{finance.Flexible, finance.LineOfCredit, finance.Term}

func (s *Session) loans() error {
	RenderLoans(s.out, s.Game.Loans())
	fmt.Fprintf(s.out, "Total debt: %s\n", Money(s.Game.TotalDebt()))
	fmt.Fprintln(s.out, "t) Take a loan   r) Repay a loan")
	choice, _ := s.prompt("> ")

	switch strings.ToLower(choice) {
	case "t":
		return s.takeLoan()
	case "r":
		id, err := s.promptInt("Loan #: ")
		if err != nil {
			return err
		}
		amount, err := s.promptMoney("Amount: $")
		if err != nil {
			return err
		}
		paid, err := s.Game.RepayLoan(uint64(id), amount)
		if err != nil {
			return err
		}
		s.ok("Paid %s.", Money(paid))
	}
	return nil
}

func (s *Session) takeLoan() error {
	for i, t := range loanTypes {
		if t == finance.Term {
			fmt.Fprintf(s.out, "%d) %s: %s\n", i+1, t, t.Description())
			for _, days := range finance.TermOptions {
				rate, _ := s.Game.LoanRate(t, days)
				fmt.Fprintf(s.out, "     %d days at %s\n", days, Percent(rate))
			}
			continue
		}
		rate, _ := s.Game.LoanRate(t, 0)
		fmt.Fprintf(s.out, "%d) %s at %s: %s\n", i+1, t, Percent(rate), t.Description())
	}

	n, err := s.promptInt("Type: ")
	if err != nil {
		return err
	}
	if n < 1 || n > len(loanTypes) {
		return fmt.Errorf("no loan type %d", n)
	}
	t := loanTypes[n-1]

	var days int
	if t == finance.Term {
		if days, err = s.promptInt("Term in days: "); err != nil {
			return err
		}
	}
	amount, err := s.promptMoney(fmt.Sprintf("Amount (%s-%s): $", Money(finance.MinLoan), Money(finance.MaxLoan)))
	if err != nil {
		return err
	}

	loan, err := s.Game.TakeLoan(t, amount, days)
	if err != nil {
		return err
	}
	s.ok("%s #%d for %s at %s.", loan.Type, loan.ID, Money(loan.Principal), loan.RatePercent())
	return nil
}

func (s *Session) stocks() error {
	RenderStocks(s.out, s.Game.Stocks())
	RenderHoldings(s.out, s.Game.Holdings())
	fmt.Fprintln(s.out, "b) Buy shares   s) Sell shares")
	choice, _ := s.prompt("> ")

	choice = strings.ToLower(choice)
	if choice != "b" && choice != "s" {
		return nil
	}
	symbol, ok := s.prompt("Symbol: ")
	if !ok || symbol == "" {
		return errAborted
	}
	symbol = strings.ToUpper(symbol)
	shares, err := s.promptInt("Shares: ")
	if err != nil {
		return err
	}

	if choice == "b" {
		cost, err := s.Game.BuyShares(symbol, shares)
		if err != nil {
			return err
		}
		s.ok("Bought %s %s for %s.", Units(shares), symbol, Money(cost))
		return nil
	}
	proceeds, err := s.Game.SellShares(symbol, shares)
	if err != nil {
		return err
	}
	s.ok("Sold %s %s for %s.", Units(shares), symbol, Money(proceeds))
	return nil
}
