package engine

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
)

// Autopilot is a simple restocking policy for headless runs. Each morning it
// tops every retail product in every store up to Target units, as far as cash
// allows after keeping tomorrow's bills plus Reserve aside.
type Autopilot struct {
	Target  int
	Reserve decimal.Decimal
}

// DefaultAutopilot stocks 40 units of everything and keeps $100 spare.
func DefaultAutopilot() Autopilot {
	return Autopilot{Target: 40, Reserve: decimal.NewFromInt(100)}
}

// Morning restocks the game. It is meant for Runner.OnMorning.
func (a Autopilot) Morning(g *Game) {
	if g.IsOver() {
		return
	}

	for _, sv := range g.Stores() {
		lines, err := g.Inventory(sv.Index)
		if err != nil {
			continue
		}
		onHand := make(map[catalog.ProductID]int, len(lines))
		for _, l := range lines {
			onHand[l.ProductID] = l.Quantity
		}

		for _, p := range g.Products() {
			need := a.Target - onHand[p.ID]
			if need <= 0 || !p.WholesalePrice.IsPositive() {
				continue
			}
			budget := g.Cash().Sub(g.DailyExpenses()).Sub(a.Reserve)
			if !budget.IsPositive() {
				return
			}
			affordable := int(budget.Div(p.WholesalePrice).IntPart())
			if affordable < need {
				need = affordable
			}
			if need <= 0 {
				continue
			}

			err := g.BuyWholesale(sv.Index, p.ID, need)
			if errors.Is(err, ErrGameOver) {
				return
			}
			if err != nil {
				slog.Debug("autopilot purchase skipped", "store", sv.Name, "product", p.Name, "err", err)
			}
		}
	}
}
