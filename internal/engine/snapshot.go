package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/player"
	"github.com/talgya/retail-tycoon/internal/store"
)

// Snapshot is a detached copy of a game's full state, suitable for saving.
type Snapshot struct {
	ID          uuid.UUID
	Name        string
	Seed        int64
	CreatedAt   time.Time
	Day         uint32
	GameOver    bool
	ActiveStore int

	Cash        decimal.Decimal
	NextStoreID store.ID
	NextLoanID  uint64
	Stores      []*store.Store
	Loans       []*finance.Loan
	Holdings    []*finance.Holding

	Climate economy.EconomicState
	Trend   float64
	Stocks  []*finance.Stock

	Events []Event
}

// Snapshot copies the game state. The result shares nothing with the game.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.player.Clone()
	return &Snapshot{
		ID:          g.id,
		Name:        g.name,
		Seed:        g.seed,
		CreatedAt:   g.created,
		Day:         g.day,
		GameOver:    g.phase == GameOver,
		ActiveStore: g.active,
		Cash:        p.Cash,
		NextStoreID: p.NextStoreID,
		NextLoanID:  p.NextLoanID,
		Stores:      p.Stores,
		Loans:       p.Loans,
		Holdings:    p.Holdings,
		Climate:     g.climate.State,
		Trend:       g.climate.Trend,
		Stocks:      g.exchange.Clone().Stocks,
		Events:      append([]Event(nil), g.events...),
	}
}

// Restore rebuilds a game from a snapshot. Options supply the catalog and,
// optionally, a replacement random source; their other fields are ignored.
func Restore(snap *Snapshot, opts Options) (*Game, error) {
	if snap == nil {
		return nil, errors.New("restore: nil snapshot")
	}
	if len(snap.Stores) == 0 {
		return nil, fmt.Errorf("restore %s: no stores", snap.ID)
	}
	if snap.ActiveStore < 0 || snap.ActiveStore >= len(snap.Stores) {
		return nil, fmt.Errorf("restore %s: %w: active #%d", snap.ID, ErrUnknownStore, snap.ActiveStore+1)
	}

	opts.Seed = snap.Seed
	opts = opts.withDefaults()

	p := &player.Player{
		Cash:        snap.Cash,
		Stores:      snap.Stores,
		Loans:       snap.Loans,
		Holdings:    snap.Holdings,
		NextStoreID: snap.NextStoreID,
		NextLoanID:  snap.NextLoanID,
	}
	p = p.Clone()

	climate := economy.NewClimate(snap.Seed)
	climate.State = snap.Climate
	climate.Trend = snap.Trend

	exchange := finance.NewExchange()
	if len(snap.Stocks) > 0 {
		exchange = (&finance.Exchange{Stocks: snap.Stocks}).Clone()
	}

	g := &Game{
		id:       snap.ID,
		name:     snap.Name,
		seed:     snap.Seed,
		created:  snap.CreatedAt,
		day:      snap.Day,
		active:   snap.ActiveStore,
		events:   append([]Event(nil), snap.Events...),
		catalog:  opts.Catalog,
		src:      opts.Source,
		market:   economy.NewMarket(opts.Catalog, opts.Source),
		climate:  climate,
		exchange: exchange,
		player:   p,
	}
	if snap.GameOver {
		g.phase = GameOver
	}
	return g, nil
}
