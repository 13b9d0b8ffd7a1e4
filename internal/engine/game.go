// Package engine runs the retail business day by day. A Game owns the player,
// the market and the economic climate; every action and query is serialized
// behind one mutex, and advancing the day is all-or-nothing.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/entropy"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/player"
)

// Defaults for a new game.
const (
	DefaultStoreName = "My First Store"
	FirstDay         = 1
)

// DefaultStartingCash is the player's cash on day one.
var DefaultStartingCash = decimal.NewFromInt(1000)

// Phase is the game's position in the day cycle.
type Phase uint8

const (
	AwaitingDayAdvance Phase = iota
	Settling
	GameOver
)

func (p Phase) String() string {
	switch p {
	case AwaitingDayAdvance:
		return "awaiting day advance"
	case Settling:
		return "settling"
	case GameOver:
		return "game over"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Options configure a new game. Zero values select the defaults.
type Options struct {
	Name         string
	StartingCash decimal.Decimal
	StoreName    string
	Catalog      *catalog.Catalog
	// Seed drives every random roll. Zero picks a random seed.
	Seed int64
	// Source overrides the seeded day-keyed source, mainly for tests.
	Source entropy.Source
}

// Game is one playthrough.
type Game struct {
	mu sync.Mutex

	id      uuid.UUID
	name    string
	seed    int64
	created time.Time

	day    uint32
	phase  Phase
	active int
	events []Event

	catalog  *catalog.Catalog
	src      entropy.Source
	market   *economy.Market
	climate  *economy.Climate
	exchange *finance.Exchange
	player   *player.Player
}

func (o Options) withDefaults() Options {
	if o.StartingCash.IsZero() {
		o.StartingCash = DefaultStartingCash
	}
	if o.StoreName == "" {
		o.StoreName = DefaultStoreName
	}
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	if o.Seed == 0 {
		o.Seed = entropy.NewSeed()
	}
	if o.Source == nil {
		o.Source = entropy.NewDaily(o.Seed)
	}
	return o
}

// New starts a game on day one with a single empty store.
func New(opts Options) *Game {
	opts = opts.withDefaults()
	id := uuid.New()
	if opts.Name == "" {
		opts.Name = "Game " + id.String()[:8]
	}

	g := &Game{
		id:       id,
		name:     opts.Name,
		seed:     opts.Seed,
		created:  time.Now().UTC(),
		day:      FirstDay,
		catalog:  opts.Catalog,
		src:      opts.Source,
		market:   economy.NewMarket(opts.Catalog, opts.Source),
		climate:  economy.NewClimate(opts.Seed),
		exchange: finance.NewExchange(),
		player:   player.New(opts.StartingCash, opts.StoreName),
	}
	slog.Info("game started",
		"id", g.id,
		"name", g.name,
		"seed", g.seed,
		"cash", opts.StartingCash.StringFixed(2),
	)
	return g
}

// ID identifies the game in storage.
func (g *Game) ID() uuid.UUID {
	return g.id
}

// Name is the display name of the game.
func (g *Game) Name() string {
	return g.name
}

// Seed is the seed every roll derives from.
func (g *Game) Seed() int64 {
	return g.seed
}

// Catalog is the product set of this game.
func (g *Game) Catalog() *catalog.Catalog {
	return g.catalog
}

// writable must be called with g.mu held.
func (g *Game) writable() error {
	if g.phase == GameOver {
		return fmt.Errorf("%w: bankrupt on day %d", ErrGameOver, g.day)
	}
	return nil
}

func (g *Game) product(id catalog.ProductID) (catalog.Product, error) {
	p, ok := g.catalog.Product(id)
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	return p, nil
}
