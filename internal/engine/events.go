package engine

// MaxEvents bounds the in-memory event log.
const MaxEvents = 1000

// Event categories.
const (
	CategoryClimate    = "climate"
	CategoryStore      = "store"
	CategorySales      = "sales"
	CategoryLoan       = "loan"
	CategoryStock      = "stock"
	CategoryBankruptcy = "bankruptcy"
)

// Event is a notable occurrence in the game.
type Event struct {
	Day         uint32 `json:"day"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (g *Game) record(day uint32, category, description string) {
	g.events = append(g.events, Event{Day: day, Description: description, Category: category})
	// Trim old events to prevent unbounded growth.
	if len(g.events) > MaxEvents {
		g.events = g.events[len(g.events)-MaxEvents:]
	}
}
