package economy

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// EconomicState is the macro-economic climate. It sets borrowing costs and
// stock market drift; retail demand is unaffected.
type EconomicState uint8

const (
	Collapse EconomicState = iota
	Recession
	Standard
	Growth
	Booming
	Prosperity
)

var stateNames = [...]string{"Collapse", "Recession", "Standard", "Growth", "Booming", "Prosperity"}

func (s EconomicState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("EconomicState(%d)", uint8(s))
}

// ParseEconomicState maps a state name back to its value.
func ParseEconomicState(name string) (EconomicState, error) {
	for i, n := range stateNames {
		if n == name {
			return EconomicState(i), nil
		}
	}
	return Standard, fmt.Errorf("unknown economic state %q", name)
}

// Description is a one-line summary for display.
func (s EconomicState) Description() string {
	switch s {
	case Collapse:
		return "Economic crisis, very hard times"
	case Recession:
		return "Economic downturn, reduced spending"
	case Growth:
		return "Expanding economy"
	case Booming:
		return "Strong economic growth"
	case Prosperity:
		return "Peak economic conditions"
	default:
		return "Normal economic conditions"
	}
}

// InterestRate is the annual base lending rate.
func (s EconomicState) InterestRate() float64 {
	switch s {
	case Collapse:
		return 0.15
	case Recession:
		return 0.10
	case Growth:
		return 0.05
	case Booming:
		return 0.04
	case Prosperity:
		return 0.03
	default:
		return 0.06
	}
}

// StockDrift is the daily fractional pull on stock prices.
func (s EconomicState) StockDrift() float64 {
	switch s {
	case Collapse:
		return -0.03
	case Recession:
		return -0.015
	case Growth:
		return 0.01
	case Booming:
		return 0.02
	case Prosperity:
		return 0.025
	default:
		return 0
	}
}

// Rank orders states from worst to best.
func (s EconomicState) Rank() int {
	return int(s)
}

func (s EconomicState) up() EconomicState {
	if s < Prosperity {
		return s + 1
	}
	return s
}

func (s EconomicState) down() EconomicState {
	if s > Collapse {
		return s - 1
	}
	return s
}

// Transition chances per day.
const (
	baseShiftChance  = 0.04
	trendShiftChance = 0.06
	meanReversion    = 0.10
	trendFrequency   = 0.125 // Roughly a 50-day cycle
)

// Climate evolves the economic state once per day. The trend is smooth
// simplex noise over the day number, so good and bad stretches last a while.
type Climate struct {
	State EconomicState
	Trend float64 // -1 (contracting) .. 1 (expanding)

	noise opensimplex.Noise
}

// NewClimate starts a Standard economy whose trend is derived from seed.
func NewClimate(seed int64) *Climate {
	return &Climate{
		State: Standard,
		noise: opensimplex.New(seed),
	}
}

// TrendAt samples the economic trend for a day.
func (c *Climate) TrendAt(day uint32) float64 {
	t := c.noise.Eval2(float64(day)*trendFrequency, 0)
	if t > 1 {
		return 1
	}
	if t < -1 {
		return -1
	}
	return t
}

// Chances returns the probability of moving up and down given a trend.
func (c *Climate) Chances(trend float64) (up, down float64) {
	up, down = baseShiftChance, baseShiftChance
	if trend > 0 {
		up += trend * trendShiftChance
	} else {
		down += -trend * trendShiftChance
	}

	switch c.State {
	case Collapse:
		up += meanReversion
		down = 0
	case Prosperity:
		down += meanReversion
		up = 0
	}
	return up, down
}

// Advance updates the trend for day and applies one transition roll in [0, 1).
// It returns the previous state and whether it changed.
func (c *Climate) Advance(day uint32, roll float64) (prev EconomicState, changed bool) {
	prev = c.State
	c.Trend = c.TrendAt(day)

	up, down := c.Chances(c.Trend)
	switch {
	case roll < up:
		c.State = c.State.up()
	case roll < up+down:
		c.State = c.State.down()
	}
	return prev, c.State != prev
}

// ChangeMessage describes a state change for the event log.
func ChangeMessage(prev, next EconomicState) string {
	direction := "worsened"
	if next.Rank() > prev.Rank() {
		direction = "improved"
	}
	return fmt.Sprintf("Economy %s to %s!", direction, next)
}
