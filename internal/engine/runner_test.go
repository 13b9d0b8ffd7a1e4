package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerSettlesRequestedDays(t *testing.T) {
	g := newSteadyGame(t, "10000")
	r := NewRunner(g)

	var mornings int
	var days []uint32
	r.OnMorning = func(*Game) { mornings++ }
	r.OnDay = func(res *DayResult) { days = append(days, res.Day) }

	n, err := r.Run(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, mornings)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, days)
	assert.Equal(t, uint32(6), g.Day())
}

func TestRunnerStopsAtBankruptcy(t *testing.T) {
	g := newSteadyGame(t, "250")
	n, err := NewRunner(g).Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "$250 covers two days of rent")
	assert.True(t, g.IsOver())

	n, err = NewRunner(g).Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunnerHonoursCancellation(t *testing.T) {
	g := newSteadyGame(t, "10000")
	ctx, cancel := context.WithCancel(context.Background())

	r := NewRunner(g)
	r.OnDay = func(res *DayResult) {
		if res.Day == 2 {
			cancel()
		}
	}
	n, err := r.Run(ctx, 0)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 2, n)
}

func TestAutopilotRestocks(t *testing.T) {
	g := newSteadyGame(t, "20000")
	pilot := Autopilot{Target: 10, Reserve: dollars("100")}

	pilot.Morning(g)
	lines, err := g.Inventory(0)
	require.NoError(t, err)
	require.Len(t, lines, len(g.Products()))
	for _, l := range lines {
		assert.Equal(t, 10, l.Quantity, l.Name)
	}

	// A second morning with full shelves buys nothing.
	cash := g.Cash()
	pilot.Morning(g)
	assert.True(t, g.Cash().Equal(cash))
}

func TestAutopilotKeepsReserve(t *testing.T) {
	g := newSteadyGame(t, "300")
	pilot := Autopilot{Target: 100, Reserve: dollars("100")}

	pilot.Morning(g)
	assert.True(t, g.Cash().GreaterThanOrEqual(dollars("200")), "cash %s", g.Cash())

	_, err := g.AdvanceDay()
	require.NoError(t, err)
	assert.False(t, g.IsOver())
}
