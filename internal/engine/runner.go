package engine

import (
	"context"
	"log/slog"
	"time"
)

// Runner advances a game unattended.
type Runner struct {
	Game     *Game
	Interval time.Duration // Pause between days, 0 = as fast as possible

	// Callbacks, populated during setup.
	OnMorning func(g *Game)        // Before each settlement
	OnDay     func(res *DayResult) // After each settlement
}

// NewRunner creates a runner with no pause between days.
func NewRunner(g *Game) *Runner {
	return &Runner{Game: g}
}

// Run settles up to days days (all remaining days if days <= 0) and returns
// how many it settled. It stops early when the game ends or ctx is done.
func (r *Runner) Run(ctx context.Context, days int) (int, error) {
	slog.Info("runner started", "day", r.Game.Day(), "days", days)

	settled := 0
	for days <= 0 || settled < days {
		if err := ctx.Err(); err != nil {
			slog.Info("runner stopped", "day", r.Game.Day(), "settled", settled, "reason", err)
			return settled, err
		}
		if r.Game.IsOver() {
			break
		}

		if r.OnMorning != nil {
			r.OnMorning(r.Game)
		}
		res, err := r.Game.AdvanceDay()
		if err != nil {
			return settled, err
		}
		settled++
		if r.OnDay != nil {
			r.OnDay(res)
		}
		if res.Bankrupt {
			break
		}

		if r.Interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.Interval):
			}
		}
	}

	slog.Info("runner stopped", "day", r.Game.Day(), "settled", settled)
	return settled, nil
}
