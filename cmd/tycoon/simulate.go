package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/talgya/retail-tycoon/internal/console"
	"github.com/talgya/retail-tycoon/internal/engine"
	"github.com/talgya/retail-tycoon/internal/persistence"
)

func simulateCmd() *cobra.Command {
	var (
		flags    gameFlags
		days     int
		target   int
		reserve  string
		interval time.Duration
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a new game headless with a restocking autopilot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := cfg.Catalog()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cat)
			if err != nil {
				return err
			}
			if opts.Name == "" {
				opts.Name = fmt.Sprintf("Autopilot (%d days)", days)
			}

			pilot := engine.DefaultAutopilot()
			if target > 0 {
				pilot.Target = target
			}
			if reserve != "" {
				if pilot.Reserve, err = decimal.NewFromString(reserve); err != nil {
					return fmt.Errorf("invalid --reserve %q", reserve)
				}
			}

			if !cmd.Flags().Changed("save") {
				save = cfg.Autosave
			}
			var db *persistence.DB
			if save {
				if db, err = openDB(); err != nil {
					return err
				}
				defer db.Close()
			}

			g := engine.New(opts)
			if db != nil {
				if err := db.SaveGame(g.Snapshot()); err != nil {
					return fmt.Errorf("initial save: %w", err)
				}
			}

			var results []*engine.DayResult
			runner := engine.NewRunner(g)
			runner.Interval = interval
			runner.OnMorning = pilot.Morning
			runner.OnDay = func(res *engine.DayResult) {
				results = append(results, res)
				if db == nil {
					return
				}
				if err := saveDay(db, g, res); err != nil {
					slog.Error("daily save failed", "day", res.Day, "error", err)
				}
			}

			_, runErr := runner.Run(cmd.Context(), days)

			console.RenderRun(os.Stdout, results)
			console.RenderStatus(os.Stdout, g)
			if db != nil {
				fmt.Printf("Saved as %s (seed %d).\n", g.ID(), g.Seed())
			} else {
				fmt.Printf("Seed %d.\n", g.Seed())
			}

			if errors.Is(runErr, context.Canceled) {
				return nil
			}
			return runErr
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&days, "days", 30, "days to simulate (0 runs until bankrupt or interrupted)")
	cmd.Flags().IntVar(&target, "target", 0, "units of each product to keep on the shelves")
	cmd.Flags().StringVar(&reserve, "reserve", "", "cash the autopilot keeps back beyond tomorrow's bills")
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause between days")
	cmd.Flags().BoolVar(&save, "save", true, "save the game and its ledger (defaults to TYCOON_AUTOSAVE)")
	return cmd
}
