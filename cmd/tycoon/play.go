package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/console"
	"github.com/talgya/retail-tycoon/internal/engine"
	"github.com/talgya/retail-tycoon/internal/persistence"
)

// gameFlags are the flags that shape a new game.
type gameFlags struct {
	seed int64
	cash string
	name string
}

func (f *gameFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed for a new game (overrides TYCOON_SEED)")
	cmd.Flags().StringVar(&f.cash, "cash", "", "starting cash for a new game (overrides TYCOON_STARTING_CASH)")
	cmd.Flags().StringVar(&f.name, "name", "", "name for a new game")
}

// options merges the flags over the loaded configuration.
func (f *gameFlags) options(cmd *cobra.Command, cat *catalog.Catalog) (engine.Options, error) {
	opts := engine.Options{
		Name:         f.name,
		StartingCash: cfg.StartingCash,
		StoreName:    cfg.StoreName,
		Catalog:      cat,
		Seed:         cfg.Seed,
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}
	if f.cash != "" {
		cash, err := decimal.NewFromString(f.cash)
		if err != nil || !cash.IsPositive() {
			return engine.Options{}, fmt.Errorf("invalid --cash %q", f.cash)
		}
		opts.StartingCash = cash
	}
	return opts, nil
}

func playCmd() *cobra.Command {
	var (
		flags  gameFlags
		loadID string
		fresh  bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively, resuming the last game unless told otherwise",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			cat, err := cfg.Catalog()
			if err != nil {
				return err
			}

			g, err := loadOrCreate(cmd, db, cat, &flags, loadID, fresh)
			if err != nil {
				return err
			}

			session := console.NewSession(g, os.Stdin, os.Stdout)
			if cfg.Autosave {
				session.OnDay = func(res *engine.DayResult) error {
					return saveDay(db, g, res)
				}
			}
			runErr := session.Run(cmd.Context())

			if err := db.SaveGame(g.Snapshot()); err != nil {
				return fmt.Errorf("final save: %w", err)
			}
			fmt.Printf("\nGame %s saved on day %d.\n", g.ID(), g.Day())

			if errors.Is(runErr, context.Canceled) {
				return nil
			}
			return runErr
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&loadID, "load", "", "ID of a saved game to resume")
	cmd.Flags().BoolVar(&fresh, "new", false, "start a new game instead of resuming")
	return cmd
}

func loadOrCreate(cmd *cobra.Command, db *persistence.DB, cat *catalog.Catalog, flags *gameFlags, loadID string, fresh bool) (*engine.Game, error) {
	if !fresh {
		var id uuid.UUID
		var err error
		if loadID != "" {
			if id, err = uuid.Parse(loadID); err != nil {
				return nil, fmt.Errorf("invalid game ID %q", loadID)
			}
		} else if id, err = db.LatestGameID(); errors.Is(err, persistence.ErrNotFound) {
			fresh = true
		} else if err != nil {
			return nil, err
		}

		if !fresh {
			snap, err := db.LoadGame(id, cat)
			if err != nil {
				return nil, err
			}
			g, err := engine.Restore(snap, engine.Options{Catalog: cat})
			if err != nil {
				return nil, err
			}
			slog.Info("game resumed", "id", g.ID(), "day", g.Day())
			return g, nil
		}
	}

	opts, err := flags.options(cmd, cat)
	if err != nil {
		return nil, err
	}
	g := engine.New(opts)
	if err := db.SaveGame(g.Snapshot()); err != nil {
		return nil, fmt.Errorf("initial save: %w", err)
	}
	return g, nil
}

// saveDay stores the game and its ledger entry for a settled day.
func saveDay(db *persistence.DB, g *engine.Game, res *engine.DayResult) error {
	if err := db.SaveGame(g.Snapshot()); err != nil {
		return err
	}
	return db.RecordDay(g.ID(), res)
}
