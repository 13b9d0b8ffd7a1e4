package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/retail-tycoon/internal/console"
	"github.com/talgya/retail-tycoon/internal/persistence"
)

func historyCmd() *cobra.Command {
	var (
		gameID string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a saved game's day ledger and recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := resolveGame(db, gameID)
			if err != nil {
				return err
			}

			days, err := db.DayHistory(id, limit)
			if err != nil {
				return err
			}
			fmt.Printf("Game %s, last %d days:\n", id, len(days))
			console.RenderHistory(os.Stdout, days)

			events, err := db.RecentEvents(id, limit)
			if err != nil {
				return fmt.Errorf("recent events: %w", err)
			}
			fmt.Println("\nRecent events:")
			console.RenderEvents(os.Stdout, events)
			return nil
		},
	}
	cmd.Flags().StringVar(&gameID, "game", "", "game ID (defaults to the last played game)")
	cmd.Flags().IntVar(&limit, "limit", 14, "number of days and events to show")
	return cmd
}

func gamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List saved games",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			games, err := db.ListGames()
			if err != nil {
				return err
			}
			console.RenderGames(os.Stdout, games)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete GAME_ID",
		Short: "Delete a saved game and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid game ID %q", args[0])
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteGame(id); err != nil {
				return err
			}
			fmt.Printf("Deleted game %s.\n", id)
			return nil
		},
	}
}

func resolveGame(db *persistence.DB, raw string) (uuid.UUID, error) {
	if raw == "" {
		return db.LatestGameID()
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid game ID %q", raw)
	}
	return id, nil
}
