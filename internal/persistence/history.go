package persistence

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/engine"
)

// DayRecord is one settled day in a game's ledger.
type DayRecord struct {
	Day       uint32          `db:"day"`
	Revenue   decimal.Decimal `db:"revenue"`
	Expenses  decimal.Decimal `db:"expenses"`
	Interest  decimal.Decimal `db:"interest"`
	Dividends decimal.Decimal `db:"dividends"`
	Penalties decimal.Decimal `db:"penalties"`
	UnitsSold int             `db:"units_sold"`
	NetProfit decimal.Decimal `db:"net_profit"`
	CashAfter decimal.Decimal `db:"cash_after"`
	Climate   string          `db:"climate"`
	Bankrupt  bool            `db:"bankrupt"`
}

func saveEvents(tx *sqlx.Tx, gameID string, events []engine.Event) error {
	stmt, err := tx.Preparex("INSERT INTO events (game_id, day, description, category) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(gameID, int64(e.Day), e.Description, e.Category); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return nil
}

// RecordDay adds a settled day to the game's ledger. Recording the same day
// twice keeps the latest result. The game must already be saved.
func (db *DB) RecordDay(gameID uuid.UUID, res *engine.DayResult) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO day_results (game_id, day, revenue, expenses, interest, dividends,
			penalties, units_sold, net_profit, cash_after, climate, bankrupt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gameID.String(), int64(res.Day),
		res.Revenue.String(), res.Expenses.String(), res.Interest.String(),
		res.Dividends.String(), res.Penalties.String(), res.UnitsSold,
		res.NetProfit.String(), res.CashAfter.String(), res.Climate.String(), res.Bankrupt,
	)
	if err != nil {
		return fmt.Errorf("record day %d: %w", res.Day, err)
	}
	return nil
}

// DayHistory returns the most recent N ledger entries, newest first.
// A limit of zero or less returns them all.
func (db *DB) DayHistory(gameID uuid.UUID, limit int) ([]DayRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	var days []DayRecord
	err := db.conn.Select(&days, `
		SELECT day, revenue, expenses, interest, dividends, penalties,
			units_sold, net_profit, cash_after, climate, bankrupt
		FROM day_results WHERE game_id = ? ORDER BY day DESC LIMIT ?`,
		gameID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("day history: %w", err)
	}
	return days, nil
}

// RecentEvents returns the most recent N events, newest first.
// A limit of zero or less returns them all.
func (db *DB) RecentEvents(gameID uuid.UUID, limit int) ([]engine.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT day, description, category FROM events WHERE game_id = ? ORDER BY id DESC LIMIT ?",
		gameID.String(), limit)
	return events, err
}
