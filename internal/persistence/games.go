package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
	"github.com/talgya/retail-tycoon/internal/economy"
	"github.com/talgya/retail-tycoon/internal/engine"
	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/store"
)

const lastGameKey = "last_game"

type gameRow struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Seed        int64           `db:"seed"`
	Day         int64           `db:"day"`
	Cash        decimal.Decimal `db:"cash"`
	GameOver    bool            `db:"game_over"`
	ActiveStore int64           `db:"active_store"`
	NextStoreID int64           `db:"next_store_id"`
	NextLoanID  int64           `db:"next_loan_id"`
	Climate     string          `db:"climate"`
	Trend       float64         `db:"trend"`
	CreatedAt   int64           `db:"created_at"`
	UpdatedAt   int64           `db:"updated_at"`
}

type storeRow struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	Employees     int64           `db:"employees"`
	BaseCustomers int64           `db:"base_customers"`
	Rent          decimal.Decimal `db:"rent"`
}

type inventoryRow struct {
	StoreID     int64           `db:"store_id"`
	ProductID   int64           `db:"product_id"`
	Quantity    int64           `db:"quantity"`
	RetailPrice decimal.Decimal `db:"retail_price"`
}

type loanRow struct {
	ID            int64           `db:"id"`
	Type          int64           `db:"type"`
	Principal     decimal.Decimal `db:"principal"`
	Balance       decimal.Decimal `db:"balance"`
	Rate          float64         `db:"rate"`
	TermDays      int64           `db:"term_days"`
	DaysRemaining int64           `db:"days_remaining"`
}

type holdingRow struct {
	Symbol    string          `db:"symbol"`
	Shares    int64           `db:"shares"`
	AvgPrice  decimal.Decimal `db:"avg_price"`
	Dividends decimal.Decimal `db:"dividends"`
}

type stockRow struct {
	ID          int64           `db:"id"`
	Symbol      string          `db:"symbol"`
	Name        string          `db:"name"`
	Type        int64           `db:"type"`
	Price       decimal.Decimal `db:"price"`
	BasePrice   decimal.Decimal `db:"base_price"`
	Pending     decimal.Decimal `db:"pending"`
	HistoryJSON string          `db:"history_json"`
}

// GameSummary is one line of the saved games list.
type GameSummary struct {
	ID        uuid.UUID
	Name      string
	Day       uint32
	Cash      decimal.Decimal
	GameOver  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveGame writes a snapshot, replacing whatever was stored for the game.
// The game also becomes the one LatestGameID returns.
func (db *DB) SaveGame(snap *engine.Snapshot) error {
	slog.Debug("saving game", "game", snap.ID, "day", snap.Day)

	tx, err := db.conn.Beginx()
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	defer tx.Rollback()

	id := snap.ID.String()
	now := time.Now()
	created := snap.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err = tx.Exec(`
		INSERT INTO games (id, name, seed, day, cash, game_over, active_store,
			next_store_id, next_loan_id, climate, trend, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			seed = excluded.seed,
			day = excluded.day,
			cash = excluded.cash,
			game_over = excluded.game_over,
			active_store = excluded.active_store,
			next_store_id = excluded.next_store_id,
			next_loan_id = excluded.next_loan_id,
			climate = excluded.climate,
			trend = excluded.trend,
			updated_at = excluded.updated_at`,
		id, snap.Name, snap.Seed, int64(snap.Day), snap.Cash.String(), snap.GameOver,
		int64(snap.ActiveStore), int64(snap.NextStoreID), int64(snap.NextLoanID),
		snap.Climate.String(), snap.Trend, created.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save game row: %w", err)
	}

	for _, table := range []string{"stores", "inventory", "loans", "holdings", "stock_prices", "events"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_id = ?", id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := saveStores(tx, id, snap.Stores); err != nil {
		return err
	}
	if err := saveLoans(tx, id, snap.Loans); err != nil {
		return err
	}
	if err := saveHoldings(tx, id, snap.Holdings); err != nil {
		return err
	}
	if err := saveStocks(tx, id, snap.Stocks); err != nil {
		return err
	}
	if err := saveEvents(tx, id, snap.Events); err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", lastGameKey, id); err != nil {
		return fmt.Errorf("save last game: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit game: %w", err)
	}
	slog.Debug("game saved", "game", snap.ID, "day", snap.Day, "stores", len(snap.Stores))
	return nil
}

func saveStores(tx *sqlx.Tx, gameID string, stores []*store.Store) error {
	stmt, err := tx.Preparex(`INSERT INTO stores (game_id, position, id, name, employees, base_customers, rent)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare store insert: %w", err)
	}
	defer stmt.Close()

	inv, err := tx.Preparex(`INSERT INTO inventory (game_id, store_id, position, product_id, quantity, retail_price)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare inventory insert: %w", err)
	}
	defer inv.Close()

	for i, s := range stores {
		_, err := stmt.Exec(gameID, i, int64(s.ID), s.Name, s.Employees, s.BaseCustomers, s.Rent.String())
		if err != nil {
			return fmt.Errorf("insert store %d: %w", s.ID, err)
		}
		for j, e := range s.Inventory {
			_, err := inv.Exec(gameID, int64(s.ID), j, int64(e.Product.ID), e.Quantity, e.RetailPrice.String())
			if err != nil {
				return fmt.Errorf("insert inventory %d/%d: %w", s.ID, e.Product.ID, err)
			}
		}
	}
	return nil
}

func saveLoans(tx *sqlx.Tx, gameID string, loans []*finance.Loan) error {
	stmt, err := tx.Preparex(`INSERT INTO loans (game_id, id, type, principal, balance, rate, term_days, days_remaining)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare loan insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range loans {
		_, err := stmt.Exec(gameID, int64(l.ID), int64(l.Type), l.Principal.String(), l.Balance.String(),
			l.Rate, l.TermDays, l.DaysRemaining)
		if err != nil {
			return fmt.Errorf("insert loan %d: %w", l.ID, err)
		}
	}
	return nil
}

func saveHoldings(tx *sqlx.Tx, gameID string, holdings []*finance.Holding) error {
	stmt, err := tx.Preparex(`INSERT INTO holdings (game_id, position, symbol, shares, avg_price, dividends)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare holding insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range holdings {
		_, err := stmt.Exec(gameID, i, h.Symbol, h.Shares, h.AvgPrice.String(), h.Dividends.String())
		if err != nil {
			return fmt.Errorf("insert holding %s: %w", h.Symbol, err)
		}
	}
	return nil
}

func saveStocks(tx *sqlx.Tx, gameID string, stocks []*finance.Stock) error {
	stmt, err := tx.Preparex(`INSERT INTO stock_prices (game_id, position, id, symbol, name, type, price, base_price, pending, history_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stock insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range stocks {
		history, err := json.Marshal(s.History)
		if err != nil {
			return fmt.Errorf("encode stock %s history: %w", s.Symbol, err)
		}
		_, err = stmt.Exec(gameID, i, int64(s.ID), s.Symbol, s.Name, int64(s.Type),
			s.Price.String(), s.BasePrice.String(), s.Pending.String(), string(history))
		if err != nil {
			return fmt.Errorf("insert stock %s: %w", s.Symbol, err)
		}
	}
	return nil
}

// LoadGame reads a saved game back into a snapshot. Inventory is resolved
// against cat, so every stocked product must still exist in it.
func (db *DB) LoadGame(id uuid.UUID, cat *catalog.Catalog) (*engine.Snapshot, error) {
	var g gameRow
	err := db.conn.Get(&g, "SELECT * FROM games WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}

	state, err := economy.ParseEconomicState(g.Climate)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}

	snap := &engine.Snapshot{
		ID:          g.ID,
		Name:        g.Name,
		Seed:        g.Seed,
		CreatedAt:   time.Unix(0, g.CreatedAt).UTC(),
		Day:         uint32(g.Day),
		GameOver:    g.GameOver,
		ActiveStore: int(g.ActiveStore),
		Cash:        g.Cash,
		NextStoreID: store.ID(g.NextStoreID),
		NextLoanID:  uint64(g.NextLoanID),
		Climate:     state,
		Trend:       g.Trend,
	}

	key := id.String()
	if snap.Stores, err = db.loadStores(key, cat); err != nil {
		return nil, err
	}
	if snap.Loans, err = db.loadLoans(key); err != nil {
		return nil, err
	}
	if snap.Holdings, err = db.loadHoldings(key); err != nil {
		return nil, err
	}
	if snap.Stocks, err = db.loadStocks(key); err != nil {
		return nil, err
	}
	if err := db.conn.Select(&snap.Events,
		"SELECT day, description, category FROM events WHERE game_id = ? ORDER BY id", key); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	slog.Debug("game loaded", "game", id, "day", snap.Day, "stores", len(snap.Stores))
	return snap, nil
}

func (db *DB) loadStores(gameID string, cat *catalog.Catalog) ([]*store.Store, error) {
	var rows []storeRow
	err := db.conn.Select(&rows, `SELECT id, name, employees, base_customers, rent
		FROM stores WHERE game_id = ? ORDER BY position`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load stores: %w", err)
	}

	stores := make([]*store.Store, 0, len(rows))
	byID := make(map[int64]*store.Store, len(rows))
	for _, r := range rows {
		s := &store.Store{
			ID:            store.ID(r.ID),
			Name:          r.Name,
			Employees:     int(r.Employees),
			BaseCustomers: int(r.BaseCustomers),
			Rent:          r.Rent,
		}
		stores = append(stores, s)
		byID[r.ID] = s
	}

	var inv []inventoryRow
	err = db.conn.Select(&inv, `SELECT store_id, product_id, quantity, retail_price
		FROM inventory WHERE game_id = ? ORDER BY store_id, position`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	for _, r := range inv {
		s, ok := byID[r.StoreID]
		if !ok {
			return nil, fmt.Errorf("load inventory: unknown store %d", r.StoreID)
		}
		p, ok := cat.Product(catalog.ProductID(r.ProductID))
		if !ok {
			return nil, fmt.Errorf("load inventory: product %d is not in the catalog", r.ProductID)
		}
		s.Inventory = append(s.Inventory, &store.Entry{
			Product:     p,
			Quantity:    int(r.Quantity),
			RetailPrice: r.RetailPrice,
		})
	}
	return stores, nil
}

func (db *DB) loadLoans(gameID string) ([]*finance.Loan, error) {
	var rows []loanRow
	err := db.conn.Select(&rows, `SELECT id, type, principal, balance, rate, term_days, days_remaining
		FROM loans WHERE game_id = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load loans: %w", err)
	}
	loans := make([]*finance.Loan, 0, len(rows))
	for _, r := range rows {
		loans = append(loans, &finance.Loan{
			ID:            uint64(r.ID),
			Type:          finance.LoanType(r.Type),
			Principal:     r.Principal,
			Balance:       r.Balance,
			Rate:          r.Rate,
			TermDays:      int(r.TermDays),
			DaysRemaining: int(r.DaysRemaining),
		})
	}
	return loans, nil
}

func (db *DB) loadHoldings(gameID string) ([]*finance.Holding, error) {
	var rows []holdingRow
	err := db.conn.Select(&rows, `SELECT symbol, shares, avg_price, dividends
		FROM holdings WHERE game_id = ? ORDER BY position`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	holdings := make([]*finance.Holding, 0, len(rows))
	for _, r := range rows {
		holdings = append(holdings, &finance.Holding{
			Symbol:    r.Symbol,
			Shares:    int(r.Shares),
			AvgPrice:  r.AvgPrice,
			Dividends: r.Dividends,
		})
	}
	return holdings, nil
}

func (db *DB) loadStocks(gameID string) ([]*finance.Stock, error) {
	var rows []stockRow
	err := db.conn.Select(&rows, `SELECT id, symbol, name, type, price, base_price, pending, history_json
		FROM stock_prices WHERE game_id = ? ORDER BY position`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load stocks: %w", err)
	}
	stocks := make([]*finance.Stock, 0, len(rows))
	for _, r := range rows {
		s := &finance.Stock{
			ID:        uint32(r.ID),
			Symbol:    r.Symbol,
			Name:      r.Name,
			Type:      finance.StockType(r.Type),
			Price:     r.Price,
			BasePrice: r.BasePrice,
			Pending:   r.Pending,
		}
		if err := json.Unmarshal([]byte(r.HistoryJSON), &s.History); err != nil {
			return nil, fmt.Errorf("load stock %s history: %w", r.Symbol, err)
		}
		stocks = append(stocks, s)
	}
	return stocks, nil
}

// LatestGameID returns the most recently saved game.
func (db *DB) LatestGameID() (uuid.UUID, error) {
	last, err := db.GetMeta(lastGameKey)
	if err != nil {
		return uuid.Nil, fmt.Errorf("latest game: %w", err)
	}
	if last == "" {
		err = db.conn.Get(&last, "SELECT id FROM games ORDER BY updated_at DESC LIMIT 1")
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		if err != nil {
			return uuid.Nil, fmt.Errorf("latest game: %w", err)
		}
	}
	return uuid.Parse(last)
}

// ListGames returns every saved game, most recently played first.
func (db *DB) ListGames() ([]GameSummary, error) {
	var rows []gameRow
	if err := db.conn.Select(&rows, "SELECT * FROM games ORDER BY updated_at DESC"); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	games := make([]GameSummary, 0, len(rows))
	for _, r := range rows {
		games = append(games, GameSummary{
			ID:        r.ID,
			Name:      r.Name,
			Day:       uint32(r.Day),
			Cash:      r.Cash,
			GameOver:  r.GameOver,
			CreatedAt: time.Unix(0, r.CreatedAt),
			UpdatedAt: time.Unix(0, r.UpdatedAt),
		})
	}
	return games, nil
}

// DeleteGame removes a game and everything recorded for it.
func (db *DB) DeleteGame(id uuid.UUID) error {
	res, err := db.conn.Exec("DELETE FROM games WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete game %s: %w", id, ErrNotFound)
	}
	if last, _ := db.GetMeta(lastGameKey); last == id.String() {
		_, err = db.conn.Exec("DELETE FROM meta WHERE key = ?", lastGameKey)
	}
	return err
}
