package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stocksim/internal/model"
	"stocksim/internal/types"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var _ AccountStore = (*SQLiteStore)(nil)
var _ PriceHistoryStore = (*SQLiteStore)(nil)

// SQLiteStore is the default persistence backend. Money columns are stored
// as decimal strings to keep the ledger exact across round-trips.
type SQLiteStore struct {
	db              *sql.DB
	startingBalance decimal.Decimal
}

func NewSQLiteStore(path string, startingBalance decimal.Decimal) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db, startingBalance: startingBalance}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	stmts := []string{
		`create table if not exists users (
			username text primary key,
			balance text not null
		)`,
		`create table if not exists positions (
			username text not null,
			symbol text not null,
			quantity integer not null,
			avg_cost text not null,
			primary key (username, symbol)
		)`,
		`create table if not exists orders (
			id text primary key,
			username text not null,
			symbol text not null,
			action text not null,
			type text not null,
			status text not null,
			quantity integer not null,
			target_price real not null,
			created_at timestamp not null
		)`,
		`create table if not exists watchlist (
			username text not null,
			symbol text not null,
			alert_price real,
			primary key (username, symbol)
		)`,
		`create table if not exists transactions (
			id integer primary key autoincrement,
			username text not null,
			symbol text not null,
			type text not null,
			quantity integer not null,
			price text not null,
			created_at timestamp not null
		)`,
		`create table if not exists price_history (
			symbol text not null,
			price real not null,
			ts timestamp not null
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) LoadAccount(ctx context.Context, username string) (model.Account, error) {
	acct := model.Account{Username: username, Balance: s.startingBalance}

	var balanceStr string
	err := s.db.QueryRowContext(ctx, "select balance from users where username = ?", username).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return acct, nil
	}
	if err != nil {
		return acct, err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return acct, err
	}
	acct.Balance = balance

	if acct.Positions, err = s.loadPositions(ctx, username); err != nil {
		return acct, err
	}
	if acct.Orders, err = s.loadOrders(ctx, username); err != nil {
		return acct, err
	}
	if acct.Watchlist, err = s.loadWatchlist(ctx, username); err != nil {
		return acct, err
	}
	if acct.Transactions, err = s.loadTransactions(ctx, username); err != nil {
		return acct, err
	}
	return acct, nil
}

func (s *SQLiteStore) loadPositions(ctx context.Context, username string) ([]model.Position, error) {
	rows, err := s.db.QueryContext(ctx, "select symbol, quantity, avg_cost from positions where username = ? order by symbol", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Position
	for rows.Next() {
		var p model.Position
		var avgStr string
		if err := rows.Scan(&p.Symbol, &p.Quantity, &avgStr); err != nil {
			return nil, err
		}
		if p.AvgCost, err = decimal.NewFromString(avgStr); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadOrders(ctx context.Context, username string) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx, "select id, symbol, action, type, status, quantity, target_price, created_at from orders where username = ? order by created_at, id", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Order
	for rows.Next() {
		var o model.Order
		var action, typ, status string
		if err := rows.Scan(&o.ID, &o.Symbol, &action, &typ, &status, &o.Quantity, &o.TargetPrice, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Action = types.OrderAction(action)
		o.Type = types.OrderType(typ)
		o.Status = types.OrderStatus(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadWatchlist(ctx context.Context, username string) ([]model.WatchItem, error) {
	rows, err := s.db.QueryContext(ctx, "select symbol, alert_price from watchlist where username = ? order by symbol", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.WatchItem
	for rows.Next() {
		var item model.WatchItem
		var alert sql.NullFloat64
		if err := rows.Scan(&item.Symbol, &alert); err != nil {
			return nil, err
		}
		if alert.Valid {
			v := alert.Float64
			item.Alert = &v
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTransactions(ctx context.Context, username string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, "select symbol, type, quantity, price, created_at from transactions where username = ? order by id", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var typ, priceStr string
		if err := rows.Scan(&t.Symbol, &typ, &t.Quantity, &priceStr, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Type = types.TransactionType(typ)
		if t.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveAccount replaces the stored snapshot in one transaction.
func (s *SQLiteStore) SaveAccount(ctx context.Context, acct model.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "insert into users (username, balance) values (?, ?) on conflict (username) do update set balance = excluded.balance", acct.Username, acct.Balance.String()); err != nil {
		return err
	}
	for _, table := range []string{"positions", "orders", "watchlist", "transactions"} {
		if _, err := tx.ExecContext(ctx, "delete from "+table+" where username = ?", acct.Username); err != nil {
			return err
		}
	}
	for _, p := range acct.Positions {
		if _, err := tx.ExecContext(ctx, "insert into positions (username, symbol, quantity, avg_cost) values (?, ?, ?, ?)", acct.Username, p.Symbol, p.Quantity, p.AvgCost.String()); err != nil {
			return err
		}
	}
	for _, o := range acct.Orders {
		if _, err := tx.ExecContext(ctx, "insert into orders (id, username, symbol, action, type, status, quantity, target_price, created_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?)", o.ID, acct.Username, o.Symbol, string(o.Action), string(o.Type), string(o.Status), o.Quantity, o.TargetPrice, o.CreatedAt); err != nil {
			return err
		}
	}
	for _, item := range acct.Watchlist {
		var alert any
		if item.Alert != nil {
			alert = *item.Alert
		}
		if _, err := tx.ExecContext(ctx, "insert into watchlist (username, symbol, alert_price) values (?, ?, ?)", acct.Username, item.Symbol, alert); err != nil {
			return err
		}
	}
	for _, t := range acct.Transactions {
		if _, err := tx.ExecContext(ctx, "insert into transactions (username, symbol, type, quantity, price, created_at) values (?, ?, ?, ?, ?, ?)", acct.Username, t.Symbol, string(t.Type), t.Quantity, t.Price.String(), t.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AppendPrice(ctx context.Context, symbol string, price float64, at time.Time) error {
	_, err := s.db.ExecContext(ctx, "insert into price_history (symbol, price, ts) values (?, ?, ?)", symbol, price, at)
	return err
}

// RecentPrices returns up to limit stored points for symbol, oldest first.
func (s *SQLiteStore) RecentPrices(ctx context.Context, symbol string, limit int) ([]model.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, "select price, ts from (select price, ts from price_history where symbol = ? order by ts desc limit ?) order by ts asc", symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.Price, &p.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
