package store

import (
	"context"
	"errors"
	"time"

	"stocksim/internal/model"
	"stocksim/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var _ AccountStore = (*PostgresStore)(nil)
var _ PriceHistoryStore = (*PostgresStore)(nil)

// PostgresStore is the pgx-backed account store, selected when DB_DSN is
// configured. Same contract as SQLiteStore.
type PostgresStore struct {
	pool            *pgxpool.Pool
	startingBalance decimal.Decimal
}

func NewPostgresStore(ctx context.Context, dsn string, startingBalance decimal.Decimal) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s := &PostgresStore{pool: pool, startingBalance: startingBalance}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`create table if not exists users (
			username text primary key,
			balance numeric not null
		)`,
		`create table if not exists positions (
			username text not null,
			symbol text not null,
			quantity bigint not null,
			avg_cost numeric not null,
			primary key (username, symbol)
		)`,
		`create table if not exists orders (
			id text primary key,
			username text not null,
			symbol text not null,
			action text not null,
			type text not null,
			status text not null,
			quantity bigint not null,
			target_price double precision not null,
			created_at timestamptz not null
		)`,
		`create table if not exists watchlist (
			username text not null,
			symbol text not null,
			alert_price double precision,
			primary key (username, symbol)
		)`,
		`create table if not exists transactions (
			id bigserial primary key,
			username text not null,
			symbol text not null,
			type text not null,
			quantity bigint not null,
			price numeric not null,
			created_at timestamptz not null
		)`,
		`create table if not exists price_history (
			symbol text not null,
			price double precision not null,
			ts timestamptz not null
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) LoadAccount(ctx context.Context, username string) (model.Account, error) {
	acct := model.Account{Username: username, Balance: s.startingBalance}

	err := s.pool.QueryRow(ctx, "select balance from users where username = $1", username).Scan(&acct.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		acct.Balance = s.startingBalance
		return acct, nil
	}
	if err != nil {
		return acct, err
	}

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

func (s *PostgresStore) loadPositions(ctx context.Context, username string) ([]model.Position, error) {
	rows, err := s.pool.Query(ctx, "select symbol, quantity, avg_cost from positions where username = $1 order by symbol", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Position
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.Symbol, &p.Quantity, &p.AvgCost); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadOrders(ctx context.Context, username string) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, "select id, symbol, action, type, status, quantity, target_price, created_at from orders where username = $1 order by created_at, id", username)
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

func (s *PostgresStore) loadWatchlist(ctx context.Context, username string) ([]model.WatchItem, error) {
	rows, err := s.pool.Query(ctx, "select symbol, alert_price from watchlist where username = $1 order by symbol", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.WatchItem
	for rows.Next() {
		var item model.WatchItem
		if err := rows.Scan(&item.Symbol, &item.Alert); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadTransactions(ctx context.Context, username string) ([]model.Transaction, error) {
	rows, err := s.pool.Query(ctx, "select symbol, type, quantity, price, created_at from transactions where username = $1 order by id", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var typ string
		if err := rows.Scan(&t.Symbol, &typ, &t.Quantity, &t.Price, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Type = types.TransactionType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveAccount(ctx context.Context, acct model.Account) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "insert into users (username, balance) values ($1, $2) on conflict (username) do update set balance = excluded.balance", acct.Username, acct.Balance); err != nil {
		return err
	}
	for _, table := range []string{"positions", "orders", "watchlist", "transactions"} {
		if _, err := tx.Exec(ctx, "delete from "+table+" where username = $1", acct.Username); err != nil {
			return err
		}
	}
	for _, p := range acct.Positions {
		if _, err := tx.Exec(ctx, "insert into positions (username, symbol, quantity, avg_cost) values ($1, $2, $3, $4)", acct.Username, p.Symbol, p.Quantity, p.AvgCost); err != nil {
			return err
		}
	}
	for _, o := range acct.Orders {
		if _, err := tx.Exec(ctx, "insert into orders (id, username, symbol, action, type, status, quantity, target_price, created_at) values ($1, $2, $3, $4, $5, $6, $7, $8, $9)", o.ID, acct.Username, o.Symbol, string(o.Action), string(o.Type), string(o.Status), o.Quantity, o.TargetPrice, o.CreatedAt); err != nil {
			return err
		}
	}
	for _, item := range acct.Watchlist {
		if _, err := tx.Exec(ctx, "insert into watchlist (username, symbol, alert_price) values ($1, $2, $3)", acct.Username, item.Symbol, item.Alert); err != nil {
			return err
		}
	}
	for _, t := range acct.Transactions {
		if _, err := tx.Exec(ctx, "insert into transactions (username, symbol, type, quantity, price, created_at) values ($1, $2, $3, $4, $5, $6)", acct.Username, t.Symbol, string(t.Type), t.Quantity, t.Price, t.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) AppendPrice(ctx context.Context, symbol string, price float64, at time.Time) error {
	_, err := s.pool.Exec(ctx, "insert into price_history (symbol, price, ts) values ($1, $2, $3)", symbol, price, at)
	return err
}
