package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stocksim/internal/model"
	"stocksim/internal/types"

	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "trading.db"), decimal.RequireFromString("10000"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadAccountDefaults(t *testing.T) {
	s := newTestStore(t)

	acct, err := s.LoadAccount(context.Background(), "Trader")
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	if acct.Username != "Trader" {
		t.Errorf("username = %q", acct.Username)
	}
	if !acct.Balance.Equal(decimal.RequireFromString("10000")) {
		t.Errorf("balance = %s, want 10000", acct.Balance)
	}
	if len(acct.Positions) != 0 || len(acct.Orders) != 0 || len(acct.Transactions) != 0 {
		t.Errorf("fresh account carries state: %+v", acct)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alert := 180.0
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	saved := model.Account{
		Username: "Trader",
		Balance:  decimal.RequireFromString("8245.55"),
		Positions: []model.Position{
			{Symbol: "AAPL", Quantity: 10, AvgCost: decimal.RequireFromString("175.5")},
		},
		Orders: []model.Order{
			{
				ID:          "ord-1",
				Symbol:      "MSFT",
				Action:      types.OrderActionBuy,
				Type:        types.OrderTypeLimit,
				Status:      types.OrderStatusPending,
				Quantity:    2,
				TargetPrice: 350,
				CreatedAt:   created,
			},
		},
		Watchlist: []model.WatchItem{
			{Symbol: "AAPL", Alert: &alert},
			{Symbol: "TSLA"},
		},
		Transactions: []model.Transaction{
			{Symbol: "AAPL", Type: types.TransactionTypeBuy, Quantity: 10, Price: decimal.RequireFromString("175.5"), CreatedAt: created},
		},
	}

	if err := s.SaveAccount(ctx, saved); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	loaded, err := s.LoadAccount(ctx, "Trader")
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}

	if !loaded.Balance.Equal(saved.Balance) {
		t.Errorf("balance = %s, want %s", loaded.Balance, saved.Balance)
	}
	if len(loaded.Positions) != 1 || !loaded.Positions[0].AvgCost.Equal(saved.Positions[0].AvgCost) {
		t.Errorf("positions = %+v", loaded.Positions)
	}
	if len(loaded.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(loaded.Orders))
	}
	o := loaded.Orders[0]
	if o.ID != "ord-1" || o.Status != types.OrderStatusPending || o.TargetPrice != 350 {
		t.Errorf("order = %+v", o)
	}
	if !o.CreatedAt.Equal(created) {
		t.Errorf("order created_at = %v, want %v", o.CreatedAt, created)
	}
	if len(loaded.Watchlist) != 2 {
		t.Fatalf("watchlist = %+v", loaded.Watchlist)
	}
	if loaded.Watchlist[0].Alert == nil || *loaded.Watchlist[0].Alert != 180 {
		t.Errorf("AAPL alert = %v", loaded.Watchlist[0].Alert)
	}
	if loaded.Watchlist[1].Alert != nil {
		t.Errorf("TSLA alert = %v, want nil", *loaded.Watchlist[1].Alert)
	}
	if len(loaded.Transactions) != 1 || !loaded.Transactions[0].Price.Equal(saved.Transactions[0].Price) {
		t.Errorf("transactions = %+v", loaded.Transactions)
	}
}

// SaveAccount replaces the whole stored snapshot, so state removed in memory
// disappears from the store too.
func TestSaveAccountReplacesPreviousState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := model.Account{
		Username: "Trader",
		Balance:  decimal.RequireFromString("9000"),
		Positions: []model.Position{
			{Symbol: "AAPL", Quantity: 10, AvgCost: decimal.RequireFromString("100")},
			{Symbol: "MSFT", Quantity: 3, AvgCost: decimal.RequireFromString("350")},
		},
	}
	if err := s.SaveAccount(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := first
	second.Balance = decimal.RequireFromString("9500")
	second.Positions = first.Positions[:1]
	if err := s.SaveAccount(ctx, second); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadAccount(ctx, "Trader")
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Balance.Equal(second.Balance) {
		t.Errorf("balance = %s, want %s", loaded.Balance, second.Balance)
	}
	if len(loaded.Positions) != 1 || loaded.Positions[0].Symbol != "AAPL" {
		t.Errorf("positions = %+v, want only AAPL", loaded.Positions)
	}
}

func TestPriceHistoryRecentPrices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := s.AppendPrice(ctx, "AAPL", 100+float64(i), base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("AppendPrice: %v", err)
		}
	}
	if err := s.AppendPrice(ctx, "MSFT", 380, base); err != nil {
		t.Fatal(err)
	}

	points, err := s.RecentPrices(ctx, "AAPL", 3)
	if err != nil {
		t.Fatalf("RecentPrices: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	// Newest three, returned oldest first.
	for i, want := range []float64{102, 103, 104} {
		if points[i].Price != want {
			t.Errorf("points[%d].Price = %v, want %v", i, points[i].Price, want)
		}
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Timestamp.After(points[i-1].Timestamp) {
			t.Errorf("points out of order at %d", i)
		}
	}

	other, err := s.RecentPrices(ctx, "GOOGL", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("points for unstored symbol = %d, want 0", len(other))
	}
}

func TestReconcilePrefersLongerTransactionHistory(t *testing.T) {
	tx := func(n int) []model.Transaction {
		out := make([]model.Transaction, n)
		for i := range out {
			out[i] = model.Transaction{Symbol: "AAPL", Type: types.TransactionTypeBuy, Quantity: 1, Price: decimal.RequireFromString("100")}
		}
		return out
	}

	primary := model.Account{Username: "Trader", Balance: decimal.RequireFromString("9000"), Transactions: tx(2)}
	snapshot := model.Account{Username: "Trader", Balance: decimal.RequireFromString("8000"), Transactions: tx(3)}

	if got := Reconcile(primary, snapshot); !got.Balance.Equal(snapshot.Balance) {
		t.Errorf("longer snapshot history should win, got balance %s", got.Balance)
	}

	// On equal length the relational copy wins.
	snapshot.Transactions = tx(2)
	if got := Reconcile(primary, snapshot); !got.Balance.Equal(primary.Balance) {
		t.Errorf("tie should keep primary, got balance %s", got.Balance)
	}
}
