package model

import (
	"time"

	"stocksim/internal/types"

	"github.com/shopspring/decimal"
)

type Position struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
}

type Transaction struct {
	Symbol    string                `json:"symbol"`
	Type      types.TransactionType `json:"type"`
	Quantity  int64                 `json:"quantity"`
	Price     decimal.Decimal       `json:"price"`
	CreatedAt time.Time             `json:"created_at"`
}

func (t Transaction) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// WatchItem is one watch-set entry. Alert is nil when no target price is armed.
type WatchItem struct {
	Symbol string   `json:"symbol"`
	Alert  *float64 `json:"alert,omitempty"`
}

// Account is the persistable snapshot of a trading account. Live state is held
// by the trading service; stores load and save this flat form.
type Account struct {
	Username     string          `json:"username"`
	Balance      decimal.Decimal `json:"balance"`
	Positions    []Position      `json:"positions"`
	Orders       []Order         `json:"orders"`
	Watchlist    []WatchItem     `json:"watchlist"`
	Transactions []Transaction   `json:"transactions"`
}
