package model

import (
	"time"

	"stocksim/internal/types"
)

type Order struct {
	ID          string            `json:"id"`
	Symbol      string            `json:"symbol"`
	Action      types.OrderAction `json:"action"`
	Type        types.OrderType   `json:"type"`
	Status      types.OrderStatus `json:"status"`
	Quantity    int64             `json:"quantity"`
	TargetPrice float64           `json:"target_price"`
	CreatedAt   time.Time         `json:"created_at"`
}
