package orders

import (
	"sort"
	"time"

	"stocksim/internal/model"
	"stocksim/internal/types"

	"github.com/google/uuid"
)

// Book holds an account's conditional orders keyed by id.
type Book struct {
	orders map[string]*model.Order
}

func NewBook() *Book {
	return &Book{orders: make(map[string]*model.Order)}
}

func NewBookFromOrders(existing []model.Order) *Book {
	b := NewBook()
	for _, o := range existing {
		o := o
		b.orders[o.ID] = &o
	}
	return b
}

// Add stores a new pending order and returns it with a fresh id.
func (b *Book) Add(symbol string, action types.OrderAction, orderType types.OrderType, qty int64, targetPrice float64, now time.Time) model.Order {
	o := model.Order{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Action:      action,
		Type:        orderType,
		Status:      types.OrderStatusPending,
		Quantity:    qty,
		TargetPrice: targetPrice,
		CreatedAt:   now,
	}
	b.orders[o.ID] = &o
	return o
}

// Remove deletes an order by id regardless of status. It reports whether the
// order existed.
func (b *Book) Remove(id string) bool {
	if _, ok := b.orders[id]; !ok {
		return false
	}
	delete(b.orders, id)
	return true
}

// MarkExecuted moves a pending order to its terminal EXECUTED state.
func (b *Book) MarkExecuted(id string) {
	if o, ok := b.orders[id]; ok && o.Status == types.OrderStatusPending {
		o.Status = types.OrderStatusExecuted
	}
}

func (b *Book) Get(id string) (model.Order, bool) {
	o, ok := b.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// Pending returns copies of all PENDING orders, oldest first.
func (b *Book) Pending() []model.Order {
	return b.filter(func(o *model.Order) bool { return o.Status == types.OrderStatusPending })
}

// All returns copies of every order, oldest first.
func (b *Book) All() []model.Order {
	return b.filter(func(o *model.Order) bool { return true })
}

func (b *Book) filter(keep func(*model.Order) bool) []model.Order {
	out := make([]model.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
