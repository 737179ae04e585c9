package portfolio

import (
	"sort"

	"stocksim/internal/model"

	"github.com/shopspring/decimal"
)

// Portfolio tracks held quantity and weighted-average cost per symbol.
// A symbol with zero quantity has no entry.
type Portfolio struct {
	positions map[string]model.Position
}

func New() *Portfolio {
	return &Portfolio{positions: make(map[string]model.Position)}
}

func NewFromPositions(positions []model.Position) *Portfolio {
	p := New()
	for _, pos := range positions {
		if pos.Quantity > 0 {
			p.positions[pos.Symbol] = pos
		}
	}
	return p
}

// Add records a purchase of qty shares at price and recomputes the
// quantity-weighted average cost. qty must be positive.
func (p *Portfolio) Add(symbol string, qty int64, price decimal.Decimal) {
	if qty <= 0 {
		return
	}
	cur := p.positions[symbol]
	oldQty := decimal.NewFromInt(cur.Quantity)
	addQty := decimal.NewFromInt(qty)
	newAvg := cur.AvgCost.Mul(oldQty).Add(price.Mul(addQty)).Div(oldQty.Add(addQty))
	p.positions[symbol] = model.Position{
		Symbol:   symbol,
		Quantity: cur.Quantity + qty,
		AvgCost:  newAvg,
	}
}

// Remove takes qty shares out of the position. It reports false and mutates
// nothing when fewer than qty shares are held. Selling the full position
// deletes the entry; a partial sale leaves the average cost untouched.
func (p *Portfolio) Remove(symbol string, qty int64) bool {
	cur, ok := p.positions[symbol]
	if !ok || cur.Quantity < qty {
		return false
	}
	if cur.Quantity == qty {
		delete(p.positions, symbol)
		return true
	}
	cur.Quantity -= qty
	p.positions[symbol] = cur
	return true
}

func (p *Portfolio) Quantity(symbol string) int64 {
	return p.positions[symbol].Quantity
}

func (p *Portfolio) AvgCost(symbol string) decimal.Decimal {
	return p.positions[symbol].AvgCost
}

// Positions returns a copy of all held positions ordered by symbol.
func (p *Portfolio) Positions() []model.Position {
	out := make([]model.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// MarketValue sums qty times current price over held symbols. Symbols absent
// from prices are skipped.
func (p *Portfolio) MarketValue(prices map[string]float64) decimal.Decimal {
	total := decimal.Zero
	for symbol, pos := range p.positions {
		price, ok := prices[symbol]
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(pos.Quantity)))
	}
	return total
}

// UnrealizedPnL sums (current price - average cost) times qty over held
// symbols present in prices.
func (p *Portfolio) UnrealizedPnL(prices map[string]float64) decimal.Decimal {
	total := decimal.Zero
	for symbol, pos := range p.positions {
		price, ok := prices[symbol]
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(pos.Quantity)
		total = total.Add(decimal.NewFromFloat(price).Sub(pos.AvgCost).Mul(qty))
	}
	return total
}
