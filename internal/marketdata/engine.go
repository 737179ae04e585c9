package marketdata

import (
	"math/rand"
	"sort"
	"time"

	"stocksim/internal/model"
)

const (
	// Price floor for every symbol, matching the simulated exchange's
	// minimum quote.
	priceFloor = 1.0

	// Per-tick perturbation is uniform in [-tickRange/2, +tickRange/2).
	tickRange = 10.0

	// Warm-up history is seeded with warmupPoints points spaced
	// warmupInterval apart, perturbed within [-warmupRange/2, +warmupRange/2).
	warmupPoints   = 31
	warmupRange    = 20.0
	warmupInterval = 10 * time.Second
)

// Engine owns current prices and bounded price history for a fixed symbol
// set, advancing them pseudo-randomly on each tick. The generator is injected
// so a fixed seed reproduces a run.
type Engine struct {
	symbols   []string
	stocks    map[string]*model.Stock
	histories map[string]*History
	rng       *rand.Rand
}

// NewEngine seeds each stock with its listed price and backfills a warm-up
// history around it. Symbols are walked in sorted order so generator
// consumption is deterministic.
func NewEngine(stocks []model.Stock, rng *rand.Rand, now time.Time) *Engine {
	e := &Engine{
		stocks:    make(map[string]*model.Stock, len(stocks)),
		histories: make(map[string]*History, len(stocks)),
		rng:       rng,
	}
	for _, s := range stocks {
		s := s
		e.symbols = append(e.symbols, s.Symbol)
		e.stocks[s.Symbol] = &s
		e.histories[s.Symbol] = NewHistory()
	}
	sort.Strings(e.symbols)
	for _, symbol := range e.symbols {
		stock := e.stocks[symbol]
		history := e.histories[symbol]
		base := stock.Price
		for i := warmupPoints - 1; i >= 0; i-- {
			variation := (e.rng.Float64() - 0.5) * warmupRange
			price := base + variation
			if price < priceFloor {
				price = priceFloor
			}
			history.Append(model.PricePoint{
				Price:     price,
				Timestamp: now.Add(-time.Duration(i) * warmupInterval),
			})
		}
		// The listed price stays current after warm-up.
		stock.Price = base
	}
	return e
}

// Tick perturbs every symbol's price, floors it, appends the new point to the
// symbol's history and returns the fresh quotes in symbol order.
func (e *Engine) Tick(now time.Time) []model.Stock {
	out := make([]model.Stock, 0, len(e.symbols))
	for _, symbol := range e.symbols {
		stock := e.stocks[symbol]
		change := (e.rng.Float64() - 0.5) * tickRange
		price := stock.Price + change
		if price < priceFloor {
			price = priceFloor
		}
		stock.Price = price
		e.histories[symbol].Append(model.PricePoint{Price: price, Timestamp: now})
		out = append(out, *stock)
	}
	return out
}

// Price returns the current price for symbol, reporting false for symbols
// the market does not list.
func (e *Engine) Price(symbol string) (float64, bool) {
	stock, ok := e.stocks[symbol]
	if !ok {
		return 0, false
	}
	return stock.Price, true
}

// Prices returns a snapshot of all current prices keyed by symbol.
func (e *Engine) Prices() map[string]float64 {
	out := make(map[string]float64, len(e.stocks))
	for symbol, stock := range e.stocks {
		out[symbol] = stock.Price
	}
	return out
}

// Stocks returns all listed stocks with current prices in symbol order.
func (e *Engine) Stocks() []model.Stock {
	out := make([]model.Stock, 0, len(e.symbols))
	for _, symbol := range e.symbols {
		out = append(out, *e.stocks[symbol])
	}
	return out
}

// History returns a copy of the retained price points for symbol, oldest
// first. Unknown symbols yield nil.
func (e *Engine) History(symbol string) []model.PricePoint {
	history, ok := e.histories[symbol]
	if !ok {
		return nil
	}
	return history.Points()
}
