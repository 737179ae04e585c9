package watchlist

import (
	"math"
	"sort"

	"stocksim/internal/model"
)

// alertTolerance is the half-width of the band around an alert target within
// which the alert fires.
const alertTolerance = 0.5

// Watchlist is a set of watched symbols, each optionally carrying a one-shot
// alert target price. Firing clears the target but keeps the membership.
type Watchlist struct {
	symbols map[string]struct{}
	alerts  map[string]float64
}

func New() *Watchlist {
	return &Watchlist{
		symbols: make(map[string]struct{}),
		alerts:  make(map[string]float64),
	}
}

func NewFromItems(items []model.WatchItem) *Watchlist {
	w := New()
	for _, item := range items {
		w.symbols[item.Symbol] = struct{}{}
		if item.Alert != nil {
			w.alerts[item.Symbol] = *item.Alert
		}
	}
	return w
}

func (w *Watchlist) Add(symbol string) {
	w.symbols[symbol] = struct{}{}
}

// Remove drops the symbol from the watch set together with any armed alert.
func (w *Watchlist) Remove(symbol string) {
	delete(w.symbols, symbol)
	delete(w.alerts, symbol)
}

func (w *Watchlist) Contains(symbol string) bool {
	_, ok := w.symbols[symbol]
	return ok
}

// SetAlert arms (or re-arms) an alert target. The symbol joins the watch set
// if it was not already a member.
func (w *Watchlist) SetAlert(symbol string, target float64) {
	w.symbols[symbol] = struct{}{}
	w.alerts[symbol] = target
}

func (w *Watchlist) ClearAlert(symbol string) {
	delete(w.alerts, symbol)
}

// Fired is one triggered alert.
type Fired struct {
	Symbol string
	Target float64
	Price  float64
}

// Evaluate fires every armed alert whose symbol trades within the tolerance
// band of its target and clears those targets. Symbols without a current
// price are skipped. Results are in symbol order.
func (w *Watchlist) Evaluate(prices map[string]float64) []Fired {
	var fired []Fired
	for symbol, target := range w.alerts {
		price, ok := prices[symbol]
		if !ok {
			continue
		}
		if math.Abs(price-target) < alertTolerance {
			fired = append(fired, Fired{Symbol: symbol, Target: target, Price: price})
		}
	}
	sort.Slice(fired, func(i, j int) bool { return fired[i].Symbol < fired[j].Symbol })
	for _, f := range fired {
		delete(w.alerts, f.Symbol)
	}
	return fired
}

// Items returns a snapshot of the watch set in symbol order.
func (w *Watchlist) Items() []model.WatchItem {
	out := make([]model.WatchItem, 0, len(w.symbols))
	for symbol := range w.symbols {
		item := model.WatchItem{Symbol: symbol}
		if target, ok := w.alerts[symbol]; ok {
			t := target
			item.Alert = &t
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
