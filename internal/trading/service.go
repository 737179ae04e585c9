package trading

import (
	"context"
	"log"
	"sync"
	"time"

	"stocksim/internal/marketdata"
	"stocksim/internal/model"
	"stocksim/internal/orders"
	"stocksim/internal/portfolio"
	"stocksim/internal/types"
	"stocksim/internal/watchlist"

	"github.com/shopspring/decimal"
)

// Market is the price source the service trades against.
type Market interface {
	Tick(now time.Time) []model.Stock
	Price(symbol string) (float64, bool)
	Prices() map[string]float64
	Stocks() []model.Stock
	History(symbol string) []model.PricePoint
}

// HistoryAppender receives one price point per symbol per tick. Append
// failures are logged and never interrupt the tick.
type HistoryAppender interface {
	AppendPrice(ctx context.Context, symbol string, price float64, at time.Time) error
}

// Publisher emits market and account events to subscribers.
type Publisher interface {
	Publish(evt marketdata.Event)
}

// Service orchestrates one account's trading against the simulated market.
// A single mutex serializes every operation, so the scheduler's ticks and
// concurrent API calls cannot interleave; queries return copies, never live
// internal state.
type Service struct {
	mu sync.Mutex

	username     string
	balance      decimal.Decimal
	portfolio    *portfolio.Portfolio
	book         *orders.Book
	watch        *watchlist.Watchlist
	transactions []model.Transaction

	market  Market
	history HistoryAppender
	pub     Publisher
}

// NewService builds the live engine from a loaded account snapshot.
// history and pub may be nil.
func NewService(acct model.Account, market Market, history HistoryAppender, pub Publisher) *Service {
	txs := make([]model.Transaction, len(acct.Transactions))
	copy(txs, acct.Transactions)
	return &Service{
		username:     acct.Username,
		balance:      acct.Balance,
		portfolio:    portfolio.NewFromPositions(acct.Positions),
		book:         orders.NewBookFromOrders(acct.Orders),
		watch:        watchlist.NewFromItems(acct.Watchlist),
		transactions: txs,
		market:       market,
		history:      history,
		pub:          pub,
	}
}

// TradeResult reports an executed trade.
type TradeResult struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	Price    float64         `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// Buy purchases qty shares at the current market price, debiting the balance
// atomically with the position and transaction updates.
func (s *Service) Buy(symbol string, qty int64) (TradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buyLocked(symbol, qty)
}

// Sell disposes qty shares at the current market price, crediting the
// balance atomically with the position and transaction updates.
func (s *Service) Sell(symbol string, qty int64) (TradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sellLocked(symbol, qty)
}

func (s *Service) buyLocked(symbol string, qty int64) (TradeResult, error) {
	price, ok := s.market.Price(symbol)
	if !ok {
		return TradeResult{}, ErrUnknownSymbol
	}
	if qty <= 0 {
		return TradeResult{}, ErrInvalidQuantity
	}
	execPrice := decimal.NewFromFloat(price)
	cost := execPrice.Mul(decimal.NewFromInt(qty))
	if s.balance.LessThan(cost) {
		return TradeResult{}, ErrInsufficientFunds
	}
	s.balance = s.balance.Sub(cost)
	s.portfolio.Add(symbol, qty, execPrice)
	s.transactions = append(s.transactions, model.Transaction{
		Symbol:    symbol,
		Type:      types.TransactionTypeBuy,
		Quantity:  qty,
		Price:     execPrice,
		CreatedAt: time.Now().UTC(),
	})
	return TradeResult{Symbol: symbol, Quantity: qty, Price: price, Total: cost}, nil
}

func (s *Service) sellLocked(symbol string, qty int64) (TradeResult, error) {
	price, ok := s.market.Price(symbol)
	if !ok {
		return TradeResult{}, ErrUnknownSymbol
	}
	if qty <= 0 {
		return TradeResult{}, ErrInvalidQuantity
	}
	if !s.portfolio.Remove(symbol, qty) {
		return TradeResult{}, ErrInsufficientShares
	}
	execPrice := decimal.NewFromFloat(price)
	revenue := execPrice.Mul(decimal.NewFromInt(qty))
	s.balance = s.balance.Add(revenue)
	s.transactions = append(s.transactions, model.Transaction{
		Symbol:    symbol,
		Type:      types.TransactionTypeSell,
		Quantity:  qty,
		Price:     execPrice,
		CreatedAt: time.Now().UTC(),
	})
	return TradeResult{Symbol: symbol, Quantity: qty, Price: price, Total: revenue}, nil
}

// Tick advances the market one step, then re-evaluates pending orders and
// armed alerts against the fresh prices. All side effects land before Tick
// returns.
func (s *Service) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	quotes := s.market.Tick(now)
	for _, q := range quotes {
		if s.history != nil {
			if err := s.history.AppendPrice(ctx, q.Symbol, q.Price, now); err != nil {
				log.Printf("price history append failed for %s: %v", q.Symbol, err)
			}
		}
		s.publish(marketdata.Event{Type: marketdata.EventQuote, Data: marketdata.QuoteEvent{
			Symbol:    q.Symbol,
			Price:     q.Price,
			Timestamp: now.UnixMilli(),
		}})
	}
	s.evaluateOrdersLocked()
	s.evaluateAlertsLocked()
}

// evaluateOrdersLocked runs every pending order through the trigger rules
// independently. A triggered order that cannot execute (insufficient funds or
// shares) stays pending and is retried on later ticks.
func (s *Service) evaluateOrdersLocked() {
	for _, o := range s.book.Pending() {
		price, ok := s.market.Price(o.Symbol)
		if !ok {
			continue
		}
		if !orders.ShouldTrigger(o, price) {
			continue
		}
		var err error
		if o.Action == types.OrderActionBuy {
			_, err = s.buyLocked(o.Symbol, o.Quantity)
		} else {
			_, err = s.sellLocked(o.Symbol, o.Quantity)
		}
		if err != nil {
			continue
		}
		s.book.MarkExecuted(o.ID)
		s.publish(marketdata.Event{Type: marketdata.EventOrderExecuted, Data: marketdata.OrderExecutedEvent{
			OrderID:  o.ID,
			Symbol:   o.Symbol,
			Action:   o.Action,
			Type:     o.Type,
			Quantity: o.Quantity,
			Price:    price,
		}})
	}
}

func (s *Service) evaluateAlertsLocked() {
	for _, f := range s.watch.Evaluate(s.market.Prices()) {
		s.publish(marketdata.Event{Type: marketdata.EventAlert, Data: marketdata.AlertEvent{
			Symbol: f.Symbol,
			Target: f.Target,
			Price:  f.Price,
		}})
	}
}

func (s *Service) publish(evt marketdata.Event) {
	if s.pub != nil {
		s.pub.Publish(evt)
	}
}

// PlaceOrder validates and records a new order. MARKET orders execute
// immediately through the same trade path and never enter the pending set;
// LIMIT and STOP_LOSS orders wait for their trigger.
func (s *Service) PlaceOrder(symbol string, action types.OrderAction, orderType types.OrderType, qty int64, targetPrice float64) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.market.Price(symbol); !ok {
		return model.Order{}, ErrUnknownSymbol
	}
	if qty <= 0 {
		return model.Order{}, ErrInvalidQuantity
	}
	if action != types.OrderActionBuy && action != types.OrderActionSell {
		return model.Order{}, ErrInvalidOrder
	}
	switch orderType {
	case types.OrderTypeMarket, types.OrderTypeLimit, types.OrderTypeStopLoss:
	default:
		return model.Order{}, ErrInvalidOrder
	}
	if orderType != types.OrderTypeMarket && targetPrice <= 0 {
		return model.Order{}, ErrInvalidOrder
	}

	o := s.book.Add(symbol, action, orderType, qty, targetPrice, time.Now().UTC())
	if orderType != types.OrderTypeMarket {
		return o, nil
	}

	var res TradeResult
	var err error
	if action == types.OrderActionBuy {
		res, err = s.buyLocked(symbol, qty)
	} else {
		res, err = s.sellLocked(symbol, qty)
	}
	if err != nil {
		s.book.Remove(o.ID)
		return model.Order{}, err
	}
	s.book.MarkExecuted(o.ID)
	o, _ = s.book.Get(o.ID)
	s.publish(marketdata.Event{Type: marketdata.EventOrderExecuted, Data: marketdata.OrderExecutedEvent{
		OrderID:  o.ID,
		Symbol:   o.Symbol,
		Action:   o.Action,
		Type:     o.Type,
		Quantity: o.Quantity,
		Price:    res.Price,
	}})
	return o, nil
}

// CancelOrder removes an order from the book by id regardless of status.
func (s *Service) CancelOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.book.Remove(id) {
		return ErrOrderNotFound
	}
	return nil
}

func (s *Service) PendingOrders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Pending()
}

func (s *Service) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.All()
}

// Watch adds a listed symbol to the watch set.
func (s *Service) Watch(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.market.Price(symbol); !ok {
		return ErrUnknownSymbol
	}
	s.watch.Add(symbol)
	return nil
}

func (s *Service) Unwatch(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watch.Remove(symbol)
}

// SetAlert arms a one-shot alert target on a listed symbol.
func (s *Service) SetAlert(symbol string, target float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.market.Price(symbol); !ok {
		return ErrUnknownSymbol
	}
	if target <= 0 {
		return ErrInvalidOrder
	}
	s.watch.SetAlert(symbol, target)
	return nil
}

func (s *Service) ClearAlert(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watch.ClearAlert(symbol)
}

func (s *Service) WatchItems() []model.WatchItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watch.Items()
}

func (s *Service) Username() string {
	return s.username
}

func (s *Service) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// NetWorth is cash plus the market value of all held positions.
func (s *Service) NetWorth() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance.Add(s.portfolio.MarketValue(s.market.Prices()))
}

// ProfitLoss is the unrealized P/L over all held positions.
func (s *Service) ProfitLoss() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio.UnrealizedPnL(s.market.Prices())
}

// Stocks lists the market's stocks with current prices, read under the
// service lock so the snapshot is consistent with in-flight ticks.
func (s *Service) Stocks() []model.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Stocks()
}

// StockHistory returns the bounded price history for symbol, nil for
// unlisted symbols.
func (s *Service) StockHistory(symbol string) []model.PricePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.History(symbol)
}

func (s *Service) Positions() []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio.Positions()
}

func (s *Service) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Snapshot freezes the account for persistence.
func (s *Service) Snapshot() model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make([]model.Transaction, len(s.transactions))
	copy(txs, s.transactions)
	return model.Account{
		Username:     s.username,
		Balance:      s.balance,
		Positions:    s.portfolio.Positions(),
		Orders:       s.book.All(),
		Watchlist:    s.watch.Items(),
		Transactions: txs,
	}
}
