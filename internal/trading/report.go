package trading

import (
	"github.com/shopspring/decimal"
)

// PositionReport is one portfolio row priced at the current market.
type PositionReport struct {
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
	Price         float64         `json:"price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

// Report is the full portfolio valuation: cash, per-position rows and totals.
type Report struct {
	Balance       decimal.Decimal  `json:"balance"`
	Positions     []PositionReport `json:"positions"`
	MarketValue   decimal.Decimal  `json:"market_value"`
	UnrealizedPnL decimal.Decimal  `json:"unrealized_pnl"`
	NetWorth      decimal.Decimal  `json:"net_worth"`
}

// PortfolioReport values every held position at the current market price.
// Positions whose symbol is no longer listed are reported without pricing.
func (s *Service) PortfolioReport() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	prices := s.market.Prices()
	rep := Report{
		Balance:       s.balance,
		Positions:     make([]PositionReport, 0),
		MarketValue:   s.portfolio.MarketValue(prices),
		UnrealizedPnL: s.portfolio.UnrealizedPnL(prices),
	}
	for _, pos := range s.portfolio.Positions() {
		row := PositionReport{
			Symbol:   pos.Symbol,
			Quantity: pos.Quantity,
			AvgCost:  pos.AvgCost,
		}
		if price, ok := prices[pos.Symbol]; ok {
			qty := decimal.NewFromInt(pos.Quantity)
			row.Price = price
			row.MarketValue = decimal.NewFromFloat(price).Mul(qty)
			row.UnrealizedPnL = decimal.NewFromFloat(price).Sub(pos.AvgCost).Mul(qty)
		}
		rep.Positions = append(rep.Positions, row)
	}
	rep.NetWorth = rep.Balance.Add(rep.MarketValue)
	return rep
}
