package marketdata

import (
	"net/http"
	"strings"

	"stocksim/internal/httputil"
	"stocksim/internal/model"
)

// MarketReader serves market snapshots consistent with in-flight ticks; the
// trading service implements it behind its own lock.
type MarketReader interface {
	Stocks() []model.Stock
	StockHistory(symbol string) []model.PricePoint
}

type Handler struct {
	market MarketReader
}

func NewHandler(market MarketReader) *Handler {
	return &Handler{market: market}
}

func (h *Handler) Stocks(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.market.Stocks())
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request, symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	points := h.market.StockHistory(symbol)
	if points == nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "unknown symbol"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, points)
}
