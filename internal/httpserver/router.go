package httpserver

import (
	"net/http"

	"stocksim/internal/auth"
	"stocksim/internal/marketdata"
	"stocksim/internal/trading"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	AuthHandler    *auth.Handler
	MarketHandler  *marketdata.Handler
	TradingHandler *trading.Handler
	AuthService    *auth.Service
	WSHandler      http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", d.AuthHandler.Login)
		r.Get("/ws", d.WSHandler.ServeHTTP)
		r.Get("/market", d.MarketHandler.Stocks)
		r.Get("/market/{symbol}/history", func(w http.ResponseWriter, r *http.Request) {
			d.MarketHandler.History(w, r, chi.URLParam(r, "symbol"))
		})
		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Get("/account", d.TradingHandler.Account)
			r.Get("/portfolio", d.TradingHandler.Portfolio)
			r.Get("/transactions", d.TradingHandler.Transactions)
			r.Post("/trade/buy", d.TradingHandler.Buy)
			r.Post("/trade/sell", d.TradingHandler.Sell)
			r.Post("/orders", d.TradingHandler.PlaceOrder)
			r.Get("/orders", d.TradingHandler.ListOrders)
			r.Delete("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
				d.TradingHandler.CancelOrder(w, r, chi.URLParam(r, "id"))
			})
			r.Get("/watchlist", d.TradingHandler.Watchlist)
			r.Post("/watchlist", d.TradingHandler.Watch)
			r.Delete("/watchlist/{symbol}", func(w http.ResponseWriter, r *http.Request) {
				d.TradingHandler.Unwatch(w, r, chi.URLParam(r, "symbol"))
			})
			r.Post("/watchlist/{symbol}/alert", func(w http.ResponseWriter, r *http.Request) {
				d.TradingHandler.SetAlert(w, r, chi.URLParam(r, "symbol"))
			})
			r.Delete("/watchlist/{symbol}/alert", func(w http.ResponseWriter, r *http.Request) {
				d.TradingHandler.ClearAlert(w, r, chi.URLParam(r, "symbol"))
			})
			r.Post("/checkpoint", d.TradingHandler.Checkpoint)
		})
	})

	return r
}
